/*

Package gov validates and encodes the owner, threshold, module, guard and
fallback handler mutations of the wallet.

Every mutation is checked against a State snapshot of the current on-chain
configuration before it is encoded as call data. The snapshot is read once
by the caller and passed in, which keeps this package pure. The read then
validate then encode sequence is advisory: the chain can change between the
read and a later submission, and the final on-chain verification is the one
that counts. Callers must re-validate before submitting stale transactions.

This package never produces signatures and never executes anything.

*/
package gov
