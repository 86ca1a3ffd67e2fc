/*

Package sigs produces and verifies the signatures accepted by the wallet's
on-chain verifier.

Three signature kinds exist. Raw-hash signatures are ECDSA signatures over
the personal-message digest of the transaction hash; the recovery byte is
shifted by 4 so the verifier can tell them apart from typed-data signatures.
Typed-data signatures are ECDSA signatures over the EIP-712 structured hash
of the transaction; the domain layout depends on the contract version.
Pre-validated signatures are synthetic and constructed in the root package.

Every signature produced here is checked against the address recovered from
its own bytes before it is returned. A signer claim is never trusted.

*/
package sigs
