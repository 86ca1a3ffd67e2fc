/*

Package errors implements the classified errors used across covenant.

Each failure wraps one of the registered root errors declared in this
package. Root errors group into four classes by their code: validation (1xx,
bad input caught before any external call), authorization (2xx, the caller
must obtain more signatures or authorization), version (3xx, the deployed
contract does not support a capability) and external (4xx, chain adapter or
contract call failures, propagated with their cause preserved).

Use the root error Is method to classify a failure:

	if errors.ErrThreshold.Is(err) { ... }

*/
package errors
