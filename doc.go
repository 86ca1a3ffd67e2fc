/*

Package covenant defines the core data model of an M-of-N smart-contract
wallet transaction engine: transaction calls and their canonical form, the
signature variants understood by the on-chain verifier, the aggregate that
collects signatures for a transaction, the capability gate keyed on contract
versions, and the narrow interfaces through which the engine talks to a
chain.

Look into the x packages for the batch encoder, the signing engine and the
governance policy, and into the client package for the composition of all of
them against a live wallet contract.

*/
package covenant
