/*

Package client composes the batch encoder, the signing engine and the
governance policy against a live wallet contract.

A Wallet is stateless between calls: every operation performs a small fixed
number of sequential reads through the chain adapter and contract binding
and returns. Concurrent callers building aggregates from the same data do
not interfere. The chain id and contract version are read once at
construction because they are immutable for a deployment.

*/
package client
