/*

Package covtest provides in-memory implementations of the chain adapter,
wallet contract and contract registry interfaces, plus key helpers. The fake
adapter signs with a real secp256k1 key so that recovery paths are exercised
genuinely instead of being stubbed.

*/
package covtest
