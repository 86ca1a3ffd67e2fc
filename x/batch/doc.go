/*

Package batch packs an ordered sequence of wallet calls into the single
payload executed atomically by the multi-send contract.

The byte layout per call is fixed by the contract and any deviation is a
silent on-chain validation failure, not a local error:

	operation | to       | value              | len(data)          | data
	1 byte    | 20 bytes | 32 bytes bigendian | 32 bytes bigendian | variable

Entries are concatenated in sequence order without padding. The payload is
always submitted through the contract's multiSend(bytes) entry point;
ContractCall wraps it accordingly.

*/
package batch
