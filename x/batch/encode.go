package batch

import (
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"

	"github.com/covenant-wallet/covenant"
	"github.com/covenant-wallet/covenant/errors"
)

// callHeadLength is the fixed size of an encoded call before its data:
// 1 byte operation, 20 bytes target, 32 bytes value, 32 bytes data length.
const callHeadLength = 1 + common.AddressLength + 32 + 32

// Encode packs the calls into a single multi-send payload. The encoding is
// deterministic and order-sensitive: reordering two distinct calls changes
// the output.
func Encode(calls []covenant.TransactionCall) ([]byte, error) {
	if len(calls) == 0 {
		return nil, errors.Wrap(errors.ErrEmptyBatch, "nothing to encode")
	}

	size := 0
	for _, call := range calls {
		size += callHeadLength + len(call.Data)
	}

	out := make([]byte, 0, size)
	for i, call := range calls {
		if err := call.Validate(); err != nil {
			return nil, errors.Wrapf(err, "call %d", i)
		}

		value := call.Value
		if value == nil {
			value = big.NewInt(0)
		}

		out = append(out, byte(call.Operation))
		out = append(out, call.To.Bytes()...)
		out = append(out, common.LeftPadBytes(value.Bytes(), 32)...)
		out = append(out, common.LeftPadBytes(big.NewInt(int64(len(call.Data))).Bytes(), 32)...)
		out = append(out, call.Data...)
	}
	return out, nil
}

// multiSendABI is the single entry point of both batch contract flavors.
var multiSendABI = mustParseABI(`[{"inputs":[{"internalType":"bytes","name":"transactions","type":"bytes"}],"name":"multiSend","outputs":[],"stateMutability":"payable","type":"function"}]`)

// ContractCall wraps an encoded payload as multiSend(bytes) calldata, ready
// to be used as the data of a delegate call to a batch contract.
func ContractCall(payload []byte) ([]byte, error) {
	if len(payload) == 0 {
		return nil, errors.Wrap(errors.ErrEmptyBatch, "empty payload")
	}
	data, err := multiSendABI.Pack("multiSend", payload)
	if err != nil {
		return nil, errors.Wrap(err, "pack multiSend")
	}
	return data, nil
}

func mustParseABI(def string) abi.ABI {
	parsed, err := abi.JSON(strings.NewReader(def))
	if err != nil {
		panic(err)
	}
	return parsed
}
