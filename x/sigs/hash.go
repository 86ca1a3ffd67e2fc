package sigs

import (
	"math/big"

	"github.com/Masterminds/semver"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/common/math"
	"github.com/ethereum/go-ethereum/signer/core/apitypes"

	"github.com/covenant-wallet/covenant"
	"github.com/covenant-wallet/covenant/errors"
)

// primaryType is the EIP-712 struct name of a wallet transaction. It is
// fixed by the verifying contract.
const primaryType = "SafeTx"

// TypedData builds the EIP-712 typed data of a wallet transaction. Contract
// versions that predate the chain id domain use a domain with only the
// verifying contract; newer versions include the chain id. The struct fields
// and their order are fixed by the verifying contract.
func TypedData(tx covenant.Transaction, wallet common.Address, chainID uint64, version *semver.Version) apitypes.TypedData {
	domainFields := []apitypes.Type{
		{Name: "verifyingContract", Type: "address"},
	}
	domain := apitypes.TypedDataDomain{
		VerifyingContract: wallet.Hex(),
	}
	if covenant.Supports(covenant.CapabilityChainIDDomain, version) {
		domainFields = []apitypes.Type{
			{Name: "chainId", Type: "uint256"},
			{Name: "verifyingContract", Type: "address"},
		}
		domain.ChainId = math.NewHexOrDecimal256(int64(chainID))
	}

	return apitypes.TypedData{
		Types: apitypes.Types{
			"EIP712Domain": domainFields,
			primaryType: []apitypes.Type{
				{Name: "to", Type: "address"},
				{Name: "value", Type: "uint256"},
				{Name: "data", Type: "bytes"},
				{Name: "operation", Type: "uint8"},
				{Name: "safeTxGas", Type: "uint256"},
				{Name: "baseGas", Type: "uint256"},
				{Name: "gasPrice", Type: "uint256"},
				{Name: "gasToken", Type: "address"},
				{Name: "refundReceiver", Type: "address"},
				{Name: "nonce", Type: "uint256"},
			},
		},
		PrimaryType: primaryType,
		Domain:      domain,
		Message: apitypes.TypedDataMessage{
			"to":             tx.To.Hex(),
			"value":          (*math.HexOrDecimal256)(tx.Value),
			"data":           hexutil.Encode(tx.Data),
			"operation":      math.NewHexOrDecimal256(int64(tx.Operation)),
			"safeTxGas":      (*math.HexOrDecimal256)(tx.SafeTxGas),
			"baseGas":        (*math.HexOrDecimal256)(tx.BaseGas),
			"gasPrice":       (*math.HexOrDecimal256)(tx.GasPrice),
			"gasToken":       tx.GasToken.Hex(),
			"refundReceiver": tx.RefundReceiver.Hex(),
			"nonce":          (*math.HexOrDecimal256)(new(big.Int).SetUint64(tx.Nonce)),
		},
	}
}

// TxHash computes the EIP-712 digest the contract verifies signatures
// against. It must match the contract's own getTransactionHash exactly; any
// deviation surfaces as an on-chain validation failure, not a local error.
func TxHash(tx covenant.Transaction, wallet common.Address, chainID uint64, version *semver.Version) (common.Hash, error) {
	if err := tx.Validate(); err != nil {
		return common.Hash{}, err
	}
	digest, _, err := apitypes.TypedDataAndHash(TypedData(tx, wallet, chainID, version))
	if err != nil {
		return common.Hash{}, errors.Wrap(err, "typed data hash")
	}
	return common.BytesToHash(digest), nil
}
