package covenant

import (
	"context"
	"math/big"

	"github.com/Masterminds/semver"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/signer/core/apitypes"
)

// TypedDataMethod selects the wallet RPC convention used for a typed-data
// signing request. It shapes only the external call, never the resulting
// hash.
type TypedDataMethod string

const (
	TypedDataV3 TypedDataMethod = "eth_signTypedData_v3"
	TypedDataV4 TypedDataMethod = "eth_signTypedData_v4"
)

// ChainAdapter is the minimal chain access the engine needs. Implementations
// wrap an RPC client, a hardware wallet, a browser wallet bridge or a test
// fake. All failures must be returned as-is; the engine wraps them and never
// retries.
type ChainAdapter interface {
	// Nonce returns the next transaction nonce of the given account.
	Nonce(ctx context.Context, account common.Address) (uint64, error)
	// ChainID returns the chain the adapter is connected to.
	ChainID(ctx context.Context) (uint64, error)
	// Balance returns the current balance of the given account.
	Balance(ctx context.Context, account common.Address) (*big.Int, error)
	// SignerAddress returns the active signer, if any.
	SignerAddress(ctx context.Context) (common.Address, bool, error)
	// SignHash signs the given hash as a personal message (EIP-191
	// prefixed) with the active signer and returns the 65 byte result.
	SignHash(ctx context.Context, hash common.Hash) ([]byte, error)
	// SignTypedData signs EIP-712 typed data with the active signer using
	// the requested wallet RPC convention.
	SignTypedData(ctx context.Context, data apitypes.TypedData, method TypedDataMethod) ([]byte, error)
	// IsContractDeployed reports whether code is deployed at the address.
	IsContractDeployed(ctx context.Context, account common.Address) (bool, error)
}

// ExecResult reports a submitted contract call.
type ExecResult struct {
	TxHash common.Hash
}

// CallOverrides tune the outer chain transaction that carries a contract
// call. Nil fields are resolved by the adapter.
type CallOverrides struct {
	GasLimit             uint64
	GasPrice             *big.Int
	MaxFeePerGas         *big.Int
	MaxPriorityFeePerGas *big.Int
	Nonce                *uint64
}

// WalletContract is the engine's view of the deployed wallet contract.
type WalletContract interface {
	// Address returns the deployed wallet address.
	Address() common.Address
	// Owners returns the current owner set.
	Owners(ctx context.Context) ([]common.Address, error)
	// Threshold returns the number of owner signatures required to
	// execute a transaction.
	Threshold(ctx context.Context) (uint16, error)
	// Version returns the deployed contract version.
	Version(ctx context.Context) (*semver.Version, error)
	// Guard returns the configured transaction guard, or the zero
	// address.
	Guard(ctx context.Context) (common.Address, error)
	// FallbackHandler returns the configured fallback handler, or the
	// zero address.
	FallbackHandler(ctx context.Context) (common.Address, error)
	// Modules returns the enabled modules in linked list order.
	Modules(ctx context.Context) ([]common.Address, error)
	// ApprovedHash returns a non-zero value if the owner approved the
	// transaction hash on-chain.
	ApprovedHash(ctx context.Context, owner common.Address, hash common.Hash) (*big.Int, error)
	// TransactionHash returns the hash the contract will verify
	// signatures against for the given transaction.
	TransactionHash(ctx context.Context, tx Transaction) (common.Hash, error)
	// IsValidExecution performs the contract's signature and threshold
	// check without submitting anything.
	IsValidExecution(ctx context.Context, tx Transaction, signatures []byte) (bool, error)
	// Execute submits the transaction with the given signature blob.
	Execute(ctx context.Context, tx Transaction, signatures []byte, overrides *CallOverrides) (*ExecResult, error)
	// ApproveHash records the active signer's approval of the hash
	// on-chain.
	ApproveHash(ctx context.Context, hash common.Hash, overrides *CallOverrides) (*ExecResult, error)
}

// ContractRegistry resolves the support contract deployments for a chain and
// wallet version.
type ContractRegistry interface {
	// MultiSend returns the general batch contract, which permits
	// delegate calls inside the batch.
	MultiSend(chainID uint64, version *semver.Version) (common.Address, error)
	// MultiSendCallOnly returns the batch contract that rejects delegate
	// calls inside the batch.
	MultiSendCallOnly(chainID uint64, version *semver.Version) (common.Address, error)
}
