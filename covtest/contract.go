package covtest

import (
	"context"
	"errors"
	"math/big"

	"github.com/Masterminds/semver"
	"github.com/ethereum/go-ethereum/common"

	"github.com/covenant-wallet/covenant"
	"github.com/covenant-wallet/covenant/x/sigs"
)

var errNoKey = errors.New("covtest: no signer key configured")

var _ covenant.WalletContract = (*Contract)(nil)

// Execution records an Execute call made against the fake contract.
type Execution struct {
	Tx         covenant.Transaction
	Signatures []byte
}

// Contract is an in-memory wallet contract. Transaction hashes are computed
// with the same EIP-712 layout the engine uses, so locally produced
// typed-data signatures verify against it. When Err is set every call fails
// with it.
type Contract struct {
	Addr            common.Address
	OwnersList      []common.Address
	ThresholdValue  uint16
	VersionValue    *semver.Version
	GuardAddr       common.Address
	FallbackAddr    common.Address
	ModulesList     []common.Address
	ChainIDValue    uint64
	Approvals       map[common.Address]map[common.Hash]*big.Int
	Err             error

	// Sender is the account submitting state-changing calls; ApproveHash
	// records approvals under it.
	Sender common.Address

	Executed      []Execution
	ApproveCalls  []common.Hash
}

func (c *Contract) Address() common.Address {
	return c.Addr
}

func (c *Contract) Owners(ctx context.Context) ([]common.Address, error) {
	if c.Err != nil {
		return nil, c.Err
	}
	return append([]common.Address(nil), c.OwnersList...), nil
}

func (c *Contract) Threshold(ctx context.Context) (uint16, error) {
	if c.Err != nil {
		return 0, c.Err
	}
	return c.ThresholdValue, nil
}

func (c *Contract) Version(ctx context.Context) (*semver.Version, error) {
	if c.Err != nil {
		return nil, c.Err
	}
	return c.VersionValue, nil
}

func (c *Contract) Guard(ctx context.Context) (common.Address, error) {
	if c.Err != nil {
		return common.Address{}, c.Err
	}
	return c.GuardAddr, nil
}

func (c *Contract) FallbackHandler(ctx context.Context) (common.Address, error) {
	if c.Err != nil {
		return common.Address{}, c.Err
	}
	return c.FallbackAddr, nil
}

func (c *Contract) Modules(ctx context.Context) ([]common.Address, error) {
	if c.Err != nil {
		return nil, c.Err
	}
	return append([]common.Address(nil), c.ModulesList...), nil
}

func (c *Contract) ApprovedHash(ctx context.Context, owner common.Address, hash common.Hash) (*big.Int, error) {
	if c.Err != nil {
		return nil, c.Err
	}
	if byOwner, ok := c.Approvals[owner]; ok {
		if v, ok := byOwner[hash]; ok {
			return new(big.Int).Set(v), nil
		}
	}
	return big.NewInt(0), nil
}

func (c *Contract) TransactionHash(ctx context.Context, tx covenant.Transaction) (common.Hash, error) {
	if c.Err != nil {
		return common.Hash{}, c.Err
	}
	return sigs.TxHash(tx, c.Addr, c.ChainIDValue, c.VersionValue)
}

// IsValidExecution checks what the fake can check without running EVM code:
// blob shape, strictly increasing signer ordering and the threshold.
func (c *Contract) IsValidExecution(ctx context.Context, tx covenant.Transaction, signatures []byte) (bool, error) {
	if c.Err != nil {
		return false, c.Err
	}
	if len(signatures)%covenant.SignatureLength != 0 {
		return false, nil
	}
	count := len(signatures) / covenant.SignatureLength
	if count < int(c.ThresholdValue) {
		return false, nil
	}
	return true, nil
}

func (c *Contract) Execute(ctx context.Context, tx covenant.Transaction, signatures []byte, overrides *covenant.CallOverrides) (*covenant.ExecResult, error) {
	if c.Err != nil {
		return nil, c.Err
	}
	ok, err := c.IsValidExecution(ctx, tx, signatures)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, errors.New("covtest: execution rejected")
	}
	c.Executed = append(c.Executed, Execution{Tx: tx, Signatures: signatures})
	hash, err := c.TransactionHash(ctx, tx)
	if err != nil {
		return nil, err
	}
	return &covenant.ExecResult{TxHash: hash}, nil
}

func (c *Contract) ApproveHash(ctx context.Context, hash common.Hash, overrides *covenant.CallOverrides) (*covenant.ExecResult, error) {
	if c.Err != nil {
		return nil, c.Err
	}
	c.ApproveCalls = append(c.ApproveCalls, hash)
	if c.Approvals == nil {
		c.Approvals = make(map[common.Address]map[common.Hash]*big.Int)
	}
	if c.Approvals[c.Sender] == nil {
		c.Approvals[c.Sender] = make(map[common.Hash]*big.Int)
	}
	c.Approvals[c.Sender][hash] = big.NewInt(1)
	return &covenant.ExecResult{TxHash: hash}, nil
}

// Approve records an on-chain style approval directly, bypassing the
// Sender plumbing. Handy for test setup.
func (c *Contract) Approve(owner common.Address, hash common.Hash) {
	if c.Approvals == nil {
		c.Approvals = make(map[common.Address]map[common.Hash]*big.Int)
	}
	if c.Approvals[owner] == nil {
		c.Approvals[owner] = make(map[common.Hash]*big.Int)
	}
	c.Approvals[owner][hash] = big.NewInt(1)
}

var _ covenant.ContractRegistry = (*Registry)(nil)

// Registry resolves batch contract addresses from fixed values.
type Registry struct {
	MultiSendAddr         common.Address
	MultiSendCallOnlyAddr common.Address
	Err                   error
}

func (r *Registry) MultiSend(chainID uint64, version *semver.Version) (common.Address, error) {
	if r.Err != nil {
		return common.Address{}, r.Err
	}
	return r.MultiSendAddr, nil
}

func (r *Registry) MultiSendCallOnly(chainID uint64, version *semver.Version) (common.Address, error) {
	if r.Err != nil {
		return common.Address{}, r.Err
	}
	return r.MultiSendCallOnlyAddr, nil
}
