package client

import (
	"context"
	"math/big"

	"github.com/Masterminds/semver"
	"github.com/ethereum/go-ethereum/common"
	"github.com/rs/zerolog"

	"github.com/covenant-wallet/covenant"
	"github.com/covenant-wallet/covenant/errors"
	"github.com/covenant-wallet/covenant/x/gov"
)

// Wallet drives a deployed M-of-N wallet contract through narrow adapter
// interfaces so it can run against any RPC client or a test fake.
type Wallet struct {
	chain    covenant.ChainAdapter
	contract covenant.WalletContract
	registry covenant.ContractRegistry

	// Read once at construction; both are immutable for a deployment.
	chainID uint64
	version *semver.Version

	log           zerolog.Logger
	callOnlyBatch bool
}

// Option configures a Wallet.
type Option func(*Wallet)

// WithLogger attaches a logger. The default discards everything.
func WithLogger(log zerolog.Logger) Option {
	return func(w *Wallet) { w.log = log }
}

// WithCallOnlyBatch routes batches through the call-only batch contract,
// which rejects delegate calls inside the batch. This is a policy choice of
// the caller, not derivable from the batched data.
func WithCallOnlyBatch() Option {
	return func(w *Wallet) { w.callOnlyBatch = true }
}

// New connects a Wallet to a deployed contract. The chain id and contract
// version are read here, once.
func New(ctx context.Context, chain covenant.ChainAdapter, contract covenant.WalletContract, registry covenant.ContractRegistry, opts ...Option) (*Wallet, error) {
	w := &Wallet{
		chain:    chain,
		contract: contract,
		registry: registry,
		log:      zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(w)
	}

	var err error
	if w.chainID, err = chain.ChainID(ctx); err != nil {
		return nil, errors.Wrap(err, "chain id")
	}
	if w.version, err = contract.Version(ctx); err != nil {
		return nil, errors.Wrap(err, "contract version")
	}
	return w, nil
}

// Address returns the deployed wallet address.
func (w *Wallet) Address() common.Address {
	return w.contract.Address()
}

// ChainID returns the chain the wallet is deployed on.
func (w *Wallet) ChainID() uint64 {
	return w.chainID
}

// Version returns the deployed contract version.
func (w *Wallet) Version() *semver.Version {
	return w.version
}

// Supports reports whether the deployed contract provides a capability.
func (w *Wallet) Supports(c covenant.Capability) bool {
	return covenant.Supports(c, w.version)
}

// Balance returns the wallet's current balance.
func (w *Wallet) Balance(ctx context.Context) (*big.Int, error) {
	b, err := w.chain.Balance(ctx, w.contract.Address())
	return b, errors.Wrap(err, "balance")
}

// IsDeployed reports whether code exists at the wallet address.
func (w *Wallet) IsDeployed(ctx context.Context) (bool, error) {
	ok, err := w.chain.IsContractDeployed(ctx, w.contract.Address())
	return ok, errors.Wrap(err, "code lookup")
}

// State reads the wallet's current governance configuration in one
// snapshot.
func (w *Wallet) State(ctx context.Context) (gov.State, error) {
	s := gov.State{
		Wallet:  w.contract.Address(),
		Version: w.version,
	}

	var err error
	if s.Owners, err = w.contract.Owners(ctx); err != nil {
		return gov.State{}, errors.Wrap(err, "owners")
	}
	if s.Threshold, err = w.contract.Threshold(ctx); err != nil {
		return gov.State{}, errors.Wrap(err, "threshold")
	}
	if s.Guard, err = w.contract.Guard(ctx); err != nil {
		return gov.State{}, errors.Wrap(err, "guard")
	}
	if s.FallbackHandler, err = w.contract.FallbackHandler(ctx); err != nil {
		return gov.State{}, errors.Wrap(err, "fallback handler")
	}
	if s.Modules, err = w.contract.Modules(ctx); err != nil {
		return gov.State{}, errors.Wrap(err, "modules")
	}
	return s, nil
}
