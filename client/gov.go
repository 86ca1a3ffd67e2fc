package client

import (
	"context"

	"github.com/ethereum/go-ethereum/common"

	"github.com/covenant-wallet/covenant"
	"github.com/covenant-wallet/covenant/errors"
	"github.com/covenant-wallet/covenant/x/gov"
)

// The governance builders read the current on-chain configuration once,
// validate the mutation against it and return the canonical transaction
// encoding the change. Nothing is signed or submitted here; the chain can
// change between this read and a later submission, so the final on-chain
// verification is authoritative.

// Local input validation runs before the state read, so a malformed address
// never costs an external call.

// AddOwner builds a transaction adding an owner. A nil threshold keeps the
// current one.
func (w *Wallet) AddOwner(ctx context.Context, owner common.Address, threshold *uint16, opts *covenant.TxOptions) (covenant.Transaction, error) {
	if err := covenant.ValidateEntryAddress(owner); err != nil {
		return covenant.Transaction{}, err
	}
	return w.governanceTx(ctx, opts, func(s gov.State) (covenant.TransactionCall, error) {
		return gov.AddOwner(s, owner, threshold)
	})
}

// RemoveOwner builds a transaction removing an owner. A nil threshold keeps
// the current one, lowered to the remaining owner count when needed.
func (w *Wallet) RemoveOwner(ctx context.Context, owner common.Address, threshold *uint16, opts *covenant.TxOptions) (covenant.Transaction, error) {
	if err := covenant.ValidateEntryAddress(owner); err != nil {
		return covenant.Transaction{}, err
	}
	return w.governanceTx(ctx, opts, func(s gov.State) (covenant.TransactionCall, error) {
		return gov.RemoveOwner(s, owner, threshold)
	})
}

// SwapOwner builds a transaction replacing oldOwner with newOwner.
func (w *Wallet) SwapOwner(ctx context.Context, oldOwner, newOwner common.Address, opts *covenant.TxOptions) (covenant.Transaction, error) {
	if err := covenant.ValidateEntryAddress(oldOwner); err != nil {
		return covenant.Transaction{}, errors.Wrap(err, "old owner")
	}
	if err := covenant.ValidateEntryAddress(newOwner); err != nil {
		return covenant.Transaction{}, errors.Wrap(err, "new owner")
	}
	return w.governanceTx(ctx, opts, func(s gov.State) (covenant.TransactionCall, error) {
		return gov.SwapOwner(s, oldOwner, newOwner)
	})
}

// ChangeThreshold builds a transaction changing the signature threshold.
func (w *Wallet) ChangeThreshold(ctx context.Context, threshold uint16, opts *covenant.TxOptions) (covenant.Transaction, error) {
	return w.governanceTx(ctx, opts, func(s gov.State) (covenant.TransactionCall, error) {
		return gov.ChangeThreshold(s, threshold)
	})
}

// EnableModule builds a transaction enabling a module.
func (w *Wallet) EnableModule(ctx context.Context, module common.Address, opts *covenant.TxOptions) (covenant.Transaction, error) {
	if err := covenant.ValidateEntryAddress(module); err != nil {
		return covenant.Transaction{}, err
	}
	return w.governanceTx(ctx, opts, func(s gov.State) (covenant.TransactionCall, error) {
		return gov.EnableModule(s, module)
	})
}

// DisableModule builds a transaction disabling a module.
func (w *Wallet) DisableModule(ctx context.Context, module common.Address, opts *covenant.TxOptions) (covenant.Transaction, error) {
	if err := covenant.ValidateEntryAddress(module); err != nil {
		return covenant.Transaction{}, err
	}
	return w.governanceTx(ctx, opts, func(s gov.State) (covenant.TransactionCall, error) {
		return gov.DisableModule(s, module)
	})
}

// EnableGuard builds a transaction setting the transaction guard.
func (w *Wallet) EnableGuard(ctx context.Context, guard common.Address, opts *covenant.TxOptions) (covenant.Transaction, error) {
	if err := covenant.ValidateEntryAddress(guard); err != nil {
		return covenant.Transaction{}, err
	}
	return w.governanceTx(ctx, opts, func(s gov.State) (covenant.TransactionCall, error) {
		return gov.EnableGuard(s, guard)
	})
}

// DisableGuard builds a transaction removing the transaction guard.
func (w *Wallet) DisableGuard(ctx context.Context, opts *covenant.TxOptions) (covenant.Transaction, error) {
	return w.governanceTx(ctx, opts, gov.DisableGuard)
}

// EnableFallbackHandler builds a transaction setting the fallback handler.
func (w *Wallet) EnableFallbackHandler(ctx context.Context, handler common.Address, opts *covenant.TxOptions) (covenant.Transaction, error) {
	if err := covenant.ValidateEntryAddress(handler); err != nil {
		return covenant.Transaction{}, err
	}
	return w.governanceTx(ctx, opts, func(s gov.State) (covenant.TransactionCall, error) {
		return gov.EnableFallbackHandler(s, handler)
	})
}

// DisableFallbackHandler builds a transaction removing the fallback
// handler.
func (w *Wallet) DisableFallbackHandler(ctx context.Context, opts *covenant.TxOptions) (covenant.Transaction, error) {
	return w.governanceTx(ctx, opts, gov.DisableFallbackHandler)
}

func (w *Wallet) governanceTx(ctx context.Context, opts *covenant.TxOptions, build func(gov.State) (covenant.TransactionCall, error)) (covenant.Transaction, error) {
	state, err := w.State(ctx)
	if err != nil {
		return covenant.Transaction{}, err
	}
	call, err := build(state)
	if err != nil {
		return covenant.Transaction{}, err
	}
	return w.StandardizeCall(ctx, call, opts)
}
