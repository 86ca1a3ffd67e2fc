package client

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"github.com/covenant-wallet/covenant"
	"github.com/covenant-wallet/covenant/errors"
	"github.com/covenant-wallet/covenant/x/batch"
)

// Standardize turns one or more calls into the canonical transaction form.
// A single call keeps its operation; more than one call is packed into a
// multi-send payload executed as a single delegate call to the batch
// contract. The nonce is the only value read from the chain, and only when
// the options do not pin one.
func (w *Wallet) Standardize(ctx context.Context, calls []covenant.TransactionCall, opts *covenant.TxOptions) (covenant.Transaction, error) {
	var base covenant.TransactionCall
	switch len(calls) {
	case 0:
		return covenant.Transaction{}, errors.Wrap(errors.ErrEmptyBatch, "standardize")
	case 1:
		base = calls[0]
	default:
		var err error
		if base, err = w.batchCall(calls); err != nil {
			return covenant.Transaction{}, err
		}
	}
	return w.resolve(ctx, base, opts)
}

// StandardizeCall is Standardize for a caller that already holds a single
// call value.
func (w *Wallet) StandardizeCall(ctx context.Context, call covenant.TransactionCall, opts *covenant.TxOptions) (covenant.Transaction, error) {
	return w.resolve(ctx, call, opts)
}

// CreateTransaction standardizes the calls and wraps the result in an
// aggregate with an empty signature set.
func (w *Wallet) CreateTransaction(ctx context.Context, calls []covenant.TransactionCall, opts *covenant.TxOptions) (*covenant.Aggregate, error) {
	tx, err := w.Standardize(ctx, calls, opts)
	if err != nil {
		return nil, err
	}
	return covenant.NewAggregate(tx), nil
}

// batchCall packs the calls and wraps them as a delegate call to the batch
// contract chosen by the call-only policy flag.
func (w *Wallet) batchCall(calls []covenant.TransactionCall) (covenant.TransactionCall, error) {
	payload, err := batch.Encode(calls)
	if err != nil {
		return covenant.TransactionCall{}, err
	}
	data, err := batch.ContractCall(payload)
	if err != nil {
		return covenant.TransactionCall{}, err
	}

	var target common.Address
	if w.callOnlyBatch {
		target, err = w.registry.MultiSendCallOnly(w.chainID, w.version)
	} else {
		target, err = w.registry.MultiSend(w.chainID, w.version)
	}
	if err != nil {
		return covenant.TransactionCall{}, errors.Wrap(err, "batch contract lookup")
	}

	w.log.Debug().Int("calls", len(calls)).Str("target", target.Hex()).Msg("packed multi-send batch")

	return covenant.TransactionCall{
		To:        target,
		Value:     big.NewInt(0),
		Data:      data,
		Operation: covenant.OperationDelegateCall,
	}, nil
}

// resolve merges a call with the options and fills every remaining default
// so the result satisfies the canonical transaction invariant.
func (w *Wallet) resolve(ctx context.Context, call covenant.TransactionCall, opts *covenant.TxOptions) (covenant.Transaction, error) {
	if err := call.Validate(); err != nil {
		return covenant.Transaction{}, err
	}
	if opts == nil {
		opts = &covenant.TxOptions{}
	}

	tx := covenant.Transaction{
		TransactionCall: call,
		SafeTxGas:       defaultBig(opts.SafeTxGas),
		BaseGas:         defaultBig(opts.BaseGas),
		GasPrice:        defaultBig(opts.GasPrice),
	}
	if tx.Value == nil {
		tx.Value = big.NewInt(0)
	}
	if tx.Data == nil {
		tx.Data = []byte{}
	}
	if opts.GasToken != nil {
		tx.GasToken = *opts.GasToken
	}
	if opts.RefundReceiver != nil {
		tx.RefundReceiver = *opts.RefundReceiver
	}

	if opts.Nonce != nil {
		tx.Nonce = *opts.Nonce
	} else {
		nonce, err := w.chain.Nonce(ctx, w.contract.Address())
		if err != nil {
			return covenant.Transaction{}, errors.Wrap(err, "nonce")
		}
		tx.Nonce = nonce
	}

	if err := tx.Validate(); err != nil {
		return covenant.Transaction{}, err
	}
	return tx, nil
}

func defaultBig(v *big.Int) *big.Int {
	if v == nil {
		return big.NewInt(0)
	}
	return new(big.Int).Set(v)
}

// TransactionFields is the flat, foreign shape of a wallet transaction as
// delivered by external services. Every field maps 1:1 onto the canonical
// form.
type TransactionFields struct {
	To             common.Address
	Value          *big.Int
	Data           []byte
	Operation      uint8
	SafeTxGas      *big.Int
	BaseGas        *big.Int
	GasPrice       *big.Int
	GasToken       common.Address
	RefundReceiver common.Address
	Nonce          uint64
}

// TransactionFromFields converts an externally received transaction into
// the canonical form, field by field. Nil numeric fields become zero so the
// canonical invariant holds.
func TransactionFromFields(f TransactionFields) (covenant.Transaction, error) {
	tx := covenant.Transaction{
		TransactionCall: covenant.TransactionCall{
			To:        f.To,
			Value:     defaultBig(f.Value),
			Data:      f.Data,
			Operation: covenant.Operation(f.Operation),
		},
		SafeTxGas:      defaultBig(f.SafeTxGas),
		BaseGas:        defaultBig(f.BaseGas),
		GasPrice:       defaultBig(f.GasPrice),
		GasToken:       f.GasToken,
		RefundReceiver: f.RefundReceiver,
		Nonce:          f.Nonce,
	}
	if tx.Data == nil {
		tx.Data = []byte{}
	}
	if err := tx.Validate(); err != nil {
		return covenant.Transaction{}, err
	}
	return tx, nil
}
