package client

import (
	"context"

	"github.com/ethereum/go-ethereum/common"

	"github.com/covenant-wallet/covenant"
	"github.com/covenant-wallet/covenant/errors"
	"github.com/covenant-wallet/covenant/x/sigs"
)

// SignMethod selects how the active signer signs a transaction.
type SignMethod string

const (
	// SignMethodEthSign signs the contract transaction hash as a
	// personal message.
	SignMethodEthSign SignMethod = "eth_sign"
	// SignMethodTypedDataV3 and SignMethodTypedDataV4 sign the EIP-712
	// structured transaction using the respective wallet RPC convention.
	// The convention shapes only the request, never the hash.
	SignMethodTypedDataV3 SignMethod = "eth_signTypedData_v3"
	SignMethodTypedDataV4 SignMethod = "eth_signTypedData_v4"
)

// SignTransaction obtains the active signer's signature for the aggregate's
// transaction and adds it to the aggregate.
func (w *Wallet) SignTransaction(ctx context.Context, agg *covenant.Aggregate, method SignMethod) error {
	var sig covenant.Signature
	var err error

	switch method {
	case SignMethodEthSign:
		var hash common.Hash
		if hash, err = w.contract.TransactionHash(ctx, agg.Data()); err != nil {
			return errors.Wrap(err, "transaction hash")
		}
		sig, err = sigs.SignHash(ctx, w.chain, hash, w.version)
	case SignMethodTypedDataV3:
		sig, err = sigs.SignTypedData(ctx, w.chain, agg.Data(), w.contract.Address(), w.version, covenant.TypedDataV3)
	case SignMethodTypedDataV4:
		sig, err = sigs.SignTypedData(ctx, w.chain, agg.Data(), w.contract.Address(), w.version, covenant.TypedDataV4)
	default:
		return errors.Wrapf(errors.ErrInput, "unknown signing method %q", method)
	}
	if err != nil {
		return err
	}

	w.log.Debug().Str("signer", sig.Signer.Hex()).Str("kind", sig.Kind.String()).Msg("collected signature")
	return agg.AddSignature(sig)
}

// ApproveTransactionHash records the active signer's on-chain approval of
// the aggregate's transaction hash. The approval later surfaces as a
// pre-validated signature during assembly.
func (w *Wallet) ApproveTransactionHash(ctx context.Context, agg *covenant.Aggregate, overrides *covenant.CallOverrides) (*covenant.ExecResult, error) {
	hash, err := w.contract.TransactionHash(ctx, agg.Data())
	if err != nil {
		return nil, errors.Wrap(err, "transaction hash")
	}
	res, err := w.contract.ApproveHash(ctx, hash, overrides)
	return res, errors.Wrap(err, "approve hash")
}

// AssembleForExecution produces the signature blob the contract will accept
// for the aggregate's transaction, or fails when the threshold cannot be
// met.
//
// The caller's aggregate is never mutated: assembly works on a copy,
// injects a pre-validated signature for every owner whose on-chain approval
// of the transaction hash exists, injects one for the active signer when it
// is an owner, and then checks the threshold.
func (w *Wallet) AssembleForExecution(ctx context.Context, agg *covenant.Aggregate) ([]byte, error) {
	cp := agg.Copy()

	threshold, err := w.contract.Threshold(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "threshold")
	}
	owners, err := w.contract.Owners(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "owners")
	}
	hash, err := w.contract.TransactionHash(ctx, cp.Data())
	if err != nil {
		return nil, errors.Wrap(err, "transaction hash")
	}

	for _, owner := range owners {
		if cp.HasSigner(owner) {
			continue
		}
		approved, err := w.contract.ApprovedHash(ctx, owner, hash)
		if err != nil {
			return nil, errors.Wrapf(err, "approved hash of %s", owner)
		}
		if approved.Sign() > 0 {
			if err := cp.AddSignature(covenant.NewPreValidatedSignature(owner)); err != nil {
				return nil, err
			}
		}
	}

	signer, ok, err := w.chain.SignerAddress(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "signer address")
	}
	if ok && !cp.HasSigner(signer) && isOwner(owners, signer) {
		if err := cp.AddSignature(covenant.NewPreValidatedSignature(signer)); err != nil {
			return nil, err
		}
	}

	if missing := int(threshold) - cp.SignatureCount(); missing > 0 {
		if missing == 1 {
			return nil, errors.Wrap(errors.ErrInsufficientSignatures, "1 more signature is needed")
		}
		return nil, errors.Wrapf(errors.ErrInsufficientSignatures, "%d more signatures are needed", missing)
	}

	w.log.Debug().Int("signatures", cp.SignatureCount()).Uint16("threshold", threshold).Msg("assembled execution blob")
	return cp.EncodeSignatures(), nil
}

// IsValidTransaction runs the contract's validity check against the
// assembled blob without submitting anything.
func (w *Wallet) IsValidTransaction(ctx context.Context, agg *covenant.Aggregate) (bool, error) {
	blob, err := w.AssembleForExecution(ctx, agg)
	if err != nil {
		return false, err
	}
	ok, err := w.contract.IsValidExecution(ctx, agg.Data(), blob)
	return ok, errors.Wrap(err, "validity check")
}

// ExecuteTransaction assembles the signature blob and submits the
// transaction.
func (w *Wallet) ExecuteTransaction(ctx context.Context, agg *covenant.Aggregate, overrides *covenant.CallOverrides) (*covenant.ExecResult, error) {
	blob, err := w.AssembleForExecution(ctx, agg)
	if err != nil {
		return nil, err
	}
	res, err := w.contract.Execute(ctx, agg.Data(), blob, overrides)
	if err != nil {
		return nil, errors.Wrap(err, "execute")
	}
	w.log.Debug().Str("tx", res.TxHash.Hex()).Msg("submitted execution")
	return res, nil
}

func isOwner(owners []common.Address, a common.Address) bool {
	for _, owner := range owners {
		if owner == a {
			return true
		}
	}
	return false
}
