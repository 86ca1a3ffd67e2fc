package sigs

import (
	"bytes"
	"context"
	"sort"

	"github.com/Masterminds/semver"
	"github.com/ethereum/go-ethereum/accounts"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/signer/core/apitypes"

	"github.com/covenant-wallet/covenant"
	"github.com/covenant-wallet/covenant/errors"
)

// ethSignVOffset is added to the recovery byte of raw-hash signatures so the
// on-chain verifier can tell them apart from typed-data signatures: v of 31
// or 32 means "verify against the personal-message digest".
const ethSignVOffset = 4

// SignHash asks the adapter's active signer for a personal-message signature
// over the transaction hash and wraps it as a raw-hash signature. The
// recovered address must match the active signer; a mismatch is an error,
// never silently accepted.
//
// Raw-hash signing is gated on the contract version supporting eth_sign.
func SignHash(ctx context.Context, chain covenant.ChainAdapter, hash common.Hash, version *semver.Version) (covenant.Signature, error) {
	if !covenant.Supports(covenant.CapabilityETHSign, version) {
		return covenant.Signature{}, errors.Wrapf(errors.ErrUnsupportedMethod, "eth_sign not supported by contract version %s", version)
	}

	signer, err := activeSigner(ctx, chain)
	if err != nil {
		return covenant.Signature{}, err
	}

	raw, err := chain.SignHash(ctx, hash)
	if err != nil {
		return covenant.Signature{}, errors.Wrap(err, "sign hash")
	}

	normalized, err := normalizeV(raw)
	if err != nil {
		return covenant.Signature{}, err
	}

	// eth_sign implementations sign the EIP-191 prefixed digest, so
	// recovery runs against that, not the bare hash.
	recovered, err := RecoverSigner(common.BytesToHash(accounts.TextHash(hash.Bytes())), normalized)
	if err != nil {
		return covenant.Signature{}, err
	}
	if recovered != signer {
		return covenant.Signature{}, errors.Wrapf(errors.ErrSignature, "recovered %s, want %s", recovered, signer)
	}

	adjusted := make([]byte, covenant.SignatureLength)
	copy(adjusted, normalized)
	adjusted[64] += ethSignVOffset

	return covenant.NewRawHashSignature(signer, adjusted)
}

// SignTypedData computes the EIP-712 digest of the transaction, asks the
// adapter's active signer for a signature using the requested wallet RPC
// convention and wraps the verified result. The method variant shapes only
// the external request, never the digest.
func SignTypedData(
	ctx context.Context,
	chain covenant.ChainAdapter,
	tx covenant.Transaction,
	wallet common.Address,
	version *semver.Version,
	method covenant.TypedDataMethod,
) (covenant.Signature, error) {
	signer, err := activeSigner(ctx, chain)
	if err != nil {
		return covenant.Signature{}, err
	}

	chainID, err := chain.ChainID(ctx)
	if err != nil {
		return covenant.Signature{}, errors.Wrap(err, "chain id")
	}

	data := TypedData(tx, wallet, chainID, version)
	digest, _, err := apitypes.TypedDataAndHash(data)
	if err != nil {
		return covenant.Signature{}, errors.Wrap(err, "typed data hash")
	}

	raw, err := chain.SignTypedData(ctx, data, method)
	if err != nil {
		return covenant.Signature{}, errors.Wrap(err, "sign typed data")
	}

	normalized, err := normalizeV(raw)
	if err != nil {
		return covenant.Signature{}, err
	}

	recovered, err := RecoverSigner(common.BytesToHash(digest), normalized)
	if err != nil {
		return covenant.Signature{}, err
	}
	if recovered != signer {
		return covenant.Signature{}, errors.Wrapf(errors.ErrSignature, "recovered %s, want %s", recovered, signer)
	}

	return covenant.NewTypedDataSignature(signer, normalized)
}

// RecoverSigner returns the address that produced the given 65 byte
// signature over the digest. The recovery byte may be 0/1 or 27/28; the
// eth_sign offset must be removed by the caller first.
func RecoverSigner(digest common.Hash, sig []byte) (common.Address, error) {
	if len(sig) != covenant.SignatureLength {
		return common.Address{}, errors.Wrapf(errors.ErrSignature, "%d bytes, want %d", len(sig), covenant.SignatureLength)
	}

	plain := make([]byte, covenant.SignatureLength)
	copy(plain, sig)
	if plain[64] >= 27 {
		plain[64] -= 27
	}
	if plain[64] > 1 {
		return common.Address{}, errors.Wrapf(errors.ErrSignature, "recovery byte %d out of range", sig[64])
	}

	pub, err := crypto.SigToPub(digest.Bytes(), plain)
	if err != nil {
		return common.Address{}, errors.Wrap(errors.ErrSignature, err.Error())
	}

	recovered := crypto.PubkeyToAddress(*pub)
	if recovered == covenant.ZeroAddress {
		return common.Address{}, errors.Wrap(errors.ErrSignature, "recovered the zero address")
	}
	return recovered, nil
}

// Combine unions two signature sets keyed by signer address. On a conflict
// for the same signer the addition wins. The result is sorted by ascending
// signer address.
func Combine(existing, additions []covenant.Signature) []covenant.Signature {
	merged := make(map[common.Address]covenant.Signature, len(existing)+len(additions))
	for _, sig := range existing {
		merged[sig.Signer] = sig
	}
	for _, sig := range additions {
		merged[sig.Signer] = sig
	}

	res := make([]covenant.Signature, 0, len(merged))
	for _, sig := range merged {
		res = append(res, sig)
	}
	sort.Slice(res, func(i, j int) bool {
		return bytes.Compare(res[i].Signer[:], res[j].Signer[:]) < 0
	})
	return res
}

// normalizeV returns a copy of the signature with the recovery byte brought
// into the 27/28 form the verifier expects. Signing primitives disagree on
// whether they return 0/1 or 27/28.
func normalizeV(sig []byte) ([]byte, error) {
	if len(sig) != covenant.SignatureLength {
		return nil, errors.Wrapf(errors.ErrSignature, "%d bytes, want %d", len(sig), covenant.SignatureLength)
	}
	out := make([]byte, covenant.SignatureLength)
	copy(out, sig)
	if out[64] < 27 {
		out[64] += 27
	}
	if out[64] != 27 && out[64] != 28 {
		return nil, errors.Wrapf(errors.ErrSignature, "recovery byte %d out of range", sig[64])
	}
	return out, nil
}

// activeSigner resolves the adapter's active signer or fails with an
// authorization error when there is none.
func activeSigner(ctx context.Context, chain covenant.ChainAdapter) (common.Address, error) {
	signer, ok, err := chain.SignerAddress(ctx)
	if err != nil {
		return common.Address{}, errors.Wrap(err, "signer address")
	}
	if !ok {
		return common.Address{}, errors.Wrap(errors.ErrNoSigner, "adapter")
	}
	return signer, nil
}
