package sigs_test

import (
	"context"
	"math/big"
	"testing"

	"github.com/Masterminds/semver"
	"github.com/ethereum/go-ethereum/accounts"
	"github.com/ethereum/go-ethereum/common"
	pkgerrors "github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/covenant-wallet/covenant"
	"github.com/covenant-wallet/covenant/covtest"
	"github.com/covenant-wallet/covenant/errors"
	"github.com/covenant-wallet/covenant/x/sigs"
)

func validTx() covenant.Transaction {
	return covenant.Transaction{
		TransactionCall: covenant.TransactionCall{
			To:        common.HexToAddress("0x1111111111111111111111111111111111111111"),
			Value:     big.NewInt(5),
			Data:      []byte{0xca, 0xfe},
			Operation: covenant.OperationCall,
		},
		SafeTxGas: big.NewInt(0),
		BaseGas:   big.NewInt(0),
		GasPrice:  big.NewInt(0),
		Nonce:     7,
	}
}

func TestSignHash(t *testing.T) {
	key := covtest.NewKey()
	chain := &covtest.Adapter{Signer: key, ChainIDValue: 1}
	hash := common.HexToHash("0xdeadbeefdeadbeefdeadbeefdeadbeefdeadbeefdeadbeefdeadbeefdeadbeef")

	sig, err := sigs.SignHash(context.Background(), chain, hash, semver.MustParse("1.3.0"))
	require.NoError(t, err)

	assert.Equal(t, covenant.SignatureRawHash, sig.Kind)
	assert.Equal(t, key.Address, sig.Signer)
	require.Len(t, sig.Bytes, covenant.SignatureLength)

	// Raw-hash signatures carry the eth_sign marker in the recovery byte.
	v := sig.Bytes[64]
	assert.True(t, v == 31 || v == 32, "recovery byte %d", v)

	plain := make([]byte, covenant.SignatureLength)
	copy(plain, sig.Bytes)
	plain[64] -= 4
	digest := common.BytesToHash(accounts.TextHash(hash.Bytes()))
	recovered, err := sigs.RecoverSigner(digest, plain)
	require.NoError(t, err)
	assert.Equal(t, key.Address, recovered)
}

func TestSignHashVersionGate(t *testing.T) {
	key := covtest.NewKey()
	chain := &covtest.Adapter{Signer: key, ChainIDValue: 1}
	hash := common.HexToHash("0x01")

	_, err := sigs.SignHash(context.Background(), chain, hash, semver.MustParse("1.0.0"))
	assert.True(t, errors.ErrUnsupportedMethod.Is(err))

	_, err = sigs.SignHash(context.Background(), chain, hash, nil)
	assert.True(t, errors.ErrUnsupportedMethod.Is(err))
}

func TestSignHashNoSigner(t *testing.T) {
	chain := &covtest.Adapter{ChainIDValue: 1}
	_, err := sigs.SignHash(context.Background(), chain, common.HexToHash("0x01"), semver.MustParse("1.3.0"))
	assert.True(t, errors.ErrNoSigner.Is(err))
}

func TestSignTypedData(t *testing.T) {
	key := covtest.NewKey()
	chain := &covtest.Adapter{Signer: key, ChainIDValue: 5}
	wallet := common.HexToAddress("0x2222222222222222222222222222222222222222")
	version := semver.MustParse("1.3.0")
	tx := validTx()

	sig, err := sigs.SignTypedData(context.Background(), chain, tx, wallet, version, covenant.TypedDataV4)
	require.NoError(t, err)

	assert.Equal(t, covenant.SignatureTypedData, sig.Kind)
	assert.Equal(t, key.Address, sig.Signer)
	require.Len(t, sig.Bytes, covenant.SignatureLength)
	v := sig.Bytes[64]
	assert.True(t, v == 27 || v == 28, "recovery byte %d", v)

	// The signature verifies against the same digest the contract computes.
	digest, err := sigs.TxHash(tx, wallet, 5, version)
	require.NoError(t, err)
	recovered, err := sigs.RecoverSigner(digest, sig.Bytes)
	require.NoError(t, err)
	assert.Equal(t, key.Address, recovered)
}

func TestSignTypedDataNoSigner(t *testing.T) {
	chain := &covtest.Adapter{ChainIDValue: 5}
	wallet := common.HexToAddress("0x2222222222222222222222222222222222222222")
	_, err := sigs.SignTypedData(context.Background(), chain, validTx(), wallet, semver.MustParse("1.3.0"), covenant.TypedDataV4)
	assert.True(t, errors.ErrNoSigner.Is(err))
}

func TestSignTypedDataAdapterFailure(t *testing.T) {
	broken := &covtest.Adapter{Signer: covtest.NewKey(), Err: assert.AnError}
	wallet := common.HexToAddress("0x2222222222222222222222222222222222222222")
	_, err := sigs.SignTypedData(context.Background(), broken, validTx(), wallet, semver.MustParse("1.3.0"), covenant.TypedDataV4)
	require.Error(t, err)
	// The adapter failure stays visible as the cause.
	assert.Equal(t, assert.AnError, pkgerrors.Cause(err))
}

func TestRecoverSignerRejectsMalformed(t *testing.T) {
	digest := common.HexToHash("0x0102")

	_, err := sigs.RecoverSigner(digest, make([]byte, 64))
	assert.True(t, errors.ErrSignature.Is(err))

	bad := make([]byte, covenant.SignatureLength)
	bad[64] = 35
	_, err = sigs.RecoverSigner(digest, bad)
	assert.True(t, errors.ErrSignature.Is(err))
}

func TestCombine(t *testing.T) {
	a := common.HexToAddress("0x000000000000000000000000000000000000000a")
	b := common.HexToAddress("0x000000000000000000000000000000000000000b")
	c := common.HexToAddress("0x000000000000000000000000000000000000000c")

	sigOf := func(signer common.Address, fill byte) covenant.Signature {
		raw := make([]byte, covenant.SignatureLength)
		for i := range raw[:64] {
			raw[i] = fill
		}
		raw[64] = 27
		sig, err := covenant.NewTypedDataSignature(signer, raw)
		require.NoError(t, err)
		return sig
	}

	existing := []covenant.Signature{sigOf(c, 1), sigOf(a, 2)}
	additions := []covenant.Signature{sigOf(b, 3), sigOf(a, 4)}

	merged := sigs.Combine(existing, additions)
	require.Len(t, merged, 3)

	// Ascending signer order, and the addition replaced the existing entry
	// for the shared signer.
	assert.Equal(t, a, merged[0].Signer)
	assert.Equal(t, b, merged[1].Signer)
	assert.Equal(t, c, merged[2].Signer)
	assert.Equal(t, byte(4), merged[0].Bytes[0])
}
