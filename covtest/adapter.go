package covtest

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/signer/core/apitypes"

	"github.com/covenant-wallet/covenant"
)

var _ covenant.ChainAdapter = (*Adapter)(nil)

// Adapter is an in-memory chain adapter. The zero value has no signer, no
// balances and chain id zero; populate the fields a test needs. When Err is
// set every call fails with it, which simulates a broken RPC connection.
type Adapter struct {
	Signer       *Key
	ChainIDValue uint64
	Nonces       map[common.Address]uint64
	Balances     map[common.Address]*big.Int
	Deployed     map[common.Address]bool
	Err          error

	// NonceCalls counts nonce reads so tests can assert how many
	// external calls an operation performed.
	NonceCalls int
}

func (a *Adapter) Nonce(ctx context.Context, account common.Address) (uint64, error) {
	if a.Err != nil {
		return 0, a.Err
	}
	a.NonceCalls++
	return a.Nonces[account], nil
}

func (a *Adapter) ChainID(ctx context.Context) (uint64, error) {
	if a.Err != nil {
		return 0, a.Err
	}
	return a.ChainIDValue, nil
}

func (a *Adapter) Balance(ctx context.Context, account common.Address) (*big.Int, error) {
	if a.Err != nil {
		return nil, a.Err
	}
	if b, ok := a.Balances[account]; ok {
		return new(big.Int).Set(b), nil
	}
	return big.NewInt(0), nil
}

func (a *Adapter) SignerAddress(ctx context.Context) (common.Address, bool, error) {
	if a.Err != nil {
		return common.Address{}, false, a.Err
	}
	if a.Signer == nil {
		return common.Address{}, false, nil
	}
	return a.Signer.Address, true, nil
}

// SignHash signs the EIP-191 prefixed digest of the hash, as a personal
// message signer would. The recovery byte is returned raw (0 or 1) to
// exercise the engine's normalization.
func (a *Adapter) SignHash(ctx context.Context, hash common.Hash) ([]byte, error) {
	if a.Err != nil {
		return nil, a.Err
	}
	if a.Signer == nil {
		return nil, errNoKey
	}
	return crypto.Sign(accounts.TextHash(hash.Bytes()), a.Signer.Priv)
}

func (a *Adapter) SignTypedData(ctx context.Context, data apitypes.TypedData, method covenant.TypedDataMethod) ([]byte, error) {
	if a.Err != nil {
		return nil, a.Err
	}
	if a.Signer == nil {
		return nil, errNoKey
	}
	digest, _, err := apitypes.TypedDataAndHash(data)
	if err != nil {
		return nil, err
	}
	return crypto.Sign(digest, a.Signer.Priv)
}

func (a *Adapter) IsContractDeployed(ctx context.Context, account common.Address) (bool, error) {
	if a.Err != nil {
		return false, a.Err
	}
	return a.Deployed[account], nil
}
