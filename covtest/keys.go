package covtest

import (
	"crypto/ecdsa"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

// Key pairs a secp256k1 private key with its address.
type Key struct {
	Priv    *ecdsa.PrivateKey
	Address common.Address
}

// NewKey generates a fresh random key.
func NewKey() *Key {
	priv, err := crypto.GenerateKey()
	if err != nil {
		panic(err)
	}
	return &Key{
		Priv:    priv,
		Address: crypto.PubkeyToAddress(priv.PublicKey),
	}
}
