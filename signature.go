package covenant

import (
	"bytes"

	"github.com/ethereum/go-ethereum/common"

	"github.com/covenant-wallet/covenant/errors"
)

// SignatureLength is the size of every signature understood by the on-chain
// verifier: 32 bytes r, 32 bytes s, 1 byte v.
const SignatureLength = 65

// SignatureKind tells how a signature was produced and therefore how the
// on-chain verifier will check it.
type SignatureKind uint8

const (
	// SignatureRawHash is an ECDSA signature over a plain or
	// personal-message prefixed transaction hash.
	SignatureRawHash SignatureKind = iota + 1
	// SignatureTypedData is an ECDSA signature over the EIP-712
	// structured hash of the transaction.
	SignatureTypedData
	// SignaturePreValidated is the synthetic value asserting that the
	// owner already approved the transaction hash on-chain. It is never
	// produced by a private key.
	SignaturePreValidated
)

func (k SignatureKind) String() string {
	switch k {
	case SignatureRawHash:
		return "raw-hash"
	case SignatureTypedData:
		return "typed-data"
	case SignaturePreValidated:
		return "pre-validated"
	}
	return "invalid"
}

// Signature binds an owner address to 65 signature bytes. Instances must be
// created through the constructors so that the signer is always consistent
// with the bytes: the signing engine verifies the recoverable address for
// the two ECDSA kinds, and the pre-validated constructor derives the bytes
// from the owner itself.
type Signature struct {
	Kind   SignatureKind
	Signer common.Address
	Bytes  []byte
}

// NewRawHashSignature wraps an ECDSA signature over a transaction hash. The
// caller is responsible for having verified that signer is the address
// recovered from the bytes; use the x/sigs engine rather than calling this
// directly.
func NewRawHashSignature(signer common.Address, sig []byte) (Signature, error) {
	if len(sig) != SignatureLength {
		return Signature{}, errors.Wrapf(errors.ErrSignature, "%d bytes, want %d", len(sig), SignatureLength)
	}
	return Signature{Kind: SignatureRawHash, Signer: signer, Bytes: sig}, nil
}

// NewTypedDataSignature wraps an ECDSA signature over the EIP-712 hash of a
// transaction. Same caveat as NewRawHashSignature.
func NewTypedDataSignature(signer common.Address, sig []byte) (Signature, error) {
	if len(sig) != SignatureLength {
		return Signature{}, errors.Wrapf(errors.ErrSignature, "%d bytes, want %d", len(sig), SignatureLength)
	}
	return Signature{Kind: SignatureTypedData, Signer: signer, Bytes: sig}, nil
}

// NewPreValidatedSignature builds the synthetic approval signature for an
// owner: r is the owner address left-padded to 32 bytes, s is zero and v is
// one. The verifier treats v == 1 as "check the approved-hash record for the
// address in r".
func NewPreValidatedSignature(owner common.Address) Signature {
	sig := make([]byte, SignatureLength)
	copy(sig[12:32], owner.Bytes())
	sig[64] = 1
	return Signature{Kind: SignaturePreValidated, Signer: owner, Bytes: sig}
}

func (s Signature) Validate() error {
	switch s.Kind {
	case SignatureRawHash, SignatureTypedData:
	case SignaturePreValidated:
		want := NewPreValidatedSignature(s.Signer)
		if !bytes.Equal(s.Bytes, want.Bytes) {
			return errors.Wrap(errors.ErrSignature, "malformed pre-validated signature")
		}
	default:
		return errors.Wrapf(errors.ErrSignature, "unknown kind %d", s.Kind)
	}
	if len(s.Bytes) != SignatureLength {
		return errors.Wrapf(errors.ErrSignature, "%d bytes, want %d", len(s.Bytes), SignatureLength)
	}
	return nil
}
