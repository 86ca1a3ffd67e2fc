package covenant

import (
	"bytes"
	"sort"

	"github.com/ethereum/go-ethereum/common"
)

// Aggregate owns a canonical transaction and the signatures collected for
// it. Signatures are keyed by signer address, so adding is idempotent per
// signer with last-writer-wins semantics. Signatures are never removed.
//
// The serialized form concatenates signatures in ascending signer address
// order. The on-chain verifier consumes them sequentially and requires
// strictly increasing signer addresses, which rejects duplicates and
// reordered blobs cheaply.
type Aggregate struct {
	data Transaction
	sigs map[common.Address]Signature
}

// NewAggregate wraps a canonical transaction with an empty signature set.
func NewAggregate(data Transaction) *Aggregate {
	return &Aggregate{
		data: data,
		sigs: make(map[common.Address]Signature),
	}
}

// Data returns the canonical transaction this aggregate collects signatures
// for.
func (a *Aggregate) Data() Transaction {
	return a.data
}

// AddSignature inserts or overwrites the signature for its signer. Signer
// membership in the owner set is deliberately not checked here: signatures
// can be pre-collected before all owners are known to be current. Membership
// is enforced at the execution boundary.
func (a *Aggregate) AddSignature(sig Signature) error {
	if err := sig.Validate(); err != nil {
		return err
	}
	a.sigs[sig.Signer] = sig
	return nil
}

// HasSigner reports whether a signature for the given signer was collected.
func (a *Aggregate) HasSigner(signer common.Address) bool {
	_, ok := a.sigs[signer]
	return ok
}

// SignatureCount returns the number of distinct signers collected.
func (a *Aggregate) SignatureCount() int {
	return len(a.sigs)
}

// Signatures returns the collected signatures sorted by ascending signer
// address.
func (a *Aggregate) Signatures() []Signature {
	res := make([]Signature, 0, len(a.sigs))
	for _, sig := range a.sigs {
		res = append(res, sig)
	}
	sort.Slice(res, func(i, j int) bool {
		return bytes.Compare(res[i].Signer[:], res[j].Signer[:]) < 0
	})
	return res
}

// EncodeSignatures serializes the signature set into the blob consumed by
// the on-chain verifier: each signature's 65 bytes, concatenated in
// ascending signer address order.
func (a *Aggregate) EncodeSignatures() []byte {
	sigs := a.Signatures()
	out := make([]byte, 0, len(sigs)*SignatureLength)
	for _, sig := range sigs {
		out = append(out, sig.Bytes...)
	}
	return out
}

// Copy returns a new aggregate sharing the same transaction value but an
// independent signature set. Use it to compose a candidate execution without
// mutating a caller-held aggregate.
func (a *Aggregate) Copy() *Aggregate {
	sigs := make(map[common.Address]Signature, len(a.sigs))
	for signer, sig := range a.sigs {
		sigs[signer] = sig
	}
	return &Aggregate{data: a.data, sigs: sigs}
}
