package covenant

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"github.com/covenant-wallet/covenant/errors"
)

// TransactionCall is a single call requested from the wallet: a target, an
// ether value, call data and the call operation. Calls are immutable once
// they become part of a canonical transaction.
type TransactionCall struct {
	To        common.Address
	Value     *big.Int
	Data      []byte
	Operation Operation
}

func (c TransactionCall) Validate() error {
	var errs error
	if c.Value != nil && c.Value.Sign() < 0 {
		errs = errors.AppendField(errs, "Value", errors.ErrInput)
	}
	errs = errors.AppendField(errs, "Operation", c.Operation.Validate())
	return errs
}

// Transaction is the canonical, fully resolved form of a wallet transaction.
// Every field carries a value: there are no optionals left once an instance
// is constructed. The standardizer in the client package is the only
// producer.
type Transaction struct {
	TransactionCall

	SafeTxGas      *big.Int
	BaseGas        *big.Int
	GasPrice       *big.Int
	GasToken       common.Address
	RefundReceiver common.Address
	Nonce          uint64
}

// Validate checks the canonical transaction invariant: all fields resolved.
func (tx Transaction) Validate() error {
	var errs error
	errs = errors.Append(errs, tx.TransactionCall.Validate())
	if tx.Value == nil {
		errs = errors.AppendField(errs, "Value", errors.ErrState)
	}
	if tx.Data == nil {
		errs = errors.AppendField(errs, "Data", errors.ErrState)
	}
	if tx.SafeTxGas == nil {
		errs = errors.AppendField(errs, "SafeTxGas", errors.ErrState)
	}
	if tx.BaseGas == nil {
		errs = errors.AppendField(errs, "BaseGas", errors.ErrState)
	}
	if tx.GasPrice == nil {
		errs = errors.AppendField(errs, "GasPrice", errors.ErrState)
	}
	return errs
}

// TxOptions carry the optional fields a caller may pin when building a
// canonical transaction. A nil field means "use the default": zero for the
// gas fields, the zero address for gas token and refund receiver, and the
// next on-chain nonce for the nonce.
type TxOptions struct {
	SafeTxGas      *big.Int
	BaseGas        *big.Int
	GasPrice       *big.Int
	GasToken       *common.Address
	RefundReceiver *common.Address
	Nonce          *uint64
}
