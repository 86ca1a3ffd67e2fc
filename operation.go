package covenant

import (
	"fmt"

	"github.com/covenant-wallet/covenant/errors"
)

// Operation selects how the wallet contract performs a call.
type Operation uint8

const (
	// OperationCall is a regular CALL to the target.
	OperationCall Operation = 0
	// OperationDelegateCall executes the target's code in the wallet's
	// own storage context. Required for multi-send batches.
	OperationDelegateCall Operation = 1
)

func (op Operation) Validate() error {
	switch op {
	case OperationCall, OperationDelegateCall:
		return nil
	}
	return errors.Wrapf(errors.ErrInput, "unknown operation %d", op)
}

func (op Operation) String() string {
	switch op {
	case OperationCall:
		return "call"
	case OperationDelegateCall:
		return "delegatecall"
	}
	return fmt.Sprintf("invalid operation %d", uint8(op))
}
