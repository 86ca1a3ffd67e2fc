package covenant

import (
	"github.com/ethereum/go-ethereum/common"

	"github.com/covenant-wallet/covenant/errors"
)

// ZeroAddress is the null address. It is used as "unset" for optional
// address fields (gas token, refund receiver, guard, fallback handler) and
// is never a valid owner or module.
var ZeroAddress = common.Address{}

// SentinelAddress is the list head of the owner and module linked lists kept
// by the wallet contract. It must never be used as an owner, a module or a
// transaction target.
var SentinelAddress = common.HexToAddress("0x0000000000000000000000000000000000000001")

// ValidateEntryAddress returns an error if the given address cannot be used
// as an owner or module entry. The zero address and the sentinel address are
// rejected because the contract uses both internally for list bookkeeping.
func ValidateEntryAddress(a common.Address) error {
	switch a {
	case ZeroAddress:
		return errors.Wrap(errors.ErrAddress, "zero address")
	case SentinelAddress:
		return errors.Wrap(errors.ErrAddress, "sentinel address")
	}
	return nil
}
