package gov

import (
	"github.com/Masterminds/semver"
	"github.com/ethereum/go-ethereum/common"

	"github.com/covenant-wallet/covenant"
	"github.com/covenant-wallet/covenant/errors"
)

// State is a snapshot of the wallet's current on-chain configuration. It is
// read once per mutation request and never written by this package.
type State struct {
	Wallet          common.Address
	Owners          []common.Address
	Threshold       uint16
	Version         *semver.Version
	Guard           common.Address
	FallbackHandler common.Address
	Modules         []common.Address
}

// Validate enforces the owner set invariant: at least one owner, no
// duplicates, no zero or sentinel addresses, and a threshold within
// [1, owner count].
func (s State) Validate() error {
	if len(s.Owners) == 0 {
		return errors.Wrap(errors.ErrState, "no owners")
	}

	seen := make(map[common.Address]struct{}, len(s.Owners))
	for i, owner := range s.Owners {
		if err := covenant.ValidateEntryAddress(owner); err != nil {
			return errors.Wrapf(err, "owner %d", i)
		}
		if _, ok := seen[owner]; ok {
			return errors.Wrapf(errors.ErrState, "duplicate owner %s", owner)
		}
		seen[owner] = struct{}{}
	}

	return validateThreshold(s.Threshold, len(s.Owners))
}

// IsOwner reports whether the address belongs to the owner set.
func (s State) IsOwner(a common.Address) bool {
	for _, owner := range s.Owners {
		if owner == a {
			return true
		}
	}
	return false
}

// prevOwner returns the predecessor of the given owner in the contract's
// linked list: the sentinel for the first owner, the previous list entry
// otherwise.
func (s State) prevOwner(a common.Address) (common.Address, error) {
	for i, owner := range s.Owners {
		if owner != a {
			continue
		}
		if i == 0 {
			return covenant.SentinelAddress, nil
		}
		return s.Owners[i-1], nil
	}
	return common.Address{}, errors.Wrapf(errors.ErrNotOwner, "%s", a)
}

// prevModule is prevOwner for the module linked list.
func (s State) prevModule(a common.Address) (common.Address, error) {
	for i, module := range s.Modules {
		if module != a {
			continue
		}
		if i == 0 {
			return covenant.SentinelAddress, nil
		}
		return s.Modules[i-1], nil
	}
	return common.Address{}, errors.Wrapf(errors.ErrNotEnabled, "module %s", a)
}

func (s State) isModule(a common.Address) bool {
	for _, module := range s.Modules {
		if module == a {
			return true
		}
	}
	return false
}

// validateThreshold enforces 1 <= threshold <= ownerCount.
func validateThreshold(threshold uint16, ownerCount int) error {
	if threshold < 1 {
		return errors.Wrap(errors.ErrThreshold, "must be at least 1")
	}
	if int(threshold) > ownerCount {
		return errors.Wrapf(errors.ErrThreshold, "%d with %d owners", threshold, ownerCount)
	}
	return nil
}
