package gov

import (
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"

	"github.com/covenant-wallet/covenant"
	"github.com/covenant-wallet/covenant/errors"
)

// walletABI covers the owner, module, guard and fallback handler management
// functions of the wallet contract.
var walletABI = mustParseABI(`[
	{"inputs":[{"name":"owner","type":"address"},{"name":"_threshold","type":"uint256"}],"name":"addOwnerWithThreshold","outputs":[],"stateMutability":"nonpayable","type":"function"},
	{"inputs":[{"name":"prevOwner","type":"address"},{"name":"owner","type":"address"},{"name":"_threshold","type":"uint256"}],"name":"removeOwner","outputs":[],"stateMutability":"nonpayable","type":"function"},
	{"inputs":[{"name":"prevOwner","type":"address"},{"name":"oldOwner","type":"address"},{"name":"newOwner","type":"address"}],"name":"swapOwner","outputs":[],"stateMutability":"nonpayable","type":"function"},
	{"inputs":[{"name":"_threshold","type":"uint256"}],"name":"changeThreshold","outputs":[],"stateMutability":"nonpayable","type":"function"},
	{"inputs":[{"name":"module","type":"address"}],"name":"enableModule","outputs":[],"stateMutability":"nonpayable","type":"function"},
	{"inputs":[{"name":"prevModule","type":"address"},{"name":"module","type":"address"}],"name":"disableModule","outputs":[],"stateMutability":"nonpayable","type":"function"},
	{"inputs":[{"name":"guard","type":"address"}],"name":"setGuard","outputs":[],"stateMutability":"nonpayable","type":"function"},
	{"inputs":[{"name":"handler","type":"address"}],"name":"setFallbackHandler","outputs":[],"stateMutability":"nonpayable","type":"function"}
]`)

// AddOwner validates and encodes adding an owner. When threshold is nil the
// current threshold is kept; either way the owner set invariant is checked
// against the post-mutation owner count.
func AddOwner(s State, owner common.Address, threshold *uint16) (covenant.TransactionCall, error) {
	if err := covenant.ValidateEntryAddress(owner); err != nil {
		return covenant.TransactionCall{}, err
	}
	if s.IsOwner(owner) {
		return covenant.TransactionCall{}, errors.Wrapf(errors.ErrAlreadyOwner, "%s", owner)
	}

	newThreshold := s.Threshold
	if threshold != nil {
		newThreshold = *threshold
	}
	if err := validateThreshold(newThreshold, len(s.Owners)+1); err != nil {
		return covenant.TransactionCall{}, err
	}

	return s.contractCall("addOwnerWithThreshold", owner, thresholdArg(newThreshold))
}

// RemoveOwner validates and encodes removing an owner. When threshold is nil
// the current threshold is kept, lowered to the new owner count if it would
// exceed it. Removing the last owner always fails the threshold invariant.
func RemoveOwner(s State, owner common.Address, threshold *uint16) (covenant.TransactionCall, error) {
	if err := covenant.ValidateEntryAddress(owner); err != nil {
		return covenant.TransactionCall{}, err
	}
	if !s.IsOwner(owner) {
		return covenant.TransactionCall{}, errors.Wrapf(errors.ErrNotOwner, "%s", owner)
	}

	newCount := len(s.Owners) - 1
	newThreshold := s.Threshold
	if threshold != nil {
		newThreshold = *threshold
	} else if int(newThreshold) > newCount {
		newThreshold = uint16(newCount)
	}
	if err := validateThreshold(newThreshold, newCount); err != nil {
		return covenant.TransactionCall{}, err
	}

	prev, err := s.prevOwner(owner)
	if err != nil {
		return covenant.TransactionCall{}, err
	}
	return s.contractCall("removeOwner", prev, owner, thresholdArg(newThreshold))
}

// SwapOwner validates and encodes replacing oldOwner with newOwner, keeping
// the threshold untouched.
func SwapOwner(s State, oldOwner, newOwner common.Address) (covenant.TransactionCall, error) {
	if err := covenant.ValidateEntryAddress(oldOwner); err != nil {
		return covenant.TransactionCall{}, errors.Wrap(err, "old owner")
	}
	if err := covenant.ValidateEntryAddress(newOwner); err != nil {
		return covenant.TransactionCall{}, errors.Wrap(err, "new owner")
	}
	if s.IsOwner(newOwner) {
		return covenant.TransactionCall{}, errors.Wrapf(errors.ErrAlreadyOwner, "%s", newOwner)
	}
	if !s.IsOwner(oldOwner) {
		return covenant.TransactionCall{}, errors.Wrapf(errors.ErrNotOwner, "%s", oldOwner)
	}

	prev, err := s.prevOwner(oldOwner)
	if err != nil {
		return covenant.TransactionCall{}, err
	}
	return s.contractCall("swapOwner", prev, oldOwner, newOwner)
}

// ChangeThreshold validates and encodes a threshold change.
func ChangeThreshold(s State, threshold uint16) (covenant.TransactionCall, error) {
	if err := validateThreshold(threshold, len(s.Owners)); err != nil {
		return covenant.TransactionCall{}, err
	}
	return s.contractCall("changeThreshold", thresholdArg(threshold))
}

// EnableModule validates and encodes enabling a module.
func EnableModule(s State, module common.Address) (covenant.TransactionCall, error) {
	if err := covenant.ValidateEntryAddress(module); err != nil {
		return covenant.TransactionCall{}, err
	}
	if s.isModule(module) {
		return covenant.TransactionCall{}, errors.Wrapf(errors.ErrAlreadyEnabled, "module %s", module)
	}
	return s.contractCall("enableModule", module)
}

// DisableModule validates and encodes disabling a module.
func DisableModule(s State, module common.Address) (covenant.TransactionCall, error) {
	if err := covenant.ValidateEntryAddress(module); err != nil {
		return covenant.TransactionCall{}, err
	}
	prev, err := s.prevModule(module)
	if err != nil {
		return covenant.TransactionCall{}, err
	}
	return s.contractCall("disableModule", prev, module)
}

// EnableGuard validates and encodes setting the transaction guard. Guards
// require a contract version that supports them.
func EnableGuard(s State, guard common.Address) (covenant.TransactionCall, error) {
	if !covenant.Supports(covenant.CapabilityGuard, s.Version) {
		return covenant.TransactionCall{}, errors.Wrapf(errors.ErrUnsupportedVersion, "guards need a newer contract than %s", s.Version)
	}
	if err := covenant.ValidateEntryAddress(guard); err != nil {
		return covenant.TransactionCall{}, err
	}
	if s.Guard == guard {
		return covenant.TransactionCall{}, errors.Wrapf(errors.ErrAlreadyEnabled, "guard %s", guard)
	}
	return s.contractCall("setGuard", guard)
}

// DisableGuard validates and encodes removing the transaction guard.
func DisableGuard(s State) (covenant.TransactionCall, error) {
	if !covenant.Supports(covenant.CapabilityGuard, s.Version) {
		return covenant.TransactionCall{}, errors.Wrapf(errors.ErrUnsupportedVersion, "guards need a newer contract than %s", s.Version)
	}
	if s.Guard == covenant.ZeroAddress {
		return covenant.TransactionCall{}, errors.Wrap(errors.ErrNotEnabled, "no guard set")
	}
	return s.contractCall("setGuard", covenant.ZeroAddress)
}

// EnableFallbackHandler validates and encodes setting the fallback handler.
func EnableFallbackHandler(s State, handler common.Address) (covenant.TransactionCall, error) {
	if !covenant.Supports(covenant.CapabilityFallbackHandler, s.Version) {
		return covenant.TransactionCall{}, errors.Wrapf(errors.ErrUnsupportedVersion, "fallback handlers need a newer contract than %s", s.Version)
	}
	if err := covenant.ValidateEntryAddress(handler); err != nil {
		return covenant.TransactionCall{}, err
	}
	if s.FallbackHandler == handler {
		return covenant.TransactionCall{}, errors.Wrapf(errors.ErrAlreadyEnabled, "fallback handler %s", handler)
	}
	return s.contractCall("setFallbackHandler", handler)
}

// DisableFallbackHandler validates and encodes removing the fallback
// handler.
func DisableFallbackHandler(s State) (covenant.TransactionCall, error) {
	if !covenant.Supports(covenant.CapabilityFallbackHandler, s.Version) {
		return covenant.TransactionCall{}, errors.Wrapf(errors.ErrUnsupportedVersion, "fallback handlers need a newer contract than %s", s.Version)
	}
	if s.FallbackHandler == covenant.ZeroAddress {
		return covenant.TransactionCall{}, errors.Wrap(errors.ErrNotEnabled, "no fallback handler set")
	}
	return s.contractCall("setFallbackHandler", covenant.ZeroAddress)
}

// contractCall packs a wallet management call targeted at the wallet
// itself.
func (s State) contractCall(method string, args ...interface{}) (covenant.TransactionCall, error) {
	data, err := walletABI.Pack(method, args...)
	if err != nil {
		return covenant.TransactionCall{}, errors.Wrapf(err, "pack %s", method)
	}
	return covenant.TransactionCall{
		To:        s.Wallet,
		Value:     big.NewInt(0),
		Data:      data,
		Operation: covenant.OperationCall,
	}, nil
}

func thresholdArg(t uint16) *big.Int {
	return new(big.Int).SetUint64(uint64(t))
}

func mustParseABI(def string) abi.ABI {
	parsed, err := abi.JSON(strings.NewReader(def))
	if err != nil {
		panic(err)
	}
	return parsed
}
