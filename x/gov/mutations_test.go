package gov

import (
	"math/big"
	"testing"

	"github.com/Masterminds/semver"
	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/covenant-wallet/covenant"
	"github.com/covenant-wallet/covenant/errors"
)

var (
	walletAddr = common.HexToAddress("0xffffffffffffffffffffffffffffffffffffffff")
	ownerA     = common.HexToAddress("0x000000000000000000000000000000000000000a")
	ownerB     = common.HexToAddress("0x000000000000000000000000000000000000000b")
	ownerC     = common.HexToAddress("0x000000000000000000000000000000000000000c")
	moduleX    = common.HexToAddress("0x00000000000000000000000000000000000000e1")
	moduleY    = common.HexToAddress("0x00000000000000000000000000000000000000e2")
	outsider   = common.HexToAddress("0x00000000000000000000000000000000000000dd")
)

func testState() State {
	return State{
		Wallet:    walletAddr,
		Owners:    []common.Address{ownerA, ownerB, ownerC},
		Threshold: 2,
		Version:   semver.MustParse("1.3.0"),
		Modules:   []common.Address{moduleX, moduleY},
	}
}

// unpackCall decodes the argument tuple of an encoded management call and
// checks the call envelope on the way.
func unpackCall(t *testing.T, method string, call covenant.TransactionCall) []interface{} {
	t.Helper()
	assert.Equal(t, walletAddr, call.To)
	assert.Equal(t, covenant.OperationCall, call.Operation)
	assert.Zero(t, call.Value.Sign())

	m := walletABI.Methods[method]
	require.Equal(t, m.ID, call.Data[:4])
	args, err := m.Inputs.Unpack(call.Data[4:])
	require.NoError(t, err)
	return args
}

func TestAddOwner(t *testing.T) {
	three := uint16(3)
	call, err := AddOwner(testState(), outsider, &three)
	require.NoError(t, err)

	args := unpackCall(t, "addOwnerWithThreshold", call)
	assert.Equal(t, outsider, args[0])
	assert.Equal(t, big.NewInt(3), args[1])
}

func TestAddOwnerKeepsThreshold(t *testing.T) {
	call, err := AddOwner(testState(), outsider, nil)
	require.NoError(t, err)

	args := unpackCall(t, "addOwnerWithThreshold", call)
	assert.Equal(t, big.NewInt(2), args[1])
}

func TestAddOwnerFailures(t *testing.T) {
	tooHigh := uint16(5)
	cases := map[string]struct {
		owner     common.Address
		threshold *uint16
		wantErr   *errors.Error
	}{
		"zero address":     {covenant.ZeroAddress, nil, errors.ErrAddress},
		"sentinel address": {covenant.SentinelAddress, nil, errors.ErrAddress},
		"existing owner":   {ownerB, nil, errors.ErrAlreadyOwner},
		"threshold high":   {outsider, &tooHigh, errors.ErrThreshold},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := AddOwner(testState(), tc.owner, tc.threshold)
			assert.True(t, tc.wantErr.Is(err), "got %v", err)
		})
	}
}

func TestRemoveOwner(t *testing.T) {
	one := uint16(1)
	call, err := RemoveOwner(testState(), ownerB, &one)
	require.NoError(t, err)

	args := unpackCall(t, "removeOwner", call)
	assert.Equal(t, ownerA, args[0], "predecessor in the owner list")
	assert.Equal(t, ownerB, args[1])
	assert.Equal(t, big.NewInt(1), args[2])
}

func TestRemoveFirstOwnerUsesSentinel(t *testing.T) {
	call, err := RemoveOwner(testState(), ownerA, nil)
	require.NoError(t, err)

	args := unpackCall(t, "removeOwner", call)
	assert.Equal(t, covenant.SentinelAddress, args[0])
	assert.Equal(t, ownerA, args[1])
}

func TestRemoveOwnerLowersThresholdToFit(t *testing.T) {
	s := testState()
	s.Owners = []common.Address{ownerA, ownerB}
	s.Threshold = 2

	call, err := RemoveOwner(s, ownerB, nil)
	require.NoError(t, err)

	args := unpackCall(t, "removeOwner", call)
	assert.Equal(t, big.NewInt(1), args[2])
}

func TestRemoveOwnerFailures(t *testing.T) {
	t.Run("not an owner", func(t *testing.T) {
		_, err := RemoveOwner(testState(), outsider, nil)
		assert.True(t, errors.ErrNotOwner.Is(err))
	})

	t.Run("last owner", func(t *testing.T) {
		s := testState()
		s.Owners = []common.Address{ownerA}
		s.Threshold = 1
		_, err := RemoveOwner(s, ownerA, nil)
		assert.True(t, errors.ErrThreshold.Is(err))
	})
}

func TestSwapOwner(t *testing.T) {
	call, err := SwapOwner(testState(), ownerC, outsider)
	require.NoError(t, err)

	args := unpackCall(t, "swapOwner", call)
	assert.Equal(t, ownerB, args[0])
	assert.Equal(t, ownerC, args[1])
	assert.Equal(t, outsider, args[2])
}

func TestSwapOwnerFailures(t *testing.T) {
	cases := map[string]struct {
		oldOwner common.Address
		newOwner common.Address
		wantErr  *errors.Error
	}{
		"old not owner":    {outsider, ownerA, errors.ErrAlreadyOwner},
		"new already owns": {ownerA, ownerB, errors.ErrAlreadyOwner},
		"old missing":      {outsider, common.HexToAddress("0xee"), errors.ErrNotOwner},
		"zero new owner":   {ownerA, covenant.ZeroAddress, errors.ErrAddress},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := SwapOwner(testState(), tc.oldOwner, tc.newOwner)
			assert.True(t, tc.wantErr.Is(err), "got %v", err)
		})
	}
}

func TestChangeThreshold(t *testing.T) {
	call, err := ChangeThreshold(testState(), 3)
	require.NoError(t, err)

	args := unpackCall(t, "changeThreshold", call)
	assert.Equal(t, big.NewInt(3), args[0])

	_, err = ChangeThreshold(testState(), 0)
	assert.True(t, errors.ErrThreshold.Is(err))

	_, err = ChangeThreshold(testState(), 4)
	assert.True(t, errors.ErrThreshold.Is(err))
}

func TestModules(t *testing.T) {
	call, err := EnableModule(testState(), outsider)
	require.NoError(t, err)
	args := unpackCall(t, "enableModule", call)
	assert.Equal(t, outsider, args[0])

	_, err = EnableModule(testState(), moduleX)
	assert.True(t, errors.ErrAlreadyEnabled.Is(err))

	call, err = DisableModule(testState(), moduleY)
	require.NoError(t, err)
	args = unpackCall(t, "disableModule", call)
	assert.Equal(t, moduleX, args[0])
	assert.Equal(t, moduleY, args[1])

	call, err = DisableModule(testState(), moduleX)
	require.NoError(t, err)
	args = unpackCall(t, "disableModule", call)
	assert.Equal(t, covenant.SentinelAddress, args[0])

	_, err = DisableModule(testState(), outsider)
	assert.True(t, errors.ErrNotEnabled.Is(err))
}

func TestGuardVersionGate(t *testing.T) {
	s := testState()
	s.Version = semver.MustParse("1.2.0")

	_, err := EnableGuard(s, outsider)
	assert.True(t, errors.ErrUnsupportedVersion.Is(err))
	_, err = DisableGuard(s)
	assert.True(t, errors.ErrUnsupportedVersion.Is(err))
}

func TestGuard(t *testing.T) {
	call, err := EnableGuard(testState(), outsider)
	require.NoError(t, err)
	args := unpackCall(t, "setGuard", call)
	assert.Equal(t, outsider, args[0])

	s := testState()
	s.Guard = outsider
	_, err = EnableGuard(s, outsider)
	assert.True(t, errors.ErrAlreadyEnabled.Is(err))

	call, err = DisableGuard(s)
	require.NoError(t, err)
	args = unpackCall(t, "setGuard", call)
	assert.Equal(t, covenant.ZeroAddress, args[0])

	_, err = DisableGuard(testState())
	assert.True(t, errors.ErrNotEnabled.Is(err))
}

func TestFallbackHandler(t *testing.T) {
	call, err := EnableFallbackHandler(testState(), outsider)
	require.NoError(t, err)
	args := unpackCall(t, "setFallbackHandler", call)
	assert.Equal(t, outsider, args[0])

	s := testState()
	s.Version = semver.MustParse("1.1.0")
	_, err = EnableFallbackHandler(s, outsider)
	assert.True(t, errors.ErrUnsupportedVersion.Is(err))

	s = testState()
	s.FallbackHandler = outsider
	call, err = DisableFallbackHandler(s)
	require.NoError(t, err)
	args = unpackCall(t, "setFallbackHandler", call)
	assert.Equal(t, covenant.ZeroAddress, args[0])

	_, err = DisableFallbackHandler(testState())
	assert.True(t, errors.ErrNotEnabled.Is(err))
}

func TestStateValidate(t *testing.T) {
	cases := map[string]struct {
		mutate  func(*State)
		wantErr *errors.Error
	}{
		"valid":           {func(s *State) {}, nil},
		"no owners":       {func(s *State) { s.Owners = nil }, errors.ErrState},
		"duplicate owner": {func(s *State) { s.Owners = append(s.Owners, ownerA) }, errors.ErrState},
		"zero owner":      {func(s *State) { s.Owners[1] = covenant.ZeroAddress }, errors.ErrAddress},
		"sentinel owner":  {func(s *State) { s.Owners[1] = covenant.SentinelAddress }, errors.ErrAddress},
		"zero threshold":  {func(s *State) { s.Threshold = 0 }, errors.ErrThreshold},
		"high threshold":  {func(s *State) { s.Threshold = 4 }, errors.ErrThreshold},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			s := testState()
			tc.mutate(&s)
			err := s.Validate()
			if tc.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.True(t, tc.wantErr.Is(err), "got %v", err)
			}
		})
	}
}
