package covenant

import (
	"testing"

	"github.com/Masterminds/semver"
	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
)

func TestSupports(t *testing.T) {
	cases := map[string]struct {
		capability Capability
		version    string
		want       bool
	}{
		"eth sign on 1.1.0":            {CapabilityETHSign, "1.1.0", true},
		"eth sign on 1.0.0":            {CapabilityETHSign, "1.0.0", false},
		"eth sign on 1.3.0":            {CapabilityETHSign, "1.3.0", true},
		"guard on 1.2.0":               {CapabilityGuard, "1.2.0", false},
		"guard on 1.3.0":               {CapabilityGuard, "1.3.0", true},
		"guard on 1.4.1":               {CapabilityGuard, "1.4.1", true},
		"fallback handler on 1.1.1":    {CapabilityFallbackHandler, "1.1.1", true},
		"fallback handler on 1.1.0":    {CapabilityFallbackHandler, "1.1.0", false},
		"prerelease tag is ignored":    {CapabilityChainIDDomain, "1.3.0-libs.0", true},
		"chain id domain on 1.2.0":     {CapabilityChainIDDomain, "1.2.0", false},
		"optional safe tx gas on 2.0.0": {CapabilitySafeTxGasOptional, "2.0.0", true},
		"unknown capability":           {Capability("time-travel"), "9.9.9", false},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			v := semver.MustParse(tc.version)
			assert.Equal(t, tc.want, Supports(tc.capability, v))
		})
	}
}

func TestSupportsNilVersion(t *testing.T) {
	assert.False(t, Supports(CapabilityGuard, nil))
}

func TestValidateEntryAddress(t *testing.T) {
	assert.Error(t, ValidateEntryAddress(ZeroAddress))
	assert.Error(t, ValidateEntryAddress(SentinelAddress))
	assert.NoError(t, ValidateEntryAddress(common.HexToAddress("0x02")))
}
