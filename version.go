package covenant

import (
	"fmt"

	"github.com/Masterminds/semver"
)

// Capability names a wallet contract feature that appeared in some contract
// version. Use Supports to test a capability against a deployed version.
type Capability string

const (
	// CapabilityETHSign allows raw-hash signatures produced by
	// personal-message signing.
	CapabilityETHSign Capability = "eth-sign"
	// CapabilityGuard allows setting a transaction guard.
	CapabilityGuard Capability = "guard"
	// CapabilityFallbackHandler allows setting a fallback handler.
	CapabilityFallbackHandler Capability = "fallback-handler"
	// CapabilitySafeTxGasOptional allows omitting an estimated safeTxGas.
	CapabilitySafeTxGasOptional Capability = "safe-tx-gas-optional"
	// CapabilityChainIDDomain selects the EIP-712 domain that includes
	// the chain id.
	CapabilityChainIDDomain Capability = "chain-id-domain"
)

// capabilityMinVersion maps every capability to the first contract version
// that supports it. Adding a capability is a one line change here.
var capabilityMinVersion = map[Capability]*semver.Version{
	CapabilityETHSign:           semver.MustParse("1.1.0"),
	CapabilityGuard:             semver.MustParse("1.3.0"),
	CapabilityFallbackHandler:   semver.MustParse("1.1.1"),
	CapabilitySafeTxGasOptional: semver.MustParse("1.3.0"),
	CapabilityChainIDDomain:     semver.MustParse("1.3.0"),
}

// Supports reports whether a contract of the given version provides the
// capability. Pre-release tags are ignored: only major.minor.patch take part
// in the comparison. Unknown capabilities are never supported.
func Supports(c Capability, version *semver.Version) bool {
	min, ok := capabilityMinVersion[c]
	if !ok || version == nil {
		return false
	}
	return !coreVersion(version).LessThan(min)
}

// coreVersion strips pre-release and build metadata so that for example
// 1.3.0-libs.0 gates the same way as 1.3.0.
func coreVersion(v *semver.Version) *semver.Version {
	if v.Prerelease() == "" && v.Metadata() == "" {
		return v
	}
	return semver.MustParse(fmt.Sprintf("%d.%d.%d", v.Major(), v.Minor(), v.Patch()))
}
