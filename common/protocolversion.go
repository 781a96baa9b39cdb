package common

import (
	"fmt"

	"github.com/holiman/uint256"
)

const (
	// PackedSemverMinorOffset is the bit offset of the minor version
	// (protocol version id) inside a packed semantic version
	PackedSemverMinorOffset = 32
	// PackedSemverMinorMask masks the minor version once shifted.  Raw
	// on-chain values below it are legacy protocol version ids.
	PackedSemverMinorMask = 0xFFFF
	// packedSemverBits is the number of low bits a packed semantic version
	// may use (32 bits of patch and 16 bits of minor)
	packedSemverBits = PackedSemverMinorOffset + 16
)

// ProtocolVersionID identifies a protocol upgrade of the rollup
type ProtocolVersionID uint16

// Known protocol versions
const (
	Version0 ProtocolVersionID = iota
	Version1
	Version2
	Version3
	Version4
	Version5
	Version6
	Version7
	Version8
	Version9
	Version10
	Version11
	Version12
	Version13
	Version14
	Version15
	Version16
	Version17
	Version18
	Version19
	Version20
	Version21
	Version22
	Version23
	Version24
	Version25
)

const (
	// VersionLatest is the latest protocol version running on L1
	VersionLatest = Version24
	// VersionNext is the protocol version being prepared
	VersionNext = Version25
)

// BridgeGeneration tells which ABI of the settlement contracts applies
type BridgeGeneration int

const (
	// PreSharedBridge contracts take no chain id argument
	PreSharedBridge BridgeGeneration = iota
	// PostSharedBridge contracts expect the chain id as first argument
	PostSharedBridge
)

// String implements fmt.Stringer
func (g BridgeGeneration) String() string {
	switch g {
	case PreSharedBridge:
		return "pre_shared_bridge"
	case PostSharedBridge:
		return "post_shared_bridge"
	default:
		return fmt.Sprintf("BridgeGeneration(%d)", int(g))
	}
}

// NewProtocolVersionID returns the ProtocolVersionID for a raw 16-bit value,
// failing when the version is unknown
func NewProtocolVersionID(v uint16) (ProtocolVersionID, error) {
	id := ProtocolVersionID(v)
	if id > VersionNext {
		return 0, Wrap(fmt.Errorf("unknown protocol version id %d", v))
	}
	return id, nil
}

// IsPreSharedBridge returns true for the versions deployed before the shared
// bridge upgrade
func (v ProtocolVersionID) IsPreSharedBridge() bool {
	return v <= Version22
}

// BridgeGeneration returns the contracts ABI generation of this version
func (v ProtocolVersionID) BridgeGeneration() BridgeGeneration {
	if v.IsPreSharedBridge() {
		return PreSharedBridge
	}
	return PostSharedBridge
}

// ProtocolSemanticVersion is a protocol version with a patch level.  The
// protocol version id plays the role of the minor version; the major version
// is always 0.
type ProtocolSemanticVersion struct {
	Minor ProtocolVersionID
	Patch uint32
}

// String implements fmt.Stringer
func (v ProtocolSemanticVersion) String() string {
	return fmt.Sprintf("0.%d.%d", v.Minor, v.Patch)
}

// Pack returns the on-chain packed representation of the version
func (v ProtocolSemanticVersion) Pack() *uint256.Int {
	packed := uint256.NewInt(uint64(v.Minor))
	packed.Lsh(packed, PackedSemverMinorOffset)
	return packed.Or(packed, uint256.NewInt(uint64(v.Patch)))
}

// UnpackProtocolSemanticVersion decodes a packed semantic version
func UnpackProtocolSemanticVersion(packed *uint256.Int) (ProtocolSemanticVersion, error) {
	if packed.BitLen() > packedSemverBits {
		return ProtocolSemanticVersion{}, Wrap(fmt.Errorf(
			"packed protocol version %s has bits set above bit %d", packed.Hex(), packedSemverBits))
	}
	raw := packed.Uint64()
	minor, err := NewProtocolVersionID(uint16((raw >> PackedSemverMinorOffset) & PackedSemverMinorMask))
	if err != nil {
		return ProtocolSemanticVersion{}, Wrap(err)
	}
	return ProtocolSemanticVersion{
		Minor: minor,
		Patch: uint32(raw),
	}, nil
}

// DecodeProtocolVersion interprets the raw getProtocolVersion() word.  Values
// below PackedSemverMinorMask come from contracts that predate semantic
// versioning and are the protocol version id itself.
func DecodeProtocolVersion(raw *uint256.Int) (ProtocolSemanticVersion, error) {
	if raw.LtUint64(PackedSemverMinorMask) {
		id, err := NewProtocolVersionID(uint16(raw.Uint64()))
		if err != nil {
			return ProtocolSemanticVersion{}, Wrap(err)
		}
		return ProtocolSemanticVersion{Minor: id}, nil
	}
	return UnpackProtocolSemanticVersion(raw)
}
