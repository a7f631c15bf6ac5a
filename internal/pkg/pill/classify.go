package pill

import (
	"bytes"

	"github.com/sgoadhouse/raptpill2mqtt/internal/pkg/model"
)

// The registered manufacturer id 0x4152 appears on air little-endian.
var vendorPrefix = []byte{0x52, 0x41}

const subTypeFirmware byte = 0x47

var (
	subTypeV1Data     = []byte{0x50, 0x54, 0x01} // "PT" + 0x01
	subTypeV2Data     = []byte{0x50, 0x54, 0x02}
	subTypeDeviceType = []byte{0x50, 0x54, 0x64}
)

// headerLen is the manufacturer id plus the 3-byte data sub-type code.
const headerLen = 5

// MatchesVendor reports whether the payload carries the Pill vendor's
// manufacturer id. Used by the handler to log unknown sub-types from devices
// that are otherwise ours.
func MatchesVendor(payload []byte) bool {
	return len(payload) >= 2 && bytes.Equal(payload[:2], vendorPrefix)
}

// Classify identifies the frame layout from the payload prefix. Pure; short
// or foreign payloads classify as FrameUnrecognized, never an error.
func Classify(payload []byte) model.FrameKind {
	if !MatchesVendor(payload) {
		return model.FrameUnrecognized
	}
	if len(payload) >= 3 && payload[2] == subTypeFirmware {
		return model.FrameFirmwareVersion
	}
	if len(payload) < headerLen {
		return model.FrameUnrecognized
	}
	switch {
	case bytes.Equal(payload[2:headerLen], subTypeV1Data):
		return model.FrameV1Data
	case bytes.Equal(payload[2:headerLen], subTypeV2Data):
		return model.FrameV2Data
	case bytes.Equal(payload[2:headerLen], subTypeDeviceType):
		return model.FrameDeviceType
	}
	return model.FrameUnrecognized
}
