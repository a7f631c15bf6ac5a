package model

import "time"

// FrameKind identifies which advertisement layout a manufacturer-data
// payload carries. Classification is a pure function of the payload prefix.
type FrameKind string

func (fk FrameKind) String() string {
	return string(fk)
}

const (
	FrameFirmwareVersion FrameKind = "firmware_version"
	FrameDeviceType      FrameKind = "device_type"
	FrameV1Data          FrameKind = "v1_data"
	FrameV2Data          FrameKind = "v2_data"
	FrameUnrecognized    FrameKind = "unrecognized"
)

// RawAdvertisement is one radio event as handed over by the scanner.
type RawAdvertisement struct {
	ManufacturerData []byte
	RSSI             int
	Address          string
	ServiceUUIDs     []string
	ReceivedAt       time.Time
}

// CalibrationEntry is a fixed per-device correction. Offsets are defined in
// Fahrenheit and specific-gravity units, matching how the devices are
// calibrated in the field.
type CalibrationEntry struct {
	TemperatureOffset float64 `json:"temp"`
	GravityOffset     float64 `json:"sg"`
}

// DecodedV2Fields holds the physical values decoded from a v2 data frame,
// after fixed-point scaling but before calibration.
type DecodedV2Fields struct {
	GravityVelocityValid bool
	GravityVelocity      float64 // points per day
	TemperatureC         float64
	TemperatureF         float64
	SpecificGravity      float64
	AccelX               float64
	AccelY               float64
	AccelZ               float64
	Battery              float64 // percent
}

// Measurement is the canonical output record for one decoded advertisement.
// GravityVelocity is nil when the frame flagged it invalid; the publisher
// must omit the field entirely in that case.
type Measurement struct {
	Identity        string
	Calibrated      bool
	TemperatureC    float64
	TemperatureF    float64
	SpecificGravity float64
	GravityVelocity *float64
	Battery         float64
	RSSI            int
	Time            time.Time
}
