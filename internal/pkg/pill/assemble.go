package pill

import (
	"time"

	"github.com/sgoadhouse/raptpill2mqtt/internal/pkg/model"
)

// Assemble combines decoded values with optional calibration into the
// canonical measurement record. Offsets apply to Fahrenheit and specific
// gravity only; Celsius is reported as decoded. Gravity velocity is carried
// only when the frame flagged it valid.
func Assemble(identity string, decoded *model.DecodedV2Fields, cal *model.CalibrationEntry, rssi int, now time.Time) *model.Measurement {
	m := &model.Measurement{
		Identity:        identity,
		TemperatureC:    decoded.TemperatureC,
		TemperatureF:    decoded.TemperatureF,
		SpecificGravity: decoded.SpecificGravity,
		Battery:         decoded.Battery,
		RSSI:            rssi,
		Time:            now,
	}
	if cal != nil {
		m.Calibrated = true
		m.TemperatureF += cal.TemperatureOffset
		m.SpecificGravity += cal.GravityOffset
	}
	if decoded.GravityVelocityValid {
		velocity := decoded.GravityVelocity
		m.GravityVelocity = &velocity
	}
	return m
}
