package pill

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"

	"github.com/sgoadhouse/raptpill2mqtt/internal/pkg/model"
)

var (
	ErrLengthMismatch = errors.New("truncated v2 frame body")
	ErrInvalidFrame   = errors.New("invalid v2 frame")
)

// v2BodyLen is the fixed big-endian layout following the 5-byte header:
// pad u8, velocity-valid u8, velocity f32, temperature u16 (Kelvin x128),
// specific gravity u16 (thousandths), accel x/y/z i16 (x16),
// battery u16 (x256).
const v2BodyLen = 18

// DecodeV2 parses the body of a v2 data frame and applies the fixed-point
// scaling. It never reads past the buffer: a short body fails with
// ErrLengthMismatch, a non-zero pad byte with ErrInvalidFrame. Decoded
// ranges are not validated further; bit integrity is the radio layer's
// problem.
func DecodeV2(body []byte) (*model.DecodedV2Fields, error) {
	if len(body) < v2BodyLen {
		return nil, fmt.Errorf("%w: got %d bytes, want %d", ErrLengthMismatch, len(body), v2BodyLen)
	}
	if pad := body[0]; pad != 0 {
		return nil, fmt.Errorf("%w: pad byte 0x%02x", ErrInvalidFrame, pad)
	}

	velocity := float64(math.Float32frombits(binary.BigEndian.Uint32(body[2:6])))
	temperatureC := float64(binary.BigEndian.Uint16(body[6:8]))/128 - 273.15

	return &model.DecodedV2Fields{
		GravityVelocityValid: body[1] == 1,
		GravityVelocity:      velocity,
		TemperatureC:         temperatureC,
		TemperatureF:         temperatureC*9/5 + 32,
		SpecificGravity:      float64(binary.BigEndian.Uint16(body[8:10])) / 1000,
		AccelX:               float64(int16(binary.BigEndian.Uint16(body[10:12]))) / 16,
		AccelY:               float64(int16(binary.BigEndian.Uint16(body[12:14]))) / 16,
		AccelZ:               float64(int16(binary.BigEndian.Uint16(body[14:16]))) / 16,
		Battery:              float64(binary.BigEndian.Uint16(body[16:18])) / 256,
	}, nil
}
