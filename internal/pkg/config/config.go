package config

import (
	"bytes"
	"encoding/json"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/sgoadhouse/raptpill2mqtt/internal/pkg/model"
)

type Config struct {
	Mqtt        *MqttConfig
	Scan        *ScanConfig
	Calibration *CalibrationConfig
	LogLevel    string
	HADiscovery bool
}

type MqttConfig struct {
	Host     string
	Port     int
	Username string
	Password string
}

type ScanConfig struct {
	// Window is how long each scan listens for advertisements.
	Window time.Duration
	// SleepInterval is the period between scan starts.
	SleepInterval time.Duration
}

// CalibrationConfig carries the classic TILT_CAL_<COLOR> environment
// variables. Values are JSON offset literals, e.g. {"temp":1.5,"sg":0.002}.
// An unset variable means no calibration for that device.
type CalibrationConfig struct {
	Red        Offset `env:"TILT_CAL_RED"`
	Green      Offset `env:"TILT_CAL_GREEN"`
	Black      Offset `env:"TILT_CAL_BLACK"`
	Purple     Offset `env:"TILT_CAL_PURPLE"`
	Orange     Offset `env:"TILT_CAL_ORANGE"`
	Blue       Offset `env:"TILT_CAL_BLUE"`
	Yellow     Offset `env:"TILT_CAL_YELLOW"`
	Pink       Offset `env:"TILT_CAL_PINK"`
	RaptYellow Offset `env:"TILT_CAL_RAPT_YELLOW"`
}

// Offset is an optional calibration pair; the zero value means "not
// configured", which is distinct from configured zero offsets.
type Offset struct {
	set  bool
	Temp float64
	SG   float64
}

func (o *Offset) UnmarshalText(text []byte) error {
	if len(bytes.TrimSpace(text)) == 0 {
		return nil
	}
	var raw struct {
		Temp float64 `json:"temp"`
		SG   float64 `json:"sg"`
	}
	if err := json.Unmarshal(text, &raw); err != nil {
		return err
	}
	o.set = true
	o.Temp = raw.Temp
	o.SG = raw.SG
	return nil
}

// Entry converts a configured offset to a calibration entry, nil when unset.
func (o Offset) Entry() *model.CalibrationEntry {
	if !o.set {
		return nil
	}
	return &model.CalibrationEntry{
		TemperatureOffset: o.Temp,
		GravityOffset:     o.SG,
	}
}

// LoadCalibration reads the calibration environment once at startup.
func LoadCalibration() (*CalibrationConfig, error) {
	cfg := &CalibrationConfig{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
