package calibration

import (
	"go.uber.org/zap"

	"github.com/sgoadhouse/raptpill2mqtt/internal/pkg/config"
	"github.com/sgoadhouse/raptpill2mqtt/internal/pkg/model"
)

// Table maps device identity labels to optional calibration entries. Built
// once at startup and never mutated, so concurrent lookups from overlapping
// scan callbacks need no locking.
type Table struct {
	entries map[string]*model.CalibrationEntry
}

func NewTable(cfg *config.CalibrationConfig) *Table {
	entries := map[string]*model.CalibrationEntry{
		"Red":         cfg.Red.Entry(),
		"Green":       cfg.Green.Entry(),
		"Black":       cfg.Black.Entry(),
		"Purple":      cfg.Purple.Entry(),
		"Orange":      cfg.Orange.Entry(),
		"Blue":        cfg.Blue.Entry(),
		"Yellow":      cfg.Yellow.Entry(),
		"Pink":        cfg.Pink.Entry(),
		"RAPT Yellow": cfg.RaptYellow.Entry(),
	}
	for identity, entry := range entries {
		if entry != nil {
			zap.L().Info("calibration configured",
				zap.String("pill", identity),
				zap.Float64("temp_offset", entry.TemperatureOffset),
				zap.Float64("sg_offset", entry.GravityOffset))
		}
	}
	return &Table{entries: entries}
}

// Lookup returns the calibration for an identity, nil when the device is
// unknown or has no entry configured. Both mean "apply no correction".
func (t *Table) Lookup(identity string) *model.CalibrationEntry {
	return t.entries[identity]
}
