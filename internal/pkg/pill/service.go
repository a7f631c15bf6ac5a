package pill

import (
	"context"
	"encoding/hex"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/sgoadhouse/raptpill2mqtt/internal/pkg/contxt"
	"github.com/sgoadhouse/raptpill2mqtt/internal/pkg/model"
)

type publisher interface {
	PublishMeasurement(ctx context.Context, m *model.Measurement) error
}

type calibrationTable interface {
	Lookup(identity string) *model.CalibrationEntry
}

type Service struct {
	publisher   publisher
	calibration calibrationTable
	logger      *zap.Logger
}

func New(pub publisher, cal calibrationTable) *Service {
	return &Service{
		publisher:   pub,
		calibration: cal,
		logger:      zap.L(), // returns the global logger.
	}
}

// HandleAdvertisement runs the full pipeline for one radio event:
// classify, decode, resolve identity, assemble, publish. Every
// per-advertisement failure is absorbed and logged; the scan cycle never
// aborts on a bad frame.
func (s *Service) HandleAdvertisement(adv model.RawAdvertisement) {
	payload := adv.ManufacturerData

	switch Classify(payload) {
	case model.FrameFirmwareVersion:
		s.logger.Info("pill firmware", zap.ByteString("version", payload[3:]))
	case model.FrameDeviceType:
		s.logger.Info("pill device type",
			zap.String("raw", hex.EncodeToString(payload[headerLen:])),
			zap.ByteString("device_type", payload[headerLen:]))
	case model.FrameV1Data:
		s.logger.Info("unable to decode v1 format data", zap.String("payload", hex.EncodeToString(payload)))
	case model.FrameV2Data:
		s.handleV2(adv)
	case model.FrameUnrecognized:
		if MatchesVendor(payload) {
			// Not silently dropped: a sub-type we do not know yet.
			s.logger.Info("unknown sub-type from pill vendor", zap.String("payload", hex.EncodeToString(payload)))
		}
	}
}

func (s *Service) handleV2(adv model.RawAdvertisement) {
	decoded, err := DecodeV2(adv.ManufacturerData[headerLen:])
	if err != nil {
		if errors.Is(err, ErrLengthMismatch) {
			s.logger.Warn("truncated v2 frame", zap.Error(err), zap.String("address", adv.Address))
			return
		}
		s.logger.Error("corrupt v2 frame", zap.Error(err),
			zap.String("address", adv.Address),
			zap.String("payload", hex.EncodeToString(adv.ManufacturerData)))
		return
	}

	identity := ResolveIdentity(adv.ServiceUUIDs)
	m := Assemble(identity, decoded, s.calibration.Lookup(identity), adv.RSSI, adv.ReceivedAt)

	fields := []zap.Field{
		zap.String("pill", identity),
		zap.String("address", adv.Address),
		zap.Float64("specific_gravity", m.SpecificGravity),
		zap.Float64("temperature_c", m.TemperatureC),
		zap.Float64("temperature_f", m.TemperatureF),
		zap.Float64("battery", m.Battery),
		zap.Int("rssi", m.RSSI),
		zap.Bool("calibrated", m.Calibrated),
	}
	if m.GravityVelocity != nil {
		fields = append(fields, zap.Float64("pts_per_day", *m.GravityVelocity))
	}
	s.logger.Info("pill measurement", fields...)

	if err := s.publisher.PublishMeasurement(contxt.NewContext(time.Second*5), m); err != nil {
		s.logger.Error("failed to publish measurement", zap.Error(err), zap.String("pill", identity))
	}
}
