package scanner

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"tinygo.org/x/bluetooth"

	"github.com/sgoadhouse/raptpill2mqtt/internal/pkg/model"
	"github.com/sgoadhouse/raptpill2mqtt/internal/pkg/pill"
)

type handler interface {
	HandleAdvertisement(adv model.RawAdvertisement)
}

// Scanner owns the BLE duty cycle: a bounded listening window per scan, one
// synchronous handler call per received advertisement. Bursts and duplicate
// advertisements for the same reading are expected and passed through; any
// dedup is the consumer's policy.
type Scanner struct {
	adapter    *bluetooth.Adapter
	handler    handler
	logger     *zap.Logger
	knownUUIDs []bluetooth.UUID
}

func New(h handler) (*Scanner, error) {
	adapter := bluetooth.DefaultAdapter
	if err := adapter.Enable(); err != nil {
		return nil, fmt.Errorf("enable ble adapter: %w", err)
	}

	knownUUIDs := make([]bluetooth.UUID, 0, len(pill.KnownBeaconUUIDs()))
	for _, raw := range pill.KnownBeaconUUIDs() {
		uuid, err := bluetooth.ParseUUID(raw)
		if err != nil {
			return nil, fmt.Errorf("parse beacon uuid %q: %w", raw, err)
		}
		knownUUIDs = append(knownUUIDs, uuid)
	}

	return &Scanner{
		adapter:    adapter,
		handler:    h,
		logger:     zap.L(),
		knownUUIDs: knownUUIDs,
	}, nil
}

// Scan listens for the given window, then stops. Blocks until the window
// elapses or ctx is cancelled.
func (s *Scanner) Scan(ctx context.Context, window time.Duration) error {
	s.logger.Info("started scanning", zap.Duration("window", window))

	timer := time.AfterFunc(window, func() {
		_ = s.adapter.StopScan()
	})
	defer timer.Stop()

	stop := context.AfterFunc(ctx, func() {
		_ = s.adapter.StopScan()
	})
	defer stop()

	err := s.adapter.Scan(func(_ *bluetooth.Adapter, result bluetooth.ScanResult) {
		adv, ok := s.toAdvertisement(result)
		if !ok {
			return
		}
		s.handler.HandleAdvertisement(adv)
	})
	s.logger.Info("stopped scanning")
	if err != nil {
		return fmt.Errorf("ble scan: %w", err)
	}
	return ctx.Err()
}

// toAdvertisement converts a scan result into the decoder's input shape. The
// ble stack splits off the company id; the classifier wants the on-air bytes
// back, little-endian id first.
func (s *Scanner) toAdvertisement(result bluetooth.ScanResult) (model.RawAdvertisement, bool) {
	elements := result.ManufacturerData()
	if len(elements) == 0 {
		return model.RawAdvertisement{}, false
	}
	element := elements[0]

	payload := make([]byte, 0, len(element.Data)+2)
	payload = append(payload, byte(element.CompanyID), byte(element.CompanyID>>8))
	payload = append(payload, element.Data...)

	var serviceUUIDs []string
	for _, uuid := range s.knownUUIDs {
		if result.HasServiceUUID(uuid) {
			serviceUUIDs = append(serviceUUIDs, uuid.String())
		}
	}

	return model.RawAdvertisement{
		ManufacturerData: payload,
		RSSI:             int(result.RSSI),
		Address:          result.Address.String(),
		ServiceUUIDs:     serviceUUIDs,
		ReceivedAt:       time.Now(),
	}, true
}
