package mqtt

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/gosimple/slug"
	"go.uber.org/zap"

	"github.com/sgoadhouse/raptpill2mqtt/internal/pkg/model"
)

const timeLayout = "Jan 02 2006 15:04:05"

// TopicFor returns the measurement topic for a device identity.
func TopicFor(identity string) string {
	return fmt.Sprintf("rapt-pill/%s", identity)
}

// PublishMeasurement serializes one measurement and publishes it QoS 2
// retained, so late subscribers always see the latest reading.
func (s *service) PublishMeasurement(ctx context.Context, m *model.Measurement) error {
	if s.haDiscovery {
		if err := s.registerIdentity(m.Identity); err != nil {
			// Discovery is best effort; the measurement still goes out.
			s.logger.Error("failed to register device", zap.Error(err), zap.String("pill", m.Identity))
		}
	}

	payload, err := json.Marshal(payloadFor(m))
	if err != nil {
		return err
	}

	token := s.client.Publish(TopicFor(m.Identity), 2, true, payload)
	res := token.WaitTimeout(time.Second * 10)
	if res {
		return nil
	}
	if err := token.Error(); err != nil {
		return err
	}
	return ctx.Err()
}

// payloadFor maps a measurement to the stable downstream key set. The
// cali/uncali suffix is part of the contract: consumers must be able to tell
// which calibration state produced a value. The pts-per-day key is absent,
// not zero, when the frame flagged velocity invalid.
func payloadFor(m *model.Measurement) map[string]string {
	suffix := "uncali"
	if m.Calibrated {
		suffix = "cali"
	}
	data := map[string]string{
		"specific_gravity_" + suffix:      fmt.Sprintf("%.4f", m.SpecificGravity),
		"temperature_celsius_" + suffix:   fmt.Sprintf("%.2f", m.TemperatureC),
		"temperature_farenheit_" + suffix: fmt.Sprintf("%.1f", m.TemperatureF),
		"battery":                         fmt.Sprintf("%.1f", m.Battery),
		"rssi":                            fmt.Sprintf("%d", m.RSSI),
		"time":                            m.Time.Format(timeLayout),
	}
	if m.GravityVelocity != nil {
		data["specific_gravity_pts_per_day_"+suffix] = fmt.Sprintf("%.1f", *m.GravityVelocity)
	}
	return data
}

func (s *service) registerIdentity(identity string) error {
	if _, exists := s.registered[identity]; exists {
		return nil
	}
	registerMessage := defaultRegisterMsg(identity)
	slugIdentifier := strings.Replace(slug.Make("rapt pill "+identity), "-", "_", -1)

	topic := fmt.Sprintf("homeassistant/sensor/%s/config", slugIdentifier)

	payload, err := json.Marshal(registerMessage)
	if err != nil {
		return err
	}
	token := s.client.Publish(topic, 1, true, payload)
	if err := token.Error(); err != nil {
		return err
	}
	if res := token.WaitTimeout(time.Second * 5); res {
		s.registered[identity] = struct{}{}
		return nil
	}
	return nil
}

func defaultRegisterMsg(identity string) model.RegisterMessage {
	name := fmt.Sprintf("RAPT Pill %s", identity)
	slugIdentifier := strings.Replace(slug.Make("rapt pill "+identity), "-", "_", -1)

	return model.RegisterMessage{
		Tilda:      TopicFor(identity),
		Name:       name,
		ID:         strings.ToLower(slugIdentifier),
		StateTopic: "~",
		Device: model.RegisterDevice{
			Name:         name,
			Identifiers:  []string{slugIdentifier},
			Model:        "RAPT Pill",
			Manufacturer: "KegLand",
		},
	}
}
