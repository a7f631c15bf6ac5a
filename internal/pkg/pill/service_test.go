package pill

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sgoadhouse/raptpill2mqtt/internal/pkg/model"
)

type capturePublisher struct {
	published []*model.Measurement
	err       error
}

func (p *capturePublisher) PublishMeasurement(_ context.Context, m *model.Measurement) error {
	p.published = append(p.published, m)
	return p.err
}

type fakeTable struct {
	entries map[string]*model.CalibrationEntry
}

func (t *fakeTable) Lookup(identity string) *model.CalibrationEntry {
	return t.entries[identity]
}

func newTestService(pub *capturePublisher, entries map[string]*model.CalibrationEntry) *Service {
	return New(pub, &fakeTable{entries: entries})
}

func v2Advertisement(t *testing.T, uuids []string) model.RawAdvertisement {
	t.Helper()
	return model.RawAdvertisement{
		ManufacturerData: mustHex(t, "5241505402"+"000141200000"+"8e5d02eefff0001000053000"),
		RSSI:             -72,
		Address:          "ea:ca:eb:f0:0f:b5",
		ServiceUUIDs:     uuids,
		ReceivedAt:       time.Now(),
	}
}

func TestHandleAdvertisement_PublishesV2Measurement(t *testing.T) {
	pub := &capturePublisher{}
	svc := newTestService(pub, nil)

	svc.HandleAdvertisement(v2Advertisement(t, []string{"a495bb60-c5b1-4b44-b512-1370f02d74de"}))

	require.Len(t, pub.published, 1)
	m := pub.published[0]
	assert.Equal(t, "Blue", m.Identity)
	assert.False(t, m.Calibrated)
	assert.InDelta(t, 0.750, m.SpecificGravity, 0.001)
	assert.InDelta(t, 48.0, m.Battery, 0.5)
	assert.Equal(t, -72, m.RSSI)
	require.NotNil(t, m.GravityVelocity)
	assert.InDelta(t, 10.0, *m.GravityVelocity, 0.1)
}

func TestHandleAdvertisement_AppliesCalibration(t *testing.T) {
	pub := &capturePublisher{}
	svc := newTestService(pub, map[string]*model.CalibrationEntry{
		"Blue": {TemperatureOffset: 2.0, GravityOffset: 0.005},
	})

	svc.HandleAdvertisement(v2Advertisement(t, []string{"a495bb60-c5b1-4b44-b512-1370f02d74de"}))

	require.Len(t, pub.published, 1)
	assert.True(t, pub.published[0].Calibrated)
	assert.InDelta(t, 0.755, pub.published[0].SpecificGravity, 0.001)
}

func TestHandleAdvertisement_UnknownIdentityStillPublishes(t *testing.T) {
	pub := &capturePublisher{}
	svc := newTestService(pub, map[string]*model.CalibrationEntry{
		"Blue": {TemperatureOffset: 2.0, GravityOffset: 0.005},
	})

	svc.HandleAdvertisement(v2Advertisement(t, nil))

	require.Len(t, pub.published, 1)
	assert.Equal(t, UnknownIdentity, pub.published[0].Identity)
	assert.False(t, pub.published[0].Calibrated)
}

func TestHandleAdvertisement_NoPublishCases(t *testing.T) {
	testCases := []struct {
		name    string
		payload string
	}{
		{
			name:    "foreign manufacturer",
			payload: "4c0002153d25",
		},
		{
			name:    "firmware announcement",
			payload: "524147312e322e33",
		},
		{
			name:    "device type string",
			payload: "52415054645261707450696c6c",
		},
		{
			name:    "v1 data",
			payload: "524150540100000000",
		},
		{
			name:    "unknown vendor sub-type",
			payload: "5241505403deadbeef",
		},
		{
			name:    "truncated v2 body",
			payload: "5241505402" + "0001412000008e5d",
		},
		{
			name:    "non-zero pad",
			payload: "5241505402" + "ff0141200000" + "8e5d02eefff0001000053000",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			pub := &capturePublisher{}
			svc := newTestService(pub, nil)

			svc.HandleAdvertisement(model.RawAdvertisement{
				ManufacturerData: mustHex(t, tc.payload),
				RSSI:             -60,
				Address:          "ea:ca:eb:f0:0f:b5",
				ReceivedAt:       time.Now(),
			})

			assert.Empty(t, pub.published)
		})
	}
}

func TestHandleAdvertisement_PublishFailureIsAbsorbed(t *testing.T) {
	pub := &capturePublisher{err: assert.AnError}
	svc := newTestService(pub, nil)

	// Must not panic or propagate; the scan cycle continues.
	svc.HandleAdvertisement(v2Advertisement(t, nil))
	svc.HandleAdvertisement(v2Advertisement(t, nil))

	assert.Len(t, pub.published, 2)
}

func TestHandleAdvertisement_DuplicateBurstsPassThrough(t *testing.T) {
	pub := &capturePublisher{}
	svc := newTestService(pub, nil)

	// A Pill emits a set of identical advertisements per interval; the core
	// does not deduplicate.
	for i := 0; i < 6; i++ {
		svc.HandleAdvertisement(v2Advertisement(t, []string{"a495bb60-c5b1-4b44-b512-1370f02d74de"}))
	}

	assert.Len(t, pub.published, 6)
}
