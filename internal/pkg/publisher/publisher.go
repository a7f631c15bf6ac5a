package publisher

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/sgoadhouse/raptpill2mqtt/internal/pkg/model"
)

var errAlreadyRegistered = errors.New("publisher already registered")

type adapter interface {
	// PublishMeasurement serializes and publishes one measurement record.
	PublishMeasurement(ctx context.Context, m *model.Measurement) error
}

// Registry fans measurements out to named transport adapters. Adapters are
// registered during startup only; publishing is read-only on the map.
type Registry struct {
	adapters map[string]adapter
	logger   *zap.Logger
}

func NewRegistry() *Registry {
	return &Registry{
		adapters: make(map[string]adapter),
		logger:   zap.L(),
	}
}

func (r *Registry) Register(name string, a adapter) error {
	if _, exists := r.adapters[name]; exists {
		return errAlreadyRegistered
	}
	r.adapters[name] = a
	return nil
}

// PublishMeasurement hands the record to every registered adapter. A failing
// adapter is logged and does not stop the others; the joined error is the
// single pass/fail outcome reported to the caller.
func (r *Registry) PublishMeasurement(ctx context.Context, m *model.Measurement) error {
	var errs []error
	for name, a := range r.adapters {
		if err := a.PublishMeasurement(ctx, m); err != nil {
			r.logger.Error("failed to publish measurement", zap.Error(err), zap.String("publisher", name))
			errs = append(errs, err)
			continue
		}
		r.logger.Debug("published measurement", zap.String("pill", m.Identity), zap.String("publisher", name))
	}
	return errors.Join(errs...)
}
