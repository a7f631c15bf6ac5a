package cmd

import (
	"context"
	"fmt"

	paho_mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/robfig/cron/v3"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sgoadhouse/raptpill2mqtt/internal/pkg/calibration"
	"github.com/sgoadhouse/raptpill2mqtt/internal/pkg/config"
	"github.com/sgoadhouse/raptpill2mqtt/internal/pkg/mqtt"
	"github.com/sgoadhouse/raptpill2mqtt/internal/pkg/pill"
	"github.com/sgoadhouse/raptpill2mqtt/internal/pkg/publisher"
	"github.com/sgoadhouse/raptpill2mqtt/internal/pkg/scanner"
)

func PillCommand(ctx *cli.Context) error {
	cfg := &config.Config{
		Mqtt: &config.MqttConfig{
			Host:     ctx.String("mqtt-host"),
			Port:     ctx.Int("mqtt-port"),
			Username: ctx.String("mqtt-user"),
			Password: ctx.String("mqtt-pass"),
		},
		Scan: &config.ScanConfig{
			Window:        ctx.Duration("scan-window"),
			SleepInterval: ctx.Duration("sleep-interval"),
		},
		LogLevel:    ctx.String("log-level"),
		HADiscovery: ctx.Bool("ha-discovery"),
	}

	return run(ctx.Context, cfg)
}

func run(ctx context.Context, cfg *config.Config) error {
	errorChan := make(chan error, 1000)
	var err error

	eg, ctx := errgroup.WithContext(ctx)
	logCfg := zap.NewProductionConfig()

	logCfg.Level, err = zap.ParseAtomicLevel(cfg.LogLevel)
	if err != nil {
		return err
	}
	logCfg.OutputPaths = []string{"stdout"}
	logCfg.ErrorOutputPaths = []string{"stdout"}
	logCfg.Sampling = nil
	logger := zap.Must(logCfg.Build(zap.AddCaller(), zap.AddStacktrace(zap.ErrorLevel)))
	defer func() {
		_ = logger.Sync() // flushes buffer, if any.
	}()
	zap.ReplaceGlobals(logger)

	cfg.Calibration, err = config.LoadCalibration()
	if err != nil {
		return err
	}
	table := calibration.NewTable(cfg.Calibration)

	mqttSvc := mqtt.New(paho_mqtt.NewClient(mqtt.NewClientOptions(cfg.Mqtt)), cfg.HADiscovery)
	if err := mqttSvc.Connect(); err != nil {
		return err
	}

	registry := publisher.NewRegistry()
	if err := registry.Register("mqtt", mqttSvc); err != nil {
		return err
	}

	pillSvc := pill.New(registry, table)

	scan, err := scanner.New(pillSvc)
	if err != nil {
		return err
	}

	eg.Go(func() error {
		return scheduleScans(ctx, scan, cfg.Scan, errorChan)
	})

	eg.Go(func() error {
		// handle any async errors from the scan cycle
		for {
			select {
			case err := <-errorChan:
				logger.Error("scan cycle error", zap.Error(err))
			case <-ctx.Done():
				logger.Info("context done")
				return ctx.Err()
			}
		}
	})

	return eg.Wait()
}

// scheduleScans runs one scan immediately, then repeats on the configured
// interval. Scan failures go to errChan; a bad cycle never stops the next.
func scheduleScans(ctx context.Context, scan *scanner.Scanner, cfg *config.ScanConfig, errChan chan error) error {
	doScan := func() {
		if err := scan.Scan(ctx, cfg.Window); err != nil && ctx.Err() == nil {
			errChan <- err
		}
	}
	doScan()

	// CRON automation
	c := cron.New()
	if _, err := c.AddFunc(fmt.Sprintf("@every %s", cfg.SleepInterval), doScan); err != nil {
		return err
	}

	go func() {
		<-ctx.Done()
		c.Stop()
	}()
	c.Run()
	return ctx.Err()
}
