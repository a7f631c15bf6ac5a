package main

import (
	"log"
	"os"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/sgoadhouse/raptpill2mqtt/cmd"
)

func main() {
	app := &cli.App{
		Name:   "raptpill2mqtt",
		Usage:  "forward RAPT Pill hydrometer readings to MQTT",
		Action: cmd.PillCommand,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "mqtt-host",
				EnvVars: []string{"MQTT_IP"},
				Value:   "127.0.0.1",
			},
			&cli.IntFlag{
				Name:    "mqtt-port",
				EnvVars: []string{"MQTT_PORT"},
				Value:   1883,
			},
			&cli.StringFlag{
				Name:    "mqtt-user",
				EnvVars: []string{"MQTT_USER"},
				Value:   "",
			},
			&cli.StringFlag{
				Name:    "mqtt-pass",
				EnvVars: []string{"MQTT_PASS"},
				Value:   "",
			},
			&cli.DurationFlag{
				Name:    "scan-window",
				EnvVars: []string{"SCAN_WINDOW"},
				Value:   75 * time.Second,
			},
			&cli.DurationFlag{
				Name:    "sleep-interval",
				EnvVars: []string{"SLEEP_INTERVAL"},
				Value:   5 * time.Minute,
			},
			&cli.BoolFlag{
				Name:    "ha-discovery",
				EnvVars: []string{"HA_DISCOVERY"},
				Value:   false,
			},
			&cli.StringFlag{
				Name:    "log-level",
				EnvVars: []string{"LOG_LEVEL"},
				Value:   "INFO",
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
