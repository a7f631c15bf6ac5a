package mqtt

import (
	"errors"
	"fmt"
	"time"

	paho_mqtt "github.com/eclipse/paho.mqtt.golang"
	"go.uber.org/zap"

	"github.com/sgoadhouse/raptpill2mqtt/internal/pkg/config"
)

type service struct {
	client      paho_mqtt.Client
	logger      *zap.Logger
	haDiscovery bool
	registered  map[string]struct{}
}

func New(client paho_mqtt.Client, haDiscovery bool) *service {
	return &service{
		client:      client,
		logger:      zap.L(),
		haDiscovery: haDiscovery,
		registered:  map[string]struct{}{},
	}
}

// NewClientOptions builds paho options for the configured broker. The client
// id is fixed; only one bridge should run per host adapter anyway.
func NewClientOptions(cfg *config.MqttConfig) *paho_mqtt.ClientOptions {
	opts := paho_mqtt.NewClientOptions().
		AddBroker(fmt.Sprintf("tcp://%s:%d", cfg.Host, cfg.Port)).
		SetClientID("raptpill2mqtt").
		SetAutoReconnect(true).
		SetConnectRetry(true)
	if cfg.Username != "" {
		opts = opts.SetUsername(cfg.Username).SetPassword(cfg.Password)
	}
	return opts
}

func (s *service) Connect() error {
	token := s.client.Connect()
	res := token.WaitTimeout(time.Second * 5)
	if res {
		return nil
	}
	if err := token.Error(); err != nil {
		return err
	}
	return errors.New("unable to connect in time")
}
