// Command fleetbridge runs a scenario headless and publishes per-tick
// robot state and order lifecycle events over MQTT.
package main

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/elektrokombinacija/logibots/internal/config"
	"github.com/elektrokombinacija/logibots/internal/sim"
	"github.com/elektrokombinacija/logibots/internal/sim/tuning"
)

func main() {
	logger := log.New(os.Stderr, "fleetbridge ", log.LstdFlags)

	cfg, err := LoadConfig()
	if err != nil {
		logger.Fatalf("load config: %v", err)
	}

	scenario, err := config.Load(cfg.ScenarioPath, cfg.SchemaPath)
	if err != nil {
		logger.Fatalf("load scenario: %v", err)
	}
	state, err := scenario.BuildState(logger)
	if err != nil {
		logger.Fatalf("build state: %v", err)
	}
	engine := sim.NewEngine(state, tuning.Defaults(), logger, nil)

	client, err := connect(cfg.MQTT, logger)
	if err != nil {
		logger.Fatalf("connect broker: %v", err)
	}
	defer client.Disconnect(250)

	pub := &publisher{client: client, cfg: cfg.MQTT, logger: logger}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	ticker := time.NewTicker(time.Duration(cfg.TickMS) * time.Millisecond)
	defer ticker.Stop()

	for cycle := 1; cycle <= cfg.MaxCycles; cycle++ {
		select {
		case <-sigCh:
			logger.Printf("shutting down")
			return
		case <-ticker.C:
		}

		st := engine.Tick()
		pub.publishSnapshot(engine.Snapshot())
		if st.Stable {
			logger.Printf("stable after %d cycles", st.Cycle)
			return
		}
	}
	logger.Printf("cycle limit %d reached without stability", cfg.MaxCycles)
}

func connect(cfg MQTTConfig, logger *log.Logger) (mqtt.Client, error) {
	opts := mqtt.NewClientOptions()
	opts.AddBroker(cfg.BrokerURL)
	opts.SetClientID(cfg.ClientID)
	if cfg.Username != "" {
		opts.SetUsername(cfg.Username)
		opts.SetPassword(cfg.Password)
	}
	opts.SetKeepAlive(time.Duration(cfg.KeepAlive) * time.Second)
	opts.SetConnectTimeout(time.Duration(cfg.ConnectTimeout) * time.Second)
	opts.SetAutoReconnect(true)
	opts.SetOnConnectHandler(func(mqtt.Client) {
		logger.Printf("connected to %s as %s", cfg.BrokerURL, cfg.ClientID)
	})
	opts.SetConnectionLostHandler(func(_ mqtt.Client, err error) {
		logger.Printf("connection lost: %v", err)
	})

	client := mqtt.NewClient(opts)
	token := client.Connect()
	if !token.WaitTimeout(time.Duration(cfg.ConnectTimeout) * time.Second) {
		return nil, fmt.Errorf("connect to %s: timeout", cfg.BrokerURL)
	}
	if err := token.Error(); err != nil {
		return nil, fmt.Errorf("connect to %s: %w", cfg.BrokerURL, err)
	}
	return client, nil
}

// publisher tracks order statuses so lifecycle events are published once
// per transition.
type publisher struct {
	client mqtt.Client
	cfg    MQTTConfig
	logger *log.Logger

	lastOrderStatus map[string]string
}

func (p *publisher) publishSnapshot(snap sim.Snapshot) {
	for _, r := range snap.Robots {
		p.publish(fmt.Sprintf("%s/%s/state", p.cfg.TopicPrefix, r.ID), r)
	}
	if p.lastOrderStatus == nil {
		p.lastOrderStatus = make(map[string]string)
	}
	for _, o := range snap.Orders {
		if p.lastOrderStatus[string(o.ID)] == o.Status {
			continue
		}
		p.lastOrderStatus[string(o.ID)] = o.Status
		p.publish(fmt.Sprintf("%s/orders/%s", p.cfg.TopicPrefix, o.ID), o)
	}
}

func (p *publisher) publish(topic string, v any) {
	payload, err := json.Marshal(v)
	if err != nil {
		p.logger.Printf("encode %s: %v", topic, err)
		return
	}
	token := p.client.Publish(topic, p.cfg.QoS, false, payload)
	// Fire and forget; delivery errors are logged asynchronously.
	go func() {
		token.Wait()
		if err := token.Error(); err != nil {
			p.logger.Printf("publish %s: %v", topic, err)
		}
	}()
}
