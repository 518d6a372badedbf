package groundstation

import (
	"context"
	"flag"
	"os"
	"sync"
	"time"

	"github.com/golang/glog"

	"github.com/tuppersat/r2d1.go/pkg/radio"
	"github.com/tuppersat/r2d1.go/pkg/rhserial"
)

// Publisher publishes relayed payloads, implemented by mqtt.Queue.
type Publisher interface {
	Pub(topic string, payload []byte) error
}

// Config defines the ground station settings.
type Config struct {
	MQTTBrokerURL string
}

var defaultConfig = Config{
	MQTTBrokerURL: "mqtt://localhost:1883/tuppersat/",
}

func init() {
	if val := os.Getenv("R2D1_MQTT_URL"); val != "" {
		defaultConfig.MQTTBrokerURL = val
	}
}

// SetupFlags sets command line flags.
func SetupFlags() {
	flag.StringVar(&defaultConfig.MQTTBrokerURL, "mqtt", defaultConfig.MQTTBrokerURL, "MQTT broker URL")
}

// Default gets default config.
func Default() *Config {
	return &defaultConfig
}

// NewConfig creates a config with defaults.
func NewConfig() *Config {
	conf := defaultConfig
	return &conf
}

// Stats counts relayed downlinks per kind.
type Stats map[string]uint64

// Station relays received downlinks.
type Station struct {
	Receiver  *radio.Receiver
	Publisher Publisher
	// Now is the receive clock, time.Now if nil.
	Now func() time.Time

	lock   sync.Mutex
	stats  Stats
	failed uint64
}

// NewStation creates a Station.
func NewStation(rcv *radio.Receiver, pub Publisher) *Station {
	return &Station{Receiver: rcv, Publisher: pub, stats: make(Stats)}
}

// Run implements framework.Runnable.
func (s *Station) Run(ctx context.Context) error {
	return s.Receiver.Run(ctx, s.Relay)
}

// Relay decodes and publishes one message.
func (s *Station) Relay(ctx context.Context, msg rhserial.Message) {
	now := time.Now
	if s.Now != nil {
		now = s.Now
	}
	d := Decode(now(), msg)
	glog.Infof("RX > %s > id=%d rssi=%d len=%d", d.Topic(), msg.ID, msg.RSSI, len(msg.Payload))
	payload, err := d.Marshal()
	if err == nil {
		err = s.Publisher.Pub(d.Topic(), payload)
	}
	s.lock.Lock()
	defer s.lock.Unlock()
	if err != nil {
		s.failed++
		glog.Errorf("relay %s: %v", d.Topic(), err)
		return
	}
	s.stats[d.Kind]++
}

// Stats gets relay counters and failures.
func (s *Station) Stats() (Stats, uint64) {
	s.lock.Lock()
	defer s.lock.Unlock()
	stats := make(Stats, len(s.stats))
	for k, v := range s.stats {
		stats[k] = v
	}
	return stats, s.failed
}
