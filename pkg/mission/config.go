package mission

import (
	"flag"
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/golang/glog"
	"gopkg.in/yaml.v3"

	"github.com/tuppersat/r2d1.go/pkg/scheduler"
)

// GroupConfig configures a packet group.
type GroupConfig struct {
	Sensors []string `yaml:"sensors"`
	// TransmitTime is the minimum seconds between transmissions.
	TransmitTime float64 `yaml:"transmit_time"`
	// StoreLength is the number of readings per record.
	StoreLength int `yaml:"store_length"`
}

// File is the layout of a mission file.
type File struct {
	// LoopInterval is in seconds.
	LoopInterval float64                `yaml:"loop_interval"`
	Groups       map[string]GroupConfig `yaml:"groups"`
}

// Config defines the mission settings.
type Config struct {
	// File is an optional mission file overriding the built-in groups.
	File         string
	LoopInterval time.Duration
	Groups       map[string]GroupConfig
}

var defaultConfig = Config{
	LoopInterval: 100 * time.Millisecond,
	Groups: map[string]GroupConfig{
		"data": {
			Sensors:      []string{"uv", "humidity", "gps"},
			TransmitTime: 24,
			StoreLength:  4,
		},
		"telemetry": {
			Sensors:      []string{"temperature", "pressure", "gps"},
			TransmitTime: 20,
			StoreLength:  1,
		},
	},
}

func init() {
	if val := os.Getenv("R2D1_MISSION"); val != "" {
		defaultConfig.File = val
	}
}

// SetupFlags sets command line flags.
func SetupFlags() {
	flag.StringVar(&defaultConfig.File, "mission", defaultConfig.File, "Mission file (YAML)")
	flag.DurationVar(&defaultConfig.LoopInterval, "loop-interval", defaultConfig.LoopInterval, "Control loop interval")
}

// Default gets default config.
func Default() *Config {
	return &defaultConfig
}

// NewConfig creates a config with defaults.
func NewConfig() *Config {
	conf := defaultConfig
	conf.Groups = make(map[string]GroupConfig, len(defaultConfig.Groups))
	for name, g := range defaultConfig.Groups {
		conf.Groups[name] = g
	}
	return &conf
}

// Load applies the mission file if one is set.
func (c *Config) Load() error {
	if c.File == "" {
		return nil
	}
	data, err := os.ReadFile(c.File)
	if err != nil {
		return fmt.Errorf("read mission file %s: %w", c.File, err)
	}
	return c.Parse(data)
}

// Parse applies a mission file content.
func (c *Config) Parse(data []byte) error {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return fmt.Errorf("parse mission file: %w", err)
	}
	if f.LoopInterval > 0 {
		c.LoopInterval = time.Duration(f.LoopInterval * float64(time.Second))
	}
	if len(f.Groups) > 0 {
		c.Groups = f.Groups
	}
	return nil
}

// GroupSpec is a resolved packet group.
type GroupSpec struct {
	Kind        scheduler.Kind
	Sensors     []string
	Interval    time.Duration
	StoreLength int
}

// GroupSpecs resolves configured groups in kind order. Groups with
// unknown names are logged and skipped.
func (c *Config) GroupSpecs() []GroupSpec {
	specs := make([]GroupSpec, 0, len(c.Groups))
	for name, g := range c.Groups {
		kind, err := scheduler.ParseKind(name)
		if err != nil {
			glog.Warningf("mission: skip group: %v", err)
			continue
		}
		storeLength := g.StoreLength
		if storeLength < 1 {
			storeLength = 1
		}
		specs = append(specs, GroupSpec{
			Kind:        kind,
			Sensors:     g.Sensors,
			Interval:    time.Duration(g.TransmitTime * float64(time.Second)),
			StoreLength: storeLength,
		})
	}
	sort.Slice(specs, func(i, j int) bool { return specs[i].Kind < specs[j].Kind })
	return specs
}
