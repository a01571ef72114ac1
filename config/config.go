package config

import (
	"io"
	"os"
	"time"

	"github.com/go-yaml/yaml"
	"github.com/pkg/errors"
)

const KCP_LISTEN_PORT = ":14272"
const HTTP_LISTEN_PORT = ":14279"

const NUM_FLOORS = 7
const NUM_ELEVATORS = 3
const TICK_INTERVAL = 1 * time.Second

type Config struct {
	Floors       int           `yaml:"floors"`
	LowestFloor  int           `yaml:"lowestFloor"`
	GroundName   string        `yaml:"groundName"`
	Elevators    int           `yaml:"elevators"`
	TickInterval time.Duration `yaml:"tickInterval"`
	KCPAddr      string        `yaml:"kcpAddr"`
	HTTPAddr     string        `yaml:"httpAddr"`
	LogLevel     string        `yaml:"logLevel"`
}

func Default() Config {
	return Config{
		Floors:       NUM_FLOORS,
		LowestFloor:  0,
		GroundName:   "G",
		Elevators:    NUM_ELEVATORS,
		TickInterval: TICK_INTERVAL,
		KCPAddr:      KCP_LISTEN_PORT,
		HTTPAddr:     HTTP_LISTEN_PORT,
		LogLevel:     "info",
	}
}

// Load reads a YAML file on top of the defaults. Keys missing from the file
// keep their default value.
func Load(path string) (Config, error) {
	c := Default()

	file, err := os.Open(path)
	if err != nil {
		return c, errors.Wrapf(err, "open config %s", path)
	}
	defer file.Close()

	if err := yaml.NewDecoder(file).Decode(&c); err != nil && err != io.EOF {
		return c, errors.Wrapf(err, "decode config %s", path)
	}
	return c, c.Validate()
}

func (c Config) Validate() error {
	if c.Floors < 2 {
		return errors.Errorf("config: need at least 2 floors, got %d", c.Floors)
	}
	if c.Elevators < 1 {
		return errors.Errorf("config: need at least 1 elevator, got %d", c.Elevators)
	}
	if c.TickInterval <= 0 {
		return errors.Errorf("config: tick interval must be positive, got %s", c.TickInterval)
	}
	return nil
}
