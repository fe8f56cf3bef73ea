// Package config loads mmdriver settings from a YAML file and MMDRIVER_*
// environment variables.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"runtime"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"

	"github.com/joshuapare/heapkit/heap/arena"
	"github.com/joshuapare/heapkit/internal/driver"
	"github.com/joshuapare/heapkit/internal/format"
	"github.com/joshuapare/heapkit/internal/logger"
)

const (
	envVarPrefix = "MMDRIVER"

	// ArenaMem selects arena.Mem.
	ArenaMem = driver.ArenaMem
	// ArenaMapped selects arena.Mapped.
	ArenaMapped = driver.ArenaMapped
)

// TraceSpec names one trace file and its weight in the summary score.
type TraceSpec struct {
	Path   string `yaml:"path"`
	Weight int    `yaml:"weight"`
}

// Config holds driver settings. Precedence: defaults, then the YAML file,
// then environment variables, then command line flags.
type Config struct {
	Arena     string      `envconfig:"ARENA"      yaml:"arena"`
	MaxHeap   int         `envconfig:"MAX_HEAP"   yaml:"maxHeap"`
	ChunkSize int         `envconfig:"CHUNK_SIZE" yaml:"chunkSize"`
	Strict    bool        `envconfig:"STRICT"     yaml:"strict"`
	Check     bool        `envconfig:"CHECK"      yaml:"check"`
	Jobs      int         `envconfig:"JOBS"       yaml:"jobs"`
	LogLevel  string      `envconfig:"LOG_LEVEL"  yaml:"logLevel"`
	LogDir    string      `envconfig:"LOG_DIR"    yaml:"logDir"`
	Traces    []TraceSpec `ignored:"true"         yaml:"traces"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Arena:     ArenaMem,
		MaxHeap:   arena.DefaultLimit,
		ChunkSize: format.ChunkSize,
		Jobs:      runtime.NumCPU(),
		LogLevel:  "info",
	}
}

// Load starts from Default, applies the YAML file at path (skipped when
// path is empty) and then the environment.
func Load(path string) (*Config, error) {
	c := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&c); err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("unmarshaling config file: %w", err)
		}
	}

	if err := envconfig.Process(envVarPrefix, &c); err != nil {
		return nil, fmt.Errorf("parsing environment variables: %w", err)
	}
	return &c, nil
}

// Validate reports the first invalid setting, naming its YAML key and
// environment variable.
func (c *Config) Validate() error {
	bad := func(key, env, why string) error {
		return fmt.Errorf("invalid configuration: %s / %s_%s: %s", key, envVarPrefix, env, why)
	}
	switch {
	case c.Arena != ArenaMem && c.Arena != ArenaMapped:
		return bad("arena", "ARENA", fmt.Sprintf("%q is not %q or %q", c.Arena, ArenaMem, ArenaMapped))
	case c.MaxHeap < format.InitialRegionSize+c.ChunkSize:
		return bad("maxHeap", "MAX_HEAP", fmt.Sprintf("%d cannot hold the first chunk", c.MaxHeap))
	case c.MaxHeap > format.MaxHeapSize:
		return bad("maxHeap", "MAX_HEAP", fmt.Sprintf("%d exceeds %d", c.MaxHeap, format.MaxHeapSize))
	case c.ChunkSize < format.MinBlockSize || c.ChunkSize%format.DoubleWordSize != 0:
		return bad("chunkSize", "CHUNK_SIZE", fmt.Sprintf("%d is not a multiple of %d of at least %d",
			c.ChunkSize, format.DoubleWordSize, format.MinBlockSize))
	case c.Jobs < 1:
		return bad("jobs", "JOBS", "must be at least 1")
	}
	if _, err := logger.ParseLevel(c.LogLevel); err != nil {
		return bad("logLevel", "LOG_LEVEL", err.Error())
	}
	for i, ts := range c.Traces {
		if ts.Path == "" {
			return fmt.Errorf("invalid configuration: traces[%d]: missing path", i)
		}
		if ts.Weight < 0 {
			return fmt.Errorf("invalid configuration: traces[%d]: negative weight", i)
		}
	}
	return nil
}
