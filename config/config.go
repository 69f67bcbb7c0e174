// Package config holds the build-time and search-time parameters of
// the engine, loaded either from environment variables (the teacher's
// getters.go idiom) or from a YAML file named by an environment
// variable (the teacher's LoadConfig idiom), per SPEC_FULL.md §2.3.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/vamanadb/vamana/pkg/distance"
)

// VAMANA_BUILD_CONFIG names the environment variable pointing at a
// YAML build-config file for batch build jobs.
const VAMANA_BUILD_CONFIG = "VAMANA_BUILD_CONFIG"

// BuildConfig mirrors vamana.BuildConfig but in a YAML-friendly,
// zero-value-safe shape for batch build jobs that prefer a config
// file over CLI flags.
type BuildConfig struct {
	MaxDegree      uint32  `yaml:"maxDegree"`
	SearchListSize uint32  `yaml:"searchListSize"`
	Alpha          float32 `yaml:"alpha"`
	Distance       string  `yaml:"distance"`
	Seed           uint64  `yaml:"seed"`
}

// SearchConfig holds the query-time defaults.
type SearchConfig struct {
	DefaultBeamWidth int `yaml:"defaultBeamWidth"`
}

// DefaultBuildConfig mirrors the teacher's envDefault-tagged struct
// fields, expressed as plain literal defaults since this package does
// not depend on caarlos0/env (see DESIGN.md).
func DefaultBuildConfig() BuildConfig {
	return BuildConfig{
		MaxDegree:      uint32(GetInt("VAMANA_MAX_DEGREE", 64)),
		SearchListSize: uint32(GetInt("VAMANA_SEARCH_LIST_SIZE", 128)),
		Alpha:          1.2,
		Distance:       GetString("VAMANA_DISTANCE", string(distance.L2)),
		Seed:           uint64(GetInt("VAMANA_SEED", 0)),
	}
}

func DefaultSearchConfig() SearchConfig {
	return SearchConfig{
		DefaultBeamWidth: GetInt("VAMANA_BEAM_WIDTH", 64),
	}
}

// LoadBuildConfig reads the YAML file named by VAMANA_BUILD_CONFIG,
// mirroring the teacher's env-var-naming-a-file-path pattern
// (config.LoadConfig in the original).
func LoadBuildConfig() (BuildConfig, error) {
	cfg := DefaultBuildConfig()
	path, ok := os.LookupEnv(VAMANA_BUILD_CONFIG)
	if !ok {
		return cfg, fmt.Errorf("config environment variable %s is not set", VAMANA_BUILD_CONFIG)
	}
	f, err := os.Open(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to open build config file %s: %w", path, err)
	}
	defer f.Close()
	if err := yaml.NewDecoder(f).Decode(&cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse build config file %s: %w", path, err)
	}
	return cfg, nil
}
