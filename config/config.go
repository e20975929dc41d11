// Package config loads the optional orbit.yaml host configuration file
// (SPEC_FULL.md's AMBIENT STACK): VM resource limits and native-module
// toggles. Absence of the file is not an error — compiled-in defaults
// matching spec §3/§5 (STACK_MAX=65536, FRAMES_MAX=256) apply.
package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

// Limits narrows the VM's hard-compiled StackMax/FramesMax bounds, per
// vm.WithResourceLimits. Zero means "use the compiled-in default."
type Limits struct {
	StackMax  int `yaml:"stack_max"`
	FramesMax int `yaml:"frames_max"`
}

// Natives toggles optional native modules so a host can run scripts without
// ever opening a database connection, for example.
type Natives struct {
	DB   bool `yaml:"db"`
	Time bool `yaml:"time"`
}

// Config is the parsed shape of orbit.yaml.
type Config struct {
	Limits     Limits  `yaml:"limits"`
	ScriptPath string  `yaml:"script_path"`
	Natives    Natives `yaml:"natives"`
}

// Default returns the compiled-in configuration: no limit overrides, every
// native module enabled.
func Default() Config {
	return Config{Natives: Natives{DB: true, Time: true}}
}

// Load reads path and parses it as YAML into a Config seeded from Default.
// A missing file is not an error — Load returns Default() unchanged.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, err
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
