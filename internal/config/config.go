// Package config loads the host runtime configuration from YAML.
package config

import (
	"errors"
	"fmt"
	"os"

	"displaywriter/beamspring/matrix"
	"displaywriter/beamspring/report"

	"gopkg.in/yaml.v3"
)

// File is the on-disk configuration.
type File struct {
	Matrix matrix.Config `yaml:"matrix"`
	Report Report        `yaml:"report"`
	Log    Log           `yaml:"log"`
	Sim    Sim           `yaml:"sim"`
}

type Report struct {
	// Mode is "events" or "debug".
	Mode string `yaml:"mode"`
	// Output is a file, tty or "-" for stdout.
	Output string `yaml:"output"`
	// Async decouples the scan loop from a slow consumer; records are dropped
	// when the consumer falls behind.
	Async bool `yaml:"async"`
}

type Log struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

// Sim configures the simulated board.
type Sim struct {
	Hz           int    `yaml:"hz"`
	PressVoltage uint16 `yaml:"press_voltage"`
}

// Default returns the built-in configuration: the Displaywriter profile
// reporting events to stdout.
func Default() *File {
	return &File{
		Matrix: matrix.Displaywriter(),
		Report: Report{Mode: report.ModeEvents.String(), Output: "-"},
		Log:    Log{Level: "info"},
		Sim:    Sim{Hz: 200, PressVoltage: 600},
	}
}

// Load reads path and merges it over Default. An empty path returns Default.
func Load(path string) (*File, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	src, err := Parse(data)
	if err != nil {
		return nil, err
	}
	var set present
	if err := yaml.Unmarshal(data, &set); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	mergeConfigs(cfg, src, &set)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Parse decodes a configuration without applying defaults.
func Parse(data []byte) (*File, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	return &f, nil
}

// Save writes cfg as YAML.
func Save(path string, cfg *File) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}
	return nil
}

// Validate checks the matrix profile and report mode.
func (f *File) Validate() error {
	var errs []error
	if _, err := matrix.NewLayout(f.Matrix); err != nil {
		errs = append(errs, err)
	}
	if _, err := report.ParseMode(f.Report.Mode); err != nil {
		errs = append(errs, err)
	}
	if f.Sim.Hz <= 0 {
		errs = append(errs, fmt.Errorf("sim: hz %d must be positive", f.Sim.Hz))
	}
	if f.Sim.PressVoltage > matrix.SampleMax {
		errs = append(errs, fmt.Errorf("sim: press_voltage %d above %d", f.Sim.PressVoltage, matrix.SampleMax))
	}
	return errors.Join(errs...)
}

// ReportMode returns the parsed report mode.
func (f *File) ReportMode() report.Mode {
	m, err := report.ParseMode(f.Report.Mode)
	if err != nil {
		return report.ModeEvents
	}
	return m
}

// present records which numeric and boolean fields a file states, so an
// explicit zero or false is applied instead of read as "not set".
type present struct {
	Matrix struct {
		Rows          *int   `yaml:"rows"`
		Columns       *int   `yaml:"columns"`
		DebounceDepth *uint8 `yaml:"debounce_depth"`
		Default       struct {
			Base     *uint16 `yaml:"base"`
			Increase *uint16 `yaml:"increase"`
		} `yaml:"default"`
	} `yaml:"matrix"`
	Report struct {
		Async *bool `yaml:"async"`
	} `yaml:"report"`
	Sim struct {
		Hz           *int    `yaml:"hz"`
		PressVoltage *uint16 `yaml:"press_voltage"`
	} `yaml:"sim"`
}

// mergeConfigs merges src into dst. Empty strings and lists in src keep dst's;
// numbers and booleans are applied whenever set states them.
func mergeConfigs(dst, src *File, set *present) {
	mergeMatrix(&dst.Matrix, src.Matrix, set)

	if src.Report.Mode != "" {
		dst.Report.Mode = src.Report.Mode
	}
	if src.Report.Output != "" {
		dst.Report.Output = src.Report.Output
	}
	if set.Report.Async != nil {
		dst.Report.Async = *set.Report.Async
	}

	if src.Log.Level != "" {
		dst.Log.Level = src.Log.Level
	}
	if src.Log.File != "" {
		dst.Log.File = src.Log.File
	}

	if set.Sim.Hz != nil {
		dst.Sim.Hz = *set.Sim.Hz
	}
	if set.Sim.PressVoltage != nil {
		dst.Sim.PressVoltage = *set.Sim.PressVoltage
	}
}

// mergeMatrix applies a profile. A profile that states its geometry replaces
// the built-in one entirely, since the built-in missing and override lists
// index a different matrix.
func mergeMatrix(dst *matrix.Config, src matrix.Config, set *present) {
	if set.Matrix.Rows != nil || set.Matrix.Columns != nil {
		*dst = matrix.Config{
			Name:          src.Name,
			Rows:          src.Rows,
			Columns:       src.Columns,
			DebounceDepth: matrix.DefaultDebounceDepth,
			Default: matrix.Threshold{
				Base:     matrix.DefaultBaseThreshold,
				Increase: matrix.DefaultThresholdIncrease,
			},
		}
	}
	if src.Name != "" {
		dst.Name = src.Name
	}
	if set.Matrix.DebounceDepth != nil {
		dst.DebounceDepth = *set.Matrix.DebounceDepth
	}
	if set.Matrix.Default.Base != nil {
		dst.Default.Base = *set.Matrix.Default.Base
	}
	if set.Matrix.Default.Increase != nil {
		dst.Default.Increase = *set.Matrix.Default.Increase
	}
	if src.Missing != nil {
		dst.Missing = src.Missing
	}
	if src.Overrides != nil {
		dst.Overrides = src.Overrides
	}
}
