// Package config defines the typed options record the engine façade
// validates at its entry points, grounded on the teacher's
// collector.CollectConfig/DefaultConfig.
package config

import (
	"os"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/infenix/sysdiag/internal/errs"
)

// DiagnoseOptions is the options record diagnose(options) validates,
// matching spec.md §6's enumerated fields exactly.
type DiagnoseOptions struct {
	IncludeHardware        bool
	IncludeKernel          bool
	IncludeLogs            bool
	LogSources             []string
	GenerateRecommendations bool
}

// DefaultDiagnoseOptions mirrors the defaults spec.md §6 names.
func DefaultDiagnoseOptions() DiagnoseOptions {
	return DiagnoseOptions{
		IncludeHardware:         true,
		IncludeKernel:           true,
		IncludeLogs:             true,
		LogSources:              []string{"journald", "syslog", "kern.log"},
		GenerateRecommendations: true,
	}
}

// Validate rejects an empty LogSources list when logs were requested —
// the one shape the engine façade must reject before any probe runs,
// matching the teacher's RunE-time config validation.
func (o DiagnoseOptions) Validate() error {
	if o.IncludeLogs && len(o.LogSources) == 0 {
		return &errs.InvalidArgument{Name: "log_sources", Value: "[]"}
	}
	return nil
}

// Roots carries the procfs/sysfs mount points, overridable for testing
// exactly as collector.CollectConfig.ProcRoot/SysRoot are.
type Roots struct {
	ProcRoot string
	SysRoot  string
}

// DefaultRoots returns the real /proc and /sys mounts.
func DefaultRoots() Roots {
	return Roots{ProcRoot: "/proc", SysRoot: "/sys"}
}

// EnvBool reads a boolean environment variable, returning def if unset
// or unparsable — grounded on the CLI collaborator's NO_COLOR/FORCE_COLOR
// convention spec.md §6 names as the only env vars the tool reads.
func EnvBool(name string, def bool) bool {
	raw, ok := os.LookupEnv(name)
	if !ok {
		return def
	}
	b, err := strconv.ParseBool(raw)
	if err != nil {
		return def
	}
	return b
}

// FileConfig is the on-disk shape of an optional YAML config file
// (e.g. /etc/sysdiag.yaml or --config) that seeds DiagnoseOptions and
// Roots defaults before flag overrides apply, the same layering order
// collector.CollectConfig's env-then-flag precedence follows.
type FileConfig struct {
	IncludeHardware         *bool    `yaml:"include_hardware"`
	IncludeKernel           *bool    `yaml:"include_kernel"`
	IncludeLogs             *bool    `yaml:"include_logs"`
	LogSources              []string `yaml:"log_sources"`
	GenerateRecommendations *bool    `yaml:"generate_recommendations"`
	ProcRoot                string   `yaml:"proc_root"`
	SysRoot                 string   `yaml:"sys_root"`
}

// LoadFile reads a YAML config file and returns the parsed FileConfig.
// A missing file is not an error — callers fall back to defaults.
func LoadFile(path string) (FileConfig, error) {
	var fc FileConfig
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return fc, nil
		}
		return fc, errs.Wrap(err, "read config file")
	}
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return fc, errs.Wrap(err, "parse config file")
	}
	return fc, nil
}

// ApplyTo overlays the file config's set fields onto opts, returning
// the merged options. Unset fields (nil pointers, empty LogSources)
// leave opts unchanged, matching the override-only-what's-present
// semantics a layered config file needs.
func (fc FileConfig) ApplyTo(opts DiagnoseOptions) DiagnoseOptions {
	if fc.IncludeHardware != nil {
		opts.IncludeHardware = *fc.IncludeHardware
	}
	if fc.IncludeKernel != nil {
		opts.IncludeKernel = *fc.IncludeKernel
	}
	if fc.IncludeLogs != nil {
		opts.IncludeLogs = *fc.IncludeLogs
	}
	if len(fc.LogSources) > 0 {
		opts.LogSources = fc.LogSources
	}
	if fc.GenerateRecommendations != nil {
		opts.GenerateRecommendations = *fc.GenerateRecommendations
	}
	return opts
}

// ApplyToRoots overlays the file config's proc/sys root overrides.
func (fc FileConfig) ApplyToRoots(roots Roots) Roots {
	if fc.ProcRoot != "" {
		roots.ProcRoot = fc.ProcRoot
	}
	if fc.SysRoot != "" {
		roots.SysRoot = fc.SysRoot
	}
	return roots
}
