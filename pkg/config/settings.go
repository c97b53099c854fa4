// Package config loads engine settings and YAML spec files.
package config

import (
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/ib-77/wpfilter/pkg/filter"
	"github.com/ib-77/wpfilter/pkg/filter/presets"
	"github.com/ib-77/wpfilter/pkg/filter/stages"
	"github.com/ib-77/wpfilter/pkg/observability"
)

// EnvPrefix marks environment overrides; "__" separates nested keys, so
// WPFILTER_LOG__LEVEL sets log.level.
const EnvPrefix = "WPFILTER_"

type Settings struct {
	Policy         string          `koanf:"policy"`
	MaxConcurrency int             `koanf:"max_concurrency"`
	SpecFile       string          `koanf:"spec_file"`
	Log            LogSettings     `koanf:"log"`
	Metrics        MetricsSettings `koanf:"metrics"`
}

type LogSettings struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Output string `koanf:"output"`
}

type MetricsSettings struct {
	Enabled   bool   `koanf:"enabled"`
	Namespace string `koanf:"namespace"`
}

// Load reads settings from the YAML file at path, then applies WPFILTER_
// environment overrides. An empty path reads the environment only.
func Load(path string) (*Settings, error) {
	k := koanf.New(".")

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, err
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.Replace(strings.ToLower(strings.TrimPrefix(s, EnvPrefix)), "__", ".", -1)
	}), nil); err != nil {
		return nil, err
	}

	defaults := map[string]any{
		"policy":            filter.FailFast.String(),
		"max_concurrency":   0,
		"log.level":         "info",
		"log.format":        "json",
		"log.output":        "stderr",
		"metrics.enabled":   true,
		"metrics.namespace": observability.DefaultNamespace,
	}
	for key, value := range defaults {
		if !k.Exists(key) {
			k.Set(key, value)
		}
	}

	var s Settings
	if err := k.Unmarshal("", &s); err != nil {
		return nil, err
	}
	if _, err := filter.ParsePolicy(s.Policy); err != nil {
		return nil, err
	}
	return &s, nil
}

func (s *Settings) Logger() (observability.Logger, error) {
	return observability.NewLogger(observability.LogConfig{
		Level:  s.Log.Level,
		Format: s.Log.Format,
		Output: s.Log.Output,
	})
}

// NewMetrics returns the metric set the settings ask for: nil when disabled,
// the shared default set for the default namespace, otherwise a fresh set
// registered on reg.
func (s *Settings) NewMetrics(reg prometheus.Registerer) *observability.FilterMetrics {
	switch {
	case !s.Metrics.Enabled:
		return nil
	case s.Metrics.Namespace == "" || s.Metrics.Namespace == observability.DefaultNamespace:
		return observability.GetFilterMetrics()
	default:
		return observability.NewFilterMetrics(reg, s.Metrics.Namespace)
	}
}

// Options converts the settings into Model options. metrics is typically
// the result of NewMetrics.
func (s *Settings) Options(logger observability.Logger, metrics *observability.FilterMetrics) ([]filter.Option, error) {
	policy, err := filter.ParsePolicy(s.Policy)
	if err != nil {
		return nil, err
	}
	opts := []filter.Option{
		filter.WithPolicy(policy),
		filter.WithLogger(logger),
		filter.WithMetrics(metrics),
	}
	// zero leaves any WithWorkerLimit on the call's context in charge
	if s.MaxConcurrency > 0 {
		opts = append(opts, filter.WithMaxConcurrency(s.MaxConcurrency))
	}
	return opts, nil
}

// Specs returns the per-resource specs: those of SpecFile when set,
// otherwise the built-in presets keyed by resource name.
func (s *Settings) Specs(opts ...stages.LibraryOption) (map[string]*filter.Spec, error) {
	if s.SpecFile != "" {
		f, err := LoadSpecFile(s.SpecFile)
		if err != nil {
			return nil, err
		}
		return f.Build(opts...)
	}

	lib := stages.New(stages.DefaultFields(), opts...)
	specs := make(map[string]*filter.Spec, 3)
	for _, name := range []string{presets.Posts, presets.Pages, presets.Media} {
		spec, err := presets.ForResourceWith(lib, name)
		if err != nil {
			return nil, err
		}
		specs[name] = spec
	}
	return specs, nil
}
