// Package config holds the flat set of named options that tune a network
// view: simulation constants, visual constants and viewport limits.
//
// Options load from TOML, YAML or JSON files, chosen by extension, and can
// be changed one at a time by name with [Options.Set], which is how live
// reconfiguration reaches the engine. Every name is the option's TOML key:
//
//	netgraph serve --set charge_strength=-400 --set show_all_labels=true
package config

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"reflect"
	"slices"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/matzehuels/netgraph/pkg/errors"
	"github.com/matzehuels/netgraph/pkg/layout/force"
	"github.com/matzehuels/netgraph/pkg/render"
	"github.com/matzehuels/netgraph/pkg/spatial"
	"github.com/matzehuels/netgraph/pkg/viewport"
)

const appName = "netgraph"

// Preset names.
const (
	PresetDefault  = "default"
	PresetExpanded = "expanded"
)

// =============================================================================
// Options
// =============================================================================

// Options is the complete, flat configuration of a view.
type Options struct {
	// Preset selects the base values a file overrides: "default" for
	// compact networks, "expanded" for large person/company networks.
	Preset string `toml:"preset" yaml:"preset" json:"preset"`

	// Simulation
	ChargeStrength    float64 `toml:"charge_strength" yaml:"charge_strength" json:"charge_strength"`
	Theta             float64 `toml:"theta" yaml:"theta" json:"theta"`
	DistanceMin       float64 `toml:"distance_min" yaml:"distance_min" json:"distance_min"`
	DistanceMax       float64 `toml:"distance_max" yaml:"distance_max" json:"distance_max"`
	LinkDistance      float64 `toml:"link_distance" yaml:"link_distance" json:"link_distance"`
	LinkStrength      float64 `toml:"link_strength" yaml:"link_strength" json:"link_strength"`
	CenterStrength    float64 `toml:"center_strength" yaml:"center_strength" json:"center_strength"`
	CollisionPadding  float64 `toml:"collision_padding" yaml:"collision_padding" json:"collision_padding"`
	CollisionStrength float64 `toml:"collision_strength" yaml:"collision_strength" json:"collision_strength"`
	VelocityDecay     float64 `toml:"velocity_decay" yaml:"velocity_decay" json:"velocity_decay"`
	AlphaDecay        float64 `toml:"alpha_decay" yaml:"alpha_decay" json:"alpha_decay"`
	AlphaMin          float64 `toml:"alpha_min" yaml:"alpha_min" json:"alpha_min"`

	// Visual
	SizeMultiplier float64 `toml:"size_multiplier" yaml:"size_multiplier" json:"size_multiplier"`
	LinkOpacity    float64 `toml:"link_opacity" yaml:"link_opacity" json:"link_opacity"`
	LinkWidth      float64 `toml:"link_width" yaml:"link_width" json:"link_width"`
	DimOpacity     float64 `toml:"dim_opacity" yaml:"dim_opacity" json:"dim_opacity"`
	ShowAllLabels  bool    `toml:"show_all_labels" yaml:"show_all_labels" json:"show_all_labels"`
	ShowEdgeLabels bool    `toml:"show_edge_labels" yaml:"show_edge_labels" json:"show_edge_labels"`
	MarkREAGTier   bool    `toml:"mark_reag_tier" yaml:"mark_reag_tier" json:"mark_reag_tier"`

	// Viewport
	Width        float64 `toml:"width" yaml:"width" json:"width"`
	Height       float64 `toml:"height" yaml:"height" json:"height"`
	MinScale     float64 `toml:"min_scale" yaml:"min_scale" json:"min_scale"`
	MaxScale     float64 `toml:"max_scale" yaml:"max_scale" json:"max_scale"`
	InitialScale float64 `toml:"initial_scale" yaml:"initial_scale" json:"initial_scale"`
	HitRadius    float64 `toml:"hit_radius" yaml:"hit_radius" json:"hit_radius"`

	// Data
	MinConnections int `toml:"min_connections" yaml:"min_connections" json:"min_connections"`
}

// Default returns the options for compact networks.
func Default() Options {
	return fromParts(PresetDefault, force.DefaultParams(), render.DefaultOptions(), 1)
}

// Expanded returns the options for large person/company networks: long
// links, strong repulsion, big nodes and every label shown.
func Expanded() Options {
	return fromParts(PresetExpanded, force.ExpandedParams(), render.ExpandedOptions(), 0.3)
}

// ForPreset returns the options for a named preset.
func ForPreset(name string) (Options, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", PresetDefault:
		return Default(), nil
	case PresetExpanded:
		return Expanded(), nil
	default:
		return Options{}, errors.New(errors.ErrCodeInvalidConfig, "unknown preset %q (must be one of: default, expanded)", name)
	}
}

func fromParts(preset string, p force.Params, r render.Options, scale float64) Options {
	return Options{
		Preset:            preset,
		ChargeStrength:    p.ChargeStrength,
		Theta:             p.Theta,
		DistanceMin:       p.DistanceMin,
		DistanceMax:       p.DistanceMax,
		LinkDistance:      p.LinkDistance,
		LinkStrength:      p.LinkStrength,
		CenterStrength:    p.CenterStrength,
		CollisionPadding:  p.CollisionPadding,
		CollisionStrength: p.CollisionStrength,
		VelocityDecay:     p.VelocityDecay,
		AlphaDecay:        p.AlphaDecay,
		AlphaMin:          p.AlphaMin,
		SizeMultiplier:    r.SizeMultiplier,
		LinkOpacity:       r.LinkOpacity,
		LinkWidth:         r.LinkWidth,
		DimOpacity:        r.DimOpacity,
		ShowAllLabels:     r.ShowAllLabels,
		ShowEdgeLabels:    r.ShowEdgeLabels,
		MarkREAGTier:      r.MarkREAGTier,
		Width:             800,
		Height:            600,
		MinScale:          viewport.DefaultMinScale,
		MaxScale:          viewport.DefaultMaxScale,
		InitialScale:      scale,
		HitRadius:         spatial.DefaultHitRadius,
	}
}

// Params returns the simulation parameters.
func (o Options) Params() force.Params {
	return force.Params{
		ChargeStrength:    o.ChargeStrength,
		Theta:             o.Theta,
		DistanceMin:       o.DistanceMin,
		DistanceMax:       o.DistanceMax,
		LinkDistance:      o.LinkDistance,
		LinkStrength:      o.LinkStrength,
		CenterStrength:    o.CenterStrength,
		CollisionPadding:  o.CollisionPadding,
		CollisionStrength: o.CollisionStrength,
		VelocityDecay:     o.VelocityDecay,
		AlphaDecay:        o.AlphaDecay,
		AlphaMin:          o.AlphaMin,
	}
}

// RenderOptions returns the visual options with the default palette.
func (o Options) RenderOptions() render.Options {
	r := render.DefaultOptions()
	r.SizeMultiplier = o.SizeMultiplier
	r.LinkOpacity = o.LinkOpacity
	r.LinkWidth = o.LinkWidth
	r.DimOpacity = o.DimOpacity
	r.ShowAllLabels = o.ShowAllLabels
	r.ShowEdgeLabels = o.ShowEdgeLabels
	r.MarkREAGTier = o.MarkREAGTier
	return r
}

// Validate reports the first invalid option.
func (o Options) Validate() error {
	if _, err := ForPreset(o.Preset); err != nil {
		return err
	}
	if err := o.Params().Validate(); err != nil {
		return err
	}
	if err := o.RenderOptions().Validate(); err != nil {
		return err
	}
	checks := []struct {
		name      string
		v, lo, hi float64
	}{
		{"width", o.Width, 1, 1e5},
		{"height", o.Height, 1, 1e5},
		{"min_scale", o.MinScale, 1e-4, 1e4},
		{"max_scale", o.MaxScale, o.MinScale, 1e4},
		{"initial_scale", o.InitialScale, o.MinScale, o.MaxScale},
		{"hit_radius", o.HitRadius, 0, 1e4},
		{"min_connections", float64(o.MinConnections), 0, 1e9},
	}
	for _, c := range checks {
		if err := errors.ValidateRange(c.name, c.v, c.lo, c.hi); err != nil {
			return err
		}
	}
	return nil
}

// =============================================================================
// Named Access
// =============================================================================

// Names returns every option name in sorted order.
func Names() []string {
	t := reflect.TypeFor[Options]()
	names := make([]string, 0, t.NumField())
	for i := range t.NumField() {
		names = append(names, t.Field(i).Tag.Get("toml"))
	}
	slices.Sort(names)
	return names
}

func (o *Options) field(name string) (reflect.Value, bool) {
	v := reflect.ValueOf(o).Elem()
	t := v.Type()
	for i := range t.NumField() {
		if t.Field(i).Tag.Get("toml") == name {
			return v.Field(i), true
		}
	}
	return reflect.Value{}, false
}

// Get returns the value of the named option formatted as text.
func (o Options) Get(name string) (string, error) {
	f, ok := o.field(name)
	if !ok {
		return "", errors.New(errors.ErrCodeInvalidConfig, "unknown option %q", name)
	}
	switch f.Kind() {
	case reflect.Float64:
		return strconv.FormatFloat(f.Float(), 'g', -1, 64), nil
	case reflect.Int:
		return strconv.FormatInt(f.Int(), 10), nil
	case reflect.Bool:
		return strconv.FormatBool(f.Bool()), nil
	default:
		return f.String(), nil
	}
}

// Set parses value into the named option. The change is validated as a
// whole; on error o is left unchanged.
//
// Setting "preset" replaces every option with the preset's values.
func (o *Options) Set(name, value string) error {
	name, value = strings.TrimSpace(name), strings.TrimSpace(value)
	if name == "preset" {
		next, err := ForPreset(value)
		if err != nil {
			return err
		}
		*o = next
		return nil
	}

	next := *o
	f, ok := next.field(name)
	if !ok {
		return errors.New(errors.ErrCodeInvalidConfig, "unknown option %q", name)
	}
	switch f.Kind() {
	case reflect.Float64:
		v, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return errors.Wrap(errors.ErrCodeInvalidConfig, err, "%s: not a number: %q", name, value)
		}
		f.SetFloat(v)
	case reflect.Int:
		v, err := strconv.Atoi(value)
		if err != nil {
			return errors.Wrap(errors.ErrCodeInvalidConfig, err, "%s: not an integer: %q", name, value)
		}
		f.SetInt(int64(v))
	case reflect.Bool:
		v, err := strconv.ParseBool(value)
		if err != nil {
			return errors.Wrap(errors.ErrCodeInvalidConfig, err, "%s: not a boolean: %q", name, value)
		}
		f.SetBool(v)
	default:
		f.SetString(value)
	}
	if err := next.Validate(); err != nil {
		return err
	}
	*o = next
	return nil
}

// =============================================================================
// Files
// =============================================================================

// Dir returns the configuration directory, honouring XDG_CONFIG_HOME.
func Dir() (string, error) {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName), nil
}

// DefaultPath returns the path of the user configuration file.
func DefaultPath() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// Load reads options from path. The format follows the extension: .toml,
// .yaml or .yml, or .json. Values not present in the file keep the value of
// the file's preset, or of [Default] when no preset is named.
func Load(path string) (Options, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Options{}, errors.New(errors.ErrCodeFileNotFound, "config file not found: %s", path)
		}
		return Options{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "read %s", path)
	}
	opts, err := Parse(data, filepath.Ext(path))
	if err != nil {
		return Options{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "load %s", path)
	}
	return opts, nil
}

// Parse decodes options from data in the format named by ext.
func Parse(data []byte, ext string) (Options, error) {
	decode, err := decoderFor(ext)
	if err != nil {
		return Options{}, err
	}

	var head struct {
		Preset string `toml:"preset" yaml:"preset" json:"preset"`
	}
	if err := decode(data, &head); err != nil {
		return Options{}, err
	}
	opts, err := ForPreset(head.Preset)
	if err != nil {
		return Options{}, err
	}
	if err := decode(data, &opts); err != nil {
		return Options{}, err
	}
	if err := opts.Validate(); err != nil {
		return Options{}, err
	}
	return opts, nil
}

func decoderFor(ext string) (func([]byte, any) error, error) {
	switch strings.ToLower(strings.TrimPrefix(ext, ".")) {
	case "toml":
		return toml.Unmarshal, nil
	case "yaml", "yml":
		return yaml.Unmarshal, nil
	case "json":
		return json.Unmarshal, nil
	default:
		return nil, errors.New(errors.ErrCodeInvalidFormat, "unsupported config format %q (must be one of: toml, yaml, json)", ext)
	}
}

// Save writes o to path as TOML, creating parent directories.
func Save(o Options, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(o); err != nil {
		return err
	}
	return os.WriteFile(path, buf.Bytes(), 0o644)
}
