package anim

import (
	"fmt"
	"image/color"
	"math"
	"strings"

	"github.com/mazznoer/csscolorparser"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"
)

// Config is the controller's live configuration.
type Config struct {
	DebugCanvasBounds bool
	DebugStageBounds  bool
	BackgroundColor   string

	// Fixed at construction. Changing them at runtime only warns.
	MaxPixelRatio  float64
	DefaultMode    Mode
	DebounceResize bool
}

// DefaultConfig returns the configuration every controller starts with.
func DefaultConfig() Config {
	return Config{
		BackgroundColor: "#003030",
		MaxPixelRatio:   2.0,
		DefaultMode:     DefaultMode{Foo: 66},
	}
}

// ConfigFragment is a partial Config. Nil fields are absent and leave the
// live value untouched.
type ConfigFragment struct {
	DebugCanvasBounds *bool   `yaml:"debugCanvasBounds"`
	DebugStageBounds  *bool   `yaml:"debugStageBounds"`
	BackgroundColor   *string `yaml:"backgroundColor"`

	MaxPixelRatio  *float64 `yaml:"maxPixelRatio"`
	DefaultMode    Mode     `yaml:"-"`
	DebounceResize *bool    `yaml:"debounceResize"`
}

// UnmarshalYAML decodes the fragment, routing defaultMode through
// DecodeMode.
func (f *ConfigFragment) UnmarshalYAML(value *yaml.Node) error {
	type plain ConfigFragment
	var raw struct {
		plain       `yaml:",inline"`
		DefaultMode *yaml.Node `yaml:"defaultMode"`
	}
	if err := value.Decode(&raw); err != nil {
		return err
	}
	*f = ConfigFragment(raw.plain)
	if raw.DefaultMode != nil {
		m, err := DecodeMode(raw.DefaultMode)
		if err != nil {
			return err
		}
		f.DefaultMode = m
	}
	return nil
}

// Fragment returns every field of c as a fragment.
func (c Config) Fragment() ConfigFragment {
	return ConfigFragment{
		DebugCanvasBounds: &c.DebugCanvasBounds,
		DebugStageBounds:  &c.DebugStageBounds,
		BackgroundColor:   &c.BackgroundColor,
		MaxPixelRatio:     &c.MaxPixelRatio,
		DefaultMode:       c.DefaultMode,
		DebounceResize:    &c.DebounceResize,
	}
}

// Merge returns c with every present field of f applied.
func (c Config) Merge(f ConfigFragment) Config {
	if f.DebugCanvasBounds != nil {
		c.DebugCanvasBounds = *f.DebugCanvasBounds
	}
	if f.DebugStageBounds != nil {
		c.DebugStageBounds = *f.DebugStageBounds
	}
	if f.BackgroundColor != nil {
		c.BackgroundColor = *f.BackgroundColor
	}
	if f.MaxPixelRatio != nil {
		c.MaxPixelRatio = *f.MaxPixelRatio
	}
	if f.DefaultMode != nil {
		c.DefaultMode = f.DefaultMode
	}
	if f.DebounceResize != nil {
		c.DebounceResize = *f.DebounceResize
	}
	return c
}

// FixedKeys returns the names of the fixed keys present in f.
func (f ConfigFragment) FixedKeys() []string {
	var keys []string
	if f.MaxPixelRatio != nil {
		keys = append(keys, "maxPixelRatio")
	}
	if f.DefaultMode != nil {
		keys = append(keys, "defaultMode")
	}
	if f.DebounceResize != nil {
		keys = append(keys, "debounceResize")
	}
	return keys
}

// MarshalLogObject implements zapcore.ObjectMarshaler.
func (c Config) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	enc.AddBool("debugCanvasBounds", c.DebugCanvasBounds)
	enc.AddBool("debugStageBounds", c.DebugStageBounds)
	enc.AddString("backgroundColor", c.BackgroundColor)
	enc.AddFloat64("maxPixelRatio", c.MaxPixelRatio)
	if c.DefaultMode != nil {
		if err := enc.AddObject("defaultMode", c.DefaultMode); err != nil {
			return err
		}
	}
	enc.AddBool("debounceResize", c.DebounceResize)
	return nil
}

// Bool returns a pointer to v, for building fragments.
func Bool(v bool) *bool { return &v }

// String returns a pointer to v, for building fragments.
func String(v string) *string { return &v }

// Float returns a pointer to v, for building fragments.
func Float(v float64) *float64 { return &v }

// ParseColor parses a CSS colour: hex forms, rgb(), hsl(), hwb() and
// named colours.
func ParseColor(s string) (color.Color, error) {
	c, err := csscolorparser.Parse(strings.TrimSpace(s))
	if err != nil {
		return nil, fmt.Errorf("anim: bad colour %q: %w", s, err)
	}
	return color.NRGBA{R: channel(c.R), G: channel(c.G), B: channel(c.B), A: channel(c.A)}, nil
}

func channel(v float64) uint8 {
	return uint8(math.Round(math.Max(0, math.Min(1, v)) * 255))
}
