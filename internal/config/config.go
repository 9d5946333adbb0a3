// Package config handles conversion options: defaults, the YAML file and key=value overrides.
package config

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// ReferenceSystem is the coordinate reference system of the input coordinates.
type ReferenceSystem string

const (
	// WGS84 is the global geodetic system; coordinates are latitude and longitude.
	WGS84 ReferenceSystem = "wgs84"
	// OSGrid is the OSGB36 National Grid; coordinates are easting and northing
	// or a lettered grid reference.
	OSGrid ReferenceSystem = "osgrid"
)

// DefaultField is the combined "lat,lng" column looked up when no pair is found.
const DefaultField = "location"

// Option keys accepted in key=value form and in the YAML file.
const (
	KeyCRS    = "crs"
	KeyField  = "field"
	KeyFieldX = "field_x"
	KeyFieldY = "field_y"
)

// ParseReferenceSystem validates a reference system name.
func ParseReferenceSystem(s string) (ReferenceSystem, error) {
	switch rs := ReferenceSystem(strings.ToLower(strings.TrimSpace(s))); rs {
	case WGS84, OSGrid:
		return rs, nil
	default:
		return "", &ConfigurationError{Key: KeyCRS, Value: s, Reason: "unknown coordinate system"}
	}
}

// Config is the validated, case-normalized set of conversion options.
// Build it with New, Parse or Load; the zero value is not valid.
type Config struct {
	CRS    ReferenceSystem `yaml:"crs" json:"crs"`
	Field  string          `yaml:"field" json:"field"`
	FieldX string          `yaml:"field_x,omitempty" json:"field_x,omitempty"`
	FieldY string          `yaml:"field_y,omitempty" json:"field_y,omitempty"`
}

// Default returns the configuration used when nothing is overridden.
func Default() Config {
	return Config{CRS: WGS84, Field: DefaultField}
}

// HasXY reports whether an explicit coordinate column pair is configured.
// A lone field_x or field_y is kept but ignored.
func (c Config) HasXY() bool {
	return c.FieldX != "" && c.FieldY != ""
}

// New merges overrides over the defaults and validates the result.
// Keys are the option names above; values are trimmed and lowercased.
func New(overrides map[string]string) (Config, error) {
	return Default().Merge(overrides)
}

// Merge returns a copy of c with overrides applied and validated.
func (c Config) Merge(overrides map[string]string) (Config, error) {
	keys := make([]string, 0, len(overrides))
	for k := range overrides {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		v := normalize(overrides[k])

		switch normalize(k) {
		case KeyCRS:
			rs, err := ParseReferenceSystem(v)
			if err != nil {
				return Config{}, err
			}
			c.CRS = rs
		case KeyField:
			c.Field = v
		case KeyFieldX:
			c.FieldX = v
		case KeyFieldY:
			c.FieldY = v
		default:
			return Config{}, &ConfigurationError{Key: k, Value: overrides[k], Reason: "unknown option"}
		}
	}

	return c.validate()
}

// Parse reads key=value tokens, as given on the command line, over the defaults.
func Parse(pairs []string) (Config, error) {
	return Default().MergePairs(pairs)
}

// MergePairs applies key=value tokens over c.
func (c Config) MergePairs(pairs []string) (Config, error) {
	overrides, err := splitPairs(pairs)
	if err != nil {
		return Config{}, err
	}

	return c.Merge(overrides)
}

// Load reads and parses the YAML configuration file from the specified path.
// Options missing from the file keep their defaults.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config %s: %w", path, err)
	}

	var raw map[string]string
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return Config{}, &ConfigurationError{Key: path, Reason: err.Error()}
	}

	return New(raw)
}

func splitPairs(pairs []string) (map[string]string, error) {
	overrides := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		k, v, ok := strings.Cut(pair, "=")
		if !ok || strings.TrimSpace(k) == "" {
			return nil, &ConfigurationError{Key: pair, Reason: "expected key=value"}
		}
		overrides[normalize(k)] = v
	}

	return overrides, nil
}

func (c Config) validate() (Config, error) {
	c.Field = normalize(c.Field)
	c.FieldX = normalize(c.FieldX)
	c.FieldY = normalize(c.FieldY)

	if c.CRS == "" {
		c.CRS = WGS84
	}
	if _, err := ParseReferenceSystem(string(c.CRS)); err != nil {
		return Config{}, err
	}

	if c.Field == "" {
		c.Field = DefaultField
	}

	return c, nil
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// ConfigurationError reports an unknown option or an invalid option value.
type ConfigurationError struct {
	Key    string
	Value  string
	Reason string
}

func (e *ConfigurationError) Error() string {
	if e.Value == "" {
		return fmt.Sprintf("configuration: %s: %s", e.Key, e.Reason)
	}

	return fmt.Sprintf("configuration: %s=%q: %s", e.Key, e.Value, e.Reason)
}
