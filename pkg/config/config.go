// Package config loads named throttle and debounce profiles from YAML.
package config

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/vnykmshr/gobounce/pkg/common/errors"
	"github.com/vnykmshr/gobounce/pkg/common/validation"
	"github.com/vnykmshr/gobounce/pkg/ratelimit/debounce"
	"github.com/vnykmshr/gobounce/pkg/ratelimit/throttle"
)

// Wrapper modes.
const (
	ModeThrottle = "throttle"
	ModeDebounce = "debounce"
)

// Duration is a time.Duration that unmarshals from strings such as "300ms"
// or "2s". A bare integer is read as milliseconds.
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: duration must be a scalar", value.Line)
	}

	var ms int64
	if value.Tag == "!!int" {
		if err := value.Decode(&ms); err != nil {
			return err
		}
		*d = Duration(time.Duration(ms) * time.Millisecond)
		return nil
	}

	parsed, err := time.ParseDuration(value.Value)
	if err != nil {
		return fmt.Errorf("line %d: %w", value.Line, err)
	}
	*d = Duration(parsed)
	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (d Duration) MarshalYAML() (interface{}, error) {
	return time.Duration(d).String(), nil
}

// Profile describes one wrapper configuration.
type Profile struct {
	Name    string   `yaml:"-"`
	Mode    string   `yaml:"mode"`
	Delay   Duration `yaml:"delay"`
	Leading bool     `yaml:"leading,omitempty"`
	Timeout Duration `yaml:"timeout,omitempty"`
}

// Validate checks the profile's fields.
func (p Profile) Validate() error {
	if err := validation.ValidateOneOf("config", "mode", p.Mode, ModeThrottle, ModeDebounce); err != nil {
		return err
	}
	if err := validation.ValidateNonNegativeDuration("config", "delay", time.Duration(p.Delay)); err != nil {
		return err
	}
	if err := validation.ValidateNonNegativeDuration("config", "timeout", time.Duration(p.Timeout)); err != nil {
		return err
	}
	if p.Mode == ModeThrottle && p.Timeout != 0 {
		return errors.NewValidationError("config", "timeout", time.Duration(p.Timeout), "only applies to debounce").
			WithHint("remove timeout or set mode: debounce")
	}
	return nil
}

// ThrottleConfig returns the throttle.Config the profile describes.
// Callbacks, scheduler and logger are left for the caller to set.
func (p Profile) ThrottleConfig() throttle.Config {
	return throttle.Config{
		Delay:   time.Duration(p.Delay),
		Leading: p.Leading,
	}
}

// DebounceConfig returns the debounce.Config the profile describes.
// Callbacks, scheduler and logger are left for the caller to set.
func (p Profile) DebounceConfig() debounce.Config {
	return debounce.Config{
		Delay:   time.Duration(p.Delay),
		Leading: p.Leading,
		Timeout: time.Duration(p.Timeout),
	}
}

// File is a parsed profile file.
type File struct {
	Profiles map[string]Profile `yaml:"profiles"`
}

// Load parses and validates a profile file.
func Load(r io.Reader) (*File, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.NewOperationError("config", "load", err)
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var f File
	if err := dec.Decode(&f); err != nil && err != io.EOF {
		return nil, errors.NewOperationError("config", "load", err)
	}

	for name, p := range f.Profiles {
		p.Name = name
		if err := p.Validate(); err != nil {
			return nil, errors.NewOperationError("config", "load", err).WithContext("profile " + name)
		}
		f.Profiles[name] = p
	}
	return &f, nil
}

// LoadFile reads and parses the profile file at path.
func LoadFile(path string) (*File, error) {
	fh, err := os.Open(path)
	if err != nil {
		return nil, errors.NewOperationError("config", "load", err).WithContext(path)
	}
	defer fh.Close()
	return Load(fh)
}

// Profile returns the named profile.
func (f *File) Profile(name string) (Profile, error) {
	if err := validation.ValidateNotEmpty("config", "profile", name); err != nil {
		return Profile{}, err
	}
	p, ok := f.Profiles[name]
	if !ok {
		return Profile{}, errors.NewValidationError("config", "profile", name, "not found").
			WithHint("use one of: " + strings.Join(f.Names(), ", "))
	}
	return p, nil
}

// Names returns the profile names in sorted order.
func (f *File) Names() []string {
	names := make([]string, 0, len(f.Profiles))
	for name := range f.Profiles {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
