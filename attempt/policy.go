package attempt

import (
	"encoding/json"
	"fmt"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/amp-labs/amp-attempt/schedule"
)

// Policy is the declarative form of a retry configuration, suitable for YAML
// or JSON config files. Zero-valued fields fall back to the package defaults;
// an explicit timeout of 0 keeps its one-shot meaning, which is why Timeout
// is a pointer.
//
//	delays: [0s, 1s, 4s, 30s]
//	timeout: 5m
type Policy struct {
	Delays  []Duration `yaml:"delays"  json:"delays"`
	Timeout *Duration  `yaml:"timeout" json:"timeout"`
}

// ParsePolicy decodes a YAML (or JSON, being a YAML subset) policy document.
func ParsePolicy(data []byte) (Policy, error) {
	var p Policy

	if err := yaml.Unmarshal(data, &p); err != nil {
		return Policy{}, fmt.Errorf("parsing retry policy: %w", err)
	}

	return p, nil
}

// Options converts the policy into scheduler options. Predicates are code,
// not configuration, so callers append their own WithPredicate.
func (p Policy) Options() []Option {
	var opts []Option

	if len(p.Delays) > 0 {
		delays := make(schedule.Fixed, len(p.Delays))
		for i, d := range p.Delays {
			delays[i] = time.Duration(d)
		}

		opts = append(opts, WithSchedule(delays))
	}

	if p.Timeout != nil {
		opts = append(opts, WithTimeout(time.Duration(*p.Timeout)))
	}

	return opts
}

// Duration is a time.Duration that (un)marshals as a human-readable string
// ("250ms", "1m30s") in YAML and JSON. Bare numbers are accepted as seconds.
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	var raw any
	if err := node.Decode(&raw); err != nil {
		return err
	}

	parsed, err := parseDuration(raw)
	if err != nil {
		return err
	}

	*d = parsed

	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (d Duration) MarshalYAML() (any, error) {
	return time.Duration(d).String(), nil
}

// UnmarshalJSON implements json.Unmarshaler.
func (d *Duration) UnmarshalJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	parsed, err := parseDuration(raw)
	if err != nil {
		return err
	}

	*d = parsed

	return nil
}

// MarshalJSON implements json.Marshaler.
func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}

func parseDuration(raw any) (Duration, error) {
	switch v := raw.(type) {
	case string:
		parsed, err := time.ParseDuration(v)
		if err != nil {
			return 0, fmt.Errorf("invalid duration %q: %w", v, err)
		}

		return Duration(parsed), nil
	case int:
		return Duration(time.Duration(v) * time.Second), nil
	case int64:
		return Duration(time.Duration(v) * time.Second), nil
	case float64:
		return Duration(time.Duration(v * float64(time.Second))), nil
	default:
		return 0, fmt.Errorf("invalid duration value %v (%T)", raw, raw)
	}
}
