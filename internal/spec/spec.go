// Package spec decodes and validates a package's dotfile.yaml, the
// external Spec described in spec.md §6. Decode never hands the caller an
// unvalidated Spec, the same discipline the teacher's
// templates/model/spec.Decode enforces for spec.yaml.
package spec

import (
	"errors"
	"fmt"
	"io"

	"github.com/Masterminds/semver/v3"
	"gopkg.in/yaml.v3"
)

// EngineVersion is compared against a package's declared MinEngineVersion,
// the way the teacher's model.IsKnownSchemaVersion gates api_version.
var EngineVersion = semver.MustParse("1.0.0")

// Decode unmarshals and validates a Spec from r.
func Decode(r io.Reader) (*Spec, error) {
	var s Spec
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&s); err != nil {
		return nil, fmt.Errorf("decoding dotfile.yaml: %w", err)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// Spec is a parsed dotfile.yaml describing one package: its name, the
// other packages it depends on, and the ordered directives that produce
// Actions.
type Spec struct {
	Name             string      `yaml:"name"`
	MinEngineVersion string      `yaml:"min_engine_version,omitempty"`
	Deps             []string    `yaml:"deps,omitempty"`
	Directives       []Directive `yaml:"directives"`
}

// Validate checks structural invariants that aren't expressible in the YAML
// schema alone.
func (s *Spec) Validate() error {
	var errs []error
	if s.Name == "" {
		errs = append(errs, errors.New("spec: name is required"))
	}
	if len(s.Directives) == 0 {
		errs = append(errs, errors.New("spec: at least one directive is required"))
	}
	if s.MinEngineVersion != "" {
		want, err := semver.NewConstraint(">=" + s.MinEngineVersion)
		if err != nil {
			errs = append(errs, fmt.Errorf("spec: invalid min_engine_version %q: %w", s.MinEngineVersion, err))
		} else if !want.Check(EngineVersion) {
			errs = append(errs, fmt.Errorf("spec: package %q requires engine >= %s, running %s",
				s.Name, s.MinEngineVersion, EngineVersion))
		}
	}
	for i, d := range s.Directives {
		if err := d.Validate(); err != nil {
			errs = append(errs, fmt.Errorf("directive[%d]: %w", i, err))
		}
	}
	return errors.Join(errs...)
}
