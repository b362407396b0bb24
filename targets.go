package gsatkmk

import (
	"errors"
	"fmt"
)

var ErrUnsupportedTarget = errors.New("unsupported target")

// UnsupportedTargetError is returned when neither the language nor the define
// of a configuration selects a [Target].
type UnsupportedTargetError struct {
	Language, Define string
}

func (e *UnsupportedTargetError) Error() string {
	return fmt.Sprintf("%s: language '%s', define '%s'",
		ErrUnsupportedTarget,
		e.Language,
		e.Define,
	)
}

func (*UnsupportedTargetError) Is(target error) bool {
	return target == ErrUnsupportedTarget
}

// Target is one row of the naming table. A target is selected either by the
// compiler language switch or by the platform define. Empty selectors never
// match.
type Target struct {
	Name     string `yaml:"name"`
	Language string `yaml:"language,omitempty"`
	Define   string `yaml:"define,omitempty"`
	Suffix   string `yaml:"suffix"`
	Prelude  string `yaml:"prelude"`
}

func (t *Target) Matches(language, define string) bool {
	return (t.Language != "" && t.Language == language) ||
		(t.Define != "" && t.Define == define)
}

// Targets is the naming table. The first matching target wins.
type Targets []Target

func DefaultTargets() Targets {
	return Targets{
		{
			Name:     "python",
			Language: "--python",
			Suffix:   ".py",
			Prelude:  "Append_To_Beginning.py",
		},
		{
			Name:    "browser",
			Define:  "JS_BROWSER",
			Suffix:  "-browser.js",
			Prelude: "Append_To_Beginning.txt",
		},
	}
}

// Check reports targets without name, suffix or selector and duplicate names.
func (ts Targets) Check() error {
	names := make(map[string]int, len(ts))
	for i := range ts {
		t := &ts[i]
		switch {
		case t.Name == "":
			return fmt.Errorf("target %d has no name", i)
		case t.Suffix == "":
			return fmt.Errorf("target '%s' has no suffix", t.Name)
		case t.Prelude == "":
			return fmt.Errorf("target '%s' has no prelude", t.Name)
		case t.Language == "" && t.Define == "":
			return fmt.Errorf("target '%s' has neither language nor define", t.Name)
		}
		if j, ok := names[t.Name]; ok {
			return fmt.Errorf("target '%s' defined twice: %d and %d", t.Name, j, i)
		}
		names[t.Name] = i
	}
	return nil
}

// Resolve returns the artifact spec of the first target that matches language
// or define. If none matches, the error is an [*UnsupportedTargetError].
func (ts Targets) Resolve(baseName, language, define string) (ArtifactSpec, error) {
	for i := range ts {
		if t := &ts[i]; t.Matches(language, define) {
			return ArtifactSpec{
				Target:   t.Name,
				BaseName: baseName,
				Suffix:   t.Suffix,
				Prelude:  t.Prelude,
			}, nil
		}
	}
	return ArtifactSpec{}, &UnsupportedTargetError{Language: language, Define: define}
}

// ArtifactSpec describes the final artifact of a build.
type ArtifactSpec struct {
	Target   string
	BaseName string
	Suffix   string
	Prelude  string
}

func (s ArtifactSpec) FileName() string { return s.BaseName + s.Suffix }
