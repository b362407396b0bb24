// Package platform maps host platform identifiers to path conventions and
// builds paths from segments with the separator of a convention.
package platform

import (
	"errors"
	"fmt"
	"runtime"
	"strings"
)

var ErrUnknownPlatform = errors.New("unknown platform")

// Family is a path convention. The zero Family is not a valid convention.
type Family int

const (
	Unix Family = iota + 1
	Windows
)

var families = map[string]Family{
	"aix":     Unix,
	"linux":   Unix,
	"cygwin":  Unix,
	"darwin":  Unix,
	"windows": Windows,
	"win32":   Windows,
}

// Resolve returns the path family of the platform id. Unknown ids result in an
// error that matches [ErrUnknownPlatform].
func Resolve(id string) (Family, error) {
	if f, ok := families[id]; ok {
		return f, nil
	}
	return 0, fmt.Errorf("%w '%s'", ErrUnknownPlatform, id)
}

// Host resolves the platform the program runs on.
func Host() (Family, error) { return Resolve(runtime.GOOS) }

func (f Family) String() string {
	switch f {
	case Unix:
		return "unix"
	case Windows:
		return "windows"
	}
	return fmt.Sprintf("family(%d)", int(f))
}

func (f Family) Separator() string {
	if f == Windows {
		return `\`
	}
	return "/"
}

// Join joins segs with the separator of f. Segments are neither cleaned nor
// checked.
func (f Family) Join(segs ...string) string {
	return strings.Join(segs, f.Separator())
}

// Path is a sequence of path segments that is joined only when used.
type Path []string

// In returns p joined for family f.
func (p Path) In(f Family) string { return f.Join(p...) }

// Append returns a new path with segs appended to p.
func (p Path) Append(segs ...string) Path {
	res := make(Path, 0, len(p)+len(segs))
	res = append(res, p...)
	return append(res, segs...)
}

func (p Path) String() string { return Unix.Join(p...) }
