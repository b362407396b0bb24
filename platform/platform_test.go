package platform

import (
	"errors"
	"fmt"
	"testing"

	"git.fractalqb.de/fractalqb/testerr"
)

func TestResolve(t *testing.T) {
	for id, want := range map[string]Family{
		"aix":     Unix,
		"linux":   Unix,
		"cygwin":  Unix,
		"darwin":  Unix,
		"windows": Windows,
		"win32":   Windows,
	} {
		t.Run(id, func(t *testing.T) {
			f := testerr.Shall1(Resolve(id)).BeNil(t)
			if f != want {
				t.Errorf("resolved %s, want %s", f, want)
			}
		})
	}
}

func TestResolve_unknown(t *testing.T) {
	for _, id := range []string{"", "plan9", "Linux", "freebsd"} {
		f, err := Resolve(id)
		if !errors.Is(err, ErrUnknownPlatform) {
			t.Errorf("'%s': unexpected error %v", id, err)
		}
		if f != 0 {
			t.Errorf("'%s': resolved to %s", id, f)
		}
	}
}

func TestFamily_Join(t *testing.T) {
	if s := Unix.Join("out", "build.tmp"); s != "out/build.tmp" {
		t.Errorf("unix: '%s'", s)
	}
	if s := Windows.Join("out", "build.tmp"); s != `out\build.tmp` {
		t.Errorf("windows: '%s'", s)
	}
	if s := Unix.Join("a/", "", "../b"); s != "a///../b" {
		t.Errorf("segments changed: '%s'", s)
	}
}

func TestPath_Append(t *testing.T) {
	out := Path{"out"}
	tmp := out.Append("build.tmp")
	js := out.Append("gsatk-browser.js")
	if s := tmp.In(Windows); s != `out\build.tmp` {
		t.Errorf("tmp: '%s'", s)
	}
	if s := js.In(Unix); s != "out/gsatk-browser.js" {
		t.Errorf("js: '%s'", s)
	}
	if len(out) != 1 {
		t.Errorf("base path changed: %v", out)
	}
}

func ExamplePath() {
	p := Path{"out", "gsatk.py"}
	fmt.Println(p.In(Unix))
	fmt.Println(p.In(Windows))
	// Output:
	// out/gsatk.py
	// out\gsatk.py
}
