package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"testing"

	"git.fractalqb.de/fractalqb/gsatkmk"
	"git.fractalqb.de/fractalqb/gsatkmk/mkcore"
	"git.fractalqb.de/fractalqb/testerr"
)

func mustConfigure(t *testing.T, args []string) (gsatkmk.Config, options) {
	t.Helper()
	cfg, opts, err := configure(args)
	if err != nil {
		t.Fatal(err)
	}
	return cfg, opts
}

func TestSplitPositional(t *testing.T) {
	for _, tc := range []struct {
		args, want []string
	}{
		{[]string{"--python", "PY"}, []string{"--", "--python", "PY"}},
		{[]string{"-o", "dist", "--python", "PY"}, []string{"-o", "dist", "--", "--python", "PY"}},
		{[]string{"--out=dist", "-n", "--js", "JS_BROWSER"}, []string{"--out=dist", "-n", "--", "--js", "JS_BROWSER"}},
		{[]string{"--clean"}, []string{"--clean"}},
		{[]string{"--", "--python", "PY"}, []string{"--", "--python", "PY"}},
		{[]string{"CLEAN"}, []string{"--", "CLEAN"}},
		{[]string{"-odist", "--python", "PY"}, []string{"-odist", "--", "--python", "PY"}},
	} {
		if got := splitPositional(tc.args); !slices.Equal(got, tc.want) {
			t.Errorf("%v: got %v, want %v", tc.args, got, tc.want)
		}
	}
}

func TestConfigure(t *testing.T) {
	t.Run("build", func(t *testing.T) {
		cfg, opts := mustConfigure(t, []string{
			"--out", "dist",
			"--defines", "-D,no-traces",
			"--trace", "info",
			"--python", "PY",
		})
		if cfg.Mode != gsatkmk.ModeBuild || cfg.Language != "--python" || cfg.Define != "PY" {
			t.Errorf("target %s %s %s", cfg.Mode, cfg.Language, cfg.Define)
		}
		if cfg.OutDir != "dist" {
			t.Errorf("out dir '%s'", cfg.OutDir)
		}
		if !slices.Equal(cfg.Defines, []string{"-D", "no-traces"}) {
			t.Errorf("defines %v", cfg.Defines)
		}
		if cfg.Compiler != "haxe" {
			t.Errorf("compiler '%s'", cfg.Compiler)
		}
		if opts.trace != "info" {
			t.Errorf("trace '%s'", opts.trace)
		}
	})
	t.Run("clean", func(t *testing.T) {
		cfg, _ := mustConfigure(t, []string{"CLEAN"})
		if cfg.Mode != gsatkmk.ModeClean {
			t.Errorf("mode %s", cfg.Mode)
		}
		cfg, _ = mustConfigure(t, []string{"CLEAN", "JS_BROWSER"})
		if cfg.Mode != gsatkmk.ModeClean {
			t.Errorf("CLEAN with define: mode %s", cfg.Mode)
		}
		cfg, opts := mustConfigure(t, []string{"--clean", "-n"})
		if cfg.Mode != gsatkmk.ModeClean || !opts.dryrun {
			t.Errorf("mode %s, dry-run %t", cfg.Mode, opts.dryrun)
		}
	})
	t.Run("config file", func(t *testing.T) {
		file := filepath.Join(t.TempDir(), "gsatkmk.yaml")
		testerr.Shall(os.WriteFile(file, []byte(
			"out: build\ncompiler: /opt/haxe/haxe\nlanguage: --js\ndefine: JS_BROWSER\n",
		), 0666)).BeNil(t)
		cfg, _ := mustConfigure(t, []string{"--config", file, "--out", "dist"})
		if cfg.OutDir != "dist" {
			t.Errorf("flag did not override out dir: '%s'", cfg.OutDir)
		}
		if cfg.Compiler != "/opt/haxe/haxe" {
			t.Errorf("compiler '%s'", cfg.Compiler)
		}
		if cfg.Language != "--js" || cfg.Define != "JS_BROWSER" {
			t.Errorf("target %s %s", cfg.Language, cfg.Define)
		}
	})
	t.Run("environment", func(t *testing.T) {
		t.Setenv(gsatkmk.EnvPrefix+"COMPILER", "/usr/local/bin/haxe")
		t.Setenv(gsatkmk.EnvPrefix+"OUT", "env-out")
		cfg, _ := mustConfigure(t, []string{"-odist", "--python", "PY"})
		if cfg.Compiler != "/usr/local/bin/haxe" {
			t.Errorf("compiler '%s'", cfg.Compiler)
		}
		if cfg.OutDir != "dist" {
			t.Errorf("out dir '%s'", cfg.OutDir)
		}
	})
	t.Run("arguments", func(t *testing.T) {
		for _, args := range [][]string{
			nil,
			{"--python"},
			{"--python", "PY", "extra"},
		} {
			if _, _, err := configure(args); err == nil {
				t.Errorf("no error for %v", args)
			}
		}
	})
}

func TestNewTracer(t *testing.T) {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	for trace, want := range map[string]string{
		"log":   "mkcore.LogTracer",
		"debug": "main.presenter",
	} {
		tr, err := newTracer(options{trace: trace}, log)
		if err != nil {
			t.Fatal(err)
		}
		if n := fmt.Sprintf("%T", tr); n != want {
			t.Errorf("%s: tracer %s, want %s", trace, n, want)
		}
	}
	tr, err := newTracer(options{trace: "info", plain: true}, log)
	if err != nil {
		t.Fatal(err)
	}
	if wt, ok := tr.(*gsatkmk.WriteTracer); !ok || wt.Log != mkcore.TraceWarn|mkcore.TraceInfo {
		t.Errorf("plain tracer %#v", tr)
	}
	if _, err := newTracer(options{trace: "loud"}, log); err == nil {
		t.Error("no error for illegal trace level")
	}
}
