package mkcore

import (
	"fmt"
	"io"
	"log/slog"
	"maps"
	"os"
	"slices"
	"strings"
)

// Env is the environment in which operations are run. Tags are passed as
// environment variables to external commands.
type Env struct {
	In       io.Reader
	Out, Err io.Writer
	Log      *slog.Logger

	tags    map[string]string
	xenv    []string
	xenvErr error
}

// DefaultEnv returns an environment with the standard I/O streams of the
// process, the default logger and the tags from the process environment.
func DefaultEnv() *Env {
	env := &Env{
		In:  os.Stdin,
		Out: os.Stdout,
		Err: os.Stderr,
		Log: slog.Default(),
	}
	env.SetTags(os.Environ()...)
	return env
}

func (e *Env) Clone() *Env {
	return &Env{
		In: e.In, Out: e.Out, Err: e.Err,
		Log:  e.Log,
		tags: maps.Clone(e.tags),
	}
}

func (e *Env) Tag(key string) (string, bool) {
	v, ok := e.tags[key]
	return v, ok
}

func (e *Env) SetTag(key, val string) {
	if e.tags == nil {
		e.tags = make(map[string]string)
	}
	e.tags[key] = val
	e.clearXEnv()
}

// SetTags sets tags from strings of the form "key=value". A string without '='
// sets the tag to the empty string.
func (e *Env) SetTags(env ...string) {
	if e.tags == nil {
		e.tags = make(map[string]string)
	}
	for _, evar := range env {
		k, v, _ := strings.Cut(evar, "=")
		e.tags[k] = v
	}
	e.clearXEnv()
}

func (e *Env) DelTag(key string) {
	delete(e.tags, key)
	e.clearXEnv()
}

type NonXEnvKeys []string

func (e NonXEnvKeys) Error() string {
	return fmt.Sprintf("illegal exec env keys: %s", strings.Join(e, ", "))
}

func (NonXEnvKeys) Is(target error) bool {
	_, ok := target.(NonXEnvKeys)
	return ok
}

// ExecEnv returns the tags in the form required by [os/exec.Cmd.Env]. Tags
// that cannot be passed are skipped and reported as [NonXEnvKeys] error.
func (e *Env) ExecEnv() ([]string, error) {
	if e.xenv == nil {
		var errKeys []string
		for _, k := range slices.Sorted(maps.Keys(e.tags)) {
			switch {
			case k == "":
				errKeys = append(errKeys, `""`)
			case strings.ContainsRune(k, '='):
				errKeys = append(errKeys, k)
			default:
				e.xenv = append(e.xenv, k+"="+e.tags[k])
			}
		}
		if len(errKeys) > 0 {
			e.xenvErr = NonXEnvKeys(errKeys)
		}
	}
	return e.xenv, e.xenvErr
}

func (e *Env) clearXEnv() {
	e.xenv = nil
	e.xenvErr = nil
}

// Logger returns e.Log or the default logger if e.Log is not set.
func (e *Env) Logger() *slog.Logger {
	if e.Log == nil {
		return slog.Default()
	}
	return e.Log
}
