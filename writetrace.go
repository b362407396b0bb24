package gsatkmk

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"git.fractalqb.de/fractalqb/gsatkmk/mkcore"
	"git.fractalqb.de/fractalqb/sllm/v3"
)

// WriteTracer writes one line per trace event to W. A line starts with the
// run label and the pipeline step, then comes a mark for the kind of event:
//
//	1f0c2a9e relocated  > mv out/gsatk.py out/build.tmp
//	1f0c2a9e relocated  = reached, 1 actions
//
// Messages are sllm templates with backtick-quoted argument names.
type WriteTracer struct {
	W io.Writer
	// Log is one of the levels set by [WriteTracer.ParseLogFlag], 0 is off.
	Log mkcore.TraceLog
}

var _ mkcore.Tracer = (*WriteTracer)(nil)

func DefaultTracer() mkcore.Tracer {
	return &WriteTracer{W: os.Stderr, Log: mkcore.TraceWarn}
}

func (tr *WriteTracer) ParseLogFlag(f string) error {
	switch f {
	case "":
		return nil
	case "off":
		tr.Log = 0
	case "warn", "w":
		tr.Log = mkcore.TraceWarn
	case "info", "i":
		tr.Log = mkcore.TraceWarn | mkcore.TraceInfo
	case "debug", "d":
		tr.Log = mkcore.TraceWarn | mkcore.TraceInfo | mkcore.TraceDebug
	default:
		return fmt.Errorf("write tracer: illegal log flag '%s'", f)
	}
	return nil
}

func (tr *WriteTracer) on(l mkcore.TraceLog) bool { return tr.Log >= l }

func (tr *WriteTracer) line(t *mkcore.Trace, mark, format string, args ...any) {
	run, step := t.Run(), t.Step()
	if run == "" {
		run = "-"
	}
	if step == "" {
		step = "*"
	}
	fmt.Fprintf(tr.W, "%s %-10s %s "+format+"\n", append([]any{run, step, mark}, args...)...)
}

func (tr *WriteTracer) Debug(t *mkcore.Trace, msg string, args ...any) {
	if tr.on(mkcore.TraceDebug) {
		tr.line(t, "DEBUG", "%s", Message(msg, args...))
	}
}

func (tr *WriteTracer) Info(t *mkcore.Trace, msg string, args ...any) {
	if tr.on(mkcore.TraceInfo) {
		tr.line(t, "INFO ", "%s", Message(msg, args...))
	}
}

func (tr *WriteTracer) Warn(t *mkcore.Trace, msg string, args ...any) {
	if tr.on(mkcore.TraceWarn) {
		tr.line(t, "WARN ", "%s", Message(msg, args...))
	}
}

func (tr *WriteTracer) StartProject(t *mkcore.Trace, p *mkcore.Project, activity string) {
	if tr.on(mkcore.TraceWarn) {
		tr.line(t, "{", "%s '%s' in %s", activity, p, p.Dir)
	}
}

func (tr *WriteTracer) DoneProject(t *mkcore.Trace, p *mkcore.Project, activity string, dt time.Duration) {
	if tr.on(mkcore.TraceWarn) {
		tr.line(t, "}", "%s '%s' took %s", activity, p, dt)
	}
}

func (tr *WriteTracer) Schedule(t *mkcore.Trace, a *mkcore.Action, why mkcore.Reason) {
	if tr.on(mkcore.TraceDebug) {
		tr.line(t, "?", "%s (%s)", a, why)
	}
}

func (tr *WriteTracer) RunAction(t *mkcore.Trace, a *mkcore.Action) {
	if tr.on(mkcore.TraceInfo) {
		tr.line(t, ">", "%s", a)
	}
}

// ActionFailed is logged with warn level. Errors that break the build are
// returned to the caller anyway.
func (tr *WriteTracer) ActionFailed(t *mkcore.Trace, a *mkcore.Action, err error) {
	if !tr.on(mkcore.TraceWarn) {
		return
	}
	tag := "failed"
	if a.IgnoreError {
		tag = "ignored failure of"
	}
	tr.line(t, "!", "%s action (%s): %s", tag, a, err)
}

func (tr *WriteTracer) GoalReached(t *mkcore.Trace, ran int) {
	switch {
	case !tr.on(mkcore.TraceInfo):
	case ran == 0:
		tr.line(t, "=", "up-to-date")
	default:
		tr.line(t, "=", "reached, %d actions", ran)
	}
}

func (tr *WriteTracer) RemoveArtefact(t *mkcore.Trace, g *mkcore.Goal) {
	if tr.on(mkcore.TraceWarn) {
		tr.line(t, "-", "remove %s", g.Name())
	}
}

// Message fills the backtick-quoted names in msg with the values of args.
// Args are key/value pairs or [slog.Attr] values.
func Message(msg string, args ...any) string {
	var buf bytes.Buffer
	sllm.Fprint(&buf, msg, sllmArgs(args).append)
	return buf.String()
}

type sllmArgs []any

func (as sllmArgs) append(buf []byte, _ int, n string) ([]byte, error) {
	for len(as) > 0 {
		switch k := as[0].(type) {
		case string:
			if len(as) == 1 {
				return buf, fmt.Errorf("no value for key '%s'", n)
			}
			if k == n {
				return sllm.AppendArg(buf, as[1]), nil
			}
			as = as[2:]
		case slog.Attr:
			if k.Key == n {
				return sllm.AppendArg(buf, k.Value.Any()), nil
			}
			as = as[1:]
		default:
			return buf, fmt.Errorf("illegal key type %T", k)
		}
	}
	return buf, fmt.Errorf("no key '%s'", n)
}
