package mkcore

import (
	"log/slog"
	"time"
)

// LogTracer reports trace events as records of a [slog.Logger]. Each record
// carries the run label and the step of the trace. Messages of Debug, Info and
// Warn are passed with their arguments unchanged.
type LogTracer struct {
	Log *slog.Logger
}

var _ Tracer = LogTracer{}

func (tr LogTracer) attrs(t *Trace, args []any) []any {
	if r := t.Run(); r != "" {
		args = append(args, slog.String("run", r))
	}
	if s := t.Step(); s != "" {
		args = append(args, slog.String("step", s))
	}
	return args
}

func (tr LogTracer) Debug(t *Trace, msg string, args ...any) {
	tr.Log.Debug(msg, tr.attrs(t, args)...)
}

func (tr LogTracer) Info(t *Trace, msg string, args ...any) {
	tr.Log.Info(msg, tr.attrs(t, args)...)
}

func (tr LogTracer) Warn(t *Trace, msg string, args ...any) {
	tr.Log.Warn(msg, tr.attrs(t, args)...)
}

func (tr LogTracer) StartProject(t *Trace, p *Project, activity string) {
	tr.Log.Info("start "+activity, tr.attrs(t, []any{
		slog.String("project", p.String()),
		slog.String("dir", p.Dir),
		slog.Uint64("build", t.Build()),
	})...)
}

func (tr LogTracer) DoneProject(t *Trace, p *Project, activity string, dt time.Duration) {
	tr.Log.Info("done "+activity, tr.attrs(t, []any{
		slog.String("project", p.String()),
		slog.Duration("took", dt),
	})...)
}

func (tr LogTracer) Schedule(t *Trace, a *Action, why Reason) {
	tr.Log.Debug("schedule", tr.attrs(t, []any{
		slog.String("action", a.String()),
		slog.String("reason", why.String()),
	})...)
}

func (tr LogTracer) RunAction(t *Trace, a *Action) {
	tr.Log.Info("run", tr.attrs(t, []any{slog.String("action", a.String())})...)
}

func (tr LogTracer) ActionFailed(t *Trace, a *Action, err error) {
	lvl := slog.LevelError
	if a.IgnoreError {
		lvl = slog.LevelWarn
	}
	tr.Log.Log(t.Ctx(), lvl, "action failed", tr.attrs(t, []any{
		slog.String("action", a.String()),
		slog.String("error", err.Error()),
		slog.Bool("ignored", a.IgnoreError),
	})...)
}

func (tr LogTracer) GoalReached(t *Trace, ran int) {
	tr.Log.Debug("reached", tr.attrs(t, []any{slog.Int("actions", ran)})...)
}

func (tr LogTracer) RemoveArtefact(t *Trace, g *Goal) {
	tr.Log.Info("remove", tr.attrs(t, []any{slog.String("artefact", g.Name())})...)
}
