package gsatkmk

import (
	"testing"
	"time"

	"git.fractalqb.de/fractalqb/gsatkmk/mkcore"
)

type testTracer struct{ t *testing.T }

var _ mkcore.Tracer = testTracer{}

func (tr testTracer) Debug(t *mkcore.Trace, msg string, args ...any) {
	tr.t.Log("DEBUG", t, Message(msg, args...))
}

func (tr testTracer) Info(t *mkcore.Trace, msg string, args ...any) {
	tr.t.Log("INFO", t, Message(msg, args...))
}

func (tr testTracer) Warn(t *mkcore.Trace, msg string, args ...any) {
	tr.t.Log("WARN", t, Message(msg, args...))
}

func (tr testTracer) StartProject(t *mkcore.Trace, p *mkcore.Project, activity string) {
	tr.t.Logf("%s start %s %s", t, activity, p)
}

func (tr testTracer) DoneProject(t *mkcore.Trace, p *mkcore.Project, activity string, dt time.Duration) {
	tr.t.Logf("%s done %s %s in %s", t, activity, p, dt)
}

func (tr testTracer) Schedule(t *mkcore.Trace, a *mkcore.Action, why mkcore.Reason) {
	tr.t.Logf("%s schedule %s: %s", t, a, why)
}

func (tr testTracer) RunAction(t *mkcore.Trace, a *mkcore.Action) {
	tr.t.Logf("%s run %s", t, a)
}

func (tr testTracer) ActionFailed(t *mkcore.Trace, a *mkcore.Action, err error) {
	tr.t.Logf("%s failed %s ignore=%t: %s", t, a, a.IgnoreError, err)
}

func (tr testTracer) GoalReached(t *mkcore.Trace, ran int) {
	tr.t.Logf("%s reached after %d actions", t, ran)
}

func (tr testTracer) RemoveArtefact(t *mkcore.Trace, g *mkcore.Goal) {
	tr.t.Logf("%s remove %s", t, g)
}
