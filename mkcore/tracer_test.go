package mkcore

import (
	"bytes"
	"context"
	"log/slog"
	"slices"
	"strings"
	"testing"
	"time"

	"git.fractalqb.de/fractalqb/testerr"
)

type testTracer struct{ t *testing.T }

var _ Tracer = testTracer{}

func (tr testTracer) Debug(t *Trace, msg string, args ...any) {
	tr.t.Log(append([]any{t, "DEBUG", msg}, args...)...)
}

func (tr testTracer) Info(t *Trace, msg string, args ...any) {
	tr.t.Log(append([]any{t, "INFO", msg}, args...)...)
}

func (tr testTracer) Warn(t *Trace, msg string, args ...any) {
	tr.t.Log(append([]any{t, "WARN", msg}, args...)...)
}

func (tr testTracer) StartProject(t *Trace, p *Project, activity string) {
	tr.t.Logf("%s start %s %s", t, activity, p)
}

func (tr testTracer) DoneProject(t *Trace, p *Project, activity string, dt time.Duration) {
	tr.t.Logf("%s done %s %s in %s", t, activity, p, dt)
}

func (tr testTracer) Schedule(t *Trace, a *Action, why Reason) {
	tr.t.Logf("%s schedule %s: %s", t, a, why)
}

func (tr testTracer) RunAction(t *Trace, a *Action) {
	tr.t.Logf("%s run %s", t, a)
}

func (tr testTracer) ActionFailed(t *Trace, a *Action, err error) {
	tr.t.Logf("%s failed %s: %s", t, a, err)
}

func (tr testTracer) GoalReached(t *Trace, ran int) {
	tr.t.Logf("%s reached after %d actions", t, ran)
}

func (tr testTracer) RemoveArtefact(t *Trace, g *Goal) {
	tr.t.Logf("%s remove %s", t, g)
}

// stepTracer records the step of each event.
type stepTracer struct {
	testTracer
	events *[]string
}

func (tr stepTracer) Schedule(t *Trace, a *Action, why Reason) {
	*tr.events = append(*tr.events, t.String()+" "+why.String())
}

func (tr stepTracer) GoalReached(t *Trace, ran int) {
	*tr.events = append(*tr.events, t.Step()+" reached")
}

func TestTrace_steps(t *testing.T) {
	var log, events []string
	prj := NewProject(t.TempDir())
	a := testerr.Shall1(prj.Goal(Abstract("a"))).BeNil(t)
	b := testerr.Shall1(prj.Goal(Abstract("b"))).BeNil(t)
	testerr.Shall1(prj.NewAction(nil, []*Goal{a}, recOp{name: "a", log: &log})).BeNil(t)
	testerr.Shall1(prj.NewAction([]*Goal{a}, []*Goal{b}, recOp{name: "b", log: &log})).BeNil(t)

	tr := NewRunTrace(context.Background(), "r1", stepTracer{testTracer{t}, &events})
	bd := testerr.Shall1(NewBuilder(tr, &Env{})).BeNil(t)
	testerr.Shall(bd.Goals(b)).BeNil(t)
	want := []string{
		"r1/b>a no state",
		"a reached",
		"r1/b no state",
		"b reached",
	}
	if !slices.Equal(events, want) {
		t.Errorf("events %v, want %v", events, want)
	}
	if tr.Step() != "" || tr.Run() != "r1" {
		t.Errorf("root trace step '%s' run '%s'", tr.Step(), tr.Run())
	}
}

func TestLogTracer(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	prj := NewProject(t.TempDir())
	g := testerr.Shall1(prj.Goal(Abstract("compiled"))).BeNil(t)
	var ops []string
	testerr.Shall1(prj.NewAction(nil, []*Goal{g}, recOp{name: "haxe", log: &ops})).BeNil(t)

	tr := NewRunTrace(context.Background(), "r1", LogTracer{Log: log})
	bd := testerr.Shall1(NewBuilder(tr, &Env{})).BeNil(t)
	testerr.Shall(bd.Project(prj)).BeNil(t)
	out := buf.String()
	for _, want := range []string{
		"msg=run action=haxe run=r1 step=compiled",
		"msg=schedule action=haxe reason=\"no state\" run=r1 step=compiled",
		"msg=reached actions=1 run=r1 step=compiled",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("missing '%s' in:\n%s", want, out)
		}
	}
}
