package mkcore

import (
	"context"
	"strings"
	"time"
)

// Tracer receives the events of builds and cleanups. Messages of Debug, Info
// and Warn name their arguments in backticks, e.g. "remove `path`", and args
// are key/value pairs or [log/slog.Attr] values.
type Tracer interface {
	Debug(t *Trace, msg string, args ...any)
	Info(t *Trace, msg string, args ...any)
	Warn(t *Trace, msg string, args ...any)

	StartProject(t *Trace, p *Project, activity string)
	DoneProject(t *Trace, p *Project, activity string, dt time.Duration)

	// Schedule is called when action a is scheduled to reach the goal of t.
	Schedule(t *Trace, a *Action, why Reason)
	RunAction(t *Trace, a *Action)
	ActionFailed(t *Trace, a *Action, err error)
	// GoalReached is called when the goal of t is reached after ran actions
	// were run. With ran == 0 the goal was up-to-date.
	GoalReached(t *Trace, ran int)

	RemoveArtefact(t *Trace, g *Goal)
}

type TraceLog int

const (
	TraceWarn TraceLog = (1 << iota)
	TraceInfo
	TraceDebug
)

// Reason tells why an action is scheduled.
type Reason int

const (
	// The result has no state time, e.g. it is [Abstract].
	NoState Reason = iota
	// The action has no premises.
	NoPremises
	// A premise is newer than the result.
	Outdated
)

func (r Reason) String() string {
	switch r {
	case NoState:
		return "no state"
	case NoPremises:
		return "no premises"
	case Outdated:
		return "outdated"
	}
	return "reason?"
}

// Trace follows one run through the goals of a project. Each goal that is
// worked on is a step of the trace. The trace carries the context of the run
// and an optional run label to tell the events of different runs apart.
type Trace struct {
	root *traceRoot
	up   *Trace
	goal *Goal
}

type traceRoot struct {
	ctx context.Context
	tr  Tracer
	run string
	prj *Project
}

func NewTrace(ctx context.Context, t Tracer) *Trace {
	return NewRunTrace(ctx, "", t)
}

// NewRunTrace returns a trace whose events are labeled with run.
func NewRunTrace(ctx context.Context, run string, t Tracer) *Trace {
	if ctx == nil {
		ctx = context.Background()
	}
	return &Trace{root: &traceRoot{ctx: ctx, tr: t, run: run}}
}

func (t *Trace) Ctx() context.Context { return t.root.ctx }

func (t *Trace) Run() string { return t.root.run }

func (t *Trace) Debug(msg string, args ...any) { t.root.tr.Debug(t, msg, args...) }
func (t *Trace) Info(msg string, args ...any)  { t.root.tr.Info(t, msg, args...) }
func (t *Trace) Warn(msg string, args ...any)  { t.root.tr.Warn(t, msg, args...) }

// Build returns the ID of the current build or 0 if the trace is not used in
// a build.
func (t *Trace) Build() BuildID {
	if t.root.prj == nil {
		return 0
	}
	return t.root.prj.Build()
}

// Goal returns the goal that is worked on, nil outside of goals.
func (t *Trace) Goal() *Goal { return t.goal }

// Step returns the name of the goal that is worked on.
func (t *Trace) Step() string {
	if t.goal == nil {
		return ""
	}
	return t.goal.Name()
}

// Steps returns the names of the goals from the first one that was entered up
// to the current step.
func (t *Trace) Steps() []string {
	var ns []string
	for ; t != nil && t.goal != nil; t = t.up {
		ns = append(ns, t.goal.Name())
	}
	for i, j := 0, len(ns)-1; i < j; i, j = i+1, j-1 {
		ns[i], ns[j] = ns[j], ns[i]
	}
	return ns
}

// String is "run/step>…>step". The run is left out if it has no label.
func (t *Trace) String() string {
	var sb strings.Builder
	if r := t.Run(); r != "" {
		sb.WriteString(r)
		sb.WriteByte('/')
	}
	sb.WriteString(strings.Join(t.Steps(), ">"))
	return sb.String()
}

func (t *Trace) tracer() Tracer { return t.root.tr }

func (t *Trace) startProject(p *Project, activity string) {
	t.root.prj = p
	t.root.tr.StartProject(t, p, activity)
}

func (t *Trace) enter(g *Goal) *Trace {
	return &Trace{root: t.root, up: t, goal: g}
}
