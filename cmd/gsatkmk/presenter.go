package main

import (
	"time"

	"git.fractalqb.de/fractalqb/gsatkmk"
	"git.fractalqb.de/fractalqb/gsatkmk/mkcore"
	"github.com/pterm/pterm"
)

// presenter is the interactive tracer of the command. It shows the same
// events as [gsatkmk.WriteTracer] with pterm printers.
type presenter struct {
	log mkcore.TraceLog
}

var _ mkcore.Tracer = presenter{}

func newPresenter(level string) (presenter, error) {
	var wt gsatkmk.WriteTracer
	if err := wt.ParseLogFlag(level); err != nil {
		return presenter{}, err
	}
	if wt.Log&mkcore.TraceDebug != 0 {
		pterm.EnableDebugMessages()
	}
	return presenter{log: wt.Log}, nil
}

func (p presenter) on(l mkcore.TraceLog) bool { return p.log&l != 0 }

func (p presenter) Debug(_ *mkcore.Trace, msg string, args ...any) {
	if p.on(mkcore.TraceDebug) {
		pterm.Debug.Println(gsatkmk.Message(msg, args...))
	}
}

func (p presenter) Info(_ *mkcore.Trace, msg string, args ...any) {
	if p.on(mkcore.TraceInfo | mkcore.TraceDebug) {
		pterm.Info.Println(gsatkmk.Message(msg, args...))
	}
}

func (p presenter) Warn(_ *mkcore.Trace, msg string, args ...any) {
	if p.log != 0 {
		pterm.Warning.Println(gsatkmk.Message(msg, args...))
	}
}

func (p presenter) StartProject(_ *mkcore.Trace, prj *mkcore.Project, activity string) {
	if !p.on(mkcore.TraceInfo | mkcore.TraceDebug) {
		return
	}
	pterm.DefaultHeader.
		WithBackgroundStyle(pterm.NewStyle(pterm.BgCyan)).
		WithTextStyle(pterm.NewStyle(pterm.FgBlack)).
		Printf("%s %s", activity, prj)
	pterm.Println()
}

func (p presenter) DoneProject(_ *mkcore.Trace, prj *mkcore.Project, activity string, dt time.Duration) {
	if p.log != 0 {
		pterm.Success.Printf("%s %s took %s\n", activity, prj, dt.Round(time.Millisecond))
	}
}

func (p presenter) RunAction(t *mkcore.Trace, a *mkcore.Action) {
	if p.on(mkcore.TraceInfo | mkcore.TraceDebug) {
		pterm.Info.Printf("%s %s\n", pterm.Cyan(t.Step()), a)
	}
}

func (p presenter) ActionFailed(t *mkcore.Trace, a *mkcore.Action, err error) {
	switch {
	case p.log == 0:
	case a.IgnoreError:
		pterm.Warning.Printf("%s ignored: %s: %s\n", t.Step(), a, err)
	default:
		pterm.Error.Printf("%s: %s: %s\n", t.Step(), a, err)
	}
}

func (p presenter) Schedule(t *mkcore.Trace, a *mkcore.Action, why mkcore.Reason) {
	p.Debug(t, "schedule `action` for `step`: `reason`",
		"action", a,
		"step", t.Step(),
		"reason", why,
	)
}

func (p presenter) GoalReached(t *mkcore.Trace, ran int) {
	if p.on(mkcore.TraceInfo|mkcore.TraceDebug) && ran > 0 {
		pterm.Success.Printf("%s\n", t.Step())
	}
}

func (p presenter) RemoveArtefact(_ *mkcore.Trace, g *mkcore.Goal) {
	if p.log != 0 {
		pterm.Warning.Printf("remove %s\n", g.Name())
	}
}
