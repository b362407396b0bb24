package mkcore

import (
	"fmt"
	"reflect"
	"time"
)

// Artefact represents the tangible outcome of a [Goal] being reached. A special
// case is the [Abstract] artefact.
type Artefact interface {
	// Name returns the name of the artefact that must be unique in the Project.
	Name(in *Project) string

	// StateAt returns the time at which the artefact reached its current state.
	// If this cannot be provided, the zero Time is returned.
	StateAt(in *Project) time.Time
}

// RemovableArtefact is an artefact that can be removed by [Clean].
type RemovableArtefact interface {
	Artefact
	Exists(in *Project) (bool, error)
	Remove(in *Project) error
}

// Abstract artefacts only give a name to a goal. Their state time is always
// zero, i.e. abstract goals are never up-to-date.
type Abstract string

var _ Artefact = Abstract("")

func (a Abstract) Name(*Project) string { return string(a) }

func (a Abstract) StateAt(*Project) time.Time { return time.Time{} }

// A Goal is something you want to achieve in your [Project]. Each goal is
// associated with an [Artefact] that is considered available and up-to-date
// when the goal is reached.
//
// Goals are reached through actions ([Action]). A goal can be the result of
// several actions that are run in the order they were added, all of them if
// any is scheduled. A goal can also be the premise of actions. Such actions
// are not run before the goal is reached.
type Goal struct {
	Artefact Artefact
	// Removable allows [Clean] to remove the artefact.
	Removable bool

	prj       *Project
	idx       uint
	resultOf  []*Action
	premiseOf []*Action
}

func (g *Goal) Project() *Project { return g.prj }

func (g *Goal) Name() string { return g.Artefact.Name(g.Project()) }

// ResultOf returns the actions that result in this goal.
func (g *Goal) ResultOf() []*Action { return g.resultOf }

// PremiseOf returns the actions that depend on g.
func (g *Goal) PremiseOf() []*Action { return g.premiseOf }

func (g *Goal) IsAbstract() bool {
	_, ok := g.Artefact.(Abstract)
	return ok
}

func (g *Goal) String() string {
	tn := reflect.Indirect(reflect.ValueOf(g.Artefact)).Type().Name()
	return fmt.Sprintf("[%s]%s", g.Name(), tn)
}

// CheckPreTimes checks if g needs to be updated according to the state times
// of all of its premises. It returns the indices of the actions that are
// scheduled. tr is expected to be at g.
func (g *Goal) CheckPreTimes(tr *Trace) (chgs []int) {
	gaTS := g.Artefact.StateAt(g.Project())
	for actIdx, act := range g.ResultOf() {
		why, ok := NoState, gaTS.IsZero()
		if !ok && len(act.Premises()) == 0 {
			why, ok = NoPremises, true
		}
		for _, pre := range act.Premises() {
			if ok {
				break
			}
			preTS := pre.Artefact.StateAt(g.Project())
			why, ok = Outdated, preTS.IsZero() || gaTS.Before(preTS)
		}
		if ok {
			tr.tracer().Schedule(tr, act, why)
			chgs = append(chgs, actIdx)
		}
	}
	return chgs
}
