package mkcore

import (
	"errors"
	"fmt"
	"time"

	"github.com/bits-and-blooms/bitset"
)

// Builder brings goals up-to-date by running the actions they are the result
// of, premises first. Each action is run at most once per build. A Builder
// must not be used concurrently.
type Builder struct {
	trace *Trace
	env   *Env
	bid   BuildID

	reached  *bitset.BitSet
	visiting *bitset.BitSet
	ran      *bitset.BitSet
}

func NewBuilder(tr *Trace, env *Env) (*Builder, error) {
	if tr == nil {
		return nil, errors.New("no trace for new builder")
	}
	return &Builder{trace: tr, env: env}, nil
}

func (bd *Builder) Trace() *Trace { return bd.trace }

// Env returns the environment actions are run with. It is nil until the first
// build when no env was passed to [NewBuilder].
func (bd *Builder) Env() *Env { return bd.env }

// Project builds all leafs of prj.
func (bd *Builder) Project(prj *Project) error {
	bd.start(prj)
	defer prj.Unlock()
	return bd.buildPrj(bd.trace, prj, prj.Leafs())
}

// Goals builds the goals gs that all must belong to the same project.
func (bd *Builder) Goals(gs ...*Goal) error {
	if len(gs) == 0 {
		return nil
	}
	prj := gs[0].Project()
	for _, g := range gs[1:] {
		if p := g.Project(); p != prj {
			return fmt.Errorf("goal %s not in project '%s'", g, prj)
		}
	}
	bd.start(prj)
	defer prj.Unlock()
	return bd.buildPrj(bd.trace, prj, gs)
}

// Reached reports if g was reached in the last build.
func (bd *Builder) Reached(g *Goal) bool {
	return bd.reached != nil && bd.reached.Test(g.idx)
}

// Ran reports if a was run in the last build.
func (bd *Builder) Ran(a *Action) bool {
	return bd.ran != nil && bd.ran.Test(a.idx)
}

func (bd *Builder) start(prj *Project) {
	bd.bid = prj.LockBuild()
	if bd.env == nil {
		bd.env = DefaultEnv()
	}
	bd.reached = bitset.New(uint(len(prj.order)))
	bd.visiting = bitset.New(uint(len(prj.order)))
	bd.ran = bitset.New(uint(len(prj.actions)))
}

func (bd *Builder) buildPrj(tr *Trace, prj *Project, gs []*Goal) error {
	start := time.Now()
	tr.startProject(prj, "building")
	for _, g := range gs {
		if err := bd.buildGoal(tr, g); err != nil {
			return err
		}
	}
	tr.tracer().DoneProject(tr, prj, "building", time.Since(start))
	return nil
}

func (bd *Builder) buildGoal(tr *Trace, g *Goal) error {
	if bd.reached.Test(g.idx) {
		return nil
	}
	if bd.visiting.Test(g.idx) {
		return fmt.Errorf("goal %s depends on itself", g)
	}
	bd.visiting.Set(g.idx)
	defer bd.visiting.Clear(g.idx)

	gtr := tr.enter(g)
	for _, act := range g.ResultOf() {
		for _, pre := range act.Premises() {
			if err := bd.buildGoal(gtr, pre); err != nil {
				return err
			}
		}
	}
	ran, err := bd.updateGoal(gtr, g)
	if err != nil {
		return err
	}
	bd.reached.Set(g.idx)
	gtr.tracer().GoalReached(gtr, ran)
	return nil
}

// updateGoal runs all actions of g in order if any of them is scheduled.
func (bd *Builder) updateGoal(tr *Trace, g *Goal) (ran int, err error) {
	if len(g.ResultOf()) == 0 || len(g.CheckPreTimes(tr)) == 0 {
		return 0, nil
	}
	for _, act := range g.ResultOf() {
		if bd.ran.Test(act.idx) {
			continue
		}
		if err := bd.run(tr, act); err != nil {
			return ran, err
		}
		ran++
	}
	return ran, nil
}

func (bd *Builder) run(tr *Trace, a *Action) error {
	if err := tr.Ctx().Err(); err != nil {
		return err
	}
	bd.ran.Set(a.idx)
	err := a.Run(tr, bd.env)
	if err == nil {
		return nil
	}
	tr.tracer().ActionFailed(tr, a, err)
	if a.IgnoreError {
		return nil
	}
	return err
}
