package gsatkmk

import (
	"git.fractalqb.de/fractalqb/gsatkmk/mkcore"
)

// ProjectEd is used with [Edit].
type ProjectEd struct{ p *Project }

func (ed ProjectEd) Project() *Project { return ed.p }

func (ed ProjectEd) Dir() string { return ed.p.Dir }

func (ed ProjectEd) Goal(atf mkcore.Artefact) GoalEd {
	return GoalEd{mustRet(ed.p.Goal(atf))}
}

func (ed ProjectEd) NewAction(premises, results []GoalEd, op mkcore.Operation) ActionEd {
	return ActionEd{mustRet(ed.p.NewAction(goals(premises), goals(results), op))}
}

// GoalEd is used with [Edit].
type GoalEd struct{ g *Goal }

func (ed GoalEd) Goal() *Goal { return ed.g }

func (ed GoalEd) Project() ProjectEd { return ProjectEd{ed.g.Project()} }

func (ed GoalEd) SetRemovable(r bool) GoalEd {
	ed.g.Removable = r
	return ed
}

// By adds an action with op that has ed as its only result.
func (result GoalEd) By(op mkcore.Operation, premises ...GoalEd) ActionEd {
	prj := result.Project()
	return prj.NewAction(premises, []GoalEd{result}, op)
}

func goals(gs []GoalEd) []*Goal {
	if len(gs) == 0 {
		return nil
	}
	gls := make([]*Goal, len(gs))
	for i, g := range gs {
		gls[i] = g.g
	}
	return gls
}

// ActionEd is used with [Edit].
type ActionEd struct{ a *Action }

func (ed ActionEd) Action() *Action { return ed.a }

func (ed ActionEd) SetIgnoreError(ignore bool) ActionEd {
	ed.a.IgnoreError = ignore
	return ed
}
