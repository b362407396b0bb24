package mkcore

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

type BuildID = uint64

// Project holds the goals and actions of a build. Relative paths of
// artefacts are relative to Dir.
type Project struct {
	Dir string

	sync.Mutex

	goals     map[string]*Goal
	order     []*Goal
	actions   []*Action
	lastBuild BuildID
}

func NewProject(dir string) *Project {
	if dir == "" {
		dir, _ = os.Getwd()
	}
	return &Project{
		Dir:   dir,
		goals: make(map[string]*Goal),
	}
}

// Goal returns the goal for artefact atf. If there is no goal for an artefact
// with the same name, a new goal is added to prj.
func (prj *Project) Goal(atf Artefact) (*Goal, error) {
	if atf == nil {
		return nil, fmt.Errorf("nil artefact for goal in project %s", prj)
	}
	name := atf.Name(prj)
	if g := prj.goals[name]; g != nil {
		return g, nil
	}
	g := &Goal{
		Artefact: atf,
		prj:      prj,
		idx:      uint(len(prj.order)),
	}
	prj.goals[name] = g
	prj.order = append(prj.order, g)
	return g, nil
}

// Goals appends all goals of prj to addTo in the order they were added.
func (prj *Project) Goals(addTo []*Goal) []*Goal {
	return append(addTo, prj.order...)
}

func (prj *Project) FindGoal(name string) *Goal {
	return prj.goals[name]
}

func (prj *Project) Actions() []*Action { return prj.actions }

func (prj *Project) Name(in *Project) string {
	if in == nil {
		return prj.String()
	}
	n, err := in.RelPath(prj.Dir)
	if err != nil {
		return prj.Dir
	}
	return n
}

func (prj *Project) String() string {
	tmp := prj.Dir
	if tmp == "" || tmp == "." {
		tmp, _ = filepath.Abs(tmp)
	}
	return filepath.Base(tmp)
}

// Build returns the ID of the last build of prj.
func (prj *Project) Build() BuildID { return prj.lastBuild }

// RelPath returns p relative to the project directory.
func (prj *Project) RelPath(p string) (string, error) {
	if !filepath.IsAbs(p) {
		return filepath.Clean(p), nil
	}
	dir, err := filepath.Abs(prj.Dir)
	if err != nil {
		return "", err
	}
	return filepath.Rel(dir, p)
}

// AbsPath returns the absolute path of p, relative paths are resolved against
// the project directory.
func (prj *Project) AbsPath(p string) (string, error) {
	if filepath.IsAbs(p) {
		return p, nil
	}
	dir, err := filepath.Abs(prj.Dir)
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, p), nil
}

// Leafs returns the goals that are not premise of any action.
func (prj *Project) Leafs() (ls []*Goal) {
	for _, g := range prj.order {
		if len(g.PremiseOf()) == 0 {
			ls = append(ls, g)
		}
	}
	return ls
}

// NewAction creates a new [Action] in project prj. There must be at least one
// result. All premises and results must belong to the same project prj.
func (prj *Project) NewAction(premises, results []*Goal, op Operation) (*Action, error) {
	if len(results) == 0 {
		desc := "implicit action"
		if op != nil {
			desc = op.Describe(nil, nil)
		}
		return nil, fmt.Errorf("creating action %s without result", desc)
	}
	if err := prj.consistentPrj(premises, results); err != nil {
		return nil, err
	}
	a := &Action{
		Op:       op,
		prj:      prj,
		idx:      uint(len(prj.actions)),
		premises: premises,
		results:  results,
	}
	for _, p := range premises {
		p.premiseOf = append(p.premiseOf, a)
	}
	for _, r := range results {
		r.resultOf = append(r.resultOf, a)
	}
	prj.actions = append(prj.actions, a)
	return a, nil
}

// LockBuild locks prj and starts a new build.
func (prj *Project) LockBuild() BuildID {
	prj.Lock()
	prj.lastBuild++
	return prj.lastBuild
}

func (prj *Project) consistentPrj(premises, results []*Goal) error {
	for _, g := range premises {
		if p := g.Project(); p != prj {
			return fmt.Errorf("premise '%s' not in project '%s'",
				g.Name(),
				prj.String(),
			)
		}
	}
	for _, g := range results {
		if p := g.Project(); p != prj {
			return fmt.Errorf("result '%s' not in project '%s'",
				g.Name(),
				prj.String(),
			)
		}
	}
	return nil
}
