package mkcore

// An Action is something you can do in your [Project] to reach at least one
// [Goal]. The actual implementation of the action is an [Operation]. An action
// without an operation is an "implicit" action, i.e. if all its premises are
// reached, all results of the action are implicitly given.
type Action struct {
	Op Operation

	// IgnoreError marks best-effort actions. An error of such an action is
	// reported to the trace and the build goes on.
	IgnoreError bool

	prj      *Project
	idx      uint
	premises []*Goal
	results  []*Goal
}

func (a *Action) Project() *Project { return a.prj }

func (a *Action) Premises() []*Goal { return a.premises }

func (a *Action) Premise(i int) *Goal { return a.premises[i] }

func (a *Action) Results() []*Goal { return a.results }

func (a *Action) Result(i int) *Goal { return a.results[i] }

// Run runs the action's operation with env. If env is nil, [DefaultEnv] is
// used.
func (a *Action) Run(tr *Trace, env *Env) error {
	if a.Op == nil {
		tr.Debug("implicit action for `step`", `step`, tr.Step())
		return nil
	}
	if env == nil {
		env = DefaultEnv()
	}
	tr.tracer().RunAction(tr, a)
	return a.Op.Do(tr, a, env)
}

func (a *Action) String() string {
	switch {
	case a == nil:
		return "<nil:Action>"
	case a.Op == nil:
		return "implicit:" + a.Project().Name(nil)
	}
	return a.Op.Describe(a, nil)
}

type Operation interface {
	// The hints are optional
	Describe(actionHint *Action, envHint *Env) string
	Do(tr *Trace, a *Action, env *Env) error
}
