package gsatkmk

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"git.fractalqb.de/fractalqb/gsatkmk/mkcore"
	"git.fractalqb.de/fractalqb/gsatkmk/mkfs"
	"git.fractalqb.de/fractalqb/gsatkmk/platform"
	"github.com/google/uuid"
)

// State is a step of the assembly pipeline. A build passes the states from
// StatePrepared to StateDone in order. StateCleaned is only reached in clean
// mode.
type State int

const (
	StateInit State = iota
	StatePrepared
	StateCompiled
	StateRelocated
	StateAssembled
	StateDone
	StateCleaned
)

var stateNames = [...]string{
	"init",
	"prepared",
	"compiled",
	"relocated",
	"assembled",
	"done",
	"cleaned",
}

func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return fmt.Sprintf("state(%d)", int(s))
	}
	return stateNames[s]
}

// StepError reports the step that broke a run. State is the state the step
// should have reached.
type StepError struct {
	State State
	Err   error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("step '%s' failed: %s", e.State, e.Err)
}

func (e *StepError) Unwrap() error { return e.Err }

// Layout holds the paths a build uses, joined for the pipeline's platform and
// relative to the project directory. The compiler writes Intermediate that is
// moved to Temp before the Prelude is written to Final.
type Layout struct {
	OutDir       string
	Intermediate string
	Temp         string
	Final        string
	Prelude      string
}

func newLayout(fam platform.Family, cfg *Config, spec ArtifactSpec) (l Layout) {
	out := platform.Path{cfg.OutDir}
	l.OutDir = out.In(fam)
	l.Temp = out.Append(cfg.TmpName).In(fam)
	if spec.Suffix == "" {
		return l
	}
	l.Intermediate = out.Append(spec.FileName()).In(fam)
	l.Final = l.Intermediate
	if cfg.PreludeDir == "" {
		l.Prelude = spec.Prelude
	} else {
		l.Prelude = platform.Path{cfg.PreludeDir, spec.Prelude}.In(fam)
	}
	return l
}

type Result struct {
	// State is the last state reached, also if the run failed.
	State State
	// Artifact is the absolute path of the final artifact after a successful
	// build.
	Artifact string
	RunID    uuid.UUID
	Took     time.Duration
}

// Pipeline compiles a module and puts the prelude of its target in front of
// it. The steps are goals of an [mkcore.Project] that are reached one after
// the other.
type Pipeline struct {
	Config Config
	Spec   ArtifactSpec
	Layout Layout
	Family platform.Family
	// Env is cloned for each run. Its tags are the compiler's environment.
	Env *mkcore.Env
	// Compiler is the operation of the compile step. It is nil in clean mode
	// and may be modified before Run.
	Compiler *CompileOp

	tracer mkcore.Tracer
	prj    *mkcore.Project
	states [StateDone + 1]*mkcore.Goal
}

// NewPipeline resolves the platform and, in build mode, the target of cfg.
// Nothing is touched in the filesystem before [Pipeline.Run]. If tracer is
// nil, [DefaultTracer] is used.
func NewPipeline(cfg Config, tracer mkcore.Tracer) (*Pipeline, error) {
	fam, err := hostFamily(cfg.Host)
	if err != nil {
		return nil, err
	}
	if tracer == nil {
		tracer = DefaultTracer()
	}
	p := &Pipeline{
		Config: cfg,
		Family: fam,
		Env:    mkcore.DefaultEnv(),
		tracer: tracer,
	}
	p.Env.SetTags(cfg.Env...)
	if cfg.Mode == ModeBuild {
		p.Spec, err = cfg.targets().Resolve(cfg.BaseName, cfg.Language, cfg.Define)
		if err != nil {
			return nil, err
		}
	}
	p.Layout = newLayout(fam, &p.Config, p.Spec)
	p.prj = mkcore.NewProject(cfg.Dir)
	if err := Edit(p.prj, p.define); err != nil {
		return nil, fmt.Errorf("define pipeline: %w", err)
	}
	return p, nil
}

func hostFamily(host string) (platform.Family, error) {
	if host == "" {
		return platform.Host()
	}
	return platform.Resolve(host)
}

func (p *Pipeline) define(prj ProjectEd) {
	lay := &p.Layout
	out := prj.Goal(mkfs.Directory(lay.OutDir)).SetRemovable(true)
	out.By(mkfs.MkDirOp{Dir: lay.OutDir})
	if p.Config.Mode == ModeClean {
		return
	}

	p.Compiler = &CompileOp{
		Exe:      p.Config.Compiler,
		Language: p.Config.Language,
		Out:      lay.Intermediate,
		Sources:  p.Config.Sources,
		Package:  p.Config.Package,
		Define:   p.Config.Define,
		Defines:  p.Config.Defines,
		Prefix:   p.Config.Prefix,
	}
	state := func(s State) GoalEd {
		g := prj.Goal(Abstract(s.String()))
		p.states[s] = g.Goal()
		return g
	}

	prepared := state(StatePrepared)
	prepared.By(mkfs.RmOp{Path: lay.Temp}, out)
	// The compiler's output is checked after compiling. Output of an earlier
	// run must not pass for it.
	prepared.By(mkfs.RmOp{Path: lay.Intermediate}, out)
	for _, stale := range p.Config.Stale {
		rm := platform.Path{p.Config.OutDir, stale}.In(p.Family)
		prepared.By(mkfs.RmOp{Path: rm}, out)
	}

	compiled := state(StateCompiled)
	compiled.By(p.Compiler, prepared).SetIgnoreError(p.Config.Lenient)

	relocated := state(StateRelocated)
	relocated.By(mkfs.MvOp{Src: lay.Intermediate, Dst: lay.Temp}, compiled)

	assembled := state(StateAssembled)
	assembled.By(mkfs.CatOp{Src: lay.Prelude, Dst: lay.Final}, relocated)

	done := state(StateDone)
	done.By(mkfs.CatOp{Src: lay.Temp, Dst: lay.Final, Append: true}, assembled)
	done.By(mkfs.RmOp{Path: lay.Temp}, assembled)
	done.By(OpFunc("check "+lay.Final, p.checkArtifact), assembled)
}

func (p *Pipeline) checkArtifact(tr *mkcore.Trace, a *Action, _ *Env) error {
	st, err := mkfs.Stat(mkfs.File(p.Layout.Final), a.Project())
	if err != nil {
		return err
	}
	if tmp, _ := mkfs.File(p.Layout.Temp).Exists(a.Project()); tmp {
		tr.Warn("temporary `file` left over", `file`, p.Layout.Temp)
	}
	tr.Info("built `artifact` with `size` bytes", `artifact`, p.Layout.Final, `size`, st.Size())
	return nil
}

// Project returns the project that defines the pipeline's steps.
func (p *Pipeline) Project() *mkcore.Project { return p.prj }

// Run builds the final artifact or, in clean mode, removes the output
// directory. A failing step is reported as [*StepError]. Run can be called
// again to rebuild.
func (p *Pipeline) Run(ctx context.Context) (res Result, err error) {
	start := time.Now()
	res.RunID = uuid.New()
	defer func() { res.Took = time.Since(start) }()

	tr := mkcore.NewRunTrace(ctx, runLabel(res.RunID), p.tracer)
	if p.Config.Mode == ModeClean {
		if err = mkcore.Clean(p.prj, false, tr); err != nil {
			return res, &StepError{State: StateCleaned, Err: err}
		}
		res.State = StateCleaned
		return res, nil
	}

	env := p.Env.Clone()
	env.Log = env.Logger().With(slog.String("run", res.RunID.String()))
	tr.Info("building `artifact` for `target` in `run`",
		`artifact`, p.Spec.FileName(),
		`target`, p.Spec.Target,
		`run`, res.RunID.String(),
	)
	bd, err := mkcore.NewBuilder(tr, env)
	if err != nil {
		return res, err
	}
	err = bd.Goals(p.states[StateDone])
	res.State = p.lastReached(bd)
	if err != nil {
		return res, &StepError{State: res.State + 1, Err: err}
	}
	if res.Artifact, err = p.prj.AbsPath(p.Layout.Final); err != nil {
		return res, err
	}
	return res, nil
}

// runLabel is the first group of the run ID.
func runLabel(id uuid.UUID) string { return id.String()[:8] }

func (p *Pipeline) lastReached(bd *mkcore.Builder) State {
	s := StateInit
	for st := StatePrepared; st <= StateDone; st++ {
		if !bd.Reached(p.states[st]) {
			break
		}
		s = st
	}
	return s
}

// Clean removes the output directory. With dryrun, it is only reported to the
// trace. Clean works in either mode.
func (p *Pipeline) Clean(ctx context.Context, dryrun bool) error {
	return mkcore.Clean(p.prj, dryrun, mkcore.NewTrace(ctx, p.tracer))
}
