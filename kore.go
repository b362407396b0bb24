package gsatkmk

import (
	"errors"
	"fmt"

	"git.fractalqb.de/fractalqb/gsatkmk/mkcore"
)

type (
	Env     = mkcore.Env
	Project = mkcore.Project
	Goal    = mkcore.Goal
	Action  = mkcore.Action

	Abstract = mkcore.Abstract
)

// Edit calls do with wrappers of [mkcore] types that allow easy editing of
// project definitions. Edit recovers from any panic and returns it as an error,
// so the idiomatic error handling within do can be skipped.
func Edit(prj *Project, do func(ProjectEd)) (err error) {
	prj.Lock()
	defer func() {
		prj.Unlock()
		if p := recover(); p != nil {
			err = panicErr(p)
		}
	}()
	do(ProjectEd{prj})
	return
}

func panicErr(p any) error {
	switch p := p.(type) {
	case error:
		return p
	case string:
		return errors.New(p)
	}
	return fmt.Errorf("panic: %+v", p)
}

// OpFunc wraps f into an [mkcore.Operation] described by desc.
func OpFunc(desc string, f func(*mkcore.Trace, *Action, *Env) error) mkcore.Operation {
	return funcOp{desc: desc, f: f}
}

type funcOp struct {
	desc string
	f    func(*mkcore.Trace, *Action, *Env) error
}

func (fo funcOp) Describe(*Action, *Env) string { return fo.desc }

func (fo funcOp) Do(tr *mkcore.Trace, a *Action, env *Env) error {
	env.Logger().Debug("call `function`", `function`, fo.desc)
	return fo.f(tr, a, env)
}

func mustRet[T any](v T, err error) T {
	if err != nil {
		panic(err)
	}
	return v
}
