package mkfs

import (
	"fmt"
	"log/slog"
	"path/filepath"

	"git.fractalqb.de/fractalqb/gsatkmk/mkcore"
)

// MkDirOp is a best-effort [mkcore.Operation] that creates directory Dir with
// [MkDir]. It never fails but warns if the directory does not exist
// afterwards.
type MkDirOp struct {
	Dir string
}

var _ mkcore.Operation = MkDirOp{}

func (op MkDirOp) Describe(*mkcore.Action, *mkcore.Env) string {
	return "mkdir " + op.Dir
}

func (op MkDirOp) Do(tr *mkcore.Trace, a *mkcore.Action, _ *mkcore.Env) error {
	path, err := a.Project().AbsPath(op.Dir)
	if err != nil {
		tr.Warn("mkdir: cannot resolve `directory`: `error`", `directory`, op.Dir, `error`, err)
		return nil
	}
	tr.Debug("create `directory`", `directory`, path)
	if !MkDir(path) {
		tr.Warn("could not create `directory`", `directory`, path)
	}
	return nil
}

// RmOp is a best-effort [mkcore.Operation] that removes Path with [Remove]. It
// never fails but warns if Path is still present afterwards.
type RmOp struct {
	Path string
}

var _ mkcore.Operation = RmOp{}

func (op RmOp) Describe(*mkcore.Action, *mkcore.Env) string {
	return "rm " + op.Path
}

func (op RmOp) Do(tr *mkcore.Trace, a *mkcore.Action, _ *mkcore.Env) error {
	path, err := a.Project().AbsPath(op.Path)
	if err != nil {
		tr.Warn("rm: cannot resolve `path`: `error`", `path`, op.Path, `error`, err)
		return nil
	}
	tr.Debug("remove `path`", `path`, path)
	if !Remove(path) {
		tr.Warn("could not remove `path`", `path`, path)
	}
	return nil
}

// MvOp is an [mkcore.Operation] that moves Src to Dst with [Move].
type MvOp struct {
	Src, Dst string
}

var _ mkcore.Operation = MvOp{}

func (op MvOp) Describe(*mkcore.Action, *mkcore.Env) string {
	return fmt.Sprintf("mv %s %s", op.Src, op.Dst)
}

func (op MvOp) Do(tr *mkcore.Trace, a *mkcore.Action, env *mkcore.Env) error {
	src, dst, err := absPaths(a.Project(), op.Src, op.Dst)
	if err != nil {
		return err
	}
	tr.Debug("move `src` -> `dst`",
		slog.String(`src`, src),
		slog.String(`dst`, dst),
	)
	if err = Move(src, dst); err != nil {
		env.Logger().Error("move failed",
			slog.String("src", src),
			slog.String("dst", dst),
			slog.String("error", err.Error()),
		)
	}
	return err
}

// CatOp is an [mkcore.Operation] that copies Src to Dst with [Concat]. With
// Append, Src is appended to Dst, otherwise Dst is overwritten.
type CatOp struct {
	Src, Dst string
	Append   bool
}

var _ mkcore.Operation = CatOp{}

func (op CatOp) Describe(*mkcore.Action, *mkcore.Env) string {
	if op.Append {
		return fmt.Sprintf("cat %s >> %s", op.Src, op.Dst)
	}
	return fmt.Sprintf("cat %s > %s", op.Src, op.Dst)
}

func (op CatOp) Do(tr *mkcore.Trace, a *mkcore.Action, env *mkcore.Env) error {
	src, dst, err := absPaths(a.Project(), op.Src, op.Dst)
	if err != nil {
		return err
	}
	tr.Debug("concat `src` -> `dst` `append`",
		slog.String(`src`, src),
		slog.String(`dst`, dst),
		slog.Bool(`append`, op.Append),
	)
	if err = Concat(src, dst, op.Append); err != nil {
		env.Logger().Error("concat failed",
			slog.String("src", src),
			slog.String("dst", dst),
			slog.String("error", err.Error()),
		)
	}
	return err
}

func absPaths(prj *mkcore.Project, src, dst string) (string, string, error) {
	s, err := prj.AbsPath(src)
	if err != nil {
		return "", "", err
	}
	d, err := prj.AbsPath(dst)
	if err != nil {
		return "", "", err
	}
	return filepath.Clean(s), filepath.Clean(d), nil
}
