package gsatkmk

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"git.fractalqb.de/fractalqb/gsatkmk/mkcore"
)

var (
	ErrCompileFailed = errors.New("compilation failed")
	ErrNoOutput      = errors.New("compiler left no output")
)

// CompileError is returned by [CompileOp] if the compiler could not be run,
// exited with non-zero status or did not write its output. It matches
// [ErrCompileFailed].
type CompileError struct {
	Cmd string
	// ExitCode is -1 if the compiler did not exit normally.
	ExitCode int
	Err      error
}

func (e *CompileError) Error() string {
	if e.ExitCode > 0 {
		return fmt.Sprintf("%s with exit code %d: %s", ErrCompileFailed, e.ExitCode, e.Cmd)
	}
	return fmt.Sprintf("%s: %s: %s", ErrCompileFailed, e.Cmd, e.Err)
}

func (e *CompileError) Unwrap() error { return e.Err }

func (*CompileError) Is(target error) bool { return target == ErrCompileFailed }

// CompileOp runs the compiler once to write the module Out. The command line
// is
//
//	Exe Language Out -cp Sources[0] … Package -D Define Defines…
//
// Relative paths are relative to CWD, or to the project directory if CWD is
// empty.
type CompileOp struct {
	Exe      string
	Language string
	Out      string
	Sources  []string
	Package  string
	Define   string
	Defines  []string
	CWD      string
	// Prefix is written in front of every output line of the compiler.
	Prefix string
}

var _ mkcore.Operation = (*CompileOp)(nil)

func (op *CompileOp) Args() []string {
	args := make([]string, 0, 5+2*len(op.Sources)+len(op.Defines))
	args = append(args, op.Language, op.Out)
	for _, src := range op.Sources {
		args = append(args, "-cp", src)
	}
	args = append(args, op.Package, "-D", op.Define)
	return append(args, op.Defines...)
}

func (op *CompileOp) CommandLine() string {
	return strings.Join(append([]string{op.Exe}, op.Args()...), " ")
}

func (op *CompileOp) Describe(*mkcore.Action, *mkcore.Env) string {
	return fmt.Sprintf("%s %s -> %s", filepath.Base(op.Exe), op.Language, op.Out)
}

func (op *CompileOp) Do(tr *mkcore.Trace, a *mkcore.Action, env *mkcore.Env) error {
	log := env.Logger()
	dir := op.CWD
	if dir == "" && a != nil {
		dir = a.Project().Dir
	}
	xenv, err := env.ExecEnv()
	if err != nil {
		log.Warn(err.Error(), slog.String("action", a.String()))
	}
	cmd := exec.CommandContext(tr.Ctx(), op.Exe, op.Args()...)
	cmd.Dir = dir
	cmd.Env = xenv
	cmd.Stdin = env.In
	cmd.Stdout, cmd.Stderr = env.Out, env.Err
	if op.Prefix != "" {
		cmd.Stdout = prefixed(env.Out, op.Prefix)
		if env.Err == env.Out {
			cmd.Stderr = cmd.Stdout
		} else {
			cmd.Stderr = prefixed(env.Err, op.Prefix)
		}
	}

	cmdline := op.CommandLine()
	if env.Out != nil {
		fmt.Fprintln(env.Out, cmdline)
	}
	log.Debug("exec `cmd` in `dir`",
		slog.String("cmd", cmdline),
		slog.String("dir", cmd.Dir),
	)
	if err = cmd.Run(); err != nil {
		log.Error("failed `cmd` in `dir` with `error`",
			slog.String("cmd", cmdline),
			slog.String("dir", cmd.Dir),
			slog.String("error", err.Error()),
		)
		cerr := &CompileError{Cmd: cmdline, ExitCode: -1, Err: err}
		var xerr *exec.ExitError
		if errors.As(err, &xerr) {
			cerr.ExitCode = xerr.ExitCode()
		}
		return cerr
	}

	out := op.Out
	if !filepath.IsAbs(out) {
		out = filepath.Join(dir, out)
	}
	if _, err := os.Stat(out); err != nil {
		tr.Warn("compiler did not write `output`", `output`, out)
		return &CompileError{
			Cmd: cmdline,
			Err: fmt.Errorf("%w: %s", ErrNoOutput, op.Out),
		}
	}
	return nil
}

func prefixed(w io.Writer, prefix string) io.Writer {
	if w == nil {
		return nil
	}
	return newPrefixWriterString(w, prefix)
}
