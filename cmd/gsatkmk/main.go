// Command gsatkmk builds the gsatk library for one target and puts the
// target's prelude in front of the compiled module.
//
//	gsatkmk [flags] <language> <define>
//	gsatkmk [flags] CLEAN [<define>]
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"

	"git.fractalqb.de/fractalqb/gsatkmk"
	"git.fractalqb.de/fractalqb/gsatkmk/mkcore"
	"github.com/pterm/pterm"
	"github.com/spf13/pflag"
)

const cleanArg = "CLEAN"

type options struct {
	config   string
	trace    string
	logLevel string
	dot      bool
	dryrun   bool
	clean    bool
	plain    bool
}

func main() {
	cfg, opts, err := configure(os.Args[1:])
	switch {
	case errors.Is(err, pflag.ErrHelp):
		return
	case err != nil:
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := run(ctx, cfg, opts); err != nil {
		if opts.plain {
			fmt.Fprintln(os.Stderr, "gsatkmk:", err)
		} else {
			pterm.Error.Println(err)
		}
		stop()
		os.Exit(1)
	}
}

// configure applies defaults, config file, environment and flags in this
// order.
func configure(args []string) (cfg gsatkmk.Config, opts options, err error) {
	cfg = gsatkmk.DefaultConfig()
	var flagCfg gsatkmk.Config

	fs := pflag.NewFlagSet("gsatkmk", pflag.ContinueOnError)
	fs.StringVar(&opts.config, "config", "", "YAML configuration file")
	fs.StringVar(&flagCfg.Dir, "dir", cfg.Dir, "Project directory")
	fs.StringVarP(&flagCfg.OutDir, "out", "o", cfg.OutDir, "Output directory")
	fs.StringVar(&flagCfg.Host, "host", "", "Platform used to join paths (default: running platform)")
	fs.StringVar(&flagCfg.Compiler, "compiler", cfg.Compiler, "Compiler executable")
	fs.StringVar(&flagCfg.PreludeDir, "preludes", "", "Directory of the prelude files")
	fs.StringVar(&flagCfg.Prefix, "prefix", "", "Prefix for each line of compiler output")
	fs.StringSliceVar(&flagCfg.Defines, "defines", nil, "Extra compiler arguments appended to the command line")
	fs.BoolVar(&flagCfg.Lenient, "lenient", false, "Go on if the compiler fails")
	fs.StringVar(&opts.trace, "trace", "warn", "Trace level: off, warn, info, debug; log traces to the --log logger")
	fs.StringVar(&opts.logLevel, "log", "warn", "Log level of operations: debug, info, warn, error")
	fs.BoolVar(&opts.dot, "dot", false, "Write graphviz file of the pipeline to stdout and exit")
	fs.BoolVarP(&opts.dryrun, "dry-run", "n", false, "Only show what would be done")
	fs.BoolVar(&opts.clean, "clean", false, "Remove the output directory")
	fs.BoolVar(&opts.plain, "plain", false, "Plain trace output without styling")
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "USAGE:\n")
		fmt.Fprintf(os.Stderr, "  gsatkmk [flags] <language> <define>\n")
		fmt.Fprintf(os.Stderr, "  gsatkmk [flags] %s [<define>]\n\n", cleanArg)
		fmt.Fprintf(os.Stderr, "FLAGS:\n")
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nEXAMPLES:\n")
		fmt.Fprintf(os.Stderr, "  gsatkmk --python PY\n")
		fmt.Fprintf(os.Stderr, "  gsatkmk --js JS_BROWSER\n")
	}
	fs.SetInterspersed(false)
	if err = fs.Parse(splitPositional(args)); err != nil {
		return cfg, opts, err
	}

	if opts.config != "" {
		if err = gsatkmk.LoadConfigFile(opts.config, &cfg); err != nil {
			return cfg, opts, err
		}
	}
	if err = cfg.ApplyEnv(os.LookupEnv); err != nil {
		return cfg, opts, err
	}
	for name, apply := range map[string]func(){
		"dir":      func() { cfg.Dir = flagCfg.Dir },
		"out":      func() { cfg.OutDir = flagCfg.OutDir },
		"host":     func() { cfg.Host = flagCfg.Host },
		"compiler": func() { cfg.Compiler = flagCfg.Compiler },
		"preludes": func() { cfg.PreludeDir = flagCfg.PreludeDir },
		"prefix":   func() { cfg.Prefix = flagCfg.Prefix },
		"defines":  func() { cfg.Defines = flagCfg.Defines },
		"lenient":  func() { cfg.Lenient = flagCfg.Lenient },
	} {
		if fs.Changed(name) {
			apply()
		}
	}

	pos := fs.Args()
	switch {
	case opts.clean || (len(pos) > 0 && pos[0] == cleanArg):
		cfg.Mode = gsatkmk.ModeClean
	case len(pos) == 2:
		cfg.Language, cfg.Define = pos[0], pos[1]
	case len(pos) == 0 && cfg.Mode == gsatkmk.ModeClean:
	case len(pos) == 0 && (cfg.Language != "" || cfg.Define != ""):
	default:
		fs.Usage()
		return cfg, opts, fmt.Errorf("need <language> <define> or %s, have %d arguments", cleanArg, len(pos))
	}
	return cfg, opts, nil
}

// splitPositional puts "--" in front of the first argument that is not a known
// flag. The language switch looks like a flag, e.g. --python.
func splitPositional(args []string) []string {
	known := map[string]bool{
		"--config": true, "--dir": true, "--out": true, "-o": true,
		"--host": true, "--compiler": true, "--preludes": true,
		"--prefix": true, "--defines": true, "--trace": true, "--log": true,
	}
	for i := 0; i < len(args); i++ {
		a := args[i]
		switch {
		case a == "--":
			return args
		case known[a]:
			i++
		case isBoolFlag(a) || isAssigned(a, known) || isAttached(a):
		default:
			res := make([]string, 0, len(args)+1)
			res = append(res, args[:i]...)
			res = append(res, "--")
			return append(res, args[i:]...)
		}
	}
	return args
}

func isBoolFlag(a string) bool {
	switch a {
	case "--dot", "-n", "--dry-run", "--clean", "--plain", "--lenient", "-h", "--help":
		return true
	}
	return false
}

func isAssigned(a string, known map[string]bool) bool {
	for k := range known {
		if len(a) > len(k) && a[:len(k)] == k && a[len(k)] == '=' {
			return true
		}
	}
	return false
}

// isAttached reports shorthand flags with attached value, e.g. -odist.
func isAttached(a string) bool {
	return len(a) > 2 && a[:2] == "-o"
}

// newTracer selects the tracer for the --trace and --plain flags.
func newTracer(opts options, log *slog.Logger) (mkcore.Tracer, error) {
	switch {
	case opts.trace == "log":
		return mkcore.LogTracer{Log: log}, nil
	case opts.plain:
		wt := &gsatkmk.WriteTracer{W: os.Stderr}
		if err := wt.ParseLogFlag(opts.trace); err != nil {
			return nil, err
		}
		return wt, nil
	}
	return newPresenter(opts.trace)
}

func run(ctx context.Context, cfg gsatkmk.Config, opts options) error {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(opts.logLevel)); err != nil {
		return err
	}
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
	slog.SetDefault(log)

	tracer, err := newTracer(opts, log)
	if err != nil {
		return err
	}

	pl, err := gsatkmk.NewPipeline(cfg, tracer)
	if err != nil {
		return err
	}
	pl.Env.Log = log

	switch {
	case opts.dot:
		dia := gsatkmk.Diagrammer{RankDir: "LR"}
		return dia.WriteDot(os.Stdout, pl.Project())
	case opts.dryrun && cfg.Mode == gsatkmk.ModeClean:
		return pl.Clean(ctx, true)
	case opts.dryrun:
		for _, a := range pl.Project().Actions() {
			fmt.Println(a)
		}
		fmt.Println(pl.Compiler.CommandLine())
		return nil
	}

	res, err := pl.Run(ctx)
	if err != nil {
		var serr *gsatkmk.StepError
		if errors.As(err, &serr) {
			log.Error("pipeline failed",
				slog.String("step", serr.State.String()),
				slog.String("run", res.RunID.String()),
			)
		}
		return err
	}
	if cfg.Mode == gsatkmk.ModeClean {
		report(opts, "cleaned %s", pl.Layout.OutDir)
	} else {
		report(opts, "built %s in %s", res.Artifact, res.Took)
	}
	return nil
}

func report(opts options, format string, args ...any) {
	if opts.plain {
		fmt.Printf(format+"\n", args...)
	} else {
		pterm.Success.Printf(format+"\n", args...)
	}
}
