package mkfs

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"git.fractalqb.de/fractalqb/gsatkmk/mkcore"
	"git.fractalqb.de/fractalqb/testerr"
)

type testLog struct{ t *testing.T }

func (w testLog) Write(p []byte) (int, error) {
	w.t.Log(string(p))
	return len(p), nil
}

func testBuilder(t *testing.T) *mkcore.Builder {
	log := slog.New(slog.NewTextHandler(testLog{t}, &slog.HandlerOptions{Level: slog.LevelDebug}))
	tr := mkcore.NewTrace(context.Background(), mkcore.LogTracer{Log: log})
	return testerr.Shall1(mkcore.NewBuilder(tr, &mkcore.Env{Log: log})).BeNil(t)
}

func TestOps_chain(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "prelude"), "PRE\n")

	prj := mkcore.NewProject(dir)
	out := testerr.Shall1(prj.Goal(Directory("out"))).BeNil(t)
	res := testerr.Shall1(prj.Goal(mkcore.Abstract("result"))).BeNil(t)
	testerr.Shall1(prj.NewAction(nil, []*mkcore.Goal{out}, MkDirOp{Dir: "out"})).BeNil(t)
	for _, op := range []mkcore.Operation{
		RmOp{Path: "out/missing"},
		CatOp{Src: "prelude", Dst: "out/a"},
		MvOp{Src: "out/a", Dst: "out/b"},
		CatOp{Src: "prelude", Dst: "out/b", Append: true},
	} {
		testerr.Shall1(prj.NewAction([]*mkcore.Goal{out}, []*mkcore.Goal{res}, op)).BeNil(t)
	}

	testerr.Shall(testBuilder(t).Project(prj)).BeNil(t)
	if s := readFile(t, filepath.Join(dir, "out", "b")); s != "PRE\nPRE\n" {
		t.Errorf("result '%s'", s)
	}
	if _, err := os.Stat(filepath.Join(dir, "out", "a")); !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("moved file still present: %v", err)
	}
}

func TestCatOp_missing(t *testing.T) {
	dir := t.TempDir()
	prj := mkcore.NewProject(dir)
	res := testerr.Shall1(prj.Goal(File("out"))).BeNil(t)
	testerr.Shall1(prj.NewAction(nil, []*mkcore.Goal{res}, CatOp{Src: "nope", Dst: "out"})).BeNil(t)
	err := testBuilder(t).Project(prj)
	if !errors.Is(err, fs.ErrNotExist) {
		t.Fatalf("unexpected error %v", err)
	}
}

func TestDirectory_Remove(t *testing.T) {
	dir := t.TempDir()
	prj := mkcore.NewProject(dir)
	out := Directory("out")
	testerr.Shall(os.MkdirAll(filepath.Join(dir, "out", "sub"), 0777)).BeNil(t)
	if ok := testerr.Shall1(out.Exists(prj)).BeNil(t); !ok {
		t.Fatal("directory does not exist")
	}
	if out.StateAt(prj).IsZero() {
		t.Error("no state time for existing directory")
	}
	testerr.Shall(out.Remove(prj)).BeNil(t)
	if ok := testerr.Shall1(out.Exists(prj)).BeNil(t); ok {
		t.Error("directory still exists")
	}
	if n := out.Name(prj); n != "out" {
		t.Errorf("name '%s'", n)
	}
}

func TestFile_StateAt(t *testing.T) {
	dir := t.TempDir()
	prj := mkcore.NewProject(dir)
	f := File(filepath.Join(dir, "f.txt"))
	if !f.StateAt(prj).IsZero() {
		t.Error("state time for missing file")
	}
	writeFile(t, f.Path(), "x")
	if f.StateAt(prj).IsZero() {
		t.Error("no state time for file")
	}
	if n := f.Name(prj); n != "f.txt" {
		t.Errorf("name '%s'", n)
	}
	if Directory(dir).StateAt(prj).IsZero() {
		t.Error("no state time for project dir")
	}
}
