package main

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"git.fractalqb.de/fractalqb/gsatkmk/mkcore"
	"git.fractalqb.de/fractalqb/gsatkmk/mkfs"
	"github.com/pterm/pterm"
)

func capturePterm(t *testing.T) *bytes.Buffer {
	var buf bytes.Buffer
	errW, warnW := pterm.Error.Writer, pterm.Warning.Writer
	pterm.Error.Writer, pterm.Warning.Writer = &buf, &buf
	t.Cleanup(func() { pterm.Error.Writer, pterm.Warning.Writer = errW, warnW })
	return &buf
}

func TestPresenter_ActionFailed(t *testing.T) {
	tr := mkcore.NewTrace(context.Background(), nil)
	act := &mkcore.Action{Op: mkfs.RmOp{Path: "out/build.tmp"}}
	fail := errors.New("exit status 1")

	off, err := newPresenter("off")
	if err != nil {
		t.Fatal(err)
	}
	buf := capturePterm(t)
	off.ActionFailed(tr, act, fail)
	act.IgnoreError = true
	off.ActionFailed(tr, act, fail)
	if buf.Len() > 0 {
		t.Errorf("output with trace off: %q", buf.String())
	}

	warn, err := newPresenter("warn")
	if err != nil {
		t.Fatal(err)
	}
	warn.ActionFailed(tr, act, fail)
	if !bytes.Contains(buf.Bytes(), []byte("exit status 1")) {
		t.Errorf("no failure reported: %q", buf.String())
	}
}
