package mkfs

import (
	"errors"
	"io/fs"
	"os"
	"time"

	"git.fractalqb.de/fractalqb/gsatkmk/mkcore"
)

// Artefact is an [mkcore.Artefact] in the OS's filesystem. Relative paths are
// relative to the project directory.
type Artefact interface {
	mkcore.RemovableArtefact
	Path() string
}

var (
	_ Artefact = File("")
	_ Artefact = Directory("")
)

func Stat(a Artefact, in *mkcore.Project) (fs.FileInfo, error) {
	p, err := in.AbsPath(a.Path())
	if err != nil {
		return nil, err
	}
	return os.Stat(p)
}

func exists(a Artefact, in *mkcore.Project) (bool, error) {
	_, err := Stat(a, in)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func remove(a Artefact, in *mkcore.Project) error {
	p, err := in.AbsPath(a.Path())
	if err != nil {
		return err
	}
	if !Remove(p) {
		return &fs.PathError{Op: "remove", Path: p, Err: fs.ErrExist}
	}
	return nil
}

func name(a Artefact, in *mkcore.Project) string {
	n, err := in.RelPath(a.Path())
	if err != nil {
		return a.Path()
	}
	return n
}

// File is a regular file.
type File string

func (f File) Path() string { return string(f) }

func (f File) Name(in *mkcore.Project) string { return name(f, in) }

func (f File) StateAt(in *mkcore.Project) time.Time {
	st, err := Stat(f, in)
	if err != nil || st.IsDir() {
		return time.Time{}
	}
	return st.ModTime()
}

func (f File) Exists(in *mkcore.Project) (bool, error) { return exists(f, in) }

func (f File) Remove(in *mkcore.Project) error { return remove(f, in) }

// Directory is a directory with all its content.
type Directory string

func (d Directory) Path() string { return string(d) }

func (d Directory) Name(in *mkcore.Project) string { return name(d, in) }

func (d Directory) StateAt(in *mkcore.Project) time.Time {
	st, err := Stat(d, in)
	if err != nil || !st.IsDir() {
		return time.Time{}
	}
	return st.ModTime()
}

func (d Directory) Exists(in *mkcore.Project) (bool, error) { return exists(d, in) }

// Remove removes d with all its content.
func (d Directory) Remove(in *mkcore.Project) error { return remove(d, in) }
