package mkfs

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
)

// DirMode is the permission used by [MkDir] before umask.
const DirMode fs.FileMode = 0777

// MkDir creates the directory path including missing parents. It is a
// best-effort operation: any error is swallowed and MkDir only reports if the
// directory exists afterwards.
func MkDir(path string) bool {
	_ = os.MkdirAll(path, DirMode)
	st, err := os.Stat(path)
	return err == nil && st.IsDir()
}

// Remove removes path, be it a directory tree or a single file. It is a
// best-effort operation: errors are swallowed and a path that does not exist
// counts as removed. Remove reports if path is absent afterwards.
func Remove(path string) bool {
	_ = os.RemoveAll(path)
	if absent(path) {
		return true
	}
	_ = os.Remove(path)
	return absent(path)
}

func absent(path string) bool {
	_, err := os.Lstat(path)
	return errors.Is(err, fs.ErrNotExist)
}

// Move removes dst with [Remove] and then renames src to dst. The two steps
// are not atomic, i.e. if rename fails, dst is gone anyway.
func Move(src, dst string) error {
	Remove(dst)
	if err := os.Rename(src, dst); err != nil {
		return fmt.Errorf("move %s to %s: %w", src, dst, err)
	}
	return nil
}

// Concat copies all bytes of src to dst. If appending, the bytes are appended
// to dst, otherwise dst is truncated first. A missing dst is created. Concat
// fails if either file cannot be opened.
func Concat(src, dst string, appending bool) (err error) {
	flags := os.O_CREATE | os.O_WRONLY
	if appending {
		flags |= os.O_APPEND
	} else {
		flags |= os.O_TRUNC
	}
	r, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("concat %s to %s: %w", src, dst, err)
	}
	defer r.Close()
	w, err := os.OpenFile(dst, flags, 0666)
	if err != nil {
		return fmt.Errorf("concat %s to %s: %w", src, dst, err)
	}
	defer func() {
		if e := w.Close(); e != nil && err == nil {
			err = fmt.Errorf("concat %s to %s: %w", src, dst, e)
		}
	}()
	if _, err = io.Copy(w, r); err != nil {
		return fmt.Errorf("concat %s to %s: %w", src, dst, err)
	}
	return nil
}
