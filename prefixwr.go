package gsatkmk

import (
	"bytes"
	"io"
)

// prefixWriter puts prefix in front of every line written to w. It is used to
// mark the output of the compiler.
type prefixWriter struct {
	w      io.Writer
	prefix []byte
	inLine bool // not at start of line
}

func newPrefixWriterString(w io.Writer, prefix string) *prefixWriter {
	return &prefixWriter{w: w, prefix: []byte(prefix)}
}

func (pw *prefixWriter) Reset() { pw.inLine = false }

func (pw *prefixWriter) Write(p []byte) (n int, err error) {
	for len(p) > 0 {
		if !pw.inLine {
			if _, err := pw.w.Write(pw.prefix); err != nil {
				return n, err
			}
			pw.inLine = true
		}
		end := bytes.IndexByte(p, '\n') + 1
		if end == 0 {
			m, err := pw.w.Write(p)
			return n + m, err
		}
		m, err := pw.w.Write(p[:end])
		n += m
		if err != nil {
			return n, err
		}
		pw.inLine = false
		p = p[end:]
	}
	return n, nil
}
