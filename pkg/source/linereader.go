package source

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"time"
	"unicode/utf8"
)

// MaxLineLength bounds the bytes kept while waiting for a newline.
const MaxLineLength = 4096

// LineReader assembles newline-terminated lines from a reader whose Read
// returns after at most the device read timeout. Bytes of an unfinished line
// are kept for the next call.
type LineReader struct {
	r       io.Reader
	timeout time.Duration
	now     func() time.Time
	pending []byte
	buf     []byte
	// set after an overlong line; bytes up to its newline are dropped
	discarding bool
}

func NewLineReader(r io.Reader, timeout time.Duration) *LineReader {
	return &LineReader{r: r, timeout: timeout, now: time.Now, buf: make([]byte, 256)}
}

// ReadLine returns the next non-empty line with surrounding whitespace
// trimmed. It returns ErrNoData once a read comes back empty or the timeout
// has passed without a complete line.
func (l *LineReader) ReadLine() (string, error) {
	deadline := l.now().Add(l.timeout)
	for {
		if l.discarding {
			l.skipRemainder()
		}
		if !l.discarding {
			if line, ok := l.takeLine(); ok {
				return checkLine(line)
			}
			if len(l.pending) > MaxLineLength {
				l.pending = l.pending[:0]
				l.discarding = true
				return "", ErrLineTooLong
			}
		}
		if !l.now().Before(deadline) {
			return "", ErrNoData
		}
		n, err := l.r.Read(l.buf)
		l.pending = append(l.pending, l.buf[:n]...)
		if err != nil && !errors.Is(err, io.EOF) {
			return "", fmt.Errorf("serial read: %w", err)
		}
		if n == 0 {
			return "", ErrNoData
		}
	}
}

// skipRemainder drops the rest of an overlong line, through its newline.
func (l *LineReader) skipRemainder() {
	i := bytes.IndexByte(l.pending, '\n')
	if i < 0 {
		l.pending = l.pending[:0]
		return
	}
	l.pending = append(l.pending[:0], l.pending[i+1:]...)
	l.discarding = false
}

func (l *LineReader) takeLine() ([]byte, bool) {
	i := bytes.IndexByte(l.pending, '\n')
	if i < 0 {
		return nil, false
	}
	line := make([]byte, i)
	copy(line, l.pending[:i])
	l.pending = append(l.pending[:0], l.pending[i+1:]...)
	return line, true
}

func checkLine(line []byte) (string, error) {
	if !utf8.Valid(line) {
		return "", fmt.Errorf("%w: %q", ErrMalformed, line)
	}
	s := string(bytes.TrimSpace(line))
	if s == "" {
		return "", ErrNoData
	}
	return s, nil
}
