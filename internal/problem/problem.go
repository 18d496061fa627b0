// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package problem reads book scanning instances from their plain-text
// input format.
//
// The format is line oriented:
//
//	numBooks numLibraries horizon
//	score_0 ... score_{numBooks-1}
//	bookCount signupTime parallelBooks   (once per library)
//	bookIndex_1 ... bookIndex_bookCount
//
// Each record line must contain exactly the expected tokens. Blank lines
// between records are ignored. A library with no books has no book line.
package problem

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pdiddy/bookscan/pkg/types"
)

// preallocLimit caps slice preallocation driven by header counts.
const preallocLimit = 1 << 16

// ParseError reports malformed input. It is fatal for the file it names.
type ParseError struct {
	// Name is the input name (file base name).
	Name string
	// Line is the 1-based line number, or 0 when the error is not tied
	// to a line.
	Line int
	Msg  string
}

func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("parsing %s: line %d: %s", e.Name, e.Line, e.Msg)
	}
	return fmt.Sprintf("parsing %s: %s", e.Name, e.Msg)
}

// IsParseError reports whether err is or wraps a *ParseError.
func IsParseError(err error) bool {
	var pe *ParseError
	return errors.As(err, &pe)
}

// Load opens the file at path and parses it. The problem is named after
// the file base name.
func Load(path string) (*types.Problem, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening input %s: %w", path, err)
	}
	defer f.Close()

	return Parse(f, filepath.Base(path))
}

// Parse reads one instance from r. name is used in error messages and as
// the Problem name.
func Parse(r io.Reader, name string) (*types.Problem, error) {
	lr := &lineReader{r: bufio.NewReaderSize(r, 1<<20), name: name}

	header, err := lr.ints("problem header", 3)
	if err != nil {
		return nil, err
	}
	numBooks, numLibraries, horizon := header[0], header[1], header[2]
	if numBooks < 0 || numLibraries < 0 || horizon < 0 {
		return nil, lr.errorf("negative value in problem header %v", header)
	}

	p := &types.Problem{
		Name:      name,
		Horizon:   horizon,
		Books:     make([]types.Book, 0, min(numBooks, preallocLimit)),
		Libraries: make([]types.Library, 0, min(numLibraries, preallocLimit)),
	}

	if numBooks > 0 {
		scores, err := lr.ints("book scores", numBooks)
		if err != nil {
			return nil, err
		}
		for i, s := range scores {
			if s < 0 {
				return nil, lr.errorf("book %d has negative score %d", i, s)
			}
			p.Books = append(p.Books, types.Book{Index: i, Score: s})
		}
	}

	// stamp[b] == lib+1 marks book b as already listed by library lib.
	stamp := make([]int, numBooks)

	for i := range numLibraries {
		what := fmt.Sprintf("library %d header", i)
		lh, err := lr.ints(what, 3)
		if err != nil {
			return nil, err
		}
		count, signup, parallel := lh[0], lh[1], lh[2]
		switch {
		case count < 0:
			return nil, lr.errorf("library %d has negative book count %d", i, count)
		case signup < 0:
			return nil, lr.errorf("library %d has negative signup time %d", i, signup)
		case parallel < 1:
			return nil, lr.errorf("library %d scans %d books per day, want at least 1", i, parallel)
		}

		lib := types.Library{
			Index:         i,
			BookCapacity:  count,
			SignupTime:    signup,
			ParallelBooks: parallel,
			Books:         []int{},
		}

		if count > 0 {
			books, err := lr.ints(fmt.Sprintf("library %d books", i), count)
			if err != nil {
				return nil, err
			}
			for _, b := range books {
				if b < 0 || b >= numBooks {
					return nil, lr.errorf("library %d lists book %d, want 0..%d", i, b, numBooks-1)
				}
				if stamp[b] == i+1 {
					return nil, lr.errorf("library %d lists book %d twice", i, b)
				}
				stamp[b] = i + 1
			}
			lib.Books = books
		}

		p.Libraries = append(p.Libraries, lib)
	}

	if err := lr.expectEOF(); err != nil {
		return nil, err
	}
	return p, nil
}

// lineReader yields the whitespace-separated fields of non-blank lines and
// tracks line numbers for error reporting.
type lineReader struct {
	r    *bufio.Reader
	name string
	line int
}

func (lr *lineReader) errorf(format string, args ...any) *ParseError {
	return &ParseError{Name: lr.name, Line: lr.line, Msg: fmt.Sprintf(format, args...)}
}

// next returns the fields of the next non-blank line, or io.EOF.
func (lr *lineReader) next() ([]string, error) {
	for {
		s, err := lr.r.ReadString('\n')
		if s == "" && err != nil {
			if err == io.EOF {
				return nil, io.EOF
			}
			return nil, fmt.Errorf("reading %s: %w", lr.name, err)
		}
		lr.line++
		if fields := strings.Fields(s); len(fields) > 0 {
			return fields, nil
		}
	}
}

// ints reads the next record line and requires exactly n integers on it.
func (lr *lineReader) ints(what string, n int) ([]int, error) {
	fields, err := lr.next()
	if err == io.EOF {
		return nil, &ParseError{Name: lr.name, Msg: fmt.Sprintf("unexpected end of input, expected %s", what)}
	}
	if err != nil {
		return nil, err
	}
	if len(fields) != n {
		return nil, lr.errorf("%s: expected %d values, got %d", what, n, len(fields))
	}
	out := make([]int, n)
	for i, f := range fields {
		v, err := strconv.Atoi(f)
		if err != nil {
			return nil, lr.errorf("%s: value %d (%q) is not an integer", what, i+1, f)
		}
		out[i] = v
	}
	return out, nil
}

// expectEOF fails if any non-blank content remains.
func (lr *lineReader) expectEOF() error {
	_, err := lr.next()
	if err == io.EOF {
		return nil
	}
	if err != nil {
		return err
	}
	return lr.errorf("unexpected trailing content")
}
