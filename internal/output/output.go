// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package output writes scan plans in the submission format and reads them
// back for scoring.
//
//	numLibraries
//	libraryIndex bookCount       (once per library)
//	bookIndex_1 ... bookIndex_bookCount
package output

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pdiddy/bookscan/pkg/types"
)

// DefaultPrefix is prepended to the input base name to name its output.
const DefaultPrefix = "output_"

// Path returns the output path for inputPath: outputDir/<prefix><base name>.
func Path(outputDir, inputPath, prefix string) string {
	return filepath.Join(outputDir, prefix+filepath.Base(inputPath))
}

// Write serializes the libraries of sol that scanned at least one book.
func Write(w io.Writer, sol *types.Solution) error {
	bw := bufio.NewWriter(w)

	n := 0
	for _, ls := range sol.Libraries {
		if len(ls.Books) > 0 {
			n++
		}
	}
	fmt.Fprintln(bw, n)

	var line []byte
	for _, ls := range sol.Libraries {
		if len(ls.Books) == 0 {
			continue
		}
		fmt.Fprintf(bw, "%d %d\n", ls.Index, len(ls.Books))
		line = line[:0]
		for i, b := range ls.Books {
			if i > 0 {
				line = append(line, ' ')
			}
			line = strconv.AppendInt(line, int64(b), 10)
		}
		line = append(line, '\n')
		if _, err := bw.Write(line); err != nil {
			return fmt.Errorf("writing plan: %w", err)
		}
	}

	if err := bw.Flush(); err != nil {
		return fmt.Errorf("writing plan: %w", err)
	}
	return nil
}

// WriteFile writes sol to path atomically: the plan is written to a
// temporary file in the same directory and renamed into place, so a failed
// write never leaves a partial output behind. Parent directories are
// created as needed.
func WriteFile(path string, sol *types.Solution) (err error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating output directory %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("creating temporary output: %w", err)
	}
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()

	if err := Write(tmp, sol); err != nil {
		return err
	}
	if err := tmp.Chmod(0o644); err != nil {
		return fmt.Errorf("setting output permissions: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing temporary output: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("renaming output into place: %w", err)
	}
	return nil
}

// FormatError reports a malformed submission file.
type FormatError struct {
	Line int
	Msg  string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("submission line %d: %s", e.Line, e.Msg)
}

// Read parses a submission. Book counts must match the listed books and no
// content may follow the last library.
func Read(r io.Reader) ([]types.LibraryScan, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 64<<20)
	line := 0

	next := func(what string, want int) ([]int, error) {
		for sc.Scan() {
			line++
			fields := strings.Fields(sc.Text())
			if len(fields) == 0 {
				continue
			}
			if want >= 0 && len(fields) != want {
				return nil, &FormatError{Line: line, Msg: fmt.Sprintf("%s: expected %d values, got %d", what, want, len(fields))}
			}
			vals := make([]int, len(fields))
			for i, f := range fields {
				v, err := strconv.Atoi(f)
				if err != nil {
					return nil, &FormatError{Line: line, Msg: fmt.Sprintf("%s: %q is not an integer", what, f)}
				}
				vals[i] = v
			}
			return vals, nil
		}
		if err := sc.Err(); err != nil {
			return nil, fmt.Errorf("reading submission: %w", err)
		}
		return nil, io.EOF
	}

	head, err := next("library count", 1)
	if err == io.EOF {
		return nil, &FormatError{Line: line, Msg: "empty submission"}
	}
	if err != nil {
		return nil, err
	}
	if head[0] < 0 {
		return nil, &FormatError{Line: line, Msg: fmt.Sprintf("negative library count %d", head[0])}
	}

	scans := make([]types.LibraryScan, 0, min(head[0], 1<<16))
	for i := range head[0] {
		lh, err := next(fmt.Sprintf("library entry %d", i), 2)
		if err == io.EOF {
			return nil, &FormatError{Line: line, Msg: fmt.Sprintf("expected %d libraries, found %d", head[0], i)}
		}
		if err != nil {
			return nil, err
		}
		if lh[1] <= 0 {
			return nil, &FormatError{Line: line, Msg: fmt.Sprintf("library %d declares %d books, want at least 1", lh[0], lh[1])}
		}
		books, err := next(fmt.Sprintf("library %d books", lh[0]), lh[1])
		if err == io.EOF {
			return nil, &FormatError{Line: line, Msg: fmt.Sprintf("missing book line for library %d", lh[0])}
		}
		if err != nil {
			return nil, err
		}
		scans = append(scans, types.LibraryScan{Index: lh[0], Books: books})
	}

	if _, err := next("trailing content", -1); err != io.EOF {
		if err != nil {
			return nil, err
		}
		return nil, &FormatError{Line: line, Msg: "unexpected trailing content"}
	}
	return scans, nil
}

// ReadFile opens path and parses it with Read.
func ReadFile(path string) ([]types.LibraryScan, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening submission %s: %w", path, err)
	}
	defer f.Close()
	return Read(f)
}
