// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package problem

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/bookscan/pkg/types"
)

const sampleInput = `6 2 7
1 2 3 6 5 4
5 2 2
0 1 2 3 4
4 3 1
3 2 5 0
`

func TestParse_Sample(t *testing.T) {
	p, err := Parse(strings.NewReader(sampleInput), "a_example.txt")
	require.NoError(t, err)

	assert.Equal(t, "a_example.txt", p.Name)
	assert.Equal(t, 7, p.Horizon)
	require.Len(t, p.Books, 6)
	assert.Equal(t, types.Book{Index: 3, Score: 6}, p.Books[3])

	require.Len(t, p.Libraries, 2)
	assert.Equal(t, types.Library{
		Index: 0, BookCapacity: 5, SignupTime: 2, ParallelBooks: 2,
		Books: []int{0, 1, 2, 3, 4},
	}, p.Libraries[0])
	assert.Equal(t, types.Library{
		Index: 1, BookCapacity: 4, SignupTime: 3, ParallelBooks: 1,
		Books: []int{3, 2, 5, 0},
	}, p.Libraries[1])
}

func TestParse_BlankLinesBetweenRecords(t *testing.T) {
	input := "2 1 3\n\n3 5\n\n2 1 1\n\n0 1\n\n\n"
	p, err := Parse(strings.NewReader(input), "blank.txt")
	require.NoError(t, err)

	assert.Equal(t, 3, p.Horizon)
	require.Len(t, p.Libraries, 1)
	assert.Equal(t, []int{0, 1}, p.Libraries[0].Books)
}

func TestParse_NoTrailingNewline(t *testing.T) {
	p, err := Parse(strings.NewReader("1 1 1\n9\n1 1 1\n0"), "eof.txt")
	require.NoError(t, err)
	assert.Equal(t, []int{0}, p.Libraries[0].Books)
}

func TestParse_EmptyLibraryHasNoBookLine(t *testing.T) {
	input := "1 2 4\n7\n0 1 1\n1 1 1\n0\n"
	p, err := Parse(strings.NewReader(input), "empty-lib.txt")
	require.NoError(t, err)

	require.Len(t, p.Libraries, 2)
	assert.Empty(t, p.Libraries[0].Books)
	assert.Equal(t, []int{0}, p.Libraries[1].Books)
}

func TestParse_HorizonZero(t *testing.T) {
	p, err := Parse(strings.NewReader("1 1 0\n4\n1 1 1\n0\n"), "zero.txt")
	require.NoError(t, err)
	assert.Equal(t, 0, p.Horizon)
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantMsg string
	}{
		{name: "empty input", input: "", wantMsg: "expected problem header"},
		{name: "short header", input: "1 1\n", wantMsg: "expected 3 values, got 2"},
		{name: "header with trailing token", input: "1 1 1 9\n5\n1 1 1\n0\n", wantMsg: "expected 3 values, got 4"},
		{name: "non integer", input: "1 x 1\n", wantMsg: `("x") is not an integer`},
		{name: "negative header", input: "1 -1 3\n", wantMsg: "negative value"},
		{name: "missing scores", input: "2 1 3\n", wantMsg: "expected book scores"},
		{name: "too many scores", input: "2 0 3\n1 2 3\n", wantMsg: "book scores: expected 2 values, got 3"},
		{name: "negative score", input: "1 0 3\n-4\n", wantMsg: "negative score"},
		{name: "missing library", input: "1 2 3\n1\n1 1 1\n0\n", wantMsg: "expected library 1 header"},
		{name: "zero parallel", input: "1 1 3\n1\n1 1 0\n0\n", wantMsg: "want at least 1"},
		{name: "book count mismatch", input: "2 1 3\n1 1\n2 1 1\n0\n", wantMsg: "library 0 books: expected 2 values, got 1"},
		{name: "book index out of range", input: "2 1 3\n1 1\n1 1 1\n2\n", wantMsg: "lists book 2"},
		{name: "duplicate book", input: "2 1 3\n1 1\n2 1 1\n1 1\n", wantMsg: "lists book 1 twice"},
		{name: "trailing content", input: "1 1 3\n1\n1 1 1\n0\n42\n", wantMsg: "unexpected trailing content"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(strings.NewReader(tt.input), "bad.txt")
			require.Error(t, err)

			var pe *ParseError
			require.True(t, errors.As(err, &pe), "want *ParseError, got %T", err)
			assert.True(t, IsParseError(err))
			assert.Equal(t, "bad.txt", pe.Name)
			assert.Contains(t, err.Error(), tt.wantMsg)
		})
	}
}

func TestParseError_LineNumber(t *testing.T) {
	_, err := Parse(strings.NewReader("1 1 3\n\n1\n1 1 1\n7\n"), "lines.txt")
	require.Error(t, err)

	var pe *ParseError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, 5, pe.Line)
	assert.Equal(t, "parsing lines.txt: line 5: library 0 lists book 7, want 0..0", pe.Error())
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "b_read_on.txt")
	require.NoError(t, os.WriteFile(path, []byte(sampleInput), 0o644))

	p, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "b_read_on.txt", p.Name)
	assert.Len(t, p.Libraries, 2)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.txt"))
	require.Error(t, err)
	assert.False(t, IsParseError(err))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
