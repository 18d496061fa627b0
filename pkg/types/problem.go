// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// Book is a scorable item in the problem catalog. Identity is Index; two
// books with the same score are still distinct books.
type Book struct {
	// Index is the book id, equal to its position in Problem.Books.
	Index int `json:"index" yaml:"index"`

	// Score is the value gained when the book is scanned.
	Score int `json:"score" yaml:"score"`
}

// Library is the catalog view of one library as read from the input.
// It is never mutated by the solver.
type Library struct {
	// Index is the library id, equal to its position in Problem.Libraries.
	Index int `json:"index" yaml:"index"`

	// BookCapacity is the declared number of books held by the library.
	BookCapacity int `json:"book_capacity" yaml:"book_capacity"`

	// SignupTime is the number of days the library needs to sign up.
	SignupTime int `json:"signup_time" yaml:"signup_time"`

	// ParallelBooks is the number of books the library can scan per day
	// once signed up.
	ParallelBooks int `json:"parallel_books" yaml:"parallel_books"`

	// Books lists the indices of the books held, in input order.
	Books []int `json:"books" yaml:"books"`
}

// Problem is one parsed input instance.
type Problem struct {
	// Name identifies the instance, usually the input file base name.
	Name string `json:"name" yaml:"name"`

	// Horizon is the number of simulated days available.
	Horizon int `json:"horizon" yaml:"horizon"`

	Books     []Book    `json:"books" yaml:"books"`
	Libraries []Library `json:"libraries" yaml:"libraries"`
}

// DistinctBooks returns the number of different books held by at least one
// library. No solution can scan more books than this.
func (p *Problem) DistinctBooks() int {
	seen := make([]bool, len(p.Books))
	n := 0
	for _, lib := range p.Libraries {
		for _, b := range lib.Books {
			if !seen[b] {
				seen[b] = true
				n++
			}
		}
	}
	return n
}
