// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// LibraryScan is the scanned view of a signed-up library: the books it
// actually scanned, in scan order.
type LibraryScan struct {
	Index int   `json:"index" yaml:"index"`
	Books []int `json:"books" yaml:"books"`
}

// Solution is the scan plan produced for one Problem.
type Solution struct {
	// Problem is the name of the solved instance.
	Problem string `json:"problem" yaml:"problem"`

	// Strategy is the signup heuristic that produced the plan.
	Strategy Strategy `json:"strategy" yaml:"strategy"`

	// Libraries holds the scanned views with at least one book, in the
	// order their signup completed.
	Libraries []LibraryScan `json:"libraries" yaml:"libraries"`

	// Score is the total score of the scanned books.
	Score int `json:"score" yaml:"score"`

	// BooksScanned is the number of books across all scanned views.
	BooksScanned int `json:"books_scanned" yaml:"books_scanned"`

	// SignedUp counts libraries whose signup completed, including those
	// that scanned nothing.
	SignedUp int `json:"signed_up" yaml:"signed_up"`
}

// RunRecord is one solver run as stored in the history database.
type RunRecord struct {
	ID           string        `json:"id" yaml:"id" db:"id"`
	Input        string        `json:"input" yaml:"input" db:"input"`
	Strategy     Strategy      `json:"strategy" yaml:"strategy" db:"strategy"`
	Horizon      int           `json:"horizon" yaml:"horizon" db:"horizon"`
	Libraries    int           `json:"libraries" yaml:"libraries" db:"libraries"`
	SignedUp     int           `json:"signed_up" yaml:"signed_up" db:"signed_up"`
	BooksScanned int           `json:"books_scanned" yaml:"books_scanned" db:"books_scanned"`
	Score        int           `json:"score" yaml:"score" db:"score"`
	Duration     time.Duration `json:"duration" yaml:"duration" db:"duration_ns"`
	CreatedAt    time.Time     `json:"created_at" yaml:"created_at" db:"created_at"`
}
