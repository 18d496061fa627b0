// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/bookscan/internal/output"
	"github.com/pdiddy/bookscan/internal/problem"
	"github.com/pdiddy/bookscan/internal/score"
)

var scoreCmd = &cobra.Command{
	Use:   "score <input> <submission>",
	Short: "Validate and score a submission against its input",
	Long: `Score replays a submission file under the judge rules: libraries sign up
one after another in the listed order, each scans its parallel capacity per
day once signed up, and a book scores once no matter how many libraries
scan it. Books listed past the deadline are counted as late.`,
	Args: cobra.ExactArgs(2),
	RunE: runScore,
}

func runScore(cmd *cobra.Command, args []string) error {
	if _, err := setup(cmd, nil); err != nil {
		return err
	}

	p, err := problem.Load(args[0])
	if err != nil {
		return err
	}
	plan, err := output.ReadFile(args[1])
	if err != nil {
		return err
	}
	rep, err := score.Evaluate(p, plan)
	if err != nil {
		return fmt.Errorf("scoring %s: %w", args[1], err)
	}

	if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(rep)
	}

	fmt.Fprintf(os.Stdout, "Score:           %d\n", rep.Score)
	fmt.Fprintf(os.Stdout, "Libraries:       %d (last signup day %d)\n", rep.Libraries, rep.LastSignupDay)
	fmt.Fprintf(os.Stdout, "Scored books:    %d\n", rep.ScoredBooks)
	fmt.Fprintf(os.Stdout, "Late books:      %d\n", rep.LateBooks)
	fmt.Fprintf(os.Stdout, "Duplicate books: %d\n", rep.DuplicateBooks)
	return nil
}

func init() {
	scoreCmd.Flags().Bool("json", false, "output the report as JSON")

	rootCmd.AddCommand(scoreCmd)
}
