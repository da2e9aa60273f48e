package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/corentings/repertoire"
	"github.com/corentings/repertoire/internal/corpus"
)

var linesCmd = &cobra.Command{
	Use:   "lines",
	Short: "List every line of the corpus",
	RunE: func(cmd *cobra.Command, args []string) error {
		mt, err := corpus.Load(cmd.Context(), cfg.Corpus)
		if err != nil {
			return err
		}
		printLines(cmd.OutOrStdout(), mt)
		return nil
	},
}

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Parse and replay the corpus, reporting the first bad move",
	RunE: func(cmd *cobra.Command, args []string) error {
		mt, err := corpus.Load(cmd.Context(), cfg.Corpus)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "ok: %d lines, %d moves\n", len(mt.Lines()), mt.Size())
		return nil
	},
}

func printLines(w io.Writer, mt *repertoire.MoveTree) {
	for i, line := range mt.Lines() {
		fmt.Fprintf(w, "%3d  %s\n", i+1, formatLine(mt.Resolve(line)))
	}
}

// formatLine numbers the moves of a line the way PGN does.
func formatLine(moves []string) string {
	var sb strings.Builder
	for i, m := range moves {
		if i > 0 {
			sb.WriteByte(' ')
		}
		if i%2 == 0 {
			fmt.Fprintf(&sb, "%d. ", i/2+1)
		}
		sb.WriteString(m)
	}
	return sb.String()
}
