package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/aretw0/marginalia/pkg/core"
)

// showCmd represents the show command
var showCmd = &cobra.Command{
	Use:   "show <file>",
	Short: "Show the annotations of one file",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		document, err := documentID(args[0])
		if err != nil {
			fatal("Failed to resolve file", err)
		}

		ctx := cmd.Context()
		session, err := openSession(ctx)
		if err != nil {
			fatal("Failed to open annotation store", err)
		}

		results := session.Check(document)
		if len(results) == 0 {
			fmt.Printf("No annotations for %s\n", document)
			return
		}

		for _, v := range results {
			marker := ""
			if !v.Valid {
				marker = " [may be outdated]"
			}
			fmt.Printf("%s  %s%s\n", describeAnchor(v.Annotation.Anchor), v.Annotation.ID, marker)
			if v.Annotation.Timed() {
				created := time.UnixMilli(v.Annotation.CreatedAt)
				fmt.Printf("    created %s\n", created.Format(time.RFC3339))
			}
			fmt.Printf("    %s\n", v.Annotation.Text)
		}
	},
}

// describeAnchor renders coordinates 1-based for display. The rest-of-line
// sentinel is rendered as a whole-line anchor, never written back clamped.
func describeAnchor(a core.Anchor) string {
	if !a.IsSpan() && a.EndColumn == core.RestOfLineColumn {
		return fmt.Sprintf("line %d", a.StartLine+1)
	}
	if a.StartLine == a.EndLine {
		return fmt.Sprintf("line %d, cols %d-%d", a.StartLine+1, a.StartColumn, a.EndColumn)
	}
	return fmt.Sprintf("lines %d-%d", a.StartLine+1, a.EndLine+1)
}

func init() {
	rootCmd.AddCommand(showCmd)
}
