package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/marginalia"
)

var (
	addMessage  string
	addLine     int
	addEndLine  int
	addStartCol int
	addEndCol   int
)

// addCmd represents the add command
var addCmd = &cobra.Command{
	Use:   "add <file>",
	Short: "Attach an annotation to a file location",
	Long: `Attach a free-text annotation to a line or a text span of a file.

Lines are 1-based as shown in editors; columns are 0-based. With only --line,
the annotation anchors to the whole line and tolerates in-line edits. With
column flags it anchors to the exact span and captures the selected text, so
later edits to that text mark the annotation as outdated.

Committing an empty message over an existing annotation deletes it.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if addLine < 1 {
			fmt.Fprintln(os.Stderr, "Error: --line is required (1-based)")
			cmd.Usage()
			os.Exit(1)
		}

		document, err := documentID(args[0])
		if err != nil {
			fatal("Failed to resolve file", err)
		}

		ctx := cmd.Context()
		session, err := openSession(ctx)
		if err != nil {
			fatal("Failed to open annotation store", err)
		}

		startLine := addLine - 1
		endLine := startLine
		if addEndLine > 0 {
			endLine = addEndLine - 1
		}

		anchor, err := session.CaptureAnchor(document, startLine, addStartCol, endLine, addEndCol)
		if err != nil {
			fatal("Failed to anchor selection", err)
		}

		// Create-vs-edit: reuse the annotation already at these coordinates.
		existingID := ""
		if existing, ok := session.Prefill(document, anchor); ok {
			existingID = existing.ID
		}

		result, err := session.Commit(ctx, document, anchor, addMessage, existingID)
		if err != nil {
			fatal("Failed to commit annotation", err)
		}

		switch result.Outcome {
		case marginalia.OutcomeCreated:
			fmt.Printf("Created %s\n", result.Annotation.ID)
		case marginalia.OutcomeUpdated:
			fmt.Printf("Updated %s\n", result.Annotation.ID)
		case marginalia.OutcomeRemoved:
			fmt.Println("Removed (empty message)")
		case marginalia.OutcomeNoop:
			fmt.Println("Nothing to do (empty message, no matching annotation)")
		}
	},
}

func init() {
	addCmd.Flags().StringVarP(&addMessage, "message", "m", "", "Annotation text (empty deletes an existing annotation)")
	addCmd.Flags().IntVar(&addLine, "line", 0, "Start line, 1-based (required)")
	addCmd.Flags().IntVar(&addEndLine, "end-line", 0, "End line, 1-based (default: --line)")
	addCmd.Flags().IntVar(&addStartCol, "start-col", 0, "Selection start column, 0-based")
	addCmd.Flags().IntVar(&addEndCol, "end-col", 0, "Selection end column, 0-based, exclusive")
	rootCmd.AddCommand(addCmd)
}
