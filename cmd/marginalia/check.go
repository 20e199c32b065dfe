package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var checkPattern string

// checkCmd represents the check command
var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Report annotations whose anchors no longer match",
	Long: `Evaluate every annotation against the current content of its file and
report the stale ones. Exits non-zero when any annotation is stale, so the
command can gate CI or pre-commit hooks.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()
		session, err := openSession(ctx)
		if err != nil {
			fatal("Failed to open annotation store", err)
		}

		results, err := session.CheckAll(checkPattern)
		if err != nil {
			fatal("Failed to check annotations", err)
		}

		stale := 0
		total := 0
		for document, validities := range results {
			for _, v := range validities {
				total++
				if v.Valid {
					continue
				}
				stale++
				fmt.Printf("%s  %s\n    %s\n", document, v.Annotation.ID, firstLine(v.Annotation.Text))
			}
		}

		if stale > 0 {
			fmt.Fprintf(os.Stderr, "%d of %d annotations are stale\n", stale, total)
			os.Exit(1)
		}
		fmt.Printf("All %d annotations match their anchors\n", total)
	},
}

func init() {
	checkCmd.Flags().StringVarP(&checkPattern, "pattern", "p", "", "Only check files matching this glob (doublestar)")
	rootCmd.AddCommand(checkCmd)
}
