package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// removeCmd represents the remove command
var removeCmd = &cobra.Command{
	Use:     "remove <file> <annotation-id>",
	Aliases: []string{"rm"},
	Short:   "Remove an annotation by id",
	Args:    cobra.ExactArgs(2),
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

		removed, err := session.Remove(ctx, document, args[1])
		if err != nil {
			fatal("Failed to save annotation store", err)
		}
		if !removed {
			fmt.Fprintf(os.Stderr, "No annotation %s on %s\n", args[1], document)
			os.Exit(1)
		}
		fmt.Printf("Removed %s\n", args[1])
	},
}

func init() {
	rootCmd.AddCommand(removeCmd)
}
