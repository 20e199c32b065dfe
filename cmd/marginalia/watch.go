package main

import (
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/aretw0/marginalia/pkg/core"
)

var watchPattern string

// watchCmd represents the watch command
var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Watch annotated files and report validity changes live",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		session, err := openSession(ctx)
		if err != nil {
			fatal("Failed to open annotation store", err)
		}

		events, err := session.Watch(ctx, watchPattern)
		if err != nil {
			fatal("Failed to start watcher", err)
		}

		fmt.Println("Watching annotated files (Ctrl-C to stop)")
		for event := range events {
			at := time.Unix(event.Timestamp, 0).Format("15:04:05")
			switch event.Type {
			case core.EventStale:
				fmt.Printf("%s  stale    %s (%s)\n", at, event.Document, event.AnnotationID)
			case core.EventFresh:
				fmt.Printf("%s  fresh    %s (%s)\n", at, event.Document, event.AnnotationID)
			case core.EventMissing:
				fmt.Printf("%s  missing  %s (%s)\n", at, event.Document, event.AnnotationID)
			}
		}
	},
}

func init() {
	watchCmd.Flags().StringVarP(&watchPattern, "pattern", "p", "", "Only watch files matching this glob (doublestar)")
	rootCmd.AddCommand(watchCmd)
}
