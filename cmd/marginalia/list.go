package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/aretw0/marginalia"
	"github.com/aretw0/marginalia/pkg/core"
)

var (
	listOutput  string
	listPattern string
)

// listedAnnotation is the flattened shape used for structured list output.
type listedAnnotation struct {
	Document  string `json:"document" yaml:"document"`
	ID        string `json:"id" yaml:"id"`
	Text      string `json:"text" yaml:"text"`
	Line      int    `json:"line" yaml:"line"` // 1-based start line
	Valid     bool   `json:"valid" yaml:"valid"`
	Timestamp int64  `json:"timestamp,omitempty" yaml:"timestamp,omitempty"`
}

// listCmd represents the list command
var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List annotations across all files",
	Long: `List annotations across all annotated files in presentation order:
recently created annotations first, older and migrated ones interleaved in
small deterministic batches rather than grouped by file.

Stale annotations are marked or hidden according to the display.stale
configuration key (mark | hide).`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()
		session, err := openSession(ctx)
		if err != nil {
			fatal("Failed to open annotation store", err)
		}

		entries := session.Sequenced()
		hideStale := viper.GetString("display.stale") == "hide"
		valid := validityIndex(session, entries)

		var listed []listedAnnotation
		for _, e := range entries {
			if listPattern != "" {
				ok, err := doublestar.Match(listPattern, filepath.ToSlash(e.Document))
				if err != nil {
					fatal("Invalid pattern", err)
				}
				if !ok {
					continue
				}
			}
			isValid := valid[e.Document][e.Annotation.ID]
			if hideStale && !isValid {
				continue
			}
			listed = append(listed, listedAnnotation{
				Document:  e.Document,
				ID:        e.Annotation.ID,
				Text:      e.Annotation.Text,
				Line:      e.Annotation.Anchor.StartLine + 1,
				Valid:     isValid,
				Timestamp: e.Annotation.CreatedAt,
			})
		}

		switch listOutput {
		case "json":
			encoder := json.NewEncoder(os.Stdout)
			encoder.SetIndent("", "  ")
			if err := encoder.Encode(listed); err != nil {
				fatal("Failed to encode JSON", err)
			}
		case "yaml":
			data, err := yaml.Marshal(listed)
			if err != nil {
				fatal("Failed to encode YAML", err)
			}
			fmt.Print(string(data))
		default:
			for _, l := range listed {
				marker := ""
				if !l.Valid {
					marker = " [may be outdated]"
				}
				fmt.Printf("%s:%d %s%s\n    %s\n", l.Document, l.Line, l.ID, marker, firstLine(l.Text))
			}
		}
	},
}

// validityIndex evaluates each involved document once.
func validityIndex(session *marginalia.Session, entries []core.Entry) map[string]map[string]bool {
	index := make(map[string]map[string]bool)
	for _, e := range entries {
		if _, done := index[e.Document]; done {
			continue
		}
		byID := make(map[string]bool)
		for _, v := range session.Check(e.Document) {
			byID[v.Annotation.ID] = v.Valid
		}
		index[e.Document] = byID
	}
	return index
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i] + " ..."
	}
	return s
}

func init() {
	listCmd.Flags().StringVarP(&listOutput, "output", "o", "text", "Output format: text | json | yaml")
	listCmd.Flags().StringVarP(&listPattern, "pattern", "p", "", "Only list files matching this glob (doublestar)")
	rootCmd.AddCommand(listCmd)
}
