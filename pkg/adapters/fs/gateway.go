package fs

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/aretw0/marginalia/pkg/core"
)

// Gateway implements core.Gateway on a single JSON snapshot file.
type Gateway struct {
	Path   string
	config Config
}

// Config holds the configuration for the snapshot gateway.
type Config struct {
	Path       string
	Backup     bool   // duplicate the previous snapshot before each overwrite
	BackupPath string // defaults to Path + ".bak"
	Logger     *slog.Logger
}

// NewGateway creates a snapshot gateway at the configured path.
func NewGateway(config Config) *Gateway {
	if config.Logger == nil {
		config.Logger = slog.Default()
	}
	if config.BackupPath == "" {
		config.BackupPath = config.Path + ".bak"
	}
	return &Gateway{
		Path:   config.Path,
		config: config,
	}
}

// Load reads the last saved snapshot. A missing file loads as empty, and so
// does a malformed one (logged, never fatal): annotations are an overlay on
// someone's source tree, and a broken overlay must not take the session down.
// Records that fail to decode individually are skipped; the rest still load.
func (g *Gateway) Load(ctx context.Context) (map[string][]core.Annotation, error) {
	snapshot := make(map[string][]core.Annotation)

	data, err := os.ReadFile(g.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return snapshot, nil
		}
		return nil, fmt.Errorf("failed to read snapshot: %w", err)
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		g.config.Logger.Warn("malformed snapshot, starting empty", "path", g.Path, "error", err)
		return snapshot, nil
	}

	for document, record := range raw {
		anns, err := decodeRecord(record)
		if err != nil {
			g.config.Logger.Warn("skipping unreadable record", "document", document, "error", err)
			continue
		}
		if len(anns) > 0 {
			snapshot[document] = anns
		}
	}
	return snapshot, nil
}

// Save writes the full snapshot atomically, optionally duplicating the
// previous one to the backup path first.
func (g *Gateway) Save(ctx context.Context, snapshot map[string][]core.Annotation) error {
	wire := make(map[string][]annotationJSON, len(snapshot))
	for document, anns := range snapshot {
		records := make([]annotationJSON, 0, len(anns))
		for _, ann := range anns {
			records = append(records, toWire(ann))
		}
		wire[document] = records
	}

	data, err := json.MarshalIndent(wire, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize snapshot: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(g.Path), 0755); err != nil {
		return fmt.Errorf("failed to create snapshot directory: %w", err)
	}

	if g.config.Backup {
		if err := copyFile(g.Path, g.config.BackupPath); err != nil && !os.IsNotExist(err) {
			// The backup is best-effort; the save itself still proceeds.
			g.config.Logger.Warn("snapshot backup failed", "path", g.config.BackupPath, "error", err)
		}
	}

	if err := writeFileAtomic(g.Path, data, 0644); err != nil {
		return fmt.Errorf("failed to write snapshot: %w", err)
	}
	return nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	data, err := io.ReadAll(in)
	if err != nil {
		return err
	}
	return writeFileAtomic(dst, data, 0644)
}
