package catalog

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"

	"github.com/pipesizer/pipesizer/pkg/types"
)

// Files read by LoadDir, one per equipment class.
const (
	PipesFile      = "pipes.yaml"
	PumpsFile      = "pumps.yaml"
	SprinklersFile = "sprinklers.yaml"
)

// Snapshot is a normalized catalog plus the recoveries made while loading it.
type Snapshot struct {
	Catalog  types.Catalog
	Warnings []types.Warning
}

// rawCatalog is the loosely typed file layout.
type rawCatalog struct {
	Pipes      []map[string]any `yaml:"pipes"`
	Pumps      []map[string]any `yaml:"pumps"`
	Sprinklers []map[string]any `yaml:"sprinklers"`
}

// Parse normalizes a single-document catalog.
func Parse(data []byte) (*Snapshot, error) {
	var raw rawCatalog
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("catalog: parse yaml: %w", err)
	}
	return build(raw.Pipes, raw.Pumps, raw.Sprinklers)
}

// Load reads and normalizes the catalog file at path.
func Load(path string) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("catalog: read file: %w", err)
	}
	snap, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%w (%s)", err, path)
	}
	logLoaded(path, snap)
	return snap, nil
}

// LoadDir reads the per-class catalog files in dir concurrently. A missing
// file leaves that class empty. Each file holds either a bare list or a
// document with the class key (pipes:, pumps:, sprinklers:).
func LoadDir(ctx context.Context, dir string) (*Snapshot, error) {
	var pipes, pumps, sprinklers []map[string]any

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return readList(ctx, filepath.Join(dir, PipesFile), "pipes", &pipes) })
	g.Go(func() error { return readList(ctx, filepath.Join(dir, PumpsFile), "pumps", &pumps) })
	g.Go(func() error { return readList(ctx, filepath.Join(dir, SprinklersFile), "sprinklers", &sprinklers) })
	if err := g.Wait(); err != nil {
		return nil, err
	}

	snap, err := build(pipes, pumps, sprinklers)
	if err != nil {
		return nil, fmt.Errorf("%w (%s)", err, dir)
	}
	logLoaded(dir, snap)
	return snap, nil
}

func readList(ctx context.Context, path, key string, out *[]map[string]any) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		slog.Debug("catalog: file not present", "path", path)
		return nil
	}
	if err != nil {
		return fmt.Errorf("catalog: read file: %w", err)
	}

	var node yaml.Node
	if err := yaml.Unmarshal(data, &node); err != nil {
		return fmt.Errorf("catalog: parse yaml (%s): %w", path, err)
	}
	if len(node.Content) == 0 {
		return nil
	}
	doc := node.Content[0]
	if doc.Kind == yaml.MappingNode {
		var wrapped map[string][]map[string]any
		if err := doc.Decode(&wrapped); err != nil {
			return fmt.Errorf("catalog: decode %s: %w", path, err)
		}
		*out = wrapped[key]
		return nil
	}
	if err := doc.Decode(out); err != nil {
		return fmt.Errorf("catalog: decode %s: %w", path, err)
	}
	return nil
}

func build(pipes, pumps, sprinklers []map[string]any) (*Snapshot, error) {
	snap := &Snapshot{}
	var err error
	if snap.Catalog.Pipes, err = normalizeAll(snap, "pipe", pipes, (*normalizer).pipe, pipeID); err != nil {
		return nil, err
	}
	if snap.Catalog.Pumps, err = normalizeAll(snap, "pump", pumps, (*normalizer).pump, pumpID); err != nil {
		return nil, err
	}
	if snap.Catalog.Sprinklers, err = normalizeAll(snap, "sprinkler", sprinklers, (*normalizer).sprinkler, sprinklerID); err != nil {
		return nil, err
	}
	return snap, nil
}

func pipeID(p types.Pipe) string           { return p.ID }
func pumpID(p types.Pump) string           { return p.ID }
func sprinklerID(s types.Sprinkler) string { return s.ID }

// normalizeAll converts raw items of one class, rejecting missing and
// duplicate IDs.
func normalizeAll[T any](snap *Snapshot, kind string, raw []map[string]any, conv func(*normalizer, record) T, id func(T) string) ([]T, error) {
	n := &normalizer{kind: kind}
	out := make([]T, 0, len(raw))
	seen := make(map[string]int, len(raw))
	for i, item := range raw {
		v := conv(n, newRecord(item))
		key := id(v)
		if key == "" {
			return nil, fmt.Errorf("catalog: %ss[%d]: id is required", kind, i)
		}
		if j, dup := seen[key]; dup {
			return nil, fmt.Errorf("catalog: %ss[%d]: duplicate id %q (first at index %d)", kind, i, key, j)
		}
		seen[key] = i
		out = append(out, v)
	}
	snap.Warnings = append(snap.Warnings, n.warnings...)
	return out, nil
}

func logLoaded(src string, snap *Snapshot) {
	slog.Info("catalog: loaded",
		"source", src,
		"pipes", len(snap.Catalog.Pipes),
		"pumps", len(snap.Catalog.Pumps),
		"sprinklers", len(snap.Catalog.Sprinklers),
		"warnings", len(snap.Warnings),
	)
}
