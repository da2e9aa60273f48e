// Package corpus turns PGN files into a verified repertoire.MoveTree.
package corpus

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"slices"
	"strings"

	"github.com/corentings/chess/v2"
	"golang.org/x/sync/errgroup"

	"github.com/corentings/repertoire"
)

//go:embed data/*.pgn
var embedded embed.FS

// Ext is the extension of the files picked up from directories.
const Ext = ".pgn"

// A Source is the text of one PGN file.
type Source struct {
	Name string
	Text string
}

// Embedded returns the corpus compiled into the binary.
func Embedded() []Source {
	entries, _ := fs.ReadDir(embedded, "data")
	sources := make([]Source, 0, len(entries))
	for _, e := range entries {
		raw, err := embedded.ReadFile(path.Join("data", e.Name()))
		if err != nil {
			continue
		}
		sources = append(sources, Source{Name: e.Name(), Text: string(raw)})
	}
	return sources
}

// Files expands paths into a sorted list of files. Directories contribute
// the *.pgn files directly inside them.
func Files(paths []string) ([]string, error) {
	var files []string
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return nil, fmt.Errorf("corpus: %w", err)
		}
		if !info.IsDir() {
			files = append(files, filepath.Clean(p))
			continue
		}
		entries, err := os.ReadDir(p)
		if err != nil {
			return nil, fmt.Errorf("corpus: %w", err)
		}
		for _, e := range entries {
			if !e.IsDir() && strings.HasSuffix(e.Name(), Ext) {
				files = append(files, filepath.Join(p, e.Name()))
			}
		}
	}
	slices.Sort(files)
	return slices.Compact(files), nil
}

// Read reads files concurrently and returns them in the order given.
func Read(ctx context.Context, files []string) ([]Source, error) {
	sources := make([]Source, len(files))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(8)
	for i, name := range files {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			raw, err := os.ReadFile(name)
			if err != nil {
				return fmt.Errorf("corpus: %w", err)
			}
			sources[i] = Source{Name: name, Text: string(raw)}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return sources, nil
}

// Games splits the text of a PGN file into the texts of its games. A game
// starts at its tag pairs; text holding movetext only is one game.
func Games(text string) ([]string, error) {
	sc := chess.NewScanner(strings.NewReader(text))
	var games []string
	for {
		g, err := sc.ScanGame()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		games = append(games, g.Raw)
	}
	if len(games) == 0 && strings.TrimSpace(text) != "" {
		games = append(games, text)
	}
	return games, nil
}

// Build folds every game of sources into one tree, in order, and verifies
// every move.
func Build(sources []Source) (*repertoire.MoveTree, error) {
	mt := repertoire.NewMoveTree()
	for _, src := range sources {
		games, err := Games(src.Text)
		if err != nil {
			return nil, fmt.Errorf("corpus: %s: %w", src.Name, err)
		}
		for i, game := range games {
			if err := mt.AddText(game); err != nil {
				return nil, fmt.Errorf("corpus: %s: game %d: %w", src.Name, i+1, err)
			}
		}
	}
	if err := mt.Verify(); err != nil {
		return nil, fmt.Errorf("corpus: %w", err)
	}
	return mt, nil
}

// Load builds the tree for paths, or for the embedded corpus when paths is
// empty.
//
// Example:
//
//	mt, err := corpus.Load(ctx, []string{"openings/"})
//	if err != nil {
//		log.Fatal(err) // bad corpus, refuse to train
//	}
func Load(ctx context.Context, paths []string) (*repertoire.MoveTree, error) {
	if len(paths) == 0 {
		return Build(Embedded())
	}
	files, err := Files(paths)
	if err != nil {
		return nil, err
	}
	sources, err := Read(ctx, files)
	if err != nil {
		return nil, err
	}
	return Build(sources)
}
