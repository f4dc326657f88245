// Package snapshot persists the Thought Store and Graph Index to a single
// JSON file and restores them at startup. The Vector Index is rebuilt from
// the restored thoughts rather than serialized separately, since a vector is
// a pure function of its owning thought.
//
// The write-to-temp-then-rename sequencing (os.CreateTemp in the target
// directory, write, fsync, os.Rename over the final path) makes the write
// atomic on the same filesystem, so a crash mid-write never corrupts the
// previous snapshot.
package snapshot

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/coreason-ai/archive/archivemodel"
	"github.com/coreason-ai/archive/graphindex"
	"github.com/coreason-ai/archive/thoughtstore"
	"github.com/coreason-ai/archive/vectorindex"
)

// document is the on-disk snapshot shape. The vector matrix is reconstructed
// from Thoughts[i].Vector rather than duplicated.
type document struct {
	WrittenAt time.Time                     `json:"written_at"`
	Thoughts  []*archivemodel.CachedThought  `json:"thoughts"`
	Edges     []graphindex.EdgeRow           `json:"edges"`
}

// Write atomically snapshots store and graph to path. now is the wall-clock
// used for WrittenAt.
func Write(path string, store *thoughtstore.Store, graph *graphindex.Index, now time.Time) error {
	doc := document{
		WrittenAt: now,
		Thoughts:  store.All(),
		Edges:     graph.Edges(),
	}

	dir := filepath.Dir(path)
	tempFile, err := os.CreateTemp(dir, ".archive-snapshot-*.tmp")
	if err != nil {
		return fmt.Errorf("snapshot: create temp file: %w", err)
	}
	tempPath := tempFile.Name()
	defer os.Remove(tempPath) // no-op once the rename below succeeds

	enc := json.NewEncoder(tempFile)
	if err := enc.Encode(doc); err != nil {
		tempFile.Close()
		return fmt.Errorf("snapshot: encode: %w", err)
	}
	if err := tempFile.Sync(); err != nil {
		tempFile.Close()
		return fmt.Errorf("snapshot: sync: %w", err)
	}
	if err := tempFile.Close(); err != nil {
		return fmt.Errorf("snapshot: close: %w", err)
	}
	if err := os.Rename(tempPath, path); err != nil {
		return fmt.Errorf("snapshot: rename: %w", err)
	}
	return nil
}

// Load restores store, graph, and vectors from the snapshot at path. It is
// the caller's responsibility to pass freshly-constructed, empty indices: a
// restore into a populated index merges rather than replaces.
func Load(path string, store *thoughtstore.Store, vectors *vectorindex.Index, graph *graphindex.Index) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("snapshot: open: %w", err)
	}
	defer f.Close()

	var doc document
	if err := json.NewDecoder(f).Decode(&doc); err != nil {
		return fmt.Errorf("snapshot: decode: %w", err)
	}

	for _, t := range doc.Thoughts {
		store.Put(t)
		vectors.Insert(t.ID, t.Vector)
		graph.AddNode(t.ThoughtNode())
	}
	for _, e := range doc.Edges {
		graph.AddEdge(e.From, e.Relation, e.To)
	}
	return nil
}
