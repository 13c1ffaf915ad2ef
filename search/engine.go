// Package search maintains the bleve index mirror of the relational store.
// One index per entity kind, named by the lower-cased kind; documents mirror
// the relational rows and are kept eventually consistent by the services.
package search

import (
	"path/filepath"
	"sync"

	"github.com/blevesearch/bleve/v2"
)

// Engine owns the per-kind bleve indexes. An empty path keeps every index in
// memory, which the tests rely on.
type Engine struct {
	path string

	mu      sync.Mutex
	indexes map[string]bleve.Index
}

// NewEngine creates an engine storing indexes under path, or in memory when
// path is empty.
func NewEngine(path string) *Engine {
	return &Engine{
		path:    path,
		indexes: make(map[string]bleve.Index),
	}
}

// Index returns the index for one entity kind, opening or creating it on
// first use.
func (e *Engine) Index(kind string) (bleve.Index, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if idx, ok := e.indexes[kind]; ok {
		return idx, nil
	}

	idx, err := e.open(kind)
	if err != nil {
		return nil, err
	}
	e.indexes[kind] = idx
	return idx, nil
}

func (e *Engine) open(kind string) (bleve.Index, error) {
	mapping := bleve.NewIndexMapping()
	if e.path == "" {
		return bleve.NewMemOnly(mapping)
	}

	dir := filepath.Join(e.path, kind+".bleve")
	idx, err := bleve.Open(dir)
	if err == bleve.ErrorIndexPathDoesNotExist {
		return bleve.New(dir, mapping)
	}
	return idx, err
}

// Close closes every open index. The engine is unusable afterwards.
func (e *Engine) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	var firstErr error
	for kind, idx := range e.indexes {
		if err := idx.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
		delete(e.indexes, kind)
	}
	return firstErr
}
