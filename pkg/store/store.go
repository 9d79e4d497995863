// Package store persists whole JSON documents by name. Every Load reads the
// backend again and every Save rewrites the full document; there is no cache
// in front of the file backend.
package store

import (
	stderrors "errors"
	"fmt"
	"sync"

	"github.com/PancyStudios/StrikeTrackerBot/pkg/logger"
	"github.com/goccy/go-json"
)

// Document names
const (
	StrikerData   = "strikerdata"
	StrikerConfig = "strikerconfig"
	TrackerData   = "trackerdata"
)

// ErrNotExist is returned by a Backend when the named document was never written
var ErrNotExist = stderrors.New("store: document does not exist")

// Backend reads and writes raw document bytes
type Backend interface {
	Read(name string) ([]byte, error)
	Write(name string, data []byte) error
}

// Document is a typed view over one named document of a Backend
type Document[T any] struct {
	name    string
	backend Backend
	empty   func() T
	mu      sync.Mutex
}

// NewDocument creates a Document. empty returns the value used when the
// document is absent or cannot be decoded.
func NewDocument[T any](backend Backend, name string, empty func() T) *Document[T] {
	return &Document[T]{
		name:    name,
		backend: backend,
		empty:   empty,
	}
}

// Name returns the document name
func (d *Document[T]) Name() string {
	return d.name
}

// Load returns the stored value. It never fails: missing, unreadable or
// malformed documents yield the empty value.
func (d *Document[T]) Load() T {
	v, err := d.read()
	if err != nil {
		logger.Warn(fmt.Sprintf("Could not read %s, using an empty document: %v", d.name, err), "STORE")
		return d.empty()
	}
	return v
}

// Save replaces the stored document
func (d *Document[T]) Save(v T) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.write(v)
}

// Update runs a read-modify-write cycle under the document lock. fn's error
// aborts the write. A backend read failure also aborts, so an unreachable
// backend never gets overwritten with an empty document.
func (d *Document[T]) Update(fn func(v *T) error) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	v, err := d.read()
	if err != nil {
		return fmt.Errorf("read %s: %w", d.name, err)
	}
	if err := fn(&v); err != nil {
		return err
	}
	return d.write(v)
}

// read treats absent and malformed documents as empty; only backend
// failures are returned.
func (d *Document[T]) read() (T, error) {
	raw, err := d.backend.Read(d.name)
	if err != nil {
		if stderrors.Is(err, ErrNotExist) {
			return d.empty(), nil
		}
		return d.empty(), err
	}

	v := d.empty()
	if err := json.Unmarshal(raw, &v); err != nil {
		logger.Warn(fmt.Sprintf("Malformed %s document, starting empty: %v", d.name, err), "STORE")
		return d.empty(), nil
	}
	return v, nil
}

func (d *Document[T]) write(v T) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", d.name, err)
	}
	if err := d.backend.Write(d.name, data); err != nil {
		return fmt.Errorf("write %s: %w", d.name, err)
	}
	return nil
}
