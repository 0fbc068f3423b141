package storage

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"sync"
)

// Document is a single JSON document at a fixed path. It remembers the hash of
// the bytes it last read or wrote so callers can skip reloads of content they
// already hold.
type Document struct {
	storage Storage
	path    string

	mu  sync.Mutex
	sum [sha256.Size]byte
}

func NewDocument(s Storage, path string) *Document {
	return &Document{storage: s, path: path}
}

func (d *Document) Path() string {
	return d.path
}

// Load decodes the document into v. It reports changed=false, leaving v
// untouched, when the stored bytes equal the last ones seen. A missing
// document is ErrNotFound and an undecodable one is ErrCorrupt.
func (d *Document) Load(ctx context.Context, v any) (changed bool, err error) {
	data, err := d.storage.Read(ctx, d.path)
	if err != nil {
		return false, err
	}
	sum := sha256.Sum256(data)

	d.mu.Lock()
	defer d.mu.Unlock()
	if sum == d.sum {
		return false, nil
	}
	d.sum = sum
	if err := json.Unmarshal(data, v); err != nil {
		return true, fmt.Errorf("%s: %w: %w", d.path, ErrCorrupt, err)
	}
	return true, nil
}

// Save replaces the stored document with the JSON encoding of v.
func (d *Document) Save(ctx context.Context, v any) error {
	buf := &bytes.Buffer{}
	enc := json.NewEncoder(buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to encode %s: %w", d.path, err)
	}
	data := buf.Bytes()
	if err := d.storage.Write(ctx, d.path, data); err != nil {
		return err
	}
	d.mu.Lock()
	d.sum = sha256.Sum256(data)
	d.mu.Unlock()
	return nil
}
