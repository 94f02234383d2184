// Package docstore persists JSON documents addressed by slash separated key paths.
package docstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ErrNotFound is returned when no document exists at a path.
var ErrNotFound = errors.New("document not found")

// Store is a key-path document database with write/patch/read semantics.
type Store interface {
	// Write stores doc at path, replacing any existing document.
	Write(ctx context.Context, path string, doc interface{}) error
	// Patch merges fields into the top level of an existing document.
	Patch(ctx context.Context, path string, fields map[string]interface{}) error
	// Read decodes the document at path into dest.
	Read(ctx context.Context, path string, dest interface{}) error
	Ping(ctx context.Context) error
	Close() error
}

// Join builds a normalised key path from segments.
func Join(segments ...string) string {
	parts := make([]string, 0, len(segments))
	for _, s := range segments {
		s = strings.Trim(s, "/")
		if s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, "/")
}

func validatePath(path string) error {
	if path == "" {
		return fmt.Errorf("empty document path")
	}
	for _, seg := range strings.Split(path, "/") {
		if seg == "" || seg == "." || seg == ".." {
			return fmt.Errorf("invalid document path %q", path)
		}
	}
	return nil
}

func merge(raw []byte, fields map[string]interface{}) ([]byte, error) {
	doc := map[string]interface{}{}
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("decode document: %w", err)
	}
	for k, v := range fields {
		doc[k] = v
	}
	out, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("encode document: %w", err)
	}
	return out, nil
}
