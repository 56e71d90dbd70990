// Package backup writes and restores zstd-compressed registry snapshots.
package backup

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/klauspost/compress/zstd"

	"github.com/osse101/armorsmith/internal/repository"
)

// Extension is appended to every backup file name
const Extension = ".json.zst"

const timestampLayout = "20060102T150405Z"

// Path names a backup of realm taken at now inside dir
func Path(dir, realm string, now time.Time) string {
	name := fmt.Sprintf("registry_%s_%s%s", sanitize(realm), now.UTC().Format(timestampLayout), Extension)
	return filepath.Join(dir, name)
}

// sanitize keeps realm ids usable as file name fragments
func sanitize(realm string) string {
	if realm == "" {
		return "all"
	}
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-':
			return r
		}
		return '_'
	}, realm)
}

// Write stores doc at path as zstd-compressed JSON
func Write(path string, doc *repository.Document) (err error) {
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to encode backup: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create backup directory: %w", err)
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_EXCL, 0o644)
	if err != nil {
		return fmt.Errorf("failed to create backup %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); err == nil && cerr != nil {
			err = fmt.Errorf("failed to close backup %s: %w", path, cerr)
		}
	}()

	enc, err := zstd.NewWriter(f, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return err
	}
	if _, err := enc.Write(data); err != nil {
		enc.Close()
		return fmt.Errorf("failed to compress backup: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("failed to compress backup: %w", err)
	}
	return f.Sync()
}

// Read restores the document stored at path
func Read(path string) (*repository.Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open backup %s: %w", path, err)
	}
	defer f.Close()

	dec, err := zstd.NewReader(f)
	if err != nil {
		return nil, err
	}
	defer dec.Close()

	doc := repository.NewDocument()
	if err := json.NewDecoder(dec).Decode(doc); err != nil {
		return nil, fmt.Errorf("failed to decode backup %s: %w", path, err)
	}
	return doc, nil
}
