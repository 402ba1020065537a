// Copyright (c) 2026 VaultPass Team
// VaultPass - local credential vault
// This source code is licensed under the MIT license found in the LICENSE file.

// Package backup reads and writes Zstandard-compressed JSON vault dumps.
package backup

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/klauspost/compress/zstd"
	"github.com/toeirei/vaultpass/internal/model"
)

// Suffix is appended to backup file names that lack it.
const Suffix = ".zst"

// DefaultFileName returns vaultpass-backup-YYYY-MM-DD.json.zst for now.
func DefaultFileName(now time.Time) string {
	return fmt.Sprintf("vaultpass-backup-%s.json%s", now.Format("2006-01-02"), Suffix)
}

// FileName normalizes a user supplied name, falling back to DefaultFileName.
func FileName(name string, now time.Time) string {
	if name == "" {
		return DefaultFileName(now)
	}
	if !strings.HasSuffix(name, Suffix) {
		name += Suffix
	}
	return name
}

// Write streams data as indented JSON through a zstd encoder.
func Write(w io.Writer, data *model.BackupData) error {
	zw, err := zstd.NewWriter(w)
	if err != nil {
		return fmt.Errorf("could not create zstd writer: %w", err)
	}
	enc := json.NewEncoder(zw)
	enc.SetIndent("", "  ")
	if err := enc.Encode(data); err != nil {
		_ = zw.Close()
		return fmt.Errorf("could not encode json to zstd writer: %w", err)
	}
	return zw.Close()
}

// Read decodes a dump produced by Write.
func Read(r io.Reader) (*model.BackupData, error) {
	zr, err := zstd.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("could not create zstd reader: %w", err)
	}
	defer zr.Close()

	var data model.BackupData
	if err := json.NewDecoder(zr).Decode(&data); err != nil {
		return nil, fmt.Errorf("could not decode json from zstd reader: %w", err)
	}
	return &data, nil
}

// WriteFile creates filename with mode 0600 and writes data into it.
func WriteFile(filename string, data *model.BackupData) (err error) {
	file, err := os.OpenFile(filename, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("could not create file: %w", err)
	}
	defer func() {
		if cerr := file.Close(); err == nil {
			err = cerr
		}
	}()
	return Write(file, data)
}

// ReadFile opens and decodes filename.
func ReadFile(filename string) (*model.BackupData, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("could not open file: %w", err)
	}
	defer func() { _ = file.Close() }()
	return Read(file)
}
