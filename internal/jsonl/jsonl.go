// Package jsonl reads and writes JSON Lines files, the interchange
// format between dossier generation and database loading.
package jsonl

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
)

// maxLineSize bounds a single record; dossier texts run to tens of
// kilobytes, so the default scanner buffer is too small.
const maxLineSize = 4 * 1024 * 1024

// Load reads all records from a JSON Lines file. Blank lines are
// skipped; a malformed line is a hard error, not a dropped record.
func Load[T any](path string) ([]T, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	var records []T
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 64*1024), maxLineSize)

	line := 0
	for scanner.Scan() {
		line++
		raw := scanner.Bytes()
		if len(raw) == 0 {
			continue
		}
		var record T
		if err := json.Unmarshal(raw, &record); err != nil {
			return nil, fmt.Errorf("%s line %d: %w", path, line, err)
		}
		records = append(records, record)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return records, nil
}

// Append writes records to the end of a JSON Lines file, creating it
// if needed.
func Append[T any](path string, records []T) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	return write(f, records)
}

// Overwrite replaces the file contents with the given records.
func Overwrite[T any](path string, records []T) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer f.Close()

	return write(f, records)
}

// Exists reports whether the file can be stat'ed. An unreadable path
// counts as absent rather than sending the caller into Load.
func Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// write encodes each record as one JSON line.
func write[T any](f *os.File, records []T) error {
	w := bufio.NewWriter(f)
	enc := json.NewEncoder(w)
	for _, record := range records {
		if err := enc.Encode(record); err != nil {
			return fmt.Errorf("encoding record: %w", err)
		}
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("flushing: %w", err)
	}
	return nil
}
