package internal

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
)

// CSVHeader is the first row of every export
var CSVHeader = []string{"Video Title", "Video Description", "Transcript"}

// CSVWriter streams export rows to disk, flushing after each one so a
// cancelled run keeps everything written so far
type CSVWriter struct {
	path string
	file *os.File
	w    *csv.Writer
	rows int
}

// CreateCSV truncates or creates path and writes the header row
func CreateCSV(path string) (*CSVWriter, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := EnsureDirs(dir); err != nil {
			return nil, fmt.Errorf("creating output directory: %w", err)
		}
	}

	file, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("creating output file: %w", err)
	}

	cw := &CSVWriter{path: path, file: file, w: csv.NewWriter(file)}
	if err := cw.write(CSVHeader); err != nil {
		file.Close()
		return nil, fmt.Errorf("writing header: %w", err)
	}
	return cw, nil
}

// WriteRow appends one video row
func (cw *CSVWriter) WriteRow(title, description, transcript string) error {
	if err := cw.write([]string{title, description, transcript}); err != nil {
		return fmt.Errorf("writing row %d: %w", cw.rows, err)
	}
	cw.rows++
	return nil
}

// Rows returns the number of data rows written, header excluded
func (cw *CSVWriter) Rows() int {
	return cw.rows
}

// Path returns the output file path
func (cw *CSVWriter) Path() string {
	return cw.path
}

// Close flushes pending data and closes the file. Safe to call twice.
func (cw *CSVWriter) Close() error {
	if cw.file == nil {
		return nil
	}
	cw.w.Flush()
	flushErr := cw.w.Error()
	closeErr := cw.file.Close()
	cw.file = nil
	if flushErr != nil {
		return fmt.Errorf("flushing output: %w", flushErr)
	}
	if closeErr != nil {
		return fmt.Errorf("closing output: %w", closeErr)
	}
	return nil
}

func (cw *CSVWriter) write(record []string) error {
	if cw.file == nil {
		return os.ErrClosed
	}
	if err := cw.w.Write(record); err != nil {
		return err
	}
	cw.w.Flush()
	return cw.w.Error()
}
