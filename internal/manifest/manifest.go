// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package manifest writes the per-run CSV describing downloaded attachments.
package manifest

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/pdiddy/canvas-fetch/pkg/types"
)

// FileName is the manifest's name inside the output directory.
const FileName = "submissions.csv"

// noSubmission is the Submission Date cell for students who never submitted.
const noSubmission = "No Submission"

// header is the fixed 9-column schema. One row per downloaded attachment.
var header = []string{
	"Student Name", "Canvas ID", "Original Filename", "Renamed Filename",
	"Submission Date", "Submission Comment", "Late", "Grade", "Excused",
}

// Writer appends one manifest row per downloaded attachment. It owns the
// underlying file exclusively for the duration of one run.
type Writer struct {
	f  *os.File
	cw *csv.Writer
}

// Create opens path in truncate mode and writes the header row.
func Create(path string) (*Writer, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("creating manifest %s: %w", path, err)
	}

	w := &Writer{f: f, cw: csv.NewWriter(f)}
	if err := w.cw.Write(header); err != nil {
		f.Close()
		return nil, fmt.Errorf("writing manifest header: %w", err)
	}
	return w, nil
}

// Append writes the row for one submission × attachment pair. The renamed
// filename reflects any conversion that changed the extension.
func (w *Writer) Append(sub types.Submission, originalName, renamedName string) error {
	return w.cw.Write([]string{
		sub.StudentName,
		strconv.FormatInt(sub.UserID, 10),
		originalName,
		renamedName,
		formatDate(sub.SubmittedAt),
		sub.Comments,
		strconv.FormatBool(sub.Late),
		sub.Grade,
		strconv.FormatBool(sub.Excused),
	})
}

// Close flushes buffered rows and closes the file.
func (w *Writer) Close() error {
	w.cw.Flush()
	flushErr := w.cw.Error()
	closeErr := w.f.Close()
	if flushErr != nil {
		return fmt.Errorf("flushing manifest: %w", flushErr)
	}
	return closeErr
}

func formatDate(t *time.Time) string {
	if t == nil {
		return noSubmission
	}
	return t.UTC().Format(time.RFC3339)
}
