// Package fetch drives the submission pipeline: page the assignment's
// submissions, download each attachment under a collision-resistant name,
// optionally convert images, and append one manifest row per downloaded
// attachment.
package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pdiddy/canvas-fetch/internal/canvas"
	"github.com/pdiddy/canvas-fetch/internal/imgconv"
	"github.com/pdiddy/canvas-fetch/internal/manifest"
	"github.com/pdiddy/canvas-fetch/pkg/types"
)

// defaultPerPage is the page size requested when the config leaves it unset.
// 100 is the Canvas maximum.
const defaultPerPage = 100

// Summary holds the outcome of one fetch run.
type Summary struct {
	Submissions int
	Downloaded  int
	Skipped     int
	Failed      int
}

// Total returns the number of attachments processed.
func (s Summary) Total() int {
	return s.Downloaded + s.Skipped + s.Failed
}

// HasFailures reports whether any attachment failed.
func (s Summary) HasFailures() bool {
	return s.Failed > 0
}

// Run validates the identifying inputs, prepares the output directory, and
// drives the pipeline to completion or to the first fatal listing error.
// Per-attachment failures are logged on w and skipped; a listing failure
// terminates the run with the manifest holding the rows written so far.
func Run(ctx context.Context, client *canvas.Client, courseID, assignmentID int64, cfg types.FetchConfig, w io.Writer) (Summary, error) {
	var sum Summary

	if err := validate(client, courseID, assignmentID); err != nil {
		return sum, err
	}

	outDir := cfg.OutputDir
	if outDir == "" {
		outDir = strconv.FormatInt(assignmentID, 10)
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return sum, fmt.Errorf("creating output directory %s: %w", outDir, err)
	}

	mw, err := manifest.Create(filepath.Join(outDir, manifest.FileName))
	if err != nil {
		return sum, err
	}

	perPage := cfg.PerPage
	if perPage <= 0 {
		perPage = defaultPerPage
	}

	var all []types.Submission
	pager := client.Submissions(courseID, assignmentID, perPage)
	for !pager.Done() {
		subs, err := pager.Next(ctx, w)
		if err != nil {
			fmt.Fprintf(w, "error fetching submissions: %v\n", err)
			mw.Close()
			return sum, err
		}

		for _, sub := range subs {
			sum.Submissions++
			processAttachments(ctx, client, sub, outDir, cfg, mw, &sum, w)
		}
		all = append(all, subs...)
	}

	if cfg.WriteMetadata {
		metaPath := filepath.Join(outDir, metadataFileName)
		if err := writeMetadata(all, metaPath); err != nil {
			fmt.Fprintf(w, "warning: %s write failed: %v\n", metadataFileName, err)
		}
	}

	fmt.Fprintf(w, "\nFetch summary: %d downloaded, %d skipped, %d failed across %d submissions\n",
		sum.Downloaded, sum.Skipped, sum.Failed, sum.Submissions)

	if err := mw.Close(); err != nil {
		return sum, err
	}
	return sum, nil
}

// validate checks the four identifying inputs before any network activity.
func validate(client *canvas.Client, courseID, assignmentID int64) error {
	if client.Token == "" {
		return fmt.Errorf("API key is required")
	}
	if !strings.HasPrefix(client.BaseURL, "https://") {
		return fmt.Errorf("base URL %q must use https", client.BaseURL)
	}
	if courseID <= 0 {
		return fmt.Errorf("course ID must be a positive integer, got %d", courseID)
	}
	if assignmentID <= 0 {
		return fmt.Errorf("assignment ID must be a positive integer, got %d", assignmentID)
	}
	return nil
}

// processAttachments downloads every attachment of one submission. A
// failure on one attachment never aborts its siblings or the run.
// Attachments missing a filename or URL are skipped with a notice and
// produce no manifest row.
func processAttachments(ctx context.Context, client *canvas.Client, sub types.Submission, outDir string, cfg types.FetchConfig, mw *manifest.Writer, sum *Summary, w io.Writer) {
	for _, att := range sub.Attachments {
		if att.Filename == "" || att.URL == "" {
			fmt.Fprintf(w, "skipped: attachment missing filename or URL (student %d)\n", sub.UserID)
			sum.Skipped++
			continue
		}

		renamed := att.LocalName(sub.UserID)
		destPath := filepath.Join(outDir, renamed)

		if err := downloadFile(ctx, client, att.URL, destPath, w); err != nil {
			fmt.Fprintf(w, "failed:  %s (student %d): %v\n", att.Filename, sub.UserID, err)
			sum.Failed++
			continue
		}

		if cfg.ConvertTo != "" {
			newPath, err := imgconv.Convert(destPath, cfg.ConvertTo)
			if err != nil {
				fmt.Fprintf(w, "conversion failed for %s, keeping original: %v\n", renamed, err)
			} else {
				renamed = filepath.Base(newPath)
			}
		}

		if err := mw.Append(sub, att.Filename, renamed); err != nil {
			fmt.Fprintf(w, "failed:  manifest row for %s: %v\n", renamed, err)
			sum.Failed++
			continue
		}

		fmt.Fprintf(w, "downloaded: %s\n", renamed)
		sum.Downloaded++
	}
}

// downloadFile streams url to destPath through a temporary file, renaming
// on success so a failed transfer never leaves a truncated attachment at
// the final path. The request carries the client's credential since Canvas
// attachment URLs require it.
func downloadFile(ctx context.Context, client *canvas.Client, url, destPath string, w io.Writer) error {
	resp, err := client.Get(ctx, url, w)
	if err != nil {
		return fmt.Errorf("HTTP request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("HTTP %d from %s", resp.StatusCode, url)
	}

	tmpFile, err := os.CreateTemp(filepath.Dir(destPath), ".fetch-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	_, copyErr := io.Copy(tmpFile, resp.Body)
	closeErr := tmpFile.Close()
	if copyErr != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("writing download: %w", copyErr)
	}
	if closeErr != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("closing temp file: %w", closeErr)
	}

	if err := os.Rename(tmpPath, destPath); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("renaming temp file: %w", err)
	}
	return nil
}
