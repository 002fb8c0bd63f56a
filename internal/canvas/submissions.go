// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package canvas

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/peterhellberg/link"

	"github.com/pdiddy/canvas-fetch/pkg/types"
)

// unknownStudent is the StudentName default when the response carries no
// user object.
const unknownStudent = "Unknown"

// Pager walks the assignment-submissions endpoint page by page. Query
// parameters are set on the first page URL only; every following page URL
// comes verbatim from the response's Link header entry with rel="next".
// Pagination terminates when a response carries no such entry.
type Pager struct {
	client  *Client
	nextURL string
}

// Submissions returns a Pager positioned at the first page of the
// assignment's submissions, requesting user and comment objects inline.
func (c *Client) Submissions(courseID, assignmentID int64, perPage int) *Pager {
	endpoint := fmt.Sprintf("%sapi/v1/courses/%d/assignments/%d/submissions",
		c.BaseURL, courseID, assignmentID)

	params := url.Values{}
	params.Add("include[]", "user")
	params.Add("include[]", "submission_comments")
	params.Set("per_page", fmt.Sprintf("%d", perPage))

	return &Pager{
		client:  c,
		nextURL: endpoint + "?" + params.Encode(),
	}
}

// Done reports whether pagination has terminated.
func (p *Pager) Done() bool {
	return p.nextURL == ""
}

// Next fetches the current page and returns its submissions in server
// order. Any request or parse failure is fatal to the whole listing; the
// caller must stop paging. Rate-limit waits are announced on w.
func (p *Pager) Next(ctx context.Context, w io.Writer) ([]types.Submission, error) {
	resp, err := p.client.Get(ctx, p.nextURL, w)
	if err != nil {
		return nil, fmt.Errorf("fetching submissions page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("submissions endpoint returned HTTP %d", resp.StatusCode)
	}

	var records []submissionRecord
	if err := json.NewDecoder(resp.Body).Decode(&records); err != nil {
		return nil, fmt.Errorf("parsing submissions page: %w", err)
	}

	p.nextURL = nextPageURL(resp)

	subs := make([]types.Submission, len(records))
	for i, rec := range records {
		subs[i] = rec.normalize()
	}
	return subs, nil
}

// nextPageURL extracts the Link header entry with rel="next", or "" when
// pagination is over.
func nextPageURL(resp *http.Response) string {
	if next, ok := link.ParseResponse(resp)["next"]; ok {
		return next.URI
	}
	return ""
}

// Canvas submissions API JSON structures. Every field the pipeline uses is
// optional in the response; normalize() applies the documented defaults in
// one place so nothing downstream touches the raw record.
type submissionRecord struct {
	UserID             int64              `json:"user_id"`
	SubmittedAt        string             `json:"submitted_at"`
	Late               bool               `json:"late"`
	Grade              *string            `json:"grade"`
	Excused            bool               `json:"excused"`
	User               *userRecord        `json:"user"`
	SubmissionComments []commentRecord    `json:"submission_comments"`
	Attachments        []attachmentRecord `json:"attachments"`
}

type userRecord struct {
	Name string `json:"name"`
}

type commentRecord struct {
	Comment string `json:"comment"`
}

type attachmentRecord struct {
	Filename string `json:"filename"`
	URL      string `json:"url"`
}

// normalize converts a raw API record into a Submission with every default
// applied: name "Unknown", nil timestamp for missing or unparseable dates,
// "; "-joined comments, empty grade when null.
func (r submissionRecord) normalize() types.Submission {
	s := types.Submission{
		StudentName: unknownStudent,
		UserID:      r.UserID,
		Late:        r.Late,
		Excused:     r.Excused,
	}

	if r.User != nil && r.User.Name != "" {
		s.StudentName = r.User.Name
	}

	if r.SubmittedAt != "" {
		if t, err := time.Parse(time.RFC3339, r.SubmittedAt); err == nil {
			s.SubmittedAt = &t
		}
	}

	if r.Grade != nil {
		s.Grade = *r.Grade
	}

	comments := make([]string, 0, len(r.SubmissionComments))
	for _, c := range r.SubmissionComments {
		comments = append(comments, c.Comment)
	}
	s.Comments = strings.Join(comments, "; ")

	for _, a := range r.Attachments {
		s.Attachments = append(s.Attachments, types.Attachment{
			Filename: a.Filename,
			URL:      a.URL,
		})
	}
	return s
}
