// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package canvas

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/pdiddy/canvas-fetch/internal/httputil"
)

func init() {
	httputil.RetryAfterUnit = 1 * time.Millisecond
}

func TestParseCourseURL(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		wantBase string
		wantID   int64
		wantErr  bool
	}{
		{"https course", "https://canvas.example.com/courses/123", "https://canvas.example.com/", 123, false},
		{"http course", "http://canvas.example.com/courses/42", "http://canvas.example.com/", 42, false},
		{"trailing path ignored", "https://canvas.example.com/courses/123/assignments/7", "https://canvas.example.com/", 123, false},
		{"missing course id", "https://canvas.example.com/courses/", "", 0, true},
		{"non-numeric id", "https://canvas.example.com/courses/abc", "", 0, true},
		{"not a course url", "https://canvas.example.com/about", "", 0, true},
		{"bare host", "canvas.example.com/courses/123", "", 0, true},
		{"empty", "", "", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			base, id, err := ParseCourseURL(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ParseCourseURL(%q) expected error, got base=%q id=%d", tt.input, base, id)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseCourseURL(%q): %v", tt.input, err)
			}
			if base != tt.wantBase {
				t.Errorf("base = %q, want %q", base, tt.wantBase)
			}
			if id != tt.wantID {
				t.Errorf("courseID = %d, want %d", id, tt.wantID)
			}
		})
	}
}

const submissionPageJSON = `[
  {
    "user_id": 1001,
    "submitted_at": "2024-03-04T12:30:00Z",
    "late": true,
    "grade": "87",
    "excused": false,
    "user": {"name": "Alice Smith"},
    "submission_comments": [
      {"comment": "First draft"},
      {"comment": "Resubmitted"}
    ],
    "attachments": [
      {"filename": "essay.pdf", "url": "https://files.example.com/essay.pdf"}
    ]
  },
  {
    "user_id": 1002,
    "submitted_at": null,
    "late": false,
    "grade": null,
    "excused": true,
    "user": null,
    "submission_comments": [],
    "attachments": []
  }
]`

func testClient(ts *httptest.Server) *Client {
	return &Client{
		BaseURL:    ts.URL + "/",
		Token:      "test-token",
		UserAgent:  "canvas-fetch-test/0.1",
		HTTPClient: ts.Client(),
	}
}

func TestPagerParsesAndNormalizes(t *testing.T) {
	var gotAuth, gotURI string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotURI = r.URL.RequestURI()
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, submissionPageJSON)
	}))
	defer ts.Close()

	pager := testClient(ts).Submissions(123, 456, 100)
	subs, err := pager.Next(context.Background(), io.Discard)
	if err != nil {
		t.Fatalf("Next: %v", err)
	}

	if gotAuth != "Bearer test-token" {
		t.Errorf("Authorization = %q, want bearer token", gotAuth)
	}
	if !strings.HasPrefix(gotURI, "/api/v1/courses/123/assignments/456/submissions?") {
		t.Errorf("request URI = %q, want submissions endpoint", gotURI)
	}
	for _, param := range []string{"include%5B%5D=user", "include%5B%5D=submission_comments", "per_page=100"} {
		if !strings.Contains(gotURI, param) {
			t.Errorf("request URI %q missing %q", gotURI, param)
		}
	}

	if len(subs) != 2 {
		t.Fatalf("len(subs) = %d, want 2", len(subs))
	}

	alice := subs[0]
	if alice.StudentName != "Alice Smith" {
		t.Errorf("StudentName = %q, want %q", alice.StudentName, "Alice Smith")
	}
	if alice.UserID != 1001 {
		t.Errorf("UserID = %d, want 1001", alice.UserID)
	}
	if alice.SubmittedAt == nil || !alice.SubmittedAt.Equal(time.Date(2024, 3, 4, 12, 30, 0, 0, time.UTC)) {
		t.Errorf("SubmittedAt = %v, want 2024-03-04T12:30:00Z", alice.SubmittedAt)
	}
	if alice.Comments != "First draft; Resubmitted" {
		t.Errorf("Comments = %q", alice.Comments)
	}
	if !alice.Late || alice.Grade != "87" || alice.Excused {
		t.Errorf("flags = late=%v grade=%q excused=%v", alice.Late, alice.Grade, alice.Excused)
	}
	if len(alice.Attachments) != 1 || alice.Attachments[0].Filename != "essay.pdf" {
		t.Errorf("Attachments = %+v", alice.Attachments)
	}

	// Absent fields take their documented defaults.
	missing := subs[1]
	if missing.StudentName != "Unknown" {
		t.Errorf("StudentName default = %q, want %q", missing.StudentName, "Unknown")
	}
	if missing.SubmittedAt != nil {
		t.Errorf("SubmittedAt default = %v, want nil", missing.SubmittedAt)
	}
	if missing.Grade != "" {
		t.Errorf("Grade default = %q, want empty", missing.Grade)
	}
	if !missing.Excused {
		t.Error("Excused should carry through")
	}

	if !pager.Done() {
		t.Error("pager should be done: response had no next link")
	}
}

func TestPagerFollowsNextLinksExactly(t *testing.T) {
	var fetches int
	var ts *httptest.Server
	ts = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fetches++
		// Three pages carry a rel="next" entry pointing at the following
		// page; the third page carries only rel="current".
		switch {
		case fetches < 3:
			w.Header().Set("Link", fmt.Sprintf(`<%s/page/%d>; rel="next", <%s>; rel="current"`, ts.URL, fetches+1, ts.URL))
		default:
			w.Header().Set("Link", fmt.Sprintf(`<%s>; rel="current"`, ts.URL))
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `[{"user_id": 1}]`)
	}))
	defer ts.Close()

	pager := testClient(ts).Submissions(1, 2, 100)
	var total int
	for !pager.Done() {
		subs, err := pager.Next(context.Background(), io.Discard)
		if err != nil {
			t.Fatalf("Next: %v", err)
		}
		total += len(subs)
	}

	if fetches != 3 {
		t.Errorf("fetches = %d, want exactly 3", fetches)
	}
	if total != 3 {
		t.Errorf("total submissions = %d, want 3", total)
	}
}

func TestPagerRateLimitReissuesSameRequest(t *testing.T) {
	var uris []string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		uris = append(uris, r.URL.RequestURI())
		if len(uris) == 1 {
			w.Header().Set("Retry-After", "2")
			w.WriteHeader(http.StatusForbidden)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `[]`)
	}))
	defer ts.Close()

	var buf strings.Builder
	pager := testClient(ts).Submissions(1, 2, 100)
	if _, err := pager.Next(context.Background(), &buf); err != nil {
		t.Fatalf("Next: %v", err)
	}

	if len(uris) != 2 {
		t.Fatalf("requests = %d, want 2 (rate-limited then reissued)", len(uris))
	}
	if uris[0] != uris[1] {
		t.Errorf("reissued URI %q differs from original %q", uris[1], uris[0])
	}
	if !strings.Contains(buf.String(), "rate limited") {
		t.Error("output should announce the rate-limit wait")
	}
}

func TestPagerErrorStatusIsFatal(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer ts.Close()

	pager := testClient(ts).Submissions(1, 2, 100)
	_, err := pager.Next(context.Background(), io.Discard)
	if err == nil {
		t.Fatal("expected error for HTTP 401")
	}
	if !strings.Contains(err.Error(), "HTTP 401") {
		t.Errorf("error = %q, want mention of HTTP 401", err.Error())
	}
}
