// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"fmt"
	"time"
)

// Submission holds the normalized record for one student's submission.
// It is produced once at the API parse boundary; every field has a
// defined default so downstream code never re-checks the raw response.
type Submission struct {
	// StudentName is the display name of the submitting student.
	// Default "Unknown" when the user object is absent from the response.
	StudentName string `json:"student_name" yaml:"student_name"`

	// UserID is the numeric Canvas user ID. Default 0 when absent.
	UserID int64 `json:"user_id" yaml:"user_id"`

	// SubmittedAt is the submission timestamp, nil when the student never
	// submitted. The manifest renders nil as "No Submission".
	SubmittedAt *time.Time `json:"submitted_at,omitempty" yaml:"submitted_at,omitempty"`

	// Comments is the "; "-joined text of all submission comments.
	// Default "" when there are no comments.
	Comments string `json:"comments" yaml:"comments"`

	// Late reports whether Canvas flagged the submission late. Default false.
	Late bool `json:"late" yaml:"late"`

	// Grade is the assigned grade as Canvas reports it ("87", "A-").
	// Default "" when ungraded.
	Grade string `json:"grade" yaml:"grade"`

	// Excused reports whether the student was excused. Default false.
	Excused bool `json:"excused" yaml:"excused"`

	// Attachments lists the submitted files in server order. Default empty.
	Attachments []Attachment `json:"attachments" yaml:"attachments"`
}

// Attachment holds one submitted file.
type Attachment struct {
	// Filename is the original filename as uploaded by the student.
	// Default "" when absent; such attachments are skipped.
	Filename string `json:"filename" yaml:"filename"`

	// URL is the authenticated download URL. Default "" when absent;
	// such attachments are skipped.
	URL string `json:"url" yaml:"url"`
}

// LocalName returns the collision-resistant on-disk name for the
// attachment, "{user_id}_{original filename}".
func (a Attachment) LocalName(userID int64) string {
	return fmt.Sprintf("%d_%s", userID, a.Filename)
}
