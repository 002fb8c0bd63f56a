// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package canvas

import (
	"fmt"
	"regexp"
	"strconv"
)

// coursePattern matches Canvas course URLs: "https://canvas.example.com/courses/12345".
var coursePattern = regexp.MustCompile(`^(https?://[^/]+)/courses/(\d+)`)

// ParseCourseURL extracts the instance base address and the course ID from
// a Canvas course URL. The returned base address carries a trailing slash.
// A string that does not match the course-URL pattern is a configuration
// error and must abort the run.
func ParseCourseURL(courseURL string) (baseURL string, courseID int64, err error) {
	m := coursePattern.FindStringSubmatch(courseURL)
	if m == nil {
		return "", 0, fmt.Errorf("invalid course URL %q: expected https://host/courses/<id>", courseURL)
	}

	courseID, err = strconv.ParseInt(m[2], 10, 64)
	if err != nil {
		return "", 0, fmt.Errorf("parsing course ID from %q: %w", courseURL, err)
	}
	return m[1] + "/", courseID, nil
}
