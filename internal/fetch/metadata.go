// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package fetch

import (
	"fmt"
	"os"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/canvas-fetch/pkg/types"
)

// metadataFileName is the optional structured record written next to the
// manifest. It keeps the typed Submission fields the 9-column CSV flattens
// away.
const metadataFileName = "submissions.yaml"

// writeMetadata writes the full submission records to a YAML file.
func writeMetadata(subs []types.Submission, path string) error {
	data, err := yaml.Marshal(subs)
	if err != nil {
		return fmt.Errorf("marshaling submission records: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}
