package main

import (
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/canvas-fetch/internal/canvas"
	"github.com/pdiddy/canvas-fetch/internal/config"
	"github.com/pdiddy/canvas-fetch/internal/fetch"
	"github.com/pdiddy/canvas-fetch/pkg/types"
)

const (
	defaultTimeout = 60 * time.Second
	defaultPerPage = 100
	secretsDir     = ".secrets/"
)

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Download all submissions for one assignment",
	Long: `Fetch pages through the assignment's submissions, downloads every
attachment to the output directory as {user_id}_{filename}, and writes
submissions.csv with one row per downloaded attachment. With --convert,
image attachments are converted to the chosen format after download.`,
	RunE: runFetch,
}

func init() {
	fetchCmd.Flags().Int64("assignment", 0, "Canvas assignment ID (required)")
	fetchCmd.Flags().String("output", "", "output directory (default: ./<assignment id>)")
	fetchCmd.Flags().String("convert", "", "convert image attachments to this format (jpg or png)")
	fetchCmd.Flags().Bool("metadata", false, "also write submissions.yaml with full submission records")
	fetchCmd.Flags().Duration("timeout", 0, "HTTP request timeout (default 60s)")
	fetchCmd.Flags().Int("per-page", 0, "submissions page size (default 100)")
	fetchCmd.MarkFlagRequired("assignment")

	rootCmd.AddCommand(fetchCmd)
}

func runFetch(cmd *cobra.Command, args []string) error {
	assignmentID, _ := cmd.Flags().GetInt64("assignment")
	output, _ := cmd.Flags().GetString("output")
	convertTo, _ := cmd.Flags().GetString("convert")
	metadata, _ := cmd.Flags().GetBool("metadata")
	timeout, _ := cmd.Flags().GetDuration("timeout")
	perPage, _ := cmd.Flags().GetInt("per-page")

	if timeout == 0 {
		timeout = defaultTimeout
	}
	if perPage == 0 {
		perPage = defaultPerPage
	}

	format := types.ImageFormat(convertTo)
	if convertTo != "" && !format.Valid() {
		return fmt.Errorf("unsupported --convert format %q: use %q or %q", convertTo, types.FormatJPEG, types.FormatPNG)
	}

	cc, err := config.Load(os.Getenv, secretsDir)
	if err != nil {
		return err
	}
	if cc.APIKey == "" {
		cc.APIKey = viper.GetString("api_key")
	}
	if cc.CourseURL == "" {
		cc.CourseURL = viper.GetString("course_url")
	}
	if err := cc.Validate(); err != nil {
		return err
	}

	baseURL, courseID, err := canvas.ParseCourseURL(cc.CourseURL)
	if err != nil {
		return err
	}

	client := &canvas.Client{
		BaseURL:   baseURL,
		Token:     cc.APIKey,
		UserAgent: "canvas-fetch/" + version,
		HTTPClient: &http.Client{
			Timeout: timeout,
		},
	}

	cfg := types.FetchConfig{
		HTTPConfig: types.HTTPConfig{
			Timeout:   timeout,
			UserAgent: client.UserAgent,
		},
		PerPage:       perPage,
		OutputDir:     output,
		ConvertTo:     format,
		WriteMetadata: metadata,
	}

	// Per-attachment failures are reported in the summary, not the exit
	// status; only configuration and listing errors abort.
	_, err = fetch.Run(cmd.Context(), client, courseID, assignmentID, cfg, os.Stdout)
	return err
}
