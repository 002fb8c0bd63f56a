package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/canvas-fetch/internal/imgconv"
	"github.com/pdiddy/canvas-fetch/pkg/types"
)

var convertCmd = &cobra.Command{
	Use:   "convert [files...]",
	Short: "Convert local image files to JPEG or PNG",
	Long: `Convert runs the same image conversion fetch applies with --convert on
already-downloaded files. Each converted file replaces its original; files
that fail to convert are left untouched.`,
	RunE: runConvert,
}

func init() {
	convertCmd.Flags().String("to", string(types.FormatJPEG), "target format (jpg or png)")

	rootCmd.AddCommand(convertCmd)
}

func runConvert(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("provide one or more image files to convert")
	}

	to, _ := cmd.Flags().GetString("to")
	format := types.ImageFormat(to)
	if !format.Valid() {
		return fmt.Errorf("unsupported --to format %q: use %q or %q", to, types.FormatJPEG, types.FormatPNG)
	}

	var converted, failed int
	for _, path := range args {
		newPath, err := imgconv.Convert(path, format)
		if err != nil {
			fmt.Fprintf(os.Stdout, "failed:  %s (%v)\n", path, err)
			failed++
			continue
		}
		fmt.Fprintf(os.Stdout, "converted: %s\n", newPath)
		converted++
	}

	fmt.Fprintf(os.Stdout, "\nBatch summary: %d converted, %d failed (total: %d)\n",
		converted, failed, converted+failed)
	if failed > 0 {
		return fmt.Errorf("%d file(s) failed conversion", failed)
	}
	return nil
}
