// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package imgconv converts local image files to JPEG or PNG.
//
// Source decoding goes through the stdlib image registry (JPEG, PNG, GIF,
// plus BMP, TIFF, and WebP via golang.org/x/image). Formats the registry
// cannot handle, HEIC in particular, require a Decoder registered per
// extension; without one the conversion fails cleanly and the original
// file is left untouched.
package imgconv

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	_ "image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/pdiddy/canvas-fetch/pkg/types"
)

// jpegQuality is the encoder quality for JPEG output.
const jpegQuality = 90

// Decoder decodes one image stream. Implementations are registered per
// source extension for formats the stdlib image registry cannot handle.
type Decoder func(r io.Reader) (image.Image, error)

// decoders maps a lower-case extension (".heic") to its registered Decoder.
var decoders = map[string]Decoder{}

// extensionOnly lists extensions that must go through a registered Decoder.
// No decoder ships for them by default.
var extensionOnly = map[string]bool{
	".heic": true,
	".heif": true,
}

// RegisterDecoder installs a decoder for files with the given extension
// (leading dot, case-insensitive). New formats plug in here without
// touching the conversion control flow.
func RegisterDecoder(ext string, d Decoder) {
	decoders[strings.ToLower(ext)] = d
}

// Convert converts the image at path to the target format, writes the
// result alongside the original with the new extension, removes the
// original, and returns the new path. On any failure the original file is
// left untouched and the empty path is returned with the error. The
// original is never removed when source and destination paths coincide.
func Convert(path string, format types.ImageFormat) (string, error) {
	if !format.Valid() {
		return "", fmt.Errorf("unsupported output format %q", format)
	}

	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	img, err := decode(f, strings.ToLower(filepath.Ext(path)))
	if err != nil {
		return "", fmt.Errorf("decoding %s: %w", path, err)
	}

	newPath := strings.TrimSuffix(path, filepath.Ext(path)) + "." + string(format)
	if err := encode(img, newPath, format); err != nil {
		return "", fmt.Errorf("writing %s: %w", newPath, err)
	}

	if newPath != path {
		if err := os.Remove(path); err != nil {
			return "", fmt.Errorf("removing original %s: %w", path, err)
		}
	}
	return newPath, nil
}

// decode picks the registered Decoder for ext when one exists, falls back
// to the stdlib image registry otherwise, and rejects extensions that
// require a Decoder no one registered.
func decode(r io.Reader, ext string) (image.Image, error) {
	if d, ok := decoders[ext]; ok {
		return d(r)
	}
	if extensionOnly[ext] {
		return nil, fmt.Errorf("no decoder registered for %s files", ext)
	}
	img, _, err := image.Decode(r)
	return img, err
}

// encode writes img to path in the target format. A partial file left by
// a failed encode is removed so the destination is all-or-nothing.
func encode(img image.Image, path string, format types.ImageFormat) error {
	out, err := os.Create(path)
	if err != nil {
		return err
	}

	switch format {
	case types.FormatJPEG:
		err = jpeg.Encode(out, flatten(img), &jpeg.Options{Quality: jpegQuality})
	case types.FormatPNG:
		err = png.Encode(out, img)
	}

	closeErr := out.Close()
	if err == nil {
		err = closeErr
	}
	if err != nil {
		os.Remove(path)
		return err
	}
	return nil
}

// flatten draws img over a white background so JPEG encoding, which has
// no alpha channel, always gets fully opaque RGB pixels.
func flatten(img image.Image) image.Image {
	b := img.Bounds()
	dst := image.NewRGBA(b)
	draw.Draw(dst, b, image.NewUniform(color.White), image.Point{}, draw.Src)
	draw.Draw(dst, b, img, b.Min, draw.Over)
	return dst
}
