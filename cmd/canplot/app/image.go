package app

import (
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"os"
)

const jpegQuality = 98

func encodeImage(w io.Writer, img image.Image, format ImageFormat) error {
	switch format {
	case ImagePNG:
		return png.Encode(w, img)

	case ImageJPEG:
		return jpeg.Encode(w, img, &jpeg.Options{
			Quality: jpegQuality,
		})

	default:
		return fmt.Errorf("invalid image format: %s", format)
	}
}

func writeImage(path string, img image.Image, format ImageFormat) (err error) {
	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating image file: %w", err)
	}
	defer func() {
		if cErr := out.Close(); cErr != nil && err == nil {
			err = cErr
		}
	}()

	if err = encodeImage(out, img, format); err != nil {
		return fmt.Errorf("encoding %s: %w", format, err)
	}
	return nil
}
