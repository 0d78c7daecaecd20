// Package media normalizes uploaded profile pictures.
package media

import (
	"bytes"
	"image"
	"image/jpeg"
	"image/png"
	"io"

	"github.com/nfnt/resize"
)

// MaxProfileWidth bounds stored profile pictures.
const MaxProfileWidth = 512

// MaxDecodePixels caps the canvas Downscale is willing to decode.
const MaxDecodePixels = 40_000_000

// Downscale returns the data re-encoded at most maxWidth pixels wide when it
// is a PNG or JPEG wider than that. Anything else (GIF, undecodable data,
// already small images, canvases over MaxDecodePixels) comes back unchanged.
func Downscale(r io.Reader, maxWidth uint) ([]byte, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil || cfg.Width <= int(maxWidth) || int64(cfg.Width)*int64(cfg.Height) > MaxDecodePixels {
		return data, nil
	}
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil || (format != "png" && format != "jpeg") {
		return data, nil
	}
	if uint(img.Bounds().Dx()) <= maxWidth {
		return data, nil
	}
	small := resize.Resize(maxWidth, 0, img, resize.Lanczos3)

	var buf bytes.Buffer
	if format == "png" {
		err = png.Encode(&buf, small)
	} else {
		err = jpeg.Encode(&buf, small, &jpeg.Options{Quality: 85})
	}
	if err != nil {
		return data, nil
	}
	return buf.Bytes(), nil
}
