package media_test

import (
	"bytes"
	"encoding/binary"
	"hash/crc32"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/stretchr/testify/require"

	"artisanhub/internal/media"
)

func pngOf(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		img.Set(x, 0, color.RGBA{R: 200, A: 255})
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestDownscaleWideImage(t *testing.T) {
	out, err := media.Downscale(bytes.NewReader(pngOf(t, 1024, 256)), 512)
	require.NoError(t, err)
	cfg, format, err := image.DecodeConfig(bytes.NewReader(out))
	require.NoError(t, err)
	require.Equal(t, "png", format)
	require.Equal(t, 512, cfg.Width)
	require.Equal(t, 128, cfg.Height)
}

func TestDownscaleKeepsSmallImage(t *testing.T) {
	in := pngOf(t, 64, 64)
	out, err := media.Downscale(bytes.NewReader(in), 512)
	require.NoError(t, err)
	require.Equal(t, in, out)
}

func TestDownscalePassesThroughNonImages(t *testing.T) {
	out, err := media.Downscale(bytes.NewReader([]byte("not an image")), 512)
	require.NoError(t, err)
	require.Equal(t, "not an image", string(out))
}

// hugePNG is a valid PNG header declaring a w×h canvas with no pixel data.
func hugePNG(w, h uint32) []byte {
	var buf bytes.Buffer
	buf.WriteString("\x89PNG\r\n\x1a\n")
	ihdr := make([]byte, 13)
	binary.BigEndian.PutUint32(ihdr[0:], w)
	binary.BigEndian.PutUint32(ihdr[4:], h)
	ihdr[8] = 8 // bit depth
	ihdr[9] = 6 // RGBA
	chunk := append([]byte("IHDR"), ihdr...)
	_ = binary.Write(&buf, binary.BigEndian, uint32(len(ihdr)))
	buf.Write(chunk)
	_ = binary.Write(&buf, binary.BigEndian, crc32.ChecksumIEEE(chunk))
	return buf.Bytes()
}

func TestDownscaleSkipsOversizedCanvas(t *testing.T) {
	in := hugePNG(100000, 100000)
	cfg, _, err := image.DecodeConfig(bytes.NewReader(in))
	require.NoError(t, err)
	require.Equal(t, 100000, cfg.Width)

	out, err := media.Downscale(bytes.NewReader(in), 512)
	require.NoError(t, err)
	require.Equal(t, in, out)
}
