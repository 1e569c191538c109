package debug

import (
	"bytes"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/bmp"
)

func testImage() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, 4, 2))
	draw.Draw(img, img.Bounds(), image.NewUniform(color.Black), image.Point{}, draw.Src)
	img.Set(0, 0, color.RGBA{255, 0, 0, 255})
	img.Set(3, 1, color.RGBA{0, 0, 255, 255})
	return img
}

func TestFormatFor(t *testing.T) {
	tests := []struct {
		path    string
		want    Format
		wantErr bool
	}{
		{"out.png", PNG, false},
		{"OUT.PNG", PNG, false},
		{"dir/out.bmp", BMP, false},
		{"out.jpg", 0, true},
		{"out", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			f, err := FormatFor(tt.path)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrUnknownFormat)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, f)
		})
	}
}

func TestEncodeRoundTrip(t *testing.T) {
	src := testImage()

	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, src, BMP))
	got, err := bmp.Decode(&buf)
	require.NoError(t, err)
	r, _, _, _ := got.At(0, 0).RGBA()
	_, _, b, _ := got.At(3, 1).RGBA()
	assert.Equal(t, uint32(0xffff), r)
	assert.Equal(t, uint32(0xffff), b)

	buf.Reset()
	require.NoError(t, Encode(&buf, src, PNG))
	_, err = png.Decode(&buf)
	require.NoError(t, err)
}

func TestSaveCreatesDir(t *testing.T) {
	path := filepath.Join(t.TempDir(), "shots", "frame.bmp")
	require.NoError(t, Save(path, testImage()))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "BM", string(data[:2]))
}

func TestScreenshotCapture(t *testing.T) {
	dir := t.TempDir()
	sc := NewScreenshotCapture(dir, "meshview")
	sc.now = func() time.Time { return time.Date(2024, 3, 9, 14, 5, 7, 0, time.UTC) }

	path, err := sc.Capture(testImage())
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "meshview_2024-03-09_14-05-07.png"), path)
	assert.FileExists(t, path)
}
