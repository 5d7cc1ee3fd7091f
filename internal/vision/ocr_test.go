package vision

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func encodePNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: 200, G: 30, B: 30, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestPreprocessUpscalesNarrowImages(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 200, 100))
	out := Preprocess(src)
	assert.Equal(t, minOCRWidth, out.Bounds().Dx())
	assert.Equal(t, 500, out.Bounds().Dy())
}

func TestPreprocessKeepsWideImages(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 1200, 300))
	out := Preprocess(src)
	assert.Equal(t, 1200, out.Bounds().Dx())
	assert.Equal(t, 300, out.Bounds().Dy())
}

func TestRecognizeSendsGrayPNGToEngine(t *testing.T) {
	r := NewRecognizer("", "")
	var gotBin string
	var gotArgs []string
	r.run = func(_ context.Context, bin string, args []string, stdin []byte) ([]byte, error) {
		gotBin, gotArgs = bin, args
		img, err := png.Decode(bytes.NewReader(stdin))
		require.NoError(t, err)
		_, isGray := img.(*image.Gray)
		assert.True(t, isGray)
		return []byte("  Photosynthesis converts light.\n\n"), nil
	}

	text, err := r.Recognize(context.Background(), encodePNG(t, 40, 20))
	require.NoError(t, err)
	assert.Equal(t, "Photosynthesis converts light.", text)
	assert.Equal(t, "tesseract", gotBin)
	assert.Equal(t, []string{"stdin", "stdout", "-l", "eng"}, gotArgs)
}

func TestRecognizeEmptyAndInvalid(t *testing.T) {
	r := NewRecognizer("tesseract", "eng")
	r.run = func(context.Context, string, []string, []byte) ([]byte, error) {
		return nil, errors.New("should not run")
	}

	text, err := r.Recognize(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, "", text)

	_, err = r.Recognize(context.Background(), []byte("not an image"))
	assert.Error(t, err)
}

func TestRecognizeMissingBinary(t *testing.T) {
	r := NewRecognizer("/nonexistent/tesseract-binary", "eng")
	_, err := r.Recognize(context.Background(), encodePNG(t, 10, 10))
	require.Error(t, err)
}
