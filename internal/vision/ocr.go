package vision

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"os/exec"
	"strings"

	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// Images narrower than this are upscaled before OCR; tesseract loses small glyphs.
const minOCRWidth = 1000

var ErrEngineUnavailable = errors.New("ocr engine is not available")

// runFunc executes the OCR engine with the given stdin and returns its stdout.
type runFunc func(ctx context.Context, bin string, args []string, stdin []byte) ([]byte, error)

// Recognizer turns images into text with the tesseract engine.
type Recognizer struct {
	binPath  string
	language string
	run      runFunc
}

func NewRecognizer(binPath, language string) *Recognizer {
	if binPath == "" {
		binPath = "tesseract"
	}
	if language == "" {
		language = "eng"
	}
	return &Recognizer{
		binPath:  binPath,
		language: language,
		run:      execTesseract,
	}
}

// Recognize decodes imageData, prepares it for OCR and returns the trimmed text.
// An image without recognizable text yields "".
func (r *Recognizer) Recognize(ctx context.Context, imageData []byte) (string, error) {
	if len(imageData) == 0 {
		return "", nil
	}

	img, _, err := image.Decode(bytes.NewReader(imageData))
	if err != nil {
		return "", fmt.Errorf("decode image failed: %w", err)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, Preprocess(img)); err != nil {
		return "", fmt.Errorf("encode ocr input failed: %w", err)
	}

	out, err := r.run(ctx, r.binPath, []string{"stdin", "stdout", "-l", r.language}, buf.Bytes())
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(out)), nil
}

// Preprocess converts img to grayscale and upscales it with Catmull-Rom when it
// is narrower than minOCRWidth.
func Preprocess(img image.Image) *image.Gray {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w > 0 && w < minOCRWidth {
		h = h * minOCRWidth / w
		w = minOCRWidth
	}

	dst := image.NewGray(image.Rect(0, 0, w, h))
	if w == bounds.Dx() && h == bounds.Dy() {
		draw.Draw(dst, dst.Bounds(), img, bounds.Min, draw.Src)
		return dst
	}
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Src, nil)
	return dst
}

func execTesseract(ctx context.Context, bin string, args []string, stdin []byte) ([]byte, error) {
	cmd := exec.CommandContext(ctx, bin, args...)
	cmd.Stdin = bytes.NewReader(stdin)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if errors.Is(err, exec.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrEngineUnavailable, bin)
		}
		return nil, fmt.Errorf("run tesseract failed: %w: %s", err, strings.TrimSpace(stderr.String()))
	}
	return stdout.Bytes(), nil
}
