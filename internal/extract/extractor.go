package extract

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"strings"

	"edumate/internal/pkg/pdfextract"
)

type Kind string

const (
	KindPDF   Kind = "pdf"
	KindImage Kind = "image"
)

var ErrUnsupportedKind = errors.New("unsupported document kind")

// KindFromMIME maps a declared content type to a document kind.
func KindFromMIME(contentType string) (Kind, error) {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		mediaType = strings.ToLower(strings.TrimSpace(contentType))
	}
	switch {
	case mediaType == "application/pdf":
		return KindPDF, nil
	case strings.HasPrefix(mediaType, "image/"):
		return KindImage, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedKind, contentType)
	}
}

// OCR recognizes text in an encoded image.
type OCR interface {
	Recognize(ctx context.Context, imageData []byte) (string, error)
}

type Extractor struct {
	ocr OCR
}

func NewExtractor(ocr OCR) *Extractor {
	return &Extractor{ocr: ocr}
}

// ExtractText returns the plain text of the document in r. A document with no
// extractable text yields "" and a nil error.
func (e *Extractor) ExtractText(ctx context.Context, r io.Reader, kind Kind) (string, error) {
	switch kind {
	case KindPDF:
		text, err := pdfextract.ExtractText(r)
		if err != nil {
			return "", fmt.Errorf("extract pdf text failed: %w", err)
		}
		return text, nil
	case KindImage:
		data, err := io.ReadAll(r)
		if err != nil {
			return "", fmt.Errorf("read image failed: %w", err)
		}
		text, err := e.ocr.Recognize(ctx, data)
		if err != nil {
			return "", fmt.Errorf("extract image text failed: %w", err)
		}
		return strings.TrimSpace(text), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedKind, kind)
	}
}
