package extract

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubOCR struct {
	text string
	err  error
	got  []byte
}

func (s *stubOCR) Recognize(_ context.Context, data []byte) (string, error) {
	s.got = data
	return s.text, s.err
}

func TestKindFromMIME(t *testing.T) {
	tests := []struct {
		in      string
		want    Kind
		wantErr bool
	}{
		{in: "application/pdf", want: KindPDF},
		{in: "image/png", want: KindImage},
		{in: "image/jpeg; charset=binary", want: KindImage},
		{in: "IMAGE/WEBP", want: KindImage},
		{in: "text/plain", wantErr: true},
		{in: "", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := KindFromMIME(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrUnsupportedKind)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestExtractTextEmptyPDF(t *testing.T) {
	e := NewExtractor(&stubOCR{})
	text, err := e.ExtractText(context.Background(), bytes.NewReader(nil), KindPDF)
	require.NoError(t, err)
	assert.Equal(t, "", text)
}

func TestExtractTextImageUsesOCR(t *testing.T) {
	ocr := &stubOCR{text: "\n  Cells divide by mitosis. \n"}
	e := NewExtractor(ocr)

	text, err := e.ExtractText(context.Background(), bytes.NewReader([]byte("img-bytes")), KindImage)
	require.NoError(t, err)
	assert.Equal(t, "Cells divide by mitosis.", text)
	assert.Equal(t, []byte("img-bytes"), ocr.got)
}

func TestExtractTextImageFailure(t *testing.T) {
	e := NewExtractor(&stubOCR{err: errors.New("engine crashed")})
	_, err := e.ExtractText(context.Background(), bytes.NewReader([]byte("x")), KindImage)
	assert.Error(t, err)
}

func TestExtractTextUnsupportedKind(t *testing.T) {
	e := NewExtractor(&stubOCR{})
	_, err := e.ExtractText(context.Background(), bytes.NewReader(nil), Kind("docx"))
	assert.ErrorIs(t, err, ErrUnsupportedKind)
}
