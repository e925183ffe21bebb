package pdf

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{R: 15, G: 105, B: 180, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestFpdfSurfaceRendersPages(t *testing.T) {
	s := NewFpdfSurface(A4())
	require.NoError(t, s.RegisterImage("logo", pngBytes(t, 20, 10)))
	assert.True(t, s.HasImage("logo"))

	b, err := NewBuilder(s, A4(),
		WithFooter(func(a Area, page int) error {
			return a.AlignedText(fmt.Sprintf("Pagina %d de %s", page, PageCountAlias), 15, TextStyle{Size: 9}, AlignCenter)
		}),
		WithMetadata(Metadata{Title: "Informe", Author: "Pruebas", Created: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)}),
	)
	require.NoError(t, err)

	require.NoError(t, b.DrawWidgets(
		Image{Name: "logo", W: 105, H: 47},
		NewHeading("PRIMERO", 16),
		KeyValueTable{Rows: rows(5)},
		Paragraph{Text: strings.TrimSpace(strings.Repeat("relleno ", 900))},
		TextLine{Text: "ULTIMO"},
	))
	data, err := b.Finalize()
	require.NoError(t, err)
	require.True(t, bytes.HasPrefix(data, []byte("%PDF")))

	pages, err := PageCount(data)
	require.NoError(t, err)
	assert.Equal(t, b.Page(), pages)
	assert.Greater(t, pages, 1)

	texts, err := ExtractPageText(data)
	require.NoError(t, err)
	require.Len(t, texts, pages)
	assert.Equal(t, 1, FindText(texts, "PRIMERO"))
	assert.Equal(t, pages, FindText(texts, "ULTIMO"))
	assert.Equal(t, 1, FindText(texts, fmt.Sprintf("Pagina 1 de %d", pages)))
}

func TestFpdfSurfaceRejectsBadImage(t *testing.T) {
	s := NewFpdfSurface(A4())
	err := s.RegisterImage("broken", []byte("not an image"))
	assert.Error(t, err)
	assert.False(t, s.HasImage("broken"))

	// the document is still usable
	s.AddPage(595, 842)
	s.Text("ok", 50, 700, TextStyle{}.WithDefaults())
	var buf bytes.Buffer
	assert.NoError(t, s.Output(&buf))
}

func TestFpdfSurfaceTextWidth(t *testing.T) {
	s := NewFpdfSurface(A4())
	short := s.TextWidth("abc", Regular, 12)
	long := s.TextWidth("abcabc", Regular, 12)
	assert.Greater(t, short, 0.0)
	assert.InDelta(t, 2*short, long, 0.01)
	assert.Greater(t, s.TextWidth("abc", Regular, 24), short)
}

func TestInspect(t *testing.T) {
	s := NewFpdfSurface(A4())
	b, err := NewBuilder(s, A4())
	require.NoError(t, err)
	require.NoError(t, b.DrawWidget(TextLine{Text: "hola"}))
	data, err := b.Finalize()
	require.NoError(t, err)

	info, err := Inspect(data, true)
	require.NoError(t, err)
	assert.Equal(t, 1, info.Pages)
	assert.Equal(t, len(data), info.Size)
	assert.Contains(t, info.Texts[0], "hola")

	_, err = Inspect([]byte("%PDF-1.3 broken"), false)
	assert.Error(t, err)
}
