package pdf

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestBuilder(t *testing.T, opts ...Option) (*Builder, *recordingSurface) {
	t.Helper()
	s := newRecordingSurface()
	b, err := NewBuilder(s, A4(), opts...)
	require.NoError(t, err)
	return b, s
}

func TestNewBuilderOpensFirstPage(t *testing.T) {
	headers := 0
	b, s := newTestBuilder(t, WithHeader(func(Area, int) error {
		headers++
		return nil
	}))
	assert.Equal(t, 1, s.pages)
	assert.Equal(t, 1, b.Page())
	assert.Equal(t, 1, headers)
	assert.Equal(t, 792.0, b.CurrentY())
	assert.True(t, b.AtPageTop())
}

func TestNewBuilderRejectsInvalidPage(t *testing.T) {
	cfg := A4()
	cfg.Margins.Top = 500
	cfg.Margins.Bottom = 400
	_, err := NewBuilder(newRecordingSurface(), cfg)
	assert.Error(t, err)
}

func TestEnsureSpace(t *testing.T) {
	tests := []struct {
		name      string
		reserved  float64
		need      float64
		wantBreak bool
	}{
		{name: "plenty of room", reserved: 100, need: 50},
		{name: "exactly fills to the bottom margin", reserved: 700, need: 52},
		{name: "one point short", reserved: 700, need: 53, wantBreak: true},
		{name: "zero height on a full page", reserved: 752, need: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			headers := 0
			b, s := newTestBuilder(t, WithHeader(func(Area, int) error {
				headers++
				return nil
			}))
			_, err := b.Reserve(tt.reserved)
			require.NoError(t, err)
			y := b.CurrentY()

			broke := b.EnsureSpace(tt.need)
			assert.Equal(t, tt.wantBreak, broke)
			if tt.wantBreak {
				assert.Equal(t, 2, s.pages)
				assert.Equal(t, 2, headers)
				assert.Equal(t, A4().Top(), b.CurrentY())
			} else {
				assert.Equal(t, 1, s.pages)
				assert.Equal(t, 1, headers)
				assert.Equal(t, y, b.CurrentY())
			}
		})
	}
}

func TestReserveStaysAboveBottomMargin(t *testing.T) {
	b, _ := newTestBuilder(t)
	bottom := A4().Margins.Bottom
	for i := 0; i < 200; i++ {
		area, err := b.Reserve(float64(5 + i%37))
		require.NoError(t, err)
		assert.GreaterOrEqual(t, area.Y, bottom)
		assert.LessOrEqual(t, area.Top(), A4().Top())
	}
}

func TestReserveOverflow(t *testing.T) {
	t.Run("fresh page does not break", func(t *testing.T) {
		b, s := newTestBuilder(t)
		area, err := b.Reserve(1000)
		require.NoError(t, err)
		assert.Equal(t, 1, s.pages)
		assert.Equal(t, 1000.0, area.Height)
	})
	t.Run("used page breaks once", func(t *testing.T) {
		b, s := newTestBuilder(t)
		_, err := b.Reserve(10)
		require.NoError(t, err)
		_, err = b.Reserve(1000)
		require.NoError(t, err)
		assert.Equal(t, 2, s.pages)

		// the next block starts on a new page
		_, err = b.Reserve(10)
		require.NoError(t, err)
		assert.Equal(t, 3, s.pages)
	})
}

func TestStaleArea(t *testing.T) {
	b, _ := newTestBuilder(t)
	area, err := b.Reserve(20)
	require.NoError(t, err)
	require.NoError(t, b.NewPage())

	err = area.Text("tarde", 0, 0, TextStyle{})
	assert.ErrorIs(t, err, ErrStaleArea)
	assert.ErrorIs(t, Area{}.Text("nada", 0, 0, TextStyle{}), ErrEmptyArea)
}

func TestFinalize(t *testing.T) {
	b, s := newTestBuilder(t, WithMetadata(Metadata{Title: "Informe"}))
	require.NoError(t, b.DrawWidget(NewHeading("Título", 16)))

	data, err := b.Finalize()
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "%PDF"))
	assert.Equal(t, "Informe", s.meta.Title)
	assert.True(t, b.Finalized())

	pages := s.pages
	assert.False(t, b.EnsureSpace(10000))
	assert.Equal(t, pages, s.pages)

	_, err = b.Reserve(10)
	assert.ErrorIs(t, err, ErrFinalized)
	assert.ErrorIs(t, b.DrawWidget(NewHeading("otra", 12)), ErrFinalized)
	assert.ErrorIs(t, b.Advance(10), ErrFinalized)
	_, err = b.Finalize()
	assert.ErrorIs(t, err, ErrFinalized)
}

func TestFinalizeOutputError(t *testing.T) {
	b, s := newTestBuilder(t)
	s.outErr = errors.New("disk full")
	_, err := b.Finalize()
	assert.ErrorContains(t, err, "disk full")
}

func TestHeaderErrorIsSticky(t *testing.T) {
	calls := 0
	b, _ := newTestBuilder(t, WithHeader(func(Area, int) error {
		calls++
		if calls > 1 {
			return errors.New("logo missing")
		}
		return nil
	}))
	assert.ErrorContains(t, b.NewPage(), "logo missing")
	_, err := b.Reserve(10)
	assert.ErrorContains(t, err, "logo missing")
}

func rows(n int) []Row {
	out := make([]Row, n)
	for i := range out {
		out[i] = Row{Label: fmt.Sprintf("fila %02d", i), Value: fmt.Sprint(i)}
	}
	return out
}

func TestTableMovesWhole(t *testing.T) {
	b, s := newTestBuilder(t)
	// leave 100pt: room for 5 of the 10 rows
	_, err := b.Reserve(b.Remaining() - 100)
	require.NoError(t, err)

	require.NoError(t, b.DrawWidget(KeyValueTable{Rows: rows(10)}))
	assert.Equal(t, 2, s.pages)
	for i := 0; i < 10; i++ {
		assert.Equal(t, 2, b.Journal().PageOf(fmt.Sprintf("fila %02d", i)))
	}
	assert.Equal(t, A4().Top()-200, b.CurrentY())
}

func TestTableTallerThanPage(t *testing.T) {
	b, s := newTestBuilder(t)
	_, err := b.Reserve(400)
	require.NoError(t, err)

	// 752pt usable holds 37 rows of 20pt
	require.NoError(t, b.DrawWidget(KeyValueTable{Rows: rows(60)}))
	assert.Equal(t, 3, s.pages)

	j := b.Journal()
	assert.Equal(t, 1, j.PageOf("fila 00"))
	assert.Equal(t, 1, j.PageOf("fila 16"))
	assert.Equal(t, 2, j.PageOf("fila 17"))
	assert.Equal(t, 2, j.PageOf("fila 53"))
	assert.Equal(t, 3, j.PageOf("fila 54"))

	for _, text := range s.texts {
		assert.GreaterOrEqual(t, text.Y, A4().Margins.Bottom)
	}
}

func TestParagraphSpansPages(t *testing.T) {
	b, s := newTestBuilder(t)
	_, err := b.Reserve(700)
	require.NoError(t, err)

	p := Paragraph{
		Text:         strings.TrimSpace(strings.Repeat("comentario ", 60)),
		Continuation: &Heading{Text: "Comentarios generales (continuación)"},
	}
	lines := p.Lines(b.Measurer(), b.ContentWidth())
	require.Greater(t, len(lines), 4)
	require.NoError(t, b.DrawWidget(p))

	assert.Equal(t, 2, s.pages)
	assert.Equal(t, 2, b.Journal().PageOf("(continuación)"))
	assert.Equal(t, 2, b.Journal().LastPageOf("(continuación)"))

	var drawn []string
	for _, text := range s.texts {
		if strings.HasPrefix(text.Text, "comentario") {
			drawn = append(drawn, text.Text)
			assert.GreaterOrEqual(t, text.Y, A4().Margins.Bottom)
		}
	}
	assert.Equal(t, lines, drawn)
	assert.Equal(t, "Comentarios generales (continuación)", s.textsOn(2)[0])
}

func TestParagraphWithoutContinuation(t *testing.T) {
	b, s := newTestBuilder(t)
	p := Paragraph{Text: strings.Repeat("x ", 3000)}
	require.NoError(t, b.DrawWidget(p))
	assert.Greater(t, s.pages, 1)
	assert.Equal(t, 0, b.Journal().PageOf("continuación"))
}

func TestParagraphLink(t *testing.T) {
	b, s := newTestBuilder(t)
	require.NoError(t, b.DrawWidget(Paragraph{Text: "ver listado", Link: "https://example.org/listado"}))
	assert.Equal(t, []string{"https://example.org/listado"}, b.Journal().Pages[0].Links)
	require.Len(t, s.boxes, 1)
	assert.Equal(t, monoWidth("ver listado", Regular, 12), s.boxes[0].W)
}

func TestSignatureForcedToNewPage(t *testing.T) {
	b, s := newTestBuilder(t)
	_, err := b.Reserve(b.Remaining() - SignatureHeight + 1)
	require.NoError(t, err)

	require.NoError(t, b.DrawWidget(Signature{Name: "Ana Pérez", Role: "Jefa Regional"}))
	assert.Equal(t, 2, s.pages)
	assert.Equal(t, 2, b.Journal().PageOf("Ana Pérez"))
	assert.Equal(t, 2, b.Journal().PageOf("Jefa Regional"))
}

func TestImage(t *testing.T) {
	b, s := newTestBuilder(t)
	err := b.DrawWidget(Image{Name: "logo", W: 105, H: 47})
	assert.ErrorContains(t, err, "not registered")

	require.NoError(t, s.RegisterImage("logo", []byte{1}))
	require.NoError(t, b.DrawWidget(Image{Name: "logo", W: 105, H: 47, Align: AlignCenter}))
	assert.Equal(t, []int{1}, b.Journal().ImagePages("logo"))

	img := s.boxes[len(s.boxes)-1]
	assert.Equal(t, "image:logo", img.Kind)
	assert.Equal(t, 50+(495-105)/2.0, img.X)
}

func TestSectionKeepsHeadingWithBody(t *testing.T) {
	b, _ := newTestBuilder(t)
	// room for the heading but not for the table after it
	_, err := b.Reserve(b.Remaining() - 40)
	require.NoError(t, err)

	require.NoError(t, b.DrawWidget(Section{
		Heading: NewHeading("Supervisión en terreno", 14),
		Body:    []Widget{KeyValueTable{Rows: rows(3)}},
	}))
	j := b.Journal()
	assert.Equal(t, 2, j.PageOf("Supervisión en terreno"))
	assert.Equal(t, 2, j.PageOf("fila 00"))
}

func TestAdvance(t *testing.T) {
	b, _ := newTestBuilder(t)
	require.NoError(t, b.Advance(30))
	assert.Equal(t, A4().Top(), b.CurrentY(), "no space at the top of a page")

	_, err := b.Reserve(10)
	require.NoError(t, err)
	require.NoError(t, b.Advance(30))
	assert.Equal(t, A4().Top()-40, b.CurrentY())

	require.NoError(t, b.Advance(5000))
	assert.Equal(t, A4().Margins.Bottom, b.CurrentY())
	assert.Equal(t, 1, b.Page())
}

func TestFooterOnEveryPage(t *testing.T) {
	b, s := newTestBuilder(t, WithFooter(func(a Area, page int) error {
		return a.AlignedText(fmt.Sprintf("Página %d de %s", page, PageCountAlias), 15, TextStyle{Size: 9}, AlignCenter)
	}))
	require.NoError(t, b.DrawWidget(Paragraph{Text: strings.Repeat("y ", 4000)}))
	require.Greater(t, s.pages, 1)
	for page := 1; page <= s.pages; page++ {
		assert.Contains(t, s.textsOn(page), fmt.Sprintf("Página %d de {nb}", page))
	}
}
