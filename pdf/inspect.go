package pdf

import (
	"bytes"
	"fmt"
	"strings"

	lpdf "github.com/ledongthuc/pdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// Info summarises a serialized document.
type Info struct {
	Pages int      `json:"pages"`
	Size  int      `json:"size"`
	Texts []string `json:"texts,omitempty"`
}

// PageCount validates data with pdfcpu and returns its number of pages.
func PageCount(data []byte) (int, error) {
	if err := api.Validate(bytes.NewReader(data), model.NewDefaultConfiguration()); err != nil {
		return 0, fmt.Errorf("invalid PDF: %w", err)
	}
	n, err := api.PageCount(bytes.NewReader(data), model.NewDefaultConfiguration())
	if err != nil {
		return 0, fmt.Errorf("failed to count pages: %w", err)
	}
	return n, nil
}

// ExtractPageText returns the plain text of every page, in page order.
func ExtractPageText(data []byte) ([]string, error) {
	r, err := lpdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("failed to open PDF: %w", err)
	}
	fonts := map[string]*lpdf.Font{}
	texts := make([]string, 0, r.NumPage())
	for i := 1; i <= r.NumPage(); i++ {
		p := r.Page(i)
		if p.V.IsNull() {
			texts = append(texts, "")
			continue
		}
		text, err := p.GetPlainText(fonts)
		if err != nil {
			return nil, fmt.Errorf("failed to extract text of page %d: %w", i, err)
		}
		texts = append(texts, decodeUTF16Units(text))
	}
	return texts, nil
}

// decodeUTF16Units recovers text drawn with embedded TrueType fonts, which the reader returns
// as big-endian UTF-16 code units mixed with plain bytes. Only units whose high byte is zero
// (Basic Latin and Latin-1) are decoded.
func decodeUTF16Units(s string) string {
	if !strings.Contains(s, "\x00") {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if s[i] == 0 && i+1 < len(s) {
			b.WriteRune(rune(s[i+1]))
			i++
			continue
		}
		b.WriteByte(s[i])
	}
	return b.String()
}

// FindText returns the first 1-based page whose extracted text contains substr, or 0.
// Whitespace is ignored since extraction does not preserve word spacing reliably.
func FindText(texts []string, substr string) int {
	needle := strings.Join(strings.Fields(substr), "")
	for i, t := range texts {
		if strings.Contains(strings.Join(strings.Fields(t), ""), needle) {
			return i + 1
		}
	}
	return 0
}

// Inspect reports the page count and, when withText is set, the text of every page.
func Inspect(data []byte, withText bool) (*Info, error) {
	pages, err := PageCount(data)
	if err != nil {
		return nil, err
	}
	info := &Info{Pages: pages, Size: len(data)}
	if withText {
		if info.Texts, err = ExtractPageText(data); err != nil {
			return nil, err
		}
	}
	return info, nil
}
