package pdf

import (
	"bytes"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"io"

	"codeberg.org/go-pdf/fpdf"
)

// PageCountAlias is replaced by the total number of pages when the document is written.
const PageCountAlias = "{nb}"

type fontRef struct {
	family string
	style  string
	utf8   bool
}

// FpdfSurface implements Surface on top of go-pdf/fpdf. Until a TTF face is registered for a
// style, the PDF core Helvetica family is used and text is translated to cp1252.
type FpdfSurface struct {
	doc        *fpdf.Fpdf
	pageHeight float64
	fonts      map[FontStyle]fontRef
	images     map[string]string
	translate  func(string) string
}

// NewFpdfSurface creates an empty document sized for page. No page is added yet.
func NewFpdfSurface(page PageConfig) *FpdfSurface {
	doc := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "pt",
		Size:           fpdf.SizeType{Wd: page.Width, Ht: page.Height},
	})
	doc.SetMargins(0, 0, 0)
	doc.SetAutoPageBreak(false, 0)
	doc.AliasNbPages(PageCountAlias)
	doc.SetCatalogSort(true)

	return &FpdfSurface{
		doc:        doc,
		pageHeight: page.Height,
		fonts: map[FontStyle]fontRef{
			Regular: {family: "Helvetica"},
			Light:   {family: "Helvetica"},
			Bold:    {family: "Helvetica", style: "B"},
			Heavy:   {family: "Helvetica", style: "B"},
		},
		images:    map[string]string{},
		translate: doc.UnicodeTranslatorFromDescriptor(""),
	}
}

func (s *FpdfSurface) useFont(style TextStyle) fontRef {
	ref, ok := s.fonts[style.Font]
	if !ok {
		ref = s.fonts[Regular]
	}
	s.doc.SetFont(ref.family, ref.style, style.Size)
	return ref
}

func (s *FpdfSurface) encode(ref fontRef, text string) string {
	if ref.utf8 {
		return text
	}
	return s.translate(text)
}

func (s *FpdfSurface) TextWidth(text string, font FontStyle, size float64) float64 {
	ref := s.useFont(TextStyle{Font: font, Size: size})
	return s.doc.GetStringWidth(s.encode(ref, text))
}

func (s *FpdfSurface) AddPage(width, height float64) {
	s.pageHeight = height
	s.doc.AddPageFormat("P", fpdf.SizeType{Wd: width, Ht: height})
}

func (s *FpdfSurface) PageCount() int {
	return s.doc.PageCount()
}

// RegisterFont embeds a TrueType face for style.
func (s *FpdfSurface) RegisterFont(style FontStyle, data []byte) error {
	family := "informe-" + string(style)
	s.doc.AddUTF8FontFromBytes(family, "", data)
	if s.doc.Err() {
		return fmt.Errorf("failed to embed %s font: %w", style, s.doc.Error())
	}
	s.fonts[style] = fontRef{family: family, utf8: true}
	return nil
}

// RegisterImage embeds a PNG or JPEG image. The data is decoded first so a corrupt image is
// reported without leaving the document in an error state.
func (s *FpdfSurface) RegisterImage(name string, data []byte) error {
	_, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("failed to decode image %s: %w", name, err)
	}
	var imageType string
	switch format {
	case "png":
		imageType = "PNG"
	case "jpeg":
		imageType = "JPG"
	default:
		return fmt.Errorf("unsupported image format %q for %s", format, name)
	}
	s.doc.RegisterImageOptionsReader(name, fpdf.ImageOptions{ImageType: imageType}, bytes.NewReader(data))
	if s.doc.Err() {
		return fmt.Errorf("failed to embed image %s: %w", name, s.doc.Error())
	}
	s.images[name] = imageType
	return nil
}

func (s *FpdfSurface) HasImage(name string) bool {
	_, ok := s.images[name]
	return ok
}

func (s *FpdfSurface) Text(text string, x, y float64, style TextStyle) {
	ref := s.useFont(style)
	s.doc.SetTextColor(style.Color.R, style.Color.G, style.Color.B)
	s.doc.Text(x, s.pageHeight-y, s.encode(ref, text))
}

func (s *FpdfSurface) Rect(x, y, w, h float64, style RectStyle) {
	mode := ""
	if style.Fill != nil {
		s.doc.SetFillColor(style.Fill.R, style.Fill.G, style.Fill.B)
		mode += "F"
	}
	if style.Border != nil {
		s.doc.SetDrawColor(style.Border.R, style.Border.G, style.Border.B)
		if style.LineWidth > 0 {
			s.doc.SetLineWidth(style.LineWidth)
		}
		mode += "D"
	}
	if mode == "" {
		return
	}
	s.doc.Rect(x, s.pageHeight-y-h, w, h, mode)
}

func (s *FpdfSurface) Line(x1, y1, x2, y2 float64, color Color, width float64) {
	s.doc.SetDrawColor(color.R, color.G, color.B)
	if width > 0 {
		s.doc.SetLineWidth(width)
	}
	s.doc.Line(x1, s.pageHeight-y1, x2, s.pageHeight-y2)
}

func (s *FpdfSurface) Image(name string, x, y, w, h float64) {
	s.doc.ImageOptions(name, x, s.pageHeight-y-h, w, h, false, fpdf.ImageOptions{ImageType: s.images[name]}, 0, "")
}

func (s *FpdfSurface) Link(x, y, w, h float64, url string) {
	s.doc.LinkString(x, s.pageHeight-y-h, w, h, url)
}

func (s *FpdfSurface) SetMetadata(meta Metadata) {
	if meta.Title != "" {
		s.doc.SetTitle(meta.Title, true)
	}
	if meta.Author != "" {
		s.doc.SetAuthor(meta.Author, true)
	}
	if meta.Subject != "" {
		s.doc.SetSubject(meta.Subject, true)
	}
	if meta.Creator != "" {
		s.doc.SetCreator(meta.Creator, true)
	}
	if !meta.Created.IsZero() {
		s.doc.SetCreationDate(meta.Created)
		s.doc.SetModificationDate(meta.Created)
	}
}

func (s *FpdfSurface) Output(w io.Writer) error {
	if s.doc.Err() {
		return fmt.Errorf("failed to generate PDF: %w", s.doc.Error())
	}
	if err := s.doc.Output(w); err != nil {
		return fmt.Errorf("failed to generate PDF: %w", err)
	}
	return nil
}
