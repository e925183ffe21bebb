package pdf

import (
	"encoding/json"
	"strings"
)

// PageLog lists what was drawn on one page, in drawing order.
type PageLog struct {
	Number int      `json:"number"`
	Texts  []string `json:"texts,omitempty"`
	Images []string `json:"images,omitempty"`
	Links  []string `json:"links,omitempty"`
}

// Journal records the layout decisions of a Builder so a rendered document can be checked
// without parsing the PDF.
type Journal struct {
	Pages []PageLog `json:"pages"`
}

func (j *Journal) addPage() {
	j.Pages = append(j.Pages, PageLog{Number: len(j.Pages) + 1})
}

func (j *Journal) page(n int) *PageLog {
	if n < 1 || n > len(j.Pages) {
		return nil
	}
	return &j.Pages[n-1]
}

func (j *Journal) text(page int, s string) {
	if p := j.page(page); p != nil {
		p.Texts = append(p.Texts, s)
	}
}

func (j *Journal) image(page int, name string) {
	if p := j.page(page); p != nil {
		p.Images = append(p.Images, name)
	}
}

func (j *Journal) link(page int, url string) {
	if p := j.page(page); p != nil {
		p.Links = append(p.Links, url)
	}
}

// PageCount is the number of pages opened so far.
func (j *Journal) PageCount() int {
	return len(j.Pages)
}

// PageOf returns the first page whose text contains substr, or 0.
func (j *Journal) PageOf(substr string) int {
	for _, p := range j.Pages {
		for _, t := range p.Texts {
			if strings.Contains(t, substr) {
				return p.Number
			}
		}
	}
	return 0
}

// LastPageOf returns the last page whose text contains substr, or 0.
func (j *Journal) LastPageOf(substr string) int {
	for i := len(j.Pages) - 1; i >= 0; i-- {
		for _, t := range j.Pages[i].Texts {
			if strings.Contains(t, substr) {
				return j.Pages[i].Number
			}
		}
	}
	return 0
}

// ImagePages returns the pages on which the named image was placed.
func (j *Journal) ImagePages(name string) []int {
	var pages []int
	for _, p := range j.Pages {
		for _, img := range p.Images {
			if img == name {
				pages = append(pages, p.Number)
				break
			}
		}
	}
	return pages
}

// PageText joins the texts of one page with newlines.
func (j *Journal) PageText(n int) string {
	p := j.page(n)
	if p == nil {
		return ""
	}
	return strings.Join(p.Texts, "\n")
}

func (j *Journal) JSON() ([]byte, error) {
	return json.MarshalIndent(j, "", "  ")
}
