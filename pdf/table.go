package pdf

// Row is one label/value line of a KeyValueTable.
type Row struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

const (
	DefaultRowHeight   = 20.0
	DefaultLabelWidth  = 395.0
	DefaultValueWidth  = 100.0
	DefaultCellPadding = 5.0
)

// KeyValueTable is a two-column bordered table. Rows are never split; a table that does not
// fit on the current page moves to the next one, and a table taller than a page continues
// on the following pages in whole rows.
type KeyValueTable struct {
	Rows      []Row     `json:"rows"`
	RowHeight float64   `json:"row_height,omitempty"`
	Columns   []float64 `json:"columns,omitempty"`
	Style     TextStyle `json:"style,omitempty"`
	Border    Color     `json:"border,omitempty"`
}

func (t KeyValueTable) rowHeight() float64 {
	if t.RowHeight > 0 {
		return t.RowHeight
	}
	return DefaultRowHeight
}

func (t KeyValueTable) columns() (float64, float64) {
	if len(t.Columns) == 2 {
		return t.Columns[0], t.Columns[1]
	}
	return DefaultLabelWidth, DefaultValueWidth
}

func (t KeyValueTable) Height(_ Measurer, _ float64) float64 {
	return float64(len(t.Rows)) * t.rowHeight()
}

// LeadHeight is the whole table: rows that fit on one page move together.
func (t KeyValueTable) LeadHeight(_ Measurer, _ float64) float64 {
	return t.Height(nil, 0)
}

// chunks splits the rows into groups that are each drawn inside one reserved area.
func (t KeyValueTable) chunks(b *Builder) [][]Row {
	rh := t.rowHeight()
	perPage := int(b.config.UsableHeight() / rh)
	if perPage < 1 {
		perPage = 1
	}
	if len(t.Rows) <= perPage {
		return [][]Row{t.Rows}
	}

	var chunks [][]Row
	rows := t.Rows
	if first := int(b.Remaining() / rh); first > 0 && !b.AtPageTop() {
		chunks = append(chunks, rows[:first])
		rows = rows[first:]
	}
	for len(rows) > 0 {
		n := min(perPage, len(rows))
		chunks = append(chunks, rows[:n])
		rows = rows[n:]
	}
	return chunks
}

func (t KeyValueTable) Draw(b *Builder) error {
	if len(t.Rows) == 0 {
		return nil
	}
	rh := t.rowHeight()
	labelW, valueW := t.columns()
	style := t.Style.WithDefaults()
	border := Bordered(t.Border, 0.5)

	for _, chunk := range t.chunks(b) {
		area, err := b.Reserve(float64(len(chunk)) * rh)
		if err != nil {
			return err
		}
		for i, row := range chunk {
			y := area.Height - float64(i+1)*rh
			if err := area.Rect(0, y, labelW, rh, border); err != nil {
				return err
			}
			if err := area.Rect(labelW, y, valueW, rh, border); err != nil {
				return err
			}
			if err := area.Text(row.Label, DefaultCellPadding, y+rh/4, style); err != nil {
				return err
			}
			if err := area.Text(row.Value, labelW+DefaultCellPadding, y+rh/4, style); err != nil {
				return err
			}
		}
	}
	return nil
}
