package report

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Months are the Spanish month names, January first.
var Months = []string{
	"enero", "febrero", "marzo", "abril", "mayo", "junio",
	"julio", "agosto", "septiembre", "octubre", "noviembre", "diciembre",
}

// Regions maps the numeric codes of Chile's regions to their names.
var Regions = map[int]string{
	1:  "Tarapacá",
	2:  "Antofagasta",
	3:  "Atacama",
	4:  "Coquimbo",
	5:  "Valparaíso",
	6:  "Libertador General Bernardo O'Higgins",
	7:  "Maule",
	8:  "Biobío",
	9:  "La Araucanía",
	10: "Los Lagos",
	11: "Aysén del General Carlos Ibáñez del Campo",
	12: "Magallanes y de la Antártica Chilena",
	13: "Metropolitana de Santiago",
	14: "Los Ríos",
	15: "Arica y Parinacota",
	16: "Ñuble",
}

// MonthName returns the lower-case Spanish name of month 1-12.
func MonthName(month int) string {
	if month < 1 || month > 12 {
		return ""
	}
	return Months[month-1]
}

// ParseMonth accepts a month number, a numeric string or a Spanish month name.
func ParseMonth(raw json.RawMessage) (int, error) {
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return 0, err
	}
	var month int
	switch t := v.(type) {
	case float64:
		month = int(t)
		if float64(month) != t {
			return 0, fmt.Errorf("month %v is not a whole number", t)
		}
	case string:
		s := strings.TrimSpace(t)
		if n, err := strconv.Atoi(s); err == nil {
			month = n
			break
		}
		key := strings.ToLower(RemoveAccents(s))
		if key == "setiembre" {
			key = "septiembre"
		}
		for i, name := range Months {
			if name == key {
				month = i + 1
			}
		}
	default:
		return 0, fmt.Errorf("unsupported month %v", v)
	}
	if month < 1 || month > 12 {
		return 0, fmt.Errorf("month %q out of range", string(raw))
	}
	return month, nil
}

// ParseRegion resolves a region code to its name; any other value is used as given.
func ParseRegion(raw json.RawMessage) string {
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return ""
	}
	switch t := v.(type) {
	case float64:
		if name, ok := Regions[int(t)]; ok && float64(int(t)) == t {
			return name
		}
		return strconv.FormatFloat(t, 'f', -1, 64)
	case string:
		s := strings.TrimSpace(t)
		if n, err := strconv.Atoi(s); err == nil {
			if name, ok := Regions[n]; ok {
				return name
			}
		}
		return s
	}
	return ""
}

// RemoveAccents strips diacritics and replaces every character outside [A-Za-z0-9_] with "_".
// A transform chain keeps state, so one is built per call.
func RemoveAccents(s string) string {
	stripMarks := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	plain, _, err := transform.String(stripMarks, s)
	if err != nil {
		plain = s
	}
	return strings.Map(func(r rune) rune {
		if r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_') {
			return r
		}
		return '_'
	}, plain)
}

// Filename is the attachment name of a rendered report: "<region>_<month>.pdf".
func Filename(region string, month int) string {
	return RemoveAccents(region) + "_" + RemoveAccents(MonthName(month)) + ".pdf"
}
