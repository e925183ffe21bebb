package report

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/samber/lo"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// ValidationError reports a payload that cannot be rendered. It maps to a client error.
type ValidationError struct {
	Message string   `json:"error"`
	Fields  []string `json:"fields,omitempty"`
}

func (e *ValidationError) Error() string {
	return e.Message
}

func invalid(format string, args ...any) *ValidationError {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// monthLabel capitalizes a month name. A Caser keeps state, so one is created per call.
func monthLabel(month int) string {
	return cases.Title(language.Spanish).String(MonthName(month))
}

type object map[string]json.RawMessage

func isNull(raw json.RawMessage) bool {
	return len(raw) == 0 || bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}

// has reports whether any key of f is present, even when null.
func (o object) has(f field) bool {
	return lo.SomeBy(f.keys(), func(k string) bool {
		_, ok := o[k]
		return ok
	})
}

func (o object) lookup(f field) (string, json.RawMessage, bool) {
	for _, k := range f.keys() {
		if raw, ok := o[k]; ok && !isNull(raw) {
			return k, raw, true
		}
	}
	return f.Key, nil, false
}

func (o object) missing(fields []field) []string {
	return lo.FilterMap(fields, func(f field, _ int) (string, bool) {
		return f.Key, !o.has(f)
	})
}

func (o object) count(path string, f field) (Count, error) {
	key, raw, ok := o.lookup(f)
	if !ok {
		return Count{}, nil
	}
	var c Count
	if err := json.Unmarshal(raw, &c); err != nil {
		return Count{}, &ValidationError{
			Message: fmt.Sprintf("El campo '%s%s' debe ser numérico", path, key),
			Fields:  []string{path + key},
		}
	}
	return c, nil
}

func (o object) str(keys ...string) string {
	for _, k := range keys {
		raw, ok := o[k]
		if !ok || isNull(raw) {
			continue
		}
		var v any
		if err := json.Unmarshal(raw, &v); err != nil {
			continue
		}
		switch t := v.(type) {
		case string:
			return strings.TrimSpace(t)
		case float64:
			return strconv.FormatFloat(t, 'f', -1, 64)
		case bool:
			return lo.Ternary(t, "Sí", "No")
		case []any:
			return strings.Join(lo.Map(t, func(e any, _ int) string { return fmt.Sprint(e) }), ", ")
		}
	}
	return ""
}

// object returns the nested object under key. A missing key yields an empty object.
func (o object) object(key string) (object, bool) {
	raw, ok := o[key]
	if !ok || isNull(raw) {
		return object{}, !ok
	}
	var nested object
	if err := json.Unmarshal(raw, &nested); err != nil || nested == nil {
		return nil, false
	}
	return nested, true
}

// Decode validates a request body and normalizes it into a Report. Every failure is a
// *ValidationError.
func Decode(data []byte) (*Report, error) {
	var body object
	if err := json.Unmarshal(data, &body); err != nil || body == nil {
		return nil, invalid("El cuerpo de la solicitud debe ser un objeto JSON")
	}
	version, err := detectVersion(body)
	if err != nil {
		return nil, err
	}
	if version == SchemaV1 {
		return decodeV1(body)
	}
	return decodeV2(body)
}

// detectVersion honours an explicit "version" and otherwise picks v2 for nested payloads.
func detectVersion(body object) (string, error) {
	if raw, ok := body["version"]; ok && !isNull(raw) {
		switch strings.ToLower(strings.TrimPrefix(body.str("version"), "v")) {
		case "1":
			return SchemaV1, nil
		case "2":
			return SchemaV2, nil
		default:
			return "", invalid("Versión de esquema desconocida: %s", string(raw))
		}
	}
	if _, ok := body["datosGenerales"]; ok {
		return SchemaV2, nil
	}
	return SchemaV1, nil
}

func missingError(prefix string, missing []string) *ValidationError {
	return &ValidationError{
		Message: fmt.Sprintf("%s: %s", prefix, strings.Join(missing, ", ")),
		Fields:  missing,
	}
}

func decodeHeader(body object, r *Report) error {
	month, err := ParseMonth(body["mes"])
	if err != nil {
		return &ValidationError{Message: "El campo 'mes' debe ser un número entre 1 y 12", Fields: []string{"mes"}}
	}
	r.Month = month
	r.Region = ParseRegion(body["region"])
	if r.Region == "" {
		return &ValidationError{Message: "El campo 'region' es requerido", Fields: []string{"region"}}
	}
	r.Signer = body.str("firmante")
	r.Role = body.str("cargo")
	r.Current = MonthSummary{Month: month, Label: monthLabel(month)}
	return nil
}

func (o object) items(path string, fields []field) ([]Item, error) {
	var items []Item
	for _, f := range fields {
		if f.Optional && !o.has(f) {
			continue
		}
		c, err := o.count(path, f)
		if err != nil {
			return nil, err
		}
		items = append(items, Item{Label: f.Label, Value: c.String()})
	}
	return items, nil
}

func decodeSupervision(body object, layout supervisionLayout) (Supervision, error) {
	s := Supervision{Title: layout.Title}
	obj, ok := body.object(layout.Key)
	if !ok {
		return s, &ValidationError{Message: fmt.Sprintf("El campo '%s' debe ser un objeto", layout.Key), Fields: []string{layout.Key}}
	}
	var err error
	if s.Summary, err = obj.items(layout.Key+".", layout.Summary); err != nil {
		return s, err
	}
	for _, sec := range layout.Sections {
		path := layout.Key + "." + sec.Key
		nested, ok := obj.object(sec.Key)
		if !ok {
			return s, &ValidationError{Message: fmt.Sprintf("El campo '%s' debe ser un objeto", path), Fields: []string{path}}
		}
		items, err := nested.items(path+".", sec.Fields)
		if err != nil {
			return s, err
		}
		s.Sections = append(s.Sections, Section{
			Title:        sec.Title,
			Items:        items,
			Observations: nested.str("observaciones"),
		})
	}
	return s, nil
}

func decodeV2(body object) (*Report, error) {
	if missing := body.missing(requiredFieldsV2); len(missing) > 0 {
		return nil, missingError("Faltan campos requeridos", missing)
	}
	general, ok := body.object("datosGenerales")
	if !ok {
		return nil, invalid("El campo 'datosGenerales' debe ser un objeto")
	}
	if missing := general.missing(requiredGeneralFields); len(missing) > 0 {
		return nil, missingError("Faltan campos en datosGenerales", missing)
	}
	for _, key := range []string{"supervisionTerreno", "supervisionOficina"} {
		if _, ok := body.object(key); !ok {
			return nil, invalid("El campo '%s' debe ser un objeto", key)
		}
	}
	var history []json.RawMessage
	if err := json.Unmarshal(body["otrosMeses"], &history); err != nil || history == nil {
		return nil, invalid("El campo 'otrosMeses' debe ser un arreglo")
	}

	r := &Report{SchemaVersion: SchemaV2}
	if err := decodeHeader(body, r); err != nil {
		return nil, err
	}

	top, err := body.items("", topLevelFieldsV2)
	if err != nil {
		return nil, err
	}
	rows, err := general.items("datosGenerales.", generalFieldsV2)
	if err != nil {
		return nil, err
	}
	r.General = append(rows, top...)

	if r.FieldSupervision, err = decodeSupervision(body, fieldSupervisionV2); err != nil {
		return nil, err
	}
	office, err := decodeSupervision(body, officeSupervisionV2)
	if err != nil {
		return nil, err
	}
	r.OfficeSupervision = &office

	r.ListURL = body.str("listadoBeneficiarios")
	r.ProjectProgress = body.str("avanceProyectos")
	r.GeneralComments = body.str("comentariosGenerales")
	r.SupervisionComments = body.str("comentariosFiscalizacion", "comentariosSupervision")

	total, _ := general.count("", field{Key: "totalCuposEjecutados", Aliases: []string{"total"}})
	supervisions, _ := general.count("", field{Key: "totalSupervisiones"})
	if !supervisions.Set {
		terreno, _ := general.count("", field{Key: "totalSupervisionesTerreno"})
		oficina, _ := general.count("", field{Key: "totalSupervisionesOficina"})
		supervisions = N(terreno.Value + oficina.Value)
	}
	r.Current.Executed = total.Value
	r.Current.Supervisions = supervisions.Value

	if r.History, err = decodeHistory(history); err != nil {
		return nil, err
	}
	return r, nil
}

var (
	historyExecuted     = field{Key: "totalCuposEjecutados", Aliases: []string{"total", "cuposEjecutados", "ejecutados"}}
	historySupervisions = field{Key: "totalSupervisiones", Aliases: []string{"supervisiones"}}
)

func decodeHistory(entries []json.RawMessage) ([]MonthSummary, error) {
	history := make([]MonthSummary, 0, len(entries))
	for i, raw := range entries {
		var entry object
		if err := json.Unmarshal(raw, &entry); err != nil || entry == nil {
			return nil, invalid("El elemento %d de 'otrosMeses' debe ser un objeto", i+1)
		}
		month, err := ParseMonth(entry["mes"])
		if err != nil {
			return nil, invalid("El elemento %d de 'otrosMeses' debe tener un 'mes' entre 1 y 12", i+1)
		}
		path := fmt.Sprintf("otrosMeses[%d].", i)
		executed, err := entry.count(path, historyExecuted)
		if err != nil {
			return nil, err
		}
		supervisions, err := entry.count(path, historySupervisions)
		if err != nil {
			return nil, err
		}
		history = append(history, MonthSummary{
			Month:        month,
			Label:        monthLabel(month),
			Executed:     executed.Value,
			Supervisions: supervisions.Value,
		})
	}
	return history, nil
}

func decodeV1(body object) (*Report, error) {
	if missing := body.missing(requiredFieldsV1); len(missing) > 0 {
		return nil, missingError("Faltan campos requeridos", missing)
	}
	r := &Report{SchemaVersion: SchemaV1}
	if err := decodeHeader(body, r); err != nil {
		return nil, err
	}

	var err error
	if r.General, err = body.items("", generalFieldsV1); err != nil {
		return nil, err
	}

	checks, err := body.items("", fieldChecksV1)
	if err != nil {
		return nil, err
	}
	var observations []string
	for _, f := range fieldChecksV1 {
		if obs := body.str(f.Key + "Observa"); obs != "" {
			observations = append(observations, f.Label+": "+obs)
		}
	}
	r.FieldSupervision = Supervision{
		Title: "Fiscalización en terreno",
		Sections: []Section{{
			Title:        "Resultados de la fiscalización",
			Items:        checks,
			Observations: strings.Join(observations, "\n"),
		}},
	}

	r.Executor = body.str("ejecutora")
	r.Folios = body.str("folios")
	r.Decree = body.str("decreto")
	r.ListURL = body.str("listado", "listadoBeneficiarios")
	r.SupervisionComments = body.str("comentariosFiscalizacion", "comentariosSupervision")
	r.GeneralComments = body.str("comentariosGenerales")
	r.ProjectProgress = body.str("avanceProyectos")

	total, _ := body.count("", field{Key: "total", Aliases: []string{"totalCuposEjecutados"}})
	inspected, _ := body.count("", field{Key: "fiscalizados"})
	r.Current.Executed = total.Value
	r.Current.Supervisions = inspected.Value

	if raw, ok := body["otrosMeses"]; ok && !isNull(raw) {
		var history []json.RawMessage
		if err := json.Unmarshal(raw, &history); err != nil {
			return nil, invalid("El campo 'otrosMeses' debe ser un arreglo")
		}
		if r.History, err = decodeHistory(history); err != nil {
			return nil, err
		}
	}
	return r, nil
}
