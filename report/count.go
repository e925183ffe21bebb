package report

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Count is a numeric report field. Payloads send counts as numbers, numeric strings or
// yes/no booleans; booleans are shown as "Sí" or "No".
type Count struct {
	Value float64
	Flag  *bool
	Set   bool
}

func (c *Count) UnmarshalJSON(data []byte) error {
	*c = Count{}
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		return nil
	}
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	switch t := v.(type) {
	case float64:
		c.Value = t
	case bool:
		c.Flag = &t
		if t {
			c.Value = 1
		}
	case string:
		s := strings.TrimSpace(t)
		switch strings.ToLower(s) {
		case "", "-":
			return nil
		case "si", "sí", "true":
			yes := true
			c.Flag = &yes
			c.Value = 1
		case "no", "false":
			no := false
			c.Flag = &no
		default:
			n, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", "."), 64)
			if err != nil {
				return fmt.Errorf("%q is not a number", s)
			}
			c.Value = n
		}
	default:
		return fmt.Errorf("unsupported value %s", data)
	}
	c.Set = true
	return nil
}

func (c Count) MarshalJSON() ([]byte, error) {
	if !c.Set {
		return []byte("null"), nil
	}
	if c.Flag != nil {
		return json.Marshal(*c.Flag)
	}
	return json.Marshal(c.Value)
}

// Or returns c when set, otherwise fallback.
func (c Count) Or(fallback Count) Count {
	if c.Set {
		return c
	}
	return fallback
}

func (c Count) String() string {
	switch {
	case c.Flag != nil && *c.Flag:
		return "Sí"
	case c.Flag != nil:
		return "No"
	case !c.Set:
		return "0"
	}
	return strconv.FormatFloat(c.Value, 'f', -1, 64)
}

// N returns a count of value n.
func N(n float64) Count {
	return Count{Value: n, Set: true}
}
