package config

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Output formats understood by Encode.
const (
	FormatYAML = "yaml"
	FormatJSON = "json"
	FormatLua  = "lua"
)

// Encode writes s in a format Load can read back.
func Encode(w io.Writer, format string, s Settings) error {
	switch format {
	case FormatYAML, "yml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(s); err != nil {
			return fmt.Errorf("failed to encode yaml: %w", err)
		}
		return enc.Close()
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(s)
	case FormatLua:
		return encodeLua(w, s)
	default:
		return fmt.Errorf("unknown format %q", format)
	}
}

func encodeLua(w io.Writer, s Settings) error {
	for _, f := range registry {
		var lit string
		switch v := f.get(&s).(type) {
		case string:
			lit = strconv.Quote(v)
		case float64:
			lit = strconv.FormatFloat(v, 'f', -1, 64)
			if v == float64(int64(v)) {
				lit += ".0"
			}
		default:
			lit = fmt.Sprint(v)
		}
		if _, err := fmt.Fprintf(w, "%s = %s\n", f.name, lit); err != nil {
			return err
		}
	}
	return nil
}
