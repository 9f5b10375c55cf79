package main

import (
	"fmt"
	"strings"

	"github.com/tidwall/gjson"
)

// parseAssignments turns key=value arguments into a field map. Values that
// are valid JSON (numbers, booleans, null, arrays, objects, quoted strings)
// keep their JSON type; anything else is taken as a plain string.
func parseAssignments(args []string) (map[string]any, error) {
	out := make(map[string]any, len(args))
	for _, arg := range args {
		key, value, ok := strings.Cut(arg, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, fmt.Errorf("expected key=value, got %q", arg)
		}
		out[key] = parseValue(value)
	}
	return out, nil
}

func parseValue(s string) any {
	if !gjson.Valid(s) {
		return s
	}
	return gjson.Parse(s).Value()
}
