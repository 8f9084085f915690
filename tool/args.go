package tool

import (
	"fmt"
	"strings"

	json "github.com/goccy/go-json"
)

// Decode parses a fully assembled argument string into T. An empty argument
// string decodes as an empty object.
func Decode[T any](arguments string) (T, error) {
	var v T
	if strings.TrimSpace(arguments) == "" {
		arguments = "{}"
	}
	if err := json.Unmarshal([]byte(arguments), &v); err != nil {
		return v, fmt.Errorf("invalid tool arguments: %w", err)
	}
	return v, nil
}
