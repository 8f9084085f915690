package jsonx

import (
	json "github.com/goccy/go-json"
)

// ToDynamicJSON converts any Go value to a map[string]any by round-tripping it
// through JSON. A nil input yields a nil map.
func ToDynamicJSON(val any) (map[string]any, error) {
	if val == nil {
		return nil, nil
	}
	b, err := json.Marshal(val)
	if err != nil {
		return nil, err
	}
	var result map[string]any
	if err = json.Unmarshal(b, &result); err != nil {
		return nil, err
	}
	return result, nil
}
