package jsonx

import json "github.com/goccy/go-json"

// ToDynamicJSON converts any Go value to a map[string]any by round-tripping
// it through JSON. Used to hand reflected schemas to SDKs that want loose
// maps instead of typed schema objects.
func ToDynamicJSON(val any) (map[string]any, error) {
	result := make(map[string]any)
	b, err := json.Marshal(val)
	if err != nil {
		return nil, err
	}
	if err = json.Unmarshal(b, &result); err != nil {
		return nil, err
	}
	return result, nil
}
