package achievements

import "strings"

// fieldValue resolves a dotted path inside a stats view. Any missing segment,
// non-map intermediate or non-numeric leaf resolves to 0 so a bad field name
// in a definition compares as "no progress" instead of erroring.
func fieldValue(view map[string]interface{}, path string) float64 {
	if path == "" || view == nil {
		return 0
	}
	var current interface{} = view
	for _, part := range strings.Split(path, ".") {
		m, ok := current.(map[string]interface{})
		if !ok {
			return 0
		}
		current, ok = m[part]
		if !ok {
			return 0
		}
	}
	f, _ := toFloat(current)
	return f
}
