package achievements

// Accessors over the loosely typed condition_data map. Defaults follow the
// same fallbacks the definitions were authored against, so a sparse condition
// still evaluates deterministically.

func dataString(data map[string]interface{}, key, fallback string) string {
	if data == nil {
		return fallback
	}
	if s, ok := data[key].(string); ok {
		return s
	}
	return fallback
}

func dataFloat(data map[string]interface{}, key string, fallback float64) float64 {
	if data == nil {
		return fallback
	}
	v, ok := data[key]
	if !ok {
		return fallback
	}
	f, ok := toFloat(v)
	if !ok {
		return fallback
	}
	return f
}

func dataMap(data map[string]interface{}, key string) map[string]interface{} {
	if data == nil {
		return nil
	}
	if m, ok := data[key].(map[string]interface{}); ok {
		return m
	}
	return nil
}

func dataList(data map[string]interface{}, key string) []interface{} {
	if data == nil {
		return nil
	}
	if l, ok := data[key].([]interface{}); ok {
		return l
	}
	return nil
}

// dataStrings reads a list value and keeps only its string elements.
func dataStrings(data map[string]interface{}, key string) []string {
	raw := dataList(data, key)
	if raw == nil {
		return nil
	}
	out := make([]string, 0, len(raw))
	for _, v := range raw {
		if s, ok := v.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

// hasKey reports whether the key is present at all, distinguishing "absent"
// from "present but zero".
func hasKey(data map[string]interface{}, key string) bool {
	if data == nil {
		return false
	}
	_, ok := data[key]
	return ok
}
