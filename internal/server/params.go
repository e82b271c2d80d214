package server

// Tool arguments arrive as decoded JSON, so numbers are float64.

// StringParam returns params[key] as a string, or def.
func StringParam(params map[string]interface{}, key, def string) string {
	if v, ok := params[key].(string); ok {
		return v
	}
	return def
}

// IntParam returns params[key] as an int, or def.
func IntParam(params map[string]interface{}, key string, def int) int {
	switch v := params[key].(type) {
	case float64:
		return int(v)
	case int:
		return v
	case int64:
		return int(v)
	}
	return def
}

// BoolParam returns params[key] as a bool, or def.
func BoolParam(params map[string]interface{}, key string, def bool) bool {
	if v, ok := params[key].(bool); ok {
		return v
	}
	return def
}
