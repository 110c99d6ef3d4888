package ipx

import "strconv"

// Modifiers is the unordered mapping from modifier name to raw argument
// string decoded from the URL's modifier segment. Keys are case-sensitive;
// empty value strings are legal.
type Modifiers map[string]string

// literal is the permissive parse of a single modifier argument: it
// recognizes booleans, null, and numbers, and otherwise returns the raw
// string unchanged.
func literal(raw string) interface{} {
	switch raw {
	case "":
		return ""
	case "true":
		return true
	case "false":
		return false
	case "null":
		return nil
	}
	if n, err := strconv.ParseFloat(raw, 64); err == nil {
		return n
	}
	return raw
}

// literalInt parses raw as the permissive literal and coerces the result to
// an int, defaulting to 0 for anything that isn't numeric.
func literalInt(raw string) int {
	switch v := literal(raw).(type) {
	case float64:
		return int(v)
	default:
		n, _ := strconv.Atoi(raw)
		return n
	}
}

// literalBool parses raw as the permissive literal and coerces the result
// to a bool. An empty string (a bare flag such as "enlarge") is true.
func literalBool(raw string) bool {
	if raw == "" {
		return true
	}
	v, _ := strconv.ParseBool(raw)
	return v
}
