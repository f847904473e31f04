package easycoach

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"

	sonic "github.com/bytedance/sonic"
)

// lookup resolves a possibly dotted key against nested objects.
func lookup(record map[string]any, key string) any {
	if record == nil {
		return nil
	}
	if v, ok := record[key]; ok {
		return v
	}
	head, rest, nested := strings.Cut(key, ".")
	if !nested {
		return nil
	}
	child, ok := record[head].(map[string]any)
	if !ok {
		return nil
	}
	return lookup(child, rest)
}

// stringValue coerces strings and numbers to a trimmed string. Arrays yield
// their first string element; fixture names arrive as one-element lists.
func stringValue(raw any) string {
	switch typed := raw.(type) {
	case string:
		return strings.TrimSpace(typed)
	case float64:
		if math.IsNaN(typed) || math.IsInf(typed, 0) {
			return ""
		}
		return strconv.FormatFloat(typed, 'f', -1, 64)
	case int:
		return strconv.Itoa(typed)
	case int64:
		return strconv.FormatInt(typed, 10)
	case json.Number:
		return typed.String()
	case []any:
		for _, item := range typed {
			if v := stringValue(item); v != "" {
				return v
			}
		}
	}
	return ""
}

func firstString(record map[string]any, aliases []string) string {
	for _, alias := range aliases {
		if v := stringValue(lookup(record, alias)); v != "" {
			return v
		}
	}
	return ""
}

// intValue accepts integral numbers and numeric strings.
func intValue(raw any) (int, bool) {
	switch typed := raw.(type) {
	case float64:
		if typed != math.Trunc(typed) || math.IsInf(typed, 0) {
			return 0, false
		}
		return int(typed), true
	case int:
		return typed, true
	case int64:
		return int(typed), true
	case json.Number:
		v, err := strconv.Atoi(typed.String())
		return v, err == nil
	case string:
		v, err := strconv.Atoi(strings.TrimSpace(typed))
		return v, err == nil
	}
	return 0, false
}

func firstInt(record map[string]any, aliases []string) (int, bool) {
	for _, alias := range aliases {
		if v, ok := intValue(lookup(record, alias)); ok {
			return v, true
		}
	}
	return 0, false
}

// splitResult parses "<home>-<away>".
func splitResult(raw string) (int, int, bool) {
	home, away, found := strings.Cut(raw, "-")
	if !found {
		return 0, 0, false
	}
	h, herr := strconv.Atoi(strings.TrimSpace(home))
	a, aerr := strconv.Atoi(strings.TrimSpace(away))
	if herr != nil || aerr != nil || h < 0 || a < 0 {
		return 0, 0, false
	}
	return h, a, true
}

// opaqueJSON re-encodes a blob. Strings holding an object or array are kept
// verbatim when valid; anything that cannot be encoded is dropped.
func opaqueJSON(raw any) json.RawMessage {
	if s, ok := raw.(string); ok {
		s = strings.TrimSpace(s)
		if s == "" {
			return nil
		}
		if (strings.HasPrefix(s, "{") || strings.HasPrefix(s, "[")) && json.Valid([]byte(s)) {
			return json.RawMessage(s)
		}
	}
	encoded, err := sonic.Marshal(raw)
	if err != nil || !json.Valid(encoded) {
		return nil
	}
	return json.RawMessage(encoded)
}

func objects(raw any) []map[string]any {
	items, ok := raw.([]any)
	if !ok {
		return nil
	}
	out := make([]map[string]any, 0, len(items))
	for _, item := range items {
		if obj, ok := item.(map[string]any); ok {
			out = append(out, obj)
		}
	}
	return out
}
