package render

import (
	"strings"
)

// errorFieldPriority is the ordered set of payload keys the API has been
// observed to carry a human-readable message under. Earlier keys win.
var errorFieldPriority = []string{"error", "message", "detail", "title"}

// genericErrorMessage is shown when no payload field yields a usable
// message. Raw stack traces or encoded payloads are never surfaced.
const genericErrorMessage = "The operation could not be completed. Please try again."

// ErrorMessage extracts the first available human-readable message from an
// API error payload, walking the priority-ordered field set and falling
// back to a generic message.
func ErrorMessage(payload map[string]any) string {
	if message := errorMessageFrom(payload); message != "" {
		return message
	}
	return genericErrorMessage
}

func errorMessageFrom(payload map[string]any) string {
	if len(payload) == 0 {
		return ""
	}
	for _, key := range errorFieldPriority {
		switch value := payload[key].(type) {
		case string:
			if trimmed := strings.TrimSpace(value); trimmed != "" {
				return trimmed
			}
		case map[string]any:
			// Some generations nest the message one level down, e.g.
			// {"error": {"message": "..."}}.
			if nested := errorMessageFrom(value); nested != "" {
				return nested
			}
		}
	}
	if entries, ok := payload["errors"].([]any); ok {
		for _, entry := range entries {
			switch value := entry.(type) {
			case string:
				if trimmed := strings.TrimSpace(value); trimmed != "" {
					return trimmed
				}
			case map[string]any:
				if nested := errorMessageFrom(value); nested != "" {
					return nested
				}
			}
		}
	}
	return ""
}

// FieldErrors extracts per-field validation messages from an API error
// payload when the server returned them keyed by field name. Unknown
// shapes yield nil; messages are trimmed and de-duplicated.
func FieldErrors(payload map[string]any) map[string][]string {
	raw, ok := payload["fields"].(map[string]any)
	if !ok {
		if raw, ok = payload["validationErrors"].(map[string]any); !ok {
			return nil
		}
	}

	out := make(map[string][]string, len(raw))
	for field, value := range raw {
		var messages []string
		switch v := value.(type) {
		case string:
			messages = []string{v}
		case []any:
			for _, entry := range v {
				if text, ok := entry.(string); ok {
					messages = append(messages, text)
				}
			}
		}
		if normalized := normalizeMessages(messages); len(normalized) > 0 {
			out[field] = normalized
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func normalizeMessages(messages []string) []string {
	if len(messages) == 0 {
		return nil
	}

	out := make([]string, 0, len(messages))
	seen := make(map[string]struct{}, len(messages))

	for _, message := range messages {
		trimmed := strings.TrimSpace(message)
		if trimmed == "" {
			continue
		}
		if _, exists := seen[trimmed]; exists {
			continue
		}
		seen[trimmed] = struct{}{}
		out = append(out, trimmed)
	}

	if len(out) == 0 {
		return nil
	}
	return out
}
