package decisions

import "strings"

// BodyPreview returns the best available body text for a document. The
// compact view's explicit preview wins over its full body.
func BodyPreview(d Document) string {
	if preview := d.String("compact", "body_preview"); preview != "" {
		return preview
	}
	return d.String("compact", "body")
}

// Reasoning returns the first non-empty reasoning text a document carries.
// The pipeline has recorded reasoning in several places over its history, so
// resolution walks the known locations oldest-schema-last:
//
//	content.notes[0].reasoning > reasoning > summary.reasoning >
//	decision_agent.{reasoning,explanation,reasons} > explanation >
//	decision_reasons
//
// An empty string means no shape carried reasoning.
func Reasoning(d Document) string {
	if notes := d.Slice("content", "notes"); len(notes) > 0 {
		if note, ok := notes[0].(map[string]any); ok {
			if text := reasoningText(note["reasoning"]); text != "" {
				return text
			}
		}
	}

	candidates := []any{
		d["reasoning"],
		d.Map("summary")["reasoning"],
		d.Map("decision_agent")["reasoning"],
		d.Map("decision_agent")["explanation"],
		d.Map("decision_agent")["reasons"],
		d["explanation"],
		d["decision_reasons"],
	}
	for _, candidate := range candidates {
		if text := reasoningText(candidate); text != "" {
			return text
		}
	}
	return ""
}

// reasoningText normalizes a reasoning value: strings pass through, arrays
// join their string elements with a blank line, anything else is empty.
func reasoningText(v any) string {
	switch r := v.(type) {
	case string:
		return strings.TrimSpace(r)
	case []any:
		parts := make([]string, 0, len(r))
		for _, e := range r {
			if s, ok := e.(string); ok && strings.TrimSpace(s) != "" {
				parts = append(parts, strings.TrimSpace(s))
			}
		}
		return strings.Join(parts, "\n\n")
	}
	return ""
}
