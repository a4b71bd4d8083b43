package llm

// StandardDefinition returns the definition with Gemini's "nullable" marker
// rewritten into plain JSON Schema ("type": [T, "null"]). Vendors other than
// Gemini receive this form.
func (s *Schema) StandardDefinition() map[string]any {
	if s == nil {
		return nil
	}
	return standardize(s.Definition)
}

func standardize(def map[string]any) map[string]any {
	out := make(map[string]any, len(def))
	nullable, _ := def["nullable"].(bool)
	for k, v := range def {
		switch k {
		case "nullable":
			continue
		case "properties":
			if props, ok := v.(map[string]any); ok {
				converted := make(map[string]any, len(props))
				for name, p := range props {
					if pm, ok := p.(map[string]any); ok {
						converted[name] = standardize(pm)
					} else {
						converted[name] = p
					}
				}
				out[k] = converted
				continue
			}
		case "items":
			if im, ok := v.(map[string]any); ok {
				out[k] = standardize(im)
				continue
			}
		}
		out[k] = v
	}
	if t, ok := out["type"].(string); ok && nullable {
		out["type"] = []any{t, "null"}
	}
	return out
}
