package llm

import "strings"

// StripFences removes an optional markdown code-fence wrapper from a model
// answer, so fenced and unfenced JSON parse identically.
func StripFences(raw string) string {
	content := strings.TrimSpace(raw)

	if strings.HasPrefix(content, "```") {
		content = strings.TrimPrefix(content, "```")
		// Drop a language tag such as "json" on the opening fence.
		if idx := strings.IndexByte(content, '\n'); idx >= 0 {
			first := strings.TrimSpace(content[:idx])
			if first != "" && !strings.ContainsAny(first, "{}[]") {
				content = content[idx+1:]
			}
		}
		content = strings.TrimSuffix(strings.TrimSpace(content), "```")
	}

	return strings.TrimSpace(content)
}
