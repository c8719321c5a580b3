package models

import "fmt"

type ValidationReport struct {
	Valid       bool     `json:"valid"`
	Issues      []string `json:"issues"`
	PromptCount int      `json:"promptCount"`
}

// ValidatePrompts reports every structural problem of the stored records.
// It never modifies them.
func ValidatePrompts(records []any) ValidationReport {
	issues := make([]string, 0)
	for i, record := range records {
		m, ok := record.(map[string]any)
		if !ok {
			issues = append(issues, fmt.Sprintf("Prompt at index %d is not an object", i))
			continue
		}
		if id, ok := RecordID(m); !ok || id == 0 {
			issues = append(issues, fmt.Sprintf("Prompt at index %d missing ID", i))
		}
		if isBlank(m["title"]) || isBlank(m["content"]) {
			issues = append(issues, fmt.Sprintf("Prompt at index %d missing title or content", i))
		}
		if _, ok := m["tags"].([]any); !ok {
			issues = append(issues, fmt.Sprintf("Prompt at index %d has invalid tags", i))
		}
	}
	return ValidationReport{
		Valid:       len(issues) == 0,
		Issues:      issues,
		PromptCount: len(records),
	}
}

func isBlank(v any) bool {
	s, ok := v.(string)
	return !ok || s == ""
}
