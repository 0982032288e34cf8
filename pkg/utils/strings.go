package utils

import "strings"

// SplitList splits a comma-separated list, trimming each entry and dropping
// empty ones. It returns nil when nothing is left.
func SplitList(raw string) []string {
	var result []string

	for _, s := range strings.Split(raw, ",") {
		if s = strings.TrimSpace(s); s != "" {
			result = append(result, s)
		}
	}

	return result
}
