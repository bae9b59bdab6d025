package tag

import "strings"

// Normalize trims entries, drops blanks and removes case-insensitive
// duplicates while keeping the first spelling and the original order.
func Normalize(in []string) []string {
	out := make([]string, 0, len(in))
	seen := make(map[string]struct{}, len(in))
	for _, raw := range in {
		t := strings.TrimSpace(raw)
		if t == "" {
			continue
		}
		key := strings.ToLower(t)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, t)
	}
	return out
}

// Split breaks a joined list such as "Go, SQL" on sep and normalizes it.
func Split(joined, sep string) []string {
	if strings.TrimSpace(joined) == "" {
		return []string{}
	}
	return Normalize(strings.Split(joined, sep))
}
