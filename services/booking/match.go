package booking

import "strings"

// ResolveName matches free-form input against a catalog name list using an
// ordered chain of resolvers: exact match, case-insensitive match, then
// substring containment in either direction. The first definitive match
// wins; on a substring tie the earliest candidate in enumeration order is
// taken.
func ResolveName(input string, candidates []string) (string, bool) {
	input = strings.TrimSpace(input)
	if input == "" {
		return "", false
	}

	for _, c := range candidates {
		if input == c {
			return c, true
		}
	}
	for _, c := range candidates {
		if strings.EqualFold(input, c) {
			return c, true
		}
	}
	lower := strings.ToLower(input)
	for _, c := range candidates {
		cl := strings.ToLower(c)
		if strings.Contains(lower, cl) || strings.Contains(cl, lower) {
			return c, true
		}
	}
	return "", false
}
