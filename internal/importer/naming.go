package importer

import "strings"

// singulars returns the lower-cased name and the singular forms it may be a plural of:
// Customers yields customers and customer; Statuses yields statuses, status and statuse;
// Categories also yields category.
func singulars(name string) []string {
	s := strings.ToLower(name)
	out := []string{s}
	if len(s) < 2 || !strings.HasSuffix(s, "s") || strings.HasSuffix(s, "ss") {
		return out
	}
	out = append(out, s[:len(s)-1])
	if len(s) > 3 && strings.HasSuffix(s, "es") {
		out = append(out, s[:len(s)-2])
	}
	if len(s) > 3 && strings.HasSuffix(s, "ies") {
		out = append(out, s[:len(s)-3]+"y")
	}
	return out
}

// sameCollection reports whether two names denote the same collection, ignoring case
// and English plural endings in either direction.
func sameCollection(a, b string) bool {
	for _, x := range singulars(a) {
		for _, y := range singulars(b) {
			if x == y {
				return true
			}
		}
	}
	return false
}
