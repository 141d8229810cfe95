package importer

import "strings"

// NameToID converts a display name such as "Slight of Hand" to its catalog
// ID "slight_of_hand". Whitespace runs become one underscore; characters
// other than [a-z0-9_] are dropped after lowercasing.
//
// Postcondition: NameToID(NameToID(s)) == NameToID(s).
func NameToID(name string) string {
	words := strings.Fields(strings.ToLower(name))
	out := words[:0]
	for _, w := range words {
		w = strings.Map(func(r rune) rune {
			if r == '_' || (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
				return r
			}
			return -1
		}, w)
		if w != "" {
			out = append(out, w)
		}
	}
	return strings.Join(out, "_")
}
