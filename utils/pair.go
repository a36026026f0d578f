package utils

// SortPair returns the two user ids in lexicographic order. Every
// unordered-pair lookup (connections, chat rooms) canonicalizes through
// this so insertion order never matters.
func SortPair(a, b string) (string, string) {
	if b < a {
		return b, a
	}
	return a, b
}

// PairKey builds the canonical partition key for an unordered pair.
func PairKey(a, b string) string {
	lo, hi := SortPair(a, b)
	return lo + "#" + hi
}

// RoomID builds the deterministic chat room id for an unordered pair,
// so two concurrent bootstrap attempts compute the same id.
func RoomID(a, b string) string {
	lo, hi := SortPair(a, b)
	return "chat_" + lo + "_" + hi
}
