package chat

import (
	"sort"
	"strings"
)

var keySanitizer = strings.NewReplacer(".", "_", "#", "_", "$", "_", "[", "_", "]", "_")

// SanitizeKey replaces characters the store forbids in path keys.
func SanitizeKey(key string) string {
	return keySanitizer.Replace(key)
}

// ConversationID derives the deterministic id for a two-party chat:
// sanitize both identifiers, sort them, join with "_". Either
// participant opening the conversation lands on the same id.
func ConversationID(a, b string) string {
	ids := []string{SanitizeKey(a), SanitizeKey(b)}
	sort.Strings(ids)
	return ids[0] + "_" + ids[1]
}
