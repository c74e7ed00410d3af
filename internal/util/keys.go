package util

import (
	"encoding/hex"
	"strings"
)

// DocKey returns the provider key for a document digest in namespace ns:
// doc:<ns>:<lowercase hex digest>.
func DocKey(ns string, digest []byte) string {
	var sb strings.Builder
	sb.Grow(len("doc:") + len(ns) + 1 + hex.EncodedLen(len(digest)))
	sb.WriteString("doc:")
	sb.WriteString(ns)
	sb.WriteByte(':')
	sb.WriteString(hex.EncodeToString(digest))
	return sb.String()
}
