// Package textnorm folds text to console-safe 7-bit ASCII and produces
// redacted previews for logs.
//
// Previews never contain the full original text: they are a bounded prefix
// plus a one-way hash digest, so sensitive content cannot leak into session
// logs while records stay debuggable.
package textnorm

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"

	"golang.org/x/text/unicode/norm"
)

const (
	// PreviewPrefixLen is the number of folded characters retained verbatim
	// in a redacted preview.
	PreviewPrefixLen = 40
	// PreviewDigestLen is the number of hex digits of the SHA-256 digest
	// appended to a preview.
	PreviewDigestLen = 12
)

// Fold normalizes s to 7-bit ASCII. Text is NFKD-decomposed so accented
// characters fall back to their ASCII base; anything still outside the
// printable ASCII range is dropped. Newlines and tabs survive (previews
// flatten them later).
func Fold(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range norm.NFKD.String(s) {
		switch {
		case r >= 0x20 && r < 0x7F:
			b.WriteRune(r)
		case r == '\n' || r == '\t':
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Digest returns the truncated hex SHA-256 digest of text.
// Re-hashing the same text always reproduces the stored digest.
func Digest(text string) string {
	sum := sha256.Sum256([]byte(text))
	return hex.EncodeToString(sum[:])[:PreviewDigestLen]
}

// Preview returns a redacted preview of text: a bounded prefix (newlines
// flattened to spaces) joined with the digest of the full text.
// Short texts appear whole; long texts are truncated with an ellipsis so
// the preview never contains the full content.
//
// Callers pass the folded form, so a stored digest is verified by
// re-hashing Fold(original), not the raw original.
func Preview(text string) string {
	digest := Digest(text)
	runes := []rune(text)
	if len(runes) <= PreviewPrefixLen {
		return flatten(text) + "|" + digest
	}
	return flatten(string(runes[:PreviewPrefixLen])) + "...|" + digest
}

// ContentKey returns a stable identity hash over the folded field values,
// in order. Used to match records across files by content rather than by
// position.
func ContentKey(fields []string) string {
	h := sha256.New()
	for _, f := range fields {
		h.Write([]byte(Fold(f)))
		h.Write([]byte{0})
	}
	return hex.EncodeToString(h.Sum(nil))
}

func flatten(s string) string {
	s = strings.ReplaceAll(s, "\n", " ")
	return strings.ReplaceAll(s, "\t", " ")
}
