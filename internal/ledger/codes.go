package ledger

import (
	"crypto/rand"
	"fmt"
	"strings"
)

// codeAlphabet excludes 0/O/1/I for readability. Exactly 32 characters, so a
// masked random byte indexes it uniformly.
const codeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

const defaultCodePrefix = "RF"

// buildRandomCode returns a readable random referral code without PII.
// Format: PREFIX-XXXX-XXXX.
func buildRandomCode(prefix string) string {
	if prefix == "" {
		prefix = defaultCodePrefix
	}
	var buf [8]byte
	if _, err := rand.Read(buf[:]); err != nil {
		// crypto/rand never fails on supported platforms
		panic(fmt.Sprintf("crypto/rand: %v", err))
	}
	body := make([]byte, 8)
	for i, b := range buf {
		body[i] = codeAlphabet[b&31]
	}
	return fmt.Sprintf("%s-%s-%s", prefix, body[:4], body[4:])
}

// NormalizeCode canonicalizes user-typed codes: upper case, no whitespace or
// underscores, en/em dashes unified to "-".
func NormalizeCode(raw string) string {
	code := strings.ToUpper(strings.TrimSpace(raw))
	replacer := strings.NewReplacer(
		" ", "",
		"\t", "",
		"_", "",
		"—", "-",
		"–", "-",
	)
	return replacer.Replace(code)
}
