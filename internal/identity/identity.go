package identity

import (
	"crypto/sha256"
	"encoding/hex"
	"net"
	"net/http"
	"strings"
)

// tokenLen is the number of hex characters kept from the digest. 16 chars
// (64 bits) is plenty for dedup while keeping the stored token short.
const tokenLen = 16

// Anonymize derives the dedup token for a raw network address: SHA-256,
// hex-encoded, truncated. The same address always yields the same token and
// the address cannot be recovered from it. Empty input yields an empty
// token, which callers treat as "identity unknown, record no like".
func Anonymize(rawAddr string) string {
	if rawAddr == "" {
		return ""
	}
	sum := sha256.Sum256([]byte(rawAddr))
	return hex.EncodeToString(sum[:])[:tokenLen]
}

// ClientIP extracts the requester's address, honoring X-Forwarded-For when
// the service sits behind a proxy. The first hop in the header is the
// original client.
func ClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		if first, _, ok := strings.Cut(xff, ","); ok {
			return strings.TrimSpace(first)
		}
		return strings.TrimSpace(xff)
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
