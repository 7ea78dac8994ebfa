// Package keys implements credential resolution for the generative API: an
// ordered set of origin-tagged candidates is probed until one is usable.
package keys

import "strings"

// Origin identifies where a credential candidate came from. Resolution
// priority and the dispatch encoding both depend on it.
type Origin string

const (
	// OriginRequest is a key explicitly supplied on the current request.
	OriginRequest Origin = "request"
	// OriginServer is the server-configured default key.
	OriginServer Origin = "server"
	// OriginClient is a key previously persisted on the client.
	OriginClient Origin = "client"
)

// Credential is an opaque token authorizing calls to the generative API,
// tagged with its origin.
type Credential struct {
	Key    string
	Origin Origin
}

// ValidFormat reports whether key satisfies the externally-defined format
// precondition: the fixed "AIza" prefix and more than 30 characters.
// Persisted values failing this check are treated as absent.
func ValidFormat(key string) bool {
	key = strings.TrimSpace(key)
	return strings.HasPrefix(key, "AIza") && len(key) > 30
}
