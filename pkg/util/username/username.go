// Package username normalizes the raw bytes a LOGIN_START packet carries
// before they become the canonical identity used everywhere else (offline
// UUID derivation, registry keys, PLAYER_LIST_ITEM entries).
package username

import "golang.org/x/text/width"

// Fold narrows any full-width or half-width form variant a legacy client's
// IME may have sent (§8: offline UUID derivation hashes the exact username
// bytes, so two clients meaning the same name must fold to the same bytes
// first) down to its canonical ASCII form.
func Fold(raw string) string {
	return width.Fold.String(raw)
}
