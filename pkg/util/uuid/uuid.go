// Package uuid derives the offline (backend) and canonicalizes the online
// (client-facing) player UUIDs the proxy registry bridges between.
package uuid

import (
	"crypto/md5"

	"github.com/google/uuid"
)

// Offline derives the UUID an offline-mode (non-authenticating) backend
// server assigns a player purely from their username, per Mojang's
// documented algorithm (MD5 of "OfflinePlayer:"+name, with the version and
// variant bits forced).
func Offline(username string) uuid.UUID {
	var u uuid.UUID
	sum := md5.Sum([]byte("OfflinePlayer:" + username))
	copy(u[:], sum[:])
	u[6] = (u[6] & 0x0f) | 0x30 // version 3
	u[8] = (u[8] & 0x3f) | 0x80 // RFC 4122 variant
	return u
}

// Canonical lowercases and re-parses s, the representation invariant round-
// trip codec properties require (§8 invariant 1: "UUIDs may canonicalize to
// lowercase hex").
func Canonical(s string) (uuid.UUID, error) {
	return uuid.Parse(s)
}
