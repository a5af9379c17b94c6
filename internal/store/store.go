// Package store persists the two pieces of proxy state that must survive a
// restart (§6 "persisted state"): the ban list and the username->UUID
// cache used to answer offline lookups without re-deriving them. Open
// always builds the in-memory map snapshotted to YAML; the MySQL-backed
// implementation of the same interfaces lives in internal/store/sqlstore
// and is chosen by the caller.
package store

import (
	"errors"
	"time"
)

// BanEntry is one ban-list record.
type BanEntry struct {
	Username string    `yaml:"username"`
	UUID     string    `yaml:"uuid"`
	Reason   string    `yaml:"reason"`
	BannedAt time.Time `yaml:"banned_at"`
}

// UUIDCacheEntry is one username->UUID cache record.
type UUIDCacheEntry struct {
	Username string    `yaml:"username"`
	UUID     string    `yaml:"uuid"`
	CachedAt time.Time `yaml:"cached_at"`
}

// BanStore looks up and maintains banned identities.
type BanStore interface {
	IsBanned(usernameOrUUID string) (BanEntry, bool)
	Ban(entry BanEntry) error
	Unban(usernameOrUUID string) error
	ListBans() ([]BanEntry, error)
}

// UUIDCacheStore caches the online UUID a username last resolved to, so a
// repeat login doesn't need a fresh Mojang lookup to recognize the player.
type UUIDCacheStore interface {
	LookupUUID(username string) (UUIDCacheEntry, bool)
	PutUUID(entry UUIDCacheEntry) error
}

// Store is the full persisted-state surface the core consults.
type Store interface {
	BanStore
	UUIDCacheStore
	Close() error
}

// ErrNotFound names the "absent" condition. The lookups in this package
// report absence through their false ok result and do not return it.
var ErrNotFound = errors.New("store: not found")

// Open builds the default in-memory/YAML store, persisted at banPath and
// uuidCachePath (either may be empty to skip persistence for that half).
// Callers wanting the MySQL-backed store use sqlstore.Open directly
// instead - keeping that choice outside this package avoids a dependency
// cycle (sqlstore implements this package's interfaces, so it imports
// this package, not the reverse).
func Open(banPath, uuidCachePath string) (Store, error) {
	return newYAMLStore(banPath, uuidCachePath)
}
