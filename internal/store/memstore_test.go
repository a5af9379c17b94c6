package store

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestYAMLStoreBanAndUnban(t *testing.T) {
	s, err := newYAMLStore("", "")
	require.NoError(t, err)

	_, banned := s.IsBanned("Notch")
	assert.False(t, banned)

	require.NoError(t, s.Ban(BanEntry{Username: "Notch", UUID: "8667ba71-b85a-3041-9b10-1e1950c3e1a9", Reason: "griefing"}))

	byName, ok := s.IsBanned("Notch")
	require.True(t, ok)
	assert.Equal(t, "griefing", byName.Reason)

	byUUID, ok := s.IsBanned("8667ba71-b85a-3041-9b10-1e1950c3e1a9")
	require.True(t, ok)
	assert.Equal(t, byName, byUUID, "the same ban entry is indexed under both its username and UUID keys")

	require.NoError(t, s.Unban("Notch"))
	_, banned = s.IsBanned("Notch")
	assert.False(t, banned)
	// unban by username only drops that key; the UUID key is untouched.
	_, stillBanned := s.IsBanned("8667ba71-b85a-3041-9b10-1e1950c3e1a9")
	assert.True(t, stillBanned)
}

func TestYAMLStoreListBansDeduplicates(t *testing.T) {
	s, err := newYAMLStore("", "")
	require.NoError(t, err)
	require.NoError(t, s.Ban(BanEntry{Username: "Notch", UUID: "8667ba71-b85a-3041-9b10-1e1950c3e1a9", Reason: "griefing"}))

	bans, err := s.ListBans()
	require.NoError(t, err)
	assert.Len(t, bans, 1, "one entry reachable via two keys must not appear twice")
}

func TestYAMLStoreUUIDCache(t *testing.T) {
	s, err := newYAMLStore("", "")
	require.NoError(t, err)

	_, ok := s.LookupUUID("Notch")
	assert.False(t, ok)

	entry := UUIDCacheEntry{Username: "Notch", UUID: "8667ba71-b85a-3041-9b10-1e1950c3e1a9", CachedAt: time.Now()}
	require.NoError(t, s.PutUUID(entry))

	got, ok := s.LookupUUID("Notch")
	require.True(t, ok)
	assert.Equal(t, entry.UUID, got.UUID)
}

func TestYAMLStorePersistsAcrossReopen(t *testing.T) {
	dir := t.TempDir()
	banPath := filepath.Join(dir, "bans.yml")
	cachePath := filepath.Join(dir, "uuids.yml")

	s1, err := newYAMLStore(banPath, cachePath)
	require.NoError(t, err)
	require.NoError(t, s1.Ban(BanEntry{Username: "Notch", Reason: "griefing"}))
	require.NoError(t, s1.PutUUID(UUIDCacheEntry{Username: "jeb_", UUID: "853c80ef-3c37-49fd-aa49-938b674adae6"}))

	s2, err := newYAMLStore(banPath, cachePath)
	require.NoError(t, err)

	ban, ok := s2.IsBanned("Notch")
	require.True(t, ok)
	assert.Equal(t, "griefing", ban.Reason)

	cached, ok := s2.LookupUUID("jeb_")
	require.True(t, ok)
	assert.Equal(t, "853c80ef-3c37-49fd-aa49-938b674adae6", cached.UUID)
}

func TestYAMLStoreOpenMissingFileIsNotAnError(t *testing.T) {
	dir := t.TempDir()
	_, err := newYAMLStore(filepath.Join(dir, "does-not-exist.yml"), "")
	assert.NoError(t, err)
}
