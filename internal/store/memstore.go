package store

import (
	"os"
	"sync"

	"gopkg.in/yaml.v2"
)

// yamlStore keeps both maps in memory and, when a path is configured,
// rewrites the whole file after every mutation - the ban list and UUID
// cache are small and changed rarely enough that a full rewrite per write
// is simpler and safer than an append log.
type yamlStore struct {
	mu sync.Mutex

	banPath string
	bans    map[string]BanEntry // keyed by username or UUID string, exactly as given

	cachePath string
	cache     map[string]UUIDCacheEntry // keyed by username, exactly as given
}

func newYAMLStore(banPath, cachePath string) (*yamlStore, error) {
	s := &yamlStore{
		banPath:   banPath,
		bans:      make(map[string]BanEntry),
		cachePath: cachePath,
		cache:     make(map[string]UUIDCacheEntry),
	}
	if banPath != "" {
		if err := loadYAML(banPath, &s.bans); err != nil {
			return nil, err
		}
	}
	if cachePath != "" {
		if err := loadYAML(cachePath, &s.cache); err != nil {
			return nil, err
		}
	}
	return s, nil
}

func loadYAML(path string, v interface{}) error {
	raw, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return err
	}
	return yaml.Unmarshal(raw, v)
}

func saveYAML(path string, v interface{}) error {
	if path == "" {
		return nil
	}
	raw, err := yaml.Marshal(v)
	if err != nil {
		return err
	}
	return os.WriteFile(path, raw, 0o644)
}

func (s *yamlStore) IsBanned(usernameOrUUID string) (BanEntry, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.bans[usernameOrUUID]
	return e, ok
}

func (s *yamlStore) Ban(entry BanEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if entry.Username != "" {
		s.bans[entry.Username] = entry
	}
	if entry.UUID != "" {
		s.bans[entry.UUID] = entry
	}
	return saveYAML(s.banPath, s.bans)
}

func (s *yamlStore) Unban(usernameOrUUID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.bans, usernameOrUUID)
	return saveYAML(s.banPath, s.bans)
}

func (s *yamlStore) ListBans() ([]BanEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	seen := make(map[BanEntry]bool, len(s.bans))
	out := make([]BanEntry, 0, len(s.bans))
	for _, e := range s.bans {
		if seen[e] {
			continue
		}
		seen[e] = true
		out = append(out, e)
	}
	return out, nil
}

func (s *yamlStore) LookupUUID(username string) (UUIDCacheEntry, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.cache[username]
	return e, ok
}

func (s *yamlStore) PutUUID(entry UUIDCacheEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cache[entry.Username] = entry
	return saveYAML(s.cachePath, s.cache)
}

func (s *yamlStore) Close() error { return nil }

var _ Store = (*yamlStore)(nil)
