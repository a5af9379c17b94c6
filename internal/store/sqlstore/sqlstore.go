// Package sqlstore is the MySQL-backed implementation of the store
// package's BanStore/UUIDCacheStore interfaces (§6 "persisted state"),
// grounded on the teacher pack's internal/database connection wrapper:
// sql.Open, a Ping at startup, and one query per method.
package sqlstore

import (
	"database/sql"
	"fmt"

	_ "github.com/go-sql-driver/mysql"

	"github.com/gatekit/mcproxy/internal/store"
)

// SQLStore is a database/sql-backed Store. Schema (created out of band):
//
//	CREATE TABLE bans (
//	  id BIGINT AUTO_INCREMENT PRIMARY KEY,
//	  username VARCHAR(16), uuid CHAR(36), reason VARCHAR(255), banned_at DATETIME
//	);
//	CREATE TABLE uuid_cache (
//	  username VARCHAR(16) PRIMARY KEY, uuid CHAR(36), cached_at DATETIME
//	);
type SQLStore struct {
	db *sql.DB
}

// Open connects to dsn (a go-sql-driver/mysql data source name) and pings
// it once before returning, the same "fail fast at startup" shape as
// internal/database.NewConnection.
func Open(dsn string) (*SQLStore, error) {
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("sqlstore: open: %w", err)
	}
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("sqlstore: ping: %w", err)
	}
	return &SQLStore{db: db}, nil
}

func (s *SQLStore) Close() error { return s.db.Close() }

func (s *SQLStore) IsBanned(usernameOrUUID string) (store.BanEntry, bool) {
	var e store.BanEntry
	row := s.db.QueryRow(
		`SELECT username, uuid, reason, banned_at FROM bans WHERE username = ? OR uuid = ? LIMIT 1`,
		usernameOrUUID, usernameOrUUID)
	if err := row.Scan(&e.Username, &e.UUID, &e.Reason, &e.BannedAt); err != nil {
		return store.BanEntry{}, false
	}
	return e, true
}

func (s *SQLStore) Ban(entry store.BanEntry) error {
	_, err := s.db.Exec(
		`INSERT INTO bans (username, uuid, reason, banned_at) VALUES (?, ?, ?, ?)`,
		entry.Username, entry.UUID, entry.Reason, entry.BannedAt)
	if err != nil {
		return fmt.Errorf("sqlstore: ban: %w", err)
	}
	return nil
}

func (s *SQLStore) Unban(usernameOrUUID string) error {
	_, err := s.db.Exec(`DELETE FROM bans WHERE username = ? OR uuid = ?`, usernameOrUUID, usernameOrUUID)
	if err != nil {
		return fmt.Errorf("sqlstore: unban: %w", err)
	}
	return nil
}

func (s *SQLStore) ListBans() ([]store.BanEntry, error) {
	rows, err := s.db.Query(`SELECT username, uuid, reason, banned_at FROM bans`)
	if err != nil {
		return nil, fmt.Errorf("sqlstore: list bans: %w", err)
	}
	defer rows.Close()

	var out []store.BanEntry
	for rows.Next() {
		var e store.BanEntry
		if err := rows.Scan(&e.Username, &e.UUID, &e.Reason, &e.BannedAt); err != nil {
			return nil, fmt.Errorf("sqlstore: scan ban: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (s *SQLStore) LookupUUID(username string) (store.UUIDCacheEntry, bool) {
	var e store.UUIDCacheEntry
	row := s.db.QueryRow(`SELECT username, uuid, cached_at FROM uuid_cache WHERE username = ?`, username)
	if err := row.Scan(&e.Username, &e.UUID, &e.CachedAt); err != nil {
		return store.UUIDCacheEntry{}, false
	}
	return e, true
}

func (s *SQLStore) PutUUID(entry store.UUIDCacheEntry) error {
	_, err := s.db.Exec(
		`INSERT INTO uuid_cache (username, uuid, cached_at) VALUES (?, ?, ?)
		 ON DUPLICATE KEY UPDATE uuid = VALUES(uuid), cached_at = VALUES(cached_at)`,
		entry.Username, entry.UUID, entry.CachedAt)
	if err != nil {
		return fmt.Errorf("sqlstore: put uuid: %w", err)
	}
	return nil
}

var _ store.Store = (*SQLStore)(nil)
