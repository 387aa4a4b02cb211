package index

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/open-sspm/sspmdocs/internal/docs"
	"github.com/open-sspm/sspmdocs/internal/storage"
)

// Rebuild replaces every entry with the contents of site in one transaction.
func (db *DB) Rebuild(site *docs.Site) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("index: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // best-effort on failure path

	if _, err := tx.Exec(`DELETE FROM entries`); err != nil {
		return fmt.Errorf("index: clear entries: %w", err)
	}
	if err := ftsClear(tx); err != nil {
		return err
	}

	stmt, err := tx.Prepare(`INSERT INTO entries (kind, key, title, body, href) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("index: prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, e := range Entries(site) {
		res, err := stmt.Exec(e.Kind, e.Key, e.Title, e.Body, e.Href)
		if err != nil {
			return fmt.Errorf("index: insert %s %s: %w", e.Kind, e.Key, err)
		}
		id, err := res.LastInsertId()
		if err != nil {
			return fmt.Errorf("index: insert id: %w", err)
		}
		if err := ftsInsert(tx, id, e); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// Count returns the number of indexed entries.
func (db *DB) Count() (int, error) {
	var n int
	if err := db.conn.QueryRow(`SELECT count(*) FROM entries`).Scan(&n); err != nil {
		return 0, fmt.Errorf("index: count: %w", err)
	}
	return n, nil
}

// Sync loads the docs from store and, when their checksum differs from the
// current site, rebuilds the index and swaps the site into holder. It reports
// whether a new site was installed. On error the current site is kept.
func Sync(ctx context.Context, db DocIndex, holder *docs.Holder, store storage.Provider, logger *slog.Logger) (bool, error) {
	site, err := docs.Load(ctx, store)
	if err != nil {
		return false, err
	}
	if cur, err := holder.Current(); err == nil && cur.Checksum == site.Checksum {
		logger.Debug("sync: unchanged", slog.String("checksum", site.Checksum))
		return false, nil
	}
	if err := db.Rebuild(site); err != nil {
		return false, err
	}
	holder.Set(site)
	logger.Info("sync: loaded",
		slog.String("source", site.Source),
		slog.String("checksum", site.Checksum))
	return true, nil
}
