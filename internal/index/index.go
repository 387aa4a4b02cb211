package index

import "github.com/open-sspm/sspmdocs/internal/docs"

// DocIndex defines the search index operations used by the servers.
type DocIndex interface {
	Rebuild(site *docs.Site) error
	Search(query string, limit int) ([]SearchResult, error)
	Count() (int, error)
	Close() error
}

var _ DocIndex = (*DB)(nil)
