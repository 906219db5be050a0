package store

import (
	"github.com/example/taxconsult-api/internal/catalog"
	"github.com/example/taxconsult-api/internal/lead"
)

// Store is the full persistence surface of the API: the catalog read/write
// contract plus lead storage. Every backend in this package implements it.
type Store interface {
	catalog.AdminStore
	lead.Store
}

var (
	_ Store = (*PostgresStore)(nil)
	_ Store = (*MemoryStore)(nil)
	_ Store = (*DynamoStore)(nil)
)
