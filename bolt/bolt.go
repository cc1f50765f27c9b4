// Package bolt caches the remote newsletter catalog in a local bolt file.
package bolt

import (
	"github.com/asdine/storm/v3"
)

// DB represents the catalog cache database
type DB struct {
	path    string
	stormDB *storm.DB
}

// NewDB returns new database
func NewDB(path string) *DB {
	return &DB{
		path: path,
	}
}

// Open opens new database connection
func (db *DB) Open() error {
	stormDB, err := storm.Open(db.path)
	if err != nil {
		return err
	}
	db.stormDB = stormDB

	return nil
}

// Close closes database connection
func (db *DB) Close() error {
	if db.stormDB != nil {
		return db.stormDB.Close()
	}

	return nil
}
