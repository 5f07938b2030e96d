// Copyright (c) 2019, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

/*
Package cache stores solved decoders in an SQLite database, so that building
the same model again skips the least-squares solve.  A Cache satisfies the
nef.DecoderCache interface:

	dc, err := cache.Open("decoders.db")
	...
	defer dc.Close()
	sm, err := nef.NewSimulator(net, nef.WithCache(dc))
*/
package cache

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/emer/nef/nef"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"

	_ "modernc.org/sqlite" // SQLite driver
)

// Cache is an SQLite-backed decoder cache.  It is safe for concurrent use.
type Cache struct {
	mu   sync.Mutex
	db   *sql.DB
	path string
}

// Open opens (creating if needed) the decoder cache at path.
func Open(path string) (*Cache, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, errors.Wrap(err, "create cache directory")
		}
	}
	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)")
	if err != nil {
		return nil, errors.Wrap(err, "open decoder cache")
	}
	db.SetMaxOpenConns(1) // single writer

	if err := InitSchema(context.Background(), db); err != nil {
		db.Close()
		return nil, errors.Wrapf(err, "initialize decoder cache %s", path)
	}
	return &Cache{db: db, path: path}, nil
}

// Path returns the database file path
func (c *Cache) Path() string {
	return c.path
}

// Key returns the cache key for decoders solved with sp from acts and targs
func Key(sp *nef.SolverParams, acts, targs *mat.Dense) string {
	return sp.DecoderKey(acts, targs)
}

// Get returns the decoders stored under key, and false if there are none
func (c *Cache) Get(key string) (*mat.Dense, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var rows, cols int
	var data []byte
	err := c.db.QueryRow(`SELECT n_rows, n_cols, data FROM decoders WHERE hash = ?`, key).Scan(&rows, &cols, &data)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, errors.Wrap(err, "get decoders")
	}
	dcd := &mat.Dense{}
	if err := dcd.UnmarshalBinary(data); err != nil {
		return nil, false, errors.Wrapf(err, "decode decoders %s", key)
	}
	if r, cl := dcd.Dims(); r != rows || cl != cols {
		return nil, false, errors.Errorf("decoders %s: stored as %dx%d, decoded %dx%d", key, rows, cols, r, cl)
	}
	return dcd, true, nil
}

// Put stores decoders under key, replacing any existing entry
func (c *Cache) Put(key string, dcd *mat.Dense) error {
	data, err := dcd.MarshalBinary()
	if err != nil {
		return errors.Wrap(err, "encode decoders")
	}
	rows, cols := dcd.Dims()

	c.mu.Lock()
	defer c.mu.Unlock()
	_, err = c.db.Exec(`INSERT OR REPLACE INTO decoders (hash, n_rows, n_cols, data, created_at) VALUES (?, ?, ?, ?, ?)`,
		key, rows, cols, data, time.Now().UTC().Format(time.RFC3339))
	return errors.Wrap(err, "put decoders")
}

// Len returns the number of stored decoder sets
func (c *Cache) Len() (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	var n int
	if err := c.db.QueryRow(`SELECT COUNT(*) FROM decoders`).Scan(&n); err != nil {
		return 0, errors.Wrap(err, "count decoders")
	}
	return n, nil
}

// Clear removes all stored decoders
func (c *Cache) Clear() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, err := c.db.Exec(`DELETE FROM decoders`)
	return errors.Wrap(err, "clear decoders")
}

// Close closes the database
func (c *Cache) Close() error {
	return c.db.Close()
}
