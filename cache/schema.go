// Copyright (c) 2019, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cache

import (
	"context"
	"database/sql"

	"github.com/pkg/errors"
)

// SchemaVersion is the current schema version.
const SchemaVersion = 1

// schemaV1 is the initial schema for the decoder cache.
const schemaV1 = `
CREATE TABLE IF NOT EXISTS decoders (
    hash TEXT PRIMARY KEY,     -- sha256 of solver params, activities and targets
    n_rows INTEGER NOT NULL,   -- neurons
    n_cols INTEGER NOT NULL,   -- decoded dims
    data BLOB NOT NULL,        -- gonum mat.Dense binary encoding
    created_at TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS schema_version (
    version INTEGER PRIMARY KEY
);
`

// InitSchema creates the tables if needed and checks the schema version.
func InitSchema(ctx context.Context, db *sql.DB) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "begin schema transaction")
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, schemaV1); err != nil {
		return errors.Wrap(err, "create schema")
	}
	var version sql.NullInt64
	if err := tx.QueryRowContext(ctx, `SELECT MAX(version) FROM schema_version`).Scan(&version); err != nil {
		return errors.Wrap(err, "read schema version")
	}
	switch {
	case !version.Valid:
		if _, err := tx.ExecContext(ctx, `INSERT INTO schema_version (version) VALUES (?)`, SchemaVersion); err != nil {
			return errors.Wrap(err, "set schema version")
		}
	case version.Int64 > SchemaVersion:
		return errors.Errorf("decoder cache schema version %d is newer than supported version %d", version.Int64, SchemaVersion)
	}
	return errors.Wrap(tx.Commit(), "commit schema")
}
