// Copyright (c) 2026 VaultPass Team
// VaultPass - local credential vault
// This source code is licensed under the MIT license found in the LICENSE file.

package db

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/uptrace/bun"
)

// rawQuerier is satisfied by *bun.DB and bun.Tx.
type rawQuerier interface {
	NewRaw(query string, args ...any) *bun.RawQuery
}

// ExecRaw runs a statement that returns no rows, such as maintenance or
// bulk deletes.
func ExecRaw(ctx context.Context, q rawQuerier, query string, args ...any) (sql.Result, error) {
	return q.NewRaw(query, args...).Exec(ctx)
}

// QueryRawInto scans the result of a raw query into dest.
func QueryRawInto(ctx context.Context, q rawQuerier, dest any, query string, args ...any) error {
	return q.NewRaw(query, args...).Scan(ctx, dest)
}

// countRows counts every row of table, soft-deleted ones included. table is
// always one of the fixed vault table names.
func countRows(ctx context.Context, q rawQuerier, table string) (int, error) {
	var n int
	if err := QueryRawInto(ctx, q, &n, "SELECT COUNT(*) FROM "+table); err != nil {
		return 0, fmt.Errorf("count %s: %w", table, err)
	}
	return n, nil
}
