// Copyright (c) 2026 VaultPass Team
// VaultPass - local credential vault
// This source code is licensed under the MIT license found in the LICENSE file.

package db

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/toeirei/vaultpass/internal/logging"
	"github.com/uptrace/bun"
)

var debugEnabled atomic.Bool

// SetDebug turns on debug logging of store lifecycle events and of every
// SQL statement. Off by default.
func SetDebug(enabled bool) {
	debugEnabled.Store(enabled)
}

func dbLogf(format string, v ...any) {
	if debugEnabled.Load() {
		logging.Debugf(format, v...)
	}
}

// queryLogHook logs executed statements while debug logging is on. Query
// arguments are already inlined by bun, so sealed values appear only in
// their encrypted form.
type queryLogHook struct{}

var _ bun.QueryHook = queryLogHook{}

func (queryLogHook) BeforeQuery(ctx context.Context, _ *bun.QueryEvent) context.Context {
	return ctx
}

func (queryLogHook) AfterQuery(_ context.Context, event *bun.QueryEvent) {
	if !debugEnabled.Load() {
		return
	}
	if event.Err != nil {
		logging.Debugf("sql (%s, error %v): %s", time.Since(event.StartTime).Round(time.Microsecond), event.Err, event.Query)
		return
	}
	logging.Debugf("sql (%s): %s", time.Since(event.StartTime).Round(time.Microsecond), event.Query)
}
