/*
 * Copyright 2025 tomoncle.
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package database

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sqliteConfig(t *testing.T) *ConnectionConfig {
	t.Helper()
	cfg := DefaultConnectionConfig()
	cfg.Type = "sqlite"
	cfg.DBName = filepath.Join(t.TempDir(), "strata")
	return cfg
}

func TestDatabaseManagerLifecycle(t *testing.T) {
	ctx := context.Background()
	m := NewDatabaseManager(sqliteConfig(t))

	require.NoError(t, m.Connect(ctx))
	require.NotNil(t, m.GetDB())
	require.NotNil(t, m.GetSQLDB())
	assert.NoError(t, m.Ping(ctx))

	status := m.HealthCheck(ctx)
	assert.True(t, status.Healthy)
	assert.True(t, status.Connected)
	assert.Empty(t, status.LastError)
	assert.Equal(t, 100, m.GetStats().MaxOpenConns)

	require.NoError(t, m.Reconnect(ctx))
	assert.NoError(t, m.Ping(ctx))

	require.NoError(t, m.Disconnect())
	assert.Nil(t, m.GetDB())
	assert.Error(t, m.Ping(ctx))
	assert.False(t, m.HealthCheck(ctx).Healthy)
	assert.Equal(t, DBStats{}, *m.GetStats())
}

func TestDatabaseManagerUnsupportedType(t *testing.T) {
	cfg := DefaultConnectionConfig()
	cfg.Type = "oracle"
	err := NewDatabaseManager(cfg).Connect(context.Background())
	assert.ErrorContains(t, err, "unsupported database type: oracle")
}

func TestFactoryRejectsUnknownType(t *testing.T) {
	cfg := DefaultConnectionConfig()
	cfg.Type = "mongodb"
	_, err := NewDatabaseFactory().CreateFromConfig(cfg)
	assert.ErrorContains(t, err, "unsupported database type")

	_, err = NewDatabaseFactory().CreateFromConfig(nil)
	assert.Error(t, err)
	assert.Error(t, NewDatabaseFactory().InitializeDatabase(context.Background()))
}

func TestInitDBAndCloseDB(t *testing.T) {
	ctx := context.Background()
	assert.Nil(t, GetDB())
	assert.False(t, GetHealthStatus(ctx).Healthy)

	db, err := InitDB(ctx, &Config{ConnectionConfig: *sqliteConfig(t)})
	require.NoError(t, err)
	assert.Same(t, db, GetDB())
	assert.NotNil(t, GetDatabaseManager())
	assert.True(t, GetHealthStatus(ctx).Healthy)

	var one int
	require.NoError(t, GetDB().NewSelect().ColumnExpr("1").Scan(ctx, &one))
	assert.Equal(t, 1, one)

	require.NoError(t, CloseDB())
	assert.Nil(t, GetDB())
	assert.NoError(t, CloseDB())

	_, err = InitDB(ctx, nil)
	assert.Error(t, err)
}

func TestSqliteDSN(t *testing.T) {
	tests := map[string]string{
		":memory:":              ":memory:",
		"file::memory:?cache=1": "file::memory:?cache=1",
		"/tmp/app.db":           "/tmp/app.db",
		"/tmp/app.sqlite":       "/tmp/app.sqlite",
		"/tmp/app":              "/tmp/app.db",
	}
	for in, want := range tests {
		assert.Equal(t, want, sqliteDSN(in), in)
	}
}
