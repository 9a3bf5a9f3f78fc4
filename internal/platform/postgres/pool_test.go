// Copyright (c) 2026 Storekeep. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package postgres_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/storekeep/internal/platform/postgres"
)

func TestConfig(t *testing.T) {
	config, err := postgres.Config("postgres://keeper:pw@db:5432/storekeep?sslmode=disable")
	require.NoError(t, err)

	assert.Equal(t, "db", config.ConnConfig.Host)
	assert.Equal(t, "storekeep", config.ConnConfig.Database)
	assert.Equal(t, "UTC", config.ConnConfig.RuntimeParams["timezone"])
	assert.Equal(t, int32(10), config.MaxConns)
	assert.Equal(t, 5*time.Second, config.ConnConfig.ConnectTimeout)
	assert.NotNil(t, config.AfterConnect)

	_, err = postgres.Config("postgres://db:notaport/x")
	assert.Error(t, err)
}
