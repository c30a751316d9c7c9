//go:build unit

package main

import (
	"testing"

	"ariga.io/atlas/sql/migrate"
	"github.com/stretchr/testify/require"
)

func TestMigrationsChecksum(t *testing.T) {
	dir, err := migrate.NewLocalDir("../../migrations")
	require.NoError(t, err)

	require.NoError(t, migrate.Validate(dir), "atlas.sum is out of date, run atlas migrate hash")
}
