package store

import (
	"context"
	"testing"

	"github.com/agnosticeng/chain-index/internal/queries"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDialect(t *testing.T) {
	d, err := Config{}.WithDefaults().Dialect()
	require.NoError(t, err)
	assert.Equal(t, queries.CQL, d)

	d, err = Config{Backend: ClickHouse}.Dialect()
	require.NoError(t, err)
	assert.Equal(t, queries.ClickHouse, d)

	_, err = Config{Backend: "mysql"}.Dialect()
	require.Error(t, err)
}

func TestOpenUnknownBackend(t *testing.T) {
	_, err := Open(context.Background(), Config{Backend: "mysql"})
	require.Error(t, err)
}
