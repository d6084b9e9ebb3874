package repo

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func openSQLite(t *testing.T) *gorm.DB {
	t.Helper()
	conn, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	require.NoError(t, err)
	return conn
}

func TestBaseDBBindsContext(t *testing.T) {
	base := NewBase(openSQLite(t))

	ctx := context.WithValue(context.Background(), struct{}{}, "v")
	bound := base.DB(ctx)
	require.NotNil(t, bound)
	require.NotNil(t, bound.Statement)
	assert.Equal(t, ctx, bound.Statement.Context)
}

func TestBaseDBNilContextReturnsRawConnection(t *testing.T) {
	conn := openSQLite(t)
	base := NewBase(conn)
	assert.Same(t, conn, base.DB(nil))
}
