package store

import (
	"fmt"
	"testing"

	"plume/internal/db"
	"plume/internal/token"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// testDB opens a fresh in-memory database with the schema migrated and the
// roles seeded, isolated per test by name.
func testDB(t *testing.T) *gorm.DB {
	t.Helper()

	// _foreign_keys=on so the delete cascades behave like postgres.
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=on", t.Name())
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.Migrate(gdb))
	require.NoError(t, db.SeedRoles(gdb))
	return gdb
}

func testCodec() *token.Codec {
	return token.NewCodec([]byte("test-secret"))
}
