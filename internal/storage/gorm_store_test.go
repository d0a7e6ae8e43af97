package storage

import (
	"database/sql"
	"database/sql/driver"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// offlineDriver never hands out connections.
type offlineDriver struct{}

func (offlineDriver) Open(string) (driver.Conn, error) {
	return nil, errors.New("offline")
}

func init() {
	sql.Register("storage-offline", offlineDriver{})
}

func TestGormStoreCloseReleasesPool(t *testing.T) {
	sqlDB, err := sql.Open("storage-offline", "")
	require.NoError(t, err)
	gdb, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{DisableAutomaticPing: true})
	require.NoError(t, err)

	kv := &GormStore{db: gdb, prefix: "buildhub:"}
	require.NoError(t, kv.Close())
	assert.ErrorContains(t, sqlDB.Ping(), "database is closed")
}
