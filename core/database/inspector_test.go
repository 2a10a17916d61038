package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetTableColumns(t *testing.T) {
	cfg := Config{
		Driver: "sqlite",
		Name:   ":memory:",
	}
	db, err := Connect(cfg)
	assert.NoError(t, err)
	assert.NotNil(t, db)

	err = db.Exec("CREATE TABLE items (id INTEGER PRIMARY KEY, code TEXT, stock INTEGER, min_stock INTEGER)").Error
	assert.NoError(t, err)

	columns, err := GetTableColumns(db, "items")
	assert.NoError(t, err)
	assert.Len(t, columns, 4)

	colMap := make(map[string]string)
	for _, col := range columns {
		colMap[col.Field] = col.Type
	}

	assert.Equal(t, "integer", colMap["id"])
	assert.Equal(t, "text", colMap["code"])
	assert.Equal(t, "integer", colMap["stock"])

	// PRAGMA table_info returns an empty result for a non-existent table in
	// SQLite: no error, no columns.
	cols, err := GetTableColumns(db, "non_existent")
	assert.NoError(t, err)
	assert.Empty(t, cols)
}
