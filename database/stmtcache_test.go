package database

import (
	"database/sql"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStmtCache(t *testing.T) {
	db, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	defer db.Close()

	_, err = db.Exec(`CREATE TABLE t (k TEXT PRIMARY KEY, v TEXT)`)
	require.NoError(t, err)

	sc := NewStmtCache(db)
	stmt1, err := sc.Prepare(`INSERT INTO t (k, v) VALUES (?, ?)`)
	require.NoError(t, err)
	stmt2, err := sc.Prepare(`INSERT INTO t (k, v) VALUES (?, ?)`)
	require.NoError(t, err)
	assert.Same(t, stmt1, stmt2)
	assert.Equal(t, 1, sc.Len())

	_, err = stmt1.Exec("a", "b")
	assert.NoError(t, err)

	_, err = sc.Prepare(`SELECT * FROM missing`)
	assert.Error(t, err)
	assert.Equal(t, 1, sc.Len())

	sc.Clear()
	assert.Equal(t, 0, sc.Len())

	// cache can be reused after clearing
	stmt3, err := sc.Prepare(`SELECT v FROM t WHERE k = ?`)
	require.NoError(t, err)
	var v string
	require.NoError(t, stmt3.QueryRow("a").Scan(&v))
	assert.Equal(t, "b", v)
}
