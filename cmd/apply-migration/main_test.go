package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitStatements(t *testing.T) {
	in := `-- header comment
CREATE TABLE a (id INT);

-- second
CREATE INDEX idx ON a (id);
   ;
`
	stmts := splitStatements(in)
	require.Len(t, stmts, 2)
	assert.Equal(t, "CREATE TABLE a (id INT)", stmts[0])
	assert.Equal(t, "CREATE INDEX idx ON a (id)", stmts[1])
}
