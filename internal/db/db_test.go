package db

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeDSN(t *testing.T) {
	got, err := NormalizeDSN("ugiot:secret@tcp(localhost:3306)/ugiot")
	require.NoError(t, err)
	assert.Contains(t, got, "parseTime=true")
	assert.Contains(t, got, "charset=utf8mb4")

	got, err = NormalizeDSN("ugiot:secret@tcp(localhost:3306)/ugiot?charset=utf8")
	require.NoError(t, err)
	assert.Contains(t, got, "charset=utf8")
	assert.NotContains(t, got, "utf8mb4")

	_, err = NormalizeDSN("not a dsn")
	assert.Error(t, err)
}
