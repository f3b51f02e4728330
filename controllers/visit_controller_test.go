package controller

import (
	"encoding/csv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadDataRowsSkipsMalformedRows(t *testing.T) {
	input := "store_name,city\n" +
		"Alpha Market,Casablanca\n" +
		"\"Broken\"Quote,Rabat\n" +
		"Beta Shop,Fes\n"
	reader := csv.NewReader(strings.NewReader(input))
	reader.FieldsPerRecord = -1
	_, err := reader.Read() // header
	require.NoError(t, err)

	rows, bad := readDataRows(reader, nil)

	assert.Equal(t, 1, bad)
	require.Len(t, rows, 2)
	assert.Equal(t, "Alpha Market", rows[0][0])
	assert.Equal(t, "Beta Shop", rows[1][0])
}

func TestReadDataRowsEmptyBody(t *testing.T) {
	reader := csv.NewReader(strings.NewReader("store_name\n"))
	reader.FieldsPerRecord = -1
	_, err := reader.Read() // header
	require.NoError(t, err)

	rows, bad := readDataRows(reader, nil)
	assert.Empty(t, rows)
	assert.Equal(t, 0, bad)
}
