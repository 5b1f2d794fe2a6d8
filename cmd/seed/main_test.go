package main

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func writeCatalog(t *testing.T, rows [][]interface{}) string {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	for i, row := range rows {
		cellRef, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheet, cellRef, &row))
	}

	path := filepath.Join(t.TempDir(), "catalog.xlsx")
	require.NoError(t, f.SaveAs(path))
	return path
}

func TestReadProductsFromXLSX(t *testing.T) {
	path := writeCatalog(t, [][]interface{}{
		{"name", "description", "price", "inStock", "image"},
		{"USB-C Charger", "65W GaN", "39.99", "yes", "charger.png"},
		{"HDMI Cable", "2m", "9.5", "false", "hdmi.png"},
		{"", "no name", "5", "yes", ""},
		{"Bad Price", "", "abc", "", ""},
		{"Mouse", "", "19", "", ""},
	})

	products, skipped, err := readProductsFromXLSX(path)
	require.NoError(t, err)
	assert.Equal(t, 2, skipped)
	require.Len(t, products, 3)

	assert.Equal(t, "USB-C Charger", products[0].Name)
	assert.Equal(t, 39.99, products[0].Price)
	assert.True(t, products[0].InStock)
	assert.Equal(t, "charger.png", products[0].Image)

	assert.False(t, products[1].InStock)
	assert.True(t, products[2].InStock)
}

func TestReadProductsFromXLSX_HeaderOnly(t *testing.T) {
	path := writeCatalog(t, [][]interface{}{
		{"name", "description", "price", "inStock", "image"},
	})

	_, _, err := readProductsFromXLSX(path)
	assert.Error(t, err)
}

func TestParseInStock(t *testing.T) {
	assert.True(t, parseInStock(""))
	assert.True(t, parseInStock("TRUE"))
	assert.True(t, parseInStock("1"))
	assert.False(t, parseInStock("No"))
	assert.False(t, parseInStock("0"))
}
