package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/electromart/electromart-backend/config"
	"github.com/electromart/electromart-backend/internal/app"
	"github.com/electromart/electromart-backend/internal/app/model"
	"github.com/electromart/electromart-backend/internal/app/service"
	"github.com/electromart/electromart-backend/internal/db"
	"github.com/xuri/excelize/v2"
)

// Columns of the catalog sheet, after a header row
const (
	colName = iota
	colDescription
	colPrice
	colInStock
	colImage
)

func main() {
	// Usage: seed [catalog.xlsx] [-y]
	var filePath string
	assumeYes := false
	for _, arg := range os.Args[1:] {
		if arg == "-y" || arg == "--yes" {
			assumeYes = true
			continue
		}
		filePath = arg
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	var products []model.Product
	if filePath != "" {
		fmt.Printf("Reading XLSX file: %s\n", filePath)
		var skipped int
		products, skipped, err = readProductsFromXLSX(filePath)
		if err != nil {
			log.Fatal("Failed to read XLSX:", err)
		}
		if skipped > 0 {
			fmt.Printf("Skipped %d invalid rows\n", skipped)
		}
	} else {
		fmt.Println("No XLSX file given, using the built-in sample catalog")
		products = db.SampleProducts()
	}

	fmt.Printf("Total products to import: %d (store: %s)\n", len(products), cfg.Store.Driver)

	if !assumeYes {
		fmt.Print("This replaces the whole catalog. Proceed? (yes/no): ")
		var confirm string
		fmt.Scanln(&confirm)
		if confirm != "yes" && confirm != "y" {
			fmt.Println("Import cancelled.")
			return
		}
	}

	ctx := context.Background()
	stores, err := app.OpenStores(ctx, cfg)
	if err != nil {
		log.Fatal("Failed to open store:", err)
	}
	defer stores.Close(ctx)

	inserted, err := service.NewProductService(stores.Products, nil).ReplaceCatalog(ctx, products)
	if err != nil {
		log.Fatal("Failed to replace catalog:", err)
	}

	fmt.Println("Import completed successfully!")
	fmt.Printf("Total products imported: %d\n", inserted)
}

// readProductsFromXLSX reads the first sheet. Rows without a name or with an
// unparseable price are skipped and counted.
func readProductsFromXLSX(filePath string) ([]model.Product, int, error) {
	f, err := excelize.OpenFile(filePath)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to open XLSX file: %w", err)
	}
	defer f.Close()

	sheetName := f.GetSheetName(0)
	if sheetName == "" {
		return nil, 0, fmt.Errorf("no sheets found in XLSX file")
	}

	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to read rows: %w", err)
	}
	if len(rows) < 2 {
		return nil, 0, fmt.Errorf("no data found in XLSX file")
	}

	var products []model.Product
	skipped := 0
	for _, row := range rows[1:] {
		product, ok := parseProductRow(row)
		if !ok {
			skipped++
			continue
		}
		products = append(products, product)
	}
	return products, skipped, nil
}

func parseProductRow(row []string) (model.Product, bool) {
	cell := func(i int) string {
		if i < len(row) {
			return strings.TrimSpace(row[i])
		}
		return ""
	}

	name := cell(colName)
	if name == "" {
		return model.Product{}, false
	}

	price, err := strconv.ParseFloat(cell(colPrice), 64)
	if err != nil || price < 0 {
		return model.Product{}, false
	}

	return model.Product{
		Name:        name,
		Description: cell(colDescription),
		Price:       price,
		InStock:     parseInStock(cell(colInStock)),
		Image:       cell(colImage),
	}, true
}

// parseInStock treats blank cells as in stock
func parseInStock(v string) bool {
	switch strings.ToLower(v) {
	case "", "y", "yes":
		return true
	case "n", "no":
		return false
	}
	b, err := strconv.ParseBool(v)
	return err != nil || b
}
