// Package catalogfile reads catalog exports (CSV, XLSX, XLS) into products.
package catalogfile

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/glowmatch/backend/internal/domain"
	"github.com/glowmatch/backend/internal/infrastructure/catalog"
)

// headerRow is the 1-based row holding column names
const headerRow = 1

// ReadProducts picks a parser by file extension and maps every non-empty row
// to a product.
func ReadProducts(r io.Reader, filename string) ([]domain.Product, error) {
	rows, err := readRows(r, filename)
	if err != nil {
		return nil, err
	}

	products := make([]domain.Product, 0, len(rows))
	for _, row := range rows {
		products = append(products, catalog.MapRecord(row))
	}
	return products, nil
}

func readRows(r io.Reader, filename string) ([]map[string]string, error) {
	switch ext := strings.ToLower(filepath.Ext(filename)); ext {
	case ".csv":
		return readCSV(r)
	case ".xlsx":
		return readXLSX(r)
	case ".xls":
		return readXLS(r)
	default:
		return nil, fmt.Errorf("%w: %s", domain.ErrUnsupportedFile, filename)
	}
}

// pickHeader returns the header row, naming blank columns "column_N"
func pickHeader(rows [][]string) []string {
	idx := headerRow - 1
	if idx >= len(rows) {
		return nil
	}

	header := make([]string, len(rows[idx]))
	for i, v := range rows[idx] {
		v = strings.TrimSpace(v)
		if v == "" {
			v = fmt.Sprintf("column_%d", i+1)
		}
		header[i] = v
	}
	return header
}

// rowsToMaps keys each data row by header, skipping rows with no content
func rowsToMaps(rows [][]string, header []string) []map[string]string {
	var out []map[string]string
	for _, rec := range rows[min(headerRow, len(rows)):] {
		m := make(map[string]string, len(header))
		empty := true
		for c, name := range header {
			var v string
			if c < len(rec) {
				v = rec[c]
			}
			if strings.TrimSpace(v) != "" {
				empty = false
			}
			m[name] = v
		}
		if !empty {
			out = append(out, m)
		}
	}
	return out
}
