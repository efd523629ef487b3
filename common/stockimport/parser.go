// Package stockimport loads the exchange's listed-stock CSV dump into the
// stock catalog.
package stockimport

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/wishstock/wishlist/common/apperr"
	"github.com/wishstock/wishlist/common/models"
	"golang.org/x/text/encoding/korean"
	"golang.org/x/text/transform"
)

// Encoding names the character set of a dump file.
type Encoding string

const (
	EUCKR Encoding = "euc-kr"
	UTF8  Encoding = "utf-8"
)

// ParseEncoding accepts the spellings operators tend to type.
func ParseEncoding(s string) (Encoding, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "euc-kr", "euckr", "cp949":
		return EUCKR, nil
	case "utf-8", "utf8":
		return UTF8, nil
	default:
		return "", apperr.Invalid("unsupported encoding %q", s)
	}
}

// Column layout of the dump.
const (
	colCode   = 0
	colName   = 1
	colMarket = 2
	colPrice  = 4

	headerCode = "종목코드"
)

const utf8BOM = "\ufeff"

// Parse reads every stock row of a dump. The header row is skipped. A row
// that cannot be read fails the whole parse with its line number.
func Parse(r io.Reader, enc Encoding) ([]models.Stock, error) {
	src, err := decode(r, enc)
	if err != nil {
		return nil, err
	}

	reader := csv.NewReader(src)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	var stocks []models.Stock
	seen := make(map[string]int)
	for first := true; ; first = false {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			// csv.ParseError already names the line
			return nil, err
		}
		line, _ := reader.FieldPos(0)

		if first && len(record) > 0 {
			record[0] = strings.TrimPrefix(record[0], utf8BOM)
		}
		if len(record) > 0 && strings.TrimSpace(record[colCode]) == headerCode {
			continue
		}
		if isBlank(record) {
			continue
		}

		stock, err := parseRecord(record)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}

		// A later row for the same code wins; one batch may not touch a row twice.
		if i, ok := seen[stock.Code]; ok {
			stocks[i] = stock
			continue
		}
		seen[stock.Code] = len(stocks)
		stocks = append(stocks, stock)
	}

	return stocks, nil
}

func decode(r io.Reader, enc Encoding) (io.Reader, error) {
	switch enc {
	case EUCKR:
		return transform.NewReader(r, korean.EUCKR.NewDecoder()), nil
	case UTF8, "":
		return r, nil
	default:
		return nil, apperr.Invalid("unsupported encoding %q", enc)
	}
}

func parseRecord(record []string) (models.Stock, error) {
	if len(record) <= colPrice {
		return models.Stock{}, apperr.Invalid("expected at least %d columns, got %d", colPrice+1, len(record))
	}

	code := strings.TrimSpace(record[colCode])
	name := strings.TrimSpace(record[colName])
	if code == "" || name == "" {
		return models.Stock{}, apperr.Invalid("code and name are required")
	}

	raw := strings.ReplaceAll(strings.TrimSpace(record[colPrice]), ",", "")
	price, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return models.Stock{}, apperr.Invalid("price %q is not an integer", record[colPrice])
	}
	if price < 0 {
		return models.Stock{}, apperr.Invalid("price %d is negative", price)
	}

	return models.Stock{
		Code:   code,
		Name:   name,
		Market: strings.TrimSpace(record[colMarket]),
		Price:  price,
	}, nil
}

func isBlank(record []string) bool {
	for _, f := range record {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}
