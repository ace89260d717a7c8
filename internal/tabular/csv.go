// Package tabular loads exclusion tables from CSV and exports result rows.
package tabular

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/anatolykoptev/go_scout/internal/engine/scout"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// ReadCSV reads a CSV table with a header row. The delimiter (comma,
// semicolon or tab) is sniffed from the header. Ragged rows are allowed.
func ReadCSV(r io.Reader) (scout.Table, error) {
	br := bufio.NewReader(r)
	if b, err := br.Peek(3); err == nil && bytes.Equal(b, utf8BOM) {
		br.Discard(3) //nolint:errcheck
	}
	head, _ := br.Peek(4096)
	first, _, _ := bytes.Cut(head, []byte("\n"))

	cr := csv.NewReader(br)
	cr.Comma = sniffDelimiter(string(first))
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	cr.TrimLeadingSpace = cr.Comma != '\t'

	records, err := cr.ReadAll()
	if err != nil {
		return scout.Table{}, fmt.Errorf("read csv: %w", err)
	}
	if len(records) == 0 {
		return scout.Table{}, errors.New("read csv: empty file")
	}

	t := scout.Table{Columns: records[0]}
	for _, rec := range records[1:] {
		if blank(rec) {
			continue
		}
		t.Rows = append(t.Rows, rec)
	}
	return t, nil
}

// ReadCSVFile opens path and reads it with ReadCSV.
func ReadCSVFile(path string) (scout.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return scout.Table{}, fmt.Errorf("open exclusion table: %w", err)
	}
	defer f.Close()
	t, err := ReadCSV(f)
	if err != nil {
		return scout.Table{}, fmt.Errorf("%s: %w", path, err)
	}
	return t, nil
}

func sniffDelimiter(header string) rune {
	best, bestN := ',', strings.Count(header, ",")
	for _, d := range []rune{';', '\t'} {
		if n := strings.Count(header, string(d)); n > bestN {
			best, bestN = d, n
		}
	}
	return best
}

func blank(rec []string) bool {
	for _, c := range rec {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

// ResultColumns is the export header.
var ResultColumns = []string{"Channel", "Subscribers", "Total views", "Avg views", "Videos", "Country", "Link"}

// WriteCSV writes rows with a header. Channel IDs are not exported; the
// link carries them.
func WriteCSV(w io.Writer, rows []scout.ResultRow) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(ResultColumns); err != nil {
		return fmt.Errorf("write csv: %w", err)
	}
	for _, r := range rows {
		rec := []string{
			r.Title,
			strconv.FormatInt(r.Subscribers, 10),
			strconv.FormatInt(r.TotalViews, 10),
			strconv.FormatInt(r.AvgViews, 10),
			strconv.Itoa(r.Samples),
			r.Country,
			r.Link,
		}
		if err := cw.Write(rec); err != nil {
			return fmt.Errorf("write csv: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteCSVFile writes rows to path, replacing it.
func WriteCSVFile(path string, rows []scout.ResultRow) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := WriteCSV(f, rows); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
