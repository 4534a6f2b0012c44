package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"unicode"
)

// SummaryFile is the name of the rollup sheet written by WriteDir.
const SummaryFile = "summary.csv"

// WriteTable writes a section sheet: a header of period labels, then one row
// per account with values rounded to whole units.
func WriteTable(w io.Writer, t *Table) error {
	cw := csv.NewWriter(w)

	header := make([]string, 0, len(t.Periods)+1)
	header = append(header, "")
	for _, p := range t.Periods {
		header = append(header, t.Period.Label(p))
	}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for _, row := range t.Rows {
		rec := make([]string, 0, len(row.Values)+1)
		rec = append(rec, row.Account)
		for _, v := range row.Values {
			rec = append(rec, strconv.FormatInt(round(v), 10))
		}
		if err := cw.Write(rec); err != nil {
			return fmt.Errorf("writing row %s: %w", row.Account, err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// WriteRollups writes the summary sheet: for each table a title row with the
// years, one row per account, a total row and a blank separator.
func WriteRollups(w io.Writer, rollups []Rollup) error {
	cw := csv.NewWriter(w)
	for _, r := range rollups {
		title := []string{fmt.Sprintf("%s (%s)", r.Title, r.Period)}
		for _, y := range r.Years {
			title = append(title, strconv.Itoa(y))
		}
		if err := cw.Write(title); err != nil {
			return fmt.Errorf("writing rollup %s: %w", r.Title, err)
		}
		for _, row := range r.Rows {
			if err := cw.Write(intRecord(row.Account, row.Means)); err != nil {
				return fmt.Errorf("writing rollup %s: %w", r.Title, err)
			}
		}
		if err := cw.Write(intRecord("total", r.Total)); err != nil {
			return fmt.Errorf("writing rollup %s: %w", r.Title, err)
		}
		if err := cw.Write(nil); err != nil {
			return fmt.Errorf("writing rollup %s: %w", r.Title, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

func intRecord(label string, vals []int64) []string {
	rec := make([]string, 0, len(vals)+1)
	rec = append(rec, label)
	for _, v := range vals {
		rec = append(rec, strconv.FormatInt(v, 10))
	}
	return rec
}

// WriteDir writes summary.csv plus one sheet per table into dir, creating it
// if needed. It returns the paths written. Sheet names come from FileNames,
// so no sheet overwrites another.
func WriteDir(dir string, tables []*Table) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating %s: %w", dir, err)
	}

	rollups := make([]Rollup, 0, len(tables))
	for _, t := range tables {
		rollups = append(rollups, t.Rollup())
	}

	var written []string
	path := filepath.Join(dir, SummaryFile)
	if err := writeFile(path, func(w io.Writer) error { return WriteRollups(w, rollups) }); err != nil {
		return written, err
	}
	written = append(written, path)

	names := FileNames(tables)
	for i, t := range tables {
		path := filepath.Join(dir, names[i])
		if err := writeFile(path, func(w io.Writer) error { return WriteTable(w, t) }); err != nil {
			return written, err
		}
		written = append(written, path)
	}
	return written, nil
}

// FileName turns a section title into a sheet file name:
// "Utilities & Phone" -> "utilities-phone.csv".
func FileName(title string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(title) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
			dash = false
			continue
		}
		if !dash && b.Len() > 0 {
			b.WriteByte('-')
			dash = true
		}
	}
	name := strings.TrimSuffix(b.String(), "-")
	if name == "" {
		name = "section"
	}
	return name + ".csv"
}

// FileNames returns a sheet file name for each table, in order. A name that
// is already taken, by summary.csv or an earlier table, gets a numeric suffix:
// "Food & Drink", "Food/Drink" -> "food-drink.csv", "food-drink-2.csv".
func FileNames(tables []*Table) []string {
	used := map[string]bool{SummaryFile: true}
	names := make([]string, len(tables))
	for i, t := range tables {
		name := FileName(t.Title)
		base := strings.TrimSuffix(name, ".csv")
		for n := 2; used[name]; n++ {
			name = fmt.Sprintf("%s-%d.csv", base, n)
		}
		used[name] = true
		names[i] = name
	}
	return names
}

func writeFile(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	if err := write(f); err != nil {
		f.Close()
		return fmt.Errorf("writing %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", path, err)
	}
	return nil
}
