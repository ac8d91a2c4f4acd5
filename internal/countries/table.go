package countries

import (
	"bufio"
	_ "embed"
	"fmt"
	"strings"
	"sync"

	"github.com/hightemp/countrykit/internal/address"
)

//go:embed countries.csv
var tableData string

// tableEntry is one row of the embedded table before localization.
type tableEntry struct {
	alpha2    string
	alpha3    string
	name      string
	labels    []address.Label
	ascending bool
}

const tableColumns = 5

var (
	table     []tableEntry
	tableOnce sync.Once
)

func loadTable() []tableEntry {
	tableOnce.Do(func() {
		entries, err := parseTable(tableData)
		if err != nil {
			// The table ships with the binary; a bad row is a build defect.
			panic(fmt.Sprintf("countries: embedded table: %v", err))
		}
		table = entries
	})
	return table
}

func parseTable(data string) ([]tableEntry, error) {
	entries := make([]tableEntry, 0, 256)
	seen2 := make(map[string]bool)
	seen3 := make(map[string]bool)

	scanner := bufio.NewScanner(strings.NewReader(data))
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		parts := strings.Split(line, ",")
		if len(parts) != tableColumns {
			return nil, fmt.Errorf("line %d: expected %d columns, got %d", lineNo, tableColumns, len(parts))
		}

		alpha2 := strings.ToUpper(strings.TrimSpace(parts[0]))
		alpha3 := strings.ToUpper(strings.TrimSpace(parts[1]))
		if len(alpha2) != 2 || len(alpha3) != 3 {
			return nil, fmt.Errorf("line %d: bad codes %q/%q", lineNo, alpha2, alpha3)
		}
		if seen2[alpha2] || seen3[alpha3] {
			return nil, fmt.Errorf("line %d: duplicate code %s/%s", lineNo, alpha2, alpha3)
		}
		seen2[alpha2] = true
		seen3[alpha3] = true

		labels, ok := address.Layout(strings.TrimSpace(parts[3]))
		if !ok {
			return nil, fmt.Errorf("line %d: unknown address layout %q", lineNo, parts[3])
		}

		scope := strings.TrimSpace(parts[4])
		if scope != "" && scope != "asc" && scope != "desc" {
			return nil, fmt.Errorf("line %d: unknown address scope %q", lineNo, scope)
		}

		entries = append(entries, tableEntry{
			alpha2:    alpha2,
			alpha3:    alpha3,
			name:      strings.TrimSpace(parts[2]),
			labels:    labels,
			ascending: scope != "desc",
		})
	}
	return entries, scanner.Err()
}

// ParseCodeList reads alpha-2 codes, one per line. Blank lines and '#'
// comments are skipped; codes are returned upper case.
func ParseCodeList(content string) ([]string, error) {
	var result []string
	scanner := bufio.NewScanner(strings.NewReader(content))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		code := strings.ToUpper(line)
		if len(code) == 2 {
			result = append(result, code)
		}
	}
	return result, scanner.Err()
}
