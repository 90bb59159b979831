package docstore

import (
	"os"
	"strings"

	"github.com/google/uuid"

	"github.com/avolkov/teesheet/internal/table"
)

// seedRows reads the bundled federation roster export. The file is a
// semicolon-separated table with a header line: number;name;club;gender;hi.
// A missing file just means an empty initial roster.
func seedRows(path string) ([]table.Row, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var rows []table.Row
	lines := strings.Split(strings.ReplaceAll(string(data), "\r\n", "\n"), "\n")
	for i, line := range lines {
		if i == 0 || strings.TrimSpace(line) == "" {
			continue
		}
		fields := strings.Split(line, ";")
		for j := range fields {
			fields[j] = strings.TrimSpace(fields[j])
		}
		row := table.Row{
			ID:     uuid.NewString(),
			Order:  float64(len(rows) + 1),
			Number: field(fields, 0),
		}
		row.Name = strings.ReplaceAll(field(fields, 1), ".", "")
		row.Gender = normalizeGender(field(fields, 3))
		row.HI = strings.ReplaceAll(field(fields, 4), ",", ".")
		rows = append(rows, row)
	}
	return rows, nil
}

func field(fields []string, i int) string {
	if i >= len(fields) {
		return ""
	}
	return fields[i]
}

func normalizeGender(gender string) string {
	switch strings.ToLower(gender) {
	case "м":
		return table.GenderMale
	case "ж":
		return table.GenderFemale
	}
	return gender
}

// defaultColumns is the initial layout: five structural columns, one percent
// column, and the fixed trailing controls column at order 10000.
func defaultColumns() []table.Column {
	specs := []table.Column{
		{Order: 1, Width: 50},
		{Order: 2, Width: 100},
		{Order: 3, Width: 325},
		{Order: 4, Width: 75},
		{Order: 5, Width: 75},
		{Order: 6, Width: 75, Percent: "25"},
		{Order: 10000, Width: 100},
	}
	for i := range specs {
		specs[i].ID = uuid.NewString()
	}
	return specs
}
