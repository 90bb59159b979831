package lookup

import (
	"html"
	"regexp"
	"strings"
)

// The pages are fixed-format server-rendered HTML; the pack's idiom for
// fixed-format text is regexp scraping, so no HTML parser dependency.
var (
	tokenRe = regexp.MustCompile(`name="` + tokenField + `"[^>]*\bvalue="([^"]*)"`)
	rowRe   = regexp.MustCompile(`(?s)<tr[^>]*>(.*?)</tr>`)
	cellRe  = regexp.MustCompile(`(?s)<td[^>]*>(.*?)</td>`)
	tagRe   = regexp.MustCompile(`<[^>]*>`)
)

func extractToken(body string) (string, bool) {
	m := tokenRe.FindStringSubmatch(body)
	if m == nil || m[1] == "" {
		return "", false
	}
	return m[1], true
}

// extractRecord scans the result table for the row matching the queried
// number. Expected cell order: number, name, gender, handicap index.
func extractRecord(body, number string) (Record, bool) {
	for _, row := range rowRe.FindAllStringSubmatch(body, -1) {
		cells := cellRe.FindAllStringSubmatch(row[1], -1)
		if len(cells) < 4 {
			continue
		}
		values := make([]string, len(cells))
		for i, cell := range cells {
			values[i] = cleanCell(cell[1])
		}
		if values[0] != number {
			continue
		}
		return Record{
			Number: values[0],
			Name:   values[1],
			Gender: values[2],
			HI:     values[3],
		}, true
	}
	return Record{}, false
}

func cleanCell(cell string) string {
	text := html.UnescapeString(tagRe.ReplaceAllString(cell, ""))
	text = strings.ReplaceAll(text, "\u00a0", " ")
	return strings.TrimSpace(text)
}
