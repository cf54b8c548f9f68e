package catalog

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/tealeg/xlsx"
)

// BoothSheetName 展位工作表名
const BoothSheetName = "booths"

// 工作表列名（首行为表头，其后每行一个展位）
var boothColumns = []string{
	"id", "name", "category", "shortDescription", "description", "posterImage",
	"x", "y", "width", "height", "videoUrl", "images", "links",
}

// LoadBoothSheet 从 xlsx 读取展位目录
// images 列格式：url|caption;url|caption   links 列格式：url|title;url|title
func LoadBoothSheet(path string) ([]Booth, error) {
	f, err := xlsx.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("catalog: open booth sheet: %w", err)
	}
	sheet, ok := f.Sheet[BoothSheetName]
	if !ok {
		return nil, fmt.Errorf("catalog: no sheet ( %s ) found in %s", BoothSheetName, path)
	}
	if len(sheet.Rows) < 2 {
		return nil, fmt.Errorf("catalog: sheet ( %s ) has no booth rows", BoothSheetName)
	}

	cols := make(map[string]int)
	for idx, cell := range sheet.Rows[0].Cells {
		name, err := cell.FormattedValue()
		if err != nil {
			return nil, fmt.Errorf("catalog: sheet ( %s ) header col %d: %w", BoothSheetName, idx, err)
		}
		cols[strings.TrimSpace(name)] = idx
	}
	for _, want := range boothColumns[:10] {
		if _, ok := cols[want]; !ok {
			return nil, fmt.Errorf("catalog: sheet ( %s ) not found column : %s", BoothSheetName, want)
		}
	}

	booths := make([]Booth, 0, len(sheet.Rows)-1)
	for i, row := range sheet.Rows[1:] {
		if row == nil || len(row.Cells) == 0 {
			continue
		}
		r := sheetRow{cells: row.Cells, cols: cols, line: i + 2}
		b := Booth{
			ID:               r.str("id"),
			Name:             r.str("name"),
			Category:         r.str("category"),
			ShortDescription: r.str("shortDescription"),
			Description:      r.str("description"),
			PosterImage:      r.str("posterImage"),
			VideoURL:         r.str("videoUrl"),
		}
		if b.ID == "" {
			continue
		}
		b.Position.X = r.num("x")
		b.Position.Y = r.num("y")
		b.Size.Width = r.num("width")
		b.Size.Height = r.num("height")
		for _, pair := range splitPairs(r.str("images")) {
			b.Images = append(b.Images, Image{URL: pair[0], Caption: pair[1]})
		}
		for _, pair := range splitPairs(r.str("links")) {
			b.Links = append(b.Links, Link{URL: pair[0], Title: pair[1]})
		}
		if r.err != nil {
			return nil, r.err
		}
		booths = append(booths, b)
	}
	return booths, nil
}

type sheetRow struct {
	cells []*xlsx.Cell
	cols  map[string]int
	line  int
	err   error
}

func (r *sheetRow) str(col string) string {
	idx, ok := r.cols[col]
	if !ok || idx >= len(r.cells) || r.cells[idx] == nil {
		return ""
	}
	v, err := r.cells[idx].FormattedValue()
	if err != nil && r.err == nil {
		r.err = fmt.Errorf("catalog: sheet ( %s ), cell (row : %d, col : %s) formatted err : %w", BoothSheetName, r.line, col, err)
	}
	return strings.TrimSpace(v)
}

func (r *sheetRow) num(col string) int {
	s := r.str(col)
	if s == "" {
		return 0
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		if r.err == nil {
			r.err = fmt.Errorf("catalog: sheet ( %s ), row %d column %s: %q is not a number", BoothSheetName, r.line, col, s)
		}
		return 0
	}
	return int(f)
}

func splitPairs(s string) [][2]string {
	if s == "" {
		return nil
	}
	var out [][2]string
	for _, item := range strings.Split(s, ";") {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		url, label, _ := strings.Cut(item, "|")
		out = append(out, [2]string{strings.TrimSpace(url), strings.TrimSpace(label)})
	}
	return out
}
