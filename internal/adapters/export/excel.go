// Package export writes rankings to spreadsheet files.
package export

import (
	"errors"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/okian/hirematch/internal/domain/model"
	"github.com/okian/hirematch/internal/domain/types"
	"github.com/xuri/excelize/v2"
)

// ErrExport wraps every failure to build or save a workbook.
var ErrExport = errors.New("export failed")

const (
	summarySheet    = "Summary"
	candidatesSheet = "Ranked Candidates"

	headerFill = "4472C4"
)

// Score bands, highest first.
var bands = []struct {
	min   int
	label string
	fill  string
}{
	{90, "Excellent (90-100)", "C6EFCE"},
	{70, "Good (70-89)", "FFEB9C"},
	{50, "Fair (50-69)", "FFC7CE"},
	{0, "Poor (<50)", "FF9999"},
}

var candidateHeaders = []string{
	"Rank", "Name", "Email", "Status", "Score", "Skill Score",
	"Experience Score", "Experience (years)", "Matched Skills", "Missing Skills",
}

// ToExcel writes pos and its ranking to a workbook at path and returns the
// path written. The path always ends in .xlsx. An empty ranking still
// produces both sheets, with headers only.
func ToExcel(pos model.Position, ranking types.Ranking, path string) (string, error) {
	if !strings.HasSuffix(strings.ToLower(path), ".xlsx") {
		path += ".xlsx"
	}
	path = filepath.Clean(path)

	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", summarySheet); err != nil {
		return "", fmt.Errorf("%w: %w", ErrExport, err)
	}
	if _, err := f.NewSheet(candidatesSheet); err != nil {
		return "", fmt.Errorf("%w: %w", ErrExport, err)
	}
	if err := writeSummary(f, pos, ranking); err != nil {
		return "", fmt.Errorf("%w: summary sheet: %w", ErrExport, err)
	}
	if err := writeCandidates(f, ranking.Candidates); err != nil {
		return "", fmt.Errorf("%w: candidates sheet: %w", ErrExport, err)
	}
	if err := f.SaveAs(path); err != nil {
		return "", fmt.Errorf("%w: save %q: %w", ErrExport, path, err)
	}
	return path, nil
}

// sheetWriter records the first error so cell writes can be chained.
type sheetWriter struct {
	f     *excelize.File
	sheet string
	err   error
}

func (w *sheetWriter) set(col, row int, v any) {
	if w.err != nil {
		return
	}
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		w.err = err
		return
	}
	w.err = w.f.SetCellValue(w.sheet, cell, v)
}

func (w *sheetWriter) style(fromCol, toCol, row, style int) {
	if w.err != nil {
		return
	}
	from, err := excelize.CoordinatesToCellName(fromCol, row)
	if err != nil {
		w.err = err
		return
	}
	to, err := excelize.CoordinatesToCellName(toCol, row)
	if err != nil {
		w.err = err
		return
	}
	w.err = w.f.SetCellStyle(w.sheet, from, to, style)
}

func writeSummary(f *excelize.File, pos model.Position, ranking types.Ranking) error {
	if err := f.SetColWidth(summarySheet, "A", "A", 28); err != nil {
		return err
	}
	if err := f.SetColWidth(summarySheet, "B", "B", 50); err != nil {
		return err
	}
	header, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 14, Color: "FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Color: []string{headerFill}, Pattern: 1},
	})
	if err != nil {
		return err
	}
	label, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}

	w := &sheetWriter{f: f, sheet: summarySheet}
	row := 1
	w.set(1, row, "Candidate Match Report")
	w.style(1, 2, row, header)
	row += 2

	experience := strconv.Itoa(pos.MinExperienceYears) + "+ years"
	if pos.HasMaxExperience() {
		experience = fmt.Sprintf("%d-%d years", pos.MinExperienceYears, pos.MaxExperienceYears)
	}
	details := [][2]any{
		{"Position:", pos.Title},
		{"Department:", pos.Department},
		{"Required Skills:", strings.Join(pos.RequiredSkills, ", ")},
		{"Experience:", experience},
		{"Generated:", time.Now().Format("2006-01-02 15:04:05")},
		{"Candidates Scored:", ranking.Total},
		{"Candidates Listed:", len(ranking.Candidates)},
	}
	for _, d := range details {
		w.set(1, row, d[0])
		w.style(1, 1, row, label)
		w.set(2, row, d[1])
		row++
	}
	row++

	w.set(1, row, "Score Distribution")
	w.style(1, 2, row, header)
	row++
	counts := make([]int, len(bands))
	total := 0
	for _, c := range ranking.Candidates {
		counts[bandIndex(c.Score)]++
		total += c.Score
	}
	for i, b := range bands {
		w.set(1, row, b.label)
		w.set(2, row, counts[i])
		row++
	}
	if n := len(ranking.Candidates); n > 0 {
		row++
		w.set(1, row, "Average Score:")
		w.style(1, 1, row, label)
		w.set(2, row, fmt.Sprintf("%.2f", float64(total)/float64(n)))
	}
	return w.err
}

func writeCandidates(f *excelize.File, rows []types.RankedCandidate) error {
	widths := []float64{8, 25, 28, 12, 8, 12, 16, 16, 30, 30}
	for i, width := range widths {
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return err
		}
		if err := f.SetColWidth(candidatesSheet, col, col, width); err != nil {
			return err
		}
	}
	header, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{headerFill}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return err
	}
	bandStyles := make([]int, len(bands))
	for i, b := range bands {
		if bandStyles[i], err = f.NewStyle(&excelize.Style{
			Fill: excelize.Fill{Type: "pattern", Color: []string{b.fill}, Pattern: 1},
		}); err != nil {
			return err
		}
	}

	w := &sheetWriter{f: f, sheet: candidatesSheet}
	for i, h := range candidateHeaders {
		w.set(i+1, 1, h)
	}
	w.style(1, len(candidateHeaders), 1, header)

	for i, r := range rows {
		row := i + 2
		matched, missing := splitBadges(r.Skills)
		values := []any{
			r.Rank, r.Name, r.Email, r.Status, r.Score,
			round2(r.SkillScore), round2(r.ExperienceScore), r.ExperienceYears,
			strings.Join(matched, ", "), strings.Join(missing, ", "),
		}
		for col, v := range values {
			w.set(col+1, row, v)
		}
		w.style(1, len(candidateHeaders), row, bandStyles[bandIndex(r.Score)])
	}
	if w.err != nil {
		return w.err
	}
	return f.SetPanes(candidatesSheet, &excelize.Panes{
		Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft",
	})
}

func bandIndex(score int) int {
	for i, b := range bands {
		if score >= b.min {
			return i
		}
	}
	return len(bands) - 1
}

func splitBadges(badges []types.SkillBadge) (matched, missing []string) {
	for _, b := range badges {
		if b.Matched {
			matched = append(matched, b.Skill)
		} else {
			missing = append(missing, b.Skill)
		}
	}
	return matched, missing
}

func round2(v float64) float64 {
	return float64(int(v*100+0.5)) / 100
}
