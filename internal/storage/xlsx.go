package storage

import (
	"github.com/xuri/excelize/v2"
)

// ExportSweepXLSX writes a workbook with a Summary sheet (base parameters
// and the best-scoring row) and a Rows sheet with one line per grid point.
func ExportSweepXLSX(filename string, study Study) error {
	f := excelize.NewFile()
	defer f.Close()

	summary := "Summary"
	if err := f.SetSheetName("Sheet1", summary); err != nil {
		return err
	}

	base := study.Base
	pairs := [][2]any{
		{"Study", study.ID},
		{"Kind", study.Kind},
		{"Created", study.Created.Format("2006-01-02 15:04:05")},
		{"Coupling", base.Coupling},
		{"time_delta", base.Dt},
		{"loop_count", base.LoopCount},
		{"mu", base.Mu},
		{"sigma", base.Sigma},
		{"Rows", len(study.Rows)},
	}
	if best, ok := BestRow(study.Rows); ok {
		pairs = append(pairs,
			[2]any{"Best n", best.N},
			[2]any{"Best k", best.K},
			[2]any{"Best score", best.Score},
		)
	}
	for i, p := range pairs {
		row := i + 1
		a, _ := excelize.CoordinatesToCellName(1, row)
		b, _ := excelize.CoordinatesToCellName(2, row)
		f.SetCellValue(summary, a, p[0])
		f.SetCellValue(summary, b, p[1])
	}

	sheet := "Rows"
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}
	header := []string{"No", "n", "k", "seed", "r_mean", "r_std", "score", "skip"}
	for col, name := range header {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		f.SetCellValue(sheet, cell, name)
	}
	for i, r := range study.Rows {
		values := []any{i + 1, r.N, r.K, r.Seed, r.RMean, r.RStd, r.Score, r.Skip}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, i+2)
			f.SetCellValue(sheet, cell, v)
		}
	}

	return f.SaveAs(filename)
}

// BestRow returns the row with the lowest score.
func BestRow(rows []StudyRow) (StudyRow, bool) {
	if len(rows) == 0 {
		return StudyRow{}, false
	}
	best := rows[0]
	for _, r := range rows[1:] {
		if r.Score < best.Score {
			best = r
		}
	}
	return best, true
}
