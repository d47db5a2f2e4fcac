// Package exportsvc renders listings as spreadsheets.
package exportsvc

import (
	"bytes"
	"time"

	"github.com/pkg/errors"
	"github.com/xuri/excelize/v2"

	"github.com/startupsl/backend/core/company"
	"github.com/startupsl/backend/core/stats"
)

const (
	ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

	companiesSheet = "Companies"
	sectorsSheet   = "Sectors"
)

var companiesHeader = []string{
	"ID",
	"Name",
	"Sector",
	"Stage",
	"Location",
	"Funding Status",
	"Amount Raised",
	"Funding Needed",
	"Employees",
	"Email",
	"Website",
	"Created At",
}

var companiesColWidths = []float64{38, 28, 18, 14, 18, 16, 16, 16, 12, 28, 30, 20}

func companyRow(c company.Company) []interface{} {
	return []interface{}{
		c.ID,
		c.Name,
		c.Sector,
		c.Stage,
		c.Location,
		c.FundingStatus,
		c.AmountRaised,
		c.FundingNeeded,
		c.EmployeesRange,
		c.Email,
		c.Website,
		c.CreatedAt.UTC().Format(time.RFC3339),
	}
}

// Companies builds a workbook listing comps, with a second sheet summarizing them per sector.
func Companies(comps []company.Company) ([]byte, error) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	index, err := f.NewSheet(companiesSheet)
	if err != nil {
		return nil, errors.Wrap(err, "creating companies sheet")
	}
	if _, err = f.NewSheet(sectorsSheet); err != nil {
		return nil, errors.Wrap(err, "creating sectors sheet")
	}
	if err = f.DeleteSheet("Sheet1"); err != nil {
		return nil, errors.Wrap(err, "deleting default sheet")
	}
	f.SetActiveSheet(index)

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E6F3FF"}, Pattern: 1},
		Border: []excelize.Border{
			{Type: "left", Color: "000000", Style: 1},
			{Type: "top", Color: "000000", Style: 1},
			{Type: "bottom", Color: "000000", Style: 1},
			{Type: "right", Color: "000000", Style: 1},
		},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return nil, errors.Wrap(err, "creating header style")
	}

	rows := make([][]interface{}, 0, len(comps))
	for _, c := range comps {
		rows = append(rows, companyRow(c))
	}
	if err = writeTable(f, companiesSheet, companiesHeader, rows, headerStyle); err != nil {
		return nil, err
	}
	for col, width := range companiesColWidths {
		name, err := excelize.ColumnNumberToName(col + 1)
		if err != nil {
			return nil, errors.Wrap(err, "converting column number")
		}
		if err = f.SetColWidth(companiesSheet, name, name, width); err != nil {
			return nil, errors.Wrap(err, "setting column width")
		}
	}

	dist := stats.SectorDistribution(comps)
	rows = make([][]interface{}, 0, len(dist.Sectors))
	for _, sc := range dist.Sectors {
		rows = append(rows, []interface{}{sc.Sector, sc.Count})
	}
	if err = writeTable(f, sectorsSheet, []string{"Sector", "Companies"}, rows, headerStyle); err != nil {
		return nil, err
	}
	if err = f.SetColWidth(sectorsSheet, "A", "A", 24); err != nil {
		return nil, errors.Wrap(err, "setting column width")
	}

	var buf bytes.Buffer
	if _, err = f.WriteTo(&buf); err != nil {
		return nil, errors.Wrap(err, "writing workbook")
	}
	return buf.Bytes(), nil
}

func writeTable(f *excelize.File, sheet string, header []string, rows [][]interface{}, headerStyle int) error {
	for col, h := range header {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return errors.Wrap(err, "converting coordinates")
		}
		if err = f.SetCellValue(sheet, cell, h); err != nil {
			return errors.Wrapf(err, "setting header cell %s", cell)
		}
		if err = f.SetCellStyle(sheet, cell, cell, headerStyle); err != nil {
			return errors.Wrap(err, "setting header style")
		}
	}
	for r, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, r+2)
		if err != nil {
			return errors.Wrap(err, "converting coordinates")
		}
		if err = f.SetSheetRow(sheet, cell, &row); err != nil {
			return errors.Wrapf(err, "writing row %d", r+2)
		}
	}
	return nil
}
