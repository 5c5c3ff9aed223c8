// Package export writes audit results to spreadsheet formats for offline
// review.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/xuri/excelize/v2"

	"github.com/mobsr/greenwashing-analyzer/internal/model"
)

var findingsHeader = []string{"page", "category", "quote", "reasoning"}

var claimsHeader = []string{"id", "page", "status", "claim", "context", "evidence"}

// WriteFindingsCSV writes the findings list as CSV.
func WriteFindingsCSV(w io.Writer, findings []model.Finding) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(findingsHeader); err != nil {
		return err
	}
	for _, f := range findings {
		record := []string{strconv.Itoa(f.Page), f.Category, f.Quote, f.Reasoning}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteClaimsCSV writes the claim ledger as CSV.
func WriteClaimsCSV(w io.Writer, claims []model.Claim) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(claimsHeader); err != nil {
		return err
	}
	for _, c := range claims {
		record := []string{
			strconv.Itoa(c.ID),
			strconv.Itoa(c.Page),
			string(c.Status),
			c.Text,
			c.Context,
			c.Evidence,
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteFindingsCSVFile writes findings CSV to path.
func WriteFindingsCSVFile(path string, findings []model.Finding) error {
	return writeFile(path, func(f *os.File) error {
		return WriteFindingsCSV(f, findings)
	})
}

// WriteClaimsCSVFile writes the claim ledger CSV to path.
func WriteClaimsCSVFile(path string, claims []model.Claim) error {
	return writeFile(path, func(f *os.File) error {
		return WriteClaimsCSV(f, claims)
	})
}

// WriteWorkbook writes findings and claims as an XLSX workbook with one
// sheet per list.
func WriteWorkbook(path string, result *model.AuditResult) (err error) {
	wb := excelize.NewFile()
	defer func() {
		if closeErr := wb.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()

	const findingsSheet = "Findings"
	const claimsSheet = "Claims"

	if err := wb.SetSheetName(wb.GetSheetName(0), findingsSheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}
	if _, err := wb.NewSheet(claimsSheet); err != nil {
		return fmt.Errorf("create sheet: %w", err)
	}

	if err := writeRow(wb, findingsSheet, 1, toAny(findingsHeader)); err != nil {
		return err
	}
	for i, f := range result.Findings {
		row := []any{f.Page, f.Category, f.Quote, f.Reasoning}
		if err := writeRow(wb, findingsSheet, i+2, row); err != nil {
			return err
		}
	}

	if err := writeRow(wb, claimsSheet, 1, toAny(claimsHeader)); err != nil {
		return err
	}
	for i, c := range result.Claims.All() {
		row := []any{c.ID, c.Page, string(c.Status), c.Text, c.Context, c.Evidence}
		if err := writeRow(wb, claimsSheet, i+2, row); err != nil {
			return err
		}
	}

	if err := wb.SaveAs(path); err != nil {
		return fmt.Errorf("save workbook: %w", err)
	}
	return nil
}

func writeRow(wb *excelize.File, sheet string, row int, values []any) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	if err := wb.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("write row %d: %w", row, err)
	}
	return nil
}

func toAny(ss []string) []any {
	out := make([]any, len(ss))
	for i, s := range ss {
		out[i] = s
	}
	return out
}

func writeFile(path string, write func(*os.File) error) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()
	return write(f)
}
