package reports

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"time"

	"github.com/xuri/excelize/v2"
)

// RegisterSource abstracts the store so exports are testable without a
// database.
type RegisterSource interface {
	ShiftRegister(ctx context.Context, from, to time.Time) ([]ShiftRegisterRow, error)
	Summary(ctx context.Context, from, to time.Time) (Summary, error)
}

type Service struct {
	Store RegisterSource
}

func NewService(store RegisterSource) *Service {
	return &Service{Store: store}
}

var registerHeader = []string{"Date", "Personnel No", "Last Name", "First Name", "Shift", "Start", "End", "Cycle Week", "Edited"}

func (s *Service) Summary(ctx context.Context, from, to time.Time) (Summary, error) {
	return s.Store.Summary(ctx, from, to)
}

// WriteRegisterCSV streams the shift register for the range as CSV.
func (s *Service) WriteRegisterCSV(ctx context.Context, w io.Writer, from, to time.Time) error {
	rows, err := s.Store.ShiftRegister(ctx, from, to)
	if err != nil {
		return err
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(registerHeader); err != nil {
		return err
	}
	for _, r := range rows {
		record := []string{
			r.WorkDate.Format("2006-01-02"),
			r.PersonnelNumber,
			r.LastName,
			r.FirstName,
			r.ShiftType,
			r.StartTime,
			r.EndTime,
			fmt.Sprintf("%d", r.CycleWeek),
			fmt.Sprintf("%t", r.Edited),
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteRegisterXLSX writes the register as a single-sheet workbook.
func (s *Service) WriteRegisterXLSX(ctx context.Context, w io.Writer, from, to time.Time) error {
	rows, err := s.Store.ShiftRegister(ctx, from, to)
	if err != nil {
		return err
	}

	f := excelize.NewFile()
	defer f.Close()
	const sheet = "Shift Register"
	index, err := f.NewSheet(sheet)
	if err != nil {
		return err
	}
	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1")

	for col, title := range registerHeader {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, title); err != nil {
			return err
		}
	}
	for i, r := range rows {
		values := []any{
			r.WorkDate.Format("2006-01-02"),
			r.PersonnelNumber,
			r.LastName,
			r.FirstName,
			r.ShiftType,
			r.StartTime,
			r.EndTime,
			r.CycleWeek,
			r.Edited,
		}
		for col, value := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, i+2)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(sheet, cell, value); err != nil {
				return err
			}
		}
	}
	return f.Write(w)
}
