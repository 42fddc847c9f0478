package tax

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/jung-kurt/gofpdf"
)

// GenerateSummaryPDF renders a human-readable companion to the ELSTER XML.
// The document lists the declared commute facts, the deduction breakdown and
// the estimated refund.
func GenerateSummaryPDF(data TaxWizardData, result TaxCalculationResult) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(40, 10, "Pendlerpauschale Summary")
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 8, "Taxpayer")
	pdf.Ln(8)
	pdf.SetFont("Helvetica", "", 11)
	pdf.Cell(0, 7, fmt.Sprintf("Name: %s %s", data.Personal.FirstName, data.Personal.LastName))
	pdf.Ln(6)
	pdf.Cell(0, 7, fmt.Sprintf("Tax ID: %s", strings.Join(strings.Fields(data.Personal.TaxID), "")))
	pdf.Ln(6)
	pdf.Cell(0, 7, fmt.Sprintf("Address: %s", data.Personal.Address))
	pdf.Ln(10)

	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 8, "Commute")
	pdf.Ln(8)
	pdf.SetFont("Helvetica", "", 11)
	pdf.Cell(0, 7, fmt.Sprintf("Employer: %s", data.Employment.EmployerName))
	pdf.Ln(6)
	pdf.Cell(0, 7, fmt.Sprintf("Annual income: %.2f EUR", data.Employment.AnnualIncome))
	pdf.Ln(6)
	pdf.Cell(0, 7, fmt.Sprintf("Distance: %.0f km one way", data.Employment.CommuteDistanceKM))
	pdf.Ln(6)
	pdf.Cell(0, 7, fmt.Sprintf("Work days: %d per year", data.Employment.WorkDaysPerYear))
	pdf.Ln(6)
	pdf.Cell(0, 7, fmt.Sprintf("Transport: %s", transportLabel(data.Reisepauschale.TransportType)))
	pdf.Ln(10)

	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 8, "Deductions")
	pdf.Ln(8)
	pdf.SetFont("Helvetica", "", 11)
	moneyLine(pdf, "Commuter allowance", result.CommuteDeduction)
	if result.SecondHomeDeduction > 0 {
		moneyLine(pdf, "Double household", result.SecondHomeDeduction)
	}
	for _, category := range enabledDeductionCategories {
		if amount := result.DeductionAmounts[category]; amount > 0 {
			moneyLine(pdf, categoryLabel(category), amount)
		}
	}
	pdf.Ln(3)
	pdf.SetFont("Helvetica", "B", 11)
	moneyLine(pdf, "Total deductions", result.TotalDeductions)
	moneyLine(pdf, "Estimated tax saving", result.EstimatedTaxSaving)
	moneyLine(pdf, "Monthly benefit", result.MonthlyBenefit)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func moneyLine(pdf *gofpdf.Fpdf, label string, amount float64) {
	pdf.Cell(120, 7, label)
	pdf.CellFormat(40, 7, fmt.Sprintf("%.2f EUR", amount), "", 0, "R", false, 0, "")
	pdf.Ln(6)
}

func transportLabel(mode string) string {
	if mode == TransportPublic {
		return "public transport"
	}
	return "car"
}

func categoryLabel(category string) string {
	switch category {
	case CategoryWorkClothing:
		return "Work clothing"
	case CategoryEducation:
		return "Education"
	case CategoryInsurance:
		return "Insurance"
	default:
		return category
	}
}
