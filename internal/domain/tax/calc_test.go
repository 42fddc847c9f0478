package tax

import "testing"

func wizardData(distance float64, days int, transport string) TaxWizardData {
	return TaxWizardData{
		Employment: EmploymentInfo{
			EmployerName:      "DHL Paket GmbH",
			AnnualIncome:      32000,
			TaxClass:          "1",
			CommuteDistanceKM: distance,
			WorkDaysPerYear:   days,
		},
		Reisepauschale: ReisepauschaleInfo{TransportType: transport},
	}
}

func TestCalculateCommuteTwoTier(t *testing.T) {
	// At exactly 20 km everything stays on the low rate.
	result := Calculate(wizardData(20, 220, TransportCar))
	if result.CommuteDeduction != 1320.00 {
		t.Fatalf("20 km x 220 days: expected 1320.00, got %.2f", result.CommuteDeduction)
	}

	// 25 km: first 20 at 0.30, remaining 5 at 0.38.
	result = Calculate(wizardData(25, 220, TransportCar))
	if result.CommuteDeduction != 1738.00 {
		t.Fatalf("25 km x 220 days: expected 1738.00, got %.2f", result.CommuteDeduction)
	}
}

func TestCalculatePublicTransportFlatRate(t *testing.T) {
	result := Calculate(wizardData(25, 220, TransportPublic))
	if result.CommuteDeduction != 1650.00 {
		t.Fatalf("public transport stays on 0.30: expected 1650.00, got %.2f", result.CommuteDeduction)
	}
}

func TestCalculateSecondHome(t *testing.T) {
	data := wizardData(10, 200, TransportCar)
	data.Reisepauschale.HasSecondHome = true
	data.Reisepauschale.SecondHomeCost = 4800

	result := Calculate(data)
	if result.SecondHomeDeduction != 4800.00 {
		t.Fatalf("expected 4800.00 second-home deduction, got %.2f", result.SecondHomeDeduction)
	}
	if result.TotalDeductions != 600.00+4800.00 {
		t.Fatalf("expected 5400.00 total, got %.2f", result.TotalDeductions)
	}
}

func TestCalculateEnabledCategoriesOnly(t *testing.T) {
	data := wizardData(0, 0, TransportCar)
	data.Deductions.WorkClothing = DeductionItem{Claimed: true, Cost: 200}
	data.Deductions.Education = DeductionItem{Claimed: true, Cost: 300}
	data.Deductions.Insurance = DeductionItem{Claimed: true, Cost: 150}
	// Collected by the wizard but not part of the computed total.
	data.Deductions.HomeOffice = DeductionItem{Claimed: true, Cost: 1260}
	data.Deductions.Tools = DeductionItem{Claimed: true, Cost: 500}
	// Claimed flag off means the cost never counts.
	data.Deductions.Literature = DeductionItem{Claimed: false, Cost: 90}

	result := Calculate(data)
	if result.TotalDeductions != 650.00 {
		t.Fatalf("expected only the three enabled categories (650.00), got %.2f", result.TotalDeductions)
	}
	if _, ok := result.DeductionAmounts[CategoryHomeOffice]; ok {
		t.Fatal("home office must not appear in the computed amounts")
	}
	if result.EstimatedTaxSaving != 162.50 {
		t.Fatalf("expected 25%% saving of 162.50, got %.2f", result.EstimatedTaxSaving)
	}
}

func TestCalculateDeterministicAndBounded(t *testing.T) {
	data := wizardData(42, 228, TransportCar)
	data.Reisepauschale.HasSecondHome = true
	data.Reisepauschale.SecondHomeCost = 3600
	data.Deductions.Insurance = DeductionItem{Claimed: true, Cost: 420}

	first := Calculate(data)
	second := Calculate(data)
	if first.TotalDeductions != second.TotalDeductions || first.EstimatedTaxSaving != second.EstimatedTaxSaving {
		t.Fatalf("calculation must be deterministic: %+v vs %+v", first, second)
	}

	if first.TotalDeductions < first.CommuteDeduction || first.TotalDeductions < first.SecondHomeDeduction {
		t.Fatalf("total must dominate every component: %+v", first)
	}

	if first.MonthlyBenefit <= 0 || first.MonthlyBenefit > first.EstimatedTaxSaving {
		t.Fatalf("monthly benefit out of range: %+v", first)
	}
}

func TestCalculateZeroInput(t *testing.T) {
	result := Calculate(TaxWizardData{})
	if result.TotalDeductions != 0 || result.EstimatedTaxSaving != 0 || result.MonthlyBenefit != 0 {
		t.Fatalf("empty wizard must produce zeroes, got %+v", result)
	}
}

func TestApplyDefaultsReconcilesLegacyFields(t *testing.T) {
	data := TaxWizardData{
		Reisepauschale: ReisepauschaleInfo{CommuteDistanceKM: 35, WorkDaysPerYear: 210},
	}
	data.ApplyDefaults()
	if data.Employment.CommuteDistanceKM != 35 || data.Employment.WorkDaysPerYear != 210 {
		t.Fatalf("legacy values must fill employment info, got %+v", data.Employment)
	}
	if data.Reisepauschale.CommuteDistanceKM != 0 || data.Reisepauschale.WorkDaysPerYear != 0 {
		t.Fatal("duplicates must be cleared after reconciliation")
	}

	// EmploymentInfo wins when both carry values.
	data = TaxWizardData{
		Employment:     EmploymentInfo{CommuteDistanceKM: 20, WorkDaysPerYear: 220},
		Reisepauschale: ReisepauschaleInfo{CommuteDistanceKM: 99, WorkDaysPerYear: 1},
	}
	data.ApplyDefaults()
	if data.Employment.CommuteDistanceKM != 20 || data.Employment.WorkDaysPerYear != 220 {
		t.Fatalf("employment info must win, got %+v", data.Employment)
	}
}
