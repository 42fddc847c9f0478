package tax

import "github.com/shopspring/decimal"

// Calculate derives the deduction estimate from the current wizard state.
// Pure and deterministic; callers rerun it on every field change.
func Calculate(data TaxWizardData) TaxCalculationResult {
	commute := commuteDeduction(data)
	secondHome := decimal.Zero
	if data.Reisepauschale.HasSecondHome {
		secondHome = decimal.NewFromFloat(data.Reisepauschale.SecondHomeCost)
	}

	amounts := map[string]float64{}
	categorySum := decimal.Zero
	for _, category := range enabledDeductionCategories {
		item := deductionItem(data.Deductions, category)
		if !item.Claimed || item.Cost <= 0 {
			continue
		}
		cost := decimal.NewFromFloat(item.Cost)
		amounts[category] = round2(cost)
		categorySum = categorySum.Add(cost)
	}

	total := commute.Add(secondHome).Add(categorySum)
	saving := total.Mul(assumedTaxRate)

	return TaxCalculationResult{
		CommuteDeduction:    round2(commute),
		SecondHomeDeduction: round2(secondHome),
		DeductionAmounts:    amounts,
		TotalDeductions:     round2(total),
		EstimatedTaxSaving:  round2(saving),
		MonthlyBenefit:      round2(saving.Div(monthsPerYear)),
	}
}

// commuteDeduction applies the two-tier per-kilometer rate for car commutes;
// public transport stays on the low rate for every kilometer.
func commuteDeduction(data TaxWizardData) decimal.Decimal {
	distance := decimal.NewFromFloat(data.Employment.CommuteDistanceKM)
	workDays := decimal.NewFromInt(int64(data.Employment.WorkDaysPerYear))
	if distance.Sign() <= 0 || workDays.Sign() <= 0 {
		return decimal.Zero
	}

	if data.Reisepauschale.TransportType != TransportCar {
		return distance.Mul(rateLowPerKM).Mul(workDays)
	}

	if distance.LessThanOrEqual(lowTierKM) {
		return distance.Mul(rateLowPerKM).Mul(workDays)
	}
	perDay := lowTierKM.Mul(rateLowPerKM).Add(distance.Sub(lowTierKM).Mul(rateHighPerKM))
	return perDay.Mul(workDays)
}

func deductionItem(d AdditionalDeductions, category string) DeductionItem {
	switch category {
	case CategoryWorkClothing:
		return d.WorkClothing
	case CategoryEducation:
		return d.Education
	case CategoryInsurance:
		return d.Insurance
	case CategoryChurchTax:
		return d.ChurchTax
	case CategoryLiterature:
		return d.Literature
	case CategoryTools:
		return d.Tools
	case CategoryMaterials:
		return d.Materials
	case CategoryAssociationDues:
		return d.AssociationDues
	case CategoryHomeOffice:
		return d.HomeOffice
	default:
		return DeductionItem{}
	}
}

func round2(value decimal.Decimal) float64 {
	rounded, _ := value.Round(2).Float64()
	return rounded
}
