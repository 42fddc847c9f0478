package tax

import "time"

type PersonalInfo struct {
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	Address     string `json:"address"`
	TaxID       string `json:"taxId"`
	Email       string `json:"email,omitempty"`
	DateOfBirth string `json:"dateOfBirth,omitempty"` // YYYY-MM-DD
}

type EmploymentInfo struct {
	EmployerName      string  `json:"employerName"`
	AnnualIncome      float64 `json:"annualIncome"`
	TaxClass          string  `json:"taxClass"`
	CommuteDistanceKM float64 `json:"commuteDistanceKm"`
	WorkDaysPerYear   int     `json:"workDaysPerYear"`
}

// ReisepauschaleInfo holds the commuting-allowance step of the wizard.
// Commute distance and work days live on EmploymentInfo only; the legacy
// duplicate fields are accepted on input and reconciled by ApplyDefaults
// (EmploymentInfo wins when both are set).
type ReisepauschaleInfo struct {
	TransportType     string  `json:"transportType"`
	HasSecondHome     bool    `json:"hasSecondHome"`
	SecondHomeCost    float64 `json:"secondHomeCost"`
	CommuteDistanceKM float64 `json:"commuteDistanceKm,omitempty"`
	WorkDaysPerYear   int     `json:"workDaysPerYear,omitempty"`
}

type DeductionItem struct {
	Claimed bool    `json:"claimed"`
	Cost    float64 `json:"cost"`
}

// AdditionalDeductions collects every flag+cost pair the wizard shows.
// Only the categories in enabledDeductionCategories enter the total; the
// rest are carried through snapshots and exports untouched.
type AdditionalDeductions struct {
	WorkClothing    DeductionItem `json:"workClothing"`
	Education       DeductionItem `json:"education"`
	Insurance       DeductionItem `json:"insurance"`
	ChurchTax       DeductionItem `json:"churchTax"`
	Literature      DeductionItem `json:"literature"`
	Tools           DeductionItem `json:"tools"`
	Materials       DeductionItem `json:"materials"`
	AssociationDues DeductionItem `json:"associationDues"`
	HomeOffice      DeductionItem `json:"homeOffice"`
}

type TaxWizardData struct {
	Personal      PersonalInfo         `json:"personal"`
	Employment    EmploymentInfo       `json:"employment"`
	Reisepauschale ReisepauschaleInfo  `json:"reisepauschale"`
	Deductions    AdditionalDeductions `json:"deductions"`
}

// ApplyDefaults reconciles legacy payloads that still carry commute facts on
// the Reisepauschale step: non-zero values fill empty EmploymentInfo fields,
// then the duplicates are cleared so EmploymentInfo is the single source.
func (d *TaxWizardData) ApplyDefaults() {
	if d.Employment.CommuteDistanceKM == 0 && d.Reisepauschale.CommuteDistanceKM > 0 {
		d.Employment.CommuteDistanceKM = d.Reisepauschale.CommuteDistanceKM
	}
	if d.Employment.WorkDaysPerYear == 0 && d.Reisepauschale.WorkDaysPerYear > 0 {
		d.Employment.WorkDaysPerYear = d.Reisepauschale.WorkDaysPerYear
	}
	d.Reisepauschale.CommuteDistanceKM = 0
	d.Reisepauschale.WorkDaysPerYear = 0
	if d.Reisepauschale.TransportType == "" {
		d.Reisepauschale.TransportType = TransportCar
	}
}

type TaxCalculationResult struct {
	CommuteDeduction    float64            `json:"commuteDeduction"`
	SecondHomeDeduction float64            `json:"secondHomeDeduction"`
	DeductionAmounts    map[string]float64 `json:"deductionAmounts"`
	TotalDeductions     float64            `json:"totalDeductions"`
	EstimatedTaxSaving  float64            `json:"estimatedTaxSaving"`
	MonthlyBenefit      float64            `json:"monthlyBenefit"`
}

type ValidationIssue struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

// Snapshot is the persisted wizard draft: input, derived result and save time.
type Snapshot struct {
	Data    TaxWizardData        `json:"data"`
	Result  TaxCalculationResult `json:"result"`
	SavedAt time.Time            `json:"savedAt"`
}
