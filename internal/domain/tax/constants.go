package tax

import "github.com/shopspring/decimal"

const (
	TransportCar    = "car"
	TransportPublic = "public"

	FormTypeReisepauschale = "reisepauschale"
)

// Entfernungspauschale rates per simple-distance kilometer (EStG §9):
// 0.30 EUR for the first 20 km, 0.38 EUR from km 21.
var (
	rateLowPerKM  = decimal.RequireFromString("0.30")
	rateHighPerKM = decimal.RequireFromString("0.38")
	lowTierKM     = decimal.NewFromInt(20)

	// Flat assumed marginal rate for the refund estimate; deliberately not
	// tied to tax class or income brackets.
	assumedTaxRate = decimal.RequireFromString("0.25")

	monthsPerYear = decimal.NewFromInt(12)
)

const (
	CategoryWorkClothing    = "workClothing"
	CategoryEducation       = "education"
	CategoryInsurance       = "insurance"
	CategoryChurchTax       = "churchTax"
	CategoryLiterature      = "literature"
	CategoryTools           = "tools"
	CategoryMaterials       = "materials"
	CategoryAssociationDues = "associationDues"
	CategoryHomeOffice      = "homeOffice"
)

// enabledDeductionCategories is the set the calculator actually sums. The
// wizard collects more categories than this; keeping the rest out of the
// total matches the shipped product behavior and is intentional until
// product says otherwise.
var enabledDeductionCategories = []string{
	CategoryWorkClothing,
	CategoryEducation,
	CategoryInsurance,
}
