package tax

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	taxIDPattern = regexp.MustCompile(`^\d{11}$`)
	emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

	postalDEPattern = regexp.MustCompile(`\b\d{5}\b`)
	postalCZPattern = regexp.MustCompile(`\b\d{3} \d{2}\b`)
	postalPLPattern = regexp.MustCompile(`\b\d{2}-\d{3}\b`)
)

var xmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&apos;",
)

// ValidateElsterData checks the fields the ELSTER form refuses without.
// Callers must see an empty issue list before calling GenerateElsterXML;
// generation itself does not re-validate.
func ValidateElsterData(data TaxWizardData) []ValidationIssue {
	var issues []ValidationIssue
	add := func(field, reason string) {
		issues = append(issues, ValidationIssue{Field: field, Reason: reason})
	}

	if strings.TrimSpace(data.Personal.FirstName) == "" {
		add("personal.firstName", "first name is required")
	}
	if strings.TrimSpace(data.Personal.LastName) == "" {
		add("personal.lastName", "last name is required")
	}
	if strings.TrimSpace(data.Personal.Address) == "" {
		add("personal.address", "address is required")
	}

	taxID := strings.Join(strings.Fields(data.Personal.TaxID), "")
	if taxID == "" {
		add("personal.taxId", "tax identification number is required")
	} else if !taxIDPattern.MatchString(taxID) {
		add("personal.taxId", "tax identification number must be exactly 11 digits")
	}

	if email := strings.TrimSpace(data.Personal.Email); email != "" && !emailPattern.MatchString(email) {
		add("personal.email", "email address is not valid")
	}

	if strings.TrimSpace(data.Employment.EmployerName) == "" {
		add("employment.employerName", "employer name is required")
	}
	if data.Employment.AnnualIncome <= 0 {
		add("employment.annualIncome", "annual income must be positive")
	}
	if strings.TrimSpace(data.Employment.TaxClass) == "" {
		add("employment.taxClass", "tax class is required")
	}

	return issues
}

// GenerateElsterXML serializes the wizard state and calculation into the
// nested ELSTER declaration structure. Monetary values go out as integer
// cents, dates as DDMMYYYY; conditional blocks appear only when their
// amount is nonzero.
func GenerateElsterXML(data TaxWizardData, result TaxCalculationResult) string {
	var b strings.Builder
	b.WriteString(`<?xml version="1.0" encoding="UTF-8"?>` + "\n")
	b.WriteString(`<Elster xmlns="http://www.elster.de/elsterxml/schema/v11">` + "\n")

	b.WriteString("  <TransferHeader version=\"11\">\n")
	writeElem(&b, 4, "Verfahren", "ElsterErklaerung")
	writeElem(&b, 4, "DatenArt", "ESt")
	writeElem(&b, 4, "Vorgang", "send-NoSig")
	writeElem(&b, 4, "TransferTicket", uuid.NewString())
	writeElem(&b, 4, "HerstellerID", "74931")
	writeElem(&b, 4, "DatenLieferant", "PendlerApp")
	b.WriteString("  </TransferHeader>\n")

	b.WriteString("  <DatenTeil>\n    <Nutzdatenblock>\n      <Nutzdaten>\n")

	b.WriteString("        <SteuerpflichtigePerson>\n")
	writeElem(&b, 10, "Vorname", data.Personal.FirstName)
	writeElem(&b, 10, "Name", data.Personal.LastName)
	writeElem(&b, 10, "Identifikationsnummer", strings.Join(strings.Fields(data.Personal.TaxID), ""))
	if data.Personal.DateOfBirth != "" {
		writeElem(&b, 10, "Geburtsdatum", toElsterDate(data.Personal.DateOfBirth))
	}
	writeElem(&b, 10, "Anschrift", data.Personal.Address)
	writeElem(&b, 10, "Land", countryFromAddress(data.Personal.Address))
	if data.Personal.Email != "" {
		writeElem(&b, 10, "Email", data.Personal.Email)
	}
	b.WriteString("        </SteuerpflichtigePerson>\n")

	b.WriteString("        <EinkuenfteNichtselbstaendigeArbeit>\n")
	writeElem(&b, 10, "Arbeitgeber", data.Employment.EmployerName)
	writeElem(&b, 10, "Bruttoarbeitslohn", cents(data.Employment.AnnualIncome))
	writeElem(&b, 10, "Steuerklasse", data.Employment.TaxClass)
	b.WriteString("        </EinkuenfteNichtselbstaendigeArbeit>\n")

	b.WriteString("        <Werbungskosten>\n")
	if result.CommuteDeduction > 0 {
		b.WriteString("          <Entfernungspauschale>\n")
		writeElem(&b, 12, "EinfacheEntfernung", fmt.Sprintf("%.0f", data.Employment.CommuteDistanceKM))
		writeElem(&b, 12, "Arbeitstage", fmt.Sprintf("%d", data.Employment.WorkDaysPerYear))
		writeElem(&b, 12, "Betrag", cents(result.CommuteDeduction))
		b.WriteString("          </Entfernungspauschale>\n")
	}
	if result.SecondHomeDeduction > 0 {
		b.WriteString("          <DoppelteHaushaltsfuehrung>\n")
		writeElem(&b, 12, "Betrag", cents(result.SecondHomeDeduction))
		b.WriteString("          </DoppelteHaushaltsfuehrung>\n")
	}
	for _, category := range enabledDeductionCategories {
		amount, ok := result.DeductionAmounts[category]
		if !ok || amount <= 0 {
			continue
		}
		b.WriteString("          <WeitereWerbungskosten>\n")
		writeElem(&b, 12, "Art", category)
		writeElem(&b, 12, "Betrag", cents(amount))
		b.WriteString("          </WeitereWerbungskosten>\n")
	}
	writeElem(&b, 10, "Gesamtbetrag", cents(result.TotalDeductions))
	b.WriteString("        </Werbungskosten>\n")

	b.WriteString("      </Nutzdaten>\n    </Nutzdatenblock>\n  </DatenTeil>\n")
	b.WriteString("</Elster>\n")
	return b.String()
}

func writeElem(b *strings.Builder, indent int, name, value string) {
	b.WriteString(strings.Repeat(" ", indent))
	b.WriteString("<")
	b.WriteString(name)
	b.WriteString(">")
	b.WriteString(xmlEscaper.Replace(value))
	b.WriteString("</")
	b.WriteString(name)
	b.WriteString(">\n")
}

// cents renders a euro amount as integer cents. Serializing floating euros
// directly is forbidden here; the decimal round-trip keeps 17.985 kinds of
// artifacts out of the declaration.
func cents(amount float64) string {
	value := decimal.NewFromFloat(amount).Mul(decimal.NewFromInt(100)).Round(0)
	return value.String()
}

// toElsterDate converts YYYY-MM-DD to the DDMMYYYY the schema expects.
// Unparseable input passes through untouched so validation failures stay
// visible instead of becoming empty elements.
func toElsterDate(isoDate string) string {
	parsed, err := time.Parse("2006-01-02", strings.TrimSpace(isoDate))
	if err != nil {
		return isoDate
	}
	return parsed.Format("02012006")
}

// countryFromAddress guesses the country from the postal-code shape. It is a
// heuristic: Polish NN-NNN and Czech "NNN NN" are checked before the plain
// five-digit German form, which would otherwise shadow them.
func countryFromAddress(address string) string {
	switch {
	case postalPLPattern.MatchString(address):
		return "Polen"
	case postalCZPattern.MatchString(address):
		return "Tschechische Republik"
	case postalDEPattern.MatchString(address):
		return "Deutschland"
	default:
		return "Tschechische Republik"
	}
}
