package summary

import "math"

// Personal income tax parameters from the Nigeria Finance Act, 2023 rules.
// All money values are kobo.
const (
	craFloor        = 200_000_00 // minimum consolidated relief, ₦200,000
	craGrossPercent = 0.01
	craFlatPercent  = 0.20
	pensionPercent  = 0.08
)

type taxBand struct {
	width int64 // 0 means unbounded
	rate  float64
}

var taxBands = []taxBand{
	{width: 300_000_00, rate: 0.07},
	{width: 300_000_00, rate: 0.11},
	{width: 500_000_00, rate: 0.15},
	{width: 500_000_00, rate: 0.19},
	{width: 1_600_000_00, rate: 0.21},
	{width: 0, rate: 0.24},
}

// TaxEstimate is an indicative personal income tax position computed from
// gross income. It is a planning aid, not a filing.
type TaxEstimate struct {
	GrossIncome        int64   `json:"gross_income"`
	Relief             int64   `json:"relief"`
	Pension            int64   `json:"pension"`
	DeductibleExpenses int64   `json:"deductible_expenses"`
	TaxableIncome      int64   `json:"taxable_income"`
	Tax                int64   `json:"tax"`
	EffectiveRate      float64 `json:"effective_rate"`
}

// EstimateTax applies the consolidated relief allowance, the statutory
// pension deduction, deductible business expenses and the graduated bands to
// gross income in kobo.
func EstimateTax(grossIncome, deductibleExpenses int64) *TaxEstimate {
	if grossIncome <= 0 {
		return &TaxEstimate{}
	}

	relief := round(float64(grossIncome) * craGrossPercent)
	if relief < craFloor {
		relief = craFloor
	}

	relief += round(float64(grossIncome) * craFlatPercent)
	pension := round(float64(grossIncome) * pensionPercent)

	taxable := grossIncome - relief - pension - deductibleExpenses
	if taxable < 0 {
		taxable = 0
	}

	var tax int64

	remaining := taxable
	for _, band := range taxBands {
		if remaining <= 0 {
			break
		}

		slab := remaining
		if band.width > 0 && slab > band.width {
			slab = band.width
		}

		tax += round(float64(slab) * band.rate)
		remaining -= slab
	}

	rate := 0.0
	if grossIncome > 0 {
		rate = math.Round(float64(tax)/float64(grossIncome)*1000) / 10
	}

	return &TaxEstimate{
		GrossIncome:        grossIncome,
		Relief:             relief,
		Pension:            pension,
		DeductibleExpenses: deductibleExpenses,
		TaxableIncome:      taxable,
		Tax:                tax,
		EffectiveRate:      rate,
	}
}

func round(v float64) int64 {
	return int64(math.Round(v))
}
