package summary

import (
	"math"
	"sort"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/taxwiseapp/taxwise/internal/fingerprint"
	"github.com/taxwiseapp/taxwise/internal/transaction"
)

// topN transactions and merchants surfaced per list.
const topN = 5

var titleCaser = cases.Title(language.English)

// Summary is the rollup of one upload's ledger. All money values are kobo.
type Summary struct {
	IncomeTotal        int64            `json:"income_total"`
	ExpenseTotal       int64            `json:"expense_total"`
	Net                int64            `json:"net"`
	DeductibleTotal    int64            `json:"deductible_total"`
	ByCategory         []CategoryTotal  `json:"by_category"`
	ByMonth            []MonthTotal     `json:"by_month"`
	TopMerchants       []MerchantTotal  `json:"top_merchants"`
	LargestIncome      []TransactionRef `json:"largest_income"`
	LargestExpense     []TransactionRef `json:"largest_expense"`
	UncategorizedCount int              `json:"uncategorized_count"`
	DuplicateCount     int              `json:"duplicate_count"`
	TaxEstimate        *TaxEstimate     `json:"tax_estimate,omitempty"`
}

// CategoryTotal is one expense category's share of total spend. Percent is
// of the expense total, rounded to one decimal place. A nil CategoryID is
// the bucket for expenses no stage has categorized yet.
type CategoryTotal struct {
	CategoryID *uuid.UUID `json:"category_id,omitempty"`
	Name       string     `json:"name"`
	Amount     int64      `json:"amount"`
	Count      int        `json:"count"`
	Percent    float64    `json:"percent"`
}

// MonthTotal is one calendar month's flows, keyed YYYY-MM.
type MonthTotal struct {
	Month   string `json:"month"`
	Income  int64  `json:"income"`
	Expense int64  `json:"expense"`
	Net     int64  `json:"net"`
}

// MerchantTotal is one merchant's aggregate spend.
type MerchantTotal struct {
	Name   string `json:"name"`
	Amount int64  `json:"amount"`
	Count  int    `json:"count"`
}

// TransactionRef points at one notable transaction.
type TransactionRef struct {
	ID          uuid.UUID `json:"id"`
	Description string    `json:"description"`
	Amount      int64     `json:"amount"`
	Date        string    `json:"date"`
}

// Aggregate rolls the ledger up into a Summary. Category names are resolved
// through the id-to-name map; expenses with no category share an
// Uncategorized bucket so the by-category amounts always add up to the
// expense total. An empty ledger yields a zeroed summary, never an error.
func Aggregate(txs []*transaction.Transaction, categoryNames map[uuid.UUID]string) *Summary {
	s := &Summary{
		ByCategory:     []CategoryTotal{},
		ByMonth:        []MonthTotal{},
		TopMerchants:   []MerchantTotal{},
		LargestIncome:  []TransactionRef{},
		LargestExpense: []TransactionRef{},
	}

	type catAgg struct {
		id     uuid.UUID
		amount int64
		count  int
	}

	type merchantAgg struct {
		display string
		amount  int64
		count   int
	}

	byCategory := make(map[uuid.UUID]*catAgg)
	byMonth := make(map[string]*MonthTotal)
	merchants := make(map[string]*merchantAgg)
	seen := make(map[string]int)

	var income, expenses []*transaction.Transaction

	for _, tx := range txs {
		month := tx.Date.Format("2006-01")

		mt, ok := byMonth[month]
		if !ok {
			mt = &MonthTotal{Month: month}
			byMonth[month] = mt
		}

		key := fingerprint.Analysis(tx.Date, tx.Amount, tx.Description, string(tx.Type))

		seen[key]++
		if seen[key] > 1 {
			s.DuplicateCount++
		}

		if tx.CategoryID == nil {
			s.UncategorizedCount++
		}

		switch tx.Type {
		case transaction.TypeIncome:
			s.IncomeTotal += tx.Amount
			mt.Income += tx.Amount
			income = append(income, tx)

		case transaction.TypeExpense:
			s.ExpenseTotal += tx.Amount
			mt.Expense += tx.Amount
			expenses = append(expenses, tx)

			if tx.IsDeductible {
				s.DeductibleTotal += tx.Amount
			}

			// Expenses with no category land in the uuid.Nil bucket so
			// by-category amounts reconcile with the expense total.
			id := uuid.Nil
			if tx.CategoryID != nil {
				id = *tx.CategoryID
			}

			agg, ok := byCategory[id]
			if !ok {
				agg = &catAgg{id: id}
				byCategory[id] = agg
			}

			agg.amount += tx.Amount
			agg.count++
		}

		mkey := strings.ToLower(strings.TrimSpace(tx.Description))
		if mkey != "" {
			m, ok := merchants[mkey]
			if !ok {
				m = &merchantAgg{display: titleCaser.String(mkey)}
				merchants[mkey] = m
			}

			m.amount += tx.Amount
			m.count++
		}
	}

	s.Net = s.IncomeTotal - s.ExpenseTotal

	for _, agg := range byCategory {
		percent := 0.0
		if s.ExpenseTotal > 0 {
			percent = math.Round(float64(agg.amount)/float64(s.ExpenseTotal)*1000) / 10
		}

		ct := CategoryTotal{
			Name:    "Uncategorized",
			Amount:  agg.amount,
			Count:   agg.count,
			Percent: percent,
		}

		if agg.id != uuid.Nil {
			id := agg.id
			ct.CategoryID = &id
			ct.Name = categoryNames[id]
		}

		s.ByCategory = append(s.ByCategory, ct)
	}

	sort.Slice(s.ByCategory, func(i, j int) bool {
		if s.ByCategory[i].Amount != s.ByCategory[j].Amount {
			return s.ByCategory[i].Amount > s.ByCategory[j].Amount
		}

		return s.ByCategory[i].Name < s.ByCategory[j].Name
	})

	for _, mt := range byMonth {
		mt.Net = mt.Income - mt.Expense
		s.ByMonth = append(s.ByMonth, *mt)
	}

	sort.Slice(s.ByMonth, func(i, j int) bool { return s.ByMonth[i].Month < s.ByMonth[j].Month })

	for _, m := range merchants {
		s.TopMerchants = append(s.TopMerchants, MerchantTotal{Name: m.display, Amount: m.amount, Count: m.count})
	}

	sort.Slice(s.TopMerchants, func(i, j int) bool {
		if s.TopMerchants[i].Amount != s.TopMerchants[j].Amount {
			return s.TopMerchants[i].Amount > s.TopMerchants[j].Amount
		}

		if s.TopMerchants[i].Count != s.TopMerchants[j].Count {
			return s.TopMerchants[i].Count > s.TopMerchants[j].Count
		}

		return s.TopMerchants[i].Name < s.TopMerchants[j].Name
	})

	if len(s.TopMerchants) > topN {
		s.TopMerchants = s.TopMerchants[:topN]
	}

	s.LargestIncome = largest(income)
	s.LargestExpense = largest(expenses)

	return s
}

func largest(txs []*transaction.Transaction) []TransactionRef {
	sorted := make([]*transaction.Transaction, len(txs))
	copy(sorted, txs)

	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Amount > sorted[j].Amount })

	if len(sorted) > topN {
		sorted = sorted[:topN]
	}

	refs := make([]TransactionRef, len(sorted))
	for i, tx := range sorted {
		refs[i] = TransactionRef{
			ID:          tx.ID,
			Description: tx.Description,
			Amount:      tx.Amount,
			Date:        tx.Date.Format("2006-01-02"),
		}
	}

	return refs
}
