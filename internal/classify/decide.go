package classify

import (
	"strings"

	"github.com/google/uuid"

	"github.com/taxwiseapp/taxwise/internal/category"
	"github.com/taxwiseapp/taxwise/internal/rule"
	"github.com/taxwiseapp/taxwise/internal/transaction"
)

const (
	userRuleConfidence = 0.95
	keywordConfidence  = 0.75
)

// Decision is a resolved classification for one transaction.
type Decision struct {
	CategoryID   uuid.UUID
	IsDeductible bool
	Confidence   float64
	Method       transaction.Method
}

// Catalog holds the lookup state the deterministic stages need, built once
// per run so per-transaction decisions stay pure.
type Catalog struct {
	byID   map[uuid.UUID]*category.Category
	byName map[string]*category.Category
}

func NewCatalog(categories []*category.Category) *Catalog {
	c := &Catalog{
		byID:   make(map[uuid.UUID]*category.Category, len(categories)),
		byName: make(map[string]*category.Category, len(categories)),
	}

	for _, cat := range categories {
		c.byID[cat.ID] = cat
		c.byName[strings.ToLower(cat.Name)] = cat
	}

	return c
}

// Lookup resolves a category by name, case-insensitively.
func (c *Catalog) Lookup(name string) (*category.Category, bool) {
	cat, ok := c.byName[strings.ToLower(strings.TrimSpace(name))]
	return cat, ok
}

// Decide runs the deterministic classification stages for one transaction:
// the owner's rules first, then the built-in keyword vocabulary. Returns
// false when neither stage resolves, which hands the transaction to the AI
// stage. Deductibility never applies to income.
func Decide(tx *transaction.Transaction, rules []*rule.Rule, keywords []KeywordRule, catalog *Catalog) (Decision, bool) {
	desc := strings.ToLower(tx.Description)

	for _, r := range rules {
		if !strings.Contains(desc, strings.ToLower(r.Pattern)) {
			continue
		}

		deductible := false
		if tx.Type == transaction.TypeExpense {
			if r.DeductibleOverride != nil {
				deductible = *r.DeductibleOverride
			} else if cat, ok := catalog.byID[r.CategoryID]; ok {
				deductible = cat.IsDeductible
			}
		}

		return Decision{
			CategoryID:   r.CategoryID,
			IsDeductible: deductible,
			Confidence:   userRuleConfidence,
			Method:       transaction.MethodUserRule,
		}, true
	}

	if kw, ok := matchKeyword(tx.Description, keywords); ok {
		cat, found := catalog.Lookup(kw.Category)
		if !found {
			return Decision{}, false
		}

		deductible := kw.IsDeductible && tx.Type == transaction.TypeExpense

		return Decision{
			CategoryID:   cat.ID,
			IsDeductible: deductible,
			Confidence:   keywordConfidence,
			Method:       transaction.MethodKeyword,
		}, true
	}

	return Decision{}, false
}
