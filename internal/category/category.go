package category

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/taxwiseapp/taxwise/internal/transaction"
)

var ErrNotFound = errors.New("category not found")

// Category is an owner-scoped classification target. Name is unique per owner.
type Category struct {
	ID              uuid.UUID        `json:"id"`
	UserID          uuid.UUID        `json:"user_id"`
	Name            string           `json:"name"`
	Type            transaction.Type `json:"type"`
	IsDeductible    bool             `json:"is_deductible"`
	IsSystemDefault bool             `json:"is_system_default"`
	CreatedAt       time.Time        `json:"created_at"`
}

// Default describes one entry of the seed set created for every owner.
type Default struct {
	Name         string
	Type         transaction.Type
	IsDeductible bool
}

// Defaults is the system category set seeded per owner on first analysis.
// Deductibility follows the "wholly and exclusively for business" rule of
// thumb; users refine it per transaction or via rules.
var Defaults = []Default{
	{Name: "Salary", Type: transaction.TypeIncome},
	{Name: "Freelance", Type: transaction.TypeIncome},
	{Name: "Investments", Type: transaction.TypeIncome},

	{Name: "Internet & Utilities", Type: transaction.TypeExpense, IsDeductible: true},
	{Name: "Software & Subscriptions", Type: transaction.TypeExpense, IsDeductible: true},
	{Name: "Office Supplies", Type: transaction.TypeExpense, IsDeductible: true},
	{Name: "Rent (Office)", Type: transaction.TypeExpense, IsDeductible: true},
	{Name: "Professional Fees", Type: transaction.TypeExpense, IsDeductible: true},
	{Name: "Transport (Business)", Type: transaction.TypeExpense, IsDeductible: true},
	{Name: "Education & Training", Type: transaction.TypeExpense, IsDeductible: true},

	{Name: "Groceries", Type: transaction.TypeExpense},
	{Name: "Entertainment", Type: transaction.TypeExpense},
	{Name: "Dining Out", Type: transaction.TypeExpense},
	{Name: "Rent (Home)", Type: transaction.TypeExpense},
	{Name: "Personal Care", Type: transaction.TypeExpense},
	{Name: "Charity", Type: transaction.TypeExpense},
}
