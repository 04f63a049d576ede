package classify

import "strings"

// KeywordRule maps merchant keywords to a category by name. Rules are
// evaluated in order and the first keyword hit wins, so more specific rules
// must come first.
type KeywordRule struct {
	Keywords     []string
	Category     string
	IsDeductible bool
}

// KeywordRules is the built-in merchant vocabulary for Nigerian freelancers
// and small businesses. Category names must match the default category set.
var KeywordRules = []KeywordRule{
	{
		Keywords:     []string{"upwork", "fiverr", "freelance", "consulting", "contract", "salary"},
		Category:     "Freelance",
		IsDeductible: false,
	},
	{
		Keywords:     []string{"mtn", "airtel", "glo", "9mobile", "spectranet", "starlink", "mainone", "ipnx", "electricity", "ekedc", "ikedc"},
		Category:     "Internet & Utilities",
		IsDeductible: true,
	},
	{
		Keywords:     []string{"zoom", "google", "aws", "digitalocean", "vercel", "heroku", "adobe", "jetbrains", "github", "linkedin", "slack"},
		Category:     "Software & Subscriptions",
		IsDeductible: true,
	},
	{
		Keywords:     []string{"uber", "bolt", "indriver", "taxify", "fuel", "total", "oando", "flight", "air peace", "ibom air"},
		Category:     "Transport (Business)",
		IsDeductible: true,
	},
	{
		Keywords:     []string{"shoprite", "spar", "market", "food", "kitchen"},
		Category:     "Groceries",
		IsDeductible: false,
	},
	{
		Keywords:     []string{"netflix", "dstv", "showmax", "cinema", "spotify", "apple music"},
		Category:     "Entertainment",
		IsDeductible: false,
	},
	{
		Keywords:     []string{"pizza", "chicken", "burger", "restaurant", "buka", "kitchen", "lounge"},
		Category:     "Dining Out",
		IsDeductible: false,
	},
	{
		Keywords:     []string{"udemy", "coursera", "pluralsight", "course", "training", "workshop"},
		Category:     "Education & Training",
		IsDeductible: true,
	},
	{
		Keywords:     []string{"ican", "nba", "membership", "legal", "audit", "accounting"},
		Category:     "Professional Fees",
		IsDeductible: true,
	},
}

// matchKeyword returns the first rule whose keyword appears in the
// description, case-insensitively.
func matchKeyword(description string, rules []KeywordRule) (KeywordRule, bool) {
	desc := strings.ToLower(description)

	for _, r := range rules {
		for _, kw := range r.Keywords {
			if strings.Contains(desc, kw) {
				return r, true
			}
		}
	}

	return KeywordRule{}, false
}
