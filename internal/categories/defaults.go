package categories

import "clearspend/internal/core"

// defaultTaxonomy is the seed mapping used when no persisted document
// exists yet. The reserved categories carry no keywords; Income is
// assigned structurally from credits, never by matching.
func defaultTaxonomy() []Entry {
	return []Entry{
		{Name: core.CategoryUncategorized},
		{Name: core.CategoryIncome},
		{Name: "Groceries", Keywords: []string{"tesco", "lidl", "aldi", "dealz", "supervalu", "eurogiant", "mr price"}},
		{Name: "Electricity", Keywords: []string{"sseairtricity", "electric ireland"}},
		{Name: "Transportation", Keywords: []string{"uber", "rail", "bus", "leap card"}},
		{Name: "Dining", Keywords: []string{"sano"}},
		{Name: "Entertainment", Keywords: []string{"netflix", "spotify"}},
		{Name: "Shopping", Keywords: []string{"amazon"}},
		{Name: "India Home", Keywords: []string{"wise"}},
		{Name: "Phone Bill", Keywords: []string{"gomo"}},
	}
}
