package statement

import (
	"strings"

	"clearspend/internal/categories"
	"clearspend/internal/core"
)

// Classify assigns a category to every transaction and returns a new
// slice, leaving the input untouched.
//
// Credit-bearing rows are assigned Income / Receivables structurally and
// are exempt from keyword rules. Everything else starts Uncategorized and
// is matched against each non-reserved category's keywords in store
// order; matching is a case-insensitive unanchored substring check, and
// the last matching category wins.
func Classify(txs []core.Transaction, snap categories.Snapshot) []core.Transaction {
	out := make([]core.Transaction, len(txs))
	copy(out, txs)

	for i := range out {
		if out[i].HasCredit() {
			out[i].Category = core.CategoryIncome
		} else {
			out[i].Category = core.CategoryUncategorized
		}
	}

	for _, entry := range snap {
		if core.IsReserved(entry.Name) {
			continue
		}
		keywords := loweredKeywords(entry.Keywords)
		if len(keywords) == 0 {
			continue
		}
		for i := range out {
			if out[i].HasCredit() {
				continue
			}
			details := strings.ToLower(strings.TrimSpace(out[i].Details))
			for _, kw := range keywords {
				if strings.Contains(details, kw) {
					out[i].Category = entry.Name
					break
				}
			}
		}
	}
	return out
}

func loweredKeywords(keywords []string) []string {
	out := make([]string, 0, len(keywords))
	for _, kw := range keywords {
		kw = strings.ToLower(strings.TrimSpace(kw))
		if kw != "" {
			out = append(out, kw)
		}
	}
	return out
}
