package engine

import (
	"strings"

	"github.com/gorushbn/pharmacydash/internal/model"
)

// FormIndex - lookup data derived from the saved-forms collection; feeds
// the no-form predicates and form-name search.
type FormIndex struct {
	SavedIDs          map[string]struct{}
	FormNameByOrderID map[string]string
}

func NewFormIndex(forms []model.Form) FormIndex {
	idx := FormIndex{
		SavedIDs:          make(map[string]struct{}),
		FormNameByOrderID: make(map[string]string),
	}
	for _, f := range forms {
		for _, id := range f.OrderIDs {
			idx.SavedIDs[id] = struct{}{}
			if _, ok := idx.FormNameByOrderID[id]; !ok {
				idx.FormNameByOrderID[id] = f.FormName
			}
		}
	}
	return idx
}

// Query - one filter pipeline configuration. Zero values ("", "all") are
// pass-through stages.
type Query struct {
	Tab     Category
	Search  string
	Status  string
	Product string
}

// Filter applies the pipeline stages in their fixed sequence: tab filter,
// free-text search, status filter, product filter. Each stage receives the
// previous stage's output; input order is preserved throughout.
func Filter(orders []model.Order, q Query, idx FormIndex) []model.Order {
	out := filterTab(orders, q.Tab, idx)
	out = filterSearch(out, q.Search, idx)
	out = filterStatus(out, q.Status)
	out = filterProduct(out, q.Product)
	return out
}

func filterTab(orders []model.Order, tab Category, idx FormIndex) []model.Order {
	pred := tabPredicate(tab, idx)
	if pred == nil {
		return append([]model.Order(nil), orders...)
	}

	out := make([]model.Order, 0, len(orders))
	for _, o := range orders {
		if pred(o) {
			out = append(out, o)
		}
	}
	return out
}

// tabPredicate returns nil for the pass-through "all" tab. Every tab except
// Cancelled excludes cancelled orders, so a cancelled Express order is
// counted once, under Cancelled.
func tabPredicate(tab Category, idx FormIndex) func(model.Order) bool {
	noForm := func(o model.Order) bool { return NoFormCreated(o, idx.SavedIDs) }

	switch tab {
	case "", CategoryAll:
		return nil
	case CategoryCancelled:
		return IsCancelled
	case CategoryStandard:
		return func(o model.Order) bool { return Classify(o) == CategoryStandard }
	case CategoryExpress:
		return func(o model.Order) bool { return Classify(o) == CategoryExpress }
	case CategoryImmediate:
		return func(o model.Order) bool { return Classify(o) == CategoryImmediate }
	case CategoryTTG:
		return func(o model.Order) bool { return Classify(o) == CategoryTTG }
	case CategoryKB:
		return func(o model.Order) bool { return Classify(o) == CategoryKB }
	case CategoryOthers:
		return func(o model.Order) bool { return Classify(o) == CategoryOthers }
	case "noCollectionDate":
		return func(o model.Order) bool { return NoCollectionDate(o) && !IsCancelled(o) }
	case "noFormCreated":
		return func(o model.Order) bool { return noForm(o) && !IsCancelled(o) }
	case "StandardNoForm":
		return func(o model.Order) bool {
			return Classify(o) == CategoryStandard && noForm(o)
		}
	case "ExpressNoForm":
		return func(o model.Order) bool {
			return Classify(o) == CategoryExpress && noForm(o)
		}
	case "TTGNoForm":
		return func(o model.Order) bool {
			return Classify(o) == CategoryTTG && noForm(o)
		}
	case "KBNoForm":
		return func(o model.Order) bool {
			return Classify(o) == CategoryKB && noForm(o)
		}
	default:
		return func(model.Order) bool { return false }
	}
}

func filterSearch(orders []model.Order, term string, idx FormIndex) []model.Order {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return orders
	}

	out := make([]model.Order, 0, len(orders))
	for _, o := range orders {
		if matchesSearch(o, term, idx) {
			out = append(out, o)
		}
	}
	return out
}

func matchesSearch(o model.Order, term string, idx FormIndex) bool {
	if containsFold(o.DOTrackingNumber, term) ||
		containsFold(o.ReceiverName, term) ||
		containsFold(o.PatientNumber, term) ||
		containsFold(o.MedicationName, term) {
		return true
	}

	if name, ok := idx.FormNameByOrderID[o.ID]; ok {
		return containsFold(name, term)
	}

	return false
}

func containsFold(s, lowerTerm string) bool {
	return strings.Contains(strings.ToLower(s), lowerTerm)
}

// filterStatus matches either side's status so a single dropdown covers
// both the courier and the pharmacy state.
func filterStatus(orders []model.Order, status string) []model.Order {
	if status == "" || status == "all" {
		return orders
	}

	out := make([]model.Order, 0, len(orders))
	for _, o := range orders {
		if strings.EqualFold(o.GoRushStatus, status) || strings.EqualFold(o.PharmacyStatus, status) {
			out = append(out, o)
		}
	}
	return out
}

func filterProduct(orders []model.Order, product string) []model.Order {
	if product == "" || product == "all" {
		return orders
	}

	out := make([]model.Order, 0, len(orders))
	for _, o := range orders {
		if o.Product == product {
			out = append(out, o)
		}
	}
	return out
}
