package engine

import (
	"time"

	"github.com/gorushbn/pharmacydash/internal/model"
)

// Stats - per-category counts for the dashboard tabs. Field names match
// the JSON keys the frontend binds to.
type Stats struct {
	All              int `json:"all"`
	Standard         int `json:"Standard"`
	Express          int `json:"Express"`
	Immediate        int `json:"Immediate"`
	TTG              int `json:"TTG"`
	KB               int `json:"KB"`
	Others           int `json:"Others"`
	Cancelled        int `json:"Cancelled"`
	NoCollectionDate int `json:"noCollectionDate"`
	NoFormCreated    int `json:"noFormCreated"`
	StandardNoForm   int `json:"StandardNoForm"`
	ExpressNoForm    int `json:"ExpressNoForm"`
	TTGNoForm        int `json:"TTGNoForm"`
	KBNoForm         int `json:"KBNoForm"`
}

// Aggregate runs one pass over the order list and accumulates category and
// compound counts. It is recomputed from scratch whenever the source list
// or the saved-forms id set changes; there is no incremental path.
func Aggregate(orders []model.Order, savedIDs map[string]struct{}) Stats {
	var stats Stats
	stats.All = len(orders)

	for _, o := range orders {
		// cancellation short-circuits everything, including the
		// independent no-date / no-form counters.
		if IsCancelled(o) {
			stats.Cancelled++
			continue
		}

		noForm := NoFormCreated(o, savedIDs)
		if noForm {
			stats.NoFormCreated++
		}
		if NoCollectionDate(o) {
			stats.NoCollectionDate++
		}

		switch Classify(o) {
		case CategoryTTG:
			stats.TTG++
			if noForm {
				stats.TTGNoForm++
			}
		case CategoryKB:
			stats.KB++
			if noForm {
				stats.KBNoForm++
			}
		case CategoryStandard:
			stats.Standard++
			if noForm {
				stats.StandardNoForm++
			}
		case CategoryExpress:
			stats.Express++
			if noForm {
				stats.ExpressNoForm++
			}
		case CategoryImmediate:
			stats.Immediate++
		default:
			stats.Others++
		}
	}

	return stats
}

const (
	PharmacyTypeMOH   = "MOH"
	PharmacyTypeJPMC  = "JPMC"
	PharmacyTypeOther = "Other"
)

func PharmacyType(o model.Order) string {
	switch o.Product {
	case model.ProductPharmacyMOH:
		return PharmacyTypeMOH
	case model.ProductPharmacyJPMC:
		return PharmacyTypeJPMC
	default:
		return PharmacyTypeOther
	}
}

// DateGroups - orders nested first by creation day (YYYY-MM-DD), then by
// pharmacy type, for the collection-dates view.
type DateGroups map[string]map[string][]model.Order

// GroupByCreationDate builds the nested grouping. Orders whose creation
// date cannot be parsed are grouped under their raw string so they stay
// visible rather than being dropped.
func GroupByCreationDate(orders []model.Order) DateGroups {
	groups := make(DateGroups)

	for _, o := range orders {
		key, ok := DayKey(o.CreationDate)
		if !ok {
			key = o.CreationDate
		}

		byType, exists := groups[key]
		if !exists {
			byType = make(map[string][]model.Order)
			groups[key] = byType
		}

		pt := PharmacyType(o)
		byType[pt] = append(byType[pt], o)
	}

	return groups
}

// AgingSummary - counts for the aging banner on the customer dashboard.
type AgingSummary struct {
	Aging    int `json:"aging"`
	Critical int `json:"critical"`
}

// SummarizeAging counts orders at warning age and above; critical is the
// subset at the critical threshold.
func SummarizeAging(orders []model.Order, now time.Time) AgingSummary {
	var s AgingSummary
	for _, o := range orders {
		a := ClassifyAging(o, now)
		if !a.HasAge {
			continue
		}
		if a.Days >= agingWarningDays {
			s.Aging++
		}
		if a.Days >= agingCriticalDays {
			s.Critical++
		}
	}
	return s
}
