package engine

import (
	"fmt"
	"strings"
	"time"

	"github.com/gorushbn/pharmacydash/internal/model"
)

type Category string

const (
	CategoryAll       Category = "all"
	CategoryCancelled Category = "Cancelled"
	CategoryTTG       Category = "TTG"
	CategoryKB        Category = "KB"
	CategoryStandard  Category = "Standard"
	CategoryExpress   Category = "Express"
	CategoryImmediate Category = "Immediate"
	CategoryOthers    Category = "Others"
)

const (
	districtTutong = "Tutong"
	districtBelait = "Belait"
	hospitalPMMH   = "PMMH"
	hospitalSSBH   = "SSBH"
)

// Classify maps an order to exactly one primary category. The precedence is
// fixed: cancellation short-circuits everything, district rules beat the
// generic job method. Changing this order changes which bucket an order
// with both attributes lands in, and with it every downstream count.
func Classify(o model.Order) Category {
	switch {
	case IsCancelled(o):
		return CategoryCancelled
	case o.AppointmentDistrict == districtTutong && o.SendOrderTo == hospitalPMMH:
		return CategoryTTG
	case o.AppointmentDistrict == districtBelait && o.SendOrderTo == hospitalSSBH:
		return CategoryKB
	case o.JobMethod == model.JobMethodStandard || o.JobMethod == model.JobMethodSelfCollect:
		return CategoryStandard
	case o.JobMethod == model.JobMethodExpress:
		return CategoryExpress
	case o.JobMethod == model.JobMethodImmediate:
		return CategoryImmediate
	default:
		return CategoryOthers
	}
}

func IsCancelled(o model.Order) bool {
	return strings.EqualFold(o.GoRushStatus, string(model.OrderStatusCancelled))
}

// NoCollectionDate - absence of a collection date is itself a category.
func NoCollectionDate(o model.Order) bool {
	return strings.TrimSpace(o.CollectionDate) == ""
}

// NoFormCreated reports whether the order is missing from the saved-forms
// id set, which is sourced separately from the order itself.
func NoFormCreated(o model.Order, savedIDs map[string]struct{}) bool {
	_, ok := savedIDs[o.ID]
	return !ok
}

const (
	agingWarningDays  = 5
	agingCriticalDays = 10
)

type AgingLabel string

const (
	AgingCollected AgingLabel = "Collected"
	AgingCancelled AgingLabel = "Cancelled"
	AgingCritical  AgingLabel = "Critical"
	AgingWarning   AgingLabel = "Warning"
	AgingNormal    AgingLabel = "Normal"
	AgingNew       AgingLabel = "New"
)

// Aging - derived per call from creationDate vs now, never persisted.
// Terminal statuses on either side override the day buckets entirely.
type Aging struct {
	Days   int        `json:"days"`
	HasAge bool       `json:"hasAge"`
	Label  AgingLabel `json:"label"`
}

func ClassifyAging(o model.Order, now time.Time) Aging {
	goRush := strings.ToLower(o.GoRushStatus)
	pharmacy := strings.ToLower(o.PharmacyStatus)

	if goRush == string(model.OrderStatusCollected) || pharmacy == string(model.OrderStatusCollected) {
		return Aging{Label: AgingCollected}
	}
	if goRush == string(model.OrderStatusCancelled) || pharmacy == string(model.OrderStatusCancelled) {
		return Aging{Label: AgingCancelled}
	}

	created, ok := ParseFlexibleDate(o.CreationDate)
	if !ok {
		return Aging{Label: AgingNew}
	}

	days := int(now.Sub(created).Hours() / 24)
	if days < 0 {
		days = 0
	}

	a := Aging{Days: days, HasAge: true}
	switch {
	case days >= agingCriticalDays:
		a.Label = AgingCritical
	case days >= agingWarningDays:
		a.Label = AgingWarning
	default:
		a.Label = AgingNormal
	}
	return a
}

// StatusText renders an aging value the way the dashboard shows it,
// e.g. "Critical (12 days)".
func (a Aging) StatusText() string {
	if !a.HasAge {
		return string(a.Label)
	}
	return fmt.Sprintf("%s (%d days)", a.Label, a.Days)
}
