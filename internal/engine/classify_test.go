package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/gorushbn/pharmacydash/internal/model"
)

func TestClassify_Precedence(t *testing.T) {
	tests := []struct {
		name  string
		order model.Order
		want  Category
	}{
		{
			name:  "cancelled short-circuits everything",
			order: model.Order{GoRushStatus: "cancelled", JobMethod: "Express"},
			want:  CategoryCancelled,
		},
		{
			name:  "cancelled beats district rules",
			order: model.Order{GoRushStatus: "cancelled", AppointmentDistrict: "Tutong", SendOrderTo: "PMMH"},
			want:  CategoryCancelled,
		},
		{
			name:  "tutong district beats job method",
			order: model.Order{AppointmentDistrict: "Tutong", SendOrderTo: "PMMH", JobMethod: "Express"},
			want:  CategoryTTG,
		},
		{
			name:  "belait district beats job method",
			order: model.Order{AppointmentDistrict: "Belait", SendOrderTo: "SSBH", JobMethod: "Standard"},
			want:  CategoryKB,
		},
		{
			name:  "tutong without PMMH falls through",
			order: model.Order{AppointmentDistrict: "Tutong", SendOrderTo: "RIPAS", JobMethod: "Express"},
			want:  CategoryExpress,
		},
		{
			name:  "standard",
			order: model.Order{JobMethod: "Standard"},
			want:  CategoryStandard,
		},
		{
			name:  "self collect counts as standard",
			order: model.Order{JobMethod: "Self Collect"},
			want:  CategoryStandard,
		},
		{
			name:  "express",
			order: model.Order{JobMethod: "Express"},
			want:  CategoryExpress,
		},
		{
			name:  "immediate",
			order: model.Order{JobMethod: "Immediate"},
			want:  CategoryImmediate,
		},
		{
			name:  "absent job method",
			order: model.Order{},
			want:  CategoryOthers,
		},
		{
			name:  "unknown job method",
			order: model.Order{JobMethod: "Drone"},
			want:  CategoryOthers,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.order))
		})
	}
}

func TestClassify_ExactlyOneCategory(t *testing.T) {
	// orders with competing attributes must land in exactly one bucket
	orders := []model.Order{
		{GoRushStatus: "cancelled", JobMethod: "Express", AppointmentDistrict: "Tutong", SendOrderTo: "PMMH"},
		{JobMethod: "Express", AppointmentDistrict: "Tutong", SendOrderTo: "PMMH"},
		{JobMethod: "Self Collect", AppointmentDistrict: "Belait", SendOrderTo: "SSBH"},
		{JobMethod: "Immediate"},
		{},
	}

	for _, o := range orders {
		got := Classify(o)
		assert.NotEqual(t, CategoryAll, got)
		assert.Contains(t, []Category{
			CategoryCancelled, CategoryTTG, CategoryKB,
			CategoryStandard, CategoryExpress, CategoryImmediate, CategoryOthers,
		}, got)
	}
}

func TestNoCollectionDate(t *testing.T) {
	assert.True(t, NoCollectionDate(model.Order{}))
	assert.True(t, NoCollectionDate(model.Order{CollectionDate: "  "}))
	assert.False(t, NoCollectionDate(model.Order{CollectionDate: "2025-01-01"}))
}

func TestNoFormCreated(t *testing.T) {
	saved := map[string]struct{}{"a": {}}

	assert.False(t, NoFormCreated(model.Order{ID: "a"}, saved))
	assert.True(t, NoFormCreated(model.Order{ID: "b"}, saved))
	assert.True(t, NoFormCreated(model.Order{ID: "a"}, nil))
}

func TestClassifyAging(t *testing.T) {
	now := time.Date(2025, 6, 20, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name  string
		order model.Order
		want  AgingLabel
		days  int
	}{
		{
			name:  "collected overrides aging",
			order: model.Order{GoRushStatus: "collected", CreationDate: "2025-01-01"},
			want:  AgingCollected,
		},
		{
			name:  "pharmacy collected overrides aging",
			order: model.Order{PharmacyStatus: "Collected", CreationDate: "2025-01-01"},
			want:  AgingCollected,
		},
		{
			name:  "cancelled overrides aging",
			order: model.Order{GoRushStatus: "cancelled", CreationDate: "2025-01-01"},
			want:  AgingCancelled,
		},
		{
			name:  "critical at ten days",
			order: model.Order{CreationDate: "2025-06-10"},
			want:  AgingCritical,
			days:  10,
		},
		{
			name:  "warning at five days",
			order: model.Order{CreationDate: "2025-06-15"},
			want:  AgingWarning,
			days:  5,
		},
		{
			name:  "normal under five days",
			order: model.Order{CreationDate: "2025-06-18"},
			want:  AgingNormal,
			days:  2,
		},
		{
			name:  "no creation date is new",
			order: model.Order{},
			want:  AgingNew,
		},
		{
			name:  "unparseable creation date is new",
			order: model.Order{CreationDate: "soon"},
			want:  AgingNew,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := ClassifyAging(tt.order, now)
			assert.Equal(t, tt.want, a.Label)
			if a.HasAge {
				assert.Equal(t, tt.days, a.Days)
			}
		})
	}
}

func TestAging_StatusText(t *testing.T) {
	assert.Equal(t, "Critical (12 days)", Aging{Days: 12, HasAge: true, Label: AgingCritical}.StatusText())
	assert.Equal(t, "Collected", Aging{Label: AgingCollected}.StatusText())
}
