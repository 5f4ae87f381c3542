package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"fulfillment-cutoff-service/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ruleSet(id string) *domain.LocationCutoffRuleSet {
	return &domain.LocationCutoffRuleSet{
		LocationID: id,
		TimeZoneID: "America/Detroit",
		DivisionRules: map[domain.Division]domain.DivisionCutoffRule{
			domain.DivisionCarbon: {CutoffTime: "15:00", NextDayPromiseEnabled: true, ValidShipDays: []time.Weekday{time.Monday}},
		},
	}
}

func TestCutoffRuleStore_GetUnknownIsNotFound(t *testing.T) {
	s := NewCutoffRuleStore()

	_, err := s.GetRuleSet(context.Background(), "DET")
	require.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestCutoffRuleStore_PutStampsAndCopies(t *testing.T) {
	s := NewCutoffRuleStore()
	fixed := time.Date(2026, 10, 14, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return fixed }

	in := ruleSet("DET")
	require.NoError(t, s.PutRuleSet(context.Background(), in))

	// Mutating the caller's copy after the write must not leak into the store.
	in.DivisionRules[domain.DivisionCarbon] = domain.DivisionCutoffRule{CutoffTime: "09:00"}

	got, err := s.GetRuleSet(context.Background(), "DET")
	require.NoError(t, err)
	assert.Equal(t, "15:00", got.DivisionRules[domain.DivisionCarbon].CutoffTime)
	assert.Equal(t, fixed, got.UpdatedAt)

	// Nor may mutating a read result.
	got.TimeZoneID = "UTC"
	again, err := s.GetRuleSet(context.Background(), "DET")
	require.NoError(t, err)
	assert.Equal(t, "America/Detroit", again.TimeZoneID)
}

func TestCutoffRuleStore_ListSortedByLocation(t *testing.T) {
	s := NewCutoffRuleStore(ruleSet("DET"), ruleSet("CHI"))
	require.NoError(t, s.PutAll(context.Background(), []*domain.LocationCutoffRuleSet{ruleSet("ATL")}))

	got, err := s.ListRuleSets(context.Background())
	require.NoError(t, err)

	ids := make([]string, 0, len(got))
	for _, rs := range got {
		ids = append(ids, rs.LocationID)
	}
	assert.Equal(t, []string{"ATL", "CHI", "DET"}, ids)
}

func TestCutoffRuleStore_HonoursCancelledContext(t *testing.T) {
	s := NewCutoffRuleStore(ruleSet("DET"))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.GetRuleSet(ctx, "DET")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestInventorySource_UnsetIsZero(t *testing.T) {
	src := NewInventorySource()
	src.Set("DET", domain.DivisionCarbon, domain.InventorySnapshot{OnHandQty: 12, OnHandWeight: 400})

	got, err := src.GetInventory(context.Background(), "DET", domain.DivisionCarbon)
	require.NoError(t, err)
	assert.Equal(t, 12.0, got.OnHandQty)

	got, err = src.GetInventory(context.Background(), "DET", domain.DivisionAlloy)
	require.NoError(t, err)
	assert.Zero(t, got.OnHandQty)
}

func TestBranchDirectory_ReturnsCopy(t *testing.T) {
	d := &BranchDirectory{Branches: []domain.Branch{{LocationID: "DET"}, {LocationID: "CHI"}}}

	got, err := d.ListBranches(context.Background())
	require.NoError(t, err)
	got[0].LocationID = "XXX"

	assert.Equal(t, "DET", d.Branches[0].LocationID)
}
