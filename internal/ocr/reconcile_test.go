package ocr

import (
	"context"
	"errors"
	"testing"

	"rekap-kehadiran/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type submitted struct {
	category   model.Category
	employeeID string
}

func TestReconcileEndToEnd(t *testing.T) {
	r := NewResolver([]model.Employee{{ID: "budi", Name: "Budi Santoso", NID: "001"}})

	var got []submitted
	sum := Reconcile(context.Background(), Parse("Sakit: Budi Santoso"), r,
		func(ctx context.Context, c model.Category, id string) error {
			got = append(got, submitted{c, id})
			return nil
		})

	assert.Equal(t, []submitted{{model.CategorySakit, "budi"}}, got)
	assert.Equal(t, 1, sum.Applied)
	assert.Equal(t, 0, sum.Skipped)
	assert.Equal(t, 0, sum.Failed)
}

func TestReconcileSkipsAndContinuesAfterFailure(t *testing.T) {
	r := NewResolver([]model.Employee{
		{ID: "budi", Name: "Budi Santoso"},
		{ID: "sari", Name: "Sari Dewi"},
	})
	groups := []Group{
		{Category: model.CategoryCuti, Names: []string{"Budi", "Zzz", "Sari"}},
		{Category: model.CategoryIzin, Names: []string{"Sari"}},
	}

	calls := 0
	sum := Reconcile(context.Background(), groups, r, func(ctx context.Context, c model.Category, id string) error {
		calls++
		if id == "budi" {
			return errors.New("jaringan putus")
		}
		return nil
	})

	assert.Equal(t, 3, calls)
	assert.Equal(t, 2, sum.Applied)
	assert.Equal(t, 1, sum.Skipped)
	assert.Equal(t, 1, sum.Failed)
	require.Len(t, sum.Items, 4)
	assert.Equal(t, OutcomeFailed, sum.Items[0].Outcome)
	assert.Equal(t, "jaringan putus", sum.Items[0].Error)
	assert.Equal(t, OutcomeSkipped, sum.Items[1].Outcome)
	assert.Empty(t, sum.Items[1].EmployeeID)
	assert.Equal(t, OutcomeApplied, sum.Items[3].Outcome)
}

func TestReconcileEmpty(t *testing.T) {
	sum := Reconcile(context.Background(), nil, NewResolver(nil), nil)
	assert.Zero(t, sum.Applied+sum.Skipped+sum.Failed)
	assert.Empty(t, sum.Items)
}
