package report

import (
	"testing"
	"time"

	"rekap-kehadiran/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rec(empID, nid, name string, c model.Category, month string) model.AttendanceRecord {
	return model.AttendanceRecord{
		ID: empID + name, EmployeeID: empID, EmployeeNID: nid, EmployeeName: name,
		Type: c, MonthYear: month,
	}
}

func TestAggregateEmpty(t *testing.T) {
	got := Aggregate(nil, "2025-10", model.CategorySakit)
	assert.Equal(t, 0, got.Total)
	assert.NotNil(t, got.Ranked)
	assert.Empty(t, got.Ranked)
}

func TestAggregateTotalEqualsSumOfCounts(t *testing.T) {
	records := []model.AttendanceRecord{
		rec("e1", "001", "Budi", model.CategorySakit, "2025-10"),
		rec("e2", "002", "Sari", model.CategorySakit, "2025-10"),
		rec("e1", "001", "Budi", model.CategorySakit, "2025-10"),
		rec("e1", "001", "Budi", model.CategoryCuti, "2025-10"),
		rec("e3", "003", "Tono", model.CategorySakit, "2025-09"),
	}
	got := Aggregate(records, "2025-10", model.CategorySakit)

	sum := 0
	for _, r := range got.Ranked {
		sum += r.Count
	}
	assert.Equal(t, 3, got.Total)
	assert.Equal(t, got.Total, sum)
	require.Len(t, got.Ranked, 2)
	assert.Equal(t, "Budi", got.Ranked[0].Name)
	assert.Equal(t, 2, got.Ranked[0].Count)
}

func TestAggregateTiesKeepFirstAppearance(t *testing.T) {
	records := []model.AttendanceRecord{
		rec("e2", "200", "Zaki", model.CategoryIzin, "2025-10"),
		rec("e1", "100", "Andi", model.CategoryIzin, "2025-10"),
		rec("e3", "300", "Citra", model.CategoryIzin, "2025-10"),
		rec("e3", "300", "Citra", model.CategoryIzin, "2025-10"),
	}
	got := Aggregate(records, "2025-10", model.CategoryIzin)
	require.Len(t, got.Ranked, 3)
	assert.Equal(t, "Citra", got.Ranked[0].Name)
	assert.Equal(t, "Zaki", got.Ranked[1].Name)
	assert.Equal(t, "Andi", got.Ranked[2].Name)
}

func TestAggregateFallsBackToEmployeeID(t *testing.T) {
	records := []model.AttendanceRecord{
		rec("e1", "", "Budi", model.CategoryAlpa, "2025-10"),
		rec("e1", "", "Budi", model.CategoryAlpa, "2025-10"),
		rec("e2", "", "Sari", model.CategoryAlpa, "2025-10"),
	}
	got := Aggregate(records, "2025-10", model.CategoryAlpa)
	require.Len(t, got.Ranked, 2)
	assert.Equal(t, 2, got.Ranked[0].Count)
	assert.Equal(t, NotAvailable, got.Ranked[0].NID)
	assert.Equal(t, NotAvailable, got.Ranked[0].Bidang)
	assert.Equal(t, "e1", got.Ranked[0].EmployeeID)
}

func TestBuildDashboardColumnsInCategoryOrder(t *testing.T) {
	d := BuildDashboard([]model.AttendanceRecord{
		rec("e1", "001", "Budi", model.CategoryDinasLuar, "2025-10"),
	}, "2025-10")

	require.Len(t, d.Columns, len(model.Categories()))
	for i, c := range model.Categories() {
		assert.Equal(t, c, d.Columns[i].Category)
	}
	last := d.Columns[len(d.Columns)-1]
	assert.Equal(t, "dinas_luar", last.Slug)
	assert.Equal(t, 1, last.Total)
	assert.Equal(t, 0, d.Columns[0].Total)
}

func TestEmployeeHistoryNewestFirst(t *testing.T) {
	base := time.Date(2025, 10, 1, 8, 0, 0, 0, time.UTC)
	records := []model.AttendanceRecord{
		{ID: "a", EmployeeID: "e1", Timestamp: base},
		{ID: "b", EmployeeID: "e2", Timestamp: base.Add(time.Hour)},
		{ID: "c", EmployeeID: "e1", Timestamp: base.Add(48 * time.Hour)},
	}
	got := EmployeeHistory(records, "e1")
	require.Len(t, got, 2)
	assert.Equal(t, "c", got[0].ID)
	assert.Equal(t, "a", got[1].ID)

	assert.Empty(t, EmployeeHistory(records, "e9"))
}

func TestDisciplinaryForMonth(t *testing.T) {
	records := []model.DisciplinaryRecord{
		{ID: "1", Date: "2025-10-02", MonthYear: "2025-10"},
		{ID: "2", Date: "2025-10-20", MonthYear: "2025-10"},
		{ID: "3", Date: "2025-09-30", MonthYear: "2025-09"},
	}
	got := DisciplinaryForMonth(records, "2025-10")
	require.Len(t, got, 2)
	assert.Equal(t, "2", got[0].ID)
	assert.Equal(t, "1", got[1].ID)
}
