package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gcec-dev/feedesk-api/internal/models"
)

func sampleStudent() models.Student {
	return models.Student{
		Slug:      "s001",
		StudentID: "ID-001",
		EngName:   "Kaung Myat",
		FinanceProperties: []models.FinanceYearRecord{
			{
				Year: "2024",
				Fee: []models.FeeEntry{
					{Month: "June", Value: 50000, Remain: 0, Date: "2024-06-05", Status: models.FeeStatusPaid, PaidBy: models.PaymentMethodCash},
					{Month: "July", Value: 50000, Remain: 10000, Date: "2024-07-03", Status: models.FeeStatusUnpaid, PaidBy: models.PaymentMethodKPay},
				},
			},
			{
				Year: "2023",
				Fee: []models.FeeEntry{
					{Month: "June", Value: 45000, Date: "2023-06-01", Status: models.FeeStatusPaid, PaidBy: models.PaymentMethodCash},
				},
			},
		},
	}
}

func TestResolveFeeEntryMatchesYearAndMonth(t *testing.T) {
	student := sampleStudent()

	entry := ResolveFeeEntry(student, "2024", "June")
	require.NotNil(t, entry)
	assert.Equal(t, float64(50000), entry.Value)
	assert.Equal(t, models.FeeStatusPaid, entry.Status)

	previous := ResolveFeeEntry(student, "2023", "June")
	require.NotNil(t, previous)
	assert.Equal(t, float64(45000), previous.Value)
}

func TestResolveFeeEntryAbsent(t *testing.T) {
	student := sampleStudent()

	assert.Nil(t, ResolveFeeEntry(student, "2024", "August"))
	assert.Nil(t, ResolveFeeEntry(student, "2025", "June"))
	assert.Nil(t, ResolveFeeEntry(models.Student{Slug: "s002"}, "2024", "June"))
}

func TestResolveFeeEntryReturnsCopy(t *testing.T) {
	student := sampleStudent()

	entry := ResolveFeeEntry(student, "2024", "June")
	require.NotNil(t, entry)
	entry.Value = 99999

	again := ResolveFeeEntry(student, "2024", "June")
	require.NotNil(t, again)
	assert.Equal(t, float64(50000), again.Value)
}

func TestApplyFinanceUpdateReplacesWholesale(t *testing.T) {
	roster := []models.Student{
		sampleStudent(),
		{Slug: "s002", StudentID: "ID-002", EngName: "Min Thu"},
	}

	fresh := []models.FinanceYearRecord{
		{Year: "2024", Fee: []models.FeeEntry{
			{Month: "June", Value: 60000, Status: models.FeeStatusDiscount, PaidBy: models.PaymentMethodCash, Date: "2024-06-10"},
		}},
	}

	updated := ApplyFinanceUpdate(roster, "s001", fresh)

	require.Len(t, updated, 2)
	assert.Equal(t, fresh, updated[0].FinanceProperties)
	assert.Equal(t, roster[1], updated[1])
	// The original snapshot is not mutated in place.
	assert.Len(t, roster[0].FinanceProperties, 2)
}

func TestApplyFinanceUpdateUnknownSlugLeavesRosterUnchanged(t *testing.T) {
	roster := []models.Student{sampleStudent()}
	updated := ApplyFinanceUpdate(roster, "nope", nil)
	assert.Equal(t, roster, updated)
}

func TestRemoveFeeEntryTargetedDelete(t *testing.T) {
	roster := []models.Student{
		sampleStudent(),
		{Slug: "s002", EngName: "Min Thu"},
	}

	updated := RemoveFeeEntry(roster, "s001", "2024", "June")

	require.Len(t, updated, 2)
	records := updated[0].FinanceProperties
	require.Len(t, records, 2)

	require.Len(t, records[0].Fee, 1)
	assert.Equal(t, "July", records[0].Fee[0].Month)
	assert.Equal(t, roster[0].FinanceProperties[0].Fee[1], records[0].Fee[0])

	// Other years stay byte-for-byte identical.
	assert.Equal(t, roster[0].FinanceProperties[1], records[1])
	assert.Equal(t, roster[1], updated[1])
}

func TestRemoveFeeEntryAbsentMonthIsNoop(t *testing.T) {
	roster := []models.Student{sampleStudent()}
	updated := RemoveFeeEntry(roster, "s001", "2024", "August")
	require.Len(t, updated[0].FinanceProperties[0].Fee, 2)
}

func TestFilterRoster(t *testing.T) {
	roster := []models.Student{
		{Slug: "a", EngName: "Kaung Myat", StudentID: "ID-001"},
		{Slug: "b", EngName: "Min Thu", StudentID: "ID-KA3"},
		{Slug: "c", EngName: "Su Su", StudentID: "ID-003"},
		{Slug: "d", EngName: "Nanda Kyaw", StudentID: "ID-004"},
		{Slug: "e", EngName: "Hla Hla", StudentID: "ID-005"},
	}

	matched := FilterRoster(roster, "ka")
	require.Len(t, matched, 2)
	assert.Equal(t, "a", matched[0].Slug) // name contains "Ka"
	assert.Equal(t, "b", matched[1].Slug) // ID contains "KA"

	assert.Len(t, FilterRoster(roster, "KA"), 2)
	assert.Empty(t, FilterRoster(roster, "zzz"))
}

func TestFilterRosterEmptyQueryReturnsAll(t *testing.T) {
	roster := []models.Student{{Slug: "a"}, {Slug: "b"}}
	assert.Equal(t, roster, FilterRoster(roster, ""))
}

func TestFilterRosterIdempotent(t *testing.T) {
	roster := []models.Student{
		{Slug: "a", EngName: "Kaung", StudentID: "ID-001"},
		{Slug: "b", EngName: "Min", StudentID: "ID-002"},
	}
	once := FilterRoster(roster, "kaung")
	twice := FilterRoster(once, "kaung")
	assert.Equal(t, once, twice)
}

func TestSortGradesCurriculumOrder(t *testing.T) {
	grades := []models.Grade{
		{Slug: "g10", Name: "Grade 10"},
		{Slug: "nur", Name: "Nursery"},
		{Slug: "il2", Name: "Inter - L2"},
		{Slug: "g2", Name: "Grade 2"},
		{Slug: "kg", Name: "KG"},
	}

	sorted := SortGrades(grades)
	names := make([]string, len(sorted))
	for i, g := range sorted {
		names[i] = g.Name
	}
	assert.Equal(t, []string{"Nursery", "KG", "Grade 2", "Grade 10", "Inter - L2"}, names)
}

func TestSortGradesDeterministicAcrossPermutations(t *testing.T) {
	perms := [][]models.Grade{
		{{Name: "Grade 3"}, {Name: "KG"}, {Name: "Inter - L1"}},
		{{Name: "Inter - L1"}, {Name: "Grade 3"}, {Name: "KG"}},
		{{Name: "KG"}, {Name: "Inter - L1"}, {Name: "Grade 3"}},
	}

	want := []string{"KG", "Grade 3", "Inter - L1"}
	for _, perm := range perms {
		sorted := SortGrades(perm)
		names := make([]string, len(sorted))
		for i, g := range sorted {
			names[i] = g.Name
		}
		assert.Equal(t, want, names)
	}
}

func TestSortGradesUnknownNameSortsFirst(t *testing.T) {
	grades := []models.Grade{
		{Name: "Nursery"},
		{Name: "Playgroup"},
		{Name: "Grade 1"},
	}

	sorted := SortGrades(grades)
	// Names outside the curriculum sequence take position -1 and land ahead
	// of Nursery; the legacy page behaved the same way.
	assert.Equal(t, "Playgroup", sorted[0].Name)
	assert.Equal(t, "Nursery", sorted[1].Name)
	assert.Equal(t, "Grade 1", sorted[2].Name)
}

func TestSortGradesDoesNotMutateInput(t *testing.T) {
	grades := []models.Grade{{Name: "Grade 5"}, {Name: "Nursery"}}
	_ = SortGrades(grades)
	assert.Equal(t, "Grade 5", grades[0].Name)
}
