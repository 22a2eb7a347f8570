package service

import (
	"sort"
	"strings"

	"github.com/gcec-dev/feedesk-api/internal/models"
)

// gradeOrder is the fixed curriculum sequence the grade dropdown follows.
var gradeOrder = []string{
	"Nursery",
	"KG",
	"Grade 1",
	"Grade 2",
	"Grade 3",
	"Grade 4",
	"Grade 5",
	"Grade 6",
	"Grade 7",
	"Grade 8",
	"Grade 9",
	"Grade 10",
	"Grade 11",
	"Grade 12",
	"Inter - L1",
	"Inter - L2",
	"Inter - L3",
	"Inter - L4",
	"Inter - L5",
	"Inter - L6",
}

func gradePosition(name string) int {
	for i, n := range gradeOrder {
		if n == name {
			return i
		}
	}
	return -1
}

// SortGrades orders grades by curriculum position, independent of input
// order. A name missing from the sequence takes position -1 and therefore
// sorts ahead of Nursery; the legacy fee page ordered unknown grades the same
// way, so this stays as the documented rule. The sort is stable, so several
// unknown names keep their relative input order.
func SortGrades(grades []models.Grade) []models.Grade {
	sorted := make([]models.Grade, len(grades))
	copy(sorted, grades)
	sort.SliceStable(sorted, func(i, j int) bool {
		return gradePosition(sorted[i].Name) < gradePosition(sorted[j].Name)
	})
	return sorted
}

// ResolveFeeEntry returns a copy of the student's fee entry for the given
// year and month, or nil when the cell is empty. Pure lookup, no side effects.
func ResolveFeeEntry(student models.Student, year, month string) *models.FeeEntry {
	for _, record := range student.FinanceProperties {
		if record.Year != year {
			continue
		}
		for _, fee := range record.Fee {
			if fee.Month == month {
				entry := fee
				return &entry
			}
		}
	}
	return nil
}

// ApplyFinanceUpdate replaces the targeted student's financeProperties
// wholesale with the upstream response, making the server's snapshot the
// local truth for that student. Every other roster row keeps its original
// struct values untouched.
func ApplyFinanceUpdate(roster []models.Student, slug string, finance []models.FinanceYearRecord) []models.Student {
	updated := make([]models.Student, len(roster))
	for i, student := range roster {
		if student.Slug == slug {
			student.FinanceProperties = finance
		}
		updated[i] = student
	}
	return updated
}

// RemoveFeeEntry filters out exactly the fee entry for (year, month) on the
// targeted student, leaving entries for other months and other years intact.
func RemoveFeeEntry(roster []models.Student, slug, year, month string) []models.Student {
	updated := make([]models.Student, len(roster))
	for i, student := range roster {
		if student.Slug == slug {
			records := make([]models.FinanceYearRecord, len(student.FinanceProperties))
			for j, record := range student.FinanceProperties {
				if record.Year == year {
					kept := make([]models.FeeEntry, 0, len(record.Fee))
					for _, fee := range record.Fee {
						if fee.Month != month {
							kept = append(kept, fee)
						}
					}
					record.Fee = kept
				}
				records[j] = record
			}
			student.FinanceProperties = records
		}
		updated[i] = student
	}
	return updated
}

// FilterRoster narrows the roster to students whose English name or student
// ID contains the query, case-insensitively. It always works from the full
// roster, so clearing the query restores every row.
func FilterRoster(roster []models.Student, query string) []models.Student {
	if query == "" {
		return roster
	}
	q := strings.ToLower(query)
	filtered := make([]models.Student, 0, len(roster))
	for _, student := range roster {
		if strings.Contains(strings.ToLower(student.EngName), q) ||
			strings.Contains(strings.ToLower(student.StudentID), q) {
			filtered = append(filtered, student)
		}
	}
	return filtered
}
