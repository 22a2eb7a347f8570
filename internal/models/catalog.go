package models

// AcademicYear identifies one school year in the upstream catalog.
type AcademicYear struct {
	ID   string `json:"_id"`
	Slug string `json:"slug"`
	Name string `json:"name"`
}

// Grade identifies one grade level in the upstream catalog.
type Grade struct {
	ID   string `json:"_id"`
	Slug string `json:"slug"`
	Name string `json:"name"`
}

// FeeCatalogEntry is a selectable standard fee amount.
type FeeCatalogEntry struct {
	Amount float64 `json:"amount"`
}

// GradeRoster groups the students enrolled in one grade for an academic year.
type GradeRoster struct {
	Grade    string    `json:"grade"`
	Students []Student `json:"students"`
}

// AcademicRecord is the upstream snapshot of one academic year, including
// the per-grade student rosters.
type AcademicRecord struct {
	ID                string        `json:"_id"`
	Slug              string        `json:"slug"`
	Name              string        `json:"name"`
	StudentProperties []GradeRoster `json:"studentProperties"`
}
