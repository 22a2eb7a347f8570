package dto

// OpenSessionRequest selects the academic year and grade for a fee grid.
type OpenSessionRequest struct {
	AcademicYear string `json:"academicYear" validate:"required"`
	Grade        string `json:"grade" validate:"required"`
}

// SelectCellRequest targets one student-by-month cell of the grid.
type SelectCellRequest struct {
	StudentSlug string `json:"studentSlug" validate:"required"`
	Month       string `json:"month" validate:"required"`
}

// SaveFeeRequest carries the staged entry values to persist.
type SaveFeeRequest struct {
	Value  float64 `json:"value" validate:"gte=0"`
	Remain float64 `json:"remain" validate:"gte=0"`
	Status string  `json:"status" validate:"required,oneof=Free Discount Paid Unpaid"`
	PaidBy string  `json:"paidBy" validate:"required,oneof=Cash KPay"`
	Date   string  `json:"date" validate:"omitempty,datetime=2006-01-02"`
}

// BufferView mirrors the staged edit buffer back to the UI.
type BufferView struct {
	Value  float64 `json:"value"`
	Remain float64 `json:"remain"`
	Status string  `json:"status"`
	PaidBy string  `json:"paidBy"`
	Date   string  `json:"date"`
}

// SessionSnapshot reflects the cell-selection machine state.
type SessionSnapshot struct {
	ID           string      `json:"id"`
	AcademicYear string      `json:"academicYear"`
	Grade        string      `json:"grade"`
	GradeName    string      `json:"gradeName,omitempty"`
	Phase        string      `json:"phase"`
	StudentSlug  string      `json:"studentSlug,omitempty"`
	Month        string      `json:"month,omitempty"`
	Buffer       *BufferView `json:"buffer,omitempty"`
	LastError    string      `json:"lastError,omitempty"`
	RosterSize   int         `json:"rosterSize"`
}

// CellView is the rendered content of one populated grid cell.
type CellView struct {
	Value  float64 `json:"value"`
	Remain float64 `json:"remain"`
	Status string  `json:"status"`
	PaidBy string  `json:"paidBy"`
	Date   string  `json:"date"`
}

// GridRow is one student row of the fee grid. Cells maps month name to the
// resolved entry; empty cells are absent from the map.
type GridRow struct {
	No          int                  `json:"no"`
	StudentSlug string               `json:"studentSlug"`
	StudentID   string               `json:"studentId"`
	EngName     string               `json:"engName"`
	ContactOne  string               `json:"contactOne"`
	ContactTwo  string               `json:"contactTwo"`
	Cells       map[string]*CellView `json:"cells"`
}

// GridView combines the session snapshot with the rendered grid rows.
type GridView struct {
	Session SessionSnapshot `json:"session"`
	Months  []string        `json:"months"`
	Rows    []GridRow       `json:"rows"`
}
