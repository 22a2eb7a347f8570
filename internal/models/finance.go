package models

// FeeStatus is the payment status recorded on a fee entry.
type FeeStatus string

const (
	FeeStatusFree     FeeStatus = "Free"
	FeeStatusDiscount FeeStatus = "Discount"
	FeeStatusPaid     FeeStatus = "Paid"
	FeeStatusUnpaid   FeeStatus = "Unpaid"
)

// PaymentMethod is the channel a fee was paid through.
type PaymentMethod string

const (
	PaymentMethodCash PaymentMethod = "Cash"
	PaymentMethodKPay PaymentMethod = "KPay"
)

// Months lists the twelve column keys of the fee grid, in display order.
var Months = []string{
	"January", "February", "March", "April", "May", "June",
	"July", "August", "September", "October", "November", "December",
}

// IsMonth reports whether name is a recognised grid month.
func IsMonth(name string) bool {
	for _, m := range Months {
		if m == name {
			return true
		}
	}
	return false
}

// FeeEntry is one month's fee record for one student in one academic year.
// The upstream store guarantees at most one entry per (year, month).
type FeeEntry struct {
	Month  string        `json:"month"`
	Value  float64       `json:"value"`
	Remain float64       `json:"remain"`
	Date   string        `json:"date"`
	Status FeeStatus     `json:"status"`
	PaidBy PaymentMethod `json:"paidBy"`
}

// FinanceYearRecord holds a student's fee entries for a single academic year.
type FinanceYearRecord struct {
	Year string     `json:"year"`
	Fee  []FeeEntry `json:"fee"`
}

// Student is the locally cached copy of an upstream student record.
// The upstream store owns the record; the gateway only holds roster snapshots.
type Student struct {
	Slug              string              `json:"slug"`
	StudentID         string              `json:"studentId"`
	EngName           string              `json:"engName"`
	ContactOne        string              `json:"contactOne"`
	ContactTwo        string              `json:"contactTwo"`
	Grade             *Grade              `json:"grade,omitempty"`
	FinanceProperties []FinanceYearRecord `json:"financeProperties"`
}
