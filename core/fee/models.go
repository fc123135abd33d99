package fee

import (
	"context"
	"time"

	"github.com/pkg/errors"
)

type Category string

const (
	CategoryTuition   Category = "tuition"
	CategoryHostel    Category = "hostel"
	CategoryTransport Category = "transport"
	CategorySports    Category = "sports"
	CategoryCollege   Category = "college"
	CategoryDues      Category = "dues"
	CategoryOther     Category = "other"
)

// ParseCategory maps unknown values to CategoryOther.
func ParseCategory(s string) Category {
	switch c := Category(s); c {
	case CategoryTuition, CategoryHostel, CategoryTransport, CategorySports, CategoryCollege, CategoryDues:
		return c
	}
	return CategoryOther
}

type Status string

const (
	StatusPaid          Status = "Paid"
	StatusPending       Status = "Pending"
	StatusPartiallyPaid Status = "Partially Paid"
)

// StatusFor derives the status from the amounts. A fee with nothing due is Paid.
func StatusFor(due, paid int64) Status {
	switch {
	case paid >= due:
		return StatusPaid
	case paid <= 0:
		return StatusPending
	default:
		return StatusPartiallyPaid
	}
}

// Outstanding is max(due - paid, 0).
func Outstanding(due, paid int64) int64 {
	if paid >= due {
		return 0
	}
	return due - paid
}

var ErrNotFound = errors.New("fee not found")

type (
	// Record is a fee line. Amounts are whole rupees; Status is always derived.
	Record struct {
		ID         string    `json:"id"`
		Category   Category  `json:"category"`
		Label      string    `json:"label"`
		Cycle      string    `json:"cycle"`
		AmountDue  int64     `json:"amountDue"`
		AmountPaid int64     `json:"amountPaid"`
		DueDate    time.Time `json:"dueDate"`
	}

	Repository interface {
		// ListFees returns the fee lines of a student, keyed by roll number.
		ListFees(ctx context.Context, studentKey string) ([]Record, error)
		GetFee(ctx context.Context, studentKey, id string) (Record, error)
	}
)

func (r Record) Outstanding() int64 {
	return Outstanding(r.AmountDue, r.AmountPaid)
}

func (r Record) Status() Status {
	return StatusFor(r.AmountDue, r.AmountPaid)
}

// View is the JSON shape served to the portal.
type View struct {
	Record
	Outstanding int64  `json:"outstanding"`
	Status      Status `json:"status"`
}

func (r Record) View() View {
	return View{Record: r, Outstanding: r.Outstanding(), Status: r.Status()}
}
