package domain

import (
	"strings"
	"time"
)

// LoanPeriodDays is how long a book may be kept, in calendar days. The console
// only sends and displays the resulting due date; the backend owns the
// authoritative one.
const LoanPeriodDays = 14

// LoanStatus is the backend-supplied state of a loan.
type LoanStatus string

const (
	LoanActive   LoanStatus = "active"
	LoanReturned LoanStatus = "returned"
	LoanOverdue  LoanStatus = "overdue"
)

// Label capitalises the status for display ("active" -> "Active").
func (s LoanStatus) Label() string {
	if s == "" {
		return ""
	}
	return strings.ToUpper(string(s[:1])) + string(s[1:])
}

// Badge returns the css class used to colour the status cell.
func (s LoanStatus) Badge() string {
	switch s {
	case LoanActive:
		return "badge badge-active"
	case LoanReturned:
		return "badge badge-returned"
	case LoanOverdue:
		return "badge badge-overdue"
	default:
		return "badge"
	}
}

// Loan records a user borrowing a book. ReturnDate is nil while the book is out.
// User and Book are embedded by the backend when it joins them in.
type Loan struct {
	ID         string     `json:"loan_id"`
	UserID     string     `json:"user_id"`
	BookID     string     `json:"book_id"`
	LoanDate   string     `json:"loan_date"`
	ReturnDate *string    `json:"return_date"`
	Status     LoanStatus `json:"status"`
	User       *User      `json:"user,omitempty"`
	Book       *Book      `json:"book,omitempty"`
}

// Returnable reports whether the console offers the return action.
func (l Loan) Returnable() bool {
	return l.Status == LoanActive
}

// BookTitle is the embedded book's title, or "Unknown Book".
func (l Loan) BookTitle() string {
	if l.Book != nil && l.Book.Title != "" {
		return l.Book.Title
	}
	return "Unknown Book"
}

// UserName is the embedded user's name, then email, then "Unknown User".
func (l Loan) UserName() string {
	if l.User != nil {
		if l.User.Name != "" {
			return l.User.Name
		}
		if l.User.Email != "" {
			return l.User.Email
		}
	}
	return "Unknown User"
}

// CountStatus returns how many loans carry status s.
func CountStatus(loans []Loan, s LoanStatus) int {
	n := 0
	for _, l := range loans {
		if l.Status == s {
			n++
		}
	}
	return n
}

// LoanInput is the create payload for POST /loans.
type LoanInput struct {
	UserID   string `json:"user_id"`
	BookID   string `json:"book_id"`
	LoanDate string `json:"loan_date"`
	DueDate  string `json:"due_date"`
}

// Validate requires both a user and a book.
func (in LoanInput) Validate() error {
	return required(
		field{"user_id", in.UserID},
		field{"book_id", in.BookID},
	)
}

// DueDate returns the date a loan made on loanDate falls due.
// The period is counted in calendar days.
func DueDate(loanDate time.Time) time.Time {
	return loanDate.AddDate(0, 0, LoanPeriodDays)
}

// NewLoanInput builds the create payload for a loan starting at now.
func NewLoanInput(userID, bookID string, now time.Time) LoanInput {
	now = now.UTC()
	return LoanInput{
		UserID:   userID,
		BookID:   bookID,
		LoanDate: FormatDate(now),
		DueDate:  FormatDate(DueDate(now)),
	}
}
