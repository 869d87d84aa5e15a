package core

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	Income  EntryType = "income"
	Expense EntryType = "expense"
)

const (
	Earning   LineItemType = "earning"
	Deduction LineItemType = "deduction"
	Benefit   LineItemType = "benefit"
)

// DateLayout is the wire format for entry dates.
const DateLayout = "2006-01-02"

type (
	EntryType    string
	LineItemType string

	// LineItem is one named component of an entry's gross breakdown.
	LineItem struct {
		Name   string       `json:"name"`
		Amount float64      `json:"amount"`
		YTD    float64      `json:"ytd,omitempty"`
		Type   LineItemType `json:"type"`
	}

	// Disbursement records how a piece of net pay was routed to a bank
	// destination. Disbursements need not sum to the entry amount.
	Disbursement struct {
		BankCode  string  `json:"bankCode"`
		BankName  string  `json:"bankName"`
		AccountNo string  `json:"accountNo"`
		Amount    float64 `json:"amount"`
	}

	// Entry is one recorded pay/expense transaction. Entries are created
	// wholesale and are immutable once stored; the only mutation the store
	// supports is deletion by id.
	Entry struct {
		ID       string    `json:"id"`
		Type     EntryType `json:"type"`
		Category string    `json:"category,omitempty"`
		Date     string    `json:"date"`

		Amount      float64 `json:"amount"`
		GrossAmount float64 `json:"grossAmount,omitempty"`
		Tax         float64 `json:"tax,omitempty"`
		Deductions  float64 `json:"deductions,omitempty"`
		Currency    string  `json:"currency,omitempty"`

		Source      string  `json:"source"`
		JobTitle    string  `json:"jobTitle,omitempty"`
		Department  string  `json:"department,omitempty"`
		WorkedHours float64 `json:"workedHours,omitempty"`
		TaxCode     string  `json:"taxCode,omitempty"`
		YTDGross    float64 `json:"ytdGross,omitempty"`
		YTDNet      float64 `json:"ytdNet,omitempty"`
		Notes       string  `json:"notes,omitempty"`

		LineItems     []LineItem     `json:"lineItems,omitempty"`
		Disbursements []Disbursement `json:"disbursements,omitempty"`
	}
)

var (
	ErrMissingAmount = errors.New("missing amount")
	ErrMissingSource = errors.New("missing source")
	ErrMissingDate   = errors.New("missing or invalid date")
	ErrInvalidType   = errors.New("invalid entry type")
)

// NewID generates an opaque unique entry id.
func NewID() string {
	return uuid.NewString()
}

// Validate checks the fields required at creation time. Everything else is
// optional descriptive data; inconsistencies between amount, grossAmount and
// their components are tolerated, not rejected.
func (e Entry) Validate() error {
	if e.Amount <= 0 || e.Amount != e.Amount {
		return ErrMissingAmount
	}
	if strings.TrimSpace(e.Source) == "" {
		return ErrMissingSource
	}
	if _, err := time.Parse(DateLayout, e.Date); err != nil {
		return ErrMissingDate
	}
	switch e.Type {
	case Income, Expense, "":
	default:
		return ErrInvalidType
	}
	return nil
}

// Day returns the entry date as a time.Time. Entries with an unparseable
// date never reach storage, so the zero time only shows up for raw drafts.
func (e Entry) Day() time.Time {
	t, _ := time.Parse(DateLayout, e.Date)
	return t
}

// Year returns the calendar year of the entry date.
func (e Entry) Year() int {
	return e.Day().Year()
}
