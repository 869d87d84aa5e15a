package core

// Draft is the staging form of an entry: the fields a document extraction or
// a partially filled form may provide, all individually optional. A Draft is
// overlaid on user-editable defaults and only becomes an Entry through
// Entry(), which assigns the id; drafts are never written to storage
// directly.
type Draft struct {
	Type     *EntryType `json:"type,omitempty"`
	Category *string    `json:"category,omitempty"`
	Date     *string    `json:"date,omitempty"`

	Amount      *float64 `json:"amount,omitempty"`
	GrossAmount *float64 `json:"grossAmount,omitempty"`
	Tax         *float64 `json:"tax,omitempty"`
	Deductions  *float64 `json:"deductions,omitempty"`
	Currency    *string  `json:"currency,omitempty"`

	Source      *string  `json:"source,omitempty"`
	JobTitle    *string  `json:"jobTitle,omitempty"`
	Department  *string  `json:"department,omitempty"`
	WorkedHours *float64 `json:"workedHours,omitempty"`
	TaxCode     *string  `json:"taxCode,omitempty"`
	YTDGross    *float64 `json:"ytdGross,omitempty"`
	YTDNet      *float64 `json:"ytdNet,omitempty"`
	Notes       *string  `json:"notes,omitempty"`

	LineItems     []LineItem     `json:"lineItems,omitempty"`
	Disbursements []Disbursement `json:"disbursements,omitempty"`
}

// IsEmpty reports whether the draft carries no extracted fields at all.
// A failed extraction yields an empty draft, which callers treat as a
// normal outcome.
func (d Draft) IsEmpty() bool {
	return d.Type == nil && d.Category == nil && d.Date == nil &&
		d.Amount == nil && d.GrossAmount == nil && d.Tax == nil &&
		d.Deductions == nil && d.Currency == nil && d.Source == nil &&
		d.JobTitle == nil && d.Department == nil && d.WorkedHours == nil &&
		d.TaxCode == nil && d.YTDGross == nil && d.YTDNet == nil &&
		d.Notes == nil && len(d.LineItems) == 0 && len(d.Disbursements) == 0
}

// Merge overlays the draft's present fields on base and returns the result.
// Absent fields leave base untouched; numeric fields are sanitized so that
// NaN from an empty form field becomes 0 rather than poisoning aggregates.
func (d Draft) Merge(base Entry) Entry {
	if d.Type != nil {
		base.Type = *d.Type
	}
	if d.Category != nil {
		base.Category = *d.Category
	}
	if d.Date != nil {
		base.Date = *d.Date
	}
	if d.Amount != nil {
		base.Amount = Sanitize(*d.Amount)
	}
	if d.GrossAmount != nil {
		base.GrossAmount = Sanitize(*d.GrossAmount)
	}
	if d.Tax != nil {
		base.Tax = Sanitize(*d.Tax)
	}
	if d.Deductions != nil {
		base.Deductions = Sanitize(*d.Deductions)
	}
	if d.Currency != nil {
		base.Currency = *d.Currency
	}
	if d.Source != nil {
		base.Source = *d.Source
	}
	if d.JobTitle != nil {
		base.JobTitle = *d.JobTitle
	}
	if d.Department != nil {
		base.Department = *d.Department
	}
	if d.WorkedHours != nil {
		base.WorkedHours = Sanitize(*d.WorkedHours)
	}
	if d.TaxCode != nil {
		base.TaxCode = *d.TaxCode
	}
	if d.YTDGross != nil {
		base.YTDGross = Sanitize(*d.YTDGross)
	}
	if d.YTDNet != nil {
		base.YTDNet = Sanitize(*d.YTDNet)
	}
	if d.Notes != nil {
		base.Notes = *d.Notes
	}
	if len(d.LineItems) > 0 {
		base.LineItems = append([]LineItem(nil), d.LineItems...)
	}
	if len(d.Disbursements) > 0 {
		base.Disbursements = append([]Disbursement(nil), d.Disbursements...)
	}
	return base
}

// Entry finalizes the draft into a committed entry with a fresh id.
// The caller is expected to Validate the result before persisting it.
func (d Draft) Entry() Entry {
	e := d.Merge(Entry{Type: Income})
	e.ID = NewID()
	return e
}
