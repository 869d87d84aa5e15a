package ai

import (
	"strings"

	"stipendi/internal/core"
)

// draftFromModelOutput maps the model's loosely typed JSON onto a draft.
// Every field is optional and a field of the wrong type is skipped, never
// fatal.
func draftFromModelOutput(m map[string]interface{}) core.Draft {
	var d core.Draft

	d.Amount = floatField(m, "amount")
	d.GrossAmount = floatField(m, "grossAmount")
	d.Tax = floatField(m, "tax")
	d.Deductions = floatField(m, "deductions")
	d.WorkedHours = floatField(m, "workedHours")
	d.YTDGross = floatField(m, "ytdGross")
	d.YTDNet = floatField(m, "ytdNet")

	d.Date = stringField(m, "date")
	d.Source = stringField(m, "source")
	d.Currency = stringField(m, "currency")
	d.JobTitle = stringField(m, "jobTitle")
	d.Department = stringField(m, "department")
	d.TaxCode = stringField(m, "taxCode")
	d.Notes = stringField(m, "notes")

	if items, ok := m["lineItems"].([]interface{}); ok {
		for _, raw := range items {
			obj, ok := raw.(map[string]interface{})
			if !ok {
				continue
			}
			item := core.LineItem{
				Name:   derefString(stringField(obj, "name")),
				Amount: derefFloat(floatField(obj, "amount")),
				YTD:    derefFloat(floatField(obj, "ytd")),
				Type:   lineItemType(stringField(obj, "type")),
			}
			if item.Name == "" && item.Amount == 0 {
				continue
			}
			d.LineItems = append(d.LineItems, item)
		}
	}

	if banks, ok := m["disbursements"].([]interface{}); ok {
		for _, raw := range banks {
			obj, ok := raw.(map[string]interface{})
			if !ok {
				continue
			}
			disb := core.Disbursement{
				BankCode:  derefString(stringField(obj, "bankCode")),
				BankName:  derefString(stringField(obj, "bankName")),
				AccountNo: derefString(stringField(obj, "accountNo")),
				Amount:    derefFloat(floatField(obj, "amount")),
			}
			if disb.BankCode == "" && disb.BankName == "" && disb.Amount == 0 {
				continue
			}
			d.Disbursements = append(d.Disbursements, disb)
		}
	}

	return d
}

func stringField(m map[string]interface{}, key string) *string {
	v, ok := m[key]
	if !ok {
		return nil
	}
	s, ok := v.(string)
	if !ok {
		return nil
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

func floatField(m map[string]interface{}, key string) *float64 {
	v, ok := m[key]
	if !ok {
		return nil
	}
	f, ok := v.(float64)
	if !ok {
		return nil
	}
	return &f
}

func lineItemType(s *string) core.LineItemType {
	if s == nil {
		return core.Earning
	}
	switch core.LineItemType(strings.ToLower(*s)) {
	case core.Deduction:
		return core.Deduction
	case core.Benefit:
		return core.Benefit
	default:
		return core.Earning
	}
}

func derefString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func derefFloat(f *float64) float64 {
	if f == nil {
		return 0
	}
	return *f
}
