package invoice

import (
	"oflo/internal/core/id"
	"oflo/internal/domain/catalogs/company"
	"oflo/internal/domain/catalogs/customer"
)

// Snapshots are value copies: nothing in a stored Version may alias the
// caller's Company, Customer or item slice.

// CloneCompany copies the seller profile.
func CloneCompany(c *company.Company) company.Company {
	if c == nil {
		return company.Company{}
	}
	return c.Clone()
}

// CloneCustomer copies the buyer profile.
func CloneCustomer(c *customer.Customer) customer.Customer {
	if c == nil {
		return customer.Customer{}
	}
	return c.Clone()
}

// CloneItems copies lines, including pointer fields.
func CloneItems(items []Item) []Item {
	if items == nil {
		return nil
	}
	out := make([]Item, len(items))
	for i, it := range items {
		out[i] = it
		if it.ProducerID != nil {
			pid := *it.ProducerID
			out[i].ProducerID = &pid
		}
	}
	return out
}

// CloneSummary copies the consolidated row.
func CloneSummary(s *SummaryItem) *SummaryItem {
	if s == nil {
		return nil
	}
	cp := *s
	return &cp
}

// Clone returns a deep copy of the version.
func (v *Version) Clone() *Version {
	cp := *v
	cp.Items = CloneItems(v.Items)
	cp.SummaryItem = CloneSummary(v.SummaryItem)
	return &cp
}

// Clone returns a deep copy of the invoice record.
func (inv *Invoice) Clone() *Invoice {
	cp := *inv
	if inv.CurrentVersionID != nil {
		vid := *inv.CurrentVersionID
		cp.CurrentVersionID = &vid
	}
	return &cp
}

func idPtr(v id.ID) *id.ID {
	return &v
}
