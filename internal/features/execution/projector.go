package execution

import (
	"strings"
	"time"

	"crm-analytics/internal/crm"
)

// columnTable maps a column label to the accessor producing its cell value.
type columnTable[T any] map[string]func(T) any

// project builds one row per record with cells in labels order. Labels the
// table does not know project to nil.
func (t columnTable[T]) project(records []T, labels []string) []Row {
	rows := make([]Row, 0, len(records))
	for _, rec := range records {
		rows = append(rows, t.row(rec, labels))
	}
	return rows
}

func (t columnTable[T]) row(rec T, labels []string) Row {
	row := newRow(len(labels))
	for _, label := range labels {
		var value any
		if get, ok := t[label]; ok {
			value = get(rec)
		}
		row.Set(label, value)
	}
	return row
}

// Labels lists the columns a module supports.
func Labels(m crm.Module) []string {
	switch m {
	case crm.ModuleLead:
		return leadLabels
	case crm.ModuleAccount:
		return accountLabels
	case crm.ModuleContact:
		return contactLabels
	case crm.ModuleOpportunity:
		return opportunityLabels
	case crm.ModuleSalesQuotes:
		return salesQuoteLabels
	case crm.ModuleSalesOrder:
		return salesOrderLabels
	}
	return nil
}

func text(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func fullName(first, last string) any {
	return strings.TrimSpace(first + " " + last)
}

func number(f *float64) any {
	if f == nil {
		return nil
	}
	return *f
}

func integer(i *int) any {
	if i == nil {
		return nil
	}
	return *i
}

func timestamp(t *time.Time) any {
	if t == nil {
		return nil
	}
	return *t
}

var leadLabels = []string{
	"Lead ID", "First Name", "Last Name", "Lead Name", "Email", "Phone", "Title",
	"Company/Account", "Lead Source", "Status", "Stage", "Interest Level", "Budget",
	"Potential Revenue", "City", "State", "Country", "Created By", "Created Date",
	"Last Interaction",
}

var leadColumns = columnTable[crm.Lead]{
	"Lead ID":           func(l crm.Lead) any { return text(l.LeadID) },
	"First Name":        func(l crm.Lead) any { return text(l.FirstName) },
	"Last Name":         func(l crm.Lead) any { return text(l.LastName) },
	"Lead Name":         func(l crm.Lead) any { return fullName(l.FirstName, l.LastName) },
	"Email":             func(l crm.Lead) any { return text(l.Email) },
	"Phone":             func(l crm.Lead) any { return text(l.PhoneNumber) },
	"Title":             func(l crm.Lead) any { return text(l.Title) },
	"Company/Account":   func(l crm.Lead) any { return text(l.Company) },
	"Lead Source":       func(l crm.Lead) any { return text(l.LeadSource) },
	"Status":            func(l crm.Lead) any { return text(l.LeadStatus) },
	"Stage":             func(l crm.Lead) any { return text(l.InterestLevel) },
	"Interest Level":    func(l crm.Lead) any { return text(l.InterestLevel) },
	"Budget":            func(l crm.Lead) any { return number(l.Budget) },
	"Potential Revenue": func(l crm.Lead) any { return number(l.PotentialRevenue) },
	"City":              func(l crm.Lead) any { return text(l.City) },
	"State":             func(l crm.Lead) any { return text(l.State) },
	"Country":           func(l crm.Lead) any { return text(l.Country) },
	"Created By":        func(l crm.Lead) any { return text(l.LeadOwner) },
	"Created Date":      func(l crm.Lead) any { return timestamp(l.CreatedAt) },
	"Last Interaction":  func(l crm.Lead) any { return timestamp(l.LastInteractionDate) },
}

var accountLabels = []string{
	"Account ID", "Account Name", "Account Owner", "Account Type", "Industry", "Website",
	"Note", "Parent Account",
	"Billing Country", "Billing State", "Billing City", "Billing ZIP Code",
	"Billing Address Line 1", "Billing Address Line 2",
	"Shipping Country", "Shipping State", "Shipping City", "Shipping ZIP Code",
	"Shipping Address Line 1", "Shipping Address Line 2",
	"Created Date", "Last Modified Date",
}

var accountColumns = columnTable[crm.Account]{
	"Account ID":     func(a crm.Account) any { return text(a.AccountID) },
	"Account Name":   func(a crm.Account) any { return text(a.Name) },
	"Account Owner":  func(a crm.Account) any { return text(a.OwnerID) },
	"Account Type":   func(a crm.Account) any { return text(a.Type) },
	"Industry":       func(a crm.Account) any { return text(a.Industry) },
	"Website":        func(a crm.Account) any { return text(a.Website) },
	"Note":           func(a crm.Account) any { return text(a.Note) },
	"Parent Account": func(a crm.Account) any { return text(a.ParentAccountID) },

	"Billing Country":        func(a crm.Account) any { return text(a.Billing.Country) },
	"Billing State":          func(a crm.Account) any { return text(a.Billing.State) },
	"Billing City":           func(a crm.Account) any { return text(a.Billing.City) },
	"Billing ZIP Code":       func(a crm.Account) any { return text(a.Billing.ZipCode) },
	"Billing Address Line 1": func(a crm.Account) any { return text(a.Billing.AddressLine1) },
	"Billing Address Line 2": func(a crm.Account) any { return text(a.Billing.AddressLine2) },

	"Shipping Country":        func(a crm.Account) any { return text(a.Shipping.Country) },
	"Shipping State":          func(a crm.Account) any { return text(a.Shipping.State) },
	"Shipping City":           func(a crm.Account) any { return text(a.Shipping.City) },
	"Shipping ZIP Code":       func(a crm.Account) any { return text(a.Shipping.ZipCode) },
	"Shipping Address Line 1": func(a crm.Account) any { return text(a.Shipping.AddressLine1) },
	"Shipping Address Line 2": func(a crm.Account) any { return text(a.Shipping.AddressLine2) },

	"Created Date":       func(a crm.Account) any { return timestamp(a.CreatedAt) },
	"Last Modified Date": func(a crm.Account) any { return timestamp(a.UpdatedAt) },
}

var contactLabels = []string{
	"Contact Name", "Contact ID", "First Name", "Last Name", "Email", "Phone",
	"Account Name", "Account Type", "Department", "Role", "Website", "Address Line 1",
	"Country", "Created At",
}

func contactAccount(c crm.Contact, field func(*crm.AccountRef) string) any {
	if c.Account == nil {
		return nil
	}
	return text(field(c.Account))
}

var contactColumns = columnTable[crm.Contact]{
	"Contact Name": func(c crm.Contact) any { return fullName(c.FirstName, c.LastName) },
	"Contact ID":   func(c crm.Contact) any { return text(c.ContactID) },
	"First Name":   func(c crm.Contact) any { return text(c.FirstName) },
	"Last Name":    func(c crm.Contact) any { return text(c.LastName) },
	"Email":        func(c crm.Contact) any { return text(c.Email) },
	"Phone":        func(c crm.Contact) any { return text(c.Phone) },
	"Account Name": func(c crm.Contact) any {
		return contactAccount(c, func(a *crm.AccountRef) string { return a.Name })
	},
	"Account Type": func(c crm.Contact) any {
		return contactAccount(c, func(a *crm.AccountRef) string { return a.Type })
	},
	"Department": func(c crm.Contact) any { return text(c.Department) },
	"Role":       func(c crm.Contact) any { return text(c.Role) },
	"Website": func(c crm.Contact) any {
		return contactAccount(c, func(a *crm.AccountRef) string { return a.Website })
	},
	"Address Line 1": func(c crm.Contact) any { return text(c.Billing.AddressLine1) },
	"Country":        func(c crm.Contact) any { return text(c.Billing.Country) },
	"Created At":     func(c crm.Contact) any { return timestamp(c.CreatedAt) },
}

var opportunityLabels = []string{
	"Account Id", "Opportunities Name", "Opportunities Owner", "Account Type", "Status",
	"Probability", "Stage", "Amount", "Lead Sources", "Created At",
}

var opportunityColumns = columnTable[crm.Opportunity]{
	"Account Id":          func(o crm.Opportunity) any { return text(o.AccountID) },
	"Opportunities Name":  func(o crm.Opportunity) any { return text(o.Name) },
	"Opportunities Owner": func(o crm.Opportunity) any { return text(o.OwnerID) },
	"Account Type":        func(o crm.Opportunity) any { return text(o.Type) },
	"Status":              func(o crm.Opportunity) any { return text(o.Status) },
	"Probability":         func(o crm.Opportunity) any { return integer(o.Probability) },
	"Stage":               func(o crm.Opportunity) any { return text(o.Stage) },
	"Amount":              func(o crm.Opportunity) any { return number(o.Amount) },
	"Lead Sources":        func(o crm.Opportunity) any { return text(o.LeadSource) },
	"Created At":          func(o crm.Opportunity) any { return timestamp(o.CreatedAt) },
}

func opportunityName(ref *crm.OpportunityRef) any {
	if ref == nil {
		return nil
	}
	return text(ref.Name)
}

var salesQuoteLabels = []string{
	"Sales Quotes Name", "Sales Quotes ID", "Sales Quotes Owner", "Opportunities Name",
	"Created At", "Status", "Amount", "Success Rate", "Due Date",
}

var salesQuoteColumns = columnTable[crm.SalesQuote]{
	"Sales Quotes Name":  func(q crm.SalesQuote) any { return text(q.Subject) },
	"Sales Quotes ID":    func(q crm.SalesQuote) any { return text(q.QuoteID) },
	"Sales Quotes Owner": func(q crm.SalesQuote) any { return text(q.QuoteOwnerID) },
	"Opportunities Name": func(q crm.SalesQuote) any { return opportunityName(q.Opportunity) },
	"Created At":         func(q crm.SalesQuote) any { return timestamp(q.CreatedAt) },
	"Status":             func(q crm.SalesQuote) any { return text(q.Status) },
	"Amount":             func(q crm.SalesQuote) any { return number(q.Amount) },
	"Success Rate":       func(q crm.SalesQuote) any { return integer(q.SuccessRate) },
	"Due Date":           func(q crm.SalesQuote) any { return timestamp(q.DueDate) },
}

var salesOrderLabels = []string{
	"Sales Order Name", "Sales Order ID", "Sales Order Owner", "Opportunities Name",
	"Created At", "Status", "Amount", "Purchase Order", "Due Date", "Commission", "Budget",
}

var salesOrderColumns = columnTable[crm.SalesOrder]{
	"Sales Order Name":   func(o crm.SalesOrder) any { return text(o.Subject) },
	"Sales Order ID":     func(o crm.SalesOrder) any { return text(o.OrderID) },
	"Sales Order Owner":  func(o crm.SalesOrder) any { return text(o.OwnerID) },
	"Opportunities Name": func(o crm.SalesOrder) any { return opportunityName(o.Opportunity) },
	"Created At":         func(o crm.SalesOrder) any { return timestamp(o.CreatedAt) },
	"Status":             func(o crm.SalesOrder) any { return text(o.Status) },
	"Amount":             func(o crm.SalesOrder) any { return number(o.Amount) },
	"Purchase Order":     func(o crm.SalesOrder) any { return text(o.PurchaseOrder) },
	"Due Date":           func(o crm.SalesOrder) any { return timestamp(o.DueDate) },
	"Commission":         func(o crm.SalesOrder) any { return number(o.Commission) },
	"Budget":             func(o crm.SalesOrder) any { return number(o.Budget) },
}
