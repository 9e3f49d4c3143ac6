package execution

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"crm-analytics/internal/crm"
	"crm-analytics/internal/upstream"
)

// runner executes a definition for one module. It returns the fetch error
// untouched so the caller can apply the module's failure policy.
type runner interface {
	fetch(ctx context.Context) (int, error)
	rows(def Definition, userID string) []Row
}

// pipeline ties a module's fetcher to its filters and column table.
type pipeline[T any] struct {
	load    func(context.Context) ([]T, error)
	filter  filterSpec[T]
	columns columnTable[T]

	records []T
}

func (p *pipeline[T]) fetch(ctx context.Context) (int, error) {
	records, err := p.load(ctx)
	if err != nil {
		return 0, err
	}
	p.records = records
	return len(records), nil
}

func (p *pipeline[T]) rows(def Definition, userID string) []Row {
	filtered := p.filter.apply(p.records, def.Filters, userID)
	if len(def.Groups) > 0 {
		filtered = p.sortByGroups(filtered, def.Groups)
	}
	return p.columns.project(filtered, def.Columns)
}

// sortByGroups orders records by the projected values of the group labels.
// Ties keep upstream order.
func (p *pipeline[T]) sortByGroups(records []T, groups []string) []T {
	type keyed struct {
		rec T
		key Row
	}
	items := make([]keyed, len(records))
	for i, rec := range records {
		items[i] = keyed{rec: rec, key: p.columns.row(rec, groups)}
	}
	slices.SortStableFunc(items, func(a, b keyed) int {
		for _, g := range groups {
			av, _ := a.key.Get(g)
			bv, _ := b.key.Get(g)
			if c := compareValues(av, bv); c != 0 {
				return c
			}
		}
		return 0
	})
	out := make([]T, len(items))
	for i, it := range items {
		out[i] = it.rec
	}
	return out
}

// compareValues orders nil first, then numbers, times and text.
func compareValues(a, b any) int {
	if a == nil || b == nil {
		switch {
		case a == nil && b == nil:
			return 0
		case a == nil:
			return -1
		default:
			return 1
		}
	}
	switch av := a.(type) {
	case float64:
		if bv, ok := b.(float64); ok {
			return cmp.Compare(av, bv)
		}
	case int:
		if bv, ok := b.(int); ok {
			return cmp.Compare(av, bv)
		}
	case time.Time:
		if bv, ok := b.(time.Time); ok {
			return av.Compare(bv)
		}
	}
	return cmp.Compare(strings.ToLower(fmt.Sprint(a)), strings.ToLower(fmt.Sprint(b)))
}

// bind selects the pipeline for a module. The switch covers every crm.Module.
func bind(m crm.Module, src upstream.Source) (runner, error) {
	switch m {
	case crm.ModuleLead:
		return &pipeline[crm.Lead]{load: src.Leads, filter: leadFilter, columns: leadColumns}, nil
	case crm.ModuleAccount:
		return &pipeline[crm.Account]{load: src.Accounts, filter: accountFilter, columns: accountColumns}, nil
	case crm.ModuleContact:
		return &pipeline[crm.Contact]{load: src.Contacts, filter: contactFilter, columns: contactColumns}, nil
	case crm.ModuleOpportunity:
		return &pipeline[crm.Opportunity]{load: src.Opportunities, filter: opportunityFilter, columns: opportunityColumns}, nil
	case crm.ModuleSalesQuotes:
		return &pipeline[crm.SalesQuote]{load: src.SalesQuotes, filter: salesQuoteFilter, columns: salesQuoteColumns}, nil
	case crm.ModuleSalesOrder:
		return &pipeline[crm.SalesOrder]{load: src.SalesOrders, filter: salesOrderFilter, columns: salesOrderColumns}, nil
	}
	return nil, fmt.Errorf("unsupported module: %s", m)
}

var leadFilter = filterSpec[crm.Lead]{
	owner:   func(l crm.Lead) string { return l.LeadOwner },
	created: func(l crm.Lead) *time.Time { return l.CreatedAt },
	equals: map[string]func(crm.Lead) string{
		"leadStatus": func(l crm.Lead) string { return l.LeadStatus },
		"leadSource": func(l crm.Lead) string { return l.LeadSource },
	},
}

var accountFilter = filterSpec[crm.Account]{
	owner:   func(a crm.Account) string { return a.OwnerID },
	created: func(a crm.Account) *time.Time { return a.CreatedAt },
	equals: map[string]func(crm.Account) string{
		"type":     func(a crm.Account) string { return a.Type },
		"industry": func(a crm.Account) string { return a.Industry },
	},
}

// Contacts have no owner, so "show" never narrows them.
var contactFilter = filterSpec[crm.Contact]{
	created: func(c crm.Contact) *time.Time { return c.CreatedAt },
	equals: map[string]func(crm.Contact) string{
		"department": func(c crm.Contact) string { return c.Department },
		"role":       func(c crm.Contact) string { return c.Role },
	},
}

var opportunityFilter = filterSpec[crm.Opportunity]{
	owner:   func(o crm.Opportunity) string { return o.OwnerID },
	created: func(o crm.Opportunity) *time.Time { return o.CreatedAt },
	equals: map[string]func(crm.Opportunity) string{
		"stage":      func(o crm.Opportunity) string { return o.Stage },
		"status":     func(o crm.Opportunity) string { return o.Status },
		"leadSource": func(o crm.Opportunity) string { return o.LeadSource },
	},
}

var salesQuoteFilter = filterSpec[crm.SalesQuote]{
	owner:   func(q crm.SalesQuote) string { return q.QuoteOwnerID },
	created: func(q crm.SalesQuote) *time.Time { return q.CreatedAt },
	equals: map[string]func(crm.SalesQuote) string{
		"status": func(q crm.SalesQuote) string { return q.Status },
	},
}

var salesOrderFilter = filterSpec[crm.SalesOrder]{
	owner:   func(o crm.SalesOrder) string { return o.OwnerID },
	created: func(o crm.SalesOrder) *time.Time { return o.CreatedAt },
	equals: map[string]func(crm.SalesOrder) string{
		"status": func(o crm.SalesOrder) string { return o.Status },
	},
}
