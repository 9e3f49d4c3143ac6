package execution

import (
	"encoding/json"
	"testing"

	"crm-analytics/internal/crm"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompositeNames(t *testing.T) {
	tests := []struct {
		first, last string
		want        string
	}{
		{"A", "B", "A B"},
		{"A", "", "A"},
		{"", "B", "B"},
		{"", "", ""},
		{" Ann ", "Lee", "Ann  Lee"},
	}
	for _, tt := range tests {
		row := leadColumns.row(crm.Lead{FirstName: tt.first, LastName: tt.last}, []string{"Lead Name"})
		v, _ := row.Get("Lead Name")
		assert.Equal(t, tt.want, v)

		crow := contactColumns.row(crm.Contact{FirstName: tt.first, LastName: tt.last}, []string{"Contact Name"})
		v, _ = crow.Get("Contact Name")
		assert.Equal(t, tt.want, v)
	}
}

func TestRowPreservesRequestedOrder(t *testing.T) {
	labels := []string{"Status", "Email", "Lead ID", "Budget"}
	row := leadColumns.row(crm.Lead{LeadID: "L1", Email: "e", LeadStatus: "NEW", Budget: ptr(10.5)}, labels)

	assert.Equal(t, labels, row.Labels())
	body, err := json.Marshal(row)
	require.NoError(t, err)
	assert.Equal(t, `{"Status":"NEW","Email":"e","Lead ID":"L1","Budget":10.5}`, string(body))
}

func TestNestedReferences(t *testing.T) {
	withAccount := crm.Contact{Account: &crm.AccountRef{Name: "Acme", Type: "Customer", Website: "acme.io"}}
	row := contactColumns.row(withAccount, []string{"Account Name", "Account Type", "Website"})
	assert.Equal(t, map[string]any{"Account Name": "Acme", "Account Type": "Customer", "Website": "acme.io"}, row.Map())

	row = contactColumns.row(crm.Contact{}, []string{"Account Name", "Website"})
	assert.Equal(t, map[string]any{"Account Name": nil, "Website": nil}, row.Map())

	quote := crm.SalesQuote{Subject: "Q", Opportunity: &crm.OpportunityRef{Name: "Deal"}, SuccessRate: ptr(80)}
	row = salesQuoteColumns.row(quote, []string{"Sales Quotes Name", "Opportunities Name", "Success Rate"})
	assert.Equal(t, map[string]any{"Sales Quotes Name": "Q", "Opportunities Name": "Deal", "Success Rate": 80}, row.Map())

	row = salesOrderColumns.row(crm.SalesOrder{}, []string{"Opportunities Name", "Commission"})
	assert.Equal(t, map[string]any{"Opportunities Name": nil, "Commission": nil}, row.Map())
}

func TestEveryLabelHasAccessor(t *testing.T) {
	tables := map[crm.Module]int{
		crm.ModuleLead:        len(leadColumns),
		crm.ModuleAccount:     len(accountColumns),
		crm.ModuleContact:     len(contactColumns),
		crm.ModuleOpportunity: len(opportunityColumns),
		crm.ModuleSalesQuotes: len(salesQuoteColumns),
		crm.ModuleSalesOrder:  len(salesOrderColumns),
	}
	for _, m := range crm.Modules() {
		labels := Labels(m)
		assert.NotEmpty(t, labels, m)
		assert.Equal(t, tables[m], len(labels), m)
	}

	for _, l := range leadLabels {
		assert.Contains(t, leadColumns, l)
	}
	for _, l := range accountLabels {
		assert.Contains(t, accountColumns, l)
	}
	for _, l := range contactLabels {
		assert.Contains(t, contactColumns, l)
	}
	for _, l := range opportunityLabels {
		assert.Contains(t, opportunityColumns, l)
	}
	for _, l := range salesQuoteLabels {
		assert.Contains(t, salesQuoteColumns, l)
	}
	for _, l := range salesOrderLabels {
		assert.Contains(t, salesOrderColumns, l)
	}
}

func TestRowSetKeepsFirstPosition(t *testing.T) {
	row := newRow(3)
	row.Set("a", 1)
	row.Set("b", 2)
	row.Set("a", 3)

	assert.Equal(t, []string{"a", "b"}, row.Labels())
	v, _ := row.Get("a")
	assert.Equal(t, 3, v)
	assert.Equal(t, 2, row.Len())
}
