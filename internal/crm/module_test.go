package crm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseModule(t *testing.T) {
	tests := []struct {
		in   string
		want Module
	}{
		{"LEAD", ModuleLead},
		{"lead", ModuleLead},
		{" Lead ", ModuleLead},
		{"Account", ModuleAccount},
		{"contacts", ModuleContact},
		{"Opportunity", ModuleOpportunity},
		{"Sales Quotes", ModuleSalesQuotes},
		{"SALES QUOTES", ModuleSalesQuotes},
		{"SalesQuotes", ModuleSalesQuotes},
		{"sales-quote", ModuleSalesQuotes},
		{"SALES ORDER", ModuleSalesOrder},
		{"SALES_ORDER", ModuleSalesOrder},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseModule(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseModuleRejectsUnknown(t *testing.T) {
	for _, in := range []string{"", "   ", "UNKNOWN", "Invoice"} {
		_, err := ParseModule(in)
		assert.Error(t, err, in)
	}
}

func TestModulesAreValidAndLabelled(t *testing.T) {
	for _, m := range Modules() {
		assert.True(t, m.Valid(), m)
		assert.NotEqual(t, string(m), "")
		back, err := ParseModule(m.Label())
		require.NoError(t, err)
		assert.Equal(t, m, back)
	}
	assert.False(t, Module("UNKNOWN").Valid())
}
