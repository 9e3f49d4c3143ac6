package crm

import (
	"fmt"
	"strings"
)

// Module identifies one upstream CRM entity type.
type Module string

const (
	ModuleLead        Module = "LEAD"
	ModuleAccount     Module = "ACCOUNT"
	ModuleContact     Module = "CONTACT"
	ModuleOpportunity Module = "OPPORTUNITY"
	ModuleSalesQuotes Module = "SALES_QUOTES"
	ModuleSalesOrder  Module = "SALES_ORDER"
)

// Modules lists every supported module in a stable order.
func Modules() []Module {
	return []Module{
		ModuleLead,
		ModuleAccount,
		ModuleContact,
		ModuleOpportunity,
		ModuleSalesQuotes,
		ModuleSalesOrder,
	}
}

// aliases maps a normalized spelling (upper case, no separators) to its module.
var aliases = map[string]Module{
	"LEAD":          ModuleLead,
	"LEADS":         ModuleLead,
	"ACCOUNT":       ModuleAccount,
	"ACCOUNTS":      ModuleAccount,
	"CONTACT":       ModuleContact,
	"CONTACTS":      ModuleContact,
	"OPPORTUNITY":   ModuleOpportunity,
	"OPPORTUNITIES": ModuleOpportunity,
	"SALESQUOTE":    ModuleSalesQuotes,
	"SALESQUOTES":   ModuleSalesQuotes,
	"SALESORDER":    ModuleSalesOrder,
	"SALESORDERS":   ModuleSalesOrder,
}

// ParseModule resolves user supplied spellings such as "Lead", "Sales Quotes" or
// "SALES_ORDER". Case, spaces, underscores and dashes are ignored.
func ParseModule(s string) (Module, error) {
	key := strings.ToUpper(strings.TrimSpace(s))
	if key == "" {
		return "", fmt.Errorf("module is required")
	}
	key = strings.NewReplacer(" ", "", "_", "", "-", "").Replace(key)
	m, ok := aliases[key]
	if !ok {
		return "", fmt.Errorf("unsupported module: %s", s)
	}
	return m, nil
}

// Label is the human readable module name used in the UI.
func (m Module) Label() string {
	switch m {
	case ModuleLead:
		return "Lead"
	case ModuleAccount:
		return "Account"
	case ModuleContact:
		return "Contact"
	case ModuleOpportunity:
		return "Opportunity"
	case ModuleSalesQuotes:
		return "Sales Quotes"
	case ModuleSalesOrder:
		return "Sales Order"
	}
	return string(m)
}

// Valid reports whether m is one of the supported modules.
func (m Module) Valid() bool {
	switch m {
	case ModuleLead, ModuleAccount, ModuleContact, ModuleOpportunity, ModuleSalesQuotes, ModuleSalesOrder:
		return true
	}
	return false
}
