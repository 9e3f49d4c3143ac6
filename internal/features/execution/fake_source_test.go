package execution

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"crm-analytics/internal/config"
	"crm-analytics/internal/crm"

	"go.uber.org/zap"
)

var errUpstreamDown = errors.New("connection refused")

// fakeSource serves fixed records and counts every fetch.
type fakeSource struct {
	leads         []crm.Lead
	accounts      []crm.Account
	contacts      []crm.Contact
	opportunities []crm.Opportunity
	quotes        []crm.SalesQuote
	orders        []crm.SalesOrder

	failing map[crm.Module]bool
	calls   atomic.Int32
}

func serve[T any](s *fakeSource, m crm.Module, records []T) ([]T, error) {
	s.calls.Add(1)
	if s.failing[m] {
		return nil, errUpstreamDown
	}
	return records, nil
}

func (s *fakeSource) Leads(ctx context.Context) ([]crm.Lead, error) {
	return serve(s, crm.ModuleLead, s.leads)
}

func (s *fakeSource) Accounts(ctx context.Context) ([]crm.Account, error) {
	return serve(s, crm.ModuleAccount, s.accounts)
}

func (s *fakeSource) Contacts(ctx context.Context) ([]crm.Contact, error) {
	return serve(s, crm.ModuleContact, s.contacts)
}

func (s *fakeSource) Opportunities(ctx context.Context) ([]crm.Opportunity, error) {
	return serve(s, crm.ModuleOpportunity, s.opportunities)
}

func (s *fakeSource) SalesQuotes(ctx context.Context) ([]crm.SalesQuote, error) {
	return serve(s, crm.ModuleSalesQuotes, s.quotes)
}

func (s *fakeSource) SalesOrders(ctx context.Context) ([]crm.SalesOrder, error) {
	return serve(s, crm.ModuleSalesOrder, s.orders)
}

func newTestService(src *fakeSource) *ExecutionServiceImpl {
	svc := NewExecutionService(src, &config.Config{}, zap.NewNop()).(*ExecutionServiceImpl)
	svc.now = func() time.Time { return time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC) }
	return svc
}

func date(s string) *time.Time {
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		panic(err)
	}
	return &t
}

func ptr[T any](v T) *T { return &v }
