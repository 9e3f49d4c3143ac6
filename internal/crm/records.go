package crm

import "time"

// Records are flat views of what each upstream service exposes. Empty strings and nil
// pointers mean the upstream did not send the field.

type Lead struct {
	ID                  string     `json:"id"`
	LeadID              string     `json:"leadId"`
	FirstName           string     `json:"firstName"`
	LastName            string     `json:"lastName"`
	Email               string     `json:"email"`
	SecondaryEmail      string     `json:"secondaryEmail"`
	PhoneNumber         string     `json:"phoneNumber"`
	Fax                 string     `json:"fax"`
	Website             string     `json:"website"`
	Company             string     `json:"company"`
	Title               string     `json:"title"`
	Notes               string     `json:"notes"`
	LeadSource          string     `json:"leadSource"`
	LeadStatus          string     `json:"leadStatus"`
	InterestLevel       string     `json:"interestLevel"`
	Budget              *float64   `json:"budget"`
	PotentialRevenue    *float64   `json:"potentialRevenue"`
	AddressLine1        string     `json:"addressLine1"`
	AddressLine2        string     `json:"addressLine2"`
	Zipcode             string     `json:"zipcode"`
	City                string     `json:"city"`
	State               string     `json:"state"`
	Country             string     `json:"country"`
	LeadOwner           string     `json:"leadOwner"`
	AccountID           string     `json:"accountId"`
	ContactID           string     `json:"contactId"`
	InteractionType     string     `json:"interactionType"`
	InteractionOutcome  string     `json:"interactionOutcome"`
	CreatedAt           *time.Time `json:"createdAt"`
	UpdatedAt           *time.Time `json:"updatedAt"`
	LastInteractionDate *time.Time `json:"interactionDate"`
}

type Address struct {
	Country      string `json:"country"`
	State        string `json:"state"`
	City         string `json:"city"`
	ZipCode      string `json:"zipCode"`
	AddressLine1 string `json:"addressLine1"`
	AddressLine2 string `json:"addressLine2"`
}

type Account struct {
	ID              string     `json:"id"`
	AccountID       string     `json:"accountId"`
	Name            string     `json:"name"`
	Type            string     `json:"type"`
	OwnerID         string     `json:"ownerId"`
	Website         string     `json:"website"`
	Industry        string     `json:"industry"`
	ParentAccountID string     `json:"parentAccountId"`
	Note            string     `json:"note"`
	Billing         Address    `json:"billing"`
	Shipping        Address    `json:"shipping"`
	CreatedAt       *time.Time `json:"createdAt"`
	UpdatedAt       *time.Time `json:"updatedAt"`
}

// AccountRef is the account summary nested in a contact payload.
type AccountRef struct {
	AccountID string `json:"accountId"`
	Name      string `json:"name"`
	Type      string `json:"type"`
	Website   string `json:"website"`
}

type Contact struct {
	ID         string      `json:"id"`
	ContactID  string      `json:"contactId"`
	AccountID  string      `json:"accountId"`
	FirstName  string      `json:"firstName"`
	LastName   string      `json:"lastName"`
	Email      string      `json:"email"`
	Phone      string      `json:"phone"`
	Department string      `json:"department"`
	Role       string      `json:"role"`
	Note       string      `json:"note"`
	Billing    Address     `json:"billing"`
	Shipping   Address     `json:"shipping"`
	IsPrimary  *bool       `json:"isPrimary"`
	Account    *AccountRef `json:"account"`
	CreatedAt  *time.Time  `json:"createdAt"`
	UpdatedAt  *time.Time  `json:"updatedAt"`
}

type Opportunity struct {
	ID               string     `json:"id"`
	Name             string     `json:"name"`
	OwnerID          string     `json:"ownerId"`
	AccountID        string     `json:"accountId"`
	PrimaryContactID string     `json:"primaryContactId"`
	ContactName      string     `json:"contactName"`
	Stage            string     `json:"stage"`
	Status           string     `json:"status"`
	Type             string     `json:"type"`
	LeadSource       string     `json:"leadSource"`
	Description      string     `json:"description"`
	Amount           *float64   `json:"amount"`
	Probability      *int       `json:"probability"`
	StartDate        *time.Time `json:"startDate"`
	EndDate          *time.Time `json:"endDate"`
	CreatedAt        *time.Time `json:"createdAt"`
	UpdatedAt        *time.Time `json:"updatedAt"`
}

// OpportunityRef is the opportunity summary nested in quote and order payloads.
type OpportunityRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// PostalAddress is the street-style address used by quotes and orders.
type PostalAddress struct {
	Street     string `json:"street"`
	City       string `json:"city"`
	State      string `json:"state"`
	Country    string `json:"country"`
	PostalCode string `json:"postalCode"`
}

type SalesQuote struct {
	ID               string          `json:"id"`
	QuoteID          string          `json:"quoteId"`
	QuoteOwnerID     string          `json:"quoteOwnerId"`
	OpportunityID    string          `json:"opportunityId"`
	AccountID        string          `json:"accountId"`
	PrimaryContactID string          `json:"primaryContactId"`
	Subject          string          `json:"subject"`
	Status           string          `json:"status"`
	Description      string          `json:"description"`
	Amount           *float64        `json:"amount"`
	SuccessRate      *int            `json:"successRate"`
	Billing          PostalAddress   `json:"billing"`
	Shipping         PostalAddress   `json:"shipping"`
	Opportunity      *OpportunityRef `json:"opportunity"`
	DueDate          *time.Time      `json:"dueDate"`
	CreatedAt        *time.Time      `json:"createdAt"`
	UpdatedAt        *time.Time      `json:"updatedAt"`
}

type SalesOrder struct {
	ID               string          `json:"id"`
	OrderID          string          `json:"orderId"`
	OwnerID          string          `json:"ownerId"`
	OpportunityID    string          `json:"opportunityId"`
	AccountID        string          `json:"accountId"`
	PrimaryContactID string          `json:"primaryContactId"`
	Subject          string          `json:"subject"`
	Status           string          `json:"status"`
	PurchaseOrder    string          `json:"purchaseOrder"`
	Description      string          `json:"description"`
	Amount           *float64        `json:"amount"`
	Commission       *float64        `json:"commission"`
	Budget           *float64        `json:"budget"`
	Billing          PostalAddress   `json:"billing"`
	Shipping         PostalAddress   `json:"shipping"`
	Opportunity      *OpportunityRef `json:"opportunity"`
	DueDate          *time.Time      `json:"dueDate"`
	CreatedAt        *time.Time      `json:"createdAt"`
	UpdatedAt        *time.Time      `json:"updatedAt"`
}
