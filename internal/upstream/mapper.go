package upstream

import "crm-analytics/internal/crm"

func toLead(o object) crm.Lead {
	return crm.Lead{
		ID:                  o.str("id"),
		LeadID:              o.first("leadId", "id"),
		FirstName:           o.str("firstName"),
		LastName:            o.str("lastName"),
		Email:               o.str("email"),
		SecondaryEmail:      o.str("secondaryEmail"),
		PhoneNumber:         o.str("phoneNumber"),
		Fax:                 o.str("fax"),
		Website:             o.str("website"),
		Company:             o.str("company"),
		Title:               o.str("title"),
		Notes:               o.str("notes"),
		LeadSource:          o.str("leadSource"),
		LeadStatus:          o.str("leadStatus"),
		InterestLevel:       o.str("interestLevel"),
		Budget:              o.num("budget"),
		PotentialRevenue:    o.num("potentialRevenue"),
		AddressLine1:        o.str("addressLine1"),
		AddressLine2:        o.str("addressLine2"),
		Zipcode:             o.str("zipcode"),
		City:                o.str("city"),
		State:               o.str("state"),
		Country:             o.str("country"),
		LeadOwner:           o.str("leadOwner"),
		AccountID:           o.str("accountId"),
		ContactID:           o.str("contactId"),
		InteractionType:     o.str("interactionType"),
		InteractionOutcome:  o.str("interactionOutcome"),
		CreatedAt:           o.timestamp("createdAt"),
		UpdatedAt:           o.timestamp("updatedAt"),
		LastInteractionDate: o.timestamp("interactionDate"),
	}
}

func address(o object, prefix string) crm.Address {
	return crm.Address{
		Country:      o.str(prefix + "Country"),
		State:        o.str(prefix + "State"),
		City:         o.str(prefix + "City"),
		ZipCode:      o.str(prefix + "ZipCode"),
		AddressLine1: o.str(prefix + "AddressLine1"),
		AddressLine2: o.str(prefix + "AddressLine2"),
	}
}

func postalAddress(o object, prefix string) crm.PostalAddress {
	return crm.PostalAddress{
		Street:     o.str(prefix + "Street"),
		City:       o.str(prefix + "City"),
		State:      o.str(prefix + "State"),
		Country:    o.str(prefix + "Country"),
		PostalCode: o.str(prefix + "PostalCode"),
	}
}

func toAccount(o object) crm.Account {
	return crm.Account{
		ID:              o.str("id"),
		AccountID:       o.first("accountId", "id"),
		Name:            o.str("name"),
		Type:            o.str("type"),
		OwnerID:         o.str("ownerId"),
		Website:         o.str("website"),
		Industry:        o.str("industry"),
		ParentAccountID: o.str("parentAccountId"),
		Note:            o.str("note"),
		Billing:         address(o, "billing"),
		Shipping:        address(o, "shipping"),
		CreatedAt:       o.timestamp("createdAt"),
		UpdatedAt:       o.timestamp("updatedAt"),
	}
}

func toContact(o object) crm.Contact {
	c := crm.Contact{
		ID:         o.str("id"),
		ContactID:  o.first("contactId", "id"),
		AccountID:  o.str("accountId"),
		FirstName:  o.str("firstName"),
		LastName:   o.str("lastName"),
		Email:      o.str("email"),
		Phone:      o.str("phone"),
		Department: o.str("department"),
		Role:       o.str("role"),
		Note:       o.str("note"),
		Billing:    address(o, "billing"),
		Shipping:   address(o, "shipping"),
		IsPrimary:  o.boolean("isPrimary"),
		CreatedAt:  o.timestamp("createdAt"),
		UpdatedAt:  o.timestamp("updatedAt"),
	}
	if acc := o.nested("account"); acc != nil {
		c.Account = &crm.AccountRef{
			AccountID: acc.first("accountId", "id"),
			Name:      acc.str("name"),
			Type:      acc.str("type"),
			Website:   acc.str("website"),
		}
	}
	return c
}

func toOpportunity(o object) crm.Opportunity {
	return crm.Opportunity{
		ID:               o.str("id"),
		Name:             o.str("name"),
		OwnerID:          o.str("ownerId"),
		AccountID:        o.str("accountId"),
		PrimaryContactID: o.str("primaryContactId"),
		ContactName:      o.str("contactName"),
		Stage:            o.str("stage"),
		Status:           o.str("status"),
		Type:             o.str("type"),
		LeadSource:       o.str("leadSource"),
		Description:      o.str("description"),
		Amount:           o.num("amount"),
		Probability:      o.integer("probability"),
		StartDate:        o.timestamp("startDate"),
		EndDate:          o.timestamp("endDate"),
		CreatedAt:        o.timestamp("createdAt"),
		UpdatedAt:        o.timestamp("updatedAt"),
	}
}

func opportunityRef(o object) *crm.OpportunityRef {
	opp := o.nested("opportunity")
	if opp == nil {
		return nil
	}
	return &crm.OpportunityRef{ID: opp.str("id"), Name: opp.str("name")}
}

func toSalesQuote(o object) crm.SalesQuote {
	return crm.SalesQuote{
		ID:               o.str("id"),
		QuoteID:          o.first("quoteId", "id"),
		QuoteOwnerID:     o.str("quoteOwnerId"),
		OpportunityID:    o.str("opportunityId"),
		AccountID:        o.str("accountId"),
		PrimaryContactID: o.str("primaryContactId"),
		Subject:          o.str("subject"),
		Status:           o.str("status"),
		Description:      o.str("description"),
		Amount:           o.num("amount"),
		SuccessRate:      o.integer("successRate"),
		Billing:          postalAddress(o, "billing"),
		Shipping:         postalAddress(o, "shipping"),
		Opportunity:      opportunityRef(o),
		DueDate:          o.timestamp("dueDate"),
		CreatedAt:        o.timestamp("createdAt"),
		UpdatedAt:        o.timestamp("updatedAt"),
	}
}

func toSalesOrder(o object) crm.SalesOrder {
	return crm.SalesOrder{
		ID:               o.str("id"),
		OrderID:          o.first("orderId", "id"),
		OwnerID:          o.str("ownerId"),
		OpportunityID:    o.str("opportunityId"),
		AccountID:        o.str("accountId"),
		PrimaryContactID: o.str("primaryContactId"),
		Subject:          o.str("subject"),
		Status:           o.str("status"),
		PurchaseOrder:    o.str("purchaseOrder"),
		Description:      o.str("description"),
		Amount:           o.num("amount"),
		Commission:       o.num("commission"),
		Budget:           o.num("budget"),
		Billing:          postalAddress(o, "billing"),
		Shipping:         postalAddress(o, "shipping"),
		Opportunity:      opportunityRef(o),
		DueDate:          o.timestamp("dueDate"),
		CreatedAt:        o.timestamp("createdAt"),
		UpdatedAt:        o.timestamp("updatedAt"),
	}
}
