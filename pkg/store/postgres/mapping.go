package postgres

import (
	"encoding/json"

	"github.com/gantapp/gant/pkg/models"
)

// jsonbParam renders a value as a JSON string for comparison against a
// jsonb column. Rendering failures fall back to "{}" so a broken value
// can never match an existing row.
func jsonbParam(value interface{}) string {
	data, err := json.Marshal(value)
	if err != nil {
		return "{}"
	}
	return string(data)
}

func publicationToSchema(p *models.Publication) *PublicationSchema {
	return &PublicationSchema{
		ID:                 p.ID,
		PublicationDate:    p.PublicationDate,
		ExpirationDate:     p.ExpirationDate,
		Title:              p.Title,
		Language:           p.Language,
		Canton:             p.Canton,
		Content:            p.Content,
		RegistrationOffice: p.RegistrationOffice,
	}
}

func schemaToPublication(row *PublicationSchema) *models.Publication {
	p := &models.Publication{
		ID:                 row.ID,
		PublicationDate:    row.PublicationDate,
		ExpirationDate:     row.ExpirationDate,
		Title:              row.Title,
		Language:           row.Language,
		Canton:             row.Canton,
		Content:            row.Content,
		RegistrationOffice: row.RegistrationOffice,
		Auctions:           []models.Auction{},
		Debtors:            []models.Debtor{},
		Contacts:           []models.Contact{},
	}
	for _, auction := range row.Auctions {
		p.Auctions = append(p.Auctions, *schemaToAuction(auction))
	}
	for _, debtor := range row.Debtors {
		p.Debtors = append(p.Debtors, *schemaToDebtor(debtor))
	}
	for _, contact := range row.Contacts {
		p.Contacts = append(p.Contacts, *schemaToContact(contact))
	}
	return p
}

func auctionToSchema(a *models.Auction, publicationID string) *AuctionSchema {
	row := &AuctionSchema{
		ID:            a.ID,
		Date:          a.Date,
		Time:          a.Time,
		Location:      a.Location,
		PublicationID: publicationID,
	}
	if a.Circulation != nil {
		row.CirculationEntryDeadline = a.Circulation.EntryDeadline
		row.CirculationCommentDeadline = a.Circulation.Comment
	}
	if a.Registration != nil {
		row.RegistrationEntryDeadline = a.Registration.EntryDeadline
		row.RegistrationCommentDeadline = a.Registration.Comment
	}
	return row
}

func schemaToAuction(row *AuctionSchema) *models.Auction {
	a := &models.Auction{
		ID:             row.ID,
		Date:           row.Date,
		Time:           row.Time,
		Location:       row.Location,
		AuctionObjects: []models.AuctionObject{},
	}
	if row.CirculationEntryDeadline != nil || row.CirculationCommentDeadline != "" {
		a.Circulation = &models.DeadlineBlock{
			EntryDeadline: row.CirculationEntryDeadline,
			Comment:       row.CirculationCommentDeadline,
		}
	}
	if row.RegistrationEntryDeadline != nil || row.RegistrationCommentDeadline != "" {
		a.Registration = &models.DeadlineBlock{
			EntryDeadline: row.RegistrationEntryDeadline,
			Comment:       row.RegistrationCommentDeadline,
		}
	}
	for _, object := range row.AuctionObjects {
		a.AuctionObjects = append(a.AuctionObjects, *schemaToObject(object))
	}
	return a
}

func schemaToAuctionSummary(row *AuctionSchema) *models.AuctionSummary {
	summary := &models.AuctionSummary{
		ID:            row.ID,
		Date:          row.Date,
		Time:          row.Time,
		Location:      row.Location,
		PublicationID: row.PublicationID,
		ObjectCount:   len(row.AuctionObjects),
	}
	if row.Publication != nil {
		summary.Canton = row.Publication.Canton
		summary.PublicationDate = row.Publication.PublicationDate
	}
	return summary
}

func objectToSchema(o *models.AuctionObject, auctionID string) *AuctionObjectSchema {
	return &AuctionObjectSchema{
		ID:             o.ID,
		Description:    o.Description,
		ParcelNumber:   o.ParcelNumber,
		EstimatedValue: decimalToString(o.EstimatedValue),
		SurfaceArea:    decimalToString(o.SurfaceArea),
		PropertyType:   o.PropertyType,
		Address:        o.Address,
		Municipality:   o.Municipality,
		Canton:         o.Canton,
		Remarks:        o.Remarks,
		AuctionID:      auctionID,
	}
}

func schemaToObject(row *AuctionObjectSchema) *models.AuctionObject {
	return &models.AuctionObject{
		ID:             row.ID,
		Description:    row.Description,
		ParcelNumber:   row.ParcelNumber,
		EstimatedValue: stringToDecimal(row.EstimatedValue),
		SurfaceArea:    stringToDecimal(row.SurfaceArea),
		PropertyType:   row.PropertyType,
		Address:        row.Address,
		Municipality:   row.Municipality,
		Canton:         row.Canton,
		Remarks:        row.Remarks,
	}
}

func debtorToSchema(d *models.Debtor, publicationID string) *DebtorSchema {
	return &DebtorSchema{
		ID:              d.ID,
		DebtorType:      d.DebtorType,
		Name:            d.Name,
		Prename:         d.Prename,
		DateOfBirth:     d.DateOfBirth,
		Address:         d.Address,
		City:            d.City,
		PostalCode:      d.PostalCode,
		LegalForm:       d.LegalForm,
		UID:             d.UID,
		UIDOrgID:        d.UIDOrganisationID,
		UIDOrgIDCat:     d.UIDOrganisationIDCategorie,
		Canton:          d.Canton,
		ResidenceType:   d.ResidenceType,
		CountryOfOrigin: d.CountryOfOrigin,
		AddressDetail:   d.AddressDetail,
		PublicationID:   publicationID,
	}
}

func schemaToDebtor(row *DebtorSchema) *models.Debtor {
	return &models.Debtor{
		ID:                         row.ID,
		DebtorType:                 row.DebtorType,
		Name:                       row.Name,
		Prename:                    row.Prename,
		DateOfBirth:                row.DateOfBirth,
		Address:                    row.Address,
		City:                       row.City,
		PostalCode:                 row.PostalCode,
		LegalForm:                  row.LegalForm,
		UID:                        row.UID,
		UIDOrganisationID:          row.UIDOrgID,
		UIDOrganisationIDCategorie: row.UIDOrgIDCat,
		Canton:                     row.Canton,
		ResidenceType:              row.ResidenceType,
		CountryOfOrigin:            row.CountryOfOrigin,
		AddressDetail:              row.AddressDetail,
	}
}

func contactToSchema(c *models.Contact, publicationID string) *ContactSchema {
	return &ContactSchema{
		ID:                    c.ID,
		Name:                  c.Name,
		Address:               c.Address,
		PostalCode:            c.PostalCode,
		City:                  c.City,
		Phone:                 c.Phone,
		Email:                 c.Email,
		ContactType:           c.ContactType,
		OfficeID:              c.OfficeID,
		ContainsPostOfficeBox: c.ContainsPostOfficeBox,
		PostOfficeBox:         c.PostOfficeBox,
		PublicationID:         publicationID,
	}
}

func schemaToContact(row *ContactSchema) *models.Contact {
	return &models.Contact{
		ID:                    row.ID,
		Name:                  row.Name,
		Address:               row.Address,
		PostalCode:            row.PostalCode,
		City:                  row.City,
		Phone:                 row.Phone,
		Email:                 row.Email,
		ContactType:           row.ContactType,
		OfficeID:              row.OfficeID,
		ContainsPostOfficeBox: row.ContainsPostOfficeBox,
		PostOfficeBox:         row.PostOfficeBox,
	}
}

func subscriptionToSchema(s *models.UserSubscription) *UserSubscriptionSchema {
	return &UserSubscriptionSchema{
		UUID:             s.UUID,
		UserID:           s.UserID,
		AuctionID:        s.AuctionID,
		SubscriptionType: string(s.SubscriptionType),
		PurchaseDate:     s.PurchaseDate,
		ExpiresAt:        s.ExpiresAt,
		IsActive:         s.IsActive,
		PaymentID:        s.PaymentID,
		AmountPaid:       s.AmountPaid,
	}
}

func schemaToSubscription(row *UserSubscriptionSchema) *models.UserSubscription {
	return &models.UserSubscription{
		UUID:             row.UUID,
		UserID:           row.UserID,
		AuctionID:        row.AuctionID,
		SubscriptionType: models.SubscriptionType(row.SubscriptionType),
		PurchaseDate:     row.PurchaseDate,
		ExpiresAt:        row.ExpiresAt,
		IsActive:         row.IsActive,
		PaymentID:        row.PaymentID,
		AmountPaid:       row.AmountPaid,
	}
}
