package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Publication is one gazette notice as recovered by the extraction
// pipeline. All nested slices are ordered as found in the source document.
// Records are transient: the parser builds them, the store persists them,
// nothing else holds on to them.
type Publication struct {
	ID                 string              `json:"id"`
	PublicationDate    *time.Time          `json:"publication_date"`
	ExpirationDate     *time.Time          `json:"expiration_date,omitempty"`
	Title              map[string]string   `json:"title"`
	Language           string              `json:"language"`
	Canton             string              `json:"canton"`
	Content            string              `json:"content,omitempty"`
	RegistrationOffice *RegistrationOffice `json:"registration_office,omitempty"`
	Auctions           []Auction           `json:"auctions"`
	Debtors            []Debtor            `json:"debtors"`
	Contacts           []Contact           `json:"contacts"`
}

// Auction is one auction event. The gazette schema carries at most one
// auction per publication; the parser keeps the first block it finds.
type Auction struct {
	ID             string         `json:"id"`
	Date           time.Time      `json:"date"`
	Time           string         `json:"time,omitempty"`
	Location       string         `json:"location"`
	Circulation    *DeadlineBlock `json:"circulation,omitempty"`
	Registration   *DeadlineBlock `json:"registration,omitempty"`
	AuctionObjects []AuctionObject `json:"auction_objects"`
}

// DeadlineBlock is a procedural deadline (circulation or registration)
// with its free-text comment.
type DeadlineBlock struct {
	EntryDeadline *time.Time `json:"entry_deadline,omitempty"`
	Comment       string     `json:"comment,omitempty"`
}

// AuctionObject is one parcel or property unit being auctioned. The raw
// fragment is always retained in Description; the typed fields are
// best-effort pattern extractions and may be empty.
type AuctionObject struct {
	ID             string           `json:"id"`
	Description    string           `json:"description"`
	ParcelNumber   string           `json:"parcel_number,omitempty"`
	EstimatedValue *decimal.Decimal `json:"estimated_value,omitempty"`
	SurfaceArea    *decimal.Decimal `json:"surface_area,omitempty"`
	PropertyType   string           `json:"property_type,omitempty"`
	Address        string           `json:"address,omitempty"`
	Municipality   string           `json:"municipality,omitempty"`
	Canton         string           `json:"canton,omitempty"`
	Remarks        string           `json:"remarks,omitempty"`
}

const (
	DebtorTypePerson  = "person"
	DebtorTypeCompany = "company"
)

// Debtor is the person or company subject to the debt enforcement.
// DebtorType discriminates which of the optional field groups is populated.
type Debtor struct {
	ID          string     `json:"id"`
	DebtorType  string     `json:"debtor_type,omitempty"`
	Name        string     `json:"name"`
	Prename     string     `json:"prename,omitempty"`
	DateOfBirth *time.Time `json:"date_of_birth,omitempty"`

	// Person fields
	CountryOfOrigin *CountryOfOrigin `json:"country_of_origin,omitempty"`
	ResidenceType   string           `json:"residence_type,omitempty"`

	// Company fields
	UID                        string `json:"uid,omitempty"`
	UIDOrganisationID          string `json:"uid_organisation_id,omitempty"`
	UIDOrganisationIDCategorie string `json:"uid_organisation_id_categorie,omitempty"`
	LegalForm                  string `json:"legal_form,omitempty"`
	Canton                     string `json:"canton,omitempty"`

	// Flattened address, shared by both shapes
	Address    string         `json:"address,omitempty"`
	City       string         `json:"city,omitempty"`
	PostalCode string         `json:"postal_code,omitempty"`
	AddressDetail *DebtorAddress `json:"address_detail,omitempty"`
}

// DebtorAddress is the structured address block nested under a debtor.
type DebtorAddress struct {
	AddressLine1 string `json:"address_line1,omitempty"`
	Street       string `json:"street,omitempty"`
	HouseNumber  string `json:"house_number,omitempty"`
	SwissZipCode string `json:"swiss_zip_code,omitempty"`
	Town         string `json:"town,omitempty"`
}

// CountryOfOrigin carries the per-language country names and the ISO code.
type CountryOfOrigin struct {
	Name    map[string]string `json:"name,omitempty"`
	ISOCode string            `json:"iso_code,omitempty"`
}

// Contact is an office or person to contact about a publication.
type Contact struct {
	ID                    string         `json:"id"`
	Name                  string         `json:"name"`
	Address               string         `json:"address,omitempty"`
	PostalCode            string         `json:"postal_code,omitempty"`
	City                  string         `json:"city,omitempty"`
	Phone                 string         `json:"phone,omitempty"`
	Email                 string         `json:"email,omitempty"`
	ContactType           string         `json:"contact_type,omitempty"`
	OfficeID              string         `json:"office_id,omitempty"`
	ContainsPostOfficeBox bool           `json:"contains_post_office_box,omitempty"`
	PostOfficeBox         *PostOfficeBox `json:"post_office_box,omitempty"`
}

// RegistrationOffice is the office block nested in a publication.
type RegistrationOffice struct {
	ID                    string         `json:"id,omitempty"`
	DisplayName           string         `json:"display_name,omitempty"`
	Street                string         `json:"street,omitempty"`
	StreetNumber          string         `json:"street_number,omitempty"`
	SwissZipCode          string         `json:"swiss_zip_code,omitempty"`
	Town                  string         `json:"town,omitempty"`
	ContainsPostOfficeBox bool           `json:"contains_post_office_box,omitempty"`
	PostOfficeBox         *PostOfficeBox `json:"post_office_box,omitempty"`
}

type PostOfficeBox struct {
	Number  string `json:"number,omitempty"`
	ZipCode string `json:"zip_code,omitempty"`
	Town    string `json:"town,omitempty"`
}
