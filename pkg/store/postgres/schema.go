package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"runtime"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"

	"github.com/gantapp/gant/internal"
	"github.com/gantapp/gant/pkg/models"
)

var log = internal.GetLogger()

// PublicationSchema is the stored form of one gazette notice. The
// multilingual title and the registration office block are kept as jsonb;
// everything the API filters on has its own column.
type PublicationSchema struct {
	bun.BaseModel `bun:"table:publications,alias:p"`

	ID                 string                     `bun:",pk"`
	PublicationDate    *time.Time                 `bun:"type:date,nullzero"`
	ExpirationDate     *time.Time                 `bun:"type:date,nullzero"`
	Title              map[string]string          `bun:"type:jsonb,nullzero"`
	Language           string                     `bun:",notnull,default:'de'"`
	Canton             string                     `bun:",nullzero"`
	Content            string                     `bun:",nullzero"`
	RegistrationOffice *models.RegistrationOffice `bun:"type:jsonb,nullzero"`
	CreatedAt          time.Time                  `bun:"type:timestamptz,nullzero,notnull,default:current_timestamp"`
	UpdatedAt          time.Time                  `bun:"type:timestamptz,nullzero,notnull,default:current_timestamp"`

	Auctions []*AuctionSchema `bun:"rel:has-many,join:id=publication_id"`
	Debtors  []*DebtorSchema  `bun:"rel:has-many,join:id=publication_id"`
	Contacts []*ContactSchema `bun:"rel:has-many,join:id=publication_id"`
}

var _ bun.BeforeAppendModelHook = (*PublicationSchema)(nil)

func (s *PublicationSchema) BeforeAppendModel(_ context.Context, query bun.Query) error {
	if _, ok := query.(*bun.UpdateQuery); ok {
		s.UpdatedAt = time.Now()
	}
	return nil
}

func (s *PublicationSchema) BeforeCreateTable(_ context.Context, _ *bun.CreateTableQuery) error {
	return nil
}

type AuctionSchema struct {
	bun.BaseModel `bun:"table:auctions,alias:a"`

	ID                           string     `bun:",pk"`
	Date                         time.Time  `bun:"type:date,notnull"`
	Time                         string     `bun:",nullzero"`
	Location                     string     `bun:",notnull"`
	CirculationEntryDeadline     *time.Time `bun:"type:date,nullzero"`
	CirculationCommentDeadline   string     `bun:",nullzero"`
	RegistrationEntryDeadline    *time.Time `bun:"type:date,nullzero"`
	RegistrationCommentDeadline  string     `bun:",nullzero"`
	PublicationID                string     `bun:",notnull"`
	CreatedAt                    time.Time  `bun:"type:timestamptz,nullzero,notnull,default:current_timestamp"`
	UpdatedAt                    time.Time  `bun:"type:timestamptz,nullzero,notnull,default:current_timestamp"`

	Publication    *PublicationSchema     `bun:"rel:belongs-to,join:publication_id=id,on_delete:cascade"`
	AuctionObjects []*AuctionObjectSchema `bun:"rel:has-many,join:id=auction_id"`
}

var _ bun.BeforeAppendModelHook = (*AuctionSchema)(nil)

func (s *AuctionSchema) BeforeAppendModel(_ context.Context, query bun.Query) error {
	if _, ok := query.(*bun.UpdateQuery); ok {
		s.UpdatedAt = time.Now()
	}
	return nil
}

func (s *AuctionSchema) BeforeCreateTable(_ context.Context, _ *bun.CreateTableQuery) error {
	return nil
}

type AuctionObjectSchema struct {
	bun.BaseModel `bun:"table:auction_objects,alias:ao"`

	ID             string    `bun:",pk"`
	Description    string    `bun:",nullzero"`
	ParcelNumber   string    `bun:",nullzero"`
	EstimatedValue *string   `bun:"type:numeric,nullzero"`
	SurfaceArea    *string   `bun:"type:numeric,nullzero"`
	PropertyType   string    `bun:",nullzero"`
	Address        string    `bun:",nullzero"`
	Municipality   string    `bun:",nullzero"`
	Canton         string    `bun:",nullzero"`
	Remarks        string    `bun:",nullzero"`
	AuctionID      string    `bun:",notnull"`
	CreatedAt      time.Time `bun:"type:timestamptz,nullzero,notnull,default:current_timestamp"`

	Auction *AuctionSchema `bun:"rel:belongs-to,join:auction_id=id,on_delete:cascade"`
}

func (s *AuctionObjectSchema) BeforeCreateTable(_ context.Context, _ *bun.CreateTableQuery) error {
	return nil
}

type DebtorSchema struct {
	bun.BaseModel `bun:"table:debtors,alias:d"`

	ID              string                  `bun:",pk"`
	DebtorType      string                  `bun:",nullzero"`
	Name            string                  `bun:",notnull"`
	Prename         string                  `bun:",nullzero"`
	DateOfBirth     *time.Time              `bun:"type:date,nullzero"`
	Address         string                  `bun:",nullzero"`
	City            string                  `bun:",nullzero"`
	PostalCode      string                  `bun:",nullzero"`
	LegalForm       string                  `bun:",nullzero"`
	UID             string                  `bun:"uid,nullzero"`
	UIDOrgID        string                  `bun:"uid_org_id,nullzero"`
	UIDOrgIDCat     string                  `bun:"uid_org_id_cat,nullzero"`
	Canton          string                  `bun:",nullzero"`
	ResidenceType   string                  `bun:",nullzero"`
	CountryOfOrigin *models.CountryOfOrigin `bun:"type:jsonb,nullzero"`
	AddressDetail   *models.DebtorAddress   `bun:"type:jsonb,nullzero"`
	PublicationID   string                  `bun:",notnull"`
	CreatedAt       time.Time               `bun:"type:timestamptz,nullzero,notnull,default:current_timestamp"`

	Publication *PublicationSchema `bun:"rel:belongs-to,join:publication_id=id,on_delete:cascade"`
}

func (s *DebtorSchema) BeforeCreateTable(_ context.Context, _ *bun.CreateTableQuery) error {
	return nil
}

type ContactSchema struct {
	bun.BaseModel `bun:"table:contacts,alias:c"`

	ID                    string                `bun:",pk"`
	Name                  string                `bun:",notnull"`
	Address               string                `bun:",nullzero"`
	PostalCode            string                `bun:",nullzero"`
	City                  string                `bun:",nullzero"`
	Phone                 string                `bun:",nullzero"`
	Email                 string                `bun:",nullzero"`
	ContactType           string                `bun:",nullzero"`
	OfficeID              string                `bun:",nullzero"`
	ContainsPostOfficeBox bool                  `bun:",notnull,default:false"`
	PostOfficeBox         *models.PostOfficeBox `bun:"type:jsonb,nullzero"`
	PublicationID         string                `bun:",notnull"`
	CreatedAt             time.Time             `bun:"type:timestamptz,nullzero,notnull,default:current_timestamp"`

	Publication *PublicationSchema `bun:"rel:belongs-to,join:publication_id=id,on_delete:cascade"`
}

func (s *ContactSchema) BeforeCreateTable(_ context.Context, _ *bun.CreateTableQuery) error {
	return nil
}

type UserSubscriptionSchema struct {
	bun.BaseModel `bun:"table:user_subscriptions,alias:us"`

	UUID             uuid.UUID  `bun:",pk,type:uuid,default:gen_random_uuid()"`
	UserID           uuid.UUID  `bun:"type:uuid,notnull"`
	AuctionID        string     `bun:",notnull"`
	SubscriptionType string     `bun:",notnull,default:'basic'"`
	PurchaseDate     time.Time  `bun:"type:timestamptz,nullzero,notnull,default:current_timestamp"`
	ExpiresAt        *time.Time `bun:"type:timestamptz,nullzero"`
	IsActive         bool       `bun:",notnull,default:true"`
	PaymentID        string     `bun:",nullzero"`
	AmountPaid       string     `bun:",nullzero"`
	CreatedAt        time.Time  `bun:"type:timestamptz,nullzero,notnull,default:current_timestamp"`
	UpdatedAt        time.Time  `bun:"type:timestamptz,nullzero,notnull,default:current_timestamp"`

	Auction *AuctionSchema `bun:"rel:belongs-to,join:auction_id=id,on_delete:cascade"`
}

var _ bun.BeforeAppendModelHook = (*UserSubscriptionSchema)(nil)

func (s *UserSubscriptionSchema) BeforeAppendModel(_ context.Context, query bun.Query) error {
	if _, ok := query.(*bun.UpdateQuery); ok {
		s.UpdatedAt = time.Now()
	}
	return nil
}

func (s *UserSubscriptionSchema) BeforeCreateTable(_ context.Context, _ *bun.CreateTableQuery) error {
	return nil
}

type AuctionViewSchema struct {
	bun.BaseModel `bun:"table:auction_views,alias:av"`

	UUID      uuid.UUID  `bun:",pk,type:uuid,default:gen_random_uuid()"`
	AuctionID string     `bun:",notnull"`
	UserID    *uuid.UUID `bun:"type:uuid,nullzero"`
	SessionID string     `bun:",nullzero"`
	ViewType  string     `bun:",notnull"`
	ViewedAt  time.Time  `bun:"type:timestamptz,nullzero,notnull,default:current_timestamp"`

	Auction *AuctionSchema `bun:"rel:belongs-to,join:auction_id=id,on_delete:cascade"`
}

func (s *AuctionViewSchema) BeforeCreateTable(_ context.Context, _ *bun.CreateTableQuery) error {
	return nil
}

// tableList is ordered leaves first; CreateSchema iterates it in reverse
// so tables with foreign keys are created after their targets.
var tableList = []bun.BeforeCreateTableHook{
	&AuctionViewSchema{},
	&UserSubscriptionSchema{},
	&AuctionObjectSchema{},
	&ContactSchema{},
	&DebtorSchema{},
	&AuctionSchema{},
	&PublicationSchema{},
}

// NewPostgresConn opens a bun connection pool against the configured DSN.
func NewPostgresConn(dsn string) *bun.DB {
	maxOpenConns := 4 * runtime.GOMAXPROCS(0)

	sqldb := sql.OpenDB(
		pgdriver.NewConnector(
			pgdriver.WithDSN(dsn),
			pgdriver.WithReadTimeout(1*time.Minute),
		),
	)
	sqldb.SetMaxOpenConns(maxOpenConns)
	sqldb.SetMaxIdleConns(maxOpenConns)

	return bun.NewDB(sqldb, pgdialect.New())
}

// CreateSchema creates the db schema if it does not exist.
func CreateSchema(ctx context.Context, db *bun.DB) error {
	for i := len(tableList) - 1; i >= 0; i-- {
		schema := tableList[i]
		_, err := db.NewCreateTable().
			Model(schema).
			IfNotExists().
			WithForeignKeys().
			Exec(ctx)
		if err != nil {
			// bun still trying to create indexes despite IfNotExists flag
			if strings.Contains(err.Error(), "already exists") {
				continue
			}
			return fmt.Errorf("error creating table for schema %T: %w", schema, err)
		}
	}

	if err := createIndexes(ctx, db); err != nil {
		return fmt.Errorf("error creating indexes: %w", err)
	}

	return nil
}

func createIndexes(ctx context.Context, db *bun.DB) error {
	indexes := []struct {
		model  interface{}
		name   string
		column string
	}{
		{(*PublicationSchema)(nil), "publication_date_idx", "publication_date"},
		{(*PublicationSchema)(nil), "publication_canton_idx", "canton"},
		{(*AuctionSchema)(nil), "auction_date_idx", "date"},
		{(*AuctionSchema)(nil), "auction_publication_id_idx", "publication_id"},
		{(*AuctionObjectSchema)(nil), "auction_object_auction_id_idx", "auction_id"},
		{(*DebtorSchema)(nil), "debtor_publication_id_idx", "publication_id"},
		{(*ContactSchema)(nil), "contact_publication_id_idx", "publication_id"},
		{(*UserSubscriptionSchema)(nil), "user_subscription_user_id_idx", "user_id"},
		{(*AuctionViewSchema)(nil), "auction_view_auction_id_idx", "auction_id"},
	}
	for _, index := range indexes {
		_, err := db.NewCreateIndex().
			Model(index.model).
			Index(index.name).
			Column(index.column).
			IfNotExists().
			Exec(ctx)
		if err != nil {
			return fmt.Errorf("error creating index %s: %w", index.name, err)
		}
	}
	return nil
}
