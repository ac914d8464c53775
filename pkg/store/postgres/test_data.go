package postgres

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dbfixture"
	"github.com/uptrace/bun/extra/bundebug"
	"gopkg.in/yaml.v3"
)

type Row interface {
	PublicationSchema | AuctionSchema | AuctionObjectSchema |
		DebtorSchema | ContactSchema | UserSubscriptionSchema
}

type FixtureModel[T Row] struct {
	Model string `yaml:"model"`
	Rows  []T    `yaml:"rows"`
}

type Fixtures[T Row] []FixtureModel[T]

var fixtureCantons = []string{"ZH", "BE", "VD", "GE", "AG", "TI", "SG"}

var fixturePropertyTypes = []string{
	"Einfamilienhaus", "Wohnung", "appartement", "immeuble", "Grundstück",
}

func generateDateNextNDays(nDays int) time.Time {
	now := time.Now()
	limit := now.Add(time.Duration(nDays) * 24 * time.Hour)
	return gofakeit.DateRange(now, limit)
}

// GenerateFixtureData writes yaml fixture files for every table to
// outputDir. Used by the `gant test create-fixtures` CLI command.
func GenerateFixtureData(fixtureCount int, outputDir string) {
	fakerGlobal := gofakeit.NewUnlocked(0)
	gofakeit.SetGlobalFaker(fakerGlobal)

	publications := make([]PublicationSchema, fixtureCount)
	var auctions []AuctionSchema
	var objects []AuctionObjectSchema
	var debtors []DebtorSchema
	var contacts []ContactSchema
	var subscriptions []UserSubscriptionSchema

	for i := 0; i < fixtureCount; i++ {
		canton := fixtureCantons[gofakeit.Number(0, len(fixtureCantons)-1)]
		publicationDate := time.Now().AddDate(0, 0, -gofakeit.Number(0, 14))
		town := gofakeit.City()

		publications[i] = PublicationSchema{
			ID:              gofakeit.UUID(),
			PublicationDate: &publicationDate,
			Title: map[string]string{
				"de": "Betreibungsamtliche Grundstücksteigerung " + town,
				"fr": "Vente aux enchères d'immeubles " + town,
			},
			Language:  "de",
			Canton:    canton,
			Content:   gofakeit.Paragraph(1, 3, 12, " "),
			CreatedAt: publicationDate,
			UpdatedAt: publicationDate,
		}

		auction := AuctionSchema{
			ID:            gofakeit.UUID(),
			Date:          generateDateNextNDays(60),
			Time:          fmt.Sprintf("%02d:%02d", gofakeit.Number(8, 16), gofakeit.Number(0, 59)),
			Location:      gofakeit.Street() + ", " + town,
			PublicationID: publications[i].ID,
			CreatedAt:     publicationDate,
			UpdatedAt:     publicationDate,
		}
		auctions = append(auctions, auction)

		objectCount := gofakeit.Number(1, 3)
		for j := 0; j < objectCount; j++ {
			estimatedValue := fmt.Sprintf("%d000.00", gofakeit.Number(200, 2500))
			surface := fmt.Sprintf("%d", gofakeit.Number(40, 900))
			objects = append(objects, AuctionObjectSchema{
				ID:             gofakeit.UUID(),
				Description:    gofakeit.Paragraph(1, 2, 10, " "),
				ParcelNumber:   fmt.Sprintf("%d", gofakeit.Number(100, 9999)),
				EstimatedValue: &estimatedValue,
				SurfaceArea:    &surface,
				PropertyType:   fixturePropertyTypes[gofakeit.Number(0, len(fixturePropertyTypes)-1)],
				Address:        gofakeit.Street(),
				Municipality:   town,
				Canton:         canton,
				AuctionID:      auction.ID,
				CreatedAt:      publicationDate,
			})
		}

		debtors = append(debtors, DebtorSchema{
			ID:            gofakeit.UUID(),
			DebtorType:    "person",
			Name:          gofakeit.LastName(),
			Prename:       gofakeit.FirstName(),
			Address:       gofakeit.Street(),
			City:          town,
			PostalCode:    fmt.Sprintf("%d", gofakeit.Number(1000, 9999)),
			PublicationID: publications[i].ID,
			CreatedAt:     publicationDate,
		})

		contacts = append(contacts, ContactSchema{
			ID:            gofakeit.UUID(),
			Name:          "Betreibungsamt " + town,
			Address:       gofakeit.Street(),
			PostalCode:    fmt.Sprintf("%d", gofakeit.Number(1000, 9999)),
			City:          town,
			Phone:         gofakeit.Phone(),
			Email:         gofakeit.Email(),
			ContactType:   "office",
			PublicationID: publications[i].ID,
			CreatedAt:     publicationDate,
		})

		if gofakeit.Bool() {
			expiresAt := time.Now().AddDate(1, 0, 0)
			subscriptionType := "basic"
			amount := "4.90"
			if gofakeit.Bool() {
				subscriptionType = "premium"
				amount = "9.90"
			}
			subscriptions = append(subscriptions, UserSubscriptionSchema{
				UUID:             uuid.New(),
				UserID:           uuid.New(),
				AuctionID:        auction.ID,
				SubscriptionType: subscriptionType,
				PurchaseDate:     publicationDate,
				ExpiresAt:        &expiresAt,
				IsActive:         true,
				PaymentID:        gofakeit.UUID(),
				AmountPaid:       amount,
				CreatedAt:        publicationDate,
				UpdatedAt:        publicationDate,
			})
		}
	}

	fixtureData := map[string]interface{}{
		"publication_fixtures.yaml": Fixtures[PublicationSchema]{
			{Model: "PublicationSchema", Rows: publications},
		},
		"auction_fixtures.yaml": Fixtures[AuctionSchema]{
			{Model: "AuctionSchema", Rows: auctions},
		},
		"auction_object_fixtures.yaml": Fixtures[AuctionObjectSchema]{
			{Model: "AuctionObjectSchema", Rows: objects},
		},
		"debtor_fixtures.yaml": Fixtures[DebtorSchema]{
			{Model: "DebtorSchema", Rows: debtors},
		},
		"contact_fixtures.yaml": Fixtures[ContactSchema]{
			{Model: "ContactSchema", Rows: contacts},
		},
		"user_subscription_fixtures.yaml": Fixtures[UserSubscriptionSchema]{
			{Model: "UserSubscriptionSchema", Rows: subscriptions},
		},
	}

	for fileName, data := range fixtureData {
		if err := writeFixtureFile(outputDir, fileName, data); err != nil {
			log.Fatalf("failed to write fixture %s: %v", fileName, err)
		}
	}
}

func writeFixtureFile(outputDir, fileName string, data interface{}) error {
	encoded, err := yaml.Marshal(data)
	if err != nil {
		return fmt.Errorf("marshal fixture: %w", err)
	}
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	path := filepath.Join(outputDir, fileName)
	if err := os.WriteFile(path, encoded, 0o644); err != nil {
		return fmt.Errorf("write fixture: %w", err)
	}
	return nil
}

// LoadFixtures drops and recreates the schema, then loads every yaml
// fixture found under fixturePath.
func LoadFixtures(
	ctx context.Context,
	db *bun.DB,
	fixturePath string,
) error {
	db.AddQueryHook(bundebug.NewQueryHook(bundebug.WithVerbose(true)))

	dropSchemaQuery := `DROP SCHEMA public CASCADE;
CREATE SCHEMA public;
GRANT ALL ON SCHEMA public TO postgres;
GRANT ALL ON SCHEMA public TO public;`

	if _, err := db.ExecContext(ctx, dropSchemaQuery); err != nil {
		return fmt.Errorf("failed to drop schema: %w", err)
	}

	if err := CreateSchema(ctx, db); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	db.RegisterModel(
		(*PublicationSchema)(nil),
		(*AuctionSchema)(nil),
		(*AuctionObjectSchema)(nil),
		(*DebtorSchema)(nil),
		(*ContactSchema)(nil),
		(*UserSubscriptionSchema)(nil),
		(*AuctionViewSchema)(nil),
	)

	fixture := dbfixture.New(db)

	files, err := os.ReadDir(fixturePath)
	if err != nil {
		return fmt.Errorf("failed to read directory: %w", err)
	}

	for _, file := range files {
		if file.IsDir() {
			continue
		}
		switch filepath.Ext(file.Name()) {
		case ".yaml", ".yml":
			if err := fixture.Load(ctx, os.DirFS(fixturePath), file.Name()); err != nil {
				return fmt.Errorf("failed to load fixture %s: %w", file.Name(), err)
			}
		}
	}

	return nil
}
