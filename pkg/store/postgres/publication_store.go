package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/uptrace/bun"

	"github.com/gantapp/gant/pkg/models"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// PublicationStore persists extracted publication records and serves the
// read side of the API. Deduplication lives here, not in the parser: a
// publication is identified by its title and publication date.
type PublicationStore struct {
	db *bun.DB
}

var _ models.PublicationStore = &PublicationStore{}

func NewPublicationStore(db *bun.DB) *PublicationStore {
	return &PublicationStore{db: db}
}

// SavePublication stores one publication with its nested auctions,
// objects, debtors and contacts in a single transaction. A publication
// already stored under the same (title, publication date) key is left
// untouched.
func (s *PublicationStore) SavePublication(
	ctx context.Context,
	publication *models.Publication,
) error {
	if publication == nil {
		return errors.New("publication cannot be nil")
	}

	exists, err := s.publicationExists(ctx, publication)
	if err != nil {
		return fmt.Errorf("failed to check for existing publication: %w", err)
	}
	if exists {
		log.Debugf("publication %s already stored, skipping", publication.ID)
		return nil
	}

	tx, err := s.db.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer rollbackOnError(tx)

	row := publicationToSchema(publication)
	if _, err := tx.NewInsert().Model(row).Exec(ctx); err != nil {
		return fmt.Errorf("failed to insert publication: %w", err)
	}

	for i := range publication.Auctions {
		auction := &publication.Auctions[i]
		auctionRow := auctionToSchema(auction, publication.ID)
		if _, err := tx.NewInsert().Model(auctionRow).Exec(ctx); err != nil {
			return fmt.Errorf("failed to insert auction: %w", err)
		}
		for j := range auction.AuctionObjects {
			objectRow := objectToSchema(&auction.AuctionObjects[j], auction.ID)
			if _, err := tx.NewInsert().Model(objectRow).Exec(ctx); err != nil {
				return fmt.Errorf("failed to insert auction object: %w", err)
			}
		}
	}

	for i := range publication.Debtors {
		debtorRow := debtorToSchema(&publication.Debtors[i], publication.ID)
		if _, err := tx.NewInsert().Model(debtorRow).Exec(ctx); err != nil {
			return fmt.Errorf("failed to insert debtor: %w", err)
		}
	}

	for i := range publication.Contacts {
		contactRow := contactToSchema(&publication.Contacts[i], publication.ID)
		if _, err := tx.NewInsert().Model(contactRow).Exec(ctx); err != nil {
			return fmt.Errorf("failed to insert contact: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit publication: %w", err)
	}
	return nil
}

func (s *PublicationStore) publicationExists(
	ctx context.Context,
	publication *models.Publication,
) (bool, error) {
	query := s.db.NewSelect().
		Model((*PublicationSchema)(nil)).
		Where("id = ?", publication.ID)
	if publication.PublicationDate != nil && len(publication.Title) > 0 {
		query = s.db.NewSelect().
			Model((*PublicationSchema)(nil)).
			WhereGroup(" OR ", func(q *bun.SelectQuery) *bun.SelectQuery {
				return q.Where("id = ?", publication.ID).
					WhereGroup(" OR ", func(q *bun.SelectQuery) *bun.SelectQuery {
						return q.Where("title = ?::jsonb", jsonbParam(publication.Title)).
							Where("publication_date = ?", publication.PublicationDate)
					})
			})
	}
	return query.Exists(ctx)
}

func (s *PublicationStore) ListPublications(
	ctx context.Context,
	filter models.PublicationFilter,
) (*models.PublicationList, error) {
	page, size := normalizePage(filter.Page, filter.Size)

	var rows []PublicationSchema
	query := s.db.NewSelect().Model(&rows)

	if filter.DateFrom != nil {
		query = query.Where("p.publication_date >= ?", filter.DateFrom)
	}
	if filter.DateTo != nil {
		query = query.Where("p.publication_date <= ?", filter.DateTo)
	}
	if filter.Canton != "" {
		query = query.Where("p.canton = upper(?)", filter.Canton)
	}
	if filter.Language != "" {
		query = query.Where("p.language = lower(?)", filter.Language)
	}
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.WhereGroup(" AND ", func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Where("p.title::text ILIKE ?", pattern).
				WhereOr("p.content ILIKE ?", pattern)
		})
	}

	total, err := query.
		Order("publication_date DESC NULLS LAST").
		Offset((page - 1) * size).
		Limit(size).
		ScanAndCount(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list publications: %w", err)
	}

	items := make([]models.Publication, len(rows))
	for i := range rows {
		items[i] = *schemaToPublication(&rows[i])
	}
	return &models.PublicationList{
		Items:  items,
		Paging: paging(total, page, size),
	}, nil
}

func (s *PublicationStore) GetPublication(
	ctx context.Context,
	publicationID string,
) (*models.Publication, error) {
	row := &PublicationSchema{}
	err := s.db.NewSelect().
		Model(row).
		Where("p.id = ?", publicationID).
		Relation("Auctions", func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Relation("AuctionObjects")
		}).
		Relation("Debtors").
		Relation("Contacts").
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, models.NewNotFoundError("publication " + publicationID)
		}
		return nil, fmt.Errorf("failed to get publication: %w", err)
	}
	return schemaToPublication(row), nil
}

func (s *PublicationStore) ListAuctions(
	ctx context.Context,
	filter models.AuctionFilter,
) (*models.AuctionList, error) {
	page, size := normalizePage(filter.Page, filter.Size)

	var rows []AuctionSchema
	query := s.db.NewSelect().
		Model(&rows).
		Relation("Publication").
		Relation("AuctionObjects")

	if filter.DateFrom != nil {
		query = query.Where("a.date >= ?", filter.DateFrom)
	}
	if filter.DateTo != nil {
		query = query.Where("a.date <= ?", filter.DateTo)
	}
	if filter.Canton != "" {
		query = query.Where("publication.canton = upper(?)", filter.Canton)
	}
	if filter.Location != "" {
		query = query.Where("a.location ILIKE ?", "%"+filter.Location+"%")
	}
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.WhereGroup(" AND ", func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Where("a.location ILIKE ?", pattern).
				WhereOr("publication.title::text ILIKE ?", pattern)
		})
	}

	total, err := query.
		Order("date DESC").
		Offset((page - 1) * size).
		Limit(size).
		ScanAndCount(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list auctions: %w", err)
	}

	items := make([]models.AuctionSummary, len(rows))
	for i := range rows {
		items[i] = *schemaToAuctionSummary(&rows[i])
	}
	return &models.AuctionList{
		Items:  items,
		Paging: paging(total, page, size),
	}, nil
}

func (s *PublicationStore) GetAuctionSummary(
	ctx context.Context,
	auctionID string,
) (*models.AuctionSummary, error) {
	row, err := s.getAuctionRow(ctx, auctionID)
	if err != nil {
		return nil, err
	}
	return schemaToAuctionSummary(row), nil
}

func (s *PublicationStore) GetAuctionDetail(
	ctx context.Context,
	auctionID string,
) (*models.AuctionDetail, error) {
	row, err := s.getAuctionRow(ctx, auctionID)
	if err != nil {
		return nil, err
	}

	detail := &models.AuctionDetail{
		Auction:       *schemaToAuction(row),
		PublicationID: row.PublicationID,
	}

	if row.Publication != nil {
		detail.Canton = row.Publication.Canton

		var debtors []DebtorSchema
		err = s.db.NewSelect().
			Model(&debtors).
			Where("publication_id = ?", row.PublicationID).
			Scan(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to get auction debtors: %w", err)
		}
		for i := range debtors {
			detail.Debtors = append(detail.Debtors, *schemaToDebtor(&debtors[i]))
		}

		var contacts []ContactSchema
		err = s.db.NewSelect().
			Model(&contacts).
			Where("publication_id = ?", row.PublicationID).
			Scan(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to get auction contacts: %w", err)
		}
		for i := range contacts {
			detail.Contacts = append(detail.Contacts, *schemaToContact(&contacts[i]))
		}
	}

	return detail, nil
}

func (s *PublicationStore) getAuctionRow(
	ctx context.Context,
	auctionID string,
) (*AuctionSchema, error) {
	row := &AuctionSchema{}
	err := s.db.NewSelect().
		Model(row).
		Where("a.id = ?", auctionID).
		Relation("Publication").
		Relation("AuctionObjects").
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, models.NewNotFoundError("auction " + auctionID)
		}
		return nil, fmt.Errorf("failed to get auction: %w", err)
	}
	return row, nil
}

func (s *PublicationStore) GetAuctionObjects(
	ctx context.Context,
	auctionID string,
) ([]models.AuctionObject, error) {
	var rows []AuctionObjectSchema
	err := s.db.NewSelect().
		Model(&rows).
		Where("auction_id = ?", auctionID).
		Order("created_at ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get auction objects: %w", err)
	}
	objects := make([]models.AuctionObject, len(rows))
	for i := range rows {
		objects[i] = *schemaToObject(&rows[i])
	}
	return objects, nil
}

func (s *PublicationStore) ListObjects(
	ctx context.Context,
	filter models.ObjectFilter,
) (*models.ObjectList, error) {
	page, size := normalizePage(filter.Page, filter.Size)

	var rows []AuctionObjectSchema
	query := s.db.NewSelect().Model(&rows)

	if filter.Canton != "" {
		query = query.Where("ao.canton = upper(?)", filter.Canton)
	}
	if filter.PropertyType != "" {
		query = query.Where("ao.property_type ILIKE ?", "%"+filter.PropertyType+"%")
	}
	if filter.MinValue != "" {
		query = query.Where("ao.estimated_value >= ?", filter.MinValue)
	}
	if filter.MaxValue != "" {
		query = query.Where("ao.estimated_value <= ?", filter.MaxValue)
	}

	total, err := query.
		Order("created_at DESC").
		Offset((page - 1) * size).
		Limit(size).
		ScanAndCount(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list auction objects: %w", err)
	}

	items := make([]models.AuctionObject, len(rows))
	for i := range rows {
		items[i] = *schemaToObject(&rows[i])
	}
	return &models.ObjectList{
		Items:  items,
		Paging: paging(total, page, size),
	}, nil
}

// PurgeExpired deletes auctions dated before cutoff along with their
// objects, and returns the number of auctions deleted. Publications are
// kept; they expire through their own retention.
func (s *PublicationStore) PurgeExpired(
	ctx context.Context,
	cutoff time.Time,
) (int, error) {
	var expired []AuctionSchema
	err := s.db.NewSelect().
		Model(&expired).
		Column("id").
		Where("date < ?", cutoff).
		Scan(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to find expired auctions: %w", err)
	}
	if len(expired) == 0 {
		return 0, nil
	}

	ids := make([]string, len(expired))
	for i := range expired {
		ids[i] = expired[i].ID
	}

	tx, err := s.db.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return 0, fmt.Errorf("failed to begin purge transaction: %w", err)
	}
	defer rollbackOnError(tx)

	if _, err := tx.NewDelete().
		Model((*AuctionObjectSchema)(nil)).
		Where("auction_id IN (?)", bun.In(ids)).
		Exec(ctx); err != nil {
		return 0, fmt.Errorf("failed to purge auction objects: %w", err)
	}
	if _, err := tx.NewDelete().
		Model((*AuctionViewSchema)(nil)).
		Where("auction_id IN (?)", bun.In(ids)).
		Exec(ctx); err != nil {
		return 0, fmt.Errorf("failed to purge auction views: %w", err)
	}
	if _, err := tx.NewDelete().
		Model((*AuctionSchema)(nil)).
		Where("id IN (?)", bun.In(ids)).
		Exec(ctx); err != nil {
		return 0, fmt.Errorf("failed to purge auctions: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit purge: %w", err)
	}
	return len(ids), nil
}

func (s *PublicationStore) Close() error {
	return s.db.Close()
}

func normalizePage(page, size int) (int, int) {
	if page < 1 {
		page = 1
	}
	if size < 1 {
		size = defaultPageSize
	}
	if size > maxPageSize {
		size = maxPageSize
	}
	return page, size
}

func paging(total, page, size int) models.Paging {
	return models.Paging{
		Total: total,
		Page:  page,
		Size:  size,
		Pages: (total + size - 1) / size,
	}
}

// rollbackOnError rolls back the transaction if it has not been committed.
func rollbackOnError(tx bun.Tx) {
	if err := tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
		log.Errorf("failed to rollback transaction: %v", err)
	}
}

func decimalToString(value *decimal.Decimal) *string {
	if value == nil {
		return nil
	}
	s := value.String()
	return &s
}

func stringToDecimal(value *string) *decimal.Decimal {
	if value == nil {
		return nil
	}
	parsed, err := decimal.NewFromString(*value)
	if err != nil {
		return nil
	}
	return &parsed
}
