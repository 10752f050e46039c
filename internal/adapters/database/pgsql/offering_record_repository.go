package pgsql

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/SscSPs/offering_reconciliation/internal/apperrors"
	"github.com/SscSPs/offering_reconciliation/internal/core/domain"
	portsrepo "github.com/SscSPs/offering_reconciliation/internal/core/ports/repositories"
	"github.com/SscSPs/offering_reconciliation/internal/models"
	"github.com/SscSPs/offering_reconciliation/internal/utils/mapping"
	"github.com/SscSPs/offering_reconciliation/internal/utils/pagination"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const defaultListLimit = 20

const recordColumns = `record_id, service_date, service_type, notes_subtotal, funds_total, grand_total,
		       witness_1, witness_2, fingerprint, committed_at, committed_by`

type PgxOfferingRecordRepository struct {
	BaseRepository
}

// newPgxOfferingRecordRepository creates the append-only ledger repository.
func newPgxOfferingRecordRepository(pool *pgxpool.Pool) portsrepo.OfferingRecordRepositoryFacade {
	return &PgxOfferingRecordRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

// NewOfferingRecordRepository is the exported constructor used by tooling outside the
// service container.
func NewOfferingRecordRepository(pool *pgxpool.Pool) *PgxOfferingRecordRepository {
	return &PgxOfferingRecordRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.OfferingRecordRepositoryFacade = (*PgxOfferingRecordRepository)(nil)

// AppendRecord writes the record header and its lines in one transaction. The header
// insert is conditional on the record ID so a replayed append writes nothing and the
// stored record is returned instead.
func (r *PgxOfferingRecordRepository) AppendRecord(ctx context.Context, record *domain.CommittedRecord) (*domain.CommittedRecord, bool, error) {
	m, err := mapping.ToModelOfferingRecord(record)
	if err != nil {
		return nil, false, err
	}

	tx, err := r.Begin(ctx)
	if err != nil {
		return nil, false, err
	}
	defer r.Rollback(ctx, tx)

	headerQuery := `
		INSERT INTO offering_records (
			record_id, service_date, service_type, notes_subtotal, funds_total, grand_total,
			witness_1, witness_2, fingerprint, committed_by
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (record_id) DO NOTHING
		RETURNING committed_at;
	`
	err = tx.QueryRow(ctx, headerQuery,
		m.RecordID,
		m.ServiceDate,
		m.ServiceType,
		m.NotesSubtotal,
		m.FundsTotal,
		m.GrandTotal,
		m.Witness1,
		m.Witness2,
		m.Fingerprint,
		m.CommittedBy,
	).Scan(&m.CommittedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		// Record ID already present: nothing was written.
		if rbErr := r.Rollback(ctx, tx); rbErr != nil {
			return nil, false, rbErr
		}
		existing, findErr := r.FindRecordByID(ctx, m.RecordID)
		if findErr != nil {
			return nil, false, findErr
		}
		return existing, false, nil
	}
	if err != nil {
		return nil, false, apperrors.NewAppError(http.StatusInternalServerError, "failed to insert offering record "+m.RecordID, err)
	}

	batch := &pgx.Batch{}
	lineQuery := `
		INSERT INTO offering_record_lines (record_id, kind, position, unit_value, note_count, channel, amount)
		VALUES ($1, $2, $3, $4, $5, $6, $7);
	`
	for _, l := range m.Lines {
		batch.Queue(lineQuery, l.RecordID, string(l.Kind), l.Position, l.UnitValue, l.Count, l.Channel, l.Amount)
	}
	br := tx.SendBatch(ctx, batch)
	if err := br.Close(); err != nil {
		return nil, false, apperrors.NewAppError(http.StatusInternalServerError, "failed to insert lines for offering record "+m.RecordID, err)
	}

	if err := r.Commit(ctx, tx); err != nil {
		return nil, false, err
	}
	return record.Stamped(m.CommittedAt), true, nil
}

// FindRecordByID retrieves a committed record and its lines.
func (r *PgxOfferingRecordRepository) FindRecordByID(ctx context.Context, recordID string) (*domain.CommittedRecord, error) {
	query := `SELECT ` + recordColumns + ` FROM offering_records WHERE record_id = $1;`

	m, err := scanRecord(r.Pool.QueryRow(ctx, query, recordID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(http.StatusInternalServerError, "failed to find offering record "+recordID, err)
	}

	lines, err := r.findLines(ctx, []string{recordID})
	if err != nil {
		return nil, err
	}
	m.Lines = lines[recordID]
	return mapping.ToDomainCommittedRecord(m)
}

// ListRecords returns records newest first. The cursor is the (committed_at, record_id)
// of the last record on the previous page.
func (r *PgxOfferingRecordRepository) ListRecords(ctx context.Context, limit int, nextToken *string) ([]*domain.CommittedRecord, *string, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}
	// We fetch one extra item to determine if there's a next page.
	fetchLimit := limit + 1

	baseQuery := `SELECT ` + recordColumns + ` FROM offering_records`
	orderByClause := `ORDER BY committed_at DESC, record_id DESC`
	args := []any{}

	query := baseQuery
	if nextToken != nil && *nextToken != "" {
		lastAt, lastID, decodeErr := pagination.DecodeToken(*nextToken)
		if decodeErr != nil {
			return nil, nil, apperrors.NewAppError(http.StatusBadRequest, "invalid nextToken", errors.Join(apperrors.ErrValidation, decodeErr))
		}
		query += ` WHERE (committed_at, record_id) < ($1, $2)`
		args = append(args, lastAt, lastID)
	}
	query += " " + orderByClause + " LIMIT $" + strconv.Itoa(len(args)+1) + ";"
	args = append(args, fetchLimit)

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, apperrors.NewAppError(http.StatusInternalServerError, "failed to query offering records", err)
	}
	defer rows.Close()

	page := make([]models.OfferingRecord, 0, fetchLimit)
	for rows.Next() {
		m, err := scanRecord(rows)
		if err != nil {
			return nil, nil, apperrors.NewAppError(http.StatusInternalServerError, "failed to scan offering record row", err)
		}
		page = append(page, m)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, apperrors.NewAppError(http.StatusInternalServerError, "error iterating offering record rows", err)
	}

	var nextTokenVal *string
	if len(page) > limit {
		page = page[:limit]
		last := page[limit-1]
		token := pagination.EncodeToken(last.CommittedAt, last.RecordID)
		nextTokenVal = &token
	}
	if len(page) == 0 {
		return []*domain.CommittedRecord{}, nil, nil
	}

	ids := make([]string, len(page))
	for i, m := range page {
		ids[i] = m.RecordID
	}
	lines, err := r.findLines(ctx, ids)
	if err != nil {
		return nil, nil, err
	}

	records := make([]*domain.CommittedRecord, 0, len(page))
	for _, m := range page {
		m.Lines = lines[m.RecordID]
		rec, err := mapping.ToDomainCommittedRecord(m)
		if err != nil {
			return nil, nil, err
		}
		records = append(records, rec)
	}
	return records, nextTokenVal, nil
}

func (r *PgxOfferingRecordRepository) findLines(ctx context.Context, recordIDs []string) (map[string][]models.OfferingRecordLine, error) {
	query := `
		SELECT record_id, kind, position, unit_value, note_count, channel, amount
		FROM offering_record_lines
		WHERE record_id = ANY($1)
		ORDER BY record_id, kind, position;
	`
	rows, err := r.Pool.Query(ctx, query, recordIDs)
	if err != nil {
		return nil, apperrors.NewAppError(http.StatusInternalServerError, "failed to query offering record lines", err)
	}
	defer rows.Close()

	out := make(map[string][]models.OfferingRecordLine, len(recordIDs))
	for rows.Next() {
		var l models.OfferingRecordLine
		var kind string
		if err := rows.Scan(&l.RecordID, &kind, &l.Position, &l.UnitValue, &l.Count, &l.Channel, &l.Amount); err != nil {
			return nil, apperrors.NewAppError(http.StatusInternalServerError, "failed to scan offering record line", err)
		}
		l.Kind = models.LineKind(kind)
		out[l.RecordID] = append(out[l.RecordID], l)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(http.StatusInternalServerError, "error iterating offering record lines", err)
	}
	return out, nil
}

func scanRecord(row pgx.Row) (models.OfferingRecord, error) {
	var m models.OfferingRecord
	err := row.Scan(
		&m.RecordID,
		&m.ServiceDate,
		&m.ServiceType,
		&m.NotesSubtotal,
		&m.FundsTotal,
		&m.GrandTotal,
		&m.Witness1,
		&m.Witness2,
		&m.Fingerprint,
		&m.CommittedAt,
		&m.CommittedBy,
	)
	return m, err
}
