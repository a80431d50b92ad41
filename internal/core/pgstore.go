package core

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/JonMunkholm/rostersync/internal/roster"
)

//go:embed schema.sql
var schemaSQL string

// pgUniqueViolation is the SQLSTATE for unique_violation.
const pgUniqueViolation = "23505"

// PGStore is the PostgreSQL Store.
type PGStore struct {
	pool *pgxpool.Pool
	db   DBTX
}

// NewPGStore wraps a connection pool.
func NewPGStore(pool *pgxpool.Pool) *PGStore {
	return &PGStore{pool: pool, db: pool}
}

// Migrate creates the tables if they do not exist.
func (s *PGStore) Migrate(ctx context.Context) error {
	if _, err := s.db.Exec(ctx, schemaSQL); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}

func (s *PGStore) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

func toPgUUID(id string) (pgtype.UUID, bool) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return pgtype.UUID{}, false
	}
	return pgtype.UUID{Bytes: uid, Valid: true}, true
}

func fromPgUUID(u pgtype.UUID) string {
	if !u.Valid {
		return ""
	}
	return uuid.UUID(u.Bytes).String()
}

func toTimestamptz(t time.Time) pgtype.Timestamptz {
	return pgtype.Timestamptz{Time: t, Valid: !t.IsZero()}
}

// SaveRun inserts the run and copies its records in one transaction.
func (s *PGStore) SaveRun(ctx context.Context, run SyncRun, records []roster.Record) error {
	id, ok := toPgUUID(run.ID)
	if !ok {
		return fmt.Errorf("save run: invalid id %q", run.ID)
	}
	wards, err := json.Marshal(run.WardCounts)
	if err != nil {
		return fmt.Errorf("marshal ward counts: %w", err)
	}
	if run.WardCounts == nil {
		wards = []byte("{}")
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, `
		INSERT INTO sync_runs (id, kind, source, tab, status, record_count, dropped_count,
			ward_counts, error, client_ip, user_agent, started_at, finished_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`,
		id, string(run.Kind), run.Source, run.Tab, string(run.Status), run.Records, run.Dropped,
		wards, run.Error, run.ClientIP, run.UserAgent,
		toTimestamptz(run.StartedAt), toTimestamptz(run.FinishedAt),
	)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}

	if len(records) > 0 {
		rows := make([][]any, len(records))
		for i, r := range records {
			raw, err := json.Marshal(r.Raw)
			if err != nil {
				return fmt.Errorf("marshal raw cells: %w", err)
			}
			if r.Raw == nil {
				raw = []byte("{}")
			}
			allergies := r.Allergies
			if allergies == nil {
				allergies = []string{}
			}
			rows[i] = []any{
				id, i, r.BedNumber, r.LastName, r.FirstName, r.MRN, r.PrimaryDiagnosis,
				r.AttendingPhysician, r.Team, r.WardID, string(r.Gender), r.DateOfBirth,
				allergies, string(r.CodeStatus), int16(r.Acuity), r.Status, raw,
			}
		}
		_, err = tx.CopyFrom(ctx,
			pgx.Identifier{"sync_run_records"},
			[]string{
				"run_id", "position", "bed_number", "last_name", "first_name", "mrn", "primary_diagnosis",
				"attending_physician", "team", "ward_id", "gender", "date_of_birth",
				"allergies", "code_status", "acuity", "status", "raw",
			},
			pgx.CopyFromRows(rows),
		)
		if err != nil {
			return fmt.Errorf("copy records: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

const runColumns = `id, kind, source, tab, status, record_count, dropped_count,
	ward_counts, error, client_ip, user_agent, started_at, finished_at`

func scanRun(row pgx.Row) (SyncRun, error) {
	var (
		id                pgtype.UUID
		kind, status      string
		wards             []byte
		started, finished pgtype.Timestamptz
		run               SyncRun
	)
	err := row.Scan(&id, &kind, &run.Source, &run.Tab, &status, &run.Records, &run.Dropped,
		&wards, &run.Error, &run.ClientIP, &run.UserAgent, &started, &finished)
	if err != nil {
		return SyncRun{}, err
	}
	run.ID = fromPgUUID(id)
	run.Kind = RunKind(kind)
	run.Status = RunStatus(status)
	if started.Valid {
		run.StartedAt = started.Time
	}
	if finished.Valid {
		run.FinishedAt = finished.Time
	}
	if len(wards) > 0 {
		if err := json.Unmarshal(wards, &run.WardCounts); err != nil {
			return SyncRun{}, fmt.Errorf("unmarshal ward counts: %w", err)
		}
	}
	return run, nil
}

func (s *PGStore) GetRun(ctx context.Context, id string) (SyncRun, error) {
	uid, ok := toPgUUID(id)
	if !ok {
		return SyncRun{}, ErrRunNotFound
	}
	run, err := scanRun(s.db.QueryRow(ctx, `SELECT `+runColumns+` FROM sync_runs WHERE id = $1`, uid))
	if errors.Is(err, pgx.ErrNoRows) {
		return SyncRun{}, ErrRunNotFound
	}
	if err != nil {
		return SyncRun{}, fmt.Errorf("get run: %w", err)
	}
	return run, nil
}

func (s *PGStore) ListRuns(ctx context.Context, p ListRunsParams) ([]SyncRun, error) {
	rows, err := s.db.Query(ctx, `
		SELECT `+runColumns+`
		FROM sync_runs
		WHERE ($1 = '' OR kind = $1)
		ORDER BY started_at DESC, id DESC
		LIMIT $2 OFFSET $3`,
		string(p.Kind), limitOrDefault(p.Limit), max(p.Offset, 0),
	)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	runs := make([]SyncRun, 0)
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

func (s *PGStore) RunRecords(ctx context.Context, id string) ([]roster.Record, error) {
	if _, err := s.GetRun(ctx, id); err != nil {
		return nil, err
	}
	uid, _ := toPgUUID(id)

	rows, err := s.db.Query(ctx, `
		SELECT bed_number, last_name, first_name, mrn, primary_diagnosis, attending_physician,
			team, ward_id, gender, date_of_birth, allergies, code_status, acuity, status, raw
		FROM sync_run_records
		WHERE run_id = $1
		ORDER BY position`, uid)
	if err != nil {
		return nil, fmt.Errorf("list run records: %w", err)
	}
	defer rows.Close()

	records := make([]roster.Record, 0)
	for rows.Next() {
		var (
			r            roster.Record
			gender, code string
			acuity       int16
			raw          []byte
		)
		err := rows.Scan(&r.BedNumber, &r.LastName, &r.FirstName, &r.MRN, &r.PrimaryDiagnosis,
			&r.AttendingPhysician, &r.Team, &r.WardID, &gender, &r.DateOfBirth, &r.Allergies,
			&code, &acuity, &r.Status, &raw)
		if err != nil {
			return nil, fmt.Errorf("scan record: %w", err)
		}
		r.Gender = roster.Gender(gender)
		r.CodeStatus = roster.CodeStatus(code)
		r.Acuity = int(acuity)
		if len(raw) > 0 {
			if err := json.Unmarshal(raw, &r.Raw); err != nil {
				return nil, fmt.Errorf("unmarshal raw cells: %w", err)
			}
		}
		if len(r.Raw) == 0 {
			r.Raw = nil
		}
		records = append(records, r)
	}
	return records, rows.Err()
}

func (s *PGStore) PruneRuns(ctx context.Context, cutoff time.Time) (int64, error) {
	tag, err := s.db.Exec(ctx, `DELETE FROM sync_runs WHERE finished_at < $1`, toTimestamptz(cutoff))
	if err != nil {
		return 0, fmt.Errorf("prune runs: %w", err)
	}
	return tag.RowsAffected(), nil
}

const presetColumns = `id, name, mapping, created_at, updated_at`

func scanPreset(row pgx.Row) (MappingPreset, error) {
	var (
		id               pgtype.UUID
		mapping          []byte
		created, updated pgtype.Timestamptz
		p                MappingPreset
	)
	if err := row.Scan(&id, &p.Name, &mapping, &created, &updated); err != nil {
		return MappingPreset{}, err
	}
	if err := json.Unmarshal(mapping, &p.Mapping); err != nil {
		return MappingPreset{}, fmt.Errorf("unmarshal mapping: %w", err)
	}
	p.ID = fromPgUUID(id)
	if created.Valid {
		p.CreatedAt = created.Time
	}
	if updated.Valid {
		p.UpdatedAt = updated.Time
	}
	return p, nil
}

// presetError maps driver errors onto the store sentinels.
func presetError(op string, err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrPresetNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
		return ErrPresetExists
	}
	return fmt.Errorf("%s: %w", op, err)
}

func (s *PGStore) ListPresets(ctx context.Context) ([]MappingPreset, error) {
	rows, err := s.db.Query(ctx, `SELECT `+presetColumns+` FROM mapping_presets ORDER BY lower(name)`)
	if err != nil {
		return nil, fmt.Errorf("list presets: %w", err)
	}
	defer rows.Close()

	presets := make([]MappingPreset, 0)
	for rows.Next() {
		p, err := scanPreset(rows)
		if err != nil {
			continue // Skip unreadable presets
		}
		presets = append(presets, p)
	}
	return presets, rows.Err()
}

func (s *PGStore) GetPreset(ctx context.Context, id string) (MappingPreset, error) {
	uid, ok := toPgUUID(id)
	if !ok {
		return MappingPreset{}, ErrPresetNotFound
	}
	p, err := scanPreset(s.db.QueryRow(ctx, `SELECT `+presetColumns+` FROM mapping_presets WHERE id = $1`, uid))
	if err != nil {
		return MappingPreset{}, presetError("get preset", err)
	}
	return p, nil
}

func (s *PGStore) CreatePreset(ctx context.Context, name string, m roster.Mapping) (MappingPreset, error) {
	mappingJSON, err := json.Marshal(m)
	if err != nil {
		return MappingPreset{}, fmt.Errorf("marshal mapping: %w", err)
	}
	p, err := scanPreset(s.db.QueryRow(ctx, `
		INSERT INTO mapping_presets (name, mapping)
		VALUES ($1, $2)
		RETURNING `+presetColumns, name, mappingJSON))
	if err != nil {
		return MappingPreset{}, presetError("create preset", err)
	}
	return p, nil
}

func (s *PGStore) UpdatePreset(ctx context.Context, id, name string, m roster.Mapping) (MappingPreset, error) {
	uid, ok := toPgUUID(id)
	if !ok {
		return MappingPreset{}, ErrPresetNotFound
	}
	mappingJSON, err := json.Marshal(m)
	if err != nil {
		return MappingPreset{}, fmt.Errorf("marshal mapping: %w", err)
	}
	p, err := scanPreset(s.db.QueryRow(ctx, `
		UPDATE mapping_presets
		SET name = $2, mapping = $3, updated_at = now()
		WHERE id = $1
		RETURNING `+presetColumns, uid, name, mappingJSON))
	if err != nil {
		return MappingPreset{}, presetError("update preset", err)
	}
	return p, nil
}

func (s *PGStore) DeletePreset(ctx context.Context, id string) error {
	uid, ok := toPgUUID(id)
	if !ok {
		return ErrPresetNotFound
	}
	tag, err := s.db.Exec(ctx, `DELETE FROM mapping_presets WHERE id = $1`, uid)
	if err != nil {
		return fmt.Errorf("delete preset: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrPresetNotFound
	}
	return nil
}

func (s *PGStore) DoctorColors(ctx context.Context, owner string) (map[string]string, error) {
	rows, err := s.db.Query(ctx, `SELECT physician, color FROM doctor_colors WHERE owner = $1`, owner)
	if err != nil {
		return nil, fmt.Errorf("list doctor colors: %w", err)
	}
	defer rows.Close()

	colors := make(map[string]string)
	for rows.Next() {
		var physician, color string
		if err := rows.Scan(&physician, &color); err != nil {
			return nil, fmt.Errorf("scan doctor color: %w", err)
		}
		colors[physician] = color
	}
	return colors, rows.Err()
}

// PutDoctorColors replaces the owner's colors in one transaction.
func (s *PGStore) PutDoctorColors(ctx context.Context, owner string, colors map[string]string) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM doctor_colors WHERE owner = $1`, owner); err != nil {
		return fmt.Errorf("clear doctor colors: %w", err)
	}

	batch := &pgx.Batch{}
	for physician, color := range colors {
		batch.Queue(`INSERT INTO doctor_colors (owner, physician, color) VALUES ($1, $2, $3)`,
			owner, physician, color)
	}
	if batch.Len() > 0 {
		if err := tx.SendBatch(ctx, batch).Close(); err != nil {
			return fmt.Errorf("insert doctor colors: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
