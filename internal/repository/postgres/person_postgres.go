package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"agroapi/internal/model"
	"agroapi/internal/repository"
)

// PersonPostgres is a PostgreSQL implementation of repository.PersonRepository.
// It uses database/sql with parameterized queries and contains no business logic.
type PersonPostgres struct {
	db *sql.DB
}

// NewPersonPostgres creates a new PersonPostgres repository.
func NewPersonPostgres(db *sql.DB) *PersonPostgres {
	return &PersonPostgres{db: db}
}

var _ repository.PersonRepository = (*PersonPostgres)(nil)

const personColumns = `id, staff_id, first_name, last_name, full_name, person_type, designation, mobile, address, status, seasonal, face_embedding, face_registered_at, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPerson(row rowScanner) (*model.Person, error) {
	var p model.Person
	var emb []byte
	var faceAt sql.NullTime
	if err := row.Scan(
		&p.ID,
		&p.StaffID,
		&p.FirstName,
		&p.LastName,
		&p.FullName,
		&p.PersonType,
		&p.Designation,
		&p.Mobile,
		&p.Address,
		&p.Status,
		&p.Seasonal,
		&emb,
		&faceAt,
		&p.CreatedAt,
		&p.UpdatedAt,
	); err != nil {
		return nil, err
	}
	if len(emb) > 0 {
		if err := json.Unmarshal(emb, &p.FaceEmbedding); err != nil {
			return nil, fmt.Errorf("decode face embedding: %w", err)
		}
	}
	if faceAt.Valid {
		t := faceAt.Time
		p.FaceRegisteredAt = &t
	}
	return &p, nil
}

func embeddingValue(emb []float64) (any, error) {
	if len(emb) == 0 {
		return nil, nil
	}
	b, err := json.Marshal(emb)
	if err != nil {
		return nil, fmt.Errorf("encode face embedding: %w", err)
	}
	return b, nil
}

// Create inserts a new person row and returns the stored record.
func (r *PersonPostgres) Create(ctx context.Context, p *model.Person) (*model.Person, error) {
	const q = `
		INSERT INTO person_records (id, staff_id, first_name, last_name, full_name, person_type, designation, mobile, address, status, seasonal, face_embedding, face_registered_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		RETURNING ` + personColumns

	emb, err := embeddingValue(p.FaceEmbedding)
	if err != nil {
		return nil, err
	}

	row := r.db.QueryRowContext(ctx, q,
		p.ID,
		p.StaffID,
		p.FirstName,
		p.LastName,
		p.FullName,
		p.PersonType,
		p.Designation,
		p.Mobile,
		p.Address,
		p.Status,
		p.Seasonal,
		emb,
		p.FaceRegisteredAt,
		p.CreatedAt,
		p.UpdatedAt,
	)
	return scanPerson(row)
}

// FindByID fetches a single person by primary key.
func (r *PersonPostgres) FindByID(ctx context.Context, id string) (*model.Person, error) {
	const q = `SELECT ` + personColumns + ` FROM person_records WHERE id = $1`
	return scanPerson(r.db.QueryRowContext(ctx, q, id))
}

// FindByStaffID fetches a single person by staff ID.
func (r *PersonPostgres) FindByStaffID(ctx context.Context, staffID string) (*model.Person, error) {
	const q = `SELECT ` + personColumns + ` FROM person_records WHERE staff_id = $1`
	return scanPerson(r.db.QueryRowContext(ctx, q, staffID))
}

// personWhere builds the WHERE clause and args for a filter.
func personWhere(f repository.PersonFilter) (string, []any) {
	var conds []string
	var args []any

	if f.RolePrefix != "" {
		args = append(args, f.RolePrefix+"%")
		conds = append(conds, fmt.Sprintf("staff_id LIKE $%d", len(args)))
	}
	if f.Status != "" {
		args = append(args, f.Status)
		conds = append(conds, fmt.Sprintf("status = $%d", len(args)))
	}
	if f.PersonType != "" {
		args = append(args, f.PersonType)
		conds = append(conds, fmt.Sprintf("person_type = $%d", len(args)))
	}
	if f.Search != "" {
		args = append(args, "%"+f.Search+"%")
		n := len(args)
		conds = append(conds, fmt.Sprintf("(full_name ILIKE $%d OR staff_id ILIKE $%d)", n, n))
	}

	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

// List returns persons using LIMIT/OFFSET pagination and a total count.
func (r *PersonPostgres) List(ctx context.Context, f repository.PersonFilter, pq repository.PageQuery) (*repository.PageResult[model.Person], error) {
	where, args := personWhere(f)

	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM person_records`+where, args...).Scan(&total); err != nil {
		return nil, err
	}

	qList := `SELECT ` + personColumns + ` FROM person_records` + where +
		fmt.Sprintf(" ORDER BY created_at DESC, id DESC LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
	args = append(args, pq.Limit, pq.Offset)

	rows, err := r.db.QueryContext(ctx, qList, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.Person, 0)
	for rows.Next() {
		p, err := scanPerson(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &repository.PageResult[model.Person]{
		Items: items,
		Total: total,
	}, nil
}

// Update rewrites the mutable profile fields and returns the stored row.
func (r *PersonPostgres) Update(ctx context.Context, p *model.Person) (*model.Person, error) {
	const q = `
		UPDATE person_records
		SET first_name = $2, last_name = $3, full_name = $4, person_type = $5, designation = $6, mobile = $7, address = $8, status = $9, seasonal = $10, updated_at = $11
		WHERE id = $1
		RETURNING ` + personColumns

	row := r.db.QueryRowContext(ctx, q,
		p.ID,
		p.FirstName,
		p.LastName,
		p.FullName,
		p.PersonType,
		p.Designation,
		p.Mobile,
		p.Address,
		p.Status,
		p.Seasonal,
		p.UpdatedAt,
	)
	return scanPerson(row)
}

// Delete removes a person by ID. It does not return an error if the row does not exist.
func (r *PersonPostgres) Delete(ctx context.Context, id string) error {
	const q = `DELETE FROM person_records WHERE id = $1`
	res, err := r.db.ExecContext(ctx, q, id)
	if err != nil {
		return err
	}
	_, _ = res.RowsAffected()
	return nil
}

// UpdateFaceEmbedding stores the embedding and enrollment timestamp.
func (r *PersonPostgres) UpdateFaceEmbedding(ctx context.Context, id string, embedding []float64, at time.Time) error {
	const q = `
		UPDATE person_records
		SET face_embedding = $2, face_registered_at = $3, updated_at = $3
		WHERE id = $1`

	emb, err := embeddingValue(embedding)
	if err != nil {
		return err
	}

	res, err := r.db.ExecContext(ctx, q, id, emb, at)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// CountByPrefix groups active persons by staff ID prefix.
func (r *PersonPostgres) CountByPrefix(ctx context.Context) (map[string]int, error) {
	const q = `
		SELECT CASE WHEN position('-' IN staff_id) > 0 THEN split_part(staff_id, '-', 1) ELSE '' END AS prefix, COUNT(*)
		FROM person_records
		WHERE status = 'active'
		GROUP BY 1`

	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[string]int)
	for rows.Next() {
		var prefix string
		var count int
		if err := rows.Scan(&prefix, &count); err != nil {
			return nil, err
		}
		out[prefix] = count
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// CountCreatedSince returns how many persons registered at or after the cutoff.
func (r *PersonPostgres) CountCreatedSince(ctx context.Context, since time.Time) (int, error) {
	const q = `SELECT COUNT(*) FROM person_records WHERE created_at >= $1`
	var n int
	if err := r.db.QueryRowContext(ctx, q, since).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}
