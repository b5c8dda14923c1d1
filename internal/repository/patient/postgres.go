package patient

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"

	"patient-registry/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const patientColumns = `id, first_name, last_name, middle_name, date_of_birth, address, status, created_at, updated_at`

type postgresRepo struct {
	pool   *pgxpool.Pool
	logger *log.Logger
}

// NewPostgres returns a Repository backed by Postgres.
func NewPostgres(pool *pgxpool.Pool, logger *log.Logger) Repository {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &postgresRepo{pool: pool, logger: logger}
}

// Create inserts the patient row and its address rows in one transaction.
// Either everything from the input becomes visible or nothing does.
func (r *postgresRepo) Create(ctx context.Context, in CreatePatientInput) (*domain.Patient, error) {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	const insertPatient = `
INSERT INTO patients (first_name, last_name, middle_name, date_of_birth, address, status)
VALUES ($1, $2, $3, $4, $5, $6)
RETURNING ` + patientColumns

	p, err := scanPatient(tx.QueryRow(
		ctx,
		insertPatient,
		in.FirstName,
		in.LastName,
		in.MiddleName,
		in.DateOfBirth,
		in.Address,
		in.Status,
	))
	if err != nil {
		r.logger.Printf("patient repo: insert patient: %v", err)
		return nil, err
	}

	if err := insertAddress(ctx, tx, p.ID, in.PrimaryAddress, true); err != nil {
		r.logger.Printf("patient repo: insert primary address patient=%d: %v", p.ID, err)
		return nil, err
	}
	if in.SecondaryAddress != nil {
		if err := insertAddress(ctx, tx, p.ID, *in.SecondaryAddress, false); err != nil {
			r.logger.Printf("patient repo: insert secondary address patient=%d: %v", p.ID, err)
			return nil, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}
	return p, nil
}

func insertAddress(ctx context.Context, tx pgx.Tx, patientID int64, a AddressInput, primary bool) error {
	const q = `
INSERT INTO patient_addresses (patient_id, address_line1, address_line2, city, state, zip_code, country, address_type, is_primary)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
`
	_, err := tx.Exec(ctx, q,
		patientID,
		a.AddressLine1,
		a.AddressLine2,
		a.City,
		a.State,
		a.ZipCode,
		a.Country,
		a.AddressType,
		primary,
	)
	return err
}

func (r *postgresRepo) GetByID(ctx context.Context, id int64) (*domain.Patient, error) {
	const q = `
SELECT ` + patientColumns + `
FROM patients
WHERE id = $1
`
	return scanPatient(r.pool.QueryRow(ctx, q, id))
}

func (r *postgresRepo) List(ctx context.Context) ([]domain.Patient, error) {
	const q = `
SELECT ` + patientColumns + `
FROM patients
ORDER BY created_at ASC, id ASC
`
	rows, err := r.pool.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	patients := []domain.Patient{}
	for rows.Next() {
		p, err := scanPatient(rows)
		if err != nil {
			return nil, err
		}
		patients = append(patients, *p)
	}
	return patients, rows.Err()
}

// Update applies only the provided fields and always refreshes updated_at.
func (r *postgresRepo) Update(ctx context.Context, id int64, fields UpdateFields) (*domain.Patient, error) {
	sets := []string{"updated_at = now()"}
	args := []interface{}{id}

	add := func(column string, value interface{}) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if fields.FirstName != nil {
		add("first_name", *fields.FirstName)
	}
	if fields.LastName != nil {
		add("last_name", *fields.LastName)
	}
	if fields.SetMiddleName {
		add("middle_name", fields.MiddleName)
	}
	if fields.DateOfBirth != nil {
		add("date_of_birth", *fields.DateOfBirth)
	}
	if fields.Address != nil {
		add("address", *fields.Address)
	}
	if fields.Status != nil {
		add("status", *fields.Status)
	}

	q := fmt.Sprintf(`
UPDATE patients
SET %s
WHERE id = $1
RETURNING %s
`, strings.Join(sets, ", "), patientColumns)

	p, err := scanPatient(r.pool.QueryRow(ctx, q, args...))
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		r.logger.Printf("patient repo: update id=%d: %v", id, err)
	}
	return p, err
}

func (r *postgresRepo) ListAddresses(ctx context.Context, patientID int64) ([]domain.PatientAddress, error) {
	const q = `
SELECT id, patient_id, address_line1, address_line2, city, state, zip_code, country, address_type, is_primary, created_at, updated_at
FROM patient_addresses
WHERE patient_id = $1
ORDER BY is_primary DESC, id ASC
`
	rows, err := r.pool.Query(ctx, q, patientID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	addresses := []domain.PatientAddress{}
	for rows.Next() {
		var a domain.PatientAddress
		if err := rows.Scan(
			&a.ID,
			&a.PatientID,
			&a.AddressLine1,
			&a.AddressLine2,
			&a.City,
			&a.State,
			&a.ZipCode,
			&a.Country,
			&a.AddressType,
			&a.IsPrimary,
			&a.CreatedAt,
			&a.UpdatedAt,
		); err != nil {
			return nil, err
		}
		addresses = append(addresses, a)
	}
	return addresses, rows.Err()
}

func scanPatient(row pgx.Row) (*domain.Patient, error) {
	var p domain.Patient
	err := row.Scan(
		&p.ID,
		&p.FirstName,
		&p.LastName,
		&p.MiddleName,
		&p.DateOfBirth,
		&p.Address,
		&p.Status,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}
