package seed

import (
	"context"
	"fmt"

	patientrepo "patient-registry/internal/repository/patient"
	patientsvc "patient-registry/internal/service/patient"
	"github.com/jackc/pgx/v5/pgxpool"
)

type patientSeed struct {
	FirstName   string
	LastName    string
	DateOfBirth string
	Status      string
	Address     patientsvc.AddressInput
}

// Apply inserts demo patients for manual testing. Seeds are matched on
// first/last name so reruns do not duplicate rows.
func Apply(ctx context.Context, pool *pgxpool.Pool) error {
	repo := patientrepo.NewPostgres(pool, nil)
	svc := patientsvc.New(repo)

	patients := []patientSeed{
		{
			FirstName:   "Jane",
			LastName:    "Doe",
			DateOfBirth: "1990-01-01",
			Status:      "active",
			Address: patientsvc.AddressInput{
				AddressLine1: "1 Main St",
				City:         "Springfield",
				State:        "IL",
				ZipCode:      "62704",
			},
		},
		{
			FirstName:   "John",
			LastName:    "Smith",
			DateOfBirth: "1985-06-15",
			Status:      "onboarding",
			Address: patientsvc.AddressInput{
				AddressLine1: "42 Oak Ave",
				City:         "Portland",
				State:        "OR",
				ZipCode:      "97201",
				AddressType:  "work",
			},
		},
	}

	for _, p := range patients {
		exists, err := patientExists(ctx, pool, p.FirstName, p.LastName)
		if err != nil {
			return fmt.Errorf("check patient %s %s: %w", p.FirstName, p.LastName, err)
		}
		if exists {
			continue
		}
		addr := p.Address
		if _, err := svc.Create(ctx, patientsvc.CreateInput{
			FirstName:   p.FirstName,
			LastName:    p.LastName,
			DateOfBirth: p.DateOfBirth,
			Status:      p.Status,
			Address:     &addr,
		}); err != nil {
			return fmt.Errorf("create patient %s %s: %w", p.FirstName, p.LastName, err)
		}
	}

	return nil
}

func patientExists(ctx context.Context, pool *pgxpool.Pool, firstName, lastName string) (bool, error) {
	const q = `SELECT EXISTS (SELECT 1 FROM patients WHERE first_name = $1 AND last_name = $2)`
	var exists bool
	if err := pool.QueryRow(ctx, q, firstName, lastName).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}
