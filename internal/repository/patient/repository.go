package patient

import (
	"context"
	"time"

	"patient-registry/internal/domain"
)

// AddressInput carries the normalized address fields persisted alongside a
// new patient.
type AddressInput struct {
	AddressLine1 string
	AddressLine2 *string
	City         string
	State        string
	ZipCode      string
	Country      string
	AddressType  domain.AddressType
}

// CreatePatientInput is everything the store needs to create a patient and
// its address rows atomically.
type CreatePatientInput struct {
	FirstName        string
	LastName         string
	MiddleName       *string
	DateOfBirth      time.Time
	Address          string
	Status           domain.Status
	PrimaryAddress   AddressInput
	SecondaryAddress *AddressInput
}

// UpdateFields holds the fields of a partial update. Nil pointers mean "not
// provided, leave untouched". MiddleName is nullable: SetMiddleName with a
// nil MiddleName clears the column.
type UpdateFields struct {
	FirstName     *string
	LastName      *string
	SetMiddleName bool
	MiddleName    *string
	DateOfBirth   *time.Time
	Address       *string
	Status        *domain.Status
}

// Repository persists and fetches patients.
type Repository interface {
	Create(ctx context.Context, in CreatePatientInput) (*domain.Patient, error)
	GetByID(ctx context.Context, id int64) (*domain.Patient, error)
	List(ctx context.Context) ([]domain.Patient, error)
	Update(ctx context.Context, id int64, fields UpdateFields) (*domain.Patient, error)
	ListAddresses(ctx context.Context, patientID int64) ([]domain.PatientAddress, error)
}
