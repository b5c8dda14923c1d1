package patient

import (
	"context"
	"strings"
	"time"

	"patient-registry/internal/domain"
	patientrepo "patient-registry/internal/repository/patient"
)

// Service implements the patient lifecycle: atomic create with one or two
// addresses, reads, and partial updates.
type Service struct {
	repo patientrepo.Repository
}

// New creates a Service on top of the given repository.
func New(repo patientrepo.Repository) *Service {
	return &Service{repo: repo}
}

// AddressInput mirrors an incoming address payload.
type AddressInput struct {
	AddressLine1 string  `json:"addressLine1" validate:"required"`
	AddressLine2 *string `json:"addressLine2"`
	City         string  `json:"city" validate:"required"`
	State        string  `json:"state" validate:"required"`
	ZipCode      string  `json:"zipCode" validate:"required"`
	Country      string  `json:"country"`
	AddressType  string  `json:"addressType" validate:"omitempty,oneof=home work billing other"`
}

// CreateInput captures the fields expected by the create endpoint.
type CreateInput struct {
	FirstName        string        `json:"firstName" validate:"required"`
	LastName         string        `json:"lastName" validate:"required"`
	MiddleName       *string       `json:"middleName"`
	DateOfBirth      string        `json:"dateOfBirth" validate:"required"`
	Address          *AddressInput `json:"address" validate:"required"`
	SecondaryAddress *AddressInput `json:"secondaryAddress" validate:"omitempty"`
	Status           string        `json:"status" validate:"omitempty,oneof=inquiry onboarding active churned"`
}

// UpdateInput is the partial-update payload. Every field is optional and only
// fields present in the request are applied.
type UpdateInput struct {
	FirstName   Optional[string] `json:"firstName"`
	LastName    Optional[string] `json:"lastName"`
	MiddleName  Optional[string] `json:"middleName"`
	DateOfBirth Optional[string] `json:"dateOfBirth"`
	Address     Optional[string] `json:"address"`
	Status      Optional[string] `json:"status"`
}

// Create validates the input, derives the denormalized address line from the
// primary address, and persists the patient plus its address rows atomically.
func (s *Service) Create(ctx context.Context, in CreateInput) (*domain.Patient, error) {
	ve := &domain.ValidationError{}
	checkStruct(in, ve)

	var dob time.Time
	if in.DateOfBirth != "" {
		parsed, err := parseDate(in.DateOfBirth)
		if err != nil {
			ve.Add("dateOfBirth", "must be a valid date")
		} else {
			dob = parsed
		}
	}
	if ve.HasErrors() {
		return nil, ve
	}

	status := domain.StatusInquiry
	if in.Status != "" {
		status = domain.Status(in.Status)
	}

	primary := normalizeAddress(*in.Address)
	repoIn := patientrepo.CreatePatientInput{
		FirstName:      in.FirstName,
		LastName:       in.LastName,
		MiddleName:     in.MiddleName,
		DateOfBirth:    dob,
		Address:        addressLine(primary),
		Status:         status,
		PrimaryAddress: primary,
	}
	if in.SecondaryAddress != nil {
		secondary := normalizeAddress(*in.SecondaryAddress)
		repoIn.SecondaryAddress = &secondary
	}

	return s.repo.Create(ctx, repoIn)
}

// Get fetches a patient by id.
func (s *Service) Get(ctx context.Context, id int64) (*domain.Patient, error) {
	return s.repo.GetByID(ctx, id)
}

// List returns every patient in creation order.
func (s *Service) List(ctx context.Context) ([]domain.Patient, error) {
	return s.repo.List(ctx)
}

// Update applies only the fields present in the input. The patient must exist
// before any change is attempted. Address rows are never touched here.
func (s *Service) Update(ctx context.Context, id int64, in UpdateInput) (*domain.Patient, error) {
	fields, err := updateFields(in)
	if err != nil {
		return nil, err
	}

	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return nil, err
	}

	return s.repo.Update(ctx, id, fields)
}

func updateFields(in UpdateInput) (patientrepo.UpdateFields, error) {
	ve := &domain.ValidationError{}
	var fields patientrepo.UpdateFields

	if in.FirstName.Set {
		if in.FirstName.Null || in.FirstName.Value == "" {
			ve.Add("firstName", "is required")
		} else {
			fields.FirstName = &in.FirstName.Value
		}
	}
	if in.LastName.Set {
		if in.LastName.Null || in.LastName.Value == "" {
			ve.Add("lastName", "is required")
		} else {
			fields.LastName = &in.LastName.Value
		}
	}
	if in.MiddleName.Set {
		fields.SetMiddleName = true
		if !in.MiddleName.Null {
			fields.MiddleName = &in.MiddleName.Value
		}
	}
	if in.DateOfBirth.Set {
		if in.DateOfBirth.Null {
			ve.Add("dateOfBirth", "must be a valid date")
		} else if parsed, err := parseDate(in.DateOfBirth.Value); err != nil {
			ve.Add("dateOfBirth", "must be a valid date")
		} else {
			fields.DateOfBirth = &parsed
		}
	}
	if in.Address.Set {
		if in.Address.Null || in.Address.Value == "" {
			ve.Add("address", "is required")
		} else {
			fields.Address = &in.Address.Value
		}
	}
	if in.Status.Set {
		status := domain.Status(in.Status.Value)
		if in.Status.Null || !status.Valid() {
			ve.Add("status", "must be one of: inquiry, onboarding, active, churned")
		} else {
			fields.Status = &status
		}
	}

	if ve.HasErrors() {
		return patientrepo.UpdateFields{}, ve
	}
	return fields, nil
}

// normalizeAddress applies the documented defaults for country and type.
func normalizeAddress(in AddressInput) patientrepo.AddressInput {
	country := in.Country
	if country == "" {
		country = "USA"
	}
	addrType := domain.AddressTypeHome
	if in.AddressType != "" {
		addrType = domain.AddressType(in.AddressType)
	}
	return patientrepo.AddressInput{
		AddressLine1: in.AddressLine1,
		AddressLine2: in.AddressLine2,
		City:         in.City,
		State:        in.State,
		ZipCode:      in.ZipCode,
		Country:      country,
		AddressType:  addrType,
	}
}

// addressLine renders the primary address as the single line stored on the
// patients table, skipping empty components.
func addressLine(a patientrepo.AddressInput) string {
	parts := []string{a.AddressLine1}
	if a.AddressLine2 != nil && *a.AddressLine2 != "" {
		parts = append(parts, *a.AddressLine2)
	}
	parts = append(parts, a.City, a.State, a.ZipCode, a.Country)

	joined := make([]string, 0, len(parts))
	for _, p := range parts {
		if strings.TrimSpace(p) != "" {
			joined = append(joined, p)
		}
	}
	return strings.Join(joined, ", ")
}
