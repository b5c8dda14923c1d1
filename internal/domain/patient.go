package domain

import "time"

// Status is the lifecycle state of a patient record.
type Status string

const (
	StatusInquiry    Status = "inquiry"
	StatusOnboarding Status = "onboarding"
	StatusActive     Status = "active"
	StatusChurned    Status = "churned"
)

// Valid reports whether s is one of the four known statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusInquiry, StatusOnboarding, StatusActive, StatusChurned:
		return true
	}
	return false
}

// AddressType classifies a patient address.
type AddressType string

const (
	AddressTypeHome    AddressType = "home"
	AddressTypeWork    AddressType = "work"
	AddressTypeBilling AddressType = "billing"
	AddressTypeOther   AddressType = "other"
)

// Valid reports whether t is one of the four known address types.
func (t AddressType) Valid() bool {
	switch t {
	case AddressTypeHome, AddressTypeWork, AddressTypeBilling, AddressTypeOther:
		return true
	}
	return false
}

// Patient is a stored patient record. Address holds the single-line rendering
// of the primary address kept on the patients table for backward
// compatibility with older clients.
type Patient struct {
	ID          int64     `json:"id"`
	FirstName   string    `json:"firstName"`
	LastName    string    `json:"lastName"`
	MiddleName  *string   `json:"middleName"`
	DateOfBirth time.Time `json:"dateOfBirth"`
	Address     string    `json:"address"`
	Status      Status    `json:"status"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// PatientAddress is a normalized address row. Exactly one row per patient has
// IsPrimary set; it is the address supplied first at creation time.
type PatientAddress struct {
	ID           int64       `json:"id"`
	PatientID    int64       `json:"patientId"`
	AddressLine1 string      `json:"addressLine1"`
	AddressLine2 *string     `json:"addressLine2"`
	City         string      `json:"city"`
	State        string      `json:"state"`
	ZipCode      string      `json:"zipCode"`
	Country      string      `json:"country"`
	AddressType  AddressType `json:"addressType"`
	IsPrimary    bool        `json:"isPrimary"`
	CreatedAt    time.Time   `json:"createdAt"`
	UpdatedAt    time.Time   `json:"updatedAt"`
}
