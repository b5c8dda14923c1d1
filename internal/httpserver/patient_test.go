package httpserver

import (
	"context"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"patient-registry/internal/domain"
	patientsvc "patient-registry/internal/service/patient"
	"github.com/gin-gonic/gin"
)

type stubPatientService struct {
	patient      *domain.Patient
	patients     []domain.Patient
	err          error
	lastCreate   *patientsvc.CreateInput
	lastUpdateID int64
	lastUpdate   *patientsvc.UpdateInput
}

func (s *stubPatientService) Create(_ context.Context, in patientsvc.CreateInput) (*domain.Patient, error) {
	s.lastCreate = &in
	return s.patient, s.err
}

func (s *stubPatientService) Get(_ context.Context, _ int64) (*domain.Patient, error) {
	return s.patient, s.err
}

func (s *stubPatientService) List(_ context.Context) ([]domain.Patient, error) {
	return s.patients, s.err
}

func (s *stubPatientService) Update(_ context.Context, id int64, in patientsvc.UpdateInput) (*domain.Patient, error) {
	s.lastUpdateID = id
	s.lastUpdate = &in
	return s.patient, s.err
}

func logDiscard() *log.Logger {
	return log.New(io.Discard, "", 0)
}

func testRouter(svc PatientService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	return buildRouter(logDiscard(), nil, Deps{PatientSvc: svc})
}

func doRequest(router *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestListPatients_ReturnsArray(t *testing.T) {
	svc := &stubPatientService{patients: []domain.Patient{{ID: 1, FirstName: "Jane"}, {ID: 2, FirstName: "John"}}}
	rec := doRequest(testRouter(svc), http.MethodGet, "/patients", "")

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	var got []domain.Patient
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if len(got) != 2 || got[0].ID != 1 || got[1].ID != 2 {
		t.Fatalf("unexpected body %+v", got)
	}
}

func TestGetPatient_InvalidID(t *testing.T) {
	svc := &stubPatientService{}
	for _, id := range []string{"abc", "-1", "0", "1.5"} {
		rec := doRequest(testRouter(svc), http.MethodGet, "/patients/"+id, "")
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("id %q: expected status 400, got %d", id, rec.Code)
		}
	}
}

func TestGetPatient_NotFound(t *testing.T) {
	svc := &stubPatientService{err: domain.ErrNotFound}
	rec := doRequest(testRouter(svc), http.MethodGet, "/patients/42", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d", rec.Code)
	}
}

func TestGetPatient_OK(t *testing.T) {
	svc := &stubPatientService{patient: &domain.Patient{ID: 42, FirstName: "Jane", Status: domain.StatusInquiry}}
	rec := doRequest(testRouter(svc), http.MethodGet, "/patients/42", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	var got domain.Patient
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if got.ID != 42 || got.Status != domain.StatusInquiry {
		t.Fatalf("unexpected body %+v", got)
	}
}

func TestCreatePatient_Created(t *testing.T) {
	svc := &stubPatientService{patient: &domain.Patient{
		ID:        7,
		FirstName: "Jane",
		LastName:  "Doe",
		Status:    domain.StatusInquiry,
		CreatedAt: time.Now().UTC(),
	}}
	body := `{"firstName":"Jane","lastName":"Doe","dateOfBirth":"1990-01-01","address":{"addressLine1":"1 Main St","city":"Springfield","state":"IL","zipCode":"62704"}}`
	rec := doRequest(testRouter(svc), http.MethodPost, "/patients", body)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d: %s", rec.Code, rec.Body.String())
	}
	if svc.lastCreate == nil || svc.lastCreate.FirstName != "Jane" || svc.lastCreate.Address == nil {
		t.Fatalf("unexpected create input %+v", svc.lastCreate)
	}
	var got domain.Patient
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if got.ID != 7 || got.Status != domain.StatusInquiry || got.CreatedAt.IsZero() {
		t.Fatalf("unexpected body %+v", got)
	}
}

func TestCreatePatient_ValidationFailure(t *testing.T) {
	ve := &domain.ValidationError{}
	ve.Add("firstName", "is required")
	svc := &stubPatientService{err: ve}

	rec := doRequest(testRouter(svc), http.MethodPost, "/patients", `{"lastName":"Doe"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rec.Code)
	}
	var resp struct {
		Error struct {
			Message string              `json:"message"`
			Fields  []domain.FieldError `json:"fields"`
		} `json:"error"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if len(resp.Error.Fields) != 1 || resp.Error.Fields[0].Field != "firstName" {
		t.Fatalf("unexpected error body %+v", resp)
	}
}

func TestCreatePatient_MalformedBody(t *testing.T) {
	svc := &stubPatientService{}
	rec := doRequest(testRouter(svc), http.MethodPost, "/patients", `{`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rec.Code)
	}
	if svc.lastCreate != nil {
		t.Fatal("service must not be called for malformed body")
	}
}

func TestUpdatePatient_OK(t *testing.T) {
	svc := &stubPatientService{patient: &domain.Patient{ID: 9, Status: domain.StatusChurned}}
	rec := doRequest(testRouter(svc), http.MethodPatch, "/patients/9", `{"status":"churned"}`)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	if svc.lastUpdateID != 9 {
		t.Fatalf("expected update for id 9, got %d", svc.lastUpdateID)
	}
	if svc.lastUpdate == nil || !svc.lastUpdate.Status.Set || svc.lastUpdate.Status.Value != "churned" {
		t.Fatalf("unexpected update input %+v", svc.lastUpdate)
	}
	if svc.lastUpdate.FirstName.Set {
		t.Fatal("absent fields must not be marked as provided")
	}
}

func TestUpdatePatient_InvalidID(t *testing.T) {
	svc := &stubPatientService{}
	rec := doRequest(testRouter(svc), http.MethodPatch, "/patients/xyz", `{"status":"active"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rec.Code)
	}
	if svc.lastUpdate != nil {
		t.Fatal("service must not be called for an invalid id")
	}
}

func TestUpdatePatient_NotFound(t *testing.T) {
	svc := &stubPatientService{err: domain.ErrNotFound}
	rec := doRequest(testRouter(svc), http.MethodPatch, "/patients/12", `{"status":"active"}`)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d", rec.Code)
	}
}

func TestHealthz(t *testing.T) {
	rec := doRequest(testRouter(&stubPatientService{}), http.MethodGet, "/healthz", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
}
