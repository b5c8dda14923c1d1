package httpserver

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"patient-registry/internal/domain"
	patientsvc "patient-registry/internal/service/patient"
	"github.com/gin-gonic/gin"
)

// PatientService is the surface of the patient service the handlers need.
type PatientService interface {
	Create(ctx context.Context, in patientsvc.CreateInput) (*domain.Patient, error)
	Get(ctx context.Context, id int64) (*domain.Patient, error)
	List(ctx context.Context) ([]domain.Patient, error)
	Update(ctx context.Context, id int64, in patientsvc.UpdateInput) (*domain.Patient, error)
}

// Deps carries the services the router depends on.
type Deps struct {
	PatientSvc PatientService
}

type errorBody struct {
	Message string              `json:"message"`
	Fields  []domain.FieldError `json:"fields,omitempty"`
}

type errorResponse struct {
	Error errorBody `json:"error"`
}

func listPatientsHandler(svc PatientService) gin.HandlerFunc {
	return func(c *gin.Context) {
		patients, err := svc.List(c.Request.Context())
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, patients)
	}
}

func getPatientHandler(svc PatientService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parsePatientID(c)
		if !ok {
			return
		}
		p, err := svc.Get(c.Request.Context(), id)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, p)
	}
}

func createPatientHandler(svc PatientService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in patientsvc.CreateInput
		if err := c.ShouldBindJSON(&in); err != nil {
			c.JSON(http.StatusBadRequest, errorResponse{Error: errorBody{Message: "invalid request body"}})
			return
		}
		p, err := svc.Create(c.Request.Context(), in)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusCreated, p)
	}
}

func updatePatientHandler(svc PatientService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parsePatientID(c)
		if !ok {
			return
		}
		var in patientsvc.UpdateInput
		if err := c.ShouldBindJSON(&in); err != nil {
			c.JSON(http.StatusBadRequest, errorResponse{Error: errorBody{Message: "invalid request body"}})
			return
		}
		p, err := svc.Update(c.Request.Context(), id, in)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, p)
	}
}

// parsePatientID rejects non-numeric and non-positive route ids with a 400
// before the service is ever consulted.
func parsePatientID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, errorResponse{Error: errorBody{Message: "invalid patient id"}})
		return 0, false
	}
	return id, true
}

func writeError(c *gin.Context, err error) {
	if ve, ok := domain.AsValidation(err); ok {
		c.JSON(http.StatusBadRequest, errorResponse{Error: errorBody{Message: "validation failed", Fields: ve.Fields}})
		return
	}
	if errors.Is(err, domain.ErrNotFound) {
		c.JSON(http.StatusNotFound, errorResponse{Error: errorBody{Message: "patient not found"}})
		return
	}
	c.JSON(http.StatusInternalServerError, errorResponse{Error: errorBody{Message: "internal error"}})
}
