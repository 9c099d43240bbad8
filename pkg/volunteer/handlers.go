package volunteer

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-chi/chi/v5"

	"github.com/rescueops/stationstock/pkg/identity"
	"github.com/rescueops/stationstock/pkg/station"
)

// SubmitApplicationRequest is the intake form payload. The review fields are
// server-controlled and not accepted here.
type SubmitApplicationRequest struct {
	FirstName   string     `json:"firstName"`
	LastName    string     `json:"lastName"`
	DateOfBirth *time.Time `json:"dateOfBirth,omitempty"`
	Address     string     `json:"address"`
	City        string     `json:"city"`
	PostalCode  string     `json:"postalCode"`
	Phone       string     `json:"phone"`
	Email       string     `json:"email"`

	Occupation        string `json:"occupation"`
	Employer          string `json:"employer"`
	EducationLevel    string `json:"educationLevel"`
	PriorService      string `json:"priorService"`
	CriminalDisclosed bool   `json:"criminalDisclosed"`

	CertCPR        bool   `json:"certCpr"`
	CertEMT        bool   `json:"certEmt"`
	CertHazmat     bool   `json:"certHazmat"`
	DriverLicense  string `json:"driverLicense"`
	Languages      string `json:"languages"`
	SpecialSkills  string `json:"specialSkills"`
	Certifications string `json:"certifications"`

	AvailableWeekdays  bool `json:"availableWeekdays"`
	AvailableWeekends  bool `json:"availableWeekends"`
	AvailableOvernight bool `json:"availableOvernight"`
	HoursPerWeek       int  `json:"hoursPerWeek"`

	EmergencyName     string `json:"emergencyName"`
	EmergencyPhone    string `json:"emergencyPhone"`
	EmergencyRelation string `json:"emergencyRelation"`

	IDPhotoFront string `json:"idPhotoFront"`
	IDPhotoBack  string `json:"idPhotoBack"`

	Motivation string `json:"motivation"`
}

// Validate implements request validation.
func (r SubmitApplicationRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.FirstName, validation.Required, validation.Length(1, 100)),
		validation.Field(&r.LastName, validation.Required, validation.Length(1, 100)),
		validation.Field(&r.Phone, validation.Required, validation.Length(5, 30)),
		validation.Field(&r.Email, validation.Required, validation.Length(3, 200)),
		validation.Field(&r.HoursPerWeek, validation.Min(0), validation.Max(168)),
	)
}

// ReviewRequest is the payload for review transitions.
type ReviewRequest struct {
	Status ApplicationStatus `json:"status"`
	Note   string            `json:"note"`
}

// Validate implements request validation.
func (r ReviewRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Status, validation.Required,
			validation.In(StatusUnderReview, StatusAccepted, StatusRejected)),
	)
}

// ApplicationList is a paginated application listing.
type ApplicationList struct {
	Applications  []Application `json:"applications"`
	NextPageToken string        `json:"nextPageToken,omitempty"`
}

func submitHandler(store *Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req SubmitApplicationRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid request body: %v", err))
			return
		}
		if err := req.Validate(); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}

		app := &Application{
			Station:           station.FromContext(r.Context()),
			FirstName:         req.FirstName,
			LastName:          req.LastName,
			Address:           req.Address,
			City:              req.City,
			PostalCode:        req.PostalCode,
			Phone:             req.Phone,
			Email:             req.Email,
			Occupation:        req.Occupation,
			Employer:          req.Employer,
			EducationLevel:    req.EducationLevel,
			PriorService:      req.PriorService,
			CriminalDisclosed: req.CriminalDisclosed,
			CertCPR:           req.CertCPR,
			CertEMT:           req.CertEMT,
			CertHazmat:        req.CertHazmat,
			DriverLicense:     req.DriverLicense,
			Languages:         req.Languages,
			SpecialSkills:     req.SpecialSkills,
			Certifications:    req.Certifications,
			AvailableWeekdays:  req.AvailableWeekdays,
			AvailableWeekends:  req.AvailableWeekends,
			AvailableOvernight: req.AvailableOvernight,
			HoursPerWeek:       req.HoursPerWeek,
			EmergencyName:      req.EmergencyName,
			EmergencyPhone:     req.EmergencyPhone,
			EmergencyRelation:  req.EmergencyRelation,
			IDPhotoFront:       req.IDPhotoFront,
			IDPhotoBack:        req.IDPhotoBack,
			Motivation:         req.Motivation,
		}
		if req.DateOfBirth != nil {
			app.DateOfBirth = *req.DateOfBirth
		}
		if err := store.Create(app); err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}

		writeJSON(w, http.StatusCreated, app)
	}
}

func listHandler(store *Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		filter := ListFilter{Status: ApplicationStatus(q.Get("status"))}

		size := 20
		if v := q.Get("pageSize"); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				size = n
			}
		}

		apps, nextToken, err := store.List(station.FromContext(r.Context()), filter, size, q.Get("pageToken"))
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}

		writeJSON(w, http.StatusOK, ApplicationList{Applications: apps, NextPageToken: nextToken})
	}
}

func getHandler(store *Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		app, err := store.Get(station.FromContext(r.Context()), chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		if app == nil {
			writeError(w, http.StatusNotFound, "volunteer application not found")
			return
		}
		writeJSON(w, http.StatusOK, app)
	}
}

func reviewHandler(store *Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req ReviewRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid request body: %v", err))
			return
		}
		if err := req.Validate(); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}

		app, err := store.Review(
			station.FromContext(r.Context()),
			chi.URLParam(r, "id"),
			identity.UserFromContext(r.Context()),
			req.Status,
			req.Note,
		)
		if err != nil {
			var te *TransitionError
			if errors.As(err, &te) {
				writeJSON(w, http.StatusBadRequest, te)
				return
			}
			if errors.Is(err, ErrApplicationNotFound) {
				writeError(w, http.StatusNotFound, err.Error())
				return
			}
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}

		writeJSON(w, http.StatusOK, app)
	}
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
