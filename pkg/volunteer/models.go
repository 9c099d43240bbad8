package volunteer

import (
	"fmt"
	"time"
)

// ApplicationStatus is the review state of a volunteer application.
type ApplicationStatus string

const (
	StatusPending     ApplicationStatus = "pending"
	StatusUnderReview ApplicationStatus = "under_review"
	StatusAccepted    ApplicationStatus = "accepted"
	StatusRejected    ApplicationStatus = "rejected"
)

// reviewTransitions defines the intake workflow. Applications enter at
// pending; accepted and rejected are terminal.
var reviewTransitions = map[ApplicationStatus][]ApplicationStatus{
	StatusPending:     {StatusUnderReview, StatusRejected},
	StatusUnderReview: {StatusAccepted, StatusRejected},
}

// ValidateTransition checks whether an application may move between statuses.
func ValidateTransition(from, to ApplicationStatus) error {
	for _, allowed := range reviewTransitions[from] {
		if allowed == to {
			return nil
		}
	}
	return &TransitionError{
		Code:    "APPLICATION_INVALID_TRANSITION",
		From:    from,
		To:      to,
		Message: fmt.Sprintf("no transition defined from %s to %s", from, to),
	}
}

// TransitionError is a structured error for invalid review transitions.
type TransitionError struct {
	Code    string            `json:"code"`
	From    ApplicationStatus `json:"from"`
	To      ApplicationStatus `json:"to"`
	Message string            `json:"message"`
}

func (e *TransitionError) Error() string { return e.Message }

// Application is a volunteer intake record. The form content is immutable
// after submission; the review status is the only column that ever changes.
// ID photo paths are stored as opaque strings, the upload pipeline lives
// elsewhere.
type Application struct {
	ID      string            `gorm:"primaryKey;column:id;type:varchar(36)" json:"id"`
	Station string            `gorm:"column:station;index;default:default;not null" json:"station"`
	Status  ApplicationStatus `gorm:"column:status;index;default:pending;not null" json:"status"`

	// Personal details.
	FirstName   string    `gorm:"column:first_name;not null" json:"firstName"`
	LastName    string    `gorm:"column:last_name;not null" json:"lastName"`
	DateOfBirth time.Time `gorm:"column:date_of_birth" json:"dateOfBirth"`
	Address     string    `gorm:"column:address" json:"address,omitempty"`
	City        string    `gorm:"column:city" json:"city,omitempty"`
	PostalCode  string    `gorm:"column:postal_code" json:"postalCode,omitempty"`
	Phone       string    `gorm:"column:phone;not null" json:"phone"`
	Email       string    `gorm:"column:email;not null" json:"email"`

	// Background.
	Occupation        string `gorm:"column:occupation" json:"occupation,omitempty"`
	Employer          string `gorm:"column:employer" json:"employer,omitempty"`
	EducationLevel    string `gorm:"column:education_level" json:"educationLevel,omitempty"`
	PriorService      string `gorm:"column:prior_service;type:text" json:"priorService,omitempty"`
	CriminalDisclosed bool   `gorm:"column:criminal_disclosed" json:"criminalDisclosed"`

	// Skills and certifications.
	CertCPR        bool   `gorm:"column:cert_cpr" json:"certCpr"`
	CertEMT        bool   `gorm:"column:cert_emt" json:"certEmt"`
	CertHazmat     bool   `gorm:"column:cert_hazmat" json:"certHazmat"`
	DriverLicense  string `gorm:"column:driver_license" json:"driverLicense,omitempty"`
	Languages      string `gorm:"column:languages" json:"languages,omitempty"`
	SpecialSkills  string `gorm:"column:special_skills;type:text" json:"specialSkills,omitempty"`
	Certifications string `gorm:"column:certifications;type:text" json:"certifications,omitempty"`

	// Availability.
	AvailableWeekdays  bool `gorm:"column:available_weekdays" json:"availableWeekdays"`
	AvailableWeekends  bool `gorm:"column:available_weekends" json:"availableWeekends"`
	AvailableOvernight bool `gorm:"column:available_overnight" json:"availableOvernight"`
	HoursPerWeek       int  `gorm:"column:hours_per_week" json:"hoursPerWeek"`

	// Emergency contact.
	EmergencyName     string `gorm:"column:emergency_name" json:"emergencyName,omitempty"`
	EmergencyPhone    string `gorm:"column:emergency_phone" json:"emergencyPhone,omitempty"`
	EmergencyRelation string `gorm:"column:emergency_relation" json:"emergencyRelation,omitempty"`

	// Uploaded ID photo paths, written by the upload pipeline.
	IDPhotoFront string `gorm:"column:id_photo_front" json:"idPhotoFront,omitempty"`
	IDPhotoBack  string `gorm:"column:id_photo_back" json:"idPhotoBack,omitempty"`

	Motivation string `gorm:"column:motivation;type:text" json:"motivation,omitempty"`

	ReviewedBy  string     `gorm:"column:reviewed_by" json:"reviewedBy,omitempty"`
	ReviewNote  string     `gorm:"column:review_note" json:"reviewNote,omitempty"`
	ReviewedAt  *time.Time `gorm:"column:reviewed_at" json:"reviewedAt,omitempty"`
	SubmittedAt time.Time  `gorm:"column:submitted_at;autoCreateTime" json:"submittedAt"`
}

// TableName returns the GORM table name.
func (Application) TableName() string { return "volunteer_applications" }

// IsTerminal returns true if the application review is closed.
func (a *Application) IsTerminal() bool {
	return a.Status == StatusAccepted || a.Status == StatusRejected
}
