package api

import (
	"bytes"
	"fmt"
	"time"

	"github.com/rpupo63/portfolio-cms-backend/models"
)

// routeHandlers contains all the handlers for different route types
type routeHandlers struct {
	authHandler           authHandler
	dashboardHandler      dashboardHandler
	projectHandler        projectHandler
	technologyHandler     crudHandler[models.Technology, technologyInput]
	featureHandler        crudHandler[models.Feature, featureInput]
	skillHandler          crudHandler[models.Skill, skillInput]
	experienceHandler     crudHandler[models.Experience, experienceInput]
	educationHandler      crudHandler[models.Education, educationInput]
	certificationHandler  crudHandler[models.Certification, certificationInput]
	testimonialHandler    crudHandler[models.Testimonial, testimonialInput]
	contactMessageHandler contactMessageHandler
	reorderHandler        reorderHandler
	publicHandler         publicHandler
}

// ErrorResponse represents an error response from the API
// @Description Error response structure
type ErrorResponse struct {
	Error   string            `json:"error" example:"Internal Server Error"`
	Status  string            `json:"status" example:"error"`
	Field   string            `json:"field,omitempty" example:"title"`
	Fields  map[string]string `json:"fields,omitempty"`
	Details string            `json:"details,omitempty" example:"Additional error details"`
	Cause   string            `json:"cause,omitempty" example:"Underlying error cause"`
}

// Date accepts "2006-01-02" as well as RFC 3339 timestamps in request bodies.
type Date struct {
	time.Time
}

func (d *Date) UnmarshalJSON(b []byte) error {
	s := string(bytes.Trim(b, `"`))
	if s == "" || s == "null" {
		d.Time = time.Time{}
		return nil
	}
	for _, layout := range []string{"2006-01-02", time.RFC3339} {
		if t, err := time.Parse(layout, s); err == nil {
			d.Time = t.UTC()
			return nil
		}
	}
	return fmt.Errorf("invalid date %q, expected YYYY-MM-DD", s)
}

// Ptr returns the calendar date, or nil for a missing or empty value.
func (d *Date) Ptr() *time.Time {
	if d == nil || d.IsZero() {
		return nil
	}
	t := models.DateOf(d.Time)
	return &t
}
