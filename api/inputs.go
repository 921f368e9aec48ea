package api

import (
	"strings"
	"time"

	"gorm.io/datatypes"

	"github.com/rpupo63/portfolio-cms-backend/database"
	"github.com/rpupo63/portfolio-cms-backend/models"
)

// input is a decoded admin payload that writes its fields onto a model.
// Image fields are never part of an input; they go through the media endpoint.
type input[T any] interface {
	apply(item *T)
	explicitOrder() *int
}

// ordering is embedded by every payload of an ordered entity. A nil order
// appends the record at the end of its collection.
type ordering struct {
	Order *int `json:"order"`
}

func (o ordering) explicitOrder() *int {
	return o.Order
}

func (o ordering) applyOrder(dst *int) {
	if o.Order != nil {
		*dst = *o.Order
	}
}

func trimmed(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}

func stringList(values []string) datatypes.JSONSlice[string] {
	out := make(datatypes.JSONSlice[string], 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

// rangeCheck reports an end date that falls before the start date
func rangeCheck(fields map[string]string, startField string, start time.Time, endField string, end *Date) {
	if start.IsZero() {
		fields[startField] = "This field is required"
		return
	}
	if end != nil && !end.IsZero() && models.DateOf(end.Time).Before(models.DateOf(start)) {
		fields[endField] = "Must be on or after " + startField
	}
}

type technologyInput struct {
	Name       string  `json:"name" validate:"required,max=100"`
	Slug       string  `json:"slug" validate:"omitempty,max=120,slug"`
	Type       *string `json:"type" validate:"omitempty,max=50"`
	Icon       *string `json:"icon" validate:"omitempty,max=255"`
	Color      *string `json:"color" validate:"omitempty,max=20"`
	IsFeatured bool    `json:"is_featured"`
	ordering
}

func (in technologyInput) apply(t *models.Technology) {
	t.Name = strings.TrimSpace(in.Name)
	if in.Slug != "" {
		t.Slug = in.Slug
	}
	t.Type = trimmed(in.Type)
	t.Icon = trimmed(in.Icon)
	t.Color = trimmed(in.Color)
	t.IsFeatured = in.IsFeatured
	in.applyOrder(&t.DisplayOrder)
}

type featureInput struct {
	ProjectID   uint    `json:"project_id" validate:"required"`
	Title       string  `json:"title" validate:"required,max=255"`
	Description *string `json:"description"`
	Icon        *string `json:"icon" validate:"omitempty,max=100"`
	ordering
}

func (in featureInput) apply(f *models.Feature) {
	f.ProjectID = in.ProjectID
	f.Title = strings.TrimSpace(in.Title)
	f.Description = trimmed(in.Description)
	f.Icon = trimmed(in.Icon)
	in.applyOrder(&f.DisplayOrder)
}

type skillInput struct {
	Name              string  `json:"name" validate:"required,max=100"`
	Category          string  `json:"category" validate:"required,max=100"`
	Icon              *string `json:"icon" validate:"omitempty,max=255"`
	YearsOfExperience *int    `json:"years_of_experience" validate:"omitempty,min=0,max=80"`
	IsHighlighted     bool    `json:"is_highlighted"`
	ordering
}

func (in skillInput) apply(s *models.Skill) {
	s.Name = strings.TrimSpace(in.Name)
	s.Category = strings.TrimSpace(in.Category)
	s.Icon = trimmed(in.Icon)
	s.YearsOfExperience = in.YearsOfExperience
	s.IsHighlighted = in.IsHighlighted
	in.applyOrder(&s.DisplayOrder)
}

type experienceInput struct {
	Title            string   `json:"title" validate:"required,max=255"`
	Company          string   `json:"company" validate:"required,max=255"`
	CompanyURL       *string  `json:"company_url" validate:"omitempty,url"`
	Location         *string  `json:"location" validate:"omitempty,max=255"`
	EmploymentType   *string  `json:"employment_type" validate:"omitempty,employment_type"`
	Description      *string  `json:"description"`
	Responsibilities []string `json:"responsibilities" validate:"omitempty,dive,max=500"`
	Achievements     []string `json:"achievements" validate:"omitempty,dive,max=500"`
	StartDate        Date     `json:"start_date"`
	EndDate          *Date    `json:"end_date"`
	IsCurrent        bool     `json:"is_current"`
	ordering
}

func (in experienceInput) Check() map[string]string {
	fields := make(map[string]string)
	rangeCheck(fields, "start_date", in.StartDate.Time, "end_date", in.EndDate)
	return fields
}

func (in experienceInput) apply(e *models.Experience) {
	e.Title = strings.TrimSpace(in.Title)
	e.Company = strings.TrimSpace(in.Company)
	e.CompanyURL = trimmed(in.CompanyURL)
	e.Location = trimmed(in.Location)
	e.EmploymentType = trimmed(in.EmploymentType)
	e.Description = trimmed(in.Description)
	e.Responsibilities = stringList(in.Responsibilities)
	e.Achievements = stringList(in.Achievements)
	e.StartDate = models.DateOf(in.StartDate.Time)
	e.EndDate = in.EndDate.Ptr()
	e.IsCurrent = in.IsCurrent
	in.applyOrder(&e.DisplayOrder)
}

type educationInput struct {
	Degree       string  `json:"degree" validate:"required,max=255"`
	Institution  string  `json:"institution" validate:"required,max=255"`
	Location     *string `json:"location" validate:"omitempty,max=255"`
	FieldOfStudy *string `json:"field_of_study" validate:"omitempty,max=255"`
	Description  *string `json:"description"`
	StartDate    Date    `json:"start_date"`
	EndDate      *Date   `json:"end_date"`
	IsCurrent    bool    `json:"is_current"`
	ordering
}

func (in educationInput) Check() map[string]string {
	fields := make(map[string]string)
	rangeCheck(fields, "start_date", in.StartDate.Time, "end_date", in.EndDate)
	return fields
}

func (in educationInput) apply(e *models.Education) {
	e.Degree = strings.TrimSpace(in.Degree)
	e.Institution = strings.TrimSpace(in.Institution)
	e.Location = trimmed(in.Location)
	e.FieldOfStudy = trimmed(in.FieldOfStudy)
	e.Description = trimmed(in.Description)
	e.StartDate = models.DateOf(in.StartDate.Time)
	e.EndDate = in.EndDate.Ptr()
	e.IsCurrent = in.IsCurrent
	in.applyOrder(&e.DisplayOrder)
}

type certificationInput struct {
	Name                string  `json:"name" validate:"required,max=255"`
	IssuingOrganization string  `json:"issuing_organization" validate:"required,max=255"`
	CredentialID        *string `json:"credential_id" validate:"omitempty,max=255"`
	CredentialURL       *string `json:"credential_url" validate:"omitempty,url"`
	IssueDate           Date    `json:"issue_date"`
	ExpiryDate          *Date   `json:"expiry_date"`
	DoesNotExpire       bool    `json:"does_not_expire"`
	ordering
}

func (in certificationInput) Check() map[string]string {
	fields := make(map[string]string)
	rangeCheck(fields, "issue_date", in.IssueDate.Time, "expiry_date", in.ExpiryDate)
	return fields
}

func (in certificationInput) apply(c *models.Certification) {
	c.Name = strings.TrimSpace(in.Name)
	c.IssuingOrganization = strings.TrimSpace(in.IssuingOrganization)
	c.CredentialID = trimmed(in.CredentialID)
	c.CredentialURL = trimmed(in.CredentialURL)
	c.IssueDate = models.DateOf(in.IssueDate.Time)
	c.ExpiryDate = in.ExpiryDate.Ptr()
	c.DoesNotExpire = in.DoesNotExpire
	in.applyOrder(&c.DisplayOrder)
}

type testimonialInput struct {
	ProjectID      *uint   `json:"project_id"`
	ClientName     string  `json:"client_name" validate:"required,max=255"`
	ClientPosition *string `json:"client_position" validate:"omitempty,max=255"`
	ClientCompany  *string `json:"client_company" validate:"omitempty,max=255"`
	Content        string  `json:"content" validate:"required"`
	Rating         int     `json:"rating" validate:"required,min=1,max=5"`
	IsFeatured     bool    `json:"is_featured"`
	IsPublished    bool    `json:"is_published"`
	ordering
}

func (in testimonialInput) apply(t *models.Testimonial) {
	t.ProjectID = in.ProjectID
	if t.ProjectID != nil && *t.ProjectID == 0 {
		t.ProjectID = nil
	}
	t.ClientName = strings.TrimSpace(in.ClientName)
	t.ClientPosition = trimmed(in.ClientPosition)
	t.ClientCompany = trimmed(in.ClientCompany)
	t.Content = strings.TrimSpace(in.Content)
	t.Rating = in.Rating
	t.IsFeatured = in.IsFeatured
	t.IsPublished = in.IsPublished
	in.applyOrder(&t.DisplayOrder)
}

type technologyLinkInput struct {
	TechnologyID uint `json:"technology_id" validate:"required"`
	Order        *int `json:"order"`
}

func technologyLinks(in []technologyLinkInput) []database.TechnologyLink {
	links := make([]database.TechnologyLink, len(in))
	for i, l := range in {
		order := i
		if l.Order != nil {
			order = *l.Order
		}
		links[i] = database.TechnologyLink{TechnologyID: l.TechnologyID, Order: order}
	}
	return links
}

type projectInput struct {
	Title            string                `json:"title" validate:"required,max=255"`
	Slug             string                `json:"slug" validate:"omitempty,max=255,slug"`
	ShortDescription *string               `json:"short_description" validate:"omitempty,max=500"`
	Content          string                `json:"content" validate:"required"`
	DemoURL          *string               `json:"demo_url" validate:"omitempty,url"`
	RepositoryURL    *string               `json:"repository_url" validate:"omitempty,url"`
	ClientName       *string               `json:"client_name" validate:"omitempty,max=255"`
	ClientURL        *string               `json:"client_url" validate:"omitempty,url"`
	StartDate        *Date                 `json:"start_date"`
	EndDate          *Date                 `json:"end_date"`
	Status           models.ProjectStatus  `json:"status" validate:"omitempty,project_status"`
	IsFeatured       bool                  `json:"is_featured"`
	IsPublished      bool                  `json:"is_published"`
	ShowInPortfolio  bool                  `json:"show_in_portfolio"`
	PublishedAt      *time.Time            `json:"published_at"`
	Technologies     []technologyLinkInput `json:"technologies" validate:"omitempty,dive"`
	ordering
}

func (in projectInput) Check() map[string]string {
	fields := make(map[string]string)
	if in.StartDate != nil && !in.StartDate.IsZero() {
		rangeCheck(fields, "start_date", in.StartDate.Time, "end_date", in.EndDate)
	}
	return fields
}

// apply writes the payload onto p. Publishing without a publication date
// stamps now; an explicit published_at schedules the project.
func (in projectInput) apply(p *models.Project, now time.Time) {
	p.Title = strings.TrimSpace(in.Title)
	if in.Slug != "" {
		p.Slug = in.Slug
	}
	p.ShortDescription = trimmed(in.ShortDescription)
	p.Content = in.Content
	p.DemoURL = trimmed(in.DemoURL)
	p.RepositoryURL = trimmed(in.RepositoryURL)
	p.ClientName = trimmed(in.ClientName)
	p.ClientURL = trimmed(in.ClientURL)
	p.StartDate = in.StartDate.Ptr()
	p.EndDate = in.EndDate.Ptr()
	p.Status = in.Status
	if p.Status == "" {
		p.Status = models.ProjectStatusDraft
	}
	p.IsFeatured = in.IsFeatured
	p.ShowInPortfolio = in.ShowInPortfolio
	if in.PublishedAt != nil {
		at := in.PublishedAt.UTC()
		p.PublishedAt = &at
	}
	if in.IsPublished {
		p.Publish(now)
	} else {
		p.IsPublished = false
	}
	in.applyOrder(&p.DisplayOrder)
}
