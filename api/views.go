package api

import (
	"github.com/rpupo63/portfolio-cms-backend/models"
	"github.com/rpupo63/portfolio-cms-backend/services"
)

// CollectionResponse wraps list endpoints
type CollectionResponse[T any] struct {
	Data  []T `json:"data"`
	Total int `json:"total"`
}

func newCollection[T any](data []T) CollectionResponse[T] {
	if data == nil {
		data = []T{}
	}
	return CollectionResponse[T]{Data: data, Total: len(data)}
}

// ProjectView is a project with public asset URLs and its publication state
type ProjectView struct {
	*models.Project
	FeaturedImageURL *string  `json:"featured_image_url"`
	ThumbnailURL     *string  `json:"thumbnail_url"`
	GalleryURLs      []string `json:"gallery_urls"`
	IsPublic         bool     `json:"is_public"`
	StatusLabel      string   `json:"status_label"`
}

type TechnologyView struct {
	*models.Technology
	ProjectsCount *int64 `json:"projects_count,omitempty"`
}

type ExperienceView struct {
	*models.Experience
	CompanyLogoURL *string `json:"company_logo_url"`
	Period         string  `json:"period"`
	Duration       string  `json:"duration"`
}

type EducationView struct {
	*models.Education
	InstitutionLogoURL *string `json:"institution_logo_url"`
	Period             string  `json:"period"`
	Duration           string  `json:"duration"`
}

type CertificationView struct {
	models.CertificationView
	BadgeImageURL *string `json:"badge_image_url"`
}

type TestimonialView struct {
	*models.Testimonial
	ClientAvatarURL *string `json:"client_avatar_url"`
}

// presenter turns stored entities into response views. Computed fields are
// evaluated against the clock on every call.
type presenter struct {
	assets *services.AssetManager
	clock  models.Clock
}

func (p presenter) project(project *models.Project) ProjectView {
	gallery := make([]string, 0, len(project.Gallery))
	for _, img := range project.Gallery {
		gallery = append(gallery, p.assets.URL(img))
	}
	return ProjectView{
		Project:          project,
		FeaturedImageURL: p.assets.URLPtr(project.FeaturedImage),
		ThumbnailURL:     p.assets.URLPtr(project.Thumbnail),
		GalleryURLs:      gallery,
		IsPublic:         project.IsPublic(p.clock.Now()),
		StatusLabel:      project.Status.Label(),
	}
}

func (p presenter) projects(projects []*models.Project) []ProjectView {
	views := make([]ProjectView, 0, len(projects))
	for _, project := range projects {
		views = append(views, p.project(project))
	}
	return views
}

func (p presenter) technology(t *models.Technology) any {
	return TechnologyView{Technology: t}
}

func (p presenter) feature(f *models.Feature) any {
	return f
}

func (p presenter) skill(s *models.Skill) any {
	return s
}

func (p presenter) experience(e *models.Experience) any {
	return p.experienceView(e)
}

func (p presenter) experienceView(e *models.Experience) ExperienceView {
	r := e.Range()
	return ExperienceView{
		Experience:     e,
		CompanyLogoURL: p.assets.URLPtr(e.CompanyLogo),
		Period:         r.Label(),
		Duration:       r.Duration(p.clock.Now()),
	}
}

func (p presenter) education(e *models.Education) any {
	return p.educationView(e)
}

func (p presenter) educationView(e *models.Education) EducationView {
	r := e.Range()
	return EducationView{
		Education:          e,
		InstitutionLogoURL: p.assets.URLPtr(e.InstitutionLogo),
		Period:             r.Label(),
		Duration:           r.Duration(p.clock.Now()),
	}
}

func (p presenter) certification(c *models.Certification) any {
	return p.certificationView(c)
}

func (p presenter) certificationView(c *models.Certification) CertificationView {
	return CertificationView{
		CertificationView: c.ViewAt(p.clock.Now()),
		BadgeImageURL:     p.assets.URLPtr(c.BadgeImage),
	}
}

func (p presenter) testimonial(t *models.Testimonial) any {
	return p.testimonialView(t)
}

func (p presenter) testimonialView(t *models.Testimonial) TestimonialView {
	return TestimonialView{
		Testimonial:     t,
		ClientAvatarURL: p.assets.URLPtr(t.ClientAvatar),
	}
}
