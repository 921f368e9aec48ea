package api

import (
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rpupo63/portfolio-cms-backend/models"
)

func createProject(t *testing.T, s *testServer, body map[string]any) map[string]any {
	t.Helper()
	payload := map[string]any{"content": "Long form description"}
	for k, v := range body {
		payload[k] = v
	}
	rec := s.doJSON(http.MethodPost, "/admin/projects", payload)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var project map[string]any
	decode(t, rec, &project)
	return project
}

func projectSlugs(data []map[string]any) []string {
	out := make([]string, len(data))
	for i, p := range data {
		out[i], _ = p["slug"].(string)
	}
	return out
}

func TestPublicProjectsRespectPublication(t *testing.T) {
	s := newTestServer(t, nil)
	s.login()

	live := createProject(t, s, map[string]any{"title": "Live Site", "is_published": true, "show_in_portfolio": true})
	assert.Equal(t, "live-site", live["slug"])
	assert.Equal(t, true, live["is_public"])

	createProject(t, s, map[string]any{
		"title": "Scheduled", "is_published": true, "show_in_portfolio": true,
		"published_at": testNow.Add(24 * time.Hour).Format(time.RFC3339),
	})
	createProject(t, s, map[string]any{"title": "Draft", "show_in_portfolio": true})
	createProject(t, s, map[string]any{"title": "Hidden", "is_published": true})

	rec := s.doJSON(http.MethodGet, "/public/projects", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var page struct {
		Data    []map[string]any `json:"data"`
		Total   int64            `json:"total"`
		Page    int              `json:"page"`
		PerPage int              `json:"per_page"`
	}
	decode(t, rec, &page)
	assert.Equal(t, []string{"live-site"}, projectSlugs(page.Data))
	assert.EqualValues(t, 1, page.Total)
	assert.Equal(t, 1, page.Page)
	assert.Equal(t, defaultPerPage, page.PerPage)

	for _, slug := range []string{"scheduled", "draft", "hidden", "missing"} {
		rec = s.doJSON(http.MethodGet, "/public/projects/"+slug, nil)
		assert.Equal(t, http.StatusNotFound, rec.Code, slug)
	}

	// the admin list still sees everything
	rec = s.doJSON(http.MethodGet, "/admin/projects", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var all CollectionResponse[map[string]any]
	decode(t, rec, &all)
	assert.Equal(t, 4, all.Total)
}

func TestPublicProjectDetailCountsViewsAndLikes(t *testing.T) {
	s := newTestServer(t, nil)
	s.login()
	createProject(t, s, map[string]any{"title": "Shop", "is_published": true, "show_in_portfolio": true})

	rec := s.doJSON(http.MethodGet, "/public/projects/shop", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var detail struct {
		Project map[string]any `json:"project"`
		SEO     struct {
			Meta struct {
				Title     string `json:"title"`
				Canonical string `json:"canonical"`
			} `json:"meta"`
		} `json:"seo"`
	}
	decode(t, rec, &detail)
	assert.EqualValues(t, 1, detail.Project["views_count"])
	assert.Equal(t, "Shop | Portfolio", detail.SEO.Meta.Title)
	assert.Equal(t, "https://example.com/portfolio/shop", detail.SEO.Meta.Canonical)

	rec = s.doJSON(http.MethodPost, "/public/projects/shop/like", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var likes map[string]int64
	decode(t, rec, &likes)
	assert.EqualValues(t, 1, likes["likes_count"])

	var stored models.Project
	require.NoError(t, s.db.Where("slug = ?", "shop").First(&stored).Error)
	assert.EqualValues(t, 1, stored.ViewsCount)
	assert.EqualValues(t, 1, stored.LikesCount)
}

func TestPublicProjectsFilterByTechnology(t *testing.T) {
	s := newTestServer(t, nil)
	s.login()

	rec := s.doJSON(http.MethodPost, "/admin/technologies", map[string]any{"name": "Go"})
	require.Equal(t, http.StatusCreated, rec.Code)
	var tech map[string]any
	decode(t, rec, &tech)

	createProject(t, s, map[string]any{
		"title": "API", "is_published": true, "show_in_portfolio": true,
		"technologies": []map[string]any{{"technology_id": tech["id"]}},
	})
	createProject(t, s, map[string]any{"title": "Blog", "is_published": true, "show_in_portfolio": true})

	rec = s.doJSON(http.MethodGet, "/public/projects?technology=go", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var page CollectionResponse[map[string]any]
	decode(t, rec, &page)
	assert.Equal(t, []string{"api"}, projectSlugs(page.Data))

	rec = s.doJSON(http.MethodGet, "/public/technologies", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var techs CollectionResponse[map[string]any]
	decode(t, rec, &techs)
	require.Len(t, techs.Data, 1)
	assert.EqualValues(t, 1, techs.Data[0]["projects_count"])
}

func TestContactSubmission(t *testing.T) {
	s := newTestServer(t, nil)

	rec := s.doJSON(http.MethodPost, "/public/contact", map[string]any{
		"name": "Ana", "email": "ana@example.com", "subject": "Hola", "message": "Me interesa trabajar contigo.",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var msg models.ContactMessage
	require.NoError(t, s.db.First(&msg).Error)
	assert.Equal(t, models.MessageStatusNew, msg.Status)
	require.NotNil(t, msg.IPAddress)
	assert.NotEmpty(t, *msg.IPAddress)

	require.Len(t, s.mailer.sent, 1)
	assert.Equal(t, []string{"owner@example.com"}, s.mailer.sent[0].To)
	assert.Equal(t, "ana@example.com", s.mailer.sent[0].ReplyTo)

	rec = s.doJSON(http.MethodPost, "/public/contact", map[string]any{"name": "Ana", "email": "not-an-email", "message": "short"})
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	fields := errorFields(t, rec)
	assert.Contains(t, fields, "email")
	assert.Contains(t, fields, "message")
}

func TestContactSubmissionIsRateLimited(t *testing.T) {
	s := newTestServer(t, map[string]string{"CONTACT_RATE_PER_MINUTE": "1"})
	body := map[string]any{"name": "Ana", "email": "ana@example.com", "message": "Un mensaje suficientemente largo."}

	// burst of three, then the limiter answers
	for i := 0; i < 3; i++ {
		rec := s.doJSON(http.MethodPost, "/public/contact", body)
		require.Equal(t, http.StatusCreated, rec.Code, fmt.Sprintf("request %d", i))
	}
	rec := s.doJSON(http.MethodPost, "/public/contact", body)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)

	var count int64
	s.db.Model(&models.ContactMessage{}).Count(&count)
	assert.EqualValues(t, 3, count)
}

func TestPublicCertificationsStatusFilter(t *testing.T) {
	s := newTestServer(t, nil)
	expired := testNow.AddDate(0, -1, 0)
	require.NoError(t, s.db.Create(&models.Certification{Name: "Old", IssuingOrganization: "AWS", IssueDate: testNow.AddDate(-3, 0, 0), ExpiryDate: &expired}).Error)
	require.NoError(t, s.db.Create(&models.Certification{Name: "Forever", IssuingOrganization: "CNCF", IssueDate: testNow.AddDate(-1, 0, 0), DoesNotExpire: true}).Error)

	rec := s.doJSON(http.MethodGet, "/public/certifications?status=active", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var active CollectionResponse[map[string]any]
	decode(t, rec, &active)
	require.Len(t, active.Data, 1)
	assert.Equal(t, "Forever", active.Data[0]["name"])

	rec = s.doJSON(http.MethodGet, "/public/certifications?status=expired", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var old CollectionResponse[map[string]any]
	decode(t, rec, &old)
	require.Len(t, old.Data, 1)
	assert.Equal(t, "Old", old.Data[0]["name"])

	rec = s.doJSON(http.MethodGet, "/public/certifications?status=soon", nil)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestHomeAndHealth(t *testing.T) {
	s := newTestServer(t, nil)
	s.login()
	createProject(t, s, map[string]any{"title": "Star", "is_published": true, "show_in_portfolio": true, "is_featured": true})

	rec := s.doJSON(http.MethodGet, "/public/home", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var home struct {
		FeaturedProjects []map[string]any `json:"featured_projects"`
		Skills           []any            `json:"skills"`
	}
	decode(t, rec, &home)
	assert.Equal(t, []string{"star"}, projectSlugs(home.FeaturedProjects))
	assert.NotNil(t, home.Skills)

	rec = s.doJSON(http.MethodGet, "/health", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var health HealthResponse
	decode(t, rec, &health)
	assert.Equal(t, "ok", health.Database)
}
