package database

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/rpupo63/portfolio-cms-backend/errs"
	"github.com/rpupo63/portfolio-cms-backend/models"
	"github.com/rpupo63/portfolio-cms-backend/testutil"
)

var now = time.Date(2025, time.April, 10, 12, 0, 0, 0, time.UTC)

func addProject(t *testing.T, repo *ProjectRepo, slug string, mutate func(*models.Project)) *models.Project {
	t.Helper()
	p := &models.Project{Title: slug, Slug: slug, Content: "content", Status: models.ProjectStatusCompleted}
	if mutate != nil {
		mutate(p)
	}
	require.NoError(t, repo.Add(p))
	return p
}

func published(at time.Time) func(*models.Project) {
	return func(p *models.Project) {
		p.IsPublished = true
		p.ShowInPortfolio = true
		p.PublishedAt = &at
	}
}

func addTechnology(t *testing.T, db *gorm.DB, slug string) *models.Technology {
	t.Helper()
	tech := &models.Technology{Name: slug, Slug: slug}
	require.NoError(t, db.Create(tech).Error)
	return tech
}

func slugs(projects []*models.Project) []string {
	out := make([]string, len(projects))
	for i, p := range projects {
		out[i] = p.Slug
	}
	return out
}

func TestPublishedScopeGate(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewProjectRepo(db)

	addProject(t, repo, "live", published(now.Add(-time.Hour)))
	addProject(t, repo, "scheduled", published(now.Add(time.Hour)))
	addProject(t, repo, "unflagged", func(p *models.Project) {
		at := now.Add(-time.Hour)
		p.PublishedAt = &at
	})
	addProject(t, repo, "flag-only", func(p *models.Project) { p.IsPublished = true })

	projects, err := repo.FindAll(Published(now), Ordered())
	require.NoError(t, err)
	assert.Equal(t, []string{"live"}, slugs(projects))

	// the same rows pass once the clock reaches the scheduled date
	projects, err = repo.FindAll(Published(now.Add(2*time.Hour)), Ordered())
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"live", "scheduled"}, slugs(projects))
}

func TestPublishedScopeComposes(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewProjectRepo(db)
	goTech := addTechnology(t, db, "go")

	a := addProject(t, repo, "a", func(p *models.Project) {
		published(now.Add(-time.Hour))(p)
		p.IsFeatured = true
		p.DisplayOrder = 2
	})
	addProject(t, repo, "b", func(p *models.Project) {
		published(now.Add(-time.Hour))(p)
		p.DisplayOrder = 1
	})
	c := addProject(t, repo, "c", func(p *models.Project) {
		published(now.Add(-time.Hour))(p)
		p.IsFeatured = true
		p.DisplayOrder = 0
	})
	require.NoError(t, repo.SyncTechnologies(a.ID, []TechnologyLink{{TechnologyID: goTech.ID}}))
	require.NoError(t, repo.SyncTechnologies(c.ID, []TechnologyLink{{TechnologyID: goTech.ID}}))

	all, err := repo.FindAll(Published(now), InPortfolio(), Ordered())
	require.NoError(t, err)
	assert.Equal(t, []string{"c", "b", "a"}, slugs(all))

	featured, err := repo.FindAll(Published(now), Featured(), WithTechnology("go"), Ordered())
	require.NoError(t, err)
	assert.Equal(t, []string{"c", "a"}, slugs(featured))
}

func TestIncrementViewsAndLikes(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewProjectRepo(db)
	p := addProject(t, repo, "counted", nil)

	require.NoError(t, repo.IncrementViews(p.ID))
	require.NoError(t, repo.IncrementViews(p.ID))
	require.NoError(t, repo.IncrementLikes(p.ID))

	got, err := repo.FindByID(p.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 2, got.ViewsCount)
	assert.EqualValues(t, 1, got.LikesCount)

	assert.ErrorIs(t, repo.IncrementViews(9999), gorm.ErrRecordNotFound)
}

func TestSyncTechnologiesReplacesSet(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewProjectRepo(db)
	p := addProject(t, repo, "stack", nil)
	goTech := addTechnology(t, db, "go")
	vue := addTechnology(t, db, "vue")
	pg := addTechnology(t, db, "postgres")

	require.NoError(t, repo.SyncTechnologies(p.ID, []TechnologyLink{
		{TechnologyID: goTech.ID, Order: 2},
		{TechnologyID: vue.ID, Order: 1},
	}))
	got, err := repo.FindByID(p.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"vue", "go"}, got.TechnologyNames())

	require.NoError(t, repo.SyncTechnologies(p.ID, []TechnologyLink{
		{TechnologyID: pg.ID, Order: 0},
	}))
	got, err = repo.FindByID(p.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"postgres"}, got.TechnologyNames())
}

func TestSyncTechnologiesUnknownIDKeepsExistingSet(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewProjectRepo(db)
	p := addProject(t, repo, "stack", nil)
	goTech := addTechnology(t, db, "go")
	require.NoError(t, repo.SyncTechnologies(p.ID, []TechnologyLink{{TechnologyID: goTech.ID}}))

	err := repo.SyncTechnologies(p.ID, []TechnologyLink{{TechnologyID: 42}})
	require.Error(t, err)
	assert.True(t, errs.IsValidationError(err))

	got, err := repo.FindByID(p.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"go"}, got.TechnologyNames())
}

func TestSoftDeleteRestoreAndForceDelete(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewProjectRepo(db)
	p := addProject(t, repo, "trashable", nil)
	goTech := addTechnology(t, db, "go")
	require.NoError(t, repo.SyncTechnologies(p.ID, []TechnologyLink{{TechnologyID: goTech.ID}}))
	require.NoError(t, db.Create(&models.Feature{ProjectID: p.ID, Title: "Fast"}).Error)
	testimonial := &models.Testimonial{ProjectID: &p.ID, ClientName: "Ana", Content: "Great", Rating: 5}
	require.NoError(t, db.Create(testimonial).Error)

	require.NoError(t, repo.Delete(p.ID))
	_, err := repo.FindByID(p.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	trashed, err := repo.FindTrashed()
	require.NoError(t, err)
	assert.Equal(t, []string{"trashable"}, slugs(trashed))

	exists, err := repo.SlugExists("trashable", 0)
	require.NoError(t, err)
	assert.True(t, exists, "trashed slugs stay reserved")

	restored, err := repo.Restore(p.ID)
	require.NoError(t, err)
	assert.Equal(t, "trashable", restored.Slug)

	removed, err := repo.ForceDelete(p.ID)
	require.NoError(t, err)
	assert.Equal(t, p.ID, removed.ID)

	var features, links int64
	db.Model(&models.Feature{}).Count(&features)
	db.Model(&models.ProjectTechnology{}).Count(&links)
	assert.Zero(t, features)
	assert.Zero(t, links)

	var detached models.Testimonial
	require.NoError(t, db.First(&detached, testimonial.ID).Error)
	assert.Nil(t, detached.ProjectID)
}

func TestCountByStatus(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewProjectRepo(db)
	addProject(t, repo, "one", nil)
	addProject(t, repo, "two", nil)
	addProject(t, repo, "three", func(p *models.Project) { p.Status = models.ProjectStatusInProgress })

	counts, err := repo.CountByStatus()
	require.NoError(t, err)
	assert.EqualValues(t, 2, counts[models.ProjectStatusCompleted])
	assert.EqualValues(t, 1, counts[models.ProjectStatusInProgress])
	assert.EqualValues(t, 0, counts[models.ProjectStatusArchived])
}

func TestRelatedSharesTechnology(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewProjectRepo(db)
	goTech := addTechnology(t, db, "go")
	vue := addTechnology(t, db, "vue")

	base := addProject(t, repo, "main", published(now.Add(-time.Hour)))
	sibling := addProject(t, repo, "sibling", published(now.Add(-time.Hour)))
	other := addProject(t, repo, "other", published(now.Add(-time.Hour)))
	draft := addProject(t, repo, "draft", nil)
	require.NoError(t, repo.SyncTechnologies(base.ID, []TechnologyLink{{TechnologyID: goTech.ID}}))
	require.NoError(t, repo.SyncTechnologies(sibling.ID, []TechnologyLink{{TechnologyID: goTech.ID}}))
	require.NoError(t, repo.SyncTechnologies(other.ID, []TechnologyLink{{TechnologyID: vue.ID}}))
	require.NoError(t, repo.SyncTechnologies(draft.ID, []TechnologyLink{{TechnologyID: goTech.ID}}))

	loaded, err := repo.FindByID(base.ID)
	require.NoError(t, err)
	related, err := repo.Related(loaded, now, 3)
	require.NoError(t, err)
	assert.Equal(t, []string{"sibling"}, slugs(related))
}
