package api

import (
	"net/http"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/rpupo63/portfolio-cms-backend/database"
	"github.com/rpupo63/portfolio-cms-backend/models"
)

const recentMessages = 5

type dashboardHandler struct {
	responder Responder
	logger    zerolog.Logger
	db        database.Database
	clock     models.Clock
}

func newDashboardHandler(db database.Database, clock models.Clock) dashboardHandler {
	logger := log.With().Str("handlerName", "dashboardHandler").Logger()

	return dashboardHandler{
		responder: NewResponder(logger),
		logger:    logger,
		db:        db,
		clock:     clock,
	}
}

// DashboardResponse summarises the content managed by the admin
type DashboardResponse struct {
	Projects struct {
		Total     int64                          `json:"total"`
		Published int64                          `json:"published"`
		ByStatus  map[models.ProjectStatus]int64 `json:"by_status"`
	} `json:"projects"`
	Messages struct {
		Total  int64                    `json:"total"`
		Unread int64                    `json:"unread"`
		Recent []*models.ContactMessage `json:"recent"`
	} `json:"messages"`
	Certifications struct {
		Total   int64 `json:"total"`
		Expired int64 `json:"expired"`
	} `json:"certifications"`
	Technologies int64 `json:"technologies"`
	Skills       int64 `json:"skills"`
	Experiences  int64 `json:"experiences"`
	Testimonials int64 `json:"testimonials"`
}

// getDashboard returns content counts for the admin home
// @Summary Admin dashboard
// @Tags Admin
// @Produce json
// @Success 200 {object} DashboardResponse
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Router /admin/dashboard [get]
func (h dashboardHandler) getDashboard() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		now := h.clock.Now()
		var resp DashboardResponse

		g := new(errgroup.Group)
		g.Go(func() (err error) {
			resp.Projects.Total, err = h.db.ProjectRepo().Count()
			return err
		})
		g.Go(func() (err error) {
			resp.Projects.Published, err = h.db.ProjectRepo().Count(database.Published(now))
			return err
		})
		g.Go(func() (err error) {
			resp.Projects.ByStatus, err = h.db.ProjectRepo().CountByStatus()
			return err
		})
		g.Go(func() (err error) {
			resp.Messages.Total, err = h.db.ContactMessageRepo().Count()
			return err
		})
		g.Go(func() (err error) {
			resp.Messages.Unread, err = h.db.ContactMessageRepo().Count(database.Unread())
			return err
		})
		g.Go(func() (err error) {
			resp.Messages.Recent, err = h.db.ContactMessageRepo().FindAll(database.Latest(), database.Limit(recentMessages))
			return err
		})
		g.Go(func() (err error) {
			resp.Certifications.Total, err = h.db.CertificationRepo().Count()
			return err
		})
		g.Go(func() (err error) {
			resp.Certifications.Expired, err = h.db.CertificationRepo().Count(database.ExpiredCertifications(now))
			return err
		})
		g.Go(func() (err error) {
			resp.Technologies, err = h.db.TechnologyRepo().Count()
			return err
		})
		g.Go(func() (err error) {
			resp.Skills, err = h.db.SkillRepo().Count()
			return err
		})
		g.Go(func() (err error) {
			resp.Experiences, err = h.db.ExperienceRepo().Count()
			return err
		})
		g.Go(func() (err error) {
			resp.Testimonials, err = h.db.TestimonialRepo().Count()
			return err
		})
		if err := g.Wait(); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("load", "dashboard", err))
			return
		}

		if resp.Messages.Recent == nil {
			resp.Messages.Recent = []*models.ContactMessage{}
		}
		h.responder.WriteJSON(w, resp)
	}
}
