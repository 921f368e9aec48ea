package database

import (
	"gorm.io/gorm"

	"github.com/rpupo63/portfolio-cms-backend/models"
)

type Database struct {
	db                 *gorm.DB
	projectRepo        *ProjectRepo
	technologyRepo     *TechnologyRepo
	featureRepo        *Repo[models.Feature]
	skillRepo          *Repo[models.Skill]
	experienceRepo     *Repo[models.Experience]
	educationRepo      *Repo[models.Education]
	certificationRepo  *Repo[models.Certification]
	testimonialRepo    *Repo[models.Testimonial]
	contactMessageRepo *Repo[models.ContactMessage]
	reorderer          *Reorderer
}

// New initializes a new Database struct with each repository using a shared GORM database instance
func New(db *gorm.DB) Database {
	return Database{
		db:                 db,
		projectRepo:        NewProjectRepo(db),
		technologyRepo:     NewTechnologyRepo(db),
		featureRepo:        NewRepo[models.Feature](db),
		skillRepo:          NewRepo[models.Skill](db),
		experienceRepo:     NewRepo[models.Experience](db),
		educationRepo:      NewRepo[models.Education](db),
		certificationRepo:  NewRepo[models.Certification](db),
		testimonialRepo:    NewRepo[models.Testimonial](db),
		contactMessageRepo: NewRepo[models.ContactMessage](db),
		reorderer:          NewReorderer(db),
	}
}

// Accessor methods for each repository

func (d Database) DB() *gorm.DB {
	return d.db
}

func (d Database) ProjectRepo() *ProjectRepo {
	return d.projectRepo
}

func (d Database) TechnologyRepo() *TechnologyRepo {
	return d.technologyRepo
}

func (d Database) FeatureRepo() *Repo[models.Feature] {
	return d.featureRepo
}

func (d Database) SkillRepo() *Repo[models.Skill] {
	return d.skillRepo
}

func (d Database) ExperienceRepo() *Repo[models.Experience] {
	return d.experienceRepo
}

func (d Database) EducationRepo() *Repo[models.Education] {
	return d.educationRepo
}

func (d Database) CertificationRepo() *Repo[models.Certification] {
	return d.certificationRepo
}

func (d Database) TestimonialRepo() *Repo[models.Testimonial] {
	return d.testimonialRepo
}

func (d Database) ContactMessageRepo() *Repo[models.ContactMessage] {
	return d.contactMessageRepo
}

func (d Database) Reorderer() *Reorderer {
	return d.reorderer
}

// Ping checks that the database answers a trivial query
func (d Database) Ping() error {
	var result int
	return d.db.Raw("SELECT 1").Scan(&result).Error
}
