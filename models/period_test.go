package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCurrentExperienceIgnoresStoredEndDate(t *testing.T) {
	now := date(2025, time.March, 15)
	exp := Experience{
		StartDate: date(2022, time.January, 10),
		EndDate:   datePtr(2023, time.June, 1),
		IsCurrent: true,
	}

	r := exp.Range()
	assert.Nil(t, r.EffectiveEnd())
	assert.Equal(t, "Ene 2022 - Actualidad", r.Label())
	assert.Equal(t, "3 años 3 meses", r.Duration(now))
}

func TestFinishedEducationPeriod(t *testing.T) {
	edu := Education{
		StartDate: date(2015, time.September, 1),
		EndDate:   datePtr(2019, time.June, 30),
	}

	r := edu.Range()
	assert.Equal(t, "Sep 2015 - Jun 2019", r.Label())
	assert.Equal(t, 46, r.Months(date(2030, time.January, 1)))
	assert.Equal(t, "3 años 10 meses", r.Duration(date(2030, time.January, 1)))
}

func TestDurationSingularForms(t *testing.T) {
	r := DateRange{Start: date(2024, time.January, 1), End: datePtr(2025, time.January, 1)}
	assert.Equal(t, "1 año 1 mes", r.Duration(time.Time{}))

	single := DateRange{Start: date(2024, time.May, 3), End: datePtr(2024, time.May, 20)}
	assert.Equal(t, "1 mes", single.Duration(time.Time{}))
}

func TestGroupSkillsByCategory(t *testing.T) {
	skills := []*Skill{
		{Name: "Go", Category: "Backend"},
		{Name: "Vue", Category: "Frontend"},
		{Name: "PostgreSQL", Category: "Backend"},
	}

	groups := GroupSkillsByCategory(skills)
	if assert.Len(t, groups, 2) {
		assert.Equal(t, "Backend", groups[0].Category)
		assert.Equal(t, []*Skill{skills[0], skills[2]}, groups[0].Skills)
		assert.Equal(t, "Frontend", groups[1].Category)
	}
}
