package database

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/rpupo63/portfolio-cms-backend/errs"
	"github.com/rpupo63/portfolio-cms-backend/models"
	"github.com/rpupo63/portfolio-cms-backend/testutil"
)

func seedSkills(t *testing.T, db *gorm.DB, n int) []*models.Skill {
	t.Helper()
	skills := make([]*models.Skill, n)
	for i := range skills {
		skills[i] = &models.Skill{
			Name:         fmt.Sprintf("Skill %d", i+1),
			Category:     "Backend",
			DisplayOrder: 100 + i,
		}
		require.NoError(t, db.Create(skills[i]).Error)
	}
	return skills
}

func orderOf(t *testing.T, db *gorm.DB, id uint) int {
	t.Helper()
	var skill models.Skill
	require.NoError(t, db.First(&skill, id).Error)
	return skill.DisplayOrder
}

func TestReorderAppliesListedOrdersOnly(t *testing.T) {
	db := testutil.NewDB(t)
	seedSkills(t, db, 8)
	var before models.Skill
	require.NoError(t, db.First(&before, 3).Error)

	err := NewReorderer(db).Reorder("skills", []OrderItem{{ID: 3, Order: 1}, {ID: 7, Order: 2}})
	require.NoError(t, err)

	assert.Equal(t, 1, orderOf(t, db, 3))
	assert.Equal(t, 2, orderOf(t, db, 7))
	for _, id := range []uint{1, 2, 4, 5, 6, 8} {
		assert.Equal(t, 100+int(id)-1, orderOf(t, db, id), "skill %d", id)
	}

	var after models.Skill
	require.NoError(t, db.First(&after, 3).Error)
	assert.True(t, before.UpdatedAt.Equal(after.UpdatedAt), "updated_at must not move")
}

func TestReorderUnknownIDWritesNothing(t *testing.T) {
	db := testutil.NewDB(t)
	seedSkills(t, db, 3)

	err := NewReorderer(db).Reorder("skills", []OrderItem{{ID: 1, Order: 9}, {ID: 999, Order: 1}})
	require.Error(t, err)
	assert.True(t, errs.IsValidationError(err))

	var apiErr *errs.ApiErr
	require.ErrorAs(t, err, &apiErr)
	assert.Contains(t, apiErr.Fields, "items.1.id")
	assert.NotContains(t, apiErr.Fields, "items.0.id")

	assert.Equal(t, 100, orderOf(t, db, 1))
}

func TestReorderAcceptsDuplicateAndNegativeOrders(t *testing.T) {
	db := testutil.NewDB(t)
	seedSkills(t, db, 3)

	err := NewReorderer(db).Reorder("skills", []OrderItem{{ID: 1, Order: -5}, {ID: 2, Order: -5}, {ID: 3, Order: 40}})
	require.NoError(t, err)

	assert.Equal(t, -5, orderOf(t, db, 1))
	assert.Equal(t, -5, orderOf(t, db, 2))
	assert.Equal(t, 40, orderOf(t, db, 3))
}

func TestReorderRejectsEmptyAndMissingIDs(t *testing.T) {
	db := testutil.NewDB(t)
	r := NewReorderer(db)

	err := r.Reorder("skills", nil)
	require.Error(t, err)
	assert.True(t, errs.IsValidationError(err))

	err = r.Reorder("skills", []OrderItem{{ID: 0, Order: 1}})
	var apiErr *errs.ApiErr
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "items.0.id", apiErr.Field)
}

func TestReorderUnknownCollection(t *testing.T) {
	db := testutil.NewDB(t)

	err := NewReorderer(db).Reorder("users", []OrderItem{{ID: 1, Order: 1}})
	require.Error(t, err)
	assert.True(t, errs.IsNotFound(err))
	assert.False(t, IsReorderable("users"))
	assert.Contains(t, Collections(), "testimonials")
}

func TestReorderScopesIDsToCollection(t *testing.T) {
	db := testutil.NewDB(t)
	seedSkills(t, db, 2)

	// skill ids exist but the technologies table is empty
	err := NewReorderer(db).Reorder("technologies", []OrderItem{{ID: 1, Order: 3}})
	require.Error(t, err)
	assert.True(t, errs.IsValidationError(err))
	assert.Equal(t, 100, orderOf(t, db, 1))
}
