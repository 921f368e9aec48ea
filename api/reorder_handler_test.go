package api

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rpupo63/portfolio-cms-backend/models"
)

func seedSkills(t *testing.T, s *testServer, names ...string) []*models.Skill {
	t.Helper()
	skills := make([]*models.Skill, len(names))
	for i, name := range names {
		skills[i] = &models.Skill{Name: name, Category: "Backend", DisplayOrder: 10 + i}
		require.NoError(t, s.db.Create(skills[i]).Error)
	}
	return skills
}

func skillOrder(t *testing.T, s *testServer, id uint) int {
	t.Helper()
	var skill models.Skill
	require.NoError(t, s.db.First(&skill, id).Error)
	return skill.DisplayOrder
}

func TestReorderUpdatesListedItems(t *testing.T) {
	s := newTestServer(t, nil)
	s.login()
	skills := seedSkills(t, s, "Go", "SQL", "Docker")

	rec := s.doJSON(http.MethodPost, "/admin/reorder/skills", `{"items":[{"id":3,"order":0},{"id":"1","order":"5"}]}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp ReorderResponse
	decode(t, rec, &resp)
	assert.Equal(t, ReorderResponse{Message: "Order updated", Collection: "skills", Updated: 2}, resp)

	assert.Equal(t, 5, skillOrder(t, s, skills[0].ID))
	assert.Equal(t, 11, skillOrder(t, s, skills[1].ID))
	assert.Equal(t, 0, skillOrder(t, s, skills[2].ID))
}

func TestReorderReportsEveryBadItem(t *testing.T) {
	s := newTestServer(t, nil)
	s.login()
	seedSkills(t, s, "Go")

	rec := s.doJSON(http.MethodPost, "/admin/reorder/skills", `{"items":[{"id":1,"order":1.5},{"order":2},{"id":-4,"order":1},{"id":1,"order":"x"}]}`)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code, rec.Body.String())

	fields := errorFields(t, rec)
	assert.Contains(t, fields, "items.0.order")
	assert.Contains(t, fields, "items.1.id")
	assert.Contains(t, fields, "items.2.id")
	assert.Contains(t, fields, "items.3.order")
	assert.NotContains(t, fields, "items.0.id")
	assert.Equal(t, 10, skillOrder(t, s, 1))
}

func TestReorderUnknownIDRollsBack(t *testing.T) {
	s := newTestServer(t, nil)
	s.login()
	seedSkills(t, s, "Go", "SQL")

	rec := s.doJSON(http.MethodPost, "/admin/reorder/skills", `{"items":[{"id":1,"order":7},{"id":99,"order":1}]}`)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, errorFields(t, rec), "items.1.id")
	assert.Equal(t, 10, skillOrder(t, s, 1))
}

func TestReorderRejectsEmptyAndUnknownCollection(t *testing.T) {
	s := newTestServer(t, nil)
	s.login()

	rec := s.doJSON(http.MethodPost, "/admin/reorder/skills", `{"items":[]}`)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, errorFields(t, rec), "items")

	rec = s.doJSON(http.MethodPost, "/admin/reorder/users", `{"items":[{"id":1,"order":1}]}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestParseIntegerAcceptsNumericStrings(t *testing.T) {
	cases := map[string]int64{`3`: 3, `"12"`: 12, `-2`: -2}
	for raw, want := range cases {
		got, msg := parseInteger(json.RawMessage(raw))
		assert.Empty(t, msg, raw)
		assert.Equal(t, want, got, raw)
	}
	for _, raw := range []string{``, `null`, `"abc"`, `true`, `2.5`, `4.0`} {
		_, msg := parseInteger(json.RawMessage(raw))
		assert.NotEmpty(t, msg, raw)
	}
}
