package models

import "time"

type Skill struct {
	ID                uint      `json:"id" gorm:"primaryKey"`
	Name              string    `json:"name" gorm:"type:varchar(100);not null"`
	Category          string    `json:"category" gorm:"type:varchar(100);not null;index"`
	Icon              *string   `json:"icon,omitempty" gorm:"type:varchar(255)"`
	YearsOfExperience *int      `json:"years_of_experience,omitempty"`
	IsHighlighted     bool      `json:"is_highlighted" gorm:"not null;default:false"`
	DisplayOrder      int       `json:"order" gorm:"not null;default:0;index"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

type SkillGroup struct {
	Category string   `json:"category"`
	Skills   []*Skill `json:"skills"`
}

// GroupSkillsByCategory keeps the input order: categories appear in the order
// their first skill does, skills keep their relative order inside a group.
func GroupSkillsByCategory(skills []*Skill) []SkillGroup {
	index := make(map[string]int)
	var groups []SkillGroup
	for _, s := range skills {
		i, ok := index[s.Category]
		if !ok {
			i = len(groups)
			index[s.Category] = i
			groups = append(groups, SkillGroup{Category: s.Category})
		}
		groups[i].Skills = append(groups[i].Skills, s)
	}
	return groups
}
