package models

import (
	"github.com/creatorhub/backend/internal/domain/content"
	"github.com/google/uuid"
)

// SpaceModel is the persistence model for the Space domain entity.
type SpaceModel struct {
	BaseModel
	TeamID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_space_team_slug,priority:1"`
	Name   string    `gorm:"type:varchar(200);not null"`
	Slug   string    `gorm:"type:varchar(100);not null;uniqueIndex:idx_space_team_slug,priority:2"`
}

// TableName returns the table name for GORM
func (SpaceModel) TableName() string {
	return "spaces"
}

// ToDomain converts the persistence model to a domain Space entity.
func (m *SpaceModel) ToDomain() *content.Space {
	return &content.Space{
		BaseEntity: m.BaseModel.ToDomain(),
		TeamID:     m.TeamID,
		Name:       m.Name,
		Slug:       m.Slug,
	}
}

// SpaceModelFromDomain converts a domain Space entity to a persistence model.
func SpaceModelFromDomain(s *content.Space) *SpaceModel {
	model := &SpaceModel{
		TeamID: s.TeamID,
		Name:   s.Name,
		Slug:   s.Slug,
	}
	model.FromDomainBaseEntity(s.BaseEntity)
	return model
}

// ExperienceModel is the persistence model for the Experience domain entity.
type ExperienceModel struct {
	BaseModel
	SpaceID uuid.UUID `gorm:"type:uuid;not null;index"`
	Name    string    `gorm:"type:varchar(200);not null"`
}

// TableName returns the table name for GORM
func (ExperienceModel) TableName() string {
	return "experiences"
}

// ToDomain converts the persistence model to a domain Experience entity.
func (m *ExperienceModel) ToDomain() *content.Experience {
	return &content.Experience{
		BaseEntity: m.BaseModel.ToDomain(),
		SpaceID:    m.SpaceID,
		Name:       m.Name,
	}
}

// ExperienceModelFromDomain converts a domain Experience entity to a persistence model.
func ExperienceModelFromDomain(e *content.Experience) *ExperienceModel {
	model := &ExperienceModel{
		SpaceID: e.SpaceID,
		Name:    e.Name,
	}
	model.FromDomainBaseEntity(e.BaseEntity)
	return model
}

// StreamModel is the persistence model for the Stream domain entity.
type StreamModel struct {
	BaseModel
	ExperienceID uuid.UUID `gorm:"type:uuid;not null;index"`
	Title        string    `gorm:"type:varchar(200);not null"`
}

// TableName returns the table name for GORM
func (StreamModel) TableName() string {
	return "streams"
}

// ToDomain converts the persistence model to a domain Stream entity.
func (m *StreamModel) ToDomain() *content.Stream {
	return &content.Stream{
		BaseEntity:   m.BaseModel.ToDomain(),
		ExperienceID: m.ExperienceID,
		Title:        m.Title,
	}
}

// StreamModelFromDomain converts a domain Stream entity to a persistence model.
func StreamModelFromDomain(s *content.Stream) *StreamModel {
	model := &StreamModel{
		ExperienceID: s.ExperienceID,
		Title:        s.Title,
	}
	model.FromDomainBaseEntity(s.BaseEntity)
	return model
}
