package models

import (
	"github.com/creatorhub/backend/internal/domain/identity"
	"github.com/google/uuid"
)

// UserModel is the persistence model for the User domain entity.
type UserModel struct {
	BaseModel
	Email            string `gorm:"type:varchar(255);not null;uniqueIndex"`
	Name             string `gorm:"type:varchar(200);not null"`
	StripeCustomerID string `gorm:"type:varchar(100);index"`
}

// TableName returns the table name for GORM
func (UserModel) TableName() string {
	return "users"
}

// ToDomain converts the persistence model to a domain User entity.
func (m *UserModel) ToDomain() *identity.User {
	return &identity.User{
		BaseEntity:       m.BaseModel.ToDomain(),
		Email:            m.Email,
		Name:             m.Name,
		StripeCustomerID: m.StripeCustomerID,
	}
}

// UserModelFromDomain converts a domain User entity to a persistence model.
func UserModelFromDomain(u *identity.User) *UserModel {
	model := &UserModel{
		Email:            u.Email,
		Name:             u.Name,
		StripeCustomerID: u.StripeCustomerID,
	}
	model.FromDomainBaseEntity(u.BaseEntity)
	return model
}

// TeamModel is the persistence model for the Team domain entity.
type TeamModel struct {
	BaseModel
	Name string `gorm:"type:varchar(200);not null"`
	Slug string `gorm:"type:varchar(100);not null;uniqueIndex"`
}

// TableName returns the table name for GORM
func (TeamModel) TableName() string {
	return "teams"
}

// ToDomain converts the persistence model to a domain Team entity.
func (m *TeamModel) ToDomain() *identity.Team {
	return &identity.Team{
		BaseEntity: m.BaseModel.ToDomain(),
		Name:       m.Name,
		Slug:       m.Slug,
	}
}

// TeamModelFromDomain converts a domain Team entity to a persistence model.
func TeamModelFromDomain(t *identity.Team) *TeamModel {
	model := &TeamModel{
		Name: t.Name,
		Slug: t.Slug,
	}
	model.FromDomainBaseEntity(t.BaseEntity)
	return model
}

// MembershipModel is the persistence model for the Membership domain entity.
// A user holds at most one role per team.
type MembershipModel struct {
	BaseModel
	UserID uuid.UUID               `gorm:"type:uuid;not null;uniqueIndex:idx_membership_user_team,priority:1"`
	TeamID uuid.UUID               `gorm:"type:uuid;not null;uniqueIndex:idx_membership_user_team,priority:2"`
	Role   identity.MembershipRole `gorm:"type:varchar(20);not null"`
}

// TableName returns the table name for GORM
func (MembershipModel) TableName() string {
	return "memberships"
}

// ToDomain converts the persistence model to a domain Membership entity.
func (m *MembershipModel) ToDomain() *identity.Membership {
	return &identity.Membership{
		BaseEntity: m.BaseModel.ToDomain(),
		UserID:     m.UserID,
		TeamID:     m.TeamID,
		Role:       m.Role,
	}
}

// MembershipModelFromDomain converts a domain Membership entity to a persistence model.
func MembershipModelFromDomain(mb *identity.Membership) *MembershipModel {
	model := &MembershipModel{
		UserID: mb.UserID,
		TeamID: mb.TeamID,
		Role:   mb.Role,
	}
	model.FromDomainBaseEntity(mb.BaseEntity)
	return model
}
