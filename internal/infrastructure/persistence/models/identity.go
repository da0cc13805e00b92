package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/supplychain/backend/internal/domain/identity"
)

// UserModel is the persistence model for the User aggregate.
// Groups are stored as a comma separated list of role names.
type UserModel struct {
	AggregateModel
	Username     string              `gorm:"type:varchar(150);not null;uniqueIndex"`
	Email        string              `gorm:"type:varchar(254);not null;uniqueIndex"`
	PasswordHash string              `gorm:"type:varchar(255);not null"`
	Groups       string              `gorm:"type:varchar(100);not null;default:''"`
	IsStaff      bool                `gorm:"not null;default:false"`
	CompanyID    *uuid.UUID          `gorm:"type:uuid;index"`
	Status       identity.UserStatus `gorm:"type:varchar(20);not null;default:'active'"`
	LastLoginAt  *time.Time
}

// TableName returns the table name for GORM
func (UserModel) TableName() string {
	return "users"
}

// ToDomain converts the persistence model to a domain User
func (m *UserModel) ToDomain() *identity.User {
	u := &identity.User{
		BaseAggregateRoot: m.AggregateModel.ToAggregateRoot(),
		Username:          m.Username,
		Email:             m.Email,
		PasswordHash:      m.PasswordHash,
		IsStaff:           m.IsStaff,
		CompanyID:         m.CompanyID,
		Status:            m.Status,
		LastLoginAt:       m.LastLoginAt,
	}
	for _, g := range strings.Split(m.Groups, ",") {
		if g = strings.TrimSpace(g); g != "" {
			u.Groups = append(u.Groups, identity.Role(g))
		}
	}
	return u
}

// FromDomain populates the persistence model from a domain User
func (m *UserModel) FromDomain(u *identity.User) {
	m.FromDomainAggregateRoot(u.BaseAggregateRoot)
	m.Username = u.Username
	m.Email = u.Email
	m.PasswordHash = u.PasswordHash
	groups := make([]string, len(u.Groups))
	for i, g := range u.Groups {
		groups[i] = string(g)
	}
	m.Groups = strings.Join(groups, ",")
	m.IsStaff = u.IsStaff
	m.CompanyID = u.CompanyID
	m.Status = u.Status
	m.LastLoginAt = u.LastLoginAt
}

// UserModelFromDomain creates a new persistence model from a domain User
func UserModelFromDomain(u *identity.User) *UserModel {
	m := &UserModel{}
	m.FromDomain(u)
	return m
}
