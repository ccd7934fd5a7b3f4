package models

import (
	"fmt"
	"strings"
	"time"
)

// Role is the closed set of platform roles.
type Role string

const (
	RoleEntrepreneur Role = "ENTREPRENEUR"
	RoleInvestor     Role = "INVESTOR"
)

func ParseRole(raw string) (Role, error) {
	switch r := Role(strings.ToUpper(strings.TrimSpace(raw))); r {
	case RoleEntrepreneur, RoleInvestor:
		return r, nil
	default:
		return "", fmt.Errorf("unknown role %q", raw)
	}
}

// User is the internal identity record for an externally authenticated principal.
type User struct {
	ID         int       `db:"id" json:"id"`
	ExternalID string    `db:"external_id" json:"-"`
	Name       string    `db:"name" json:"name"`
	Email      string    `db:"email" json:"email"`
	Role       *Role     `db:"role" json:"role,omitempty"`
	CreatedAt  time.Time `db:"created_at" json:"createdAt"`
}

// Profile is the role payload of a user. Only the two variants below
// implement it.
type Profile interface {
	Role() Role
	profile()
}

type EntrepreneurProfile struct {
	UserID      int    `db:"user_id" json:"userId"`
	CompanyName string `db:"company_name" json:"companyName"`
	Industry    string `db:"industry" json:"industry"`
	Stage       string `db:"stage" json:"stage"`
}

func (EntrepreneurProfile) Role() Role { return RoleEntrepreneur }
func (EntrepreneurProfile) profile()   {}

type InvestorProfile struct {
	UserID   int    `db:"user_id" json:"userId"`
	FirmName string `db:"firm_name" json:"firmName"`
	Focus    string `db:"focus" json:"focus"`
}

func (InvestorProfile) Role() Role { return RoleInvestor }
func (InvestorProfile) profile()   {}
