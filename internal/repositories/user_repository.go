package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"venture-chat/internal/models"
)

// UserRepository reads internal user records. Users are provisioned by the
// identity provider integration; this service never creates or deletes them.
type UserRepository interface {
	GetByExternalID(ctx context.Context, externalID string) (models.User, error)
	GetByID(ctx context.Context, userID int) (models.User, error)
	GetProfile(ctx context.Context, user models.User) (models.Profile, error)
}

type UserRepo struct {
	db *sqlx.DB
}

func NewUserRepo(db *sqlx.DB) *UserRepo {
	return &UserRepo{db: db}
}

const userColumns = `id, external_id, name, email, role, created_at`

func (r *UserRepo) GetByExternalID(ctx context.Context, externalID string) (models.User, error) {
	return r.getUser(ctx, `SELECT `+userColumns+` FROM users WHERE external_id=$1`, externalID)
}

func (r *UserRepo) GetByID(ctx context.Context, userID int) (models.User, error) {
	return r.getUser(ctx, `SELECT `+userColumns+` FROM users WHERE id=$1`, userID)
}

func (r *UserRepo) getUser(ctx context.Context, query string, arg any) (models.User, error) {
	var user models.User
	err := r.db.GetContext(ctx, &user, query, arg)
	if errors.Is(err, sql.ErrNoRows) {
		return models.User{}, ErrUserNotFound
	}
	if err != nil {
		return models.User{}, fmt.Errorf("get user: %w", err)
	}
	return user, nil
}

// GetProfile loads the profile variant matching the user's role. It returns
// a nil Profile when the user has no role or has not filled the profile yet.
func (r *UserRepo) GetProfile(ctx context.Context, user models.User) (models.Profile, error) {
	if user.Role == nil {
		return nil, nil
	}

	var (
		profile models.Profile
		err     error
	)
	switch *user.Role {
	case models.RoleEntrepreneur:
		var p models.EntrepreneurProfile
		err = r.db.GetContext(ctx, &p, `SELECT user_id, company_name, industry, stage FROM entrepreneur_profiles WHERE user_id=$1`, user.ID)
		profile = p
	case models.RoleInvestor:
		var p models.InvestorProfile
		err = r.db.GetContext(ctx, &p, `SELECT user_id, firm_name, focus FROM investor_profiles WHERE user_id=$1`, user.ID)
		profile = p
	default:
		return nil, fmt.Errorf("unknown role %q", *user.Role)
	}
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get profile: %w", err)
	}
	return profile, nil
}
