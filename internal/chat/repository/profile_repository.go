package repository

import (
	"context"
	"errors"

	"nexus_chat_service/internal/chat/domain"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
)

// ErrProfileNotFound 找不到 profile
var ErrProfileNotFound = errors.New("profile not found")

// ProfileRepository definition profile + team membership (PostgreSQL)
type ProfileRepository interface {
	FindByUserID(ctx context.Context, userID string) (*domain.Profile, error)
	IsTeamMember(ctx context.Context, teamID, userID string) (bool, error)
}

type profileRepository struct {
	db *pgxpool.Pool
}

// NewProfileRepository create a ProfileRepository
func NewProfileRepository(db *pgxpool.Pool) ProfileRepository {
	return &profileRepository{db: db}
}

func (r *profileRepository) FindByUserID(ctx context.Context, userID string) (*domain.Profile, error) {
	row := r.db.QueryRow(ctx,
		"SELECT id, COALESCE(full_name, ''), COALESCE(avatar_url, ''), COALESCE(email, '') FROM profiles WHERE id = $1",
		userID)

	var p domain.Profile
	if err := row.Scan(&p.UserID, &p.Name, &p.Avatar, &p.Email); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrProfileNotFound
		}
		return nil, err
	}
	return &p, nil
}

// IsTeamMember 取代 row-level security 的成員檢查
func (r *profileRepository) IsTeamMember(ctx context.Context, teamID, userID string) (bool, error) {
	var ok bool
	err := r.db.QueryRow(ctx,
		"SELECT EXISTS (SELECT 1 FROM team_members WHERE team_id = $1 AND user_id = $2)",
		teamID, userID).Scan(&ok)
	return ok, err
}
