package sqlite

import (
	"context"

	"farmshare-backend/internal/domain"
	"farmshare-backend/internal/repository"

	"github.com/jmoiron/sqlx"
)

type UserRepo struct{ db *sqlx.DB }

func NewUserRepository(db *sqlx.DB) repository.UserRepository { return &UserRepo{db: db} }

func (r *UserRepo) Create(ctx context.Context, u *domain.User) error {
	_, err := r.db.ExecContext(ctx, `INSERT INTO users(id, name, email) VALUES (?, ?, ?)`, u.ID, u.Name, u.Email)
	return err
}

func (r *UserRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	var u domain.User
	err := r.db.QueryRowxContext(ctx, `SELECT id, name, email FROM users WHERE id = ?`, id).
		Scan(&u.ID, &u.Name, &u.Email)
	if err != nil {
		return nil, notFound(err, "user", id)
	}
	return &u, nil
}
