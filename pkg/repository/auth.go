package repository

import (
	"context"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"

	"portfolio_tracker_back/models"
)

var userColumns = []string{"id", "username", "password_hash", "created_at"}

type AuthPostgres struct {
	db *sqlx.DB
}

func NewAuthPostgres(db *sqlx.DB) *AuthPostgres {
	return &AuthPostgres{db: db}
}

func (r *AuthPostgres) CreateUser(ctx context.Context, username, passwordHash string) (models.User, error) {
	var user models.User
	query, args, err := builder().
		Insert(usersTable).
		Columns("username", "password_hash").
		Values(username, passwordHash).
		Suffix("RETURNING id, username, password_hash, created_at").
		ToSql()
	if err != nil {
		return user, translate(err, "build CreateUser query")
	}

	err = r.db.GetContext(ctx, &user, query, args...)
	return user, translate(err, "create user")
}

func (r *AuthPostgres) GetUserByUsername(ctx context.Context, username string) (models.User, error) {
	return r.getUser(ctx, sq.Eq{"username": username})
}

func (r *AuthPostgres) GetUserByID(ctx context.Context, id int64) (models.User, error) {
	return r.getUser(ctx, sq.Eq{"id": id})
}

func (r *AuthPostgres) getUser(ctx context.Context, where sq.Eq) (models.User, error) {
	var user models.User
	query, args, err := builder().
		Select(userColumns...).
		From(usersTable).
		Where(where).
		ToSql()
	if err != nil {
		return user, translate(err, "build GetUser query")
	}

	err = r.db.GetContext(ctx, &user, query, args...)
	return user, translate(err, "get user")
}
