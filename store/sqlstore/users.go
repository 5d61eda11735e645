package sqlstore

import (
	"context"
	"fmt"

	"github.com/zeptools/gw-invoice/db/sqldb"
	"github.com/zeptools/gw-invoice/models"
	"github.com/zeptools/gw-invoice/store"
)

type userRow struct {
	models.User
}

func (r *userRow) FieldsToScan() []any {
	u := &r.User
	return []any{&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.Company, &u.CreatedAt}
}

type Users struct {
	db *DB
}

var _ store.Users = (*Users)(nil)

func (s *Users) Create(ctx context.Context, u *models.User) error {
	s.db.stamp(&u.ID, &u.CreatedAt)
	_, err := s.db.client.Exec(ctx, s.db.stmt("users.insert"),
		u.ID, u.Name, u.Email, u.PasswordHash, u.Company, u.CreatedAt)
	if isDuplicate(err) {
		return fmt.Errorf("email %q: %w", u.Email, store.ErrConflict)
	}
	return err
}

func (s *Users) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.get(ctx, "users.get_by_email", email)
}

func (s *Users) GetByID(ctx context.Context, id string) (*models.User, error) {
	return s.get(ctx, "users.get_by_id", id)
}

func (s *Users) get(ctx context.Context, key string, arg string) (*models.User, error) {
	row, err := sqldb.QueryItem[userRow, *userRow](ctx, s.db.client, s.db.stmt(key), arg)
	if err != nil {
		return nil, notFound(err)
	}
	return &row.User, nil
}

func (s *Users) UpdatePassword(ctx context.Context, id string, passwordHash string) error {
	return affectedOne(s.db.client.Exec(ctx, s.db.stmt("users.update_password"), passwordHash, id))
}
