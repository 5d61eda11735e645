package sqlstore

import (
	"context"

	"github.com/zeptools/gw-invoice/db/sqldb"
	"github.com/zeptools/gw-invoice/models"
	"github.com/zeptools/gw-invoice/store"
)

type templateRow struct {
	models.Template
}

func (r *templateRow) FieldsToScan() []any {
	t := &r.Template
	return []any{&t.ID, &t.Name, &t.Type, &t.Layout, &t.PreviewImage, &t.CreatedBy, &t.CreatedAt}
}

type Templates struct {
	db *DB
}

var _ store.Templates = (*Templates)(nil)

func (s *Templates) insert(ctx context.Context, h sqldb.Handle, t *models.Template) error {
	s.db.stamp(&t.ID, &t.CreatedAt)
	_, err := h.Exec(ctx, s.db.stmt("templates.insert"),
		t.ID, t.Name, string(t.Type), t.Layout, t.PreviewImage, t.CreatedBy, t.CreatedAt)
	return err
}

func (s *Templates) ReplaceAll(ctx context.Context, ts []*models.Template) error {
	return sqldb.WithTx(ctx, s.db.client, func(tx sqldb.Tx) error {
		if _, err := tx.Exec(ctx, s.db.stmt("templates.delete_all")); err != nil {
			return err
		}
		for _, t := range ts {
			if err := s.insert(ctx, tx, t); err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *Templates) Create(ctx context.Context, t *models.Template) error {
	return s.insert(ctx, s.db.client, t)
}

func (s *Templates) List(ctx context.Context) ([]*models.Template, error) {
	return s.list(ctx, "templates.list")
}

func (s *Templates) ListByType(ctx context.Context, typ models.DocType) ([]*models.Template, error) {
	return s.list(ctx, "templates.list_by_type", string(typ))
}

func (s *Templates) FirstOfType(ctx context.Context, typ models.DocType) (*models.Template, error) {
	ts, err := s.ListByType(ctx, typ)
	if err != nil {
		return nil, err
	}
	if len(ts) == 0 {
		return nil, store.ErrNotFound
	}
	return ts[0], nil
}

func (s *Templates) list(ctx context.Context, key string, args ...any) ([]*models.Template, error) {
	rows, err := sqldb.QueryItems[templateRow, *templateRow](ctx, s.db.client, s.db.log, s.db.stmt(key), args...)
	if err != nil {
		return nil, err
	}
	out := make([]*models.Template, len(rows))
	for i, r := range rows {
		out[i] = &r.Template
	}
	return out, nil
}

func (s *Templates) Get(ctx context.Context, id string) (*models.Template, error) {
	row, err := sqldb.QueryItem[templateRow, *templateRow](ctx, s.db.client, s.db.stmt("templates.get"), id)
	if err != nil {
		return nil, notFound(err)
	}
	return &row.Template, nil
}

func (s *Templates) getOwned(ctx context.Context, h sqldb.Handle, owner string, id string) (*models.Template, error) {
	row, err := sqldb.QueryItem[templateRow, *templateRow](ctx, h, s.db.stmt("templates.get_owned"), id, owner)
	if err != nil {
		return nil, notFound(err)
	}
	return &row.Template, nil
}

func (s *Templates) update(ctx context.Context, h sqldb.Handle, owner string, t *models.Template) error {
	return affectedOne(h.Exec(ctx, s.db.stmt("templates.update"),
		t.Name, string(t.Type), t.Layout, t.PreviewImage, t.ID, owner))
}

func (s *Templates) Update(ctx context.Context, owner string, t *models.Template) error {
	return s.update(ctx, s.db.client, owner, t)
}

func (s *Templates) Delete(ctx context.Context, owner string, id string) (*models.Template, error) {
	var deleted *models.Template
	err := sqldb.WithTx(ctx, s.db.client, func(tx sqldb.Tx) error {
		t, err := s.getOwned(ctx, tx, owner, id)
		if err != nil {
			return err
		}
		if err := affectedOne(tx.Exec(ctx, s.db.stmt("templates.delete"), id, owner)); err != nil {
			return err
		}
		deleted = t
		return nil
	})
	return deleted, err
}

func (s *Templates) SetLogo(ctx context.Context, owner string, id string, logoPath string) (*models.Template, error) {
	var updated *models.Template
	err := sqldb.WithTx(ctx, s.db.client, func(tx sqldb.Tx) error {
		t, err := s.getOwned(ctx, tx, owner, id)
		if err != nil {
			return err
		}
		t.Layout = store.WithLogo(t.Layout, logoPath)
		if err := s.update(ctx, tx, owner, t); err != nil {
			return err
		}
		updated = t
		return nil
	})
	return updated, err
}
