// Package memstore implements the store contracts in process memory.
// Records are copied on the way in and out, so callers never share state
// with the store.
package memstore

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/zeptools/gw-invoice/models"
	"github.com/zeptools/gw-invoice/orm"
	"github.com/zeptools/gw-invoice/store"
)

type DB struct {
	mu  sync.RWMutex
	now func() time.Time

	users     *orm.Collection[*models.User, string]
	invoices  *orm.Collection[*models.Invoice, string]
	receipts  *orm.Collection[*models.Receipt, string]
	templates *orm.Collection[*models.Template, string]
}

func New() *DB {
	return &DB{
		now:       time.Now,
		users:     orm.NewCollection[*models.User, string](),
		invoices:  orm.NewCollection[*models.Invoice, string](),
		receipts:  orm.NewCollection[*models.Receipt, string](),
		templates: orm.NewCollection[*models.Template, string](),
	}
}

func (db *DB) SetClock(now func() time.Time) {
	db.now = now
}

func (db *DB) Store() *store.Store {
	return &store.Store{
		Users:     (*users)(db),
		Invoices:  (*invoices)(db),
		Receipts:  (*receipts)(db),
		Templates: (*templates)(db),
	}
}

var (
	_ store.Users     = (*users)(nil)
	_ store.Invoices  = (*invoices)(nil)
	_ store.Receipts  = (*receipts)(nil)
	_ store.Templates = (*templates)(nil)
)

func (db *DB) stamp(id *string, createdAt *time.Time) {
	if *id == "" {
		*id = uuid.NewString()
	}
	if createdAt.IsZero() {
		*createdAt = db.now().UTC()
	}
}

func cloneItems(items models.LineItems) models.LineItems {
	if items == nil {
		return nil
	}
	return append(models.LineItems(nil), items...)
}

//---- Users ----

type users DB

func (s *users) Create(_ context.Context, u *models.User) error {
	db := (*DB)(s)
	db.mu.Lock()
	defer db.mu.Unlock()
	if _, taken := db.users.First(func(x *models.User) bool { return x.Email == u.Email }); taken {
		return store.ErrConflict
	}
	db.stamp(&u.ID, &u.CreatedAt)
	c := *u
	db.users.Add(&c)
	return nil
}

func (s *users) find(fn func(*models.User) bool) (*models.User, error) {
	db := (*DB)(s)
	db.mu.RLock()
	defer db.mu.RUnlock()
	u, ok := db.users.First(fn)
	if !ok {
		return nil, store.ErrNotFound
	}
	c := *u
	return &c, nil
}

func (s *users) GetByEmail(_ context.Context, email string) (*models.User, error) {
	return s.find(func(u *models.User) bool { return u.Email == email })
}

func (s *users) GetByID(_ context.Context, id string) (*models.User, error) {
	return s.find(func(u *models.User) bool { return u.ID == id })
}

func (s *users) UpdatePassword(_ context.Context, id string, passwordHash string) error {
	db := (*DB)(s)
	db.mu.Lock()
	defer db.mu.Unlock()
	u, ok := db.users.Find(id)
	if !ok {
		return store.ErrNotFound
	}
	u.PasswordHash = passwordHash
	return nil
}

//---- Invoices ----

type invoices DB

func copyInvoice(inv *models.Invoice) *models.Invoice {
	c := *inv
	c.Items = cloneItems(inv.Items)
	return &c
}

func (s *invoices) Create(_ context.Context, inv *models.Invoice) error {
	db := (*DB)(s)
	db.mu.Lock()
	defer db.mu.Unlock()
	db.stamp(&inv.ID, &inv.CreatedAt)
	db.invoices.Add(copyInvoice(inv))
	return nil
}

func (s *invoices) owned(userID string) *orm.Collection[*models.Invoice, string] {
	return (*DB)(s).invoices.Filter(func(inv *models.Invoice) bool { return inv.UserID == userID })
}

func (s *invoices) ListByUser(_ context.Context, userID string) ([]*models.Invoice, error) {
	db := (*DB)(s)
	db.mu.RLock()
	defer db.mu.RUnlock()
	out := []*models.Invoice{}
	s.owned(userID).ForEach(func(inv *models.Invoice) { out = append(out, copyInvoice(inv)) })
	return out, nil
}

func (s *invoices) get(userID string, id string) (*models.Invoice, bool) {
	inv, ok := (*DB)(s).invoices.Find(id)
	if !ok || inv.UserID != userID {
		return nil, false
	}
	return inv, true
}

func (s *invoices) Get(_ context.Context, userID string, id string) (*models.Invoice, error) {
	db := (*DB)(s)
	db.mu.RLock()
	defer db.mu.RUnlock()
	inv, ok := s.get(userID, id)
	if !ok {
		return nil, store.ErrNotFound
	}
	return copyInvoice(inv), nil
}

func (s *invoices) Update(_ context.Context, inv *models.Invoice) error {
	db := (*DB)(s)
	db.mu.Lock()
	defer db.mu.Unlock()
	cur, ok := s.get(inv.UserID, inv.ID)
	if !ok {
		return store.ErrNotFound
	}
	c := copyInvoice(inv)
	c.CreatedAt = cur.CreatedAt
	db.invoices.Add(c)
	return nil
}

func (s *invoices) Delete(_ context.Context, userID string, id string) (*models.Invoice, error) {
	db := (*DB)(s)
	db.mu.Lock()
	defer db.mu.Unlock()
	inv, ok := s.get(userID, id)
	if !ok {
		return nil, store.ErrNotFound
	}
	db.invoices.Remove(id)
	return inv, nil
}

func (s *invoices) Search(_ context.Context, userID string, q store.SearchQuery) (*store.SearchPage, error) {
	q = q.Normalized()
	db := (*DB)(s)
	db.mu.RLock()
	defer db.mu.RUnlock()

	matches := s.owned(userID).Filter(func(inv *models.Invoice) bool {
		return store.MatchesInvoice(inv, q.Text)
	}).Items()
	sort.SliceStable(matches, func(i, j int) bool {
		if !matches[i].CreatedAt.Equal(matches[j].CreatedAt) {
			return matches[i].CreatedAt.After(matches[j].CreatedAt)
		}
		return matches[i].ID > matches[j].ID
	})

	total := int64(len(matches))
	page := []*models.Invoice{}
	for i := q.Offset(); i < len(matches) && len(page) < q.Limit; i++ {
		page = append(page, copyInvoice(matches[i]))
	}
	return store.NewSearchPage(page, total, q), nil
}

//---- Receipts ----

type receipts DB

func copyReceipt(r *models.Receipt) *models.Receipt {
	c := *r
	c.Items = cloneItems(r.Items)
	return &c
}

func (s *receipts) Create(_ context.Context, r *models.Receipt) error {
	db := (*DB)(s)
	db.mu.Lock()
	defer db.mu.Unlock()
	db.stamp(&r.ID, &r.CreatedAt)
	db.receipts.Add(copyReceipt(r))
	return nil
}

func (s *receipts) ListByUser(_ context.Context, userID string) ([]*models.Receipt, error) {
	db := (*DB)(s)
	db.mu.RLock()
	defer db.mu.RUnlock()
	return orm.CollectToSlice(db.receipts, func(r *models.Receipt) **models.Receipt {
		if r.UserID != userID {
			return nil
		}
		c := copyReceipt(r)
		return &c
	}), nil
}

func (s *receipts) get(userID string, id string) (*models.Receipt, bool) {
	r, ok := (*DB)(s).receipts.Find(id)
	if !ok || r.UserID != userID {
		return nil, false
	}
	return r, true
}

func (s *receipts) Get(_ context.Context, userID string, id string) (*models.Receipt, error) {
	db := (*DB)(s)
	db.mu.RLock()
	defer db.mu.RUnlock()
	r, ok := s.get(userID, id)
	if !ok {
		return nil, store.ErrNotFound
	}
	return copyReceipt(r), nil
}

func (s *receipts) Update(_ context.Context, r *models.Receipt) error {
	db := (*DB)(s)
	db.mu.Lock()
	defer db.mu.Unlock()
	cur, ok := s.get(r.UserID, r.ID)
	if !ok {
		return store.ErrNotFound
	}
	c := copyReceipt(r)
	c.CreatedAt = cur.CreatedAt
	db.receipts.Add(c)
	return nil
}

func (s *receipts) Delete(_ context.Context, userID string, id string) (*models.Receipt, error) {
	db := (*DB)(s)
	db.mu.Lock()
	defer db.mu.Unlock()
	r, ok := s.get(userID, id)
	if !ok {
		return nil, store.ErrNotFound
	}
	db.receipts.Remove(id)
	return r, nil
}

//---- Templates ----

type templates DB

func copyTemplate(t *models.Template) *models.Template {
	c := *t
	if t.Layout.ShowLogo != nil {
		show := *t.Layout.ShowLogo
		c.Layout.ShowLogo = &show
	}
	return &c
}

func (s *templates) ReplaceAll(_ context.Context, ts []*models.Template) error {
	db := (*DB)(s)
	db.mu.Lock()
	defer db.mu.Unlock()
	fresh := orm.NewCollection[*models.Template, string]()
	for _, t := range ts {
		db.stamp(&t.ID, &t.CreatedAt)
		fresh.Add(copyTemplate(t))
	}
	db.templates = fresh
	return nil
}

func (s *templates) Create(_ context.Context, t *models.Template) error {
	db := (*DB)(s)
	db.mu.Lock()
	defer db.mu.Unlock()
	db.stamp(&t.ID, &t.CreatedAt)
	db.templates.Add(copyTemplate(t))
	return nil
}

func (s *templates) list(fn func(*models.Template) bool) []*models.Template {
	db := (*DB)(s)
	db.mu.RLock()
	defer db.mu.RUnlock()
	out := []*models.Template{}
	db.templates.Filter(fn).ForEach(func(t *models.Template) { out = append(out, copyTemplate(t)) })
	return out
}

func (s *templates) List(_ context.Context) ([]*models.Template, error) {
	return s.list(func(*models.Template) bool { return true }), nil
}

func (s *templates) ListByType(_ context.Context, typ models.DocType) ([]*models.Template, error) {
	return s.list(func(t *models.Template) bool { return t.Type == typ }), nil
}

func (s *templates) FirstOfType(_ context.Context, typ models.DocType) (*models.Template, error) {
	db := (*DB)(s)
	db.mu.RLock()
	defer db.mu.RUnlock()
	t, ok := db.templates.First(func(t *models.Template) bool { return t.Type == typ })
	if !ok {
		return nil, store.ErrNotFound
	}
	return copyTemplate(t), nil
}

func (s *templates) Get(_ context.Context, id string) (*models.Template, error) {
	db := (*DB)(s)
	db.mu.RLock()
	defer db.mu.RUnlock()
	t, ok := db.templates.Find(id)
	if !ok {
		return nil, store.ErrNotFound
	}
	return copyTemplate(t), nil
}

func (s *templates) owned(owner string, id string) (*models.Template, bool) {
	t, ok := (*DB)(s).templates.Find(id)
	if !ok || t.CreatedBy.ForceValue() != owner || strings.TrimSpace(owner) == "" {
		return nil, false
	}
	return t, true
}

func (s *templates) Update(_ context.Context, owner string, t *models.Template) error {
	db := (*DB)(s)
	db.mu.Lock()
	defer db.mu.Unlock()
	cur, ok := s.owned(owner, t.ID)
	if !ok {
		return store.ErrNotFound
	}
	c := copyTemplate(t)
	c.CreatedBy = cur.CreatedBy
	c.CreatedAt = cur.CreatedAt
	db.templates.Add(c)
	return nil
}

func (s *templates) Delete(_ context.Context, owner string, id string) (*models.Template, error) {
	db := (*DB)(s)
	db.mu.Lock()
	defer db.mu.Unlock()
	t, ok := s.owned(owner, id)
	if !ok {
		return nil, store.ErrNotFound
	}
	db.templates.Remove(id)
	return t, nil
}

func (s *templates) SetLogo(_ context.Context, owner string, id string, logoPath string) (*models.Template, error) {
	db := (*DB)(s)
	db.mu.Lock()
	defer db.mu.Unlock()
	t, ok := s.owned(owner, id)
	if !ok {
		return nil, store.ErrNotFound
	}
	t.Layout = store.WithLogo(t.Layout, logoPath)
	return copyTemplate(t), nil
}
