// Package store defines the persistence contracts of the API.
// Every user-owned lookup is scoped by user id; a record of another user is
// reported exactly like a missing one.
package store

import (
	"context"
	"errors"

	"github.com/zeptools/gw-invoice/models"
	"github.com/zeptools/gw-invoice/nullable"
)

var (
	ErrNotFound = errors.New("store: not found")
	ErrConflict = errors.New("store: conflict")
)

type Users interface {
	// Create fails with ErrConflict when the email is taken
	Create(ctx context.Context, u *models.User) error
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
	UpdatePassword(ctx context.Context, id string, passwordHash string) error
}

type Invoices interface {
	Create(ctx context.Context, inv *models.Invoice) error
	ListByUser(ctx context.Context, userID string) ([]*models.Invoice, error)
	Get(ctx context.Context, userID string, id string) (*models.Invoice, error)
	// Update replaces the record matching inv.UserID and inv.ID
	Update(ctx context.Context, inv *models.Invoice) error
	Delete(ctx context.Context, userID string, id string) (*models.Invoice, error)
	Search(ctx context.Context, userID string, q SearchQuery) (*SearchPage, error)
}

type Receipts interface {
	Create(ctx context.Context, r *models.Receipt) error
	ListByUser(ctx context.Context, userID string) ([]*models.Receipt, error)
	Get(ctx context.Context, userID string, id string) (*models.Receipt, error)
	Update(ctx context.Context, r *models.Receipt) error
	Delete(ctx context.Context, userID string, id string) (*models.Receipt, error)
}

type Templates interface {
	// ReplaceAll drops every template and inserts ts
	ReplaceAll(ctx context.Context, ts []*models.Template) error
	List(ctx context.Context) ([]*models.Template, error)
	ListByType(ctx context.Context, typ models.DocType) ([]*models.Template, error)
	// FirstOfType is ErrNotFound when no template has the type
	FirstOfType(ctx context.Context, typ models.DocType) (*models.Template, error)
	Create(ctx context.Context, t *models.Template) error
	Get(ctx context.Context, id string) (*models.Template, error)
	// Update, Delete and SetLogo only touch templates created by owner
	Update(ctx context.Context, owner string, t *models.Template) error
	Delete(ctx context.Context, owner string, id string) (*models.Template, error)
	// SetLogo with an empty path removes the logo and hides it
	SetLogo(ctx context.Context, owner string, id string, logoPath string) (*models.Template, error)
}

// Store bundles the four record stores
type Store struct {
	Users     Users
	Invoices  Invoices
	Receipts  Receipts
	Templates Templates
}

// WithLogo sets the logo path and shows it; an empty path clears and hides it
func WithLogo(l models.Layout, logoPath string) models.Layout {
	show := logoPath != ""
	l.ShowLogo = &show
	l.LogoPath = nullable.StringOf(logoPath)
	return l
}
