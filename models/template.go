package models

import (
	"strings"
	"time"

	"github.com/zeptools/gw-invoice/nullable"
)

type DocType string

const (
	TypeInvoice DocType = "invoice"
	TypeReceipt DocType = "receipt"
)

func (t DocType) Valid() bool {
	return t == TypeInvoice || t == TypeReceipt
}

const (
	DefaultTemplateColor = "#2563eb"
	DefaultTemplateFont  = "Helvetica"
)

type Layout struct {
	Name     string          `json:"name"`
	Color    string          `json:"color"`
	Font     string          `json:"font"`
	ShowLogo *bool           `json:"showLogo,omitempty"`
	LogoPath nullable.String `json:"logoPath"`
}

// WithDefaults fills color, font and showLogo when unset
func (l Layout) WithDefaults() Layout {
	if strings.TrimSpace(l.Color) == "" {
		l.Color = DefaultTemplateColor
	}
	if strings.TrimSpace(l.Font) == "" {
		l.Font = DefaultTemplateFont
	}
	if l.ShowLogo == nil {
		show := true
		l.ShowLogo = &show
	}
	return l
}

type Template struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	Type         DocType         `json:"type"`
	Layout       Layout          `json:"layoutJSON"`
	PreviewImage nullable.String `json:"previewImage"`
	CreatedBy    nullable.String `json:"createdBy"`
	CreatedAt    time.Time       `json:"createdAt"`
}

// TemplateStyle is the part of a template the renderer reads
type TemplateStyle struct {
	Color string `json:"color"`
	Font  string `json:"font"`
}

// Style returns nil for a nil template
func (t *Template) Style() *TemplateStyle {
	if t == nil {
		return nil
	}
	return &TemplateStyle{Color: t.Layout.Color, Font: t.Layout.Font}
}

func (t *Template) GetID() string { return t.ID }
