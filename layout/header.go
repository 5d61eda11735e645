package layout

import (
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/zeptools/gw-invoice/pdfs"
)

const (
	logoWidth      = 60
	logoHeight     = 25
	logoAdvance    = 30
	titleColOffset = 120
)

var ErrEmptyLogo = errors.New("empty logo data")

// HeaderBlock is what the header zone shows
type HeaderBlock struct {
	CompanyName    string
	CompanyAddress string
	Title          string // INVOICE or RECEIPT
	Number         string
	Logo           string // base64, optional
}

// Header draws the company column at the cursor and the title column at a
// fixed anchor. The cursor ends below whichever column is taller.
func (c *Context) Header(h HeaderBlock) float64 {
	top := c.Page.Margins.Top
	left := c.Page.Margins.Left

	c.AtAnchor(c.Page.Width()-c.Page.Margins.Right-titleColOffset, top, func(x float64, y float64) {
		c.text(x, y, titleColOffset, h.Title, TextStyle{Style: StyleBold, Size: 20, Color: TextColor}, pdfs.AlignLeft)
		c.text(x, y+25, titleColOffset, h.Number, TextStyle{Style: StyleBold, Size: 10, Color: MutedColor}, pdfs.AlignLeft)
	})

	return c.AtCursor(func(y float64) float64 {
		if h.Logo != "" {
			if err := c.drawLogo(h.Logo, left, y); err != nil {
				c.Log.Warn("layout: logo skipped", zap.Error(err))
			} else {
				y += logoAdvance
			}
		}
		c.text(left, y, c.Page.ContentWidth()/2, h.CompanyName, TextStyle{Style: StyleBold, Size: 14, Color: TextColor}, pdfs.AlignLeft)
		y += 16
		c.text(left, y, c.Page.ContentWidth()/2, h.CompanyAddress, TextStyle{Style: StyleRegular, Size: 9, Color: MutedColor}, pdfs.AlignLeft)
		y += 20
		return max(y, top+50)
	})
}

func (c *Context) drawLogo(encoded string, x float64, y float64) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("logo draw panic: %v", r)
		}
	}()
	data, err := DecodeLogo(encoded)
	if err != nil {
		return err
	}
	return c.W.Image("logo", data, x, y, logoWidth, logoHeight)
}

// DecodeLogo accepts plain base64 or a data URL
func DecodeLogo(s string) ([]byte, error) {
	s = strings.TrimSpace(s)
	if i := strings.Index(s, ";base64,"); i >= 0 && strings.HasPrefix(s, "data:") {
		s = s[i+len(";base64,"):]
	}
	if s == "" {
		return nil, ErrEmptyLogo
	}
	data, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		data, err = base64.RawStdEncoding.DecodeString(strings.TrimRight(s, "="))
		if err != nil {
			return nil, fmt.Errorf("decode logo: %w", err)
		}
	}
	if len(data) == 0 {
		return nil, ErrEmptyLogo
	}
	return data, nil
}
