package api

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"

	"github.com/zeptools/gw-invoice/db/kvdb"
	"github.com/zeptools/gw-invoice/documents"
	"github.com/zeptools/gw-invoice/metrics"
	"github.com/zeptools/gw-invoice/models"
	"github.com/zeptools/gw-invoice/sec"
)

// PDFCache keeps rendered documents in the KV store, keyed by a hash of the
// record and the template style. Edits change the key, so nothing is ever
// invalidated explicitly. A nil cache or a zero TTL renders every time.
type PDFCache struct {
	KV      kvdb.Client
	AppName string
	TTL     time.Duration
	Metrics *metrics.Render
	Log     *zap.Logger
}

func NewPDFCache(kv kvdb.Client, appName string, ttl time.Duration, m *metrics.Render, log *zap.Logger) *PDFCache {
	if log == nil {
		log = zap.NewNop()
	}
	return &PDFCache{KV: kv, AppName: appName, TTL: ttl, Metrics: m, Log: log}
}

func (c *PDFCache) enabled() bool {
	return c != nil && c.KV != nil && c.TTL > 0
}

// Key is <app>_pdf:<kind>:<sha256(record json + style json)>
func (c *PDFCache) Key(kind documents.Kind, record any, style *models.TemplateStyle) (string, error) {
	rb, err := json.Marshal(record)
	if err != nil {
		return "", err
	}
	sb, err := json.Marshal(style)
	if err != nil {
		return "", err
	}
	return c.AppName + "_pdf:" + string(kind) + ":" + sec.HashHexSHA256(string(rb)+string(sb)), nil
}

// Render returns the cached document or runs render and stores its output.
// Cache failures are logged and never fail the request.
func (c *PDFCache) Render(ctx context.Context, kind documents.Kind, record any, style *models.TemplateStyle, render func() ([]byte, error)) ([]byte, error) {
	if !c.enabled() {
		return render()
	}
	key, err := c.Key(kind, record, style)
	if err != nil {
		c.Log.Warn("pdf cache key failed", zap.Error(err))
		return render()
	}

	cached, found, err := c.KV.Get(ctx, key)
	switch {
	case err != nil:
		c.Log.Warn("pdf cache read failed", zap.String("key", key), zap.Error(err))
	case found:
		c.Metrics.ObserveCache(string(kind), true)
		return []byte(cached), nil
	}
	c.Metrics.ObserveCache(string(kind), false)

	out, err := render()
	if err != nil {
		return nil, err
	}
	if err := c.KV.Set(ctx, key, string(out), c.TTL); err != nil {
		c.Log.Warn("pdf cache write failed", zap.String("key", key), zap.Error(err))
	}
	return out, nil
}
