package renderer

import (
	"context"
	"encoding/json"
	"fmt"
	"hash/crc32"
	"time"

	"github.com/fhuszti/media-converter-go/internal/port"
	"github.com/fhuszti/media-converter-go/internal/uuid"
)

type httpRenderer struct {
	cache port.Cache
	ttl   time.Duration
	now   port.Clock
}

// compile-time check: *httpRenderer must satisfy port.HTTPRenderer
var _ port.HTTPRenderer = (*httpRenderer)(nil)

// NewHTTPRenderer creates a new HTTPRenderer. Finished tasks are cached for ttl.
func NewHTTPRenderer(cache port.Cache, ttl time.Duration) port.HTTPRenderer {
	return &httpRenderer{cache: cache, ttl: ttl, now: time.Now}
}

// RenderTaskStatus returns the JSON encoded task and a quoted ETag string.
// Only terminal records are cached since they never change again.
func (r *httpRenderer) RenderTaskStatus(ctx context.Context, poller port.StatusPoller, id uuid.UUID) ([]byte, string, error) {
	raw, err := r.cache.GetTaskStatus(ctx, id)
	etag, errEtag := r.cache.GetEtagTaskStatus(ctx, id)
	if err == nil && errEtag == nil && raw != nil && etag != "" {
		return raw, etag, nil
	}

	rec, err := poller.PollStatus(ctx, id)
	if err != nil {
		return nil, "", err
	}

	raw, err = json.Marshal(rec)
	if err != nil {
		return nil, "", fmt.Errorf("json marshal: %w", err)
	}

	etag = fmt.Sprintf("\"%08x\"", crc32.ChecksumIEEE(raw))
	if rec.Status.IsTerminal() && r.ttl > 0 {
		validUntil := r.now().Add(r.ttl)
		r.cache.SetTaskStatus(ctx, id, raw, validUntil)
		r.cache.SetEtagTaskStatus(ctx, id, etag, validUntil)
	}

	return raw, etag, nil
}
