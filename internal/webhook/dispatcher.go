package webhook

import (
	"context"
	"encoding/json"
	"log/slog"
	"os"

	"github.com/Babidiii/webhoogz/internal/domain"
)

// DefaultSecretEnv is the environment variable holding the fallback HMAC
// key for destinations without their own secret. It is read on every
// dispatch, so operators can rotate it without a restart.
const DefaultSecretEnv = "WEBHOOK_SECRET"

// envelope is the wire wrapper around every payload. Field order matters:
// the canonical body is `{"event":...,"data":...}` with no whitespace.
type envelope struct {
	Event string `json:"event"`
	Data  any    `json:"data"`
}

// SubscriptionSource yields the current destination table. Each dispatch
// loads it fresh so an admin full-replace lands atomically between
// dispatches, never inside one.
type SubscriptionSource interface {
	LoadDestinations(ctx context.Context) (domain.DestinationTable, error)
}

// Dispatcher resolves the destinations subscribed to an event kind, builds
// the canonical envelope, resolves per-destination secrets, and hands one
// delivery job per destination to the worker pool. Dispatch is
// fire-and-forget: it never returns an error to the triggering event.
type Dispatcher struct {
	subs   SubscriptionSource
	pool   *Pool
	logger *slog.Logger
}

func NewDispatcher(subs SubscriptionSource, pool *Pool, logger *slog.Logger) *Dispatcher {
	return &Dispatcher{
		subs:   subs,
		pool:   pool,
		logger: logger,
	}
}

// Dispatch sends the payload for kind to every subscribed destination.
// The envelope is serialized once; the same bytes are signed and
// transmitted, so the signature stays valid. Destinations without any
// resolvable secret are skipped without a log entry.
func (d *Dispatcher) Dispatch(ctx context.Context, kind string, payload any) {
	table, err := d.subs.LoadDestinations(ctx)
	if err != nil {
		d.logger.Error("failed to load destinations, dropping dispatch", "kind", kind, "error", err)
		return
	}

	urls := table.URLsForEvent(kind)
	if len(urls) == 0 {
		d.logger.Info("no webhooks configured for event", "kind", kind)
		return
	}

	body, err := json.Marshal(envelope{Event: kind, Data: payload})
	if err != nil {
		d.logger.Error("failed to serialize payload, dropping dispatch", "kind", kind, "error", err)
		return
	}

	defaultSecret := os.Getenv(DefaultSecretEnv)

	for _, url := range urls {
		secret, ok := table.SecretForURL(url)
		if !ok {
			secret = defaultSecret
		}
		if secret == "" {
			d.logger.Warn("no HMAC secret configured, skipping destination",
				"kind", kind, "url", url)
			continue
		}

		configID, _ := table.IDForURL(url)
		d.pool.Submit(DeliveryJob{
			ConfigID:  configID,
			URL:       url,
			Secret:    secret,
			EventType: kind,
			Body:      body,
		})
	}
}
