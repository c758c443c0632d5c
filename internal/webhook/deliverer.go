package webhook

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/Babidiii/webhoogz/internal/domain"
	ws "github.com/Babidiii/webhoogz/internal/websocket"
)

// SignatureHeader carries the hex HMAC-SHA256 of the request body. The name
// is part of the wire contract consumers verify against.
const SignatureHeader = "X-CTFd-HMAC-Signature"

// DeliveryLog records completed delivery attempts.
type DeliveryLog interface {
	AppendLog(ctx context.Context, e domain.LogEntry) error
}

// Deliverer performs the HTTP delivery of signed webhook payloads. Every
// attempt ends in a log entry: success with the HTTP status code when a
// response came back (whatever its code), error with a description when the
// transport failed. There are no retries.
type Deliverer struct {
	httpClient *http.Client
	log        DeliveryLog
	hub        *ws.Hub
	logger     *slog.Logger
}

// NewDeliverer creates a deliverer with a bounded HTTP client so one
// unreachable destination cannot stall a worker indefinitely. hub may be
// nil when no live feed is wanted.
func NewDeliverer(timeout time.Duration, log DeliveryLog, hub *ws.Hub, logger *slog.Logger) *Deliverer {
	return &Deliverer{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		log:    log,
		hub:    hub,
		logger: logger,
	}
}

// Deliver signs the body with the job's secret and POSTs it. The signature
// is computed over the exact bytes transmitted.
func (d *Deliverer) Deliver(ctx context.Context, job DeliveryJob) {
	signature := computeHMAC(job.Body, job.Secret)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, job.URL, bytes.NewReader(job.Body))
	if err != nil {
		d.recordOutcome(ctx, job, nil, fmt.Sprintf("failed to create request: %v", err))
		return
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(SignatureHeader, signature)

	resp, err := d.httpClient.Do(req)
	if err != nil {
		d.recordOutcome(ctx, job, nil, fmt.Sprintf("request failed: %v", err))
		return
	}
	defer resp.Body.Close()

	// Drain so the connection can be reused; the response body itself is
	// not recorded.
	io.Copy(io.Discard, io.LimitReader(resp.Body, 1024))

	d.recordOutcome(ctx, job, &resp.StatusCode, "")
}

// recordOutcome appends the delivery log entry and pushes the outcome to
// the live feed.
func (d *Deliverer) recordOutcome(ctx context.Context, job DeliveryJob, statusCode *int, errMsg string) {
	now := time.Now().UTC()

	entry := domain.LogEntry{
		ConfigID:  job.ConfigID,
		URL:       job.URL,
		EventType: job.EventType,
		Status:    domain.StatusSuccess,
		Timestamp: now,
	}
	if errMsg != "" {
		entry.Status = domain.StatusError
		entry.ErrorMessage = &errMsg
	} else {
		entry.ResponseCode = statusCode
	}

	if err := d.log.AppendLog(ctx, entry); err != nil {
		d.logger.Error("failed to record delivery attempt",
			"error", err,
			"config_id", job.ConfigID,
			"url", job.URL,
		)
	}

	if d.hub != nil {
		d.hub.Broadcast(ws.DeliveryOutcome{
			ConfigID:     entry.ConfigID,
			URL:          entry.URL,
			EventType:    entry.EventType,
			Status:       entry.Status,
			ResponseCode: entry.ResponseCode,
			Error:        errMsg,
			Timestamp:    now,
		})
	}

	if entry.Status == domain.StatusSuccess {
		d.logger.Info("webhook sent",
			"config_id", job.ConfigID,
			"url", job.URL,
			"event_type", job.EventType,
			"status_code", statusCode,
		)
	} else {
		d.logger.Warn("webhook delivery failed",
			"config_id", job.ConfigID,
			"url", job.URL,
			"event_type", job.EventType,
			"error", errMsg,
		)
	}
}

// computeHMAC generates the hex HMAC-SHA256 signature for the payload.
func computeHMAC(payload []byte, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(payload)
	return hex.EncodeToString(mac.Sum(nil))
}
