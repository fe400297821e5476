package notify

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"tasnim.dev/costalert/internal/alert"
)

// WebhookNotifier posts alerts as JSON to the URL in the message destination.
// If secret is non-empty, requests are signed with HMAC-SHA256.
type WebhookNotifier struct {
	secret string
	client *http.Client
	now    func() time.Time
}

func NewWebhookNotifier(secret string) *WebhookNotifier {
	return &WebhookNotifier{
		secret: secret,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
		now: time.Now,
	}
}

func (w *WebhookNotifier) Name() string { return "webhook" }

func (w *WebhookNotifier) Send(ctx context.Context, msg alert.Message) (DeliveryResult, error) {
	result, err := w.send(ctx, msg)
	if err != nil {
		return DeliveryResult{}, &DeliveryError{Sink: w.Name(), Err: err}
	}
	return result, nil
}

func (w *WebhookNotifier) send(ctx context.Context, msg alert.Message) (DeliveryResult, error) {
	payload := webhookPayload{
		Event:     "spend_alert",
		Timestamp: w.now().UTC().Format(time.RFC3339),
		Subject:   msg.Subject,
		Message:   msg.Body,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return DeliveryResult{}, fmt.Errorf("marshal webhook payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, msg.Destination, bytes.NewReader(body))
	if err != nil {
		return DeliveryResult{}, fmt.Errorf("create webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", "costalert/1.0")

	if w.secret != "" {
		req.Header.Set("X-Signature-256", "sha256="+computeHMAC(body, []byte(w.secret)))
	}

	resp, err := w.client.Do(req)
	if err != nil {
		return DeliveryResult{}, fmt.Errorf("send webhook alert: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return DeliveryResult{}, fmt.Errorf("webhook returned status %d", resp.StatusCode)
	}
	return DeliveryResult{Sink: w.Name(), MessageID: resp.Header.Get("X-Request-Id")}, nil
}

type webhookPayload struct {
	Event     string `json:"event"`
	Timestamp string `json:"timestamp"`
	Subject   string `json:"subject"`
	Message   string `json:"message"`
}

func computeHMAC(message, key []byte) string {
	mac := hmac.New(sha256.New, key)
	mac.Write(message)
	return hex.EncodeToString(mac.Sum(nil))
}
