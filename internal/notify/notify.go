// Package notify sends SMS and WhatsApp messages through an HTTP gateway.
// Delivery is best-effort: callers persist the notification first and record
// the send outcome afterwards.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"agroapi/internal/config"
)

// Delivery channels.
const (
	ChannelSMS      = "sms"
	ChannelWhatsApp = "whatsapp"
)

// ErrNotConfigured is returned when no gateway URL is set. Callers treat it
// as "delivery disabled", not as a failure.
var ErrNotConfigured = errors.New("notify gateway not configured")

// ErrInvalidRecipient is returned when the destination number cannot be
// normalized to an international format.
var ErrInvalidRecipient = errors.New("invalid recipient number")

// Sender delivers a message to a phone number over a channel.
type Sender interface {
	Send(ctx context.Context, channel, to, message string) error
}

// HTTPSender posts messages to an HTTP gateway.
type HTTPSender struct {
	cfg    config.NotifyConfig
	client *http.Client
}

// NewHTTPSender creates a gateway client. An optional http.Client can be
// injected for testing; the default client traces outbound calls.
func NewHTTPSender(cfg config.NotifyConfig, httpClient ...*http.Client) *HTTPSender {
	client := &http.Client{
		Timeout:   10 * time.Second,
		Transport: otelhttp.NewTransport(http.DefaultTransport),
	}
	if len(httpClient) > 0 && httpClient[0] != nil {
		client = httpClient[0]
	}
	return &HTTPSender{cfg: cfg, client: client}
}

var _ Sender = (*HTTPSender)(nil)

type gatewayMessage struct {
	Channel string `json:"channel"`
	From    string `json:"from"`
	To      string `json:"to"`
	Message string `json:"message"`
}

// Send posts one message to the gateway.
func (s *HTTPSender) Send(ctx context.Context, channel, to, message string) error {
	if s.cfg.APIURL == "" {
		return ErrNotConfigured
	}

	msisdn := NormalizeMSISDN(to, s.cfg.DefaultCountryCode)
	if msisdn == "" {
		return fmt.Errorf("%w: %q", ErrInvalidRecipient, to)
	}

	from := s.cfg.SMSSender
	if channel == ChannelWhatsApp {
		from = s.cfg.WhatsAppSender
	}

	body, err := json.Marshal(gatewayMessage{
		Channel: channel,
		From:    from,
		To:      msisdn,
		Message: message,
	})
	if err != nil {
		return fmt.Errorf("encode gateway message: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.cfg.APIURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build gateway request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if s.cfg.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+s.cfg.APIKey)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("send %s to gateway: %w", channel, err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("gateway returned status %d for %s", resp.StatusCode, channel)
	}
	return nil
}

// NormalizeMSISDN converts a raw phone number to +<country><number> form.
// Numbers already starting with + are kept; a leading 0 is replaced with the
// default country code; bare 10-digit numbers get the code prepended.
// Returns "" when the input cannot be normalized.
func NormalizeMSISDN(raw, countryCode string) string {
	cleaned := strings.Map(func(r rune) rune {
		switch r {
		case ' ', '-', '(', ')':
			return -1
		}
		return r
	}, strings.TrimSpace(raw))

	if cleaned == "" {
		return ""
	}

	plus := strings.HasPrefix(cleaned, "+")
	digits := strings.TrimPrefix(cleaned, "+")
	for _, r := range digits {
		if r < '0' || r > '9' {
			return ""
		}
	}
	if len(digits) < 8 || len(digits) > 15 {
		return ""
	}

	if plus {
		return "+" + digits
	}
	if strings.HasPrefix(digits, "0") {
		return countryCode + digits[1:]
	}
	if len(digits) == 10 {
		return countryCode + digits
	}
	return "+" + digits
}
