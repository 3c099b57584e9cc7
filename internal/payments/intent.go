// Package payments creates card payment intents with Stripe.
package payments

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/mdrakibmia99/hospital-management-system-server/internal/apperr"
	"github.com/mdrakibmia99/hospital-management-system-server/internal/metrics"
)

const tracerName = "portal.internal.payments.stripe"

// Intent is the subset of a Stripe PaymentIntent the client needs.
type Intent struct {
	ID           string `json:"id"`
	ClientSecret string `json:"client_secret"`
	Amount       int64  `json:"amount"`
	Currency     string `json:"currency"`
}

type Config struct {
	SecretKey string
	BaseURL   string
	Currency  string
	DryRun    bool
}

// StripeClient talks to the Stripe PaymentIntents API over plain HTTP.
type StripeClient struct {
	secretKey  string
	baseURL    string
	currency   string
	apiVersion string
	dryRun     bool
	httpClient *http.Client
	metrics    *metrics.Metrics
	logger     zerolog.Logger
}

func NewStripeClient(cfg Config, m *metrics.Metrics, logger zerolog.Logger) *StripeClient {
	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = "https://api.stripe.com"
	}
	currency := strings.ToLower(cfg.Currency)
	if currency == "" {
		currency = "usd"
	}
	return &StripeClient{
		secretKey:  cfg.SecretKey,
		baseURL:    baseURL,
		currency:   currency,
		apiVersion: "2024-12-18.acacia",
		dryRun:     cfg.DryRun,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		metrics:    m,
		logger:     logger,
	}
}

// AmountCents converts a price in major units to the smallest currency unit.
func AmountCents(price float64) (int64, error) {
	if math.IsNaN(price) || math.IsInf(price, 0) || price <= 0 {
		return 0, apperr.Validation("price must be a positive number")
	}
	return int64(math.Round(price * 100)), nil
}

// CreateIntent creates a card-only payment intent for price.
func (c *StripeClient) CreateIntent(ctx context.Context, price float64) (Intent, error) {
	amount, err := AmountCents(price)
	if err != nil {
		return Intent{}, err
	}

	ctx, span := otel.Tracer(tracerName).Start(ctx, "stripe.create_payment_intent", trace.WithSpanKind(trace.SpanKindClient))
	defer span.End()
	span.SetAttributes(attribute.Int64("portal.amount_cents", amount), attribute.String("portal.currency", c.currency))

	if c.dryRun {
		id := "pi_dryrun_" + uuid.NewString()[:8]
		c.logger.Info().Int64("amount_cents", amount).Msg("stripe dry run: skipping payment intent creation")
		c.metrics.ObserveIntent(metrics.IntentCreated)
		return Intent{ID: id, ClientSecret: id + "_secret_dryrun", Amount: amount, Currency: c.currency}, nil
	}
	if c.secretKey == "" {
		c.metrics.ObserveIntent(metrics.OutcomeError)
		return Intent{}, apperr.Upstream("payment provider not configured", nil)
	}

	form := url.Values{}
	form.Set("amount", strconv.FormatInt(amount, 10))
	form.Set("currency", c.currency)
	form.Add("payment_method_types[]", "card")

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/payment_intents", strings.NewReader(form.Encode()))
	if err != nil {
		return Intent{}, apperr.Internal("failed to build payment intent request", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.secretKey)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Stripe-Version", c.apiVersion)
	req.Header.Set("Idempotency-Key", uuid.NewString())

	intent, err := c.do(req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "payment intent failed")
		c.metrics.ObserveIntent(metrics.OutcomeError)
		c.logger.Error().Err(err).Int64("amount_cents", amount).Msg("stripe payment intent failed")
		return Intent{}, err
	}
	span.SetAttributes(attribute.String("portal.payment_intent_id", intent.ID))
	c.metrics.ObserveIntent(metrics.IntentCreated)
	return intent, nil
}

func (c *StripeClient) do(req *http.Request) (Intent, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Intent{}, apperr.Upstream("payment provider unavailable", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return Intent{}, apperr.Upstream("payment provider unavailable", err)
	}
	if resp.StatusCode >= 300 {
		var stripeErr struct {
			Error struct {
				Message string `json:"message"`
				Type    string `json:"type"`
			} `json:"error"`
		}
		_ = json.Unmarshal(body, &stripeErr)
		return Intent{}, apperr.Upstream("payment provider rejected the request",
			fmt.Errorf("stripe status %d: %s %s", resp.StatusCode, stripeErr.Error.Type, stripeErr.Error.Message))
	}

	var intent Intent
	if err := json.Unmarshal(body, &intent); err != nil {
		return Intent{}, apperr.Upstream("payment provider returned an invalid response", err)
	}
	if intent.ClientSecret == "" {
		return Intent{}, apperr.Upstream("payment provider returned no client secret", nil)
	}
	return intent, nil
}
