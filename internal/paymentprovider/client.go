// Package paymentprovider — клиент Stripe: создание payment intent
// и проверка подписи webhook.
package paymentprovider

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/paymentintent"
	"golang.org/x/time/rate"
)

// burst — сколько запросов к провайдеру можно отправить подряд без ожидания.
const burst = 5

// Client вызывает API провайдера не чаще rps запросов в секунду.
type Client struct {
	intents *paymentintent.Client
	limiter *rate.Limiter
}

// NewClient создаёт клиент провайдера. apiURL позволяет указать
// совместимый с Stripe адрес, например тестовый сервер.
func NewClient(apiURL, secretKey string, timeout time.Duration, rps float64) *Client {
	backend := stripe.GetBackendWithConfig(stripe.APIBackend, &stripe.BackendConfig{
		URL:               stripe.String(strings.TrimRight(apiURL, "/")),
		HTTPClient:        &http.Client{Timeout: timeout},
		MaxNetworkRetries: stripe.Int64(0),
		LeveledLogger:     &stripe.LeveledLogger{Level: stripe.LevelNull},
	})
	return &Client{
		intents: &paymentintent.Client{B: backend, Key: secretKey},
		limiter: rate.NewLimiter(rate.Limit(rps), burst),
	}
}

// CreateIntent создаёт payment intent на сумму бронирования.
// Повторный вызов для того же бронирования идемпотентен на стороне провайдера.
func (c *Client) CreateIntent(ctx context.Context, req CreateIntentRequest) (*PaymentIntent, error) {
	const op = "paymentprovider.CreateIntent"

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(int64(req.Amount)),
		Currency: stripe.String(strings.ToLower(req.Currency)),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled: stripe.Bool(true),
		},
	}
	params.Context = ctx
	params.SetIdempotencyKey("intent-" + req.ReservationID)
	params.AddMetadata(MetadataReservationID, req.ReservationID)

	pi, err := c.intents.New(params)
	if err != nil {
		var stripeErr *stripe.Error
		if errors.As(err, &stripeErr) {
			return nil, fmt.Errorf("%s: %w", op, &APIError{
				StatusCode: stripeErr.HTTPStatusCode,
				Type:       string(stripeErr.Type),
				Message:    stripeErr.Msg,
			})
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	intent := intentFromStripe(pi)
	return &intent, nil
}

func intentFromStripe(pi *stripe.PaymentIntent) PaymentIntent {
	return PaymentIntent{
		ID:           pi.ID,
		ClientSecret: pi.ClientSecret,
		Amount:       int(pi.Amount),
		Currency:     string(pi.Currency),
		Status:       string(pi.Status),
		Metadata:     pi.Metadata,
	}
}
