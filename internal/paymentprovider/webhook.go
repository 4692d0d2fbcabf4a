package paymentprovider

import (
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/webhook"
)

// SignatureHeader — заголовок с подписью webhook.
const SignatureHeader = "Stripe-Signature"

// DefaultTolerance — допустимое расхождение времени подписи.
const DefaultTolerance = webhook.DefaultTolerance

// Sign возвращает значение заголовка подписи для body в момент ts.
func Sign(body []byte, secret string, ts time.Time) string {
	sig := webhook.ComputeSignature(ts, body, secret)
	return "t=" + strconv.FormatInt(ts.Unix(), 10) + ",v1=" + hex.EncodeToString(sig)
}

// ConstructEvent проверяет подпись webhook и разбирает событие.
// Пустой secret отклоняется всегда.
func ConstructEvent(body []byte, header, secret string, tolerance time.Duration) (*Event, error) {
	const op = "paymentprovider.ConstructEvent"

	if secret == "" {
		return nil, fmt.Errorf("%s: %w: webhook secret is empty", op, ErrInvalidSignature)
	}

	se, err := webhook.ConstructEventWithOptions(body, header, secret, webhook.ConstructEventOptions{
		Tolerance:                tolerance,
		IgnoreAPIVersionMismatch: true,
	})
	switch {
	case err == nil:
	case errors.Is(err, webhook.ErrTooOld):
		return nil, fmt.Errorf("%s: %w", op, ErrSignatureExpired)
	case errors.Is(err, webhook.ErrNotSigned), errors.Is(err, webhook.ErrInvalidHeader), errors.Is(err, webhook.ErrNoValidSignature):
		return nil, fmt.Errorf("%s: %w: %v", op, ErrInvalidSignature, err)
	default:
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if se.Type == "" {
		return nil, fmt.Errorf("%s: event type is empty", op)
	}

	event := &Event{ID: se.ID, Type: string(se.Type)}
	if se.Data != nil && len(se.Data.Raw) > 0 {
		var pi stripe.PaymentIntent
		if err := json.Unmarshal(se.Data.Raw, &pi); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		event.Data.Object = intentFromStripe(&pi)
	}
	return event, nil
}
