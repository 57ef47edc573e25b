package notifications

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/eapache/go-resiliency/retrier"
	"github.com/sony/gobreaker/v2"

	apperrors "childcare-tasks.com/childcare-tasks/internal/errors"
	"childcare-tasks.com/childcare-tasks/internal/logger"
)

const DefaultExpoPushURL = "https://exp.host/--/api/v2/push/send"

type ExpoOptions struct {
	URL         string
	AccessToken string
	Timeout     time.Duration
	Retries     int
	Backoff     time.Duration
}

// ExpoDispatcher sends messages through the Expo push API.
type ExpoDispatcher struct {
	url         string
	accessToken string
	client      *http.Client
	retrier     *retrier.Retrier
	cb          *gobreaker.CircuitBreaker[Result]
}

type expoMessage struct {
	To    string         `json:"to"`
	Title string         `json:"title"`
	Body  string         `json:"body"`
	Data  map[string]any `json:"data,omitempty"`
	Sound string         `json:"sound"`
}

type expoTicket struct {
	Status  string          `json:"status"`
	ID      string          `json:"id,omitempty"`
	Message string          `json:"message,omitempty"`
	Details json.RawMessage `json:"details,omitempty"`
}

type expoResponse struct {
	Data   json.RawMessage `json:"data"`
	Errors []struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"errors"`
}

func NewExpoDispatcher(opts ExpoOptions) *ExpoDispatcher {
	if opts.URL == "" {
		opts.URL = DefaultExpoPushURL
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 5 * time.Second
	}
	if opts.Retries <= 0 {
		opts.Retries = 3
	}
	if opts.Backoff <= 0 {
		opts.Backoff = 100 * time.Millisecond
	}

	cb := gobreaker.NewCircuitBreaker[Result](gobreaker.Settings{
		Name:        "ExpoPushCB",
		MaxRequests: 1,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			logger.Log.Warn().Str("breaker", name).Str("from", from.String()).Str("to", to.String()).Msg("circuit breaker state changed")
		},
	})

	return &ExpoDispatcher{
		url:         opts.URL,
		accessToken: opts.AccessToken,
		client:      &http.Client{Timeout: opts.Timeout},
		retrier:     retrier.New(retrier.ConstantBackoff(opts.Retries, opts.Backoff), nil),
		cb:          cb,
	}
}

func (d *ExpoDispatcher) Send(ctx context.Context, token, title, body string, data map[string]any) (Result, error) {
	if token == "" {
		return Result{}, apperrors.ErrPushTokenMissing
	}

	payload, err := json.Marshal(expoMessage{
		To:    token,
		Title: title,
		Body:  body,
		Data:  data,
		Sound: "default",
	})
	if err != nil {
		return Result{}, fmt.Errorf("marshal push message: %w", err)
	}

	return d.cb.Execute(func() (Result, error) {
		var result Result
		err := d.retrier.RunCtx(ctx, func(ctx context.Context) error {
			var err error
			result, err = d.post(ctx, payload)
			return err
		})
		return result, err
	})
}

// post performs one delivery attempt. Transport failures and 5xx responses
// are errors and get retried; provider-level rejections are returned as an
// unsuccessful Result.
func (d *ExpoDispatcher) post(ctx context.Context, payload []byte) (Result, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.url, bytes.NewReader(payload))
	if err != nil {
		return Result{}, fmt.Errorf("create push request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if d.accessToken != "" {
		req.Header.Set("Authorization", "Bearer "+d.accessToken)
	}

	resp, err := d.client.Do(req)
	if err != nil {
		return Result{}, fmt.Errorf("send push request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return Result{}, fmt.Errorf("read push response: %w", err)
	}

	if resp.StatusCode >= http.StatusInternalServerError {
		return Result{}, fmt.Errorf("push provider returned status %d", resp.StatusCode)
	}

	var parsed expoResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return Result{Error: fmt.Sprintf("unexpected push response (status %d)", resp.StatusCode)}, nil
	}

	if len(parsed.Errors) > 0 {
		return Result{Error: parsed.Errors[0].Message}, nil
	}
	if resp.StatusCode != http.StatusOK {
		return Result{Error: fmt.Sprintf("push provider returned status %d", resp.StatusCode)}, nil
	}

	var ticket expoTicket
	if err := json.Unmarshal(parsed.Data, &ticket); err == nil && ticket.Status == "error" {
		return Result{Data: parsed.Data, Error: ticket.Message}, nil
	}

	return Result{Success: true, Data: parsed.Data}, nil
}
