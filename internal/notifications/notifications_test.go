package notifications

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	apperrors "childcare-tasks.com/childcare-tasks/internal/errors"
	model "childcare-tasks.com/childcare-tasks/internal/models"
)

func newTestDispatcher(url string) *ExpoDispatcher {
	return NewExpoDispatcher(ExpoOptions{
		URL:     url,
		Timeout: time.Second,
		Retries: 2,
		Backoff: time.Millisecond,
	})
}

func TestExpoDispatcher_Success(t *testing.T) {
	var received expoMessage
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", r.Method)
		}
		if err := json.NewDecoder(r.Body).Decode(&received); err != nil {
			t.Errorf("decode body: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"data":{"status":"ok","id":"ticket-1"}}`))
	}))
	defer srv.Close()

	d := newTestDispatcher(srv.URL)
	res, err := d.Send(context.Background(), "ExponentPushToken[abc]", "Hi", "Body", map[string]any{"taskId": "t1"})
	if err != nil {
		t.Fatalf("send failed: %v", err)
	}
	if !res.Success {
		t.Fatalf("expected success, got %+v", res)
	}
	if received.To != "ExponentPushToken[abc]" || received.Title != "Hi" || received.Sound != "default" {
		t.Errorf("unexpected message sent: %+v", received)
	}
	if received.Data["taskId"] != "t1" {
		t.Errorf("expected taskId in data, got %v", received.Data)
	}
}

func TestExpoDispatcher_ProviderRejection(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data":{"status":"error","message":"DeviceNotRegistered"}}`))
	}))
	defer srv.Close()

	res, err := newTestDispatcher(srv.URL).Send(context.Background(), "tok", "t", "b", nil)
	if err != nil {
		t.Fatalf("rejection should not be a transport error: %v", err)
	}
	if res.Success || res.Error != "DeviceNotRegistered" {
		t.Errorf("expected rejection result, got %+v", res)
	}
}

func TestExpoDispatcher_RetriesServerErrors(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.Write([]byte(`{"data":{"status":"ok"}}`))
	}))
	defer srv.Close()

	res, err := newTestDispatcher(srv.URL).Send(context.Background(), "tok", "t", "b", nil)
	if err != nil {
		t.Fatalf("expected retries to recover, got %v", err)
	}
	if !res.Success {
		t.Errorf("expected success after retries, got %+v", res)
	}
	if got := atomic.LoadInt32(&calls); got != 3 {
		t.Errorf("expected 3 attempts, got %d", got)
	}
}

func TestExpoDispatcher_GivesUpAfterRetries(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	_, err := newTestDispatcher(srv.URL).Send(context.Background(), "tok", "t", "b", nil)
	if err == nil {
		t.Fatal("expected error after exhausting retries")
	}
	if got := atomic.LoadInt32(&calls); got != 3 {
		t.Errorf("expected 1 attempt plus 2 retries, got %d", got)
	}
}

func TestExpoDispatcher_MissingToken(t *testing.T) {
	_, err := newTestDispatcher("http://unused").Send(context.Background(), "", "t", "b", nil)
	if !errors.Is(err, apperrors.ErrPushTokenMissing) {
		t.Errorf("expected ErrPushTokenMissing, got %v", err)
	}
}

type stubUsers map[string]*model.User

func (s stubUsers) FindByID(_ context.Context, id string) (*model.User, error) {
	if u, ok := s[id]; ok {
		return u, nil
	}
	return nil, apperrors.ErrUserNotFound
}

type recordingDispatcher struct {
	tokens []string
	bodies []string
	result Result
	err    error
}

func (r *recordingDispatcher) Send(_ context.Context, token, _, body string, _ map[string]any) (Result, error) {
	r.tokens = append(r.tokens, token)
	r.bodies = append(r.bodies, body)
	return r.result, r.err
}

func TestNotifier_TaskAssigned(t *testing.T) {
	token := "ExponentPushToken[x]"
	users := stubUsers{
		"with-token":    {ID: "with-token", PushToken: &token},
		"without-token": {ID: "without-token"},
	}
	task := &model.Task{ID: "t1", Title: "Pack lunch"}

	d := &recordingDispatcher{result: Result{Success: true}}
	n := NewNotifier(users, d)

	if err := n.TaskAssigned(context.Background(), "with-token", task); err != nil {
		t.Fatalf("expected success, got %v", err)
	}
	if len(d.tokens) != 1 || d.tokens[0] != token {
		t.Errorf("expected one send to %s, got %v", token, d.tokens)
	}
	if d.bodies[0] != "You have been assigned a new task: Pack lunch" {
		t.Errorf("unexpected body %q", d.bodies[0])
	}

	err := n.TaskAssigned(context.Background(), "without-token", task)
	if !errors.Is(err, apperrors.ErrPushTokenMissing) {
		t.Errorf("expected ErrPushTokenMissing, got %v", err)
	}
	if apperrors.KindOf(err) != apperrors.KindBadRequest {
		t.Errorf("missing token should be BAD_REQUEST, got %s", apperrors.KindOf(err))
	}

	d.result = Result{Error: "DeviceNotRegistered"}
	if err := n.TaskAssigned(context.Background(), "with-token", task); err == nil {
		t.Error("expected rejected result to surface as error")
	}
}
