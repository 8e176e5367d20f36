package leads

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/wolfman30/realestate-site/pkg/logging"
)

func newTestHandler(t *testing.T, submitter Submitter) (*Handler, *MemoryStore) {
	t.Helper()
	store := NewMemoryStore()
	p := newTestPipeline(t, "https://example.com/", store, submitter)
	return NewHandler(p, logging.Discard()), store
}

func decodeResponse(t *testing.T, w *httptest.ResponseRecorder) SubmissionResponse {
	t.Helper()
	var resp SubmissionResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	return resp
}

func TestCreateLead_JSONSuccess(t *testing.T) {
	handler, store := newTestHandler(t, &stubSubmitter{})

	body, _ := json.Marshal(validInput())
	req := httptest.NewRequest(http.MethodPost, "/api/leads", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json; charset=utf-8")
	w := httptest.NewRecorder()

	handler.CreateLead(w, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("expected status %d, got %d", http.StatusCreated, w.Code)
	}
	resp := decodeResponse(t, w)
	if resp.State != StateSuccess || resp.ID == "" || resp.Message != SuccessMessage {
		t.Fatalf("unexpected response %+v", resp)
	}
	if n, _ := store.Len(context.Background()); n != 1 {
		t.Fatalf("expected one logged lead, got %d", n)
	}
}

func TestCreateLead_FormEncodedSuccess(t *testing.T) {
	submitter := &stubSubmitter{}
	handler, _ := newTestHandler(t, submitter)

	form := url.Values{
		"name":    {"Jane"},
		"email":   {"jane@example.com"},
		"service": {"Seller valuation"},
		"message": {"Hello"},
	}
	req := httptest.NewRequest(http.MethodPost, "/api/leads", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()

	handler.CreateLead(w, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("expected status %d, got %d", http.StatusCreated, w.Code)
	}
	if submitter.last.Get("form-name") != "contact" || submitter.last.Get("source") != "Contact form" {
		t.Fatalf("unexpected forwarded form %v", submitter.last)
	}
}

func TestCreateLead_InvalidRequest(t *testing.T) {
	handler, store := newTestHandler(t, &stubSubmitter{})

	body, _ := json.Marshal(FormInput{Email: "bad"})
	req := httptest.NewRequest(http.MethodPost, "/api/leads", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	handler.CreateLead(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected status %d, got %d", http.StatusBadRequest, w.Code)
	}
	resp := decodeResponse(t, w)
	if resp.State != StateIdle || len(resp.Errors) != 3 {
		t.Fatalf("expected idle state with three field errors, got %+v", resp)
	}
	if n, _ := store.Len(context.Background()); n != 0 {
		t.Fatal("invalid lead must not be logged")
	}
}

func TestCreateLead_MalformedJSON(t *testing.T) {
	handler, _ := newTestHandler(t, &stubSubmitter{})

	req := httptest.NewRequest(http.MethodPost, "/api/leads", strings.NewReader("{"))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	handler.CreateLead(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected status %d, got %d", http.StatusBadRequest, w.Code)
	}
}

func TestCreateLead_BackendFailure(t *testing.T) {
	handler, store := newTestHandler(t, &stubSubmitter{err: errors.New("offline")})

	body, _ := json.Marshal(validInput())
	req := httptest.NewRequest(http.MethodPost, "/api/leads", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	handler.CreateLead(w, req)

	if w.Code != http.StatusBadGateway {
		t.Fatalf("expected status %d, got %d", http.StatusBadGateway, w.Code)
	}
	resp := decodeResponse(t, w)
	if resp.State != StateError || resp.Message != RetryMessage {
		t.Fatalf("unexpected response %+v", resp)
	}
	if strings.Contains(w.Body.String(), "offline") {
		t.Fatal("internal error detail must not leak to the visitor")
	}
	if n, _ := store.Len(context.Background()); n != 0 {
		t.Fatal("failed submission must not be logged")
	}
}

func TestCreateLead_LogFailure(t *testing.T) {
	p := newTestPipeline(t, "https://example.com/", failingStore{NewMemoryStore()}, &stubSubmitter{})
	handler := NewHandler(p, logging.Discard())

	body, _ := json.Marshal(validInput())
	req := httptest.NewRequest(http.MethodPost, "/api/leads", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	handler.CreateLead(w, req)

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("expected status %d, got %d", http.StatusInternalServerError, w.Code)
	}
}

func TestCreateLead_Honeypot(t *testing.T) {
	submitter := &stubSubmitter{}
	handler, store := newTestHandler(t, submitter)

	in := validInput()
	in.BotField = "filled"
	body, _ := json.Marshal(in)
	req := httptest.NewRequest(http.MethodPost, "/api/leads", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	handler.CreateLead(w, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("expected status %d, got %d", http.StatusCreated, w.Code)
	}
	if resp := decodeResponse(t, w); resp.State != StateSuccess || resp.ID != "" {
		t.Fatalf("expected anonymous success, got %+v", resp)
	}
	if submitter.calls != 0 {
		t.Fatal("spam must not reach the backend")
	}
	if n, _ := store.Len(context.Background()); n != 0 {
		t.Fatal("spam must not be logged")
	}
}

// blockingSubmitter holds every post until release is closed.
type blockingSubmitter struct {
	entered chan struct{}
	release chan struct{}
	calls   atomic.Int32
}

func (s *blockingSubmitter) Submit(ctx context.Context, _ string, _ url.Values) error {
	s.calls.Add(1)
	s.entered <- struct{}{}
	select {
	case <-s.release:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func TestCreateLead_ResubmitSameTokenPostsOnce(t *testing.T) {
	submitter := &blockingSubmitter{entered: make(chan struct{}, 1), release: make(chan struct{})}
	handler, store := newTestHandler(t, submitter)

	post := func() *httptest.ResponseRecorder {
		in := validInput()
		in.Token = "form-abc"
		body, _ := json.Marshal(in)
		req := httptest.NewRequest(http.MethodPost, "/api/leads", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		handler.CreateLead(w, req)
		return w
	}

	first := make(chan *httptest.ResponseRecorder)
	go func() { first <- post() }()
	<-submitter.entered

	second := post()
	if second.Code != http.StatusConflict {
		t.Fatalf("expected status %d while first post is loading, got %d", http.StatusConflict, second.Code)
	}
	if resp := decodeResponse(t, second); resp.State != StateLoading {
		t.Fatalf("expected loading state, got %+v", resp)
	}

	close(submitter.release)
	if w := <-first; w.Code != http.StatusCreated {
		t.Fatalf("expected first post to succeed, got %d", w.Code)
	}

	third := post()
	if third.Code != http.StatusOK {
		t.Fatalf("expected status %d after completion, got %d", http.StatusOK, third.Code)
	}
	if resp := decodeResponse(t, third); resp.State != StateSuccess || resp.Message != SuccessMessage {
		t.Fatalf("unexpected response %+v", resp)
	}

	if got := submitter.calls.Load(); got != 1 {
		t.Fatalf("expected one outbound post, got %d", got)
	}
	if n, _ := store.Len(context.Background()); n != 1 {
		t.Fatalf("expected one logged lead, got %d", n)
	}
}
