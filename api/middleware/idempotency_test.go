package middleware

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"
)

type fakeStore struct {
	data map[string]string
	gets int
	sets int
}

func newFakeStore() *fakeStore {
	return &fakeStore{data: make(map[string]string)}
}

func (f *fakeStore) Get(_ context.Context, key string) (string, error) {
	f.gets++
	if v, ok := f.data[key]; ok {
		return v, nil
	}
	return "", redis.Nil
}

func (f *fakeStore) SetNX(_ context.Context, key string, value any, _ time.Duration) (bool, error) {
	f.sets++
	if _, ok := f.data[key]; ok {
		return false, nil
	}
	str, _ := value.(string)
	f.data[key] = str
	return true, nil
}

func (f *fakeStore) IdempotencyKey(scope, id string) string {
	return fmt.Sprintf("fake:%s:%s", scope, id)
}

func TestRouteTTLSelection(t *testing.T) {
	tests := []struct {
		name   string
		method string
		path   string
		want   time.Duration
		ok     bool
	}{
		{"order intake", http.MethodPost, "/orders", defaultIdempotencyTTL, true},
		{"purchase receipt", http.MethodPost, "/purchases", defaultIdempotencyTTL, true},
		{"sale creation", http.MethodPost, "/sales", criticalIdempotencyTTL, true},
		{"conversion", http.MethodPost, "/orders/7/convert-to-sale", criticalIdempotencyTTL, true},
		{"order status", http.MethodPut, "/orders/7/status", 0, false},
		{"login", http.MethodPost, "/auth/login", 0, false},
	}

	for _, tt := range tests {
		ttl, ok := routeTTL(tt.method, tt.path)
		if ok != tt.ok {
			t.Fatalf("%s: expected ok=%v got %v", tt.name, tt.ok, ok)
		}
		if ok && ttl != tt.want {
			t.Fatalf("%s: expected ttl=%v got %v", tt.name, tt.want, ttl)
		}
	}
}

// The middleware is installed with r.Use on a route group, so it runs before
// the child route pattern resolves. Matching must therefore work from the
// request path alone, including on mounted subrouters.
func TestIdempotencyCoversMountedSubrouterRoutes(t *testing.T) {
	store := newFakeStore()
	var calls int

	r := chi.NewRouter()
	r.Group(func(r chi.Router) {
		r.Use(Idempotency(store, nil))
		r.Route("/orders", func(r chi.Router) {
			r.Post("/{id}/convert-to-sale", func(w http.ResponseWriter, _ *http.Request) {
				calls++
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusOK)
				_, _ = w.Write([]byte(`{"sale_id":12}`))
			})
		})
	})

	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodPost, "/orders/7/convert-to-sale", strings.NewReader(`{}`))
		req.Header.Set("Idempotency-Key", "conv-7")
		resp := httptest.NewRecorder()
		r.ServeHTTP(resp, req)
		if resp.Code != http.StatusOK {
			t.Fatalf("request %d: expected 200 got %d", i, resp.Code)
		}
		if strings.TrimSpace(resp.Body.String()) != `{"sale_id":12}` {
			t.Fatalf("request %d: unexpected body %s", i, resp.Body.String())
		}
	}

	if calls != 1 {
		t.Fatalf("handler executed %d times, expected replay after 1", calls)
	}
	if store.gets != 2 || store.sets != 1 {
		t.Fatalf("expected 2 gets and 1 set, got %d/%d", store.gets, store.sets)
	}
}

func TestIdempotencySkipsRequestsWithoutKey(t *testing.T) {
	store := newFakeStore()
	mw := Idempotency(store, nil)
	var calls int
	handler := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls++
		w.WriteHeader(http.StatusCreated)
	})

	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodPost, "/orders", strings.NewReader(`{}`))
		resp := httptest.NewRecorder()
		mw(handler).ServeHTTP(resp, req)
		if resp.Code != http.StatusCreated {
			t.Fatalf("expected 201 got %d", resp.Code)
		}
	}

	if calls != 2 {
		t.Fatalf("keyless requests must pass through, handler ran %d times", calls)
	}
	if store.gets != 0 {
		t.Fatalf("store consulted %d times for keyless requests", store.gets)
	}
}

func TestIdempotencyDetectsBodyChange(t *testing.T) {
	store := newFakeStore()
	mw := Idempotency(store, nil)
	handler := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	first := httptest.NewRequest(http.MethodPost, "/sales", strings.NewReader(`{"total":"10"}`))
	first.Header.Set("Idempotency-Key", "sale-1")
	mw(handler).ServeHTTP(httptest.NewRecorder(), first)

	replay := httptest.NewRequest(http.MethodPost, "/sales", strings.NewReader(`{"total":"99"}`))
	replay.Header.Set("Idempotency-Key", "sale-1")
	resp := httptest.NewRecorder()
	mw(handler).ServeHTTP(resp, replay)

	if resp.Code != http.StatusConflict {
		t.Fatalf("expected 409 got %d", resp.Code)
	}
}
