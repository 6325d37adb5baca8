package health_test

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/vimleague/hub/internal/handler/health"
)

func checker(err error) health.Checker {
	return health.CheckerFunc(func(context.Context) error { return err })
}

func TestHandler(t *testing.T) {
	tests := []struct {
		name       string
		checks     map[string]health.Checker
		wantStatus int
		wantBody   map[string]string
	}{
		{
			name: "all healthy",
			checks: map[string]health.Checker{
				"store":    checker(nil),
				"sessions": checker(nil),
			},
			wantStatus: http.StatusOK,
			wantBody:   map[string]string{"store": "ok", "sessions": "ok"},
		},
		{
			name: "store down",
			checks: map[string]health.Checker{
				"store":    checker(errors.New("locked")),
				"sessions": checker(nil),
			},
			wantStatus: http.StatusServiceUnavailable,
			wantBody:   map[string]string{"store": "error", "sessions": "ok"},
		},
		{
			name: "sessions down",
			checks: map[string]health.Checker{
				"store":    checker(nil),
				"sessions": checker(errors.New("refused")),
			},
			wantStatus: http.StatusServiceUnavailable,
			wantBody:   map[string]string{"store": "ok", "sessions": "error"},
		},
		{
			name: "both down",
			checks: map[string]health.Checker{
				"store":    checker(errors.New("disk")),
				"sessions": checker(errors.New("cache")),
			},
			wantStatus: http.StatusServiceUnavailable,
			wantBody:   map[string]string{"store": "error", "sessions": "error"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := health.NewHandler(slog.Default(), tt.checks)

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			rec := httptest.NewRecorder()
			h.Routes().ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}

			var body map[string]health.Result
			if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
				t.Fatalf("decoding response: %v", err)
			}

			for name, want := range tt.wantBody {
				if got := body[name].Status; got != want {
					t.Errorf("%s status = %q, want %q", name, got, want)
				}
			}
		})
	}
}
