package youdao

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestTranslate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		status   int
		body     string
		want     string
		wantOK   bool
		wantWord string
	}{
		{
			name:     "entry with explanation",
			status:   http.StatusOK,
			body:     `{"result":{"code":200},"data":{"entries":[{"entry":"apple","explain":"n. 苹果；vt. 用苹果砸"}]}}`,
			want:     "n. 苹果；vt. 用苹果砸",
			wantOK:   true,
			wantWord: "apple",
		},
		{
			name:   "non-200 api code",
			status: http.StatusOK,
			body:   `{"result":{"code":404},"data":{"entries":[]}}`,
		},
		{
			name:   "no entries",
			status: http.StatusOK,
			body:   `{"result":{"code":200},"data":{"entries":[]}}`,
		},
		{
			name:   "entry without explanation",
			status: http.StatusOK,
			body:   `{"result":{"code":200},"data":{"entries":[{"entry":"apple","explain":""}]}}`,
		},
		{
			name:   "server error",
			status: http.StatusInternalServerError,
			body:   `{}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Path != "/suggest" {
					t.Errorf("unexpected path %q", r.URL.Path)
				}
				if tt.wantWord != "" && r.URL.Query().Get("q") != tt.wantWord {
					t.Errorf("q = %q, want %q", r.URL.Query().Get("q"), tt.wantWord)
				}
				if r.URL.Query().Get("doctype") != "json" {
					t.Errorf("doctype = %q, want json", r.URL.Query().Get("doctype"))
				}
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			p := New(srv.URL, 2*time.Second, newTestLogger())

			got, ok := p.Translate(context.Background(), "apple")
			if ok != tt.wantOK {
				t.Fatalf("ok = %v, want %v", ok, tt.wantOK)
			}
			if got != tt.want {
				t.Errorf("Translate = %q, want %q", got, tt.want)
			}
		})
	}
}
