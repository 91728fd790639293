package enrich

import (
	"context"
	"errors"
	"reflect"
	"testing"
)

func TestSuggest(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name            string
		prefix          string
		local           []string
		remote          []string
		want            []string
		wantRemoteCalls int
	}{
		{
			name:            "prefix below minimum returns empty without lookups",
			prefix:          "ap",
			want:            []string{},
			wantRemoteCalls: 0,
		},
		{
			name:            "local results fill the cap without remote call",
			prefix:          "app",
			local:           []string{"app", "apple", "applet", "apply", "appoint"},
			remote:          []string{"application"},
			want:            []string{"app", "apple", "applet", "apply", "appoint"},
			wantRemoteCalls: 0,
		},
		{
			name:            "remote tops up local results",
			prefix:          "app",
			local:           []string{"apple", "apply"},
			remote:          []string{"application", "appoint"},
			want:            []string{"apple", "apply", "application", "appoint"},
			wantRemoteCalls: 1,
		},
		{
			name:            "remote duplicates dropped",
			prefix:          "app",
			local:           []string{"apple", "apply"},
			remote:          []string{"apple", "appoint"},
			want:            []string{"apple", "apply", "appoint"},
			wantRemoteCalls: 1,
		},
		{
			name:            "dedup is case-sensitive",
			prefix:          "app",
			local:           []string{"apple"},
			remote:          []string{"Apple", "apple"},
			want:            []string{"apple", "Apple"},
			wantRemoteCalls: 1,
		},
		{
			name:            "combined results capped at maximum",
			prefix:          "app",
			local:           []string{"app", "apple", "applet"},
			remote:          []string{"apply", "appoint", "application", "appraise"},
			want:            []string{"app", "apple", "applet", "apply", "appoint"},
			wantRemoteCalls: 1,
		},
		{
			name:            "no matches anywhere",
			prefix:          "zzz",
			local:           []string{},
			remote:          []string{},
			want:            []string{},
			wantRemoteCalls: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			localCalls := 0
			d := &testDeps{
				repo: &mockCardRepo{
					suggestByPrefixFn: func(_ context.Context, prefix string, limit int) ([]string, error) {
						localCalls++
						if prefix != tt.prefix {
							t.Errorf("store queried with prefix %q, want %q", prefix, tt.prefix)
						}
						if limit != defaultSuggestCfg().MaxResults {
							t.Errorf("store queried with limit %d, want %d", limit, defaultSuggestCfg().MaxResults)
						}
						return tt.local, nil
					},
				},
				lexical:    &mockLexical{},
				translator: &mockTranslator{},
				images:     &mockImageSource{},
				remote: &mockRemoteSuggest{
					suggestFn: func(_ context.Context, _ string, _ int) []string {
						return tt.remote
					},
				},
				assets: &mockAssets{},
			}
			svc := newTestService(d)

			got, err := svc.Suggest(context.Background(), tt.prefix)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Suggest(%q) = %v, want %v", tt.prefix, got, tt.want)
			}
			if d.remote.calls != tt.wantRemoteCalls {
				t.Errorf("remote calls = %d, want %d", d.remote.calls, tt.wantRemoteCalls)
			}
			if tt.wantRemoteCalls == 0 && tt.prefix == "ap" && localCalls != 0 {
				t.Errorf("store queried %d times for a too-short prefix", localCalls)
			}
		})
	}
}

func TestSuggest_StoreErrorPropagates(t *testing.T) {
	t.Parallel()

	boom := errors.New("connection refused")
	d := &testDeps{
		repo: &mockCardRepo{
			suggestByPrefixFn: func(_ context.Context, _ string, _ int) ([]string, error) {
				return nil, boom
			},
		},
		lexical:    &mockLexical{},
		translator: &mockTranslator{},
		images:     &mockImageSource{},
		remote:     &mockRemoteSuggest{},
		assets:     &mockAssets{},
	}
	svc := newTestService(d)

	_, err := svc.Suggest(context.Background(), "app")
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v, want the store error", err)
	}
	if d.remote.calls != 0 {
		t.Errorf("remote calls = %d, want 0 after store failure", d.remote.calls)
	}
}
