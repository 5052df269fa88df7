package update

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"logmedic/internal/fields"
	gh "logmedic/internal/github"
)

func newChecker(t *testing.T, mux *http.ServeMux) *GitHubChecker {
	t.Helper()
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	client, err := gh.NewClient(context.Background(), "", gh.WithBaseURL(srv.URL))
	if err != nil {
		t.Fatalf("NewClient error: %v", err)
	}
	return &GitHubChecker{Client: client, Owner: "acme", Repo: "emu"}
}

func releaseHandler(published string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"tag_name":"v1","published_at":"` + published + `"}`))
	}
}

func commitHandler(date string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"sha":"abc123","commit":{"committer":{"date":"` + date + `"}}}`))
	}
}

func TestGitHubChecker(t *testing.T) {
	tests := []struct {
		name       string
		release    http.HandlerFunc
		commit     http.HandlerFunc
		fields     fields.Map
		wantNil    bool
		wantErr    bool
		wantDelta  time.Duration
		wantHasCur bool
	}{
		{
			name:       "outdated build",
			release:    releaseHandler("2024-03-01T00:00:00Z"),
			commit:     commitHandler("2024-01-01T00:00:00Z"),
			fields:     fields.Map{fields.BuildCommit: "abc123"},
			wantDelta:  60 * 24 * time.Hour,
			wantHasCur: true,
		},
		{
			name:    "current build",
			release: releaseHandler("2024-03-01T00:00:00Z"),
			commit:  commitHandler("2024-03-02T00:00:00Z"),
			fields:  fields.Map{fields.BuildCommit: "abc123"},
			wantNil: true,
		},
		{
			name:    "unknown commit keeps latest only",
			release: releaseHandler("2024-03-01T00:00:00Z"),
			commit:  http.NotFound,
			fields:  fields.Map{fields.BuildCommit: "deadbeef"},
		},
		{
			name:    "no commit field",
			release: releaseHandler("2024-03-01T00:00:00Z"),
			fields:  fields.Map{},
		},
		{
			name: "release lookup fails",
			release: func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, `{"message":"boom"}`, http.StatusBadGateway)
			},
			fields:  fields.Map{},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mux := http.NewServeMux()
			mux.HandleFunc("/repos/acme/emu/releases/latest", tt.release)
			if tt.commit != nil {
				mux.HandleFunc("/repos/acme/emu/commits/", tt.commit)
			}
			c := newChecker(t, mux)

			info, err := c.CheckForUpdate(context.Background(), fields.NewView(tt.fields))
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("CheckForUpdate error: %v", err)
			}
			if tt.wantNil {
				if info != nil {
					t.Fatalf("want nil info, got %+v", info)
				}
				return
			}
			if info == nil || info.LatestBuild == nil {
				t.Fatalf("want latest build, got %+v", info)
			}
			if (info.CurrentBuild != nil) != tt.wantHasCur {
				t.Fatalf("want current build present=%v, got %+v", tt.wantHasCur, info)
			}
			if d, ok := info.Delta(); ok != tt.wantHasCur || d != tt.wantDelta {
				t.Fatalf("Delta = %s, %v", d, ok)
			}
		})
	}
}

func TestInfo_DeltaNil(t *testing.T) {
	var i *Info
	if _, ok := i.Delta(); ok {
		t.Fatal("nil info has no delta")
	}
}

func TestGitHubChecker_LatestReleaseLookedUpOnce(t *testing.T) {
	var releases atomic.Int32
	mux := http.NewServeMux()
	mux.HandleFunc("/repos/acme/emu/releases/latest", func(w http.ResponseWriter, r *http.Request) {
		releases.Add(1)
		releaseHandler("2024-03-01T00:00:00Z")(w, r)
	})
	mux.HandleFunc("/repos/acme/emu/commits/", commitHandler("2024-01-01T00:00:00Z"))
	c := newChecker(t, mux)

	v := fields.NewView(fields.Map{fields.BuildCommit: "abc123"})
	for i := 0; i < 3; i++ {
		info, err := c.CheckForUpdate(context.Background(), v)
		if err != nil {
			t.Fatalf("CheckForUpdate error: %v", err)
		}
		if d, ok := info.Delta(); !ok || d != 60*24*time.Hour {
			t.Fatalf("Delta = %s, %v", d, ok)
		}
	}
	if n := releases.Load(); n != 1 {
		t.Fatalf("want 1 release lookup, got %d", n)
	}
}

func TestGitHubChecker_FailedReleaseLookupIsRetried(t *testing.T) {
	var releases atomic.Int32
	mux := http.NewServeMux()
	mux.HandleFunc("/repos/acme/emu/releases/latest", func(w http.ResponseWriter, r *http.Request) {
		if releases.Add(1) == 1 {
			http.Error(w, `{"message":"boom"}`, http.StatusBadGateway)
			return
		}
		releaseHandler("2024-03-01T00:00:00Z")(w, r)
	})
	c := newChecker(t, mux)

	v := fields.NewView(fields.Map{})
	if _, err := c.CheckForUpdate(context.Background(), v); err == nil {
		t.Fatal("expected error on first lookup")
	}
	info, err := c.CheckForUpdate(context.Background(), v)
	if err != nil {
		t.Fatalf("CheckForUpdate error: %v", err)
	}
	if info == nil || info.LatestBuild == nil {
		t.Fatalf("want latest build, got %+v", info)
	}
	if n := releases.Load(); n != 2 {
		t.Fatalf("want 2 release lookups, got %d", n)
	}
}
