package shortcut

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
)

type staticTokens struct {
	token string
	ok    bool
}

func (s staticTokens) Token() (string, bool) { return s.token, s.ok }

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	client := NewClient(srv.URL, 50, staticTokens{token: "secret-token", ok: true}, testLogger())
	return client, srv
}

func TestCurrentMemberSendsTokenHeader(t *testing.T) {
	var gotHeader string
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotHeader = r.Header.Get("Shortcut-Token")
		if r.URL.Path != "/api/v3/member" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		w.Write([]byte(`{"mention_name":"jane"}`))
	})

	member, err := client.CurrentMember(context.Background())
	if err != nil {
		t.Fatalf("CurrentMember() error = %v", err)
	}
	if member.MentionName != "jane" {
		t.Errorf("MentionName = %q, want %q", member.MentionName, "jane")
	}
	if gotHeader != "secret-token" {
		t.Errorf("Shortcut-Token header = %q, want %q", gotHeader, "secret-token")
	}
}

func TestMyStoriesQuery(t *testing.T) {
	var gotQuery, gotPageSize string
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query().Get("query")
		gotPageSize = r.URL.Query().Get("page_size")
		w.Write([]byte(`{"data":[{"id":1,"name":"Fix login","workflow_id":10,"workflow_state_id":100}]}`))
	})

	stories, err := client.MyStories(context.Background(), "jane")
	if err != nil {
		t.Fatalf("MyStories() error = %v", err)
	}
	if len(stories) != 1 || stories[0].ID != 1 {
		t.Fatalf("stories = %+v, want one story with id 1", stories)
	}
	if gotQuery != "owner:jane !is:done" {
		t.Errorf("query = %q, want %q", gotQuery, "owner:jane !is:done")
	}
	if gotPageSize != "50" {
		t.Errorf("page_size = %q, want %q", gotPageSize, "50")
	}
}

func TestNoTokenShortCircuits(t *testing.T) {
	called := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer srv.Close()

	client := NewClient(srv.URL, 50, staticTokens{ok: false}, testLogger())
	_, err := client.CurrentMember(context.Background())
	if !errors.Is(err, ErrNoToken) {
		t.Fatalf("error = %v, want ErrNoToken", err)
	}
	if called {
		t.Error("request was issued despite missing token")
	}
}

func TestErrorClassification(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
		check   func(t *testing.T, err error)
	}{
		{
			name: "non-2xx status",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusUnauthorized)
			},
			check: func(t *testing.T, err error) {
				var statusErr *StatusError
				if !errors.As(err, &statusErr) {
					t.Fatalf("error = %v, want StatusError", err)
				}
				if statusErr.Code != http.StatusUnauthorized {
					t.Errorf("Code = %d, want 401", statusErr.Code)
				}
			},
		},
		{
			name: "malformed payload",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`{"mention_name":`))
			},
			check: func(t *testing.T, err error) {
				var decodeErr *DecodeError
				if !errors.As(err, &decodeErr) {
					t.Fatalf("error = %v, want DecodeError", err)
				}
			},
		},
		{
			name: "wrong shape",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`[1,2,3]`))
			},
			check: func(t *testing.T, err error) {
				var decodeErr *DecodeError
				if !errors.As(err, &decodeErr) {
					t.Fatalf("error = %v, want DecodeError", err)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, _ := newTestClient(t, tt.handler)
			_, err := client.CurrentMember(context.Background())
			if err == nil {
				t.Fatal("expected error")
			}
			tt.check(t, err)
		})
	}
}

func TestTransportErrorClassification(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // connection refused from here on

	client := NewClient(srv.URL, 50, staticTokens{token: "tok", ok: true}, testLogger())
	_, err := client.CurrentMember(context.Background())

	var transportErr *TransportError
	if !errors.As(err, &transportErr) {
		t.Fatalf("error = %v, want TransportError", err)
	}
}

func TestValidateToken(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
		want    bool
	}{
		{
			name: "accepted",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`{"mention_name":"jane"}`))
			},
			want: true,
		},
		{
			name: "rejected",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusUnauthorized)
			},
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, _ := newTestClient(t, tt.handler)
			if got := client.ValidateToken(context.Background()); got != tt.want {
				t.Errorf("ValidateToken() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestEpicPath(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v3/epics/42" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		w.Write([]byte(`{"id":42,"name":"Q3 polish"}`))
	})

	epic, err := client.Epic(context.Background(), 42)
	if err != nil {
		t.Fatalf("Epic() error = %v", err)
	}
	if epic.Name != "Q3 polish" {
		t.Errorf("Name = %q, want %q", epic.Name, "Q3 polish")
	}
}

func TestStoryTypeDefault(t *testing.T) {
	tests := []struct {
		name      string
		storyType string
		want      string
	}{
		{"empty defaults to feature", "", "feature"},
		{"bug stays bug", "bug", "bug"},
		{"chore stays chore", "chore", "chore"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := Story{StoryType: tt.storyType}
			if got := s.Type(); got != tt.want {
				t.Errorf("Type() = %q, want %q", got, tt.want)
			}
		})
	}
}
