package gcs

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestTokenSourceCachesUntilNearExpiry(t *testing.T) {
	calls := 0
	ts := &tokenSource{
		fetch: func(context.Context) (string, time.Time, error) {
			calls++
			return "tok", time.Now().Add(time.Hour), nil
		},
	}

	for i := 0; i < 3; i++ {
		token, err := ts.Token(context.Background())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if token != "tok" {
			t.Fatalf("unexpected token %q", token)
		}
	}
	if calls != 1 {
		t.Fatalf("expected a single fetch, got %d", calls)
	}
}

func TestTokenSourceRefetchesWhenExpiring(t *testing.T) {
	calls := 0
	ts := &tokenSource{
		fetch: func(context.Context) (string, time.Time, error) {
			calls++
			return "tok", time.Now().Add(30 * time.Second), nil
		},
	}

	if _, err := ts.Token(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := ts.Token(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if calls != 2 {
		t.Fatalf("expected refetch for near-expiry token, got %d calls", calls)
	}
}

func TestTokenSourcePropagatesFetchError(t *testing.T) {
	wantErr := errors.New("token endpoint down")
	ts := &tokenSource{
		fetch: func(context.Context) (string, time.Time, error) {
			return "", time.Time{}, wantErr
		},
	}

	if _, err := ts.Token(context.Background()); !errors.Is(err, wantErr) {
		t.Fatalf("expected fetch error, got %v", err)
	}
}

func TestParsePrivateKeyRejectsGarbage(t *testing.T) {
	if _, err := parsePrivateKey("not a pem block"); err == nil {
		t.Fatal("expected error for invalid pem")
	}
}

func TestRemoveRequiresPath(t *testing.T) {
	client := &Client{bucket: "photos", tokenSource: &tokenSource{
		fetch: func(context.Context) (string, time.Time, error) {
			return "tok", time.Now().Add(time.Hour), nil
		},
	}}

	if err := client.Remove(context.Background(), "  "); err == nil {
		t.Fatal("expected error for empty storage path")
	}
}
