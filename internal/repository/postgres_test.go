package repository

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
)

func TestCentsRoundTrip(t *testing.T) {
	tests := []struct {
		in   string
		want int64
	}{
		{in: "13.50", want: 1350},
		{in: "0", want: 0},
		{in: "9.999", want: 1000},
	}

	for _, tt := range tests {
		got := toCents(decimal.RequireFromString(tt.in))
		if got != tt.want {
			t.Fatalf("toCents(%s) = %d, want %d", tt.in, got, tt.want)
		}
	}

	if got := fromCents(1350).StringFixed(2); got != "13.50" {
		t.Fatalf("fromCents(1350) = %s, want 13.50", got)
	}
}

func TestIsRetryable(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{name: "serialization failure", err: &pgconn.PgError{Code: pgerrcode.SerializationFailure}, want: true},
		{name: "unique violation", err: &pgconn.PgError{Code: pgerrcode.UniqueViolation}, want: false},
		{name: "connection refused", err: errors.New("dial tcp: connection refused"), want: true},
		{name: "canceled", err: fmt.Errorf("exec: %w", context.Canceled), want: false},
		{name: "other", err: errors.New("boom"), want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isRetryable(tt.err); got != tt.want {
				t.Fatalf("isRetryable(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}

func TestWithRetry_StopsOnContext(t *testing.T) {
	r := &PostgresRepository{}

	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	start := time.Now()

	err := r.withRetry(ctx, func() error {
		calls++
		cancel()
		return errors.New("connection refused")
	})

	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if calls != 1 {
		t.Fatalf("calls = %d, want 1", calls)
	}
	if time.Since(start) > 500*time.Millisecond {
		t.Fatalf("withRetry did not stop promptly")
	}
}

func TestWithRetry_NonRetryableReturnsImmediately(t *testing.T) {
	r := &PostgresRepository{}
	want := errors.New("boom")
	calls := 0

	err := r.withRetry(context.Background(), func() error {
		calls++
		return want
	})

	if !errors.Is(err, want) || calls != 1 {
		t.Fatalf("err = %v calls = %d, want boom after 1 call", err, calls)
	}
}
