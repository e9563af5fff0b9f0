package ratelimit

import (
	"net/http/httptest"
	"testing"
	"time"
)

func TestLimiter_WindowResets(t *testing.T) {
	now := time.Date(2026, 10, 18, 9, 0, 0, 0, time.UTC)
	l := New(2, time.Minute)
	l.SetClock(func() time.Time { return now })

	if !l.Allow("a") || !l.Allow("a") {
		t.Fatal("first two requests should pass")
	}
	if l.Allow("a") {
		t.Fatal("third request should be limited")
	}
	if !l.Allow("b") {
		t.Fatal("other keys have their own window")
	}

	now = now.Add(time.Minute)
	if !l.Allow("a") {
		t.Error("window should reset after the duration")
	}
}

func TestLimiter_Reset(t *testing.T) {
	l := New(1, time.Hour)
	l.Allow("k")
	if l.Allow("k") {
		t.Fatal("expected limit")
	}
	l.Reset("k")
	if !l.Allow("k") {
		t.Error("Reset should clear the window")
	}
}

func TestClientIP(t *testing.T) {
	tests := []struct {
		name    string
		headers map[string]string
		remote  string
		want    string
	}{
		{"forwarded", map[string]string{"X-Forwarded-For": "203.0.113.7, 10.0.0.1"}, "10.0.0.1:1234", "203.0.113.7"},
		{"real ip", map[string]string{"X-Real-IP": " 198.51.100.2 "}, "10.0.0.1:1234", "198.51.100.2"},
		{"remote addr", nil, "192.0.2.10:5555", "192.0.2.10"},
		{"remote without port", nil, "192.0.2.10", "192.0.2.10"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest("GET", "/", nil)
			r.RemoteAddr = tt.remote
			for k, v := range tt.headers {
				r.Header.Set(k, v)
			}
			if got := ClientIP(r); got != tt.want {
				t.Errorf("ClientIP = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestLoginLimiter_PerEmail(t *testing.T) {
	ll := NewLoginLimiter()
	r := httptest.NewRequest("POST", "/login", nil)

	for i := 0; i < 5; i++ {
		if ok, _ := ll.Check(r, "Guru@Sekolah.ac.id"); !ok {
			t.Fatalf("attempt %d refused", i+1)
		}
	}
	ok, msg := ll.Check(r, "guru@sekolah.ac.id")
	if ok || msg != MsgTooManyForAccount {
		t.Fatalf("sixth attempt: ok=%v msg=%q", ok, msg)
	}

	ll.ResetEmail("GURU@sekolah.ac.id")
	if ok, _ := ll.Check(r, "guru@sekolah.ac.id"); !ok {
		t.Error("ResetEmail should allow the account again")
	}
}
