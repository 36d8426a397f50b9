package config

import (
	"testing"
)

func TestAPIURL_Default(t *testing.T) {
	t.Setenv("REFERRAL_API_URL", "")
	if got := APIURL(); got != "http://localhost:5000" {
		t.Errorf("APIURL: got %q", got)
	}
}

func TestAPIURL_Override(t *testing.T) {
	t.Setenv("REFERRAL_API_URL", "https://api.example.com")
	if got := APIURL(); got != "https://api.example.com" {
		t.Errorf("APIURL: got %q", got)
	}
}

func TestTokenRoundTrip(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	tok, err := LoadToken()
	if err != nil {
		t.Fatalf("LoadToken: %v", err)
	}
	if tok != "" {
		t.Errorf("expected no stored token, got %q", tok)
	}

	if err := SaveToken("abc.def.ghi"); err != nil {
		t.Fatalf("SaveToken: %v", err)
	}
	tok, err = LoadToken()
	if err != nil {
		t.Fatalf("LoadToken: %v", err)
	}
	if tok != "abc.def.ghi" {
		t.Errorf("LoadToken: got %q", tok)
	}

	if err := ClearToken(); err != nil {
		t.Fatalf("ClearToken: %v", err)
	}
	tok, err = LoadToken()
	if err != nil {
		t.Fatalf("LoadToken: %v", err)
	}
	if tok != "" {
		t.Errorf("expected token cleared, got %q", tok)
	}
	// Clearing twice is fine.
	if err := ClearToken(); err != nil {
		t.Errorf("ClearToken (second): %v", err)
	}
}
