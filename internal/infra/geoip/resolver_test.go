package geoip

import (
	"errors"
	"net/netip"
	"testing"
)

func TestNilResolver(t *testing.T) {
	r, err := Open("  ")
	if err != nil || r != nil {
		t.Fatalf("Open(empty) = %v, %v; want nil, nil", r, err)
	}
	if _, err := r.CountryCode("8.8.8.8"); !errors.Is(err, ErrUnavailable) {
		t.Fatalf("CountryCode on nil resolver: %v", err)
	}
	if r.Lookup() != nil {
		t.Fatalf("Lookup on nil resolver should be nil")
	}
	if err := r.Close(); err != nil {
		t.Fatalf("Close on nil resolver: %v", err)
	}
}

func TestOpenMissingDatabase(t *testing.T) {
	if _, err := Open("/nonexistent/GeoLite2-Country.mmdb"); err == nil {
		t.Fatalf("expected error for missing database")
	}
}

func TestRoutable(t *testing.T) {
	tests := map[string]bool{
		"8.8.8.8":         true,
		"2001:4860::8888": true,
		"127.0.0.1":       false,
		"10.1.2.3":        false,
		"192.168.0.10":    false,
		"fe80::1":         false,
		"::":              false,
	}
	for ip, want := range tests {
		if got := routable(netip.MustParseAddr(ip)); got != want {
			t.Errorf("routable(%s) = %v, want %v", ip, got, want)
		}
	}
}
