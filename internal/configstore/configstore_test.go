package configstore

import "testing"

func TestGetDefault(t *testing.T) {
	s := New()
	v, ok := s.Get("appendonly")
	if !ok || v != "no" {
		t.Fatalf("Get(appendonly) = %q, %v, want no, true", v, ok)
	}
}

func TestGetUnknown(t *testing.T) {
	s := New()
	if _, ok := s.Get("nosuchparam"); ok {
		t.Fatal("Get(nosuchparam) should report unknown")
	}
}

func TestGetIsCaseInsensitive(t *testing.T) {
	s := New()
	v, ok := s.Get("AppendOnly")
	if !ok || v != "no" {
		t.Fatalf("Get(AppendOnly) = %q, %v", v, ok)
	}
}

func TestSetThenGet(t *testing.T) {
	s := New()
	s.Set("maxmemory", "104857600")
	v, ok := s.Get("maxmemory")
	if !ok || v != "104857600" {
		t.Fatalf("Get(maxmemory) = %q, %v", v, ok)
	}
}

func TestSetUnknownNameIsAccepted(t *testing.T) {
	s := New()
	s.Set("some-custom-flag", "on")
	v, ok := s.Get("some-custom-flag")
	if !ok || v != "on" {
		t.Fatalf("Get(some-custom-flag) = %q, %v", v, ok)
	}
}

func TestMatchWildcard(t *testing.T) {
	s := New()
	pairs := s.Match("*")
	if len(pairs)%2 != 0 || len(pairs) == 0 {
		t.Fatalf("Match(*) returned odd/empty result: %v", pairs)
	}
}

func TestMatchExact(t *testing.T) {
	s := New()
	pairs := s.Match("port")
	if len(pairs) != 2 || pairs[0] != "port" {
		t.Fatalf("Match(port) = %v", pairs)
	}
}

func TestMatchPrefixWildcard(t *testing.T) {
	s := New()
	s.Set("maxmemory-policy", "noeviction")
	pairs := s.Match("maxmemory*")
	if len(pairs) != 4 {
		t.Fatalf("Match(maxmemory*) = %v, want 2 pairs", pairs)
	}
}

func TestMatchNoHits(t *testing.T) {
	s := New()
	pairs := s.Match("nothing-matches-this")
	if len(pairs) != 0 {
		t.Fatalf("Match() = %v, want empty", pairs)
	}
}
