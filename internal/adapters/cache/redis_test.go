package cache

import "testing"

func TestRedisKeyNamespacing(t *testing.T) {
	provider := NewRedis(nil, "analytics")
	if got := provider.key("course:overview"); got != "analytics:course:overview" {
		t.Fatalf("expected prefixed key, got %q", got)
	}
}

func TestRedisDefaultsPrefix(t *testing.T) {
	provider := NewRedis(nil, "")
	if got := provider.key("k"); got != "lms:k" {
		t.Fatalf("expected lms prefix, got %q", got)
	}
}
