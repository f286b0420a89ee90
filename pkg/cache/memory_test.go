package cache

import (
	"testing"
	"time"

	"go.uber.org/zap"
)

func TestMemoryCache(t *testing.T) {
	c := NewMemoryCache(zap.NewNop())
	defer c.Close()

	t.Run("set-and-get", func(t *testing.T) {
		if !c.Set("key", "value", time.Hour) {
			t.Error("expected Set to succeed")
		}
		got, found := c.Get("key")
		if !found {
			t.Fatal("expected key to be found")
		}
		if got != "value" {
			t.Errorf("Get = %v, want value", got)
		}
	})

	t.Run("get-missing-key", func(t *testing.T) {
		if _, found := c.Get("nonexistent"); found {
			t.Error("expected key to not be found")
		}
	})

	t.Run("ttl-expiration", func(t *testing.T) {
		c.Set("ttl-key", "value", 30*time.Millisecond)
		if _, found := c.Get("ttl-key"); !found {
			t.Error("expected key to exist before TTL expires")
		}
		time.Sleep(60 * time.Millisecond)
		if _, found := c.Get("ttl-key"); found {
			t.Error("expected key to be expired after TTL")
		}
	})

	t.Run("delete", func(t *testing.T) {
		c.Set("delete-key", "value", time.Hour)
		c.Delete("delete-key")
		if _, found := c.Get("delete-key"); found {
			t.Error("expected key to be deleted")
		}
	})

	t.Run("clear", func(t *testing.T) {
		c.Set("clear-key1", "value1", time.Hour)
		c.Set("clear-key2", "value2", time.Hour)
		c.Clear()
		if _, found := c.Get("clear-key1"); found {
			t.Error("expected clear-key1 to be cleared")
		}
		if _, found := c.Get("clear-key2"); found {
			t.Error("expected clear-key2 to be cleared")
		}
	})
}

func TestNewSelectsBackend(t *testing.T) {
	logger := zap.NewNop()

	c, err := New(Config{Backend: BackendMemory, Logger: logger})
	if err != nil {
		t.Fatalf("New(memory) error: %v", err)
	}
	defer c.Close()
	if _, ok := c.(*MemoryCache); !ok {
		t.Errorf("New(memory) = %T, want *MemoryCache", c)
	}

	c, err = New(Config{Backend: "", Logger: logger})
	if err != nil {
		t.Fatalf("New(default) error: %v", err)
	}
	defer c.Close()
	if _, ok := c.(*RistrettoCache); !ok {
		t.Errorf("New(default) = %T, want *RistrettoCache", c)
	}

	if _, err := New(Config{Backend: "memcached", Logger: logger}); err == nil {
		t.Error("New(memcached) expected error for unknown backend")
	}
}

func TestNewRedisCacheBadURL(t *testing.T) {
	_, err := NewRedisCache(&RedisConfig{URL: "not-a-url", Logger: zap.NewNop()})
	if err == nil {
		t.Error("expected error for malformed redis url")
	}
}
