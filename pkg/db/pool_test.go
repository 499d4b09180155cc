package db

import (
	"context"
	"testing"
)

const poolTestPrefix = "db:pool_test"

func TestNewPool_RejectsBadURLs(t *testing.T) {
	for _, url := range []string{"invalid://not-a-valid-database-url", ""} {
		pool, err := NewPool(context.Background(), url)
		if err == nil {
			if pool != nil {
				pool.Close()
			}
			t.Fatalf("%s - expected error for %q", poolTestPrefix, url)
		}
		if pool != nil {
			t.Errorf("%s - expected nil pool on error for %q", poolTestPrefix, url)
		}
	}
}
