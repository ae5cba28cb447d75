package cron

import (
	"context"
	"testing"
	"time"

	"github.com/taskercompanyofficial/taskercompany-api/pkg/redis"
)

type fakeRedisStore struct {
	values map[string]string
}

func newFakeRedisStore() *fakeRedisStore {
	return &fakeRedisStore{values: map[string]string{}}
}

func (f *fakeRedisStore) SetNX(_ context.Context, key string, value any, _ time.Duration) (bool, error) {
	if _, ok := f.values[key]; ok {
		return false, nil
	}
	f.values[key] = value.(string)
	return true, nil
}

func (f *fakeRedisStore) Get(_ context.Context, key string) (string, error) {
	value, ok := f.values[key]
	if !ok {
		return "", redis.Nil
	}
	return value, nil
}

func (f *fakeRedisStore) Del(_ context.Context, keys ...string) error {
	for _, key := range keys {
		delete(f.values, key)
	}
	return nil
}

func TestRedisLockAcquireAndRelease(t *testing.T) {
	store := newFakeRedisStore()
	lock, err := NewRedisLock(store, "cron:lock", time.Hour)
	if err != nil {
		t.Fatalf("NewRedisLock: %v", err)
	}

	ok, err := lock.Acquire(context.Background())
	if err != nil {
		t.Fatalf("Acquire: %v", err)
	}
	if !ok {
		t.Fatal("expected lock acquired")
	}
	if _, held := store.values["cron:lock"]; !held {
		t.Fatal("expected lock key set")
	}

	if err := lock.Release(context.Background()); err != nil {
		t.Fatalf("Release: %v", err)
	}
	if _, held := store.values["cron:lock"]; held {
		t.Fatal("expected lock key deleted")
	}
}

func TestRedisLockSecondAcquireFails(t *testing.T) {
	store := newFakeRedisStore()
	first, err := NewRedisLock(store, "cron:lock", time.Hour)
	if err != nil {
		t.Fatalf("NewRedisLock: %v", err)
	}
	second, err := NewRedisLock(store, "cron:lock", time.Hour)
	if err != nil {
		t.Fatalf("NewRedisLock: %v", err)
	}

	if ok, _ := first.Acquire(context.Background()); !ok {
		t.Fatal("expected first acquire to succeed")
	}
	if ok, _ := second.Acquire(context.Background()); ok {
		t.Fatal("expected second acquire to fail")
	}
}

func TestRedisLockReleaseKeepsForeignOwner(t *testing.T) {
	store := newFakeRedisStore()
	lock, err := NewRedisLock(store, "cron:lock", time.Hour)
	if err != nil {
		t.Fatalf("NewRedisLock: %v", err)
	}
	if ok, _ := lock.Acquire(context.Background()); !ok {
		t.Fatal("expected acquire to succeed")
	}

	// Simulate TTL expiry followed by another worker taking the lock.
	store.values["cron:lock"] = "other-owner"
	if err := lock.Release(context.Background()); err != nil {
		t.Fatalf("Release: %v", err)
	}
	if store.values["cron:lock"] != "other-owner" {
		t.Fatal("release must not delete a lock it no longer owns")
	}
}

func TestRedisLockReleaseWithoutAcquireIsNoop(t *testing.T) {
	store := newFakeRedisStore()
	lock, err := NewRedisLock(store, "cron:lock", 0)
	if err != nil {
		t.Fatalf("NewRedisLock: %v", err)
	}
	if err := lock.Release(context.Background()); err != nil {
		t.Fatalf("Release: %v", err)
	}
}
