package session

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"
)

func TestRedisStore(t *testing.T) {
	url := os.Getenv("REDIS_URL")
	if url == "" {
		t.Skip("REDIS_URL not set")
	}
	ctx := context.Background()

	client, err := OpenRedis(ctx, url)
	if err != nil {
		t.Fatalf("open redis: %v", err)
	}
	defer client.Close()

	r := NewRedisStore(client, time.Minute)
	s := Session{PlayerID: 7, IsAdmin: true}
	if err := r.Save(ctx, &s); err != nil {
		t.Fatalf("save: %v", err)
	}
	t.Cleanup(func() { r.Delete(context.Background(), s.ID) })

	got, err := r.Get(ctx, s.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.PlayerID != 7 || !got.IsAdmin {
		t.Errorf("session = %+v", got)
	}

	ttl, err := client.TTL(ctx, redisKeyPrefix+s.ID).Result()
	if err != nil || ttl <= 0 || ttl > time.Minute {
		t.Errorf("ttl = %v, %v", ttl, err)
	}

	if err := r.Delete(ctx, s.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := r.Get(ctx, s.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("get after delete err = %v, want ErrNotFound", err)
	}
}
