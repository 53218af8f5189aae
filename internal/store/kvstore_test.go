package store

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/quizmaster-pro/exam-service/internal/models"
)

func newTestRedisStore(t *testing.T) *RedisStore {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewRedisStore(client, "test:")
}

func runStoreContract(t *testing.T, kv KVStore) {
	ctx := context.Background()

	t.Run("round trip", func(t *testing.T) {
		settings := models.ExamSettings{
			SelectedChapters:   []string{"1", "2"},
			QuestionCount:      20,
			TimeLimit:          1800,
			RandomizeQuestions: true,
		}
		key := ExamSettingsKey("student-1")
		if err := kv.Set(ctx, key, settings, 0); err != nil {
			t.Fatalf("Set: %v", err)
		}

		var got models.ExamSettings
		if err := kv.Get(ctx, key, &got); err != nil {
			t.Fatalf("Get: %v", err)
		}
		if got.QuestionCount != 20 || len(got.SelectedChapters) != 2 || !got.RandomizeQuestions {
			t.Errorf("round trip mangled value: %+v", got)
		}
	})

	t.Run("missing key", func(t *testing.T) {
		var dest string
		err := kv.Get(ctx, ThemeKey("nobody"), &dest)
		if !IsNotFound(err) {
			t.Errorf("Get(absent) = %v, want ErrNotFound", err)
		}
	})

	t.Run("delete", func(t *testing.T) {
		key := ThemeKey("student-1")
		if err := kv.Set(ctx, key, "dark", 0); err != nil {
			t.Fatalf("Set: %v", err)
		}
		if err := kv.Delete(ctx, key); err != nil {
			t.Fatalf("Delete: %v", err)
		}
		var theme string
		if err := kv.Get(ctx, key, &theme); !IsNotFound(err) {
			t.Errorf("Get after delete = %v, want ErrNotFound", err)
		}
	})

	t.Run("delete absent key is not an error", func(t *testing.T) {
		if err := kv.Delete(ctx, "never-written"); err != nil {
			t.Errorf("Delete(absent) = %v, want nil", err)
		}
	})
}

func TestRedisStore(t *testing.T) {
	runStoreContract(t, newTestRedisStore(t))
}

func TestMemoryStore(t *testing.T) {
	runStoreContract(t, NewMemoryStore())
}

func TestRedisStore_TTL(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	kv := NewRedisStore(client, "test:")

	ctx := context.Background()
	if err := kv.Set(ctx, AuthTokenKey("tok"), "student-1", time.Minute); err != nil {
		t.Fatalf("Set: %v", err)
	}

	mr.FastForward(2 * time.Minute)

	var userID string
	if err := kv.Get(ctx, AuthTokenKey("tok"), &userID); !IsNotFound(err) {
		t.Errorf("Get after TTL = %v, want ErrNotFound", err)
	}
}

func TestRedisStore_NilClientDegrades(t *testing.T) {
	kv := NewRedisStore(nil, "")
	ctx := context.Background()

	if err := kv.Set(ctx, "k", "v", 0); err != nil {
		t.Errorf("Set with nil client = %v, want nil (dropped write)", err)
	}
	var dest string
	if err := kv.Get(ctx, "k", &dest); err != ErrNotAvailable {
		t.Errorf("Get with nil client = %v, want ErrNotAvailable", err)
	}
}
