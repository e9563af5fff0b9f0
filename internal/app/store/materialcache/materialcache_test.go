package materialcache_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/bhe-24/pustakamateri/internal/app/store/materialcache"
	"github.com/bhe-24/pustakamateri/internal/domain/models"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

type memRepo struct {
	mu    sync.Mutex
	items []models.Material
	lists int
}

func (r *memRepo) List(ctx context.Context) ([]models.Material, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lists++
	out := make([]models.Material, len(r.items))
	copy(out, r.items)
	return out, nil
}

func (r *memRepo) Create(ctx context.Context, m models.Material) (models.Material, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now().UTC().Truncate(time.Second)
	m.ID = primitive.NewObjectID()
	m.CreatedAt = &now
	r.items = append([]models.Material{m}, r.items...)
	return m, nil
}

func (r *memRepo) GetByID(ctx context.Context, id primitive.ObjectID) (models.Material, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, m := range r.items {
		if m.ID == id {
			return m, nil
		}
	}
	return models.Material{}, mongo.ErrNoDocuments
}

func (r *memRepo) Delete(ctx context.Context, id primitive.ObjectID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, m := range r.items {
		if m.ID == id {
			r.items = append(r.items[:i], r.items[i+1:]...)
			return 1, nil
		}
	}
	return 0, nil
}

func newCache(t *testing.T) (*materialcache.Cache, *memRepo, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	repo := &memRepo{}
	return materialcache.New(repo, rdb, time.Minute, zap.NewNop()), repo, mr
}

func TestList_ReadThrough(t *testing.T) {
	c, repo, mr := newCache(t)
	ctx := context.Background()
	_, _ = repo.Create(ctx, models.Material{Title: "A", Category: models.CategoryNovel})

	first, err := c.List(ctx)
	if err != nil || len(first) != 1 {
		t.Fatalf("List = %v, %v", first, err)
	}
	if !mr.Exists(materialcache.ListKey) {
		t.Fatal("listing not cached")
	}

	second, err := c.List(ctx)
	if err != nil || len(second) != 1 || second[0].ID != first[0].ID {
		t.Fatalf("cached List = %v, %v", second, err)
	}
	if second[0].CreatedAt == nil || !second[0].CreatedAt.Equal(*first[0].CreatedAt) {
		t.Errorf("timestamp lost in cache: %v vs %v", second[0].CreatedAt, first[0].CreatedAt)
	}
	if repo.lists != 1 {
		t.Errorf("repository listed %d times, want 1", repo.lists)
	}
}

func TestCreateAndDelete_Invalidate(t *testing.T) {
	c, repo, mr := newCache(t)
	ctx := context.Background()

	_, _ = c.List(ctx)
	m, err := c.Create(ctx, models.Material{Title: "B", Category: models.CategoryPoetry})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if mr.Exists(materialcache.ListKey) {
		t.Error("create should invalidate the listing")
	}

	items, _ := c.List(ctx)
	if len(items) != 1 {
		t.Fatalf("len = %d", len(items))
	}

	if n, err := c.Delete(ctx, m.ID); err != nil || n != 1 {
		t.Fatalf("Delete = %d, %v", n, err)
	}
	if mr.Exists(materialcache.ListKey) {
		t.Error("delete should invalidate the listing")
	}
	items, _ = c.List(ctx)
	if len(items) != 0 {
		t.Errorf("len after delete = %d", len(items))
	}
	if repo.lists != 3 {
		t.Errorf("repository listed %d times, want 3", repo.lists)
	}
}

func TestList_RedisDownFallsThrough(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis: %v", err)
	}
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})
	defer rdb.Close()
	repo := &memRepo{}
	c := materialcache.New(repo, rdb, time.Minute, zap.NewNop())
	ctx := context.Background()
	_, _ = repo.Create(ctx, models.Material{Title: "C", Category: models.CategoryEssay})

	mr.Close()
	items, err := c.List(ctx)
	if err != nil || len(items) != 1 {
		t.Fatalf("List with redis down = %v, %v", items, err)
	}
}

func TestList_NoRedis(t *testing.T) {
	repo := &memRepo{}
	c := materialcache.New(repo, nil, 0, zap.NewNop())
	if _, err := c.List(context.Background()); err != nil {
		t.Fatal(err)
	}
	if _, err := c.List(context.Background()); err != nil {
		t.Fatal(err)
	}
	if repo.lists != 2 {
		t.Errorf("lists = %d, want 2", repo.lists)
	}
}
