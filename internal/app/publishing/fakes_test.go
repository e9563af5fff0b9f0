package publishing

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/bhe-24/pustakamateri/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type fakeText struct {
	mu         sync.Mutex
	configured bool
	reply      string
	err        error
	calls      int
	lastPrompt string
	lastSystem string
	block      chan struct{}
}

func (f *fakeText) Configured() bool { return f.configured }

func (f *fakeText) Generate(ctx context.Context, prompt, system string) (string, error) {
	if f.block != nil {
		<-f.block
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.lastPrompt = prompt
	f.lastSystem = system
	return f.reply, f.err
}

type fakeMaterials struct {
	mu      sync.Mutex
	created []models.Material
	err     error
}

func (f *fakeMaterials) Create(ctx context.Context, m models.Material) (models.Material, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return models.Material{}, f.err
	}
	now := time.Now().UTC()
	m.ID = primitive.NewObjectID()
	m.CreatedAt = &now
	f.created = append(f.created, m)
	return m, nil
}

func (f *fakeMaterials) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.created)
}

// fakeLog mimics the Mongo publication log, including the claim semantics.
type fakeLog struct {
	mu       sync.Mutex
	last     string
	readErr  error
	writeErr error
	writes   int
}

func (f *fakeLog) LastDate(ctx context.Context) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.last, f.readErr
}

func (f *fakeLog) SetLastDate(ctx context.Context, day string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.writeErr != nil {
		return f.writeErr
	}
	f.writes++
	f.last = day
	return nil
}

func (f *fakeLog) ClaimDate(ctx context.Context, day string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.writeErr != nil {
		return false, f.writeErr
	}
	if f.last == day {
		return false, nil
	}
	f.writes++
	f.last = day
	return true, nil
}

func (f *fakeLog) RestoreDate(ctx context.Context, day, prev string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.last == day {
		f.last = prev
	}
	return nil
}

var errBoom = errors.New("boom")
