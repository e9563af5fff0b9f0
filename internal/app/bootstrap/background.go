// internal/app/bootstrap/background.go
package bootstrap

import (
	"sync"

	"github.com/bhe-24/pustakamateri/internal/app/publishing"
	"github.com/bhe-24/pustakamateri/internal/app/system/tasks"
	"go.uber.org/zap"
)

// Background work started by BuildHandler and stopped by Shutdown.
var (
	bgMu     sync.Mutex
	bgRunner *tasks.Runner
	bgGate   *publishing.Gate
)

func setBackground(r *tasks.Runner, g *publishing.Gate) {
	bgMu.Lock()
	defer bgMu.Unlock()
	bgRunner, bgGate = r, g
}

// stopBackground stops the job runner and waits for any publication run a
// page load started.
func stopBackground(logger *zap.Logger) {
	bgMu.Lock()
	r, g := bgRunner, bgGate
	bgRunner, bgGate = nil, nil
	bgMu.Unlock()

	if r != nil {
		r.Stop()
	}
	if g != nil {
		g.Wait()
		logger.Info("publication gate drained")
	}
}
