package wizard

import (
	"context"
	"log"
	"sync"
	"time"
)

// Janitor periodically expires idle sessions.
type Janitor interface {
	Start(ctx context.Context)
	Stop()
}

type janitor struct {
	manager  *Manager
	interval time.Duration
	wg       sync.WaitGroup
	stopChan chan struct{}
}

func NewJanitor(manager *Manager, interval time.Duration) Janitor {
	if interval <= 0 {
		interval = time.Minute
	}
	return &janitor{
		manager:  manager,
		interval: interval,
		stopChan: make(chan struct{}),
	}
}

// Start implements Janitor.
func (j *janitor) Start(ctx context.Context) {
	j.wg.Add(1)
	go j.run(ctx)
	log.Printf("🚀 Session janitor started (every %s)\n", j.interval)
}

// Stop implements Janitor.
func (j *janitor) Stop() {
	log.Println("🛑 Stopping session janitor...")
	close(j.stopChan)
	j.wg.Wait()
	log.Println("✅ Session janitor stopped")
}

func (j *janitor) run(ctx context.Context) {
	defer j.wg.Done()
	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	for {
		select {
		case <-j.stopChan:
			return
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := j.manager.Expire(ctx); n > 0 {
				log.Printf("🧹 Expired %d idle sessions\n", n)
			}
		}
	}
}
