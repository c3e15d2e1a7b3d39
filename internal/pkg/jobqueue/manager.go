package jobqueue

import (
	"sync"

	"github.com/gofiber/fiber/v2/log"
)

// Manager wraps the job queue with lifecycle management and offers the
// enqueue surface the rest of the application depends on.
type Manager struct {
	queue   *Queue
	mu      sync.Mutex
	running bool
}

// NewManager creates a manager around a queue. The queue is not started yet.
func NewManager(queue *Queue) *Manager {
	return &Manager{queue: queue}
}

// GetQueue returns the managed job queue
func (m *Manager) GetQueue() *Queue {
	return m.queue
}

// Start starts the job queue workers
func (m *Manager) Start() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.running {
		return
	}
	m.running = true

	log.Info("[JobQueue Manager] Starting job queue")
	m.queue.Start()
	log.Info("[JobQueue Manager] Started successfully")
}

// Stop stops the job queue workers
func (m *Manager) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.running {
		return
	}
	m.running = false

	log.Info("[JobQueue Manager] Stopping job queue...")
	m.queue.Stop()
	log.Info("[JobQueue Manager] Stopped successfully")
}

// IsRunning returns whether the manager is currently running
func (m *Manager) IsRunning() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.running
}

// EnqueueProcessPicture schedules the resize pipeline for a picture.
func (m *Manager) EnqueueProcessPicture(pictureID uint) error {
	payload := ProcessPictureJobPayload{PictureID: pictureID}
	_, err := m.queue.EnqueueJob(JobTypeProcessPicture, payload.ToMap())
	return err
}
