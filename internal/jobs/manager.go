package jobs

import (
	"fmt"
	"sync"
	"time"

	"bayesclassifier/internal/models"
)

type JobStatus string

const (
	JobPending   JobStatus = "pending"
	JobRunning   JobStatus = "running"
	JobCompleted JobStatus = "completed"
	JobFailed    JobStatus = "failed"
)

// TrainingJob tracks one background fit run started from the commander.
type TrainingJob struct {
	ID          string
	Dataset     string
	Status      JobStatus
	StartTime   time.Time
	EndTime     *time.Time
	Err         error
	Classifier  *models.BayesClassifier
	Description string
	Logs        []string
	mu          sync.RWMutex
}

type Manager struct {
	jobs map[string]*TrainingJob
	mu   sync.RWMutex
}

func NewManager() *Manager {
	return &Manager{
		jobs: make(map[string]*TrainingJob),
	}
}

func (m *Manager) CreateJob(dataset, description string) *TrainingJob {
	m.mu.Lock()
	defer m.mu.Unlock()

	jobID := fmt.Sprintf("train_%d", time.Now().UnixNano())
	job := &TrainingJob{
		ID:          jobID,
		Dataset:     dataset,
		Status:      JobPending,
		StartTime:   time.Now(),
		Description: description,
	}

	m.jobs[jobID] = job
	return job
}

func (m *Manager) GetJob(jobID string) (*TrainingJob, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	job, exists := m.jobs[jobID]
	return job, exists
}

func (m *Manager) ListJobs() []*TrainingJob {
	m.mu.RLock()
	defer m.mu.RUnlock()

	jobs := make([]*TrainingJob, 0, len(m.jobs))
	for _, job := range m.jobs {
		jobs = append(jobs, job)
	}
	return jobs
}

func (j *TrainingJob) SetStatus(status JobStatus) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Status = status
	if status == JobCompleted || status == JobFailed {
		now := time.Now()
		j.EndTime = &now
	}
}

func (j *TrainingJob) SetResult(cls *models.BayesClassifier) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Classifier = cls
}

func (j *TrainingJob) SetError(err error) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Err = err
	j.Status = JobFailed
	now := time.Now()
	j.EndTime = &now
}

func (j *TrainingJob) AddLog(message string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	timestamp := time.Now().Format("15:04:05")
	j.Logs = append(j.Logs, fmt.Sprintf("[%s] %s", timestamp, message))
}

func (j *TrainingJob) GetStatus() JobStatus {
	j.mu.RLock()
	defer j.mu.RUnlock()
	return j.Status
}

func (j *TrainingJob) GetLogs() []string {
	j.mu.RLock()
	defer j.mu.RUnlock()
	logs := make([]string, len(j.Logs))
	copy(logs, j.Logs)
	return logs
}

func (j *TrainingJob) GetResult() (*models.BayesClassifier, error) {
	j.mu.RLock()
	defer j.mu.RUnlock()
	return j.Classifier, j.Err
}
