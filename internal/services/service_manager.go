package services

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/smart-result/records-service/internal/cache"
	"github.com/smart-result/records-service/internal/events"
	"github.com/smart-result/records-service/internal/repositories"
	"github.com/smart-result/records-service/internal/validator"
)

// ServiceManagerDeps carries everything the services need; main builds it
// once and hands it over.
type ServiceManagerDeps struct {
	Repo           repositories.Repository
	EventPublisher events.EventPublisher
	Sessions       *cache.SessionStore
	Cache          *cache.CacheManager
	Logger         *slog.Logger
	Validator      *validator.Validator
}

// serviceManager implements ServiceManager
type serviceManager struct {
	deps ServiceManagerDeps

	resultService     ResultService
	enrollmentService EnrollmentService
	courseService     CourseService
	identityService   IdentityService
	dashboardService  DashboardService
	exportService     ExportService

	initialized bool
	shutdown    bool
	mu          sync.RWMutex
}

func NewServiceManager(deps ServiceManagerDeps) ServiceManager {
	return &serviceManager{deps: deps}
}

func (m *serviceManager) Initialize(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.initialized {
		return fmt.Errorf("service manager already initialized")
	}

	m.resultService = NewResultService(m.deps.Repo, m.deps.EventPublisher, m.deps.Logger, m.deps.Validator)
	m.enrollmentService = NewEnrollmentService(m.deps.Repo, m.deps.Logger, m.deps.Validator)
	m.courseService = NewCourseService(m.deps.Repo, m.deps.EventPublisher, m.deps.Logger, m.deps.Validator)
	m.identityService = NewIdentityService(m.deps.Repo, m.deps.Sessions, m.deps.Logger, m.deps.Validator)
	m.dashboardService = NewDashboardService(m.deps.Repo, m.deps.Cache, m.deps.Logger)
	m.exportService = NewExportService(m.deps.Repo, m.deps.Logger)

	m.initialized = true
	m.deps.Logger.Info("Services initialized")
	return nil
}

func (m *serviceManager) Result() ResultService {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.resultService
}

func (m *serviceManager) Enrollment() EnrollmentService {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.enrollmentService
}

func (m *serviceManager) Course() CourseService {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.courseService
}

func (m *serviceManager) Identity() IdentityService {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.identityService
}

func (m *serviceManager) Dashboard() DashboardService {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.dashboardService
}

func (m *serviceManager) Export() ExportService {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.exportService
}

func (m *serviceManager) HealthCheck(ctx context.Context) error {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if !m.initialized || m.shutdown {
		return fmt.Errorf("service manager not running")
	}
	return m.deps.Repo.Ping(ctx)
}

func (m *serviceManager) Shutdown(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.shutdown {
		return nil
	}
	m.shutdown = true

	if err := m.deps.EventPublisher.Close(); err != nil {
		m.deps.Logger.Error("Failed to close event publisher", "error", err)
	}

	m.deps.Logger.Info("Services shut down")
	return nil
}
