package application

import (
	"fmt"
	"reflect"
	"sync"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"

	"github.com/grupovertice/intranet/pkg/eventbus"
	"github.com/grupovertice/intranet/pkg/schedule"
)

// Application is the composition root modules register themselves against.
type Application interface {
	DB() *pgxpool.Pool
	EventPublisher() eventbus.EventBus
	Logger() *logrus.Logger
	RegisterServices(services ...interface{})
	// Service returns the registered instance whose type matches the given
	// exemplar, e.g. app.Service(&services.UserService{}).
	Service(service interface{}) interface{}
	RegisterJobs(jobs ...schedule.Job)
	Jobs() []schedule.Job
}

// Module wires one bounded context into the application.
type Module interface {
	Name() string
	Register(app Application) error
}

func New(pool *pgxpool.Pool, bus eventbus.EventBus, logger *logrus.Logger) Application {
	return &application{
		pool:     pool,
		bus:      bus,
		logger:   logger,
		services: make(map[reflect.Type]interface{}),
	}
}

type application struct {
	pool   *pgxpool.Pool
	bus    eventbus.EventBus
	logger *logrus.Logger

	mu       sync.RWMutex
	services map[reflect.Type]interface{}
	jobs     []schedule.Job
}

func (a *application) DB() *pgxpool.Pool {
	return a.pool
}

func (a *application) EventPublisher() eventbus.EventBus {
	return a.bus
}

func (a *application) Logger() *logrus.Logger {
	return a.logger
}

func (a *application) RegisterServices(services ...interface{}) {
	a.mu.Lock()
	defer a.mu.Unlock()
	for _, svc := range services {
		a.services[reflect.TypeOf(svc)] = svc
	}
}

func (a *application) Service(service interface{}) interface{} {
	a.mu.RLock()
	defer a.mu.RUnlock()
	svc, ok := a.services[reflect.TypeOf(service)]
	if !ok {
		panic(fmt.Sprintf("service %T is not registered", service))
	}
	return svc
}

func (a *application) RegisterJobs(jobs ...schedule.Job) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.jobs = append(a.jobs, jobs...)
}

func (a *application) Jobs() []schedule.Job {
	a.mu.RLock()
	defer a.mu.RUnlock()
	out := make([]schedule.Job, len(a.jobs))
	copy(out, a.jobs)
	return out
}
