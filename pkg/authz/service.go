package authz

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/casbin/casbin/v2"
	fileadapter "github.com/casbin/casbin/v2/persist/file-adapter"
	"github.com/sirupsen/logrus"
)

// Service enforces the coarse object/action policy in front of the
// record-level access checks.
type Service struct {
	cfg      Config
	enforcer *casbin.Enforcer
	logger   *logrus.Entry

	// bootstrapped is decided once at startup: until the first role assignment
	// exists the portal has no administrators, so the guard lets provisioning
	// through (and says so in the audit log). It is never re-derived per
	// request.
	bootstrapped atomic.Bool

	mu sync.RWMutex
}

// NewService constructs a Service with the provided config.
func NewService(cfg Config) (*Service, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	cfg = cfg.normalized()

	var logger *logrus.Entry
	if cfg.Logger != nil {
		logger = cfg.Logger.WithField("component", "authz")
	} else {
		logger = logrus.WithField("component", "authz")
	}

	enf, err := casbin.NewEnforcer(cfg.ModelPath, fileadapter.NewAdapter(cfg.PolicyPath))
	if err != nil {
		return nil, fmt.Errorf("authz: failed to initialize enforcer: %w", err)
	}
	if err := enf.LoadPolicy(); err != nil {
		return nil, fmt.Errorf("authz: failed to load policies: %w", err)
	}

	svc := &Service{
		cfg:      cfg,
		enforcer: enf,
		logger:   logger,
	}
	svc.bootstrapped.Store(true)
	return svc, nil
}

// SetBootstrapped records whether the system already has role assignments.
// Called once during startup provisioning.
func (s *Service) SetBootstrapped(v bool) {
	s.bootstrapped.Store(v)
	if !v {
		s.logger.Warn("authz running in bootstrap window: no role assignments exist, all requests allowed")
	}
}

// Bootstrapped reports the startup provisioning state.
func (s *Service) Bootstrapped() bool {
	return s.bootstrapped.Load()
}

// Mode returns the effective enforcement mode.
func (s *Service) Mode() Mode {
	return s.cfg.Mode
}

// Authorize returns an error if the request is denied.
func (s *Service) Authorize(ctx context.Context, req Request) error {
	if !s.bootstrapped.Load() {
		s.logger.WithContext(ctx).WithFields(logrus.Fields{
			"subject": req.Subject,
			"object":  req.Object,
			"action":  req.Action,
		}).Warn("authz bootstrap allow")
		return nil
	}

	switch s.cfg.Mode {
	case ModeDisabled:
		return nil
	case ModeEnforce:
		allowed, err := s.Check(ctx, req)
		if err != nil {
			return err
		}
		if !allowed {
			s.logDeny(ctx, req, ModeEnforce)
			return forbiddenError(req)
		}
		return nil
	default:
		allowed, err := s.Check(ctx, req)
		if err != nil {
			return err
		}
		if !allowed {
			s.logDeny(ctx, req, ModeShadow)
		}
		return nil
	}
}

// Check evaluates a request without returning an authorization error.
func (s *Service) Check(ctx context.Context, req Request) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	res, err := s.enforcer.Enforce(req.Subject, req.Domain, req.Object, req.Action)
	if err != nil {
		return false, fmt.Errorf("authz: enforce failed: %w", err)
	}
	return res, nil
}

// ReloadPolicy reloads policy data from disk.
func (s *Service) ReloadPolicy(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.enforcer.LoadPolicy(); err != nil {
		return fmt.Errorf("authz: reload policy failed: %w", err)
	}
	s.logger.WithContext(ctx).Info("authz policy reloaded")
	return nil
}

func (s *Service) logDeny(ctx context.Context, req Request, mode Mode) {
	s.logger.WithContext(ctx).WithFields(logrus.Fields{
		"subject": req.Subject,
		"domain":  req.Domain,
		"object":  req.Object,
		"action":  req.Action,
		"mode":    mode,
	}).Warn("authz denied request")
}

var (
	defaultServiceOnce sync.Once
	defaultService     *Service
	defaultServiceErr  error
)

// Use returns a singleton Service configured via environment variables.
func Use() *Service {
	defaultServiceOnce.Do(func() {
		defaultService, defaultServiceErr = NewService(DefaultConfig())
	})
	if defaultServiceErr != nil {
		panic(defaultServiceErr)
	}
	return defaultService
}

// SetDefault overrides the singleton, used by tests and cmd wiring.
func SetDefault(svc *Service) {
	defaultServiceOnce.Do(func() {})
	defaultService = svc
	defaultServiceErr = nil
}
