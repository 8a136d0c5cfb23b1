package authz

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/grupovertice/intranet/pkg/configuration"
)

// Mode controls how enforcement results are applied.
type Mode string

const (
	// ModeEnforce denies requests that fail the policy check.
	ModeEnforce Mode = "enforce"
	// ModeShadow evaluates and logs denials but allows the request, used while
	// rolling a new policy file out.
	ModeShadow Mode = "shadow"
	// ModeDisabled skips evaluation entirely.
	ModeDisabled Mode = "disabled"
)

func sanitizeMode(m Mode) Mode {
	switch Mode(strings.ToLower(strings.TrimSpace(string(m)))) {
	case ModeEnforce:
		return ModeEnforce
	case ModeDisabled:
		return ModeDisabled
	default:
		return ModeShadow
	}
}

// Config captures all inputs necessary to initialize the Casbin enforcer.
type Config struct {
	ModelPath  string
	PolicyPath string
	Mode       Mode
	Logger     *logrus.Logger
}

func (c Config) validate() error {
	if c.ModelPath == "" {
		return configError("missing model path")
	}
	if c.PolicyPath == "" {
		return configError("missing policy path")
	}
	return nil
}

func (c Config) normalized() Config {
	c.ModelPath = filepath.Clean(c.ModelPath)
	c.PolicyPath = filepath.Clean(c.PolicyPath)
	c.Mode = sanitizeMode(c.Mode)
	return c
}

// DefaultConfig builds a Config using the global configuration singleton.
func DefaultConfig() Config {
	cfg := configuration.Use()
	return Config{
		ModelPath:  cfg.Authz.ModelPath,
		PolicyPath: cfg.Authz.PolicyPath,
		Mode:       sanitizeMode(Mode(cfg.Authz.Mode)),
		Logger:     cfg.Logger(),
	}
}

// configError standardizes configuration validation errors.
func configError(msg string, args ...any) error {
	return fmt.Errorf("authz: "+msg, args...)
}
