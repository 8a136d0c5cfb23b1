package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/grupovertice/intranet/modules/core/domain/events"
	coreservices "github.com/grupovertice/intranet/modules/core/services"
	"github.com/grupovertice/intranet/modules/sigua/domain/aggregates/account"
	siguapermissions "github.com/grupovertice/intranet/modules/sigua/permissions"
	"github.com/grupovertice/intranet/pkg/composables"
)

const orphanCountCacheKey = "sigua:orphans:count"

// RosterProvider supplies the logins of everyone currently employed. The HR
// module implements it from its employee records.
type RosterProvider interface {
	ActiveLogins(ctx context.Context) ([]string, error)
}

// OrphanSweep finds active access accounts whose login no longer maps to an
// employed person and raises a per-tenant summary for the governance admins.
type OrphanSweep struct {
	accounts  account.Repository
	roster    RosterProvider
	publisher *coreservices.EventPublisher
	cache     *redis.Client
	cacheTTL  time.Duration
	clock     clockwork.Clock
	logger    *logrus.Logger
}

type OrphanSweepResult struct {
	Checked int
	Orphans []string
	Errors  int
}

func NewOrphanSweep(
	accounts account.Repository,
	roster RosterProvider,
	publisher *coreservices.EventPublisher,
	cache *redis.Client,
	cacheTTL time.Duration,
	clock clockwork.Clock,
	logger *logrus.Logger,
) *OrphanSweep {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &OrphanSweep{
		accounts:  accounts,
		roster:    roster,
		publisher: publisher,
		cache:     cache,
		cacheTTL:  cacheTTL,
		clock:     clock,
		logger:    logger,
	}
}

func (s *OrphanSweep) Run(ctx context.Context) error {
	result, err := s.RunOnce(ctx)
	if err != nil {
		return err
	}
	s.logger.WithFields(logrus.Fields{
		"checked": result.Checked,
		"orphans": len(result.Orphans),
	}).Info("orphan sweep finished")
	return nil
}

func (s *OrphanSweep) RunOnce(ctx context.Context) (OrphanSweepResult, error) {
	var result OrphanSweepResult
	var tenantErrs []error

	err := composables.InTx(ctx, func(txCtx context.Context) error {
		accountLogins, err := s.accounts.ActiveLogins(txCtx)
		if err != nil {
			return fmt.Errorf("list account logins: %w", err)
		}
		result.Checked = len(accountLogins)

		rosterLogins, err := s.roster.ActiveLogins(txCtx)
		if err != nil {
			return fmt.Errorf("list roster logins: %w", err)
		}

		result.Orphans = diffLogins(accountLogins, rosterLogins)
		if len(result.Orphans) == 0 {
			return nil
		}

		orphanAccounts, err := s.accounts.ListByLogins(txCtx, result.Orphans)
		if err != nil {
			return fmt.Errorf("load orphan accounts: %w", err)
		}

		byTenant := make(map[uuid.UUID][]*account.Account)
		for _, a := range orphanAccounts {
			byTenant[a.TenantID()] = append(byTenant[a.TenantID()], a)
		}

		day := s.clock.Now().Format("2006-01-02")
		for tenantID, accounts := range byTenant {
			logins := make([]string, 0, len(accounts))
			for _, a := range accounts {
				logins = append(logins, a.Login())
			}
			sort.Strings(logins)

			ev := events.NewEntityEvent(tenantID, "account", uuid.Nil, "orphan_summary")
			ev.EventID = uuid.NewSHA1(uuid.NameSpaceOID, []byte(
				fmt.Sprintf("orphans:%s:%s", tenantID, day),
			))
			ev.Message = fmt.Sprintf(
				"%d access account(s) no longer match an employed person: %s",
				len(logins), strings.Join(logins, ", "),
			)
			ev.NotifyPermission = siguapermissions.AdminNotifyPermission
			if err := s.publisher.Publish(txCtx, events.TopicSweepSummary, ev); err != nil {
				result.Errors++
				tenantErrs = append(tenantErrs, fmt.Errorf("tenant %s: %w", tenantID, err))
			}
		}
		return nil
	})
	if err != nil {
		return result, err
	}

	s.cacheCount(ctx, len(result.Orphans))
	return result, errors.Join(tenantErrs...)
}

// CachedOrphanCount returns the last sweep's orphan count without touching
// the database; ok is false when the cache entry has lapsed.
func (s *OrphanSweep) CachedOrphanCount(ctx context.Context) (int, bool, error) {
	if s.cache == nil {
		return 0, false, nil
	}
	val, err := s.cache.Get(ctx, orphanCountCacheKey).Result()
	if err == redis.Nil {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	count, err := strconv.Atoi(val)
	if err != nil {
		return 0, false, err
	}
	return count, true, nil
}

func (s *OrphanSweep) cacheCount(ctx context.Context, count int) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Set(ctx, orphanCountCacheKey, strconv.Itoa(count), s.cacheTTL).Err(); err != nil {
		s.logger.WithError(err).Warn("failed to cache orphan count")
	}
}

func diffLogins(accounts, roster []string) []string {
	employed := make(map[string]struct{}, len(roster))
	for _, login := range roster {
		employed[strings.ToLower(login)] = struct{}{}
	}
	var orphans []string
	for _, login := range accounts {
		if _, ok := employed[strings.ToLower(login)]; !ok {
			orphans = append(orphans, login)
		}
	}
	sort.Strings(orphans)
	return orphans
}
