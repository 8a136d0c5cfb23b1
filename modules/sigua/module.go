package sigua

import (
	"github.com/jonboulle/clockwork"
	"github.com/redis/go-redis/v9"

	corepersistence "github.com/grupovertice/intranet/modules/core/infrastructure/persistence"
	coreservices "github.com/grupovertice/intranet/modules/core/services"
	hrmservices "github.com/grupovertice/intranet/modules/hrm/services"
	"github.com/grupovertice/intranet/modules/sigua/infrastructure/persistence"
	"github.com/grupovertice/intranet/modules/sigua/services"
	"github.com/grupovertice/intranet/pkg/application"
	"github.com/grupovertice/intranet/pkg/configuration"
	"github.com/grupovertice/intranet/pkg/schedule"
)

type Module struct{}

func NewModule() *Module {
	return &Module{}
}

func (m *Module) Name() string {
	return "sigua"
}

func (m *Module) Register(app application.Application) error {
	conf := configuration.Use()
	publisher := app.Service(&coreservices.EventPublisher{}).(*coreservices.EventPublisher)
	roster := app.Service(&hrmservices.EmployeeService{}).(*hrmservices.EmployeeService)

	accountRepo := persistence.NewAccountRepository()
	certificateRepo := persistence.NewCertificateRepository()
	activityRepo := persistence.NewActivityRepository()
	historyRepo := corepersistence.NewHistoryRepository()

	cache := redis.NewClient(&redis.Options{
		Addr:     conf.Redis.URL,
		Password: conf.Redis.Password,
		DB:       conf.Redis.DB,
	})

	clock := clockwork.NewRealClock()
	calendar := schedule.ParseCalendar(conf.Sweeps.Holidays)

	certificateSweep := services.NewCertificateSweep(
		certificateRepo, publisher, clock, conf.Sweeps.CertificateHorizonDays, app.Logger(),
	)
	orphanSweep := services.NewOrphanSweep(
		accountRepo, roster, publisher, cache, conf.Sweeps.OrphanCacheTTL, clock, app.Logger(),
	)
	activitySweep := services.NewActivitySweep(
		activityRepo, publisher, calendar, clock, conf.Sweeps.ActivityToleranceDays, app.Logger(),
	)

	app.RegisterServices(
		services.NewAccountService(accountRepo, historyRepo, publisher),
		services.NewCertificateService(certificateRepo, historyRepo, publisher),
		services.NewActivityService(activityRepo),
		certificateSweep,
		orphanSweep,
		activitySweep,
	)

	app.RegisterJobs(
		schedule.Job{
			Name:  "certificate-expiry",
			Every: conf.Sweeps.CertificateExpiryEvery,
			Run:   certificateSweep.Run,
		},
		schedule.Job{
			Name:  "orphan-accounts",
			Every: conf.Sweeps.OrphanEvery,
			Run:   orphanSweep.Run,
		},
		schedule.Job{
			Name:  "missing-activity",
			Every: conf.Sweeps.ActivityEvery,
			Run:   activitySweep.Run,
		},
	)
	return nil
}
