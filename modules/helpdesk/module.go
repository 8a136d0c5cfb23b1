package helpdesk

import (
	corepersistence "github.com/grupovertice/intranet/modules/core/infrastructure/persistence"
	coreservices "github.com/grupovertice/intranet/modules/core/services"
	"github.com/grupovertice/intranet/modules/helpdesk/infrastructure/persistence"
	"github.com/grupovertice/intranet/modules/helpdesk/services"
	"github.com/grupovertice/intranet/pkg/application"
)

type Module struct{}

func NewModule() *Module {
	return &Module{}
}

func (m *Module) Name() string {
	return "helpdesk"
}

func (m *Module) Register(app application.Application) error {
	publisher := app.Service(&coreservices.EventPublisher{}).(*coreservices.EventPublisher)

	stateRepo := persistence.NewStateRepository()
	historyRepo := corepersistence.NewHistoryRepository()

	app.RegisterServices(
		services.NewTicketService(
			persistence.NewTicketRepository(),
			stateRepo,
			historyRepo,
			publisher,
		),
		services.NewIncidentService(
			persistence.NewIncidentRepository(),
			stateRepo,
			historyRepo,
			publisher,
		),
	)
	return nil
}
