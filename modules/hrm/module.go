package hrm

import (
	coreservices "github.com/grupovertice/intranet/modules/core/services"
	"github.com/grupovertice/intranet/modules/hrm/infrastructure/persistence"
	"github.com/grupovertice/intranet/modules/hrm/services"
	"github.com/grupovertice/intranet/pkg/application"
)

type Module struct{}

func NewModule() *Module {
	return &Module{}
}

func (m *Module) Name() string {
	return "hrm"
}

func (m *Module) Register(app application.Application) error {
	publisher := app.Service(&coreservices.EventPublisher{}).(*coreservices.EventPublisher)

	app.RegisterServices(
		services.NewEmployeeService(persistence.NewEmployeeRepository(), publisher),
		services.NewAttendanceService(persistence.NewAttendanceRepository()),
	)
	return nil
}
