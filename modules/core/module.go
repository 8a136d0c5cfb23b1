package core

import (
	"github.com/grupovertice/intranet/modules/core/infrastructure/persistence"
	"github.com/grupovertice/intranet/modules/core/services"
	"github.com/grupovertice/intranet/pkg/application"
	"github.com/grupovertice/intranet/pkg/outbox"
)

type Module struct{}

func NewModule() *Module {
	return &Module{}
}

func (m *Module) Name() string {
	return "core"
}

func (m *Module) Register(app application.Application) error {
	userRepo := persistence.NewUserRepository()
	notificationRepo := persistence.NewNotificationRepository()
	areaRepo := persistence.NewAreaRepository()
	roleRepo := persistence.NewRoleRepository()

	app.RegisterServices(
		services.NewUserService(userRepo, app.EventPublisher()),
		services.NewNotificationService(notificationRepo),
		services.NewFanoutService(userRepo, notificationRepo, app.Logger()),
		services.NewEventPublisher(outbox.NewPublisher()),
		services.NewAreaService(areaRepo),
		services.NewRoleService(roleRepo),
	)
	return nil
}
