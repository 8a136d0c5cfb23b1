package modules

import (
	"github.com/grupovertice/intranet/modules/core"
	"github.com/grupovertice/intranet/modules/helpdesk"
	"github.com/grupovertice/intranet/modules/hrm"
	"github.com/grupovertice/intranet/modules/sigua"
	"github.com/grupovertice/intranet/pkg/application"
)

// BuiltInModules in registration order: core first (everyone needs its
// services), sigua last (it pulls the HR roster).
var BuiltInModules = []application.Module{
	core.NewModule(),
	helpdesk.NewModule(),
	hrm.NewModule(),
	sigua.NewModule(),
}

func Load(app application.Application, mods ...application.Module) error {
	for _, module := range mods {
		if err := module.Register(app); err != nil {
			return err
		}
	}
	return nil
}
