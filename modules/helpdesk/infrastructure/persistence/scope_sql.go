package persistence

import (
	"fmt"

	"github.com/grupovertice/intranet/pkg/access"
)

// scopeCondition renders an access.Filter into a SQL predicate equivalent to
// Filter.Match. ownerColumn is the requester/reporter column of the subject
// table; grantTable/grantColumn locate the historical area grants.
func scopeCondition(
	filter access.Filter,
	alias, ownerColumn, grantTable, grantColumn string,
	args *[]interface{},
) string {
	switch filter.Scope {
	case access.ScopeAll:
		return "TRUE"
	case access.ScopeArea:
		return areaCondition(filter, alias, grantTable, grantColumn, args)
	case access.ScopeAreaOwn:
		areaCond := areaCondition(filter, alias, grantTable, grantColumn, args)
		*args = append(*args, filter.ActorID)
		return fmt.Sprintf("(%s OR %s.%s = $%d)", areaCond, alias, ownerColumn, len(*args))
	case access.ScopeOwn:
		*args = append(*args, filter.ActorID)
		return fmt.Sprintf("%s.%s = $%d", alias, ownerColumn, len(*args))
	default:
		return "FALSE"
	}
}

func areaCondition(
	filter access.Filter,
	alias, grantTable, grantColumn string,
	args *[]interface{},
) string {
	if filter.AreaID == nil {
		return "FALSE"
	}
	*args = append(*args, *filter.AreaID)
	n := len(*args)
	return fmt.Sprintf(
		"(%s.area_id = $%d OR EXISTS (SELECT 1 FROM %s g WHERE g.%s = %s.id AND g.area_id = $%d))",
		alias, n, grantTable, grantColumn, alias, n,
	)
}
