package report

import (
	"errors"
	"fmt"

	"github.com/frahmantamala/accessmodel-admin/internal/navigation"
	"github.com/frahmantamala/accessmodel-admin/internal/warehouse"
)

var (
	// ErrNoIdentity is returned for the personal tab when no caller email is known.
	// The personal query is never run unfiltered.
	ErrNoIdentity = errors.New("no identity available for personal permissions")
	ErrUnknownTab = errors.New("unknown report tab")
)

// Resolver maps a report tab onto its read-only warehouse statement.
type Resolver struct {
	schema string
}

func NewResolver(schema string) *Resolver {
	return &Resolver{schema: schema}
}

func (r *Resolver) table(name string) string {
	return warehouse.Qualify(r.schema, name)
}

// ResolveQuery is pure: it only builds the statement. An empty email means the caller
// identity is absent.
func (r *Resolver) ResolveQuery(tab navigation.Tab, email string) (warehouse.Statement, error) {
	switch tab {
	case navigation.TabReport:
		return warehouse.NewStatement("report_users", fmt.Sprintf(
			"SELECT UserKey, EmployeeNumber, internalemailaddress AS EmailAddress, fullname AS Name FROM %s",
			r.table("dimreportuser"))), nil

	case navigation.TabTeamGrouping:
		return warehouse.NewStatement("team_grouping", fmt.Sprintf(
			"SELECT TeamGroupingKey, TeamName, Office, City FROM %s",
			r.table("teamgrouping"))), nil

	case navigation.TabBridgeMandate:
		return warehouse.NewStatement("bridge_mandate_team_access", fmt.Sprintf(
			"SELECT * FROM %s",
			r.table("bridgemandateteamaccess"))), nil

	case navigation.TabMyPermissions:
		if email == "" {
			return warehouse.Statement{}, ErrNoIdentity
		}
		return warehouse.NewStatement("my_team_permissions", fmt.Sprintf(
			"SELECT dimreportuser.UserKey, EmployeeNumber, internalemailaddress AS Email, fullname AS Name, TeamName "+
				"FROM %s "+
				"INNER JOIN %s ON dimreportuser.UserKey = bridgeuserteam.UserKey "+
				"INNER JOIN %s ON teamgrouping.TeamGroupingKey = bridgeuserteam.TeamGroupingKey "+
				"WHERE internalemailaddress = ?",
			r.table("dimreportuser"), r.table("bridgeuserteam"), r.table("teamgrouping")), email), nil
	}

	return warehouse.Statement{}, fmt.Errorf("%w: %q", ErrUnknownTab, tab)
}
