package permission

import (
	"fmt"

	"github.com/frahmantamala/accessmodel-admin/internal"
	"github.com/frahmantamala/accessmodel-admin/internal/warehouse"
)

// Table identifies one of the two read-write permission tables.
type Table string

const (
	TableManagerWorker Table = "managerworkerextension"
	TableWorkerTeam    Table = "userteamextension"
)

// Alert is the outcome shown after a command.
type Alert struct {
	Severity internal.Severity `json:"severity"`
	Message  string            `json:"message"`
}

func success(format string, args ...any) *Alert {
	return &Alert{Severity: internal.SeveritySuccess, Message: fmt.Sprintf(format, args...)}
}

func warning(err *internal.AppError) *Alert {
	return &Alert{Severity: err.Severity(), Message: err.Message}
}

func danger(prefix string, err error) *Alert {
	return &Alert{Severity: internal.SeverityDanger, Message: fmt.Sprintf("%s: %v", prefix, rootCause(err))}
}

func rootCause(err error) error {
	if appErr, ok := internal.IsAppError(err); ok && appErr.Cause != nil {
		return appErr.Cause
	}
	return err
}

// GridState is the pair of grid row sets plus the last outcome alert. Row sets are
// always replaced wholesale by a re-read, never patched in place.
type GridState struct {
	UserRows []warehouse.Row `json:"user_rows"`
	TeamRows []warehouse.Row `json:"team_rows"`
	Outcome  *Alert          `json:"outcome,omitempty"`
}

func EmptyGridState() GridState {
	return GridState{UserRows: []warehouse.Row{}, TeamRows: []warehouse.Row{}}
}

// Command is one grid operation. Exactly one command runs per dispatched event.
type Command interface {
	Name() string
}

// InitialLoad reads both tables. It only reads, so re-running it is safe.
type InitialLoad struct{}

type AddManagerWorker struct {
	Manager string
	Worker  string
}

// DeletePermission removes the row selected in the manager/worker grid. A nil
// Selected means nothing is selected.
type DeletePermission struct {
	Selected warehouse.Row
}

type AddWorkerTeam struct {
	Worker string
	Team   string
}

type DeleteTeamPermission struct {
	Selected warehouse.Row
}

func (InitialLoad) Name() string          { return "initial_load" }
func (AddManagerWorker) Name() string     { return "add_manager_worker" }
func (DeletePermission) Name() string     { return "delete_permission" }
func (AddWorkerTeam) Name() string        { return "add_worker_team" }
func (DeleteTeamPermission) Name() string { return "delete_team_permission" }

// RowID extracts the permission id from a selected grid row.
func RowID(row warehouse.Row) (int64, bool) {
	if row == nil {
		return 0, false
	}
	return row.Int64("id")
}
