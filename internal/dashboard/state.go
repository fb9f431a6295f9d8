package dashboard

import (
	"sync"

	"github.com/frahmantamala/accessmodel-admin/internal/dropdown"
	"github.com/frahmantamala/accessmodel-admin/internal/grid"
	"github.com/frahmantamala/accessmodel-admin/internal/navigation"
	"github.com/frahmantamala/accessmodel-admin/internal/permission"
	"github.com/frahmantamala/accessmodel-admin/internal/report"
	"github.com/frahmantamala/accessmodel-admin/internal/warehouse"
)

// Selections holds the four dropdown values of the add user view.
type Selections struct {
	Manager       string `json:"manager"`
	Worker        string `json:"worker"`
	WorkerForTeam string `json:"worker_for_team"`
	Team          string `json:"team"`
}

// SelectedRows holds the row picked in each permission grid; nil means none.
type SelectedRows struct {
	UserGrid warehouse.Row `json:"user_grid,omitempty"`
	TeamGrid warehouse.Row `json:"team_grid,omitempty"`
}

// UIState is everything one browser session has chosen so far. Transitions copy it.
type UIState struct {
	Nav          navigation.State `json:"nav"`
	Email        string           `json:"email,omitempty"`
	Selections   Selections       `json:"selections"`
	SelectedRows SelectedRows     `json:"selected_rows"`
}

func InitialUIState() UIState {
	return UIState{Nav: navigation.Initial()}
}

// Session is the engine-owned state of one browser session. Dispatch holds mu for the
// whole event so a write and its re-read never interleave with another command.
type Session struct {
	ID string

	mu      sync.Mutex
	ui      UIState
	grids   permission.GridState
	options dropdown.Options
	report  report.View
	mounted bool
}

func NewSession(id string) *Session {
	return &Session{
		ID:      id,
		ui:      InitialUIState(),
		grids:   permission.EmptyGridState(),
		options: dropdown.Options{Users: dropdown.OptionList{}, Teams: dropdown.OptionList{}},
	}
}

// Snapshot is a consistent copy of a session for rendering. GridDefaults and
// RowSelection apply to every grid it describes.
type Snapshot struct {
	SessionID    string               `json:"session_id"`
	UI           UIState              `json:"ui"`
	Grids        permission.GridState `json:"grids"`
	UserColumns  []grid.ColumnDef     `json:"user_columns"`
	TeamColumns  []grid.ColumnDef     `json:"team_columns"`
	GridDefaults grid.DefaultColDef   `json:"grid_defaults"`
	RowSelection string               `json:"row_selection"`
	Options      dropdown.Options     `json:"options"`
	Report       report.View          `json:"report"`
	Mounted      bool                 `json:"mounted"`
}

func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot()
}

func (s *Session) snapshot() Snapshot {
	return Snapshot{
		SessionID:    s.ID,
		UI:           s.ui,
		Grids:        s.grids,
		UserColumns:  grid.ManagerWorkerColumns,
		TeamColumns:  grid.WorkerTeamColumns,
		GridDefaults: grid.Defaults,
		RowSelection: grid.SelectionSingle,
		Options:      s.options,
		Report:       s.report,
		Mounted:      s.mounted,
	}
}

// IsSelected reports whether row is the current selection of the given grid.
func (snap Snapshot) IsSelected(g GridID, row warehouse.Row) bool {
	var selected warehouse.Row
	switch g {
	case GridUser:
		selected = snap.UI.SelectedRows.UserGrid
	case GridTeam:
		selected = snap.UI.SelectedRows.TeamGrid
	}
	want, ok := permission.RowID(selected)
	if !ok {
		return false
	}
	got, ok := permission.RowID(row)
	return ok && got == want
}
