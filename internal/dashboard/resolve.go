package dashboard

import (
	"fmt"

	"github.com/frahmantamala/accessmodel-admin/internal/dropdown"
	"github.com/frahmantamala/accessmodel-admin/internal/navigation"
	"github.com/frahmantamala/accessmodel-admin/internal/permission"
	"github.com/frahmantamala/accessmodel-admin/internal/warehouse"
)

// Transition is the outcome of resolving one event: the next UI state, the navigation
// effects to run and at most one grid command.
type Transition struct {
	UI           UIState
	Effects      []navigation.Effect
	Command      permission.Command
	DismissAlert bool
}

// Resolve is the pure part of dispatch. It decides what an event means given the UI
// state, the rows currently shown and the dropdown options on offer, without touching
// the warehouse. On error ui is returned unchanged.
func Resolve(ui UIState, grids permission.GridState, options dropdown.Options, e Event) (Transition, error) {
	t := Transition{UI: ui}

	if nav, ok := e.navEvent(); ok {
		next, effects, err := navigation.Apply(ui.Nav, nav)
		if err != nil {
			return t, err
		}
		t.UI.Nav = next
		t.Effects = effects
		return t, nil
	}

	switch e.Kind {
	case EventSelectDropdown, EventSelectRow, EventClickButton:
		if ui.Nav.Route != navigation.RouteAddUser {
			return t, fmt.Errorf("%w: %s on %s", ErrOutsideAddUser, e.Kind, ui.Nav.Route)
		}
	}

	switch e.Kind {
	case EventSelectDropdown:
		if err := checkOption(options, e.Field, e.Value); err != nil {
			return t, err
		}
		switch e.Field {
		case FieldManager:
			t.UI.Selections.Manager = e.Value
		case FieldWorker:
			t.UI.Selections.Worker = e.Value
		case FieldWorkerForTeam:
			t.UI.Selections.WorkerForTeam = e.Value
		case FieldTeam:
			t.UI.Selections.Team = e.Value
		default:
			return Transition{UI: ui}, fmt.Errorf("%w: %q", ErrUnknownField, e.Field)
		}
		return t, nil

	case EventSelectRow:
		row, err := findRow(grids, e.Grid, e.RowID)
		if err != nil {
			return t, err
		}
		if e.Grid == GridUser {
			t.UI.SelectedRows.UserGrid = row
		} else {
			t.UI.SelectedRows.TeamGrid = row
		}
		return t, nil

	case EventClickButton:
		cmd, err := commandFor(ui, e.Button)
		if err != nil {
			return t, err
		}
		t.Command = cmd
		return t, nil

	case EventDismissAlert:
		t.DismissAlert = true
		return t, nil
	}

	return t, fmt.Errorf("%w: unknown kind %q", ErrInvalidEvent, e.Kind)
}

// commandFor turns a button click into the grid command built from the current
// selections. Empty selections still produce a command; the synchronizer rejects them.
func commandFor(ui UIState, b Button) (permission.Command, error) {
	s := ui.Selections
	switch b {
	case ButtonAddAccessUser:
		return permission.AddManagerWorker{Manager: s.Manager, Worker: s.Worker}, nil
	case ButtonDeletePermission:
		return permission.DeletePermission{Selected: ui.SelectedRows.UserGrid}, nil
	case ButtonAddUserToTeam:
		return permission.AddWorkerTeam{Worker: s.WorkerForTeam, Team: s.Team}, nil
	case ButtonDeleteTeamPermission:
		return permission.DeleteTeamPermission{Selected: ui.SelectedRows.TeamGrid}, nil
	}
	return nil, fmt.Errorf("%w: unknown button %q", ErrInvalidEvent, b)
}

// checkOption accepts an empty value, which clears the dropdown, or one of the options
// the dropdown was populated with.
func checkOption(options dropdown.Options, f Field, value string) error {
	var list dropdown.OptionList
	switch f {
	case FieldManager, FieldWorker, FieldWorkerForTeam:
		list = options.Users
	case FieldTeam:
		list = options.Teams
	default:
		return fmt.Errorf("%w: %q", ErrUnknownField, f)
	}
	if value == "" || list.Contains(value) {
		return nil
	}
	return fmt.Errorf("%w: %s=%q", ErrUnknownOption, f, value)
}

// findRow looks a selection up in the rows on screen. A nil id clears the selection.
func findRow(grids permission.GridState, g GridID, id *int64) (warehouse.Row, error) {
	var rows []warehouse.Row
	switch g {
	case GridUser:
		rows = grids.UserRows
	case GridTeam:
		rows = grids.TeamRows
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownGrid, g)
	}
	if id == nil {
		return nil, nil
	}
	for _, r := range rows {
		if rid, ok := permission.RowID(r); ok && rid == *id {
			return r, nil
		}
	}
	return nil, fmt.Errorf("%w: %s grid has no row %d", ErrUnknownRow, g, *id)
}
