package dashboard

import (
	"github.com/frahmantamala/accessmodel-admin/internal/dropdown"
	"github.com/frahmantamala/accessmodel-admin/internal/grid"
	"github.com/frahmantamala/accessmodel-admin/internal/identity"
	"github.com/frahmantamala/accessmodel-admin/internal/navigation"
	"github.com/frahmantamala/accessmodel-admin/internal/permission"
	"github.com/frahmantamala/accessmodel-admin/internal/warehouse"
)

const InfoText = "This app enables management of access permissions for users and teams. " +
	"Users can view Access Model Tables, including their team permissions, and add or remove users from the model."

const PageNotFound = "Page not found."

type gridRow struct {
	ID       int64
	HasID    bool
	Cells    []string
	Selected bool
}

type gridView struct {
	ID        GridID
	Columns   []grid.ColumnDef
	Rows      []gridRow
	Defaults  grid.DefaultColDef
	Selection string
}

type dropdownView struct {
	Field    Field
	Label    string
	Options  dropdown.OptionList
	Selected string
}

type buttonView struct {
	Button Button
	Label  string
}

type tabView struct {
	Tab    navigation.Tab
	Label  string
	Active bool
}

type routeView struct {
	Route  navigation.Route
	Label  string
	Active bool
}

// pageData is what the page template renders.
type pageData struct {
	Header        string
	SidebarOpen   bool
	InfoModalOpen bool
	InfoText      string
	Routes        []routeView
	Tables        bool
	AddUser       bool
	NotFound      string

	Tabs          []tabView
	ReportMessage string
	Report        gridView

	Outcome       *permission.Alert
	UserDropdowns []dropdownView
	TeamDropdowns []dropdownView
	UserButtons   []buttonView
	TeamButtons   []buttonView
	UserGrid      gridView
	TeamGrid      gridView
}

func newPageData(snap Snapshot) pageData {
	ui := snap.UI
	d := pageData{
		Header:        "Access Model: " + identity.Display(ui.Email, ui.Email != ""),
		SidebarOpen:   ui.Nav.SidebarOpen,
		InfoModalOpen: ui.Nav.InfoModalOpen,
		InfoText:      InfoText,
		Tables:        ui.Nav.Route == navigation.RouteTables,
		AddUser:       ui.Nav.Route == navigation.RouteAddUser,
	}
	for _, r := range []navigation.Route{navigation.RouteTables, navigation.RouteAddUser} {
		d.Routes = append(d.Routes, routeView{Route: r, Label: r.Label(), Active: r == ui.Nav.Route})
	}

	if d.Tables {
		for _, t := range navigation.Tabs {
			d.Tabs = append(d.Tabs, tabView{Tab: t, Label: t.Label(), Active: t == ui.Nav.ActiveTab})
		}
		d.ReportMessage = snap.Report.Message
		d.Report = buildGrid("", snap.Report.Columns, snap.Report.Rows, snap)
	}

	if d.AddUser {
		opts, sel := snap.Options, ui.Selections
		d.Outcome = snap.Grids.Outcome
		d.UserDropdowns = []dropdownView{
			{Field: FieldManager, Label: "Select Manager", Options: opts.Users, Selected: sel.Manager},
			{Field: FieldWorker, Label: "Select Worker", Options: opts.Users, Selected: sel.Worker},
		}
		d.TeamDropdowns = []dropdownView{
			{Field: FieldWorkerForTeam, Label: "Select Worker", Options: opts.Users, Selected: sel.WorkerForTeam},
			{Field: FieldTeam, Label: "Select Team", Options: opts.Teams, Selected: sel.Team},
		}
		d.UserButtons = []buttonView{
			{Button: ButtonAddAccessUser, Label: "Add Access User"},
			{Button: ButtonDeletePermission, Label: "Delete Permission"},
		}
		d.TeamButtons = []buttonView{
			{Button: ButtonAddUserToTeam, Label: "Add User to Team"},
			{Button: ButtonDeleteTeamPermission, Label: "Delete Team Permission"},
		}
		d.UserGrid = buildGrid(GridUser, snap.UserColumns, snap.Grids.UserRows, snap)
		d.TeamGrid = buildGrid(GridTeam, snap.TeamColumns, snap.Grids.TeamRows, snap)
	}
	return d
}

func buildGrid(id GridID, columns []grid.ColumnDef, rows []warehouse.Row, snap Snapshot) gridView {
	g := gridView{
		ID:        id,
		Columns:   columns,
		Rows:      make([]gridRow, 0, len(rows)),
		Defaults:  snap.GridDefaults,
		Selection: snap.RowSelection,
	}
	for _, r := range rows {
		row := gridRow{Cells: make([]string, 0, len(columns))}
		for _, c := range columns {
			row.Cells = append(row.Cells, r.String(c.Field))
		}
		if id != "" {
			row.ID, row.HasID = permission.RowID(r)
			row.Selected = snap.IsSelected(id, r)
		}
		g.Rows = append(g.Rows, row)
	}
	return g
}
