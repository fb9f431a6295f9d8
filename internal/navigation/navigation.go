package navigation

import (
	"errors"
	"fmt"
)

type Route string

const (
	RouteTables  Route = "tables"
	RouteAddUser Route = "add-user"
)

func (r Route) Label() string {
	switch r {
	case RouteTables:
		return "Access Model Tables"
	case RouteAddUser:
		return "Add User to Model"
	}
	return string(r)
}

func (r Route) Valid() bool {
	return r == RouteTables || r == RouteAddUser
}

type Tab string

const (
	TabReport        Tab = "report"
	TabTeamGrouping  Tab = "team-grouping"
	TabBridgeMandate Tab = "bridge-mandate"
	TabMyPermissions Tab = "my-permissions"
)

// Tabs lists the report tabs in display order.
var Tabs = []Tab{TabReport, TabTeamGrouping, TabBridgeMandate, TabMyPermissions}

func (t Tab) Label() string {
	switch t {
	case TabReport:
		return "Report Users"
	case TabTeamGrouping:
		return "Team Grouping"
	case TabBridgeMandate:
		return "Bridge Mandate Team Access"
	case TabMyPermissions:
		return "My Team Permissions"
	}
	return string(t)
}

func (t Tab) Valid() bool {
	for _, known := range Tabs {
		if t == known {
			return true
		}
	}
	return false
}

// State is the navigation part of a session. ActiveTab only matters while Route is
// RouteTables but is kept across route changes.
type State struct {
	Route         Route `json:"route"`
	SidebarOpen   bool  `json:"sidebar_open"`
	InfoModalOpen bool  `json:"info_modal_open"`
	ActiveTab     Tab   `json:"active_tab"`
}

func Initial() State {
	return State{
		Route:     RouteTables,
		ActiveTab: TabReport,
	}
}

type EventKind string

const (
	EventToggleSidebar  EventKind = "toggle_sidebar"
	EventClickInfo      EventKind = "click_info"
	EventCloseInfoModal EventKind = "close_info_modal"
	EventClickNavLink   EventKind = "click_nav_link"
	EventSelectTab      EventKind = "select_tab"
	EventMount          EventKind = "mount"
)

type Event struct {
	Kind  EventKind
	Route Route
	Tab   Tab
}

func ToggleSidebar() Event            { return Event{Kind: EventToggleSidebar} }
func ClickInfoButton() Event          { return Event{Kind: EventClickInfo} }
func CloseInfoModal() Event           { return Event{Kind: EventCloseInfoModal} }
func ClickNavLink(target Route) Event { return Event{Kind: EventClickNavLink, Route: target} }
func SelectTab(tab Tab) Event         { return Event{Kind: EventSelectTab, Tab: tab} }

// Mount is a fresh page load. It re-runs the side effects of the current route.
func Mount() Event { return Event{Kind: EventMount} }

// Effect is a side effect the caller must run after a transition.
type Effect string

const (
	EffectPopulateDropdowns Effect = "populate_dropdowns"
	EffectLoadGrids         Effect = "load_grids"
	EffectRenderReport      Effect = "render_report"
)

var (
	ErrUnknownRoute     = errors.New("page not found")
	ErrUnknownTab       = errors.New("unknown tab")
	ErrTabOutsideTables = errors.New("tabs can only be selected on the tables view")
	ErrUnknownEvent     = errors.New("unknown navigation event")
)

// Apply is the navigation reducer. It never mutates s; on error the returned state is
// s unchanged and no effects are emitted.
func Apply(s State, e Event) (State, []Effect, error) {
	switch e.Kind {
	case EventToggleSidebar:
		s.SidebarOpen = !s.SidebarOpen
		return s, nil, nil

	case EventClickInfo, EventCloseInfoModal:
		s.InfoModalOpen = !s.InfoModalOpen
		return s, nil, nil

	case EventClickNavLink:
		if !e.Route.Valid() {
			return s, nil, fmt.Errorf("%w: %q", ErrUnknownRoute, e.Route)
		}
		if s.Route == e.Route {
			return s, nil, nil
		}
		s.Route = e.Route
		return s, entryEffects(s), nil

	case EventSelectTab:
		if s.Route != RouteTables {
			return s, nil, ErrTabOutsideTables
		}
		if !e.Tab.Valid() {
			return s, nil, fmt.Errorf("%w: %q", ErrUnknownTab, e.Tab)
		}
		s.ActiveTab = e.Tab
		return s, []Effect{EffectRenderReport}, nil

	case EventMount:
		return s, entryEffects(s), nil
	}

	return s, nil, fmt.Errorf("%w: %q", ErrUnknownEvent, e.Kind)
}

func entryEffects(s State) []Effect {
	switch s.Route {
	case RouteAddUser:
		return []Effect{EffectPopulateDropdowns, EffectLoadGrids}
	case RouteTables:
		return []Effect{EffectRenderReport}
	}
	return nil
}
