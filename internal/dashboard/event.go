package dashboard

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/frahmantamala/accessmodel-admin/internal/navigation"
)

type EventKind string

const (
	EventToggleSidebar  EventKind = "toggle_sidebar"
	EventClickInfo      EventKind = "click_info"
	EventCloseInfoModal EventKind = "close_info_modal"
	EventClickNavLink   EventKind = "click_nav_link"
	EventSelectTab      EventKind = "select_tab"
	EventSelectDropdown EventKind = "select_dropdown"
	EventSelectRow      EventKind = "select_row"
	EventClickButton    EventKind = "click_button"
	EventDismissAlert   EventKind = "dismiss_alert"
)

// Field names one of the four dropdowns.
type Field string

const (
	FieldManager       Field = "manager"
	FieldWorker        Field = "worker"
	FieldWorkerForTeam Field = "worker_for_team"
	FieldTeam          Field = "team"
)

type GridID string

const (
	GridUser GridID = "user"
	GridTeam GridID = "team"
)

type Button string

const (
	ButtonAddAccessUser        Button = "add_access_user"
	ButtonDeletePermission     Button = "delete_permission"
	ButtonAddUserToTeam        Button = "add_user_to_team"
	ButtonDeleteTeamPermission Button = "delete_team_permission"
)

// Event is one UI interaction. Only the fields relevant to Kind are read.
type Event struct {
	Kind   EventKind `json:"kind"`
	Route  string    `json:"route,omitempty"`
	Tab    string    `json:"tab,omitempty"`
	Field  Field     `json:"field,omitempty"`
	Value  string    `json:"value,omitempty"`
	Grid   GridID    `json:"grid,omitempty"`
	RowID  *int64    `json:"row_id,omitempty"`
	Button Button    `json:"button,omitempty"`
}

var (
	ErrInvalidEvent = errors.New("invalid event")
	ErrUnknownField = errors.New("unknown dropdown")
	ErrUnknownGrid  = errors.New("unknown grid")
	ErrUnknownRow   = errors.New("row not in grid")
	// ErrOutsideAddUser rejects dropdown, row and button events while another view is shown.
	ErrOutsideAddUser = errors.New("event only valid on the add user view")
	ErrUnknownOption  = errors.New("value is not a dropdown option")
)

// ParseForm builds an Event from form values posted by the HTML view.
func ParseForm(values url.Values) (Event, error) {
	e := Event{
		Kind:   EventKind(values.Get("kind")),
		Route:  values.Get("route"),
		Tab:    values.Get("tab"),
		Field:  Field(values.Get("field")),
		Value:  values.Get("value"),
		Grid:   GridID(values.Get("grid")),
		Button: Button(values.Get("button")),
	}
	if e.Kind == "" {
		return e, fmt.Errorf("%w: kind is required", ErrInvalidEvent)
	}

	if raw := strings.TrimSpace(values.Get("row_id")); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return e, fmt.Errorf("%w: row_id %q", ErrInvalidEvent, raw)
		}
		e.RowID = &id
	}
	return e, nil
}

// navEvent maps the navigation kinds onto the navigation reducer's events.
func (e Event) navEvent() (navigation.Event, bool) {
	switch e.Kind {
	case EventToggleSidebar:
		return navigation.ToggleSidebar(), true
	case EventClickInfo:
		return navigation.ClickInfoButton(), true
	case EventCloseInfoModal:
		return navigation.CloseInfoModal(), true
	case EventClickNavLink:
		return navigation.ClickNavLink(navigation.Route(e.Route)), true
	case EventSelectTab:
		return navigation.SelectTab(navigation.Tab(e.Tab)), true
	}
	return navigation.Event{}, false
}
