package dashboard

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/frahmantamala/accessmodel-admin/internal"
	"github.com/frahmantamala/accessmodel-admin/internal/dropdown"
	"github.com/frahmantamala/accessmodel-admin/internal/navigation"
	"github.com/frahmantamala/accessmodel-admin/internal/permission"
	"github.com/frahmantamala/accessmodel-admin/internal/report"
	"github.com/frahmantamala/accessmodel-admin/internal/warehouse"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

type renderCall struct {
	tab   navigation.Tab
	email string
}

type fakeReports struct {
	mu    sync.Mutex
	calls []renderCall
}

func (f *fakeReports) Render(ctx context.Context, tab navigation.Tab, email string) report.View {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, renderCall{tab: tab, email: email})
	return report.View{Tab: tab}
}

type fakeOptions struct {
	calls int32
}

func (f *fakeOptions) Populate(ctx context.Context) dropdown.Options {
	atomic.AddInt32(&f.calls, 1)
	return dropdown.Options{
		Users: dropdown.OptionList{
			{Label: "a@x.com", Value: "a@x.com"},
			{Label: "m@x.com", Value: "m@x.com"},
			{Label: "w@x.com", Value: "w@x.com"},
		},
		Teams: dropdown.OptionList{{Label: "Rates", Value: "Rates"}},
	}
}

// fakeGrids answers commands from fixed rows and records what it was asked to do.
type fakeGrids struct {
	mu          sync.Mutex
	commands    []permission.Command
	inflight    int32
	maxInflight int32
	failWrites  bool
}

func (f *fakeGrids) Apply(ctx context.Context, state permission.GridState, cmd permission.Command) permission.GridState {
	n := atomic.AddInt32(&f.inflight, 1)
	defer atomic.AddInt32(&f.inflight, -1)
	for {
		cur := atomic.LoadInt32(&f.maxInflight)
		if n <= cur || atomic.CompareAndSwapInt32(&f.maxInflight, cur, n) {
			break
		}
	}
	time.Sleep(time.Millisecond)

	f.mu.Lock()
	f.commands = append(f.commands, cmd)
	fail := f.failWrites
	f.mu.Unlock()

	if _, ok := cmd.(permission.InitialLoad); ok {
		return permission.GridState{
			UserRows: []warehouse.Row{{"id": int64(1), "manager_name": "m@x.com"}, {"id": int64(2), "manager_name": "n@x.com"}},
			TeamRows: []warehouse.Row{{"id": int64(7), "team_name": "Rates"}},
		}
	}
	if fail {
		state.Outcome = &permission.Alert{Severity: internal.SeverityDanger, Message: "An error occurred: boom"}
		return state
	}
	state.Outcome = &permission.Alert{Severity: internal.SeveritySuccess, Message: "ok"}
	return state
}

func (f *fakeGrids) names() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, 0, len(f.commands))
	for _, c := range f.commands {
		out = append(out, c.Name())
	}
	return out
}

func rowID(id int64) *int64 { return &id }

var _ = Describe("Engine", func() {
	var (
		ctx     context.Context
		reports *fakeReports
		options *fakeOptions
		grids   *fakeGrids
		engine  *Engine
		session *Session
	)

	BeforeEach(func() {
		ctx = internal.ContextWithEmail(context.Background(), "a@x.com")
		reports = &fakeReports{}
		options = &fakeOptions{}
		grids = &fakeGrids{}
		engine = NewEngine(reports, options, grids, slog.New(slog.NewTextHandler(io.Discard, nil)))
		session = NewSession("s-1")
	})

	dispatch := func(e Event) {
		Expect(engine.Dispatch(ctx, session, e)).To(Succeed())
	}

	Describe("Mount", func() {
		It("should render the active report for the caller on the tables view", func() {
			engine.Mount(ctx, session)

			Expect(reports.calls).To(Equal([]renderCall{{tab: navigation.TabReport, email: "a@x.com"}}))
			Expect(options.calls).To(BeZero())
			Expect(grids.names()).To(BeEmpty())
			Expect(session.Snapshot().Mounted).To(BeTrue())
		})

		It("should mount only once through EnsureMounted", func() {
			engine.EnsureMounted(ctx, session)
			engine.EnsureMounted(ctx, session)
			Expect(reports.calls).To(HaveLen(1))
		})

		It("should pass an empty email when the identity header is absent", func() {
			engine.Mount(context.Background(), session)
			Expect(reports.calls[0].email).To(BeEmpty())
			Expect(session.Snapshot().UI.Email).To(BeEmpty())
		})
	})

	Describe("navigation", func() {
		It("should load dropdowns and grids once on entering the add user view", func() {
			dispatch(Event{Kind: EventClickNavLink, Route: string(navigation.RouteAddUser)})
			dispatch(Event{Kind: EventClickNavLink, Route: string(navigation.RouteAddUser)})

			Expect(options.calls).To(Equal(int32(1)))
			Expect(grids.names()).To(Equal([]string{"initial_load"}))

			snap := session.Snapshot()
			Expect(snap.UI.Nav.Route).To(Equal(navigation.RouteAddUser))
			Expect(snap.Grids.UserRows).To(HaveLen(2))
			Expect(snap.Options.Teams).To(HaveLen(1))
		})

		It("should reload on a fresh mount of the add user view", func() {
			dispatch(Event{Kind: EventClickNavLink, Route: string(navigation.RouteAddUser)})
			engine.Mount(ctx, session)

			Expect(options.calls).To(Equal(int32(2)))
			Expect(grids.names()).To(Equal([]string{"initial_load", "initial_load"}))
		})

		It("should render the selected tab", func() {
			dispatch(Event{Kind: EventSelectTab, Tab: string(navigation.TabMyPermissions)})
			Expect(reports.calls).To(Equal([]renderCall{{tab: navigation.TabMyPermissions, email: "a@x.com"}}))
			Expect(session.Snapshot().UI.Nav.ActiveTab).To(Equal(navigation.TabMyPermissions))
		})

		It("should keep the active tab across a round trip through the add user view", func() {
			dispatch(Event{Kind: EventSelectTab, Tab: string(navigation.TabTeamGrouping)})
			dispatch(Event{Kind: EventClickNavLink, Route: string(navigation.RouteAddUser)})
			dispatch(Event{Kind: EventClickNavLink, Route: string(navigation.RouteTables)})

			Expect(session.Snapshot().UI.Nav.ActiveTab).To(Equal(navigation.TabTeamGrouping))
			Expect(reports.calls[len(reports.calls)-1].tab).To(Equal(navigation.TabTeamGrouping))
		})

		It("should reject a tab selection outside the tables view", func() {
			dispatch(Event{Kind: EventClickNavLink, Route: string(navigation.RouteAddUser)})
			before := session.Snapshot().UI

			err := engine.Dispatch(ctx, session, Event{Kind: EventSelectTab, Tab: string(navigation.TabReport)})
			Expect(errors.Is(err, navigation.ErrTabOutsideTables)).To(BeTrue())
			Expect(session.Snapshot().UI).To(Equal(before))
		})

		It("should reject an unknown route", func() {
			err := engine.Dispatch(ctx, session, Event{Kind: EventClickNavLink, Route: "admin"})
			Expect(errors.Is(err, navigation.ErrUnknownRoute)).To(BeTrue())
			Expect(session.Snapshot().UI.Nav.Route).To(Equal(navigation.RouteTables))
		})

		It("should toggle the sidebar and info modal", func() {
			for i := 0; i < 3; i++ {
				dispatch(Event{Kind: EventToggleSidebar})
			}
			dispatch(Event{Kind: EventClickInfo})
			Expect(session.Snapshot().UI.Nav.SidebarOpen).To(BeTrue())
			Expect(session.Snapshot().UI.Nav.InfoModalOpen).To(BeTrue())

			dispatch(Event{Kind: EventCloseInfoModal})
			Expect(session.Snapshot().UI.Nav.InfoModalOpen).To(BeFalse())
		})
	})

	Describe("add user view gating", func() {
		BeforeEach(func() {
			engine.Mount(ctx, session)
		})

		It("should reject dropdown, row and button events on the tables view", func() {
			before := session.Snapshot()

			for _, e := range []Event{
				{Kind: EventSelectDropdown, Field: FieldManager, Value: "not-an-option"},
				{Kind: EventSelectRow, Grid: GridUser, RowID: rowID(1)},
				{Kind: EventClickButton, Button: ButtonAddAccessUser},
			} {
				err := engine.Dispatch(ctx, session, e)
				Expect(errors.Is(err, ErrOutsideAddUser)).To(BeTrue(), string(e.Kind))
			}

			Expect(grids.names()).To(BeEmpty())
			Expect(session.Snapshot().UI).To(Equal(before.UI))
		})

		It("should reject values that are not among the populated options", func() {
			dispatch(Event{Kind: EventClickNavLink, Route: string(navigation.RouteAddUser)})
			dispatch(Event{Kind: EventSelectDropdown, Field: FieldManager, Value: "m@x.com"})

			err := engine.Dispatch(ctx, session, Event{Kind: EventSelectDropdown, Field: FieldManager, Value: "x@evil.com"})
			Expect(errors.Is(err, ErrUnknownOption)).To(BeTrue())

			err = engine.Dispatch(ctx, session, Event{Kind: EventSelectDropdown, Field: FieldTeam, Value: "m@x.com"})
			Expect(errors.Is(err, ErrUnknownOption)).To(BeTrue())

			Expect(session.Snapshot().UI.Selections).To(Equal(Selections{Manager: "m@x.com"}))
		})

		It("should let an empty value clear a dropdown", func() {
			dispatch(Event{Kind: EventClickNavLink, Route: string(navigation.RouteAddUser)})
			dispatch(Event{Kind: EventSelectDropdown, Field: FieldTeam, Value: "Rates"})
			dispatch(Event{Kind: EventSelectDropdown, Field: FieldTeam, Value: ""})
			Expect(session.Snapshot().UI.Selections.Team).To(BeEmpty())
		})
	})

	Describe("grid commands", func() {
		BeforeEach(func() {
			dispatch(Event{Kind: EventClickNavLink, Route: string(navigation.RouteAddUser)})
		})

		It("should build the add command from the dropdown selections", func() {
			dispatch(Event{Kind: EventSelectDropdown, Field: FieldManager, Value: "m@x.com"})
			dispatch(Event{Kind: EventSelectDropdown, Field: FieldWorker, Value: "w@x.com"})
			dispatch(Event{Kind: EventClickButton, Button: ButtonAddAccessUser})

			Expect(grids.commands[len(grids.commands)-1]).To(Equal(
				permission.AddManagerWorker{Manager: "m@x.com", Worker: "w@x.com"}))
		})

		It("should build the team command from the team selections", func() {
			dispatch(Event{Kind: EventSelectDropdown, Field: FieldWorkerForTeam, Value: "w@x.com"})
			dispatch(Event{Kind: EventSelectDropdown, Field: FieldTeam, Value: "Rates"})
			dispatch(Event{Kind: EventClickButton, Button: ButtonAddUserToTeam})

			Expect(grids.commands[len(grids.commands)-1]).To(Equal(
				permission.AddWorkerTeam{Worker: "w@x.com", Team: "Rates"}))
		})

		It("should delete the selected row and clear that selection only", func() {
			dispatch(Event{Kind: EventSelectRow, Grid: GridUser, RowID: rowID(2)})
			dispatch(Event{Kind: EventSelectRow, Grid: GridTeam, RowID: rowID(7)})
			dispatch(Event{Kind: EventClickButton, Button: ButtonDeletePermission})

			cmd, ok := grids.commands[len(grids.commands)-1].(permission.DeletePermission)
			Expect(ok).To(BeTrue())
			id, _ := permission.RowID(cmd.Selected)
			Expect(id).To(Equal(int64(2)))

			snap := session.Snapshot()
			Expect(snap.UI.SelectedRows.UserGrid).To(BeNil())
			Expect(snap.IsSelected(GridTeam, warehouse.Row{"id": int64(7)})).To(BeTrue())
		})

		It("should keep the selection when the delete fails", func() {
			grids.failWrites = true
			dispatch(Event{Kind: EventSelectRow, Grid: GridUser, RowID: rowID(1)})
			dispatch(Event{Kind: EventClickButton, Button: ButtonDeletePermission})

			snap := session.Snapshot()
			Expect(snap.Grids.Outcome.Severity).To(Equal(internal.SeverityDanger))
			Expect(snap.IsSelected(GridUser, warehouse.Row{"id": int64(1)})).To(BeTrue())
		})

		It("should send a delete without a selection to the synchronizer", func() {
			dispatch(Event{Kind: EventClickButton, Button: ButtonDeleteTeamPermission})
			Expect(grids.commands[len(grids.commands)-1]).To(Equal(permission.DeleteTeamPermission{}))
		})

		It("should clear a selection when no row id is given", func() {
			dispatch(Event{Kind: EventSelectRow, Grid: GridUser, RowID: rowID(1)})
			dispatch(Event{Kind: EventSelectRow, Grid: GridUser})
			Expect(session.Snapshot().UI.SelectedRows.UserGrid).To(BeNil())
		})

		It("should reject a row that is not on screen", func() {
			err := engine.Dispatch(ctx, session, Event{Kind: EventSelectRow, Grid: GridUser, RowID: rowID(99)})
			Expect(errors.Is(err, ErrUnknownRow)).To(BeTrue())
		})

		It("should dismiss the outcome alert", func() {
			dispatch(Event{Kind: EventClickButton, Button: ButtonAddAccessUser})
			Expect(session.Snapshot().Grids.Outcome).NotTo(BeNil())

			dispatch(Event{Kind: EventDismissAlert})
			Expect(session.Snapshot().Grids.Outcome).To(BeNil())
		})

		It("should serialize concurrent commands on one session", func() {
			var wg sync.WaitGroup
			for i := 0; i < 8; i++ {
				wg.Add(1)
				go func() {
					defer wg.Done()
					defer GinkgoRecover()
					Expect(engine.Dispatch(ctx, session, Event{Kind: EventClickButton, Button: ButtonAddAccessUser})).To(Succeed())
				}()
			}
			wg.Wait()

			Expect(grids.names()).To(HaveLen(9))
			Expect(atomic.LoadInt32(&grids.maxInflight)).To(Equal(int32(1)))
		})
	})

	Describe("ParseForm", func() {
		It("should parse a row selection", func() {
			e, err := ParseForm(map[string][]string{"kind": {"select_row"}, "grid": {"team"}, "row_id": {"7"}})
			Expect(err).NotTo(HaveOccurred())
			Expect(e.Grid).To(Equal(GridTeam))
			Expect(*e.RowID).To(Equal(int64(7)))
		})

		It("should reject a missing kind or a malformed row id", func() {
			_, err := ParseForm(map[string][]string{})
			Expect(errors.Is(err, ErrInvalidEvent)).To(BeTrue())

			_, err = ParseForm(map[string][]string{"kind": {"select_row"}, "row_id": {"x"}})
			Expect(errors.Is(err, ErrInvalidEvent)).To(BeTrue())
		})
	})
})
