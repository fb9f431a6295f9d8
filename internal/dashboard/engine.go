package dashboard

import (
	"context"
	"log/slog"

	"github.com/frahmantamala/accessmodel-admin/internal"
	"github.com/frahmantamala/accessmodel-admin/internal/dropdown"
	"github.com/frahmantamala/accessmodel-admin/internal/navigation"
	"github.com/frahmantamala/accessmodel-admin/internal/permission"
	"github.com/frahmantamala/accessmodel-admin/internal/report"
)

type ReportRenderer interface {
	Render(ctx context.Context, tab navigation.Tab, email string) report.View
}

type OptionsProvider interface {
	Populate(ctx context.Context) dropdown.Options
}

type GridApplier interface {
	Apply(ctx context.Context, state permission.GridState, cmd permission.Command) permission.GridState
}

// Engine drives sessions: it resolves events, runs the navigation effects and hands
// grid commands to the synchronizer.
type Engine struct {
	reports ReportRenderer
	options OptionsProvider
	grids   GridApplier
	logger  *slog.Logger
}

func NewEngine(reports ReportRenderer, options OptionsProvider, grids GridApplier, logger *slog.Logger) *Engine {
	return &Engine{
		reports: reports,
		options: options,
		grids:   grids,
		logger:  logger,
	}
}

// Mount is a fresh page load of the session's current route.
func (e *Engine) Mount(ctx context.Context, s *Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e.mount(ctx, s)
}

// EnsureMounted mounts s unless it has been mounted before.
func (e *Engine) EnsureMounted(ctx context.Context, s *Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.mounted {
		e.mount(ctx, s)
	}
}

func (e *Engine) mount(ctx context.Context, s *Session) {
	e.identify(ctx, s)
	_, effects, _ := navigation.Apply(s.ui.Nav, navigation.Mount())
	e.run(ctx, s, effects)
	s.mounted = true
}

// Dispatch applies one event to s. An invalid event leaves s unchanged and returns the
// error; warehouse failures never surface here, they end up in the session's alerts.
func (e *Engine) Dispatch(ctx context.Context, s *Session, ev Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	e.identify(ctx, s)
	t, err := Resolve(s.ui, s.grids, s.options, ev)
	if err != nil {
		e.logger.Warn("rejected ui event", "session_id", s.ID, "kind", ev.Kind, "error", err)
		return err
	}

	s.ui = t.UI
	e.run(ctx, s, t.Effects)

	if t.DismissAlert {
		s.grids.Outcome = nil
	}
	if t.Command != nil {
		e.apply(ctx, s, t.Command)
	}
	return nil
}

func (e *Engine) apply(ctx context.Context, s *Session, cmd permission.Command) {
	s.grids = e.grids.Apply(ctx, s.grids, cmd)

	if s.grids.Outcome == nil || s.grids.Outcome.Severity != internal.SeveritySuccess {
		return
	}
	switch cmd.(type) {
	case permission.DeletePermission:
		s.ui.SelectedRows.UserGrid = nil
	case permission.DeleteTeamPermission:
		s.ui.SelectedRows.TeamGrid = nil
	}
}

func (e *Engine) run(ctx context.Context, s *Session, effects []navigation.Effect) {
	for _, effect := range effects {
		switch effect {
		case navigation.EffectPopulateDropdowns:
			s.options = e.options.Populate(ctx)
		case navigation.EffectLoadGrids:
			s.grids = e.grids.Apply(ctx, s.grids, permission.InitialLoad{})
			s.ui.SelectedRows = SelectedRows{}
		case navigation.EffectRenderReport:
			s.report = e.reports.Render(ctx, s.ui.Nav.ActiveTab, s.ui.Email)
		}
		e.logger.Debug("ran navigation effect", "session_id", s.ID, "effect", effect)
	}
}

// identify refreshes the session email from the request. Identity is per request; an
// absent header clears it.
func (e *Engine) identify(ctx context.Context, s *Session) {
	email, _ := internal.EmailFromContext(ctx)
	s.ui.Email = email
}
