package permission

import (
	"context"
	"log/slog"
	"strings"

	"github.com/frahmantamala/accessmodel-admin/internal"
	"github.com/frahmantamala/accessmodel-admin/internal/core/events"
	"github.com/frahmantamala/accessmodel-admin/internal/warehouse"
	"github.com/frahmantamala/accessmodel-admin/pkg/metrics"
)

type RepositoryAPI interface {
	List(ctx context.Context, table Table) ([]warehouse.Row, error)
	InsertManagerWorker(ctx context.Context, manager, worker string) error
	InsertWorkerTeam(ctx context.Context, worker, team string) error
	Delete(ctx context.Context, table Table, id int64) error
}

type Publisher interface {
	Publish(ctx context.Context, event events.Event) error
}

// Synchronizer keeps both permission grids equal to the warehouse. Every write is
// followed by a full re-read of the table it touched.
type Synchronizer struct {
	repo      RepositoryAPI
	publisher Publisher
	logger    *slog.Logger
}

func NewSynchronizer(repo RepositoryAPI, publisher Publisher, logger *slog.Logger) *Synchronizer {
	return &Synchronizer{
		repo:      repo,
		publisher: publisher,
		logger:    logger,
	}
}

// Apply runs cmd against state and returns the next state. It never fails: problems
// become the outcome alert. The grid a command does not touch is passed through as is.
func (s *Synchronizer) Apply(ctx context.Context, state GridState, cmd Command) GridState {
	var next GridState

	switch c := cmd.(type) {
	case InitialLoad:
		next = s.initialLoad(ctx, state)
	case AddManagerWorker:
		next = s.addManagerWorker(ctx, state, c)
	case DeletePermission:
		next = s.delete(ctx, state, TableManagerWorker, c.Selected)
	case AddWorkerTeam:
		next = s.addWorkerTeam(ctx, state, c)
	case DeleteTeamPermission:
		next = s.delete(ctx, state, TableWorkerTeam, c.Selected)
	default:
		return state
	}

	severity := ""
	if next.Outcome != nil {
		severity = string(next.Outcome.Severity)
	}
	metrics.ObserveCommand(cmd.Name(), severity)
	s.logger.Info("grid command applied", "command", cmd.Name(), "severity", severity)
	return next
}

func (s *Synchronizer) initialLoad(ctx context.Context, state GridState) GridState {
	users, err := s.repo.List(ctx, TableManagerWorker)
	if err != nil {
		return s.loadFailed(err)
	}
	teams, err := s.repo.List(ctx, TableWorkerTeam)
	if err != nil {
		return s.loadFailed(err)
	}
	return GridState{UserRows: users, TeamRows: teams}
}

func (s *Synchronizer) loadFailed(err error) GridState {
	s.logger.Error("failed to load permission grids", "error", err)
	next := EmptyGridState()
	next.Outcome = danger("An error occurred while loading data", err)
	return next
}

func (s *Synchronizer) addManagerWorker(ctx context.Context, state GridState, c AddManagerWorker) GridState {
	manager, worker := strings.TrimSpace(c.Manager), strings.TrimSpace(c.Worker)
	if manager == "" || worker == "" {
		state.Outcome = warning(internal.ErrManagerWorkerRequired)
		return state
	}

	if err := s.repo.InsertManagerWorker(ctx, manager, worker); err != nil {
		s.logger.Error("failed to add manager worker permission", "error", err)
		state.Outcome = danger("An error occurred while adding the user", err)
		return state
	}

	rows, err := s.repo.List(ctx, TableManagerWorker)
	if err != nil {
		s.logger.Error("failed to re-read manager worker permissions", "error", err)
		state.Outcome = danger("An error occurred while adding the user", err)
		return state
	}

	s.publish(ctx, events.NewPermissionAdded(string(TableManagerWorker), map[string]interface{}{
		"manager_name": manager,
		"worker_name":  worker,
	}))
	state.UserRows = rows
	state.Outcome = success("User added successfully.")
	return state
}

func (s *Synchronizer) addWorkerTeam(ctx context.Context, state GridState, c AddWorkerTeam) GridState {
	worker, team := strings.TrimSpace(c.Worker), strings.TrimSpace(c.Team)
	if worker == "" || team == "" {
		state.Outcome = warning(internal.ErrWorkerTeamRequired)
		return state
	}

	if err := s.repo.InsertWorkerTeam(ctx, worker, team); err != nil {
		s.logger.Error("failed to add worker team permission", "error", err)
		state.Outcome = danger("An error occurred while adding the team permission", err)
		return state
	}

	rows, err := s.repo.List(ctx, TableWorkerTeam)
	if err != nil {
		s.logger.Error("failed to re-read worker team permissions", "error", err)
		state.Outcome = danger("An error occurred while adding the team permission", err)
		return state
	}

	s.publish(ctx, events.NewPermissionAdded(string(TableWorkerTeam), map[string]interface{}{
		"worker_name": worker,
		"team_name":   team,
	}))
	state.TeamRows = rows
	state.Outcome = success("Team permission added successfully.")
	return state
}

func (s *Synchronizer) delete(ctx context.Context, state GridState, table Table, selected warehouse.Row) GridState {
	id, ok := RowID(selected)
	if !ok {
		state.Outcome = warning(internal.ErrNoRowSelected)
		return state
	}

	if err := s.repo.Delete(ctx, table, id); err != nil {
		s.logger.Error("failed to delete permission", "table", table, "id", id, "error", err)
		state.Outcome = danger("An error occurred while deleting the row", err)
		return state
	}

	rows, err := s.repo.List(ctx, table)
	if err != nil {
		s.logger.Error("failed to re-read permissions after delete", "table", table, "error", err)
		state.Outcome = danger("An error occurred while deleting the row", err)
		return state
	}

	s.publish(ctx, events.NewPermissionDeleted(string(table), id))
	if table == TableManagerWorker {
		state.UserRows = rows
	} else {
		state.TeamRows = rows
	}
	state.Outcome = success("Row with ID %d deleted successfully.", id)
	return state
}

func (s *Synchronizer) publish(ctx context.Context, event events.Event) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.Warn("failed to publish permission event", "event_type", event.EventType(), "error", err)
	}
}
