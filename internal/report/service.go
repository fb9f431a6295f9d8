package report

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/frahmantamala/accessmodel-admin/internal/grid"
	"github.com/frahmantamala/accessmodel-admin/internal/navigation"
	"github.com/frahmantamala/accessmodel-admin/internal/warehouse"
)

const NoIdentityMessage = "Email not found: sign in through the identity provider to see your team permissions."

// View is what the tables route shows for one tab: either a grid or an inline message
// replacing it.
type View struct {
	Tab     navigation.Tab   `json:"tab"`
	Columns []grid.ColumnDef `json:"columns"`
	Rows    []warehouse.Row  `json:"rows"`
	Message string           `json:"message,omitempty"`
}

func (v View) HasGrid() bool {
	return v.Message == ""
}

type Service struct {
	resolver *Resolver
	gateway  warehouse.Gateway
	logger   *slog.Logger
}

func NewService(resolver *Resolver, gateway warehouse.Gateway, logger *slog.Logger) *Service {
	return &Service{
		resolver: resolver,
		gateway:  gateway,
		logger:   logger,
	}
}

// Render resolves and runs the tab's query. Failures are rendered inline and never
// returned.
func (s *Service) Render(ctx context.Context, tab navigation.Tab, email string) View {
	view := View{Tab: tab, Columns: []grid.ColumnDef{}, Rows: []warehouse.Row{}}

	stmt, err := s.resolver.ResolveQuery(tab, email)
	if err != nil {
		if errors.Is(err, ErrNoIdentity) {
			s.logger.Warn("personal report requested without identity", "tab", tab)
			view.Message = NoIdentityMessage
			return view
		}
		s.logger.Warn("report tab not resolvable", "tab", tab, "error", err)
		view.Message = "No data available."
		return view
	}

	table, err := s.gateway.Query(ctx, stmt)
	if err != nil {
		s.logger.Error("failed to render report", "tab", tab, "statement", stmt.Name, "error", err)
		view.Message = fmt.Sprintf("An error occurred: %v", cause(err))
		return view
	}

	view.Columns = grid.ColumnsFor(table.Columns)
	view.Rows = table.Rows
	s.logger.Info("rendered report", "tab", tab, "rows", table.Len())
	return view
}

// cause strips the query error envelope so the inline message shows the warehouse text.
func cause(err error) error {
	if inner := errors.Unwrap(err); inner != nil {
		return inner
	}
	return err
}
