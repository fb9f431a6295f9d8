package dropdown

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/frahmantamala/accessmodel-admin/internal/warehouse"
	"golang.org/x/sync/errgroup"
)

type Option struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

type OptionList []Option

// Contains reports whether value is one of the options.
func (l OptionList) Contains(value string) bool {
	for _, o := range l {
		if o.Value == value {
			return true
		}
	}
	return false
}

// Options feeds the four dropdowns of the add user view. Users populate the manager,
// worker and worker-for-team dropdowns; Teams populates the team dropdown.
type Options struct {
	Users OptionList `json:"users"`
	Teams OptionList `json:"teams"`
}

type Cache struct {
	gateway warehouse.Gateway
	schema  string
	logger  *slog.Logger
}

func NewCache(gateway warehouse.Gateway, reportSchema string, logger *slog.Logger) *Cache {
	return &Cache{
		gateway: gateway,
		schema:  reportSchema,
		logger:  logger,
	}
}

// Populate runs the two distinct-value queries concurrently. A failing query yields an
// empty list for its field; the failure is logged and never returned. Once ctx is done
// the sibling query is cancelled and both lists come back empty.
func (c *Cache) Populate(ctx context.Context) Options {
	var opts Options
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		var err error
		opts.Users, err = c.fetch(gctx, "distinct_user_emails", fmt.Sprintf(
			"SELECT DISTINCT internalemailaddress FROM %s",
			warehouse.Qualify(c.schema, "dimreportuser")), "internalemailaddress")
		return err
	})

	g.Go(func() error {
		var err error
		opts.Teams, err = c.fetch(gctx, "distinct_team_names", fmt.Sprintf(
			"SELECT DISTINCT TeamName FROM %s",
			warehouse.Qualify(c.schema, "teamgrouping")), "TeamName")
		return err
	})

	if err := g.Wait(); err != nil {
		c.logger.Warn("dropdown population abandoned", "error", err)
		return Options{Users: OptionList{}, Teams: OptionList{}}
	}

	c.logger.Info("populated dropdowns", "users", len(opts.Users), "teams", len(opts.Teams))
	return opts
}

// fetch only returns an error when ctx is done; query failures become an empty list.
func (c *Cache) fetch(ctx context.Context, name, sql, column string) (OptionList, error) {
	table, err := c.gateway.Query(ctx, warehouse.NewStatement(name, sql))
	if err != nil {
		if ctx.Err() != nil {
			return OptionList{}, ctx.Err()
		}
		c.logger.Warn("failed to fetch dropdown options", "statement", name, "error", err)
		return OptionList{}, nil
	}

	values, err := table.Strings(column)
	if err != nil {
		c.logger.Warn("dropdown query returned unexpected columns", "statement", name, "error", err)
		return OptionList{}, nil
	}

	list := make(OptionList, 0, len(values))
	for _, v := range values {
		list = append(list, Option{Label: v, Value: v})
	}
	return list, nil
}
