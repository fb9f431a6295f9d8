package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/frahmantamala/accessmodel-admin/internal/core/events"
	"github.com/frahmantamala/accessmodel-admin/internal/permission"
	"github.com/frahmantamala/accessmodel-admin/pkg/logger"
	"github.com/spf13/cobra"
)

var eventCmd = &cobra.Command{
	Use:   "event",
	Short: "Permission event tools",
	Long:  `Inspect the permission audit pipeline without touching the warehouse`,
}

var publishEventCmd = &cobra.Command{
	Use:       "publish [added|deleted]",
	Short:     "Publish a sample permission event",
	Long:      `Publish a sample permission event through the audit handler for testing and debugging`,
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{"added", "deleted"},
	Run: func(cmd *cobra.Command, args []string) {
		if err := publishTestEvent(cmd.Context(), args[0]); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
	},
}

var (
	eventTable string
	eventRowID int64
)

func publishTestEvent(ctx context.Context, kind string) error {
	lg := logger.LoggerWrapper()

	bus := events.NewEventBus(lg)
	bus.SubscribeAudit(lg)

	var event events.Event
	switch kind {
	case "added":
		event = events.NewPermissionAdded(eventTable, map[string]interface{}{"source": "cli-command"})
	case "deleted":
		event = events.NewPermissionDeleted(eventTable, eventRowID)
	default:
		return fmt.Errorf("unknown event kind %q, want added or deleted", kind)
	}

	lg.Info("publishing test event", "event_type", event.EventType(), "event_id", event.EventID())
	if ctx == nil {
		ctx = context.Background()
	}
	if err := bus.PublishSync(ctx, event); err != nil {
		return fmt.Errorf("failed to publish event: %w", err)
	}

	lg.Info("test event published successfully")
	return nil
}

func init() {
	publishEventCmd.Flags().StringVar(&eventTable, "table", string(permission.TableManagerWorker), "Permission table the event refers to")
	publishEventCmd.Flags().Int64Var(&eventRowID, "row-id", 1, "Row id for deleted events")

	eventCmd.AddCommand(publishEventCmd)

	rootCmd.AddCommand(eventCmd)
}
