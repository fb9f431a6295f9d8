package report_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"time"

	"github.com/frahmantamala/accessmodel-admin/internal"
	"github.com/frahmantamala/accessmodel-admin/internal/navigation"
	"github.com/frahmantamala/accessmodel-admin/internal/report"
	"github.com/frahmantamala/accessmodel-admin/internal/warehouse"
	"github.com/jmoiron/sqlx"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type recordingGateway struct {
	statements []warehouse.Statement
	table      *warehouse.Table
	err        error
}

func (g *recordingGateway) Query(ctx context.Context, stmt warehouse.Statement) (*warehouse.Table, error) {
	g.statements = append(g.statements, stmt)
	if g.err != nil {
		return nil, g.err
	}
	return g.table, nil
}

func (g *recordingGateway) Exec(ctx context.Context, stmt warehouse.Statement) (int64, error) {
	g.statements = append(g.statements, stmt)
	return 0, g.err
}

func (g *recordingGateway) Ping(ctx context.Context) error { return nil }

const reportFixtures = `
CREATE TABLE dimreportuser (UserKey INTEGER, EmployeeNumber TEXT, internalemailaddress TEXT, fullname TEXT);
CREATE TABLE teamgrouping (TeamGroupingKey INTEGER, TeamName TEXT, Office TEXT, City TEXT);
CREATE TABLE bridgeuserteam (UserKey INTEGER, TeamGroupingKey INTEGER);
INSERT INTO dimreportuser VALUES (1, 'E001', 'a@x.com', 'Ada'), (2, 'E002', 'b@x.com', 'Bob');
INSERT INTO teamgrouping VALUES (10, 'Rates', 'London', 'London'), (20, 'Credit', 'Toronto', 'Toronto');
INSERT INTO bridgeuserteam VALUES (1, 10), (1, 20), (2, 20);
`

func newSQLiteGateway() warehouse.Gateway {
	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	Expect(err).NotTo(HaveOccurred())
	sqlDB, err := gdb.DB()
	Expect(err).NotTo(HaveOccurred())
	sqlDB.SetMaxOpenConns(1)

	db := sqlx.NewDb(sqlDB, "sqlite3")
	_, err = db.Exec(reportFixtures)
	Expect(err).NotTo(HaveOccurred())

	return warehouse.NewSQLGateway(db, time.Second, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

var _ = Describe("Service", func() {
	var (
		ctx     context.Context
		slogger *slog.Logger
	)

	BeforeEach(func() {
		ctx = context.Background()
		slogger = slog.New(slog.NewTextHandler(io.Discard, nil))
	})

	Context("with a warehouse holding two users", func() {
		var service *report.Service

		BeforeEach(func() {
			service = report.NewService(report.NewResolver(""), newSQLiteGateway(), slogger)
		})

		It("should show only the caller's team permissions", func() {
			view := service.Render(ctx, navigation.TabMyPermissions, "a@x.com")
			Expect(view.HasGrid()).To(BeTrue())
			Expect(view.Rows).To(HaveLen(2))
			for _, row := range view.Rows {
				Expect(row.String("Email")).To(Equal("a@x.com"))
			}

			teams := []string{view.Rows[0].String("TeamName"), view.Rows[1].String("TeamName")}
			Expect(teams).To(ConsistOf("Rates", "Credit"))
		})

		It("should take the columns from the result", func() {
			view := service.Render(ctx, navigation.TabReport, "")
			Expect(view.Rows).To(HaveLen(2))

			fields := make([]string, len(view.Columns))
			for i, c := range view.Columns {
				fields[i] = c.Field
			}
			Expect(fields).To(Equal([]string{"UserKey", "EmployeeNumber", "EmailAddress", "Name"}))
		})

		It("should render an empty grid for an unknown caller", func() {
			view := service.Render(ctx, navigation.TabMyPermissions, "nobody@x.com")
			Expect(view.HasGrid()).To(BeTrue())
			Expect(view.Rows).To(BeEmpty())
		})
	})

	It("should not query at all without identity on the personal tab", func() {
		gateway := &recordingGateway{table: warehouse.EmptyTable()}
		service := report.NewService(report.NewResolver(""), gateway, slogger)

		view := service.Render(ctx, navigation.TabMyPermissions, "")
		Expect(gateway.statements).To(BeEmpty())
		Expect(view.Rows).To(BeEmpty())
		Expect(view.Message).To(Equal(report.NoIdentityMessage))
	})

	It("should render query failures inline", func() {
		gateway := &recordingGateway{err: internal.NewQueryError("report_users", errors.New("warehouse is stopped"))}
		service := report.NewService(report.NewResolver(""), gateway, slogger)

		view := service.Render(ctx, navigation.TabReport, "a@x.com")
		Expect(view.HasGrid()).To(BeFalse())
		Expect(view.Message).To(Equal("An error occurred: warehouse is stopped"))
		Expect(view.Rows).To(BeEmpty())
	})

	It("should explain unknown tabs instead of querying", func() {
		gateway := &recordingGateway{table: warehouse.EmptyTable()}
		service := report.NewService(report.NewResolver(""), gateway, slogger)

		view := service.Render(ctx, "tab9", "")
		Expect(view.Message).To(Equal("No data available."))
		Expect(gateway.statements).To(BeEmpty())
	})
})
