package cmd

import (
	"fmt"
	"log"

	"github.com/frahmantamala/accessmodel-admin/internal/core/datamodel/accessmodel"
	"github.com/frahmantamala/accessmodel-admin/internal/warehouse"
	"github.com/spf13/cobra"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	gormLogger "gorm.io/gorm/logger"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the report dimensions with sample data",
	Long:  `Seed the read-only access model report tables with sample data for development and testing purposes.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg := mustLoadConfig()

		db, err := gorm.Open(postgres.Open(cfg.Warehouse.DSN()), &gorm.Config{
			Logger: gormLogger.Default.LogMode(gormLogger.Warn),
		})
		if err != nil {
			log.Fatalf("failed to init db: %v", err)
		}

		schema := cfg.Warehouse.ReportSchema
		table := func(name string) *gorm.DB {
			return db.Table(warehouse.Qualify(schema, name))
		}

		if clearData {
			for _, name := range []string{"bridgemandateteamaccess", "bridgeuserteam", "teamgrouping", "dimreportuser"} {
				if err := db.Exec(fmt.Sprintf("DELETE FROM %s", warehouse.Qualify(schema, name))).Error; err != nil {
					log.Fatalf("failed to clear %s: %v", name, err)
				}
			}
			fmt.Println("Cleared report tables in", schema)
		}

		users := []accessmodel.DimReportUser{
			{UserKey: 1, EmployeeNumber: "E0001", InternalEmailAddress: "ada.lovelace@example.com", FullName: "Ada Lovelace"},
			{UserKey: 2, EmployeeNumber: "E0002", InternalEmailAddress: "alan.turing@example.com", FullName: "Alan Turing"},
			{UserKey: 3, EmployeeNumber: "E0003", InternalEmailAddress: "grace.hopper@example.com", FullName: "Grace Hopper"},
			{UserKey: 4, EmployeeNumber: "E0004", InternalEmailAddress: "edsger.dijkstra@example.com", FullName: "Edsger Dijkstra"},
		}
		teams := []accessmodel.TeamGrouping{
			{TeamGroupingKey: 10, TeamName: "Rates", Office: "London", City: "London"},
			{TeamGroupingKey: 20, TeamName: "Credit", Office: "Toronto", City: "Toronto"},
			{TeamGroupingKey: 30, TeamName: "Equities", Office: "New York", City: "New York"},
		}
		bridges := []accessmodel.BridgeUserTeam{
			{UserKey: 1, TeamGroupingKey: 10},
			{UserKey: 1, TeamGroupingKey: 20},
			{UserKey: 2, TeamGroupingKey: 20},
			{UserKey: 3, TeamGroupingKey: 30},
			{UserKey: 4, TeamGroupingKey: 10},
		}
		mandates := []accessmodel.BridgeMandateTeamAccess{
			{MandateKey: 100, MandateName: "Global Rates", TeamGroupingKey: 10, AccessLevel: "read"},
			{MandateKey: 101, MandateName: "Credit Trading", TeamGroupingKey: 20, AccessLevel: "write"},
			{MandateKey: 102, MandateName: "Cash Equities", TeamGroupingKey: 30, AccessLevel: "read"},
		}

		seeds := []struct {
			name string
			rows interface{}
		}{
			{"dimreportuser", &users},
			{"teamgrouping", &teams},
			{"bridgeuserteam", &bridges},
			{"bridgemandateteamaccess", &mandates},
		}
		for _, s := range seeds {
			if err := table(s.name).Clauses(clause.OnConflict{DoNothing: true}).Create(s.rows).Error; err != nil {
				log.Fatalf("failed to seed %s: %v", s.name, err)
			}
			fmt.Printf("Seeded %s\n", warehouse.Qualify(schema, s.name))
		}

		fmt.Println("Report tables seeded successfully")
	},
}
