package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/frahmantamala/accessmodel-admin/internal"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	clearData bool
)

var rootCmd = &cobra.Command{
	Use:   "accessmodel-admin",
	Short: "Access Model admin dashboard",
	Long:  `Inspect the access model reporting tables and manage manager/worker and worker/team permissions.`,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

// loadConfig reads config.yml from path, or plain environment variables when running in
// production or a container. The result has defaults applied and has been validated.
func loadConfig(path string) (*internal.Config, error) {
	if os.Getenv("APP_ENV") == "production" || os.Getenv("DOCKER_ENV") == "true" {
		cfg := internal.LoadConfigFromEnv()
		cfg.ApplyDefaults()
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
		return cfg, nil
	}

	v := viper.New()
	v.AddConfigPath(path)
	v.SetConfigName("config")
	v.SetConfigType("yml")
	v.SetEnvPrefix("ENV")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config: %w", err)
	}

	var cfg internal.Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	// The warehouse id keeps its deployment name even in file mode.
	if id := os.Getenv("DATABRICKS_WAREHOUSE_ID"); id != "" {
		cfg.Warehouse.WarehouseID = id
	}

	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// mustLoadConfig stops the process on any configuration problem.
func mustLoadConfig() *internal.Config {
	cfg, err := loadConfig(".")
	if err != nil {
		if internal.IsStartupConfigError(err) {
			fmt.Fprintf(os.Stderr, "startup configuration error: %v\n", err)
		} else {
			fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		}
		os.Exit(1)
	}
	return cfg
}

func init() {
	seedCmd.Flags().BoolVar(&clearData, "clear", false, "Clear existing data before seeding")

	rootCmd.AddCommand(httpServerCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(seedCmd)
}
