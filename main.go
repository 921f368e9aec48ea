package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/rpupo63/portfolio-cms-backend/api"
	"github.com/rpupo63/portfolio-cms-backend/config"
	"github.com/rpupo63/portfolio-cms-backend/database"
	"github.com/rpupo63/portfolio-cms-backend/models"
)

var (
	envFile    string
	genOutPath string
)

var rootCmd = &cobra.Command{
	Use:   "portfolio-cms",
	Short: "Portfolio content backend",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		// Load environment variables from .env file
		if err := godotenv.Load(envFile); err != nil {
			fmt.Printf("Warning: Error loading %s file: %v\n", envFile, err)
		}
		setupLogging(config.New())
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return serve()
	},
	SilenceUsage: true,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return serve()
	},
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update every table",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := connect()
		if err != nil {
			return err
		}
		if err := models.Migrate(db); err != nil {
			return err
		}
		log.Info().Msg("Migration finished")
		return nil
	},
}

var generateModelsCmd = &cobra.Command{
	Use:   "generate-models",
	Short: "Migrate and generate gorm/gen query helpers",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := connect()
		if err != nil {
			return err
		}
		fmt.Println("Generating models and query helpers...")
		return models.GenerateModels(db, genOutPath)
	},
}

var columnReportCmd = &cobra.Command{
	Use:   "column-report",
	Short: "Compare table columns with the model fields",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := connect()
		if err != nil {
			return err
		}
		fmt.Println("Generating column mismatch report...")
		return models.GenerateColumnMismatchReport(db, os.Stdout)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "dotenv file to load")
	generateModelsCmd.Flags().StringVar(&genOutPath, "out", "./query", "output directory for generated code")

	rootCmd.AddCommand(serveCmd, migrateCmd, generateModelsCmd, columnReportCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func setupLogging(c map[string]string) {
	zerolog.TimeFieldFormat = time.RFC3339
	level, err := zerolog.ParseLevel(config.GetString(c, "LOG_LEVEL", "info"))
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
	if config.GetBool(c, "LOG_PRETTY", false) {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}
}

func connect() (*gorm.DB, error) {
	c := config.New()
	fmt.Printf("DB_TYPE: %s\n", config.GetString(c, "DB_TYPE", ""))

	db, err := database.Open(c)
	if err != nil {
		return nil, fmt.Errorf("error connecting to database: %w", err)
	}
	// Test database connection
	if err := database.New(db).Ping(); err != nil {
		return nil, fmt.Errorf("error testing database connection: %w", err)
	}
	return db, nil
}

func serve() error {
	fmt.Println("Initializing app...")
	c := config.New()

	db, err := connect()
	if err != nil {
		return err
	}
	if config.GetBool(c, "AUTO_MIGRATE", false) {
		if err := models.Migrate(db); err != nil {
			return err
		}
	}

	server, err := api.NewServer(context.Background(), database.New(db), c)
	if err != nil {
		return fmt.Errorf("error initializing server: %w", err)
	}

	errChannel := make(chan error, 2)

	go server.Start(errChannel)

	// Listen for interrupt signals to gracefully shutdown the server
	go listenToInterrupt(errChannel)

	fatalErr := <-errChannel
	fmt.Printf("Closing server: %v\n", fatalErr)

	server.ShutdownGracefully(30 * time.Second)
	return nil
}

// listenToInterrupt waits for SIGINT or SIGTERM and then sends an error to the error channel.
func listenToInterrupt(errChannel chan<- error) {
	c := make(chan os.Signal, 1)
	signal.Notify(c, syscall.SIGINT, syscall.SIGTERM)
	errChannel <- fmt.Errorf("%s", <-c)
}
