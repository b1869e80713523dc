package main

import (
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"realestatecrm/internal/attachments"
	"realestatecrm/internal/config"
	"realestatecrm/internal/database"
	"realestatecrm/internal/logging"
	"realestatecrm/internal/models"
	"realestatecrm/internal/repositories"
	"realestatecrm/internal/services"
	"realestatecrm/pkg/rabbitmq"

	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

// env is what every database-backed command needs.
type env struct {
	cfg *config.Config
	log logging.Logger
	db  *gorm.DB
}

func openEnv() (*env, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	log := logging.New(cfg.LogLevel, "text")
	db, err := database.Open(cfg.DBDriver, cfg.DatabaseDSN, log)
	if err != nil {
		return nil, err
	}
	return &env{cfg: cfg, log: log, db: db}, nil
}

func (e *env) close() {
	_ = database.Close(e.db)
}

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the listings, clients and users tables",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := openEnv()
			if err != nil {
				return err
			}
			defer e.close()

			if err := database.Migrate(e.db); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Schema is up to date (%s).\n", e.cfg.DBDriver)
			return nil
		},
	}
}

func createUserCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create-user",
		Short: "Register a user account",
		RunE: func(cmd *cobra.Command, args []string) error {
			email, _ := cmd.Flags().GetString("email")
			password, _ := cmd.Flags().GetString("password")
			name, _ := cmd.Flags().GetString("name")
			roleLabel, _ := cmd.Flags().GetString("role")

			role, err := models.ParseRole(roleLabel)
			if err != nil {
				return err
			}

			e, err := openEnv()
			if err != nil {
				return err
			}
			defer e.close()
			if err := database.Migrate(e.db); err != nil {
				return err
			}

			auth := services.NewAuthService(repositories.NewGORMUserRepository(e.db), nil, nil, e.log, services.AuthOptions{
				JWTSecret:  e.cfg.JWTSecret,
				TokenTTL:   e.cfg.TokenTTL,
				BcryptCost: e.cfg.BcryptCost,
			})
			user, err := auth.RegisterUser(cmd.Context(), models.RegisterInput{
				Email:    email,
				Password: password,
				FullName: name,
				Role:     role,
			})
			if err != nil {
				return fmt.Errorf("failed to create user: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created %s %s (%s)\n", user.Role, user.Email, user.ID)
			return nil
		},
	}
	cmd.Flags().String("email", "", "login email")
	cmd.Flags().String("password", "", "initial password")
	cmd.Flags().String("name", "", "full name")
	cmd.Flags().String("role", string(models.RoleWorker), "Worker, Admin or CEO")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

func pruneUploadsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "prune-uploads",
		Short: "Delete stored files no listing or avatar references",
		RunE: func(cmd *cobra.Command, args []string) error {
			dryRun, _ := cmd.Flags().GetBool("dry-run")

			e, err := openEnv()
			if err != nil {
				return err
			}
			defer e.close()

			ctx := cmd.Context()
			store, err := attachments.OpenStore(ctx, e.cfg)
			if err != nil {
				return err
			}
			listings := repositories.NewGORMListingRepository(e.db)
			files := attachments.NewManager(store, listings, e.log)

			orphans, err := services.PruneUploads(ctx, listings, repositories.NewGORMUserRepository(e.db), files, dryRun)
			if err != nil {
				return err
			}

			if len(orphans) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No orphaned uploads.")
				return nil
			}
			verb := "Deleted"
			if dryRun {
				verb = "Would delete"
			}
			for _, ref := range orphans {
				fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", verb, ref)
			}
			return nil
		},
	}
	cmd.Flags().Bool("dry-run", false, "only list orphaned files")
	return cmd
}

func eventsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "events",
		Short: "Print CRM domain events from RabbitMQ until interrupted",
		RunE: func(cmd *cobra.Command, args []string) error {
			queue, _ := cmd.Flags().GetString("queue")

			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if cfg.RabbitMQURL == "" {
				return fmt.Errorf("RABBITMQ_URL is not set")
			}

			mq, err := rabbitmq.NewClient(rabbitmq.Config{URL: cfg.RabbitMQURL, Queue: queue})
			if err != nil {
				return err
			}
			defer mq.Close()

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			out := cmd.OutOrStdout()
			return mq.ConsumeEvents(ctx, func(evt rabbitmq.Event) error {
				_, err := fmt.Fprintf(out, "%s %-24s %s\n", evt.OccurredAt.Format(time.RFC3339), evt.Type, evt.Data)
				return err
			})
		},
	}
	cmd.Flags().String("queue", rabbitmq.DefaultQueue, "queue to consume")
	return cmd
}
