package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"strings"

	"nova/internal/config"
	"nova/internal/domain/models"
	"nova/internal/repository/postgres"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
)

// cleanConfirmation is the exact phrase the operator must type before the
// database is wiped.
const cleanConfirmation = "CLEAN DATABASE"

func main() {
	setupSchema := flag.Bool("setup-schema", false, "Create all tables for the configured environment")
	cleanDatabase := flag.Bool("clean-database", false, "Drop and recreate all tables (requires typed confirmation)")
	createAdmin := flag.Bool("create-super-admin", false, "Create a super admin user (use with -email, -name, -password)")
	listAdmins := flag.Bool("list-super-admins", false, "List all super admin users")
	removeAdmin := flag.String("remove-super-admin", "", "Delete the super admin with the given user ID")
	email := flag.String("email", "", "Email for -create-super-admin")
	name := flag.String("name", "", "Full name for -create-super-admin")
	password := flag.String("password", "", "Password for -create-super-admin")
	flag.Parse()

	_ = godotenv.Load()
	cfg := config.Load()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	ctx := context.Background()
	pool, err := postgres.CreateConnectionPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer pool.Close()

	tables := postgres.NewTableNames(cfg.TablePrefix)
	repoConfig := &postgres.RepositoryConfig{
		Pool:   pool,
		Tables: tables,
		Logger: logger,
	}
	userRepo := postgres.NewUserRepository(repoConfig)

	switch {
	case *setupSchema:
		if err := postgres.SetupSchema(ctx, pool, tables); err != nil {
			log.Fatalf("Failed to set up schema: %v", err)
		}
		log.Printf("Schema ready (environment: %s, prefix: %q)", cfg.Environment, cfg.TablePrefix)

	case *cleanDatabase:
		if cfg.Environment == "prod" {
			log.Fatal("BLOCKED: -clean-database is not allowed in the production environment")
		}
		fmt.Printf("This drops every table with prefix %q and recreates them empty.\n", cfg.TablePrefix)
		fmt.Printf("Type %q to continue: ", cleanConfirmation)
		reader := bufio.NewReader(os.Stdin)
		line, _ := reader.ReadString('\n')
		if strings.TrimSpace(line) != cleanConfirmation {
			log.Fatal("Confirmation did not match, aborting")
		}
		if err := postgres.DropSchema(ctx, pool, tables); err != nil {
			log.Fatalf("Failed to drop tables: %v", err)
		}
		if err := postgres.SetupSchema(ctx, pool, tables); err != nil {
			log.Fatalf("Failed to recreate schema: %v", err)
		}
		log.Printf("Database cleaned (environment: %s, prefix: %q)", cfg.Environment, cfg.TablePrefix)

	case *createAdmin:
		if *email == "" || *password == "" {
			log.Fatal("-create-super-admin requires -email and -password")
		}
		normalized := strings.ToLower(strings.TrimSpace(*email))
		if existing, err := userRepo.GetByEmail(ctx, normalized); err == nil {
			log.Fatalf("A user with email %s already exists (%s, role %s)", existing.Email, existing.ID, existing.Role)
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(*password), bcrypt.DefaultCost)
		if err != nil {
			log.Fatalf("Failed to hash password: %v", err)
		}
		first, last := splitName(*name)
		user := &models.User{
			ID:           uuid.NewString(),
			Email:        normalized,
			PasswordHash: string(hash),
			Firstname:    first,
			Lastname:     last,
			Role:         models.RoleSuperAdmin,
		}
		if err := userRepo.Create(ctx, user); err != nil {
			log.Fatalf("Failed to create super admin: %v", err)
		}
		log.Printf("Super admin created: %s (%s)", user.Email, user.ID)

	case *listAdmins:
		admins, err := userRepo.ListByRole(ctx, models.RoleSuperAdmin)
		if err != nil {
			log.Fatalf("Failed to list super admins: %v", err)
		}
		if len(admins) == 0 {
			fmt.Println("No super admins found")
			return
		}
		for _, admin := range admins {
			fmt.Printf("%s  %s  %s %s\n", admin.ID, admin.Email, admin.Firstname, admin.Lastname)
		}

	case *removeAdmin != "":
		user, err := userRepo.GetByID(ctx, *removeAdmin)
		if err != nil {
			log.Fatalf("Failed to load user: %v", err)
		}
		if user.Role != models.RoleSuperAdmin {
			log.Fatalf("User %s is not a super admin", user.Email)
		}
		if err := userRepo.Delete(ctx, user.ID); err != nil {
			log.Fatalf("Failed to delete user: %v", err)
		}
		log.Printf("Super admin removed: %s", user.Email)

	default:
		flag.Usage()
		os.Exit(2)
	}
}

func splitName(full string) (string, string) {
	full = strings.TrimSpace(full)
	if full == "" {
		return "", ""
	}
	parts := strings.SplitN(full, " ", 2)
	if len(parts) == 1 {
		return parts[0], ""
	}
	return parts[0], parts[1]
}
