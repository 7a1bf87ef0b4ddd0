package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"portfolio/internal/auth"
	"portfolio/internal/config"
	"portfolio/internal/domain"
	"portfolio/internal/domain/models"
	"portfolio/internal/metrics"
	"portfolio/internal/repository/postgres"
	"portfolio/internal/repository/workspacedb"
	"portfolio/internal/service"
	"portfolio/internal/service/content"
	"portfolio/internal/workspace"
	"portfolio/internal/workspace/backend"
)

func main() {
	email := flag.String("email", "demo@example.com", "Email of the demo user")
	password := flag.String("password", "demo-password", "Password of the demo user")
	fullName := flag.String("name", "Demo User", "Full name of the demo user")
	skipContent := flag.Bool("skip-content", false, "Create case studies without page content")
	force := flag.Bool("force", false, "Allow seeding in the prod environment")
	dropTables := flag.Bool("drop-tables", false, "Drop the postgres store tables before seeding (fresh start)")
	flag.Parse()

	_ = godotenv.Load()

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	// SAFETY: demo data has no place in production unless asked for
	if cfg.Environment == "prod" && !*force {
		log.Fatalf("🚫 BLOCKED: refusing to seed demo data in prod (use --force)")
	}
	if cfg.StoreBackend == config.StoreMemory {
		log.Fatalf("🚫 STORE_BACKEND=memory keeps nothing after exit; seed notion or postgres instead")
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	log.Printf("🌱 Seeding workspace (environment: %s, store: %s)", cfg.Environment, cfg.StoreBackend)

	ctx := context.Background()
	if *dropTables {
		if cfg.StoreBackend != config.StorePostgres {
			log.Fatalf("🚫 --drop-tables only applies to STORE_BACKEND=postgres")
		}
		log.Println("🗑️  Dropping store tables...")
		if err := dropStoreTables(ctx, cfg); err != nil {
			log.Fatalf("Failed to drop tables: %v", err)
		}
		log.Println("✅ Tables dropped")
	}

	store, closeStore, err := backend.Open(ctx, cfg, metrics.New(prometheus.NewRegistry()), logger)
	if err != nil {
		log.Fatalf("Failed to open workspace store: %v", err)
	}
	defer closeStore()

	schema, err := workspacedb.LoadSchema(cfg.SchemaFile)
	if err != nil {
		log.Fatalf("Failed to load workspace schema: %v", err)
	}

	repoConfig := &workspacedb.RepositoryConfig{
		Store:                 store,
		Schema:                schema,
		UsersDatabaseID:       cfg.UsersDatabaseID,
		CaseStudiesDatabaseID: cfg.CaseStudiesDatabaseID,
		PageSize:              cfg.BlockPageSize,
		Logger:                logger,
	}
	userRepo := workspacedb.NewUserRepository(repoConfig)
	caseStudyRepo := workspacedb.NewCaseStudyRepository(repoConfig)
	translator := content.NewTranslator(workspacedb.NewBlockRepository(repoConfig), content.Limits{}, nil, logger)

	tokens, err := auth.NewLocalJWT(cfg.JWTSecret, cfg.TokenTTL, logger)
	if err != nil {
		log.Fatalf("Failed to create token issuer: %v", err)
	}
	authService := service.NewAuthService(userRepo, tokens, logger)
	caseStudyService := service.NewCaseStudyService(caseStudyRepo, translator, logger)

	// Demo user
	_, err = authService.Register(ctx, &models.RegisterRequest{
		Email:    *email,
		Password: *password,
		FullName: *fullName,
	})
	switch {
	case err == nil:
		log.Printf("✅ Created demo user %s", *email)
	case errors.Is(err, domain.ErrValidation):
		log.Printf("ℹ️  Demo user not created: %v", err)
	default:
		log.Fatalf("Failed to create demo user: %v", err)
	}

	// Case studies
	studies := seedCaseStudies()
	for i, s := range studies {
		cs, err := caseStudyService.CreateCaseStudy(ctx, &s.request)
		if err != nil {
			log.Printf("❌ Failed to create case study '%s': %v", s.request.Name, err)
			continue
		}
		log.Printf("✅ Created case study %d/%d: %s (ID: %s, status: %s)",
			i+1, len(studies), cs.Name, cs.ID, cs.Status)

		if *skipContent || len(s.content) == 0 {
			continue
		}
		n, err := appendBlocks(ctx, store, cs.ID, s.content)
		if err != nil {
			log.Printf("❌ Failed to add content to '%s': %v", cs.Name, err)
			continue
		}
		log.Printf("   📝 Added %d blocks", n)
	}

	log.Println("🎉 Seeding complete!")
}

// dropStoreTables clears the postgres store; backend.Open migrates it again.
func dropStoreTables(ctx context.Context, cfg *config.Config) error {
	pool, err := postgres.CreateConnectionPool(ctx, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer pool.Close()
	return postgres.DropTables(ctx, pool, postgres.NewTableNames(cfg.TablePrefix))
}

// appendBlocks writes blocks under parentID, then their children under
// each created block. Returns the number of blocks written.
func appendBlocks(ctx context.Context, store workspace.Store, parentID string, blocks []seedBlock) (int, error) {
	inputs := make([]workspace.BlockInput, 0, len(blocks))
	for _, b := range blocks {
		in, err := workspace.NewBlockInput(string(b.blockType), b.payload)
		if err != nil {
			return 0, err
		}
		inputs = append(inputs, in)
	}

	created, err := store.AppendBlockChildren(ctx, parentID, inputs)
	if err != nil {
		return 0, err
	}

	total := len(created)
	for i, b := range blocks {
		if len(b.children) == 0 || i >= len(created) {
			continue
		}
		n, err := appendBlocks(ctx, store, created[i].ID, b.children)
		if err != nil {
			return total, err
		}
		total += n
	}
	return total, nil
}
