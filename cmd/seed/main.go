package main

import (
	"context"
	"flag"
	"log"
	"log/slog"
	"os"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"

	"doctracker/internal/config"
	directoryModels "doctracker/internal/domain/models/directory"
	docstoreModels "doctracker/internal/domain/models/docstore"
	"doctracker/internal/repository/postgres"
	postgresDirectory "doctracker/internal/repository/postgres/directory"
	postgresDocstore "doctracker/internal/repository/postgres/docstore"
)

func main() {
	// Parse command-line flags
	dropTables := flag.Bool("drop-tables", false, "Drop all tables before seeding (fresh start)")
	schemaOnly := flag.Bool("schema-only", false, "Only set up schema, don't seed demo data")
	clearData := flag.Bool("clear-data", false, "Clear all data (keep schema)")
	flag.Parse()

	// Load .env file
	_ = godotenv.Load()

	// Load configuration
	cfg := config.Load()

	// SAFETY: Prevent destructive operations in production
	if cfg.Environment == "prod" && (*dropTables || *clearData) {
		log.Fatalf("BLOCKED: cannot run destructive operations (--drop-tables or --clear-data) in production environment")
	}

	// Setup logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	log.Printf("Seeding database (environment: %s, prefix: %s)", cfg.Environment, cfg.TablePrefix)

	// Create database connection pool
	ctx := context.Background()
	pool, err := postgres.CreateConnectionPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer pool.Close()

	// Create table names
	tables := postgres.NewTableNames(cfg.TablePrefix)

	// Drop tables if requested
	if *dropTables {
		log.Println("Dropping all tables...")
		if err := dropAllTables(ctx, pool, tables); err != nil {
			log.Fatalf("Failed to drop tables: %v", err)
		}
		log.Println("Tables dropped")
	}

	// Run schema to ensure tables exist
	log.Println("Ensuring database schema is up to date...")
	if err := runSchema(ctx, pool, tables); err != nil {
		log.Fatalf("Failed to run schema: %v", err)
	}
	log.Println("Schema ready")

	if *schemaOnly {
		log.Println("Schema setup complete (schema-only mode)")
		return
	}

	if *clearData {
		log.Println("Clearing existing data...")
		if err := clearAllData(ctx, pool, tables); err != nil {
			log.Fatalf("Failed to clear data: %v", err)
		}
		log.Println("Data cleared")
		return
	}

	// Seed demo org, users, folder tree, files and links
	repoConfig := &postgres.RepositoryConfig{
		Pool:   pool,
		Tables: tables,
		Logger: logger,
	}
	if err := seedDemoData(ctx, repoConfig); err != nil {
		log.Fatalf("Failed to seed demo data: %v", err)
	}
	log.Println("Demo data seeded")
}

// runSchema creates all tables if they do not exist
func runSchema(ctx context.Context, pool *pgxpool.Pool, tables *postgres.TableNames) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS ` + tables.Companies + ` (
			id UUID PRIMARY KEY,
			name TEXT NOT NULL,
			created_at TIMESTAMPTZ DEFAULT NOW(),
			updated_at TIMESTAMPTZ DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS ` + tables.Departments + ` (
			id UUID PRIMARY KEY,
			company_id UUID NOT NULL REFERENCES ` + tables.Companies + `(id) ON DELETE CASCADE,
			name TEXT NOT NULL,
			created_at TIMESTAMPTZ DEFAULT NOW(),
			updated_at TIMESTAMPTZ DEFAULT NOW(),
			UNIQUE(company_id, name)
		)`,
		`CREATE TABLE IF NOT EXISTS ` + tables.Divisions + ` (
			id UUID PRIMARY KEY,
			company_id UUID NOT NULL REFERENCES ` + tables.Companies + `(id) ON DELETE CASCADE,
			department_id UUID REFERENCES ` + tables.Departments + `(id) ON DELETE CASCADE,
			name TEXT NOT NULL,
			created_at TIMESTAMPTZ DEFAULT NOW(),
			updated_at TIMESTAMPTZ DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS ` + tables.Users + ` (
			id UUID PRIMARY KEY,
			company_id UUID NOT NULL REFERENCES ` + tables.Companies + `(id) ON DELETE CASCADE,
			email TEXT NOT NULL UNIQUE,
			name TEXT NOT NULL,
			master BOOLEAN NOT NULL DEFAULT FALSE,
			created_at TIMESTAMPTZ DEFAULT NOW(),
			updated_at TIMESTAMPTZ DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS ` + tables.UserDepartments + ` (
			user_id UUID NOT NULL REFERENCES ` + tables.Users + `(id) ON DELETE CASCADE,
			department_id UUID NOT NULL REFERENCES ` + tables.Departments + `(id) ON DELETE CASCADE,
			created_at TIMESTAMPTZ DEFAULT NOW(),
			PRIMARY KEY (user_id, department_id)
		)`,
		`CREATE TABLE IF NOT EXISTS ` + tables.Folders + ` (
			id UUID PRIMARY KEY,
			company_id UUID NOT NULL REFERENCES ` + tables.Companies + `(id) ON DELETE CASCADE,
			department_id UUID REFERENCES ` + tables.Departments + `(id) ON DELETE SET NULL,
			division_id UUID REFERENCES ` + tables.Divisions + `(id) ON DELETE SET NULL,
			scope_level TEXT NOT NULL,
			parent_folder_id UUID REFERENCES ` + tables.Folders + `(id),
			name TEXT NOT NULL,
			permissions JSONB,
			created_at TIMESTAMPTZ DEFAULT NOW(),
			updated_at TIMESTAMPTZ DEFAULT NOW(),
			deleted_at TIMESTAMPTZ
		)`,
		`CREATE UNIQUE INDEX IF NOT EXISTS ` + tables.Folders + `_sibling_name
			ON ` + tables.Folders + ` (company_id, COALESCE(parent_folder_id, '00000000-0000-0000-0000-000000000000'::uuid), name)
			WHERE deleted_at IS NULL`,
		`CREATE TABLE IF NOT EXISTS ` + tables.Files + ` (
			id UUID PRIMARY KEY,
			company_id UUID NOT NULL REFERENCES ` + tables.Companies + `(id) ON DELETE CASCADE,
			department_id UUID REFERENCES ` + tables.Departments + `(id) ON DELETE SET NULL,
			division_id UUID REFERENCES ` + tables.Divisions + `(id) ON DELETE SET NULL,
			scope_level TEXT NOT NULL,
			name TEXT NOT NULL,
			created_at TIMESTAMPTZ DEFAULT NOW(),
			updated_at TIMESTAMPTZ DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS ` + tables.ResourceLinks + ` (
			file_id UUID NOT NULL REFERENCES ` + tables.Files + `(id) ON DELETE CASCADE,
			folder_id UUID NOT NULL REFERENCES ` + tables.Folders + `(id) ON DELETE CASCADE,
			permissions JSONB,
			created_at TIMESTAMPTZ DEFAULT NOW(),
			updated_at TIMESTAMPTZ DEFAULT NOW(),
			PRIMARY KEY (file_id, folder_id)
		)`,
	}

	for _, stmt := range statements {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}

// dropAllTables drops all tables in dependency order
func dropAllTables(ctx context.Context, pool *pgxpool.Pool, tables *postgres.TableNames) error {
	tableNames := []string{
		tables.ResourceLinks,
		tables.Files,
		tables.Folders,
		tables.UserDepartments,
		tables.Users,
		tables.Divisions,
		tables.Departments,
		tables.Companies,
	}

	for _, table := range tableNames {
		dropSQL := "DROP TABLE IF EXISTS " + table + " CASCADE"
		if _, err := pool.Exec(ctx, dropSQL); err != nil {
			return err
		}
		log.Printf("  dropped %s", table)
	}

	return nil
}

// clearAllData deletes all rows, keeping the schema
func clearAllData(ctx context.Context, pool *pgxpool.Pool, tables *postgres.TableNames) error {
	tableNames := []string{
		tables.ResourceLinks,
		tables.Files,
		tables.Folders,
		tables.UserDepartments,
		tables.Users,
		tables.Divisions,
		tables.Departments,
		tables.Companies,
	}

	for _, table := range tableNames {
		if _, err := pool.Exec(ctx, "DELETE FROM "+table); err != nil {
			return err
		}
	}
	return nil
}

// seedDemoData populates a small demo org: one company, two departments,
// one division, four users, a three-level folder tree and a file linked
// into two folders with different permission lists.
func seedDemoData(ctx context.Context, repoConfig *postgres.RepositoryConfig) error {
	userRepo := postgresDirectory.NewUserRepository(repoConfig)
	orgRepo := postgresDirectory.NewOrgRepository(repoConfig)
	folderRepo := postgresDocstore.NewFolderRepository(repoConfig)
	fileRepo := postgresDocstore.NewFileRepository(repoConfig)
	linkRepo := postgresDocstore.NewResourceLinkRepository(repoConfig)

	company := &directoryModels.Company{ID: uuid.NewString(), Name: "Acme Corp"}
	if err := orgRepo.CreateCompany(ctx, company); err != nil {
		return err
	}

	engineering := &directoryModels.Department{ID: uuid.NewString(), CompanyID: company.ID, Name: "Engineering"}
	finance := &directoryModels.Department{ID: uuid.NewString(), CompanyID: company.ID, Name: "Finance"}
	for _, dept := range []*directoryModels.Department{engineering, finance} {
		if err := orgRepo.CreateDepartment(ctx, dept); err != nil {
			return err
		}
	}

	platform := &directoryModels.Division{ID: uuid.NewString(), CompanyID: company.ID, DepartmentID: engineering.ID, Name: "Platform"}
	if err := orgRepo.CreateDivision(ctx, platform); err != nil {
		return err
	}

	ada := &directoryModels.User{ID: uuid.NewString(), CompanyID: company.ID, Email: "ada@acme.test", Name: "Ada", Master: true}
	bob := &directoryModels.User{ID: uuid.NewString(), CompanyID: company.ID, Email: "bob@acme.test", Name: "Bob"}
	carol := &directoryModels.User{ID: uuid.NewString(), CompanyID: company.ID, Email: "carol@acme.test", Name: "Carol"}
	dave := &directoryModels.User{ID: uuid.NewString(), CompanyID: company.ID, Email: "dave@acme.test", Name: "Dave"}
	for _, user := range []*directoryModels.User{ada, bob, carol, dave} {
		if err := userRepo.Create(ctx, user); err != nil {
			return err
		}
	}
	if err := userRepo.AddToDepartment(ctx, bob.ID, engineering.ID); err != nil {
		return err
	}
	if err := userRepo.AddToDepartment(ctx, carol.ID, finance.ID); err != nil {
		return err
	}

	handbook := &docstoreModels.Folder{
		ID:         uuid.NewString(),
		CompanyID:  company.ID,
		ScopeLevel: docstoreModels.ScopeCompany,
		Name:       "Company Handbook",
		Permissions: []docstoreModels.PermissionEntry{
			{UserID: dave.ID, Permissions: []docstoreModels.PermissionKind{docstoreModels.PermissionRead, docstoreModels.PermissionWrite}},
		},
	}
	engFolder := &docstoreModels.Folder{
		ID:             uuid.NewString(),
		CompanyID:      company.ID,
		DepartmentID:   &engineering.ID,
		ScopeLevel:     docstoreModels.ScopeDepartment,
		ParentFolderID: &handbook.ID,
		Name:           "Engineering",
		// Narrows dave down relative to what the handbook grants
		Permissions: []docstoreModels.PermissionEntry{
			{UserID: dave.ID, Permissions: []docstoreModels.PermissionKind{docstoreModels.PermissionRead}},
		},
	}
	runbooks := &docstoreModels.Folder{
		ID:             uuid.NewString(),
		CompanyID:      company.ID,
		DivisionID:     &platform.ID,
		ScopeLevel:     docstoreModels.ScopeDivision,
		ParentFolderID: &engFolder.ID,
		Name:           "Platform Runbooks",
	}
	for _, folder := range []*docstoreModels.Folder{handbook, engFolder, runbooks} {
		if err := folderRepo.Create(ctx, folder); err != nil {
			return err
		}
	}

	playbook := &docstoreModels.File{
		ID:         uuid.NewString(),
		CompanyID:  company.ID,
		ScopeLevel: docstoreModels.ScopeDepartment,
		DepartmentID: &engineering.ID,
		Name:       "Incident Playbook",
	}
	if err := fileRepo.Create(ctx, playbook); err != nil {
		return err
	}

	// Same file filed into two folders: one link carries explicit grants,
	// the other none.
	links := []*docstoreModels.ResourceLink{
		{
			FileID:   playbook.ID,
			FolderID: engFolder.ID,
			Permissions: []docstoreModels.PermissionEntry{
				{UserID: carol.ID, Permissions: []docstoreModels.PermissionKind{docstoreModels.PermissionRead}},
			},
		},
		{FileID: playbook.ID, FolderID: runbooks.ID},
	}
	for _, link := range links {
		if err := linkRepo.Create(ctx, link); err != nil {
			return err
		}
	}

	log.Printf("  company=%s ada=%s bob=%s carol=%s dave=%s", company.ID, ada.ID, bob.ID, carol.ID, dave.ID)
	log.Printf("  handbook=%s engineering=%s runbooks=%s playbook=%s", handbook.ID, engFolder.ID, runbooks.ID, playbook.ID)
	return nil
}
