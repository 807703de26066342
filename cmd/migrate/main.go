package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/mattn/go-sqlite3"

	"github.com/verlic/zapcentral/internal/config"
)

func main() {
	migrationsDir := flag.String("migrations", "db/migrations/postgres", "Diretório de migrations PostgreSQL")
	migrationsSQLiteDir := flag.String("migrations-sqlite", "db/migrations/sqlite", "Diretório de migrations SQLite")
	flag.Parse()

	cfg := config.Load()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	switch cfg.Storage.Driver {
	case "sqlite", "":
		log.Println("migrate: usando SQLite")
		runSQLiteMigrations(ctx, cfg, *migrationsSQLiteDir)
	case "postgres":
		log.Println("migrate: usando PostgreSQL")
		runPostgresMigrations(ctx, cfg, *migrationsDir)
	default:
		log.Fatalf("migrate: driver desconhecido: %s", cfg.Storage.Driver)
	}
}

func runSQLiteMigrations(ctx context.Context, cfg config.Config, dir string) {
	if err := os.MkdirAll(cfg.Storage.DataDir, 0755); err != nil {
		log.Fatalf("migrate: erro ao criar diretório: %v", err)
	}

	dbPath := filepath.Join(cfg.Storage.DataDir, "zapcentral.db")
	dsn := fmt.Sprintf("file:%s?_foreign_keys=on", dbPath)

	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		log.Fatalf("migrate: falha ao abrir SQLite: %v", err)
	}
	defer db.Close()

	log.Printf("migrate: conectado ao SQLite em %s", dbPath)

	if _, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version TEXT PRIMARY KEY,
			applied_at TEXT NOT NULL DEFAULT (datetime('now'))
		)
	`); err != nil {
		log.Fatalf("migrate: falha ao preparar schema_migrations: %v", err)
	}

	files, err := listSQLFiles(dir, ".up.sql")
	if err != nil {
		log.Fatalf("migrate: listar migrations: %v", err)
	}
	if len(files) == 0 {
		log.Printf("migrate: nenhum arquivo .up.sql encontrado em %s", dir)
		return
	}

	for _, file := range files {
		version := filepath.Base(file)

		var count int
		if err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM schema_migrations WHERE version = ?`, version).Scan(&count); err != nil {
			log.Fatalf("migrate: verificar %s: %v", version, err)
		}
		if count > 0 {
			continue
		}

		log.Printf("migrate: aplicando %s ...", version)
		sqlStmt, err := os.ReadFile(file)
		if err != nil {
			log.Fatalf("migrate: ler %s: %v", version, err)
		}

		for _, stmt := range strings.Split(string(sqlStmt), ";") {
			stmt = strings.TrimSpace(stmt)
			if stmt == "" {
				continue
			}
			if _, err := db.ExecContext(ctx, stmt); err != nil {
				log.Fatalf("migrate: executar %s: %v", version, err)
			}
		}

		if _, err := db.ExecContext(ctx, `INSERT INTO schema_migrations (version) VALUES (?)`, version); err != nil {
			log.Fatalf("migrate: registrar %s: %v", version, err)
		}

		log.Printf("migrate: %s aplicado.", version)
	}

	log.Println("migrate: concluído com sucesso.")
}

func runPostgresMigrations(ctx context.Context, cfg config.Config, dir string) {
	pool, err := pgxpool.New(ctx, cfg.DB.DSN())
	if err != nil {
		log.Fatalf("migrate: falha ao conectar no banco: %v", err)
	}
	defer pool.Close()

	log.Println("migrate: conectado ao PostgreSQL, garantindo tabela de controle...")
	if _, err := pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version TEXT PRIMARY KEY,
			applied_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)
	`); err != nil {
		log.Fatalf("migrate: falha ao preparar schema_migrations: %v", err)
	}

	files, err := listSQLFiles(dir, ".up.sql")
	if err != nil {
		log.Fatalf("migrate: listar migrations: %v", err)
	}
	if len(files) == 0 {
		log.Printf("migrate: nenhum arquivo .up.sql encontrado em %s", dir)
		return
	}

	for _, file := range files {
		version := filepath.Base(file)

		var exists bool
		if err := pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM schema_migrations WHERE version = $1)`, version).Scan(&exists); err != nil {
			log.Fatalf("migrate: verificar %s: %v", version, err)
		}
		if exists {
			continue
		}

		log.Printf("migrate: aplicando %s ...", version)
		sqlStmt, err := os.ReadFile(file)
		if err != nil {
			log.Fatalf("migrate: ler %s: %v", version, err)
		}

		execCtx, cancel := context.WithTimeout(ctx, 2*time.Minute)
		_, err = pool.Exec(execCtx, string(sqlStmt))
		cancel()
		if err != nil {
			log.Fatalf("migrate: executar %s: %v", version, err)
		}

		if _, err := pool.Exec(ctx, `INSERT INTO schema_migrations (version) VALUES ($1)`, version); err != nil {
			log.Fatalf("migrate: registrar %s: %v", version, err)
		}

		log.Printf("migrate: %s aplicado.", version)
	}

	log.Println("migrate: concluído com sucesso.")
}

func listSQLFiles(dir, suffix string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	var files []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if suffix != "" && !strings.HasSuffix(name, suffix) {
			continue
		}
		files = append(files, filepath.Join(dir, name))
	}
	sort.Strings(files)
	return files, nil
}
