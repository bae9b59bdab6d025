package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/suite"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"

	"github.com/khoahotran/folio/internal/docstore"
	"github.com/khoahotran/folio/internal/docstore/docstoretest"
	"github.com/khoahotran/folio/internal/domain/project"
	"github.com/khoahotran/folio/pkg/logger"
)

type PostgresStoreIntegrationTestSuite struct {
	suite.Suite
	dbPool      *pgxpool.Pool
	pgContainer *postgres.PostgresContainer
	store       docstore.Store
}

func (s *PostgresStoreIntegrationTestSuite) SetupSuite() {
	ctx := context.Background()

	pgContainer, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("test_db"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).WithStartupTimeout(1*time.Minute),
		),
	)
	if err != nil {
		s.T().Fatalf("Failed to start postgres container: %s", err)
	}
	s.pgContainer = pgContainer

	dsn, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		s.T().Fatalf("Failed to get connection string: %s", err)
	}

	m, err := migrate.New("file://../../migrations", dsn)
	if err != nil {
		s.T().Fatalf("Failed to create migrate instance: %s", err)
	}
	if err := m.Up(); err != nil {
		s.T().Fatalf("Failed to run migrations: %s", err)
	}

	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		s.T().Fatalf("Failed to create pgxpool: %s", err)
	}
	s.dbPool = pool
	s.store = NewPostgresStore(pool, logger.NewNop())
}

func (s *PostgresStoreIntegrationTestSuite) TearDownSuite() {
	if s.dbPool != nil {
		s.dbPool.Close()
	}
	if s.pgContainer != nil {
		if err := s.pgContainer.Terminate(context.Background()); err != nil {
			s.T().Fatalf("Failed to terminate postgres container: %s", err)
		}
	}
}

func TestPostgresStoreIntegration(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode.")
	}
	suite.Run(t, new(PostgresStoreIntegrationTestSuite))
}

func (s *PostgresStoreIntegrationTestSuite) Test_Conformance() {
	docstoretest.Run(s.T(), s.store)
}

func (s *PostgresStoreIntegrationTestSuite) Test_ProjectRepo_RoundTrip() {
	ctx := context.Background()
	repo := NewProjectRepo(s.store, logger.NewNop())

	p := &project.Project{
		Title:        "X",
		Technologies: []string{"Go"},
		CodeSnippets: []project.CodeSnippet{{FileName: "main.go", Code: "package main"}},
	}
	p.OwnerID = "pg-owner"
	id, err := repo.Add(ctx, p)
	s.Require().NoError(err)

	found, err := repo.ListByOwner(ctx, "pg-owner")
	s.Require().NoError(err)
	s.Len(found, 1)
	s.Equal(id, found[0].ID)
	s.Equal("main.go", found[0].CodeSnippets[0].FileName)
}
