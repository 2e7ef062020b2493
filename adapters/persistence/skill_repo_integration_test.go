package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/suite"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"

	"github.com/khoahotran/career-planner/internal/domain/importrec"
	"github.com/khoahotran/career-planner/internal/domain/skill"
	"github.com/khoahotran/career-planner/internal/domain/user"
	"github.com/khoahotran/career-planner/pkg/logger"
)

type SkillRepoIntegrationTestSuite struct {
	suite.Suite
	dbPool      *pgxpool.Pool
	pgContainer *postgres.PostgresContainer
	testLogger  logger.Logger
	skillRepo   skill.Repository
	importRepo  importrec.Repository
	testOwner   *user.User
}

func (s *SkillRepoIntegrationTestSuite) SetupSuite() {
	ctx := context.Background()
	s.testLogger = logger.NewNopLogger()

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

	s.skillRepo = NewPostgresSkillRepo(s.dbPool, s.testLogger)
	s.importRepo = NewPostgresImportRepo(s.dbPool, s.testLogger)

	s.testOwner = &user.User{
		ID:           uuid.New(),
		Email:        "testowner@example.com",
		PasswordHash: "hashedpassword",
	}
	query := `INSERT INTO users (id, email, password_hash) VALUES ($1, $2, $3)`
	_, err = s.dbPool.Exec(ctx, query, s.testOwner.ID, s.testOwner.Email, s.testOwner.PasswordHash)
	if err != nil {
		s.T().Fatalf("Failed to seed owner: %s", err)
	}
}

func (s *SkillRepoIntegrationTestSuite) TearDownSuite() {
	if s.dbPool != nil {
		s.dbPool.Close()
	}
	if s.pgContainer != nil {
		if err := s.pgContainer.Terminate(context.Background()); err != nil {
			s.T().Fatalf("Failed to terminate postgres container: %s", err)
		}
	}
}

func TestSkillRepoIntegration(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode.")
	}
	suite.Run(t, new(SkillRepoIntegrationTestSuite))
}

func (s *SkillRepoIntegrationTestSuite) newSkill(name string) *skill.Skill {
	now := time.Now().UTC()
	return &skill.Skill{
		ID:                uuid.New(),
		OwnerID:           s.testOwner.ID,
		SkillName:         name,
		Category:          skill.CategoryTechnical,
		ProficiencyLevel:  4,
		YearsOfExperience: 3,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
}

func (s *SkillRepoIntegrationTestSuite) Test_Save_And_FindByName() {
	ctx := context.Background()

	newSkill := s.newSkill("Go")
	s.NoError(s.skillRepo.Save(ctx, newSkill))

	found, err := s.skillRepo.FindByName(ctx, s.testOwner.ID, "go")
	s.NoError(err)
	s.NotNil(found)
	s.Equal(newSkill.ID, found.ID)
	s.Equal("Go", found.SkillName)
}

func (s *SkillRepoIntegrationTestSuite) Test_Update_And_Delete() {
	ctx := context.Background()

	sk := s.newSkill("Terraform")
	s.NoError(s.skillRepo.Save(ctx, sk))

	sk.ProficiencyLevel = 5
	s.NoError(s.skillRepo.Update(ctx, sk))

	found, err := s.skillRepo.FindByID(ctx, sk.ID, s.testOwner.ID)
	s.NoError(err)
	s.Equal(5, found.ProficiencyLevel)

	s.NoError(s.skillRepo.Delete(ctx, sk.ID, s.testOwner.ID))
	_, err = s.skillRepo.FindByID(ctx, sk.ID, s.testOwner.ID)
	s.Error(err)
}

func (s *SkillRepoIntegrationTestSuite) Test_ListByOwner_CategoryFilter() {
	ctx := context.Background()

	tech := s.newSkill("Postgres")
	soft := s.newSkill("Mentoring")
	soft.Category = skill.CategorySoft
	s.NoError(s.skillRepo.Save(ctx, tech))
	s.NoError(s.skillRepo.Save(ctx, soft))

	items, err := s.skillRepo.ListByOwner(ctx, s.testOwner.ID, skill.CategorySoft, 50, 0)
	s.NoError(err)
	s.Len(items, 1)
	s.Equal("Mentoring", items[0].SkillName)
}

func (s *SkillRepoIntegrationTestSuite) Test_ImportJob_Lifecycle() {
	ctx := context.Background()

	now := time.Now().UTC()
	job := &importrec.ImportJob{
		ID:         uuid.New(),
		OwnerID:    s.testOwner.ID,
		ImportType: importrec.TypeSkills,
		FileType:   importrec.FileCSV,
		FileName:   "skills.csv",
		Status:     importrec.StatusPending,
		SkipErrors: true,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	s.NoError(s.importRepo.SaveJob(ctx, job))
	s.NoError(s.importRepo.UpdateJobStatus(ctx, job.ID, importrec.StatusCompleted))

	found, err := s.importRepo.FindJobByID(ctx, job.ID, s.testOwner.ID)
	s.NoError(err)
	s.Equal(importrec.StatusCompleted, found.Status)
	s.True(found.SkipErrors)

	result := &importrec.ImportResult{
		ID:             uuid.New(),
		JobID:          job.ID,
		Outcome:        importrec.OutcomeSuccess,
		ProcessedCount: 5,
		SkippedCount:   1,
		ErrorCount:     2,
		RowErrors: []importrec.RowError{
			{RowIndex: 3, Field: "category", Message: "value must be one of: technical, soft, language, framework, tool, certification"},
			{RowIndex: 7, Message: "field is required"},
		},
		ResponseFile: "bulk_import_response_test.json",
		CreatedAt:    now,
	}
	s.NoError(s.importRepo.SaveResult(ctx, result))

	foundResult, err := s.importRepo.FindResultByJobID(ctx, job.ID)
	s.NoError(err)
	s.Equal(5, foundResult.ProcessedCount)
	s.Len(foundResult.RowErrors, 2)
	s.Equal(3, foundResult.RowErrors[0].RowIndex)
	s.Equal("category", foundResult.RowErrors[0].Field)

	jobs, err := s.importRepo.ListJobsByOwner(ctx, s.testOwner.ID, importrec.TypeSkills, 10, 0)
	s.NoError(err)
	s.GreaterOrEqual(len(jobs), 1)
}
