package repository_test

import (
	"context"
	"io"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/rollcall-labs/rollcall-api/internal/database"
	"github.com/rollcall-labs/rollcall-api/internal/models"
	"github.com/rollcall-labs/rollcall-api/internal/repository"
)

func setupStudentRepo(t *testing.T) repository.StudentRepository {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file:student_repo?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Student{}))
	require.NoError(t, db.Exec("DELETE FROM students").Error)

	executor := database.NewExecutor(db, database.DefaultExecutorConfig(), zerolog.New(io.Discard))
	return repository.NewStudentRepository(db, executor)
}

func TestStudentCreateAndGet(t *testing.T) {
	repo := setupStudentRepo(t)
	ctx := context.Background()

	student := models.Student{ID: uuid.NewString(), Name: "Asha Verma", RollNumber: "21CS042", SectionID: "sec-1"}
	require.NoError(t, repo.Create(ctx, &student))

	loaded, err := repo.GetByID(ctx, student.ID)
	require.NoError(t, err)
	require.Equal(t, "21CS042", loaded.RollNumber)
	require.False(t, loaded.FaceEnrolled)
}

func TestSetFaceEnrolled(t *testing.T) {
	repo := setupStudentRepo(t)
	ctx := context.Background()

	student := models.Student{ID: uuid.NewString(), Name: "Asha Verma", RollNumber: "21CS043", SectionID: "sec-1"}
	require.NoError(t, repo.Create(ctx, &student))

	require.NoError(t, repo.SetFaceEnrolled(ctx, student.ID, true))

	loaded, err := repo.GetByID(ctx, student.ID)
	require.NoError(t, err)
	require.True(t, loaded.FaceEnrolled)
}

func TestListBySectionOrdersByRollNumber(t *testing.T) {
	repo := setupStudentRepo(t)
	ctx := context.Background()

	for _, roll := range []string{"21CS050", "21CS010", "21CS030"} {
		student := models.Student{ID: uuid.NewString(), Name: "Student " + roll, RollNumber: roll, SectionID: "sec-2"}
		require.NoError(t, repo.Create(ctx, &student))
	}

	students, err := repo.ListBySection(ctx, "sec-2")
	require.NoError(t, err)
	require.Len(t, students, 3)
	require.Equal(t, "21CS010", students[0].RollNumber)
	require.Equal(t, "21CS050", students[2].RollNumber)
}
