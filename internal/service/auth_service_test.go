package service

import (
	"context"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/rollcall-labs/rollcall-api/internal/dto"
	"github.com/rollcall-labs/rollcall-api/internal/middleware"
	"github.com/rollcall-labs/rollcall-api/internal/models"
)

type stubFacultyRepo struct {
	byEmail map[string]models.Faculty
}

func newStubFacultyRepo() *stubFacultyRepo {
	return &stubFacultyRepo{byEmail: map[string]models.Faculty{}}
}

func (s *stubFacultyRepo) Create(_ context.Context, faculty *models.Faculty) error {
	s.byEmail[faculty.Email] = *faculty
	return nil
}

func (s *stubFacultyRepo) GetByEmail(_ context.Context, email string) (models.Faculty, error) {
	if faculty, ok := s.byEmail[email]; ok {
		return faculty, nil
	}
	return models.Faculty{}, gorm.ErrRecordNotFound
}

func (s *stubFacultyRepo) GetByID(_ context.Context, id string) (models.Faculty, error) {
	for _, faculty := range s.byEmail {
		if faculty.ID == id {
			return faculty, nil
		}
	}
	return models.Faculty{}, gorm.ErrRecordNotFound
}

const testSecret = "test-secret-please-rotate"

func newTestAuthService(repo *stubFacultyRepo) AuthService {
	return NewAuthService(repo, validator.New(), testSecret, zerolog.Nop())
}

func TestRegisterIssuesToken(t *testing.T) {
	repo := newStubFacultyRepo()
	svc := newTestAuthService(repo)

	resp, err := svc.Register(context.Background(), dto.RegisterRequest{
		Name:     "Asha Verma",
		Email:    "Asha.Verma@Example.edu",
		Password: "correct-horse",
	})

	require.NoError(t, err)
	require.NotEmpty(t, resp.Token)
	require.Equal(t, "asha.verma@example.edu", resp.Email)
	require.Equal(t, "faculty", resp.Role)

	claims, err := middleware.VerifyToken(testSecret, resp.Token)
	require.NoError(t, err)
	require.Equal(t, resp.FacultyID, claims["sub"])

	stored := repo.byEmail["asha.verma@example.edu"]
	require.NotEqual(t, "correct-horse", stored.PasswordHash)
}

func TestRegisterRejectsDuplicateEmail(t *testing.T) {
	repo := newStubFacultyRepo()
	svc := newTestAuthService(repo)

	req := dto.RegisterRequest{Name: "Asha Verma", Email: "asha@example.edu", Password: "correct-horse"}

	_, err := svc.Register(context.Background(), req)
	require.NoError(t, err)

	_, err = svc.Register(context.Background(), req)
	require.ErrorIs(t, err, ErrEmailTaken)
}

func TestRegisterValidation(t *testing.T) {
	svc := newTestAuthService(newStubFacultyRepo())

	_, err := svc.Register(context.Background(), dto.RegisterRequest{
		Name:     "A",
		Email:    "not-an-email",
		Password: "short",
	})

	require.Error(t, err)
	require.IsType(t, validator.ValidationErrors{}, err)
}

func TestLoginRoundTrip(t *testing.T) {
	repo := newStubFacultyRepo()
	svc := newTestAuthService(repo)

	_, err := svc.Register(context.Background(), dto.RegisterRequest{
		Name:     "Asha Verma",
		Email:    "asha@example.edu",
		Password: "correct-horse",
	})
	require.NoError(t, err)

	resp, err := svc.Login(context.Background(), dto.LoginRequest{
		Email:    "asha@example.edu",
		Password: "correct-horse",
	})

	require.NoError(t, err)
	require.NotEmpty(t, resp.Token)
	require.Equal(t, "Asha Verma", resp.Name)
}

func TestLoginWrongPassword(t *testing.T) {
	repo := newStubFacultyRepo()
	svc := newTestAuthService(repo)

	_, err := svc.Register(context.Background(), dto.RegisterRequest{
		Name:     "Asha Verma",
		Email:    "asha@example.edu",
		Password: "correct-horse",
	})
	require.NoError(t, err)

	_, err = svc.Login(context.Background(), dto.LoginRequest{
		Email:    "asha@example.edu",
		Password: "wrong-horse",
	})
	require.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLoginUnknownEmail(t *testing.T) {
	svc := newTestAuthService(newStubFacultyRepo())

	_, err := svc.Login(context.Background(), dto.LoginRequest{
		Email:    "nobody@example.edu",
		Password: "whatever-pass",
	})
	require.ErrorIs(t, err, ErrInvalidCredentials)
}
