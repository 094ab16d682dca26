package application

import (
	"context"
	"errors"
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/sirupsen/logrus"

	"github.com/aros-club/aros-api/internal/domain/entity"
	repo "github.com/aros-club/aros-api/internal/domain/repository"
	"github.com/aros-club/aros-api/pkg/helpers"
	"github.com/aros-club/aros-api/pkg/mailer"
	mailtpl "github.com/aros-club/aros-api/pkg/mailer/templates"
	"github.com/aros-club/aros-api/pkg/validation"
)

type UserService struct {
	Repo     repo.UserRepository
	Emails   EmailPublisher
	Logger   *logrus.Logger
	SiteName string
	LoginURL string
}

func NewUserService(repo repo.UserRepository, emails EmailPublisher, logger *logrus.Logger, siteName, loginURL string) *UserService {
	return &UserService{
		Repo:     repo,
		Emails:   emails,
		Logger:   logger,
		SiteName: siteName,
		LoginURL: loginURL,
	}
}

type RegisterInput struct {
	Name     string `json:"name" validate:"text3"`
	Email    string `json:"email"`
	Password string `json:"password" validate:"required"`
	IsAdmin  bool   `json:"isAdmin"`
}

// Register creates a member with a fresh access token. The email is checked
// before anything else; the remaining fields are validated before the store
// is touched.
func (s *UserService) Register(ctx context.Context, in RegisterInput) (*entity.User, error) {
	u, err := s.create(ctx, in)
	if err != nil {
		return nil, err
	}
	s.queueWelcome(ctx, u)
	return u, nil
}

func (s *UserService) create(ctx context.Context, in RegisterInput) (*entity.User, error) {
	if !validation.IsEmail(in.Email) {
		return nil, ErrInvalidEmail
	}
	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	hash, err := helpers.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}
	token, err := helpers.NewAccessToken()
	if err != nil {
		return nil, fmt.Errorf("issue access token: %w", err)
	}
	u := &entity.User{
		Name:        in.Name,
		Email:       in.Email,
		Password:    hash,
		AccessToken: token,
		IsAdmin:     in.IsAdmin,
	}
	if err := s.Repo.Create(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

func (s *UserService) queueWelcome(ctx context.Context, u *entity.User) {
	if s.Emails == nil {
		return
	}
	job := mailer.EmailJob{
		To:       u.Email,
		Template: mailtpl.MemberWelcome,
		Data:     mailtpl.NewMemberWelcomeData(s.SiteName, u.Name, u.Email, s.LoginURL, mailtpl.WithTime(time.Now())),
	}
	if err := s.Emails.PublishJSON(ctx, job); err != nil && s.Logger != nil {
		s.Logger.WithError(err).WithField("user_id", u.ID).Warn("queue welcome email failed")
	}
}

// Login verifies email and password. An unknown email yields ErrUserNotFound,
// a wrong password ErrInvalidCredentials; store failures are returned as is.
func (s *UserService) Login(ctx context.Context, email, password string) (*entity.User, error) {
	u, err := s.Repo.GetByEmail(ctx, email)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	if !helpers.CompareHashAndPassword(u.Password, password) {
		return nil, ErrInvalidCredentials
	}
	return u, nil
}

// ResolveByToken returns the user owning token. An empty, malformed or
// unknown token yields ErrUserNotFound; store failures are returned as is.
// Issued tokens are hex, so anything that is not valid UTF-8 cannot match.
func (s *UserService) ResolveByToken(ctx context.Context, token string) (*entity.User, error) {
	if token == "" || !utf8.ValidString(token) {
		return nil, ErrUserNotFound
	}
	u, err := s.Repo.GetByAccessToken(ctx, token)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return u, nil
}

// SeedAdmin makes sure an admin with the given email exists. It reports
// whether a new user was created; an existing user is left untouched.
func (s *UserService) SeedAdmin(ctx context.Context, name, email, password string) (*entity.User, bool, error) {
	existing, err := s.Repo.GetByEmail(ctx, email)
	if err == nil {
		return existing, false, nil
	}
	if !errors.Is(err, repo.ErrNotFound) {
		return nil, false, err
	}
	u, err := s.create(ctx, RegisterInput{Name: name, Email: email, Password: password, IsAdmin: true})
	if errors.Is(err, repo.ErrDuplicate) {
		existing, gErr := s.Repo.GetByEmail(ctx, email)
		if gErr != nil {
			return nil, false, gErr
		}
		return existing, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return u, true, nil
}
