package accounts

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"cleansched/internal/auth"
	"cleansched/internal/models"

	"github.com/google/uuid"
)

var (
	ErrEmailTaken         = errors.New("email is already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
)

type DBLayer interface {
	CreateAccount(ctx context.Context, account models.Account) error
	GetAccountByEmail(ctx context.Context, email string) (*models.Account, error)
	GetAccountByID(ctx context.Context, id string) (*models.Account, error)
	DeleteAccount(ctx context.Context, id string) error
}

type AccountService struct {
	DB     DBLayer
	Tokens *auth.Tokens
}

func NewAccountService(db DBLayer, tokens *auth.Tokens) *AccountService {
	return &AccountService{DB: db, Tokens: tokens}
}

// Register creates an account with a unique email and returns a fresh session.
func (s *AccountService) Register(ctx context.Context, req models.RegisterRequest) (*models.AuthResponse, error) {
	if _, err := s.DB.GetAccountByEmail(ctx, req.Email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("lookup email: %w", err)
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	account := models.Account{
		ID:           uuid.NewString(),
		Email:        req.Email,
		PasswordHash: hash,
		CreatedAt:    time.Now(),
	}
	if err := s.DB.CreateAccount(ctx, account); err != nil {
		return nil, fmt.Errorf("create account: %w", err)
	}

	return s.session(account)
}

func (s *AccountService) Login(ctx context.Context, req models.LoginRequest) (*models.AuthResponse, error) {
	account, err := s.DB.GetAccountByEmail(ctx, req.Email)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("lookup email: %w", err)
	}

	if !auth.CheckPassword(account.PasswordHash, req.Password) {
		return nil, ErrInvalidCredentials
	}
	return s.session(*account)
}

// DeleteAccount removes the account and cascades to its orders and staff.
func (s *AccountService) DeleteAccount(ctx context.Context, accountID string) error {
	return s.DB.DeleteAccount(ctx, accountID)
}

func (s *AccountService) session(account models.Account) (*models.AuthResponse, error) {
	token, err := s.Tokens.Issue(account.ID)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}
	return &models.AuthResponse{
		AccountID: account.ID,
		Email:     account.Email,
		Token:     token,
	}, nil
}
