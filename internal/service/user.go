package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/Dbeiser/Barter/internal/auth"
	"github.com/Dbeiser/Barter/internal/models"
	"github.com/Dbeiser/Barter/internal/repository"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// UserService lida com a lógica de negócios de usuários
type UserService struct {
	store        repository.UserStore
	tokenService *auth.TokenService
}

// NewUserService cria um novo serviço de usuário
func NewUserService(store repository.UserStore, tokenService *auth.TokenService) *UserService {
	return &UserService{
		store:        store,
		tokenService: tokenService,
	}
}

// Register cria um novo usuário com credencial de senha.
// A checagem de e-mail duplicado é feita por existência antes do INSERT;
// ela não é atômica com a escrita, mas o índice único do banco segura o
// caso de corrida.
func (s *UserService) Register(ctx context.Context, email, password string) (*models.User, error) {
	if email == "" || password == "" {
		return nil, fmt.Errorf("email e password são obrigatórios")
	}

	// Verificar se o e-mail já está em uso
	if _, err := s.store.GetUserByEmail(ctx, email); err == nil {
		return nil, fmt.Errorf("'%s': %w", email, ErrEmailTaken)
	}

	// Gerar hash da senha (nunca armazene senha em texto plano;
	// o bcrypt embute o salt no próprio hash)
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		log.Printf("Erro ao gerar hash bcrypt: %v", err)
		return nil, fmt.Errorf("erro interno ao processar senha")
	}

	user := &models.User{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: string(hash),
		CreatedAt:    time.Now(),
	}

	if err := s.store.CreateUser(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, fmt.Errorf("'%s': %w", email, ErrEmailTaken)
		}
		log.Printf("Erro ao salvar usuário no store: %v", err)
		return nil, fmt.Errorf("erro interno ao salvar usuário")
	}

	return user, nil
}

// Login autentica um usuário por senha e retorna um token JWT
func (s *UserService) Login(ctx context.Context, email, password string) (string, error) {
	user, err := s.store.GetUserByEmail(ctx, email)
	if err != nil {
		// Resposta genérica para evitar enumeração de usuários
		return "", ErrInvalidCredentials
	}

	// Comparar a senha fornecida com o hash armazenado.
	// Usuários criados via OAuth (ou linhas antigas sem credencial)
	// têm hash vazio e nunca autenticam por senha.
	err = bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password))
	if err != nil {
		return "", ErrInvalidCredentials
	}

	// Gerar token JWT
	token, err := s.tokenService.NewToken(user.ID)
	if err != nil {
		log.Printf("Erro ao gerar token JWT: %v", err)
		return "", fmt.Errorf("erro interno ao gerar token")
	}

	return token, nil
}

// OAuthLogin autentica (ou cadastra) um usuário vindo de um provedor
// OAuth. A troca de tokens com o provedor acontece antes, fora daqui;
// este método só recebe o e-mail verificado e a tag do provedor.
func (s *UserService) OAuthLogin(ctx context.Context, email, provider string) (*models.User, string, error) {
	if email == "" || provider == "" {
		return nil, "", fmt.Errorf("email e provider são obrigatórios")
	}

	user, err := s.store.GetUserByEmail(ctx, email)
	if err != nil {
		// Primeiro login via OAuth: cria o usuário sem credencial de senha
		user = &models.User{
			ID:        uuid.New(),
			Email:     email,
			Provider:  provider,
			CreatedAt: time.Now(),
		}
		if err := s.store.CreateUser(ctx, user); err != nil {
			log.Printf("Erro ao salvar usuário OAuth no store: %v", err)
			return nil, "", fmt.Errorf("erro interno ao salvar usuário")
		}
	} else if user.Provider == "" && user.PasswordHash == "" {
		// Linha antiga sem senha e sem tag de provedor: preenche a tag
		if err := s.store.SetUserProvider(ctx, user.ID, provider); err != nil {
			log.Printf("Erro ao preencher provedor do usuário %s: %v", user.ID, err)
			return nil, "", fmt.Errorf("erro interno ao atualizar usuário")
		}
		user.Provider = provider
	}

	token, err := s.tokenService.NewToken(user.ID)
	if err != nil {
		log.Printf("Erro ao gerar token JWT: %v", err)
		return nil, "", fmt.Errorf("erro interno ao gerar token")
	}

	return user, token, nil
}

// GetUserByID busca um usuário pelo ID
func (s *UserService) GetUserByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	user, err := s.store.GetUserByID(ctx, id)
	if err != nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

// GetAllUsers lista todos os usuários cadastrados
func (s *UserService) GetAllUsers(ctx context.Context) ([]*models.User, error) {
	users, err := s.store.GetAllUsers(ctx)
	if err != nil {
		log.Printf("Erro ao buscar usuários no store: %v", err)
		return nil, fmt.Errorf("erro interno ao buscar usuários")
	}
	return users, nil
}
