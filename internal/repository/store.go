package repository

import (
	"context"

	"github.com/Dbeiser/Barter/internal/models"

	"github.com/google/uuid"
)

// UserStore define a interface para operações de usuário no DB
type UserStore interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	GetAllUsers(ctx context.Context) ([]*models.User, error)
	// SetUserProvider preenche a tag de provedor OAuth em linhas antigas
	SetUserProvider(ctx context.Context, id uuid.UUID, provider string) error
}

// ItemStore define a interface para operações de item no DB
type ItemStore interface {
	CreateItem(ctx context.Context, item *models.Item) error
	GetItemByID(ctx context.Context, id uuid.UUID) (*models.Item, error)
	GetItemsByOwner(ctx context.Context, ownerID uuid.UUID) ([]*models.Item, error)
	// GetItemsByIDs busca todos os itens do conjunto em uma única passada
	// (evita N+1 na projeção de trocas pendentes)
	GetItemsByIDs(ctx context.Context, ids []uuid.UUID) ([]*models.Item, error)
	GetAllItems(ctx context.Context) ([]*models.Item, error)
	UpdateItem(ctx context.Context, item *models.Item) error
	DeleteItem(ctx context.Context, id uuid.UUID) error
	// DeleteAllItems existe apenas para a rota de debug
	DeleteAllItems(ctx context.Context) error
}

// TradeStore define a interface para operações de troca no DB
type TradeStore interface {
	CreateTrade(ctx context.Context, trade *models.Trade) error
	GetTradeByID(ctx context.Context, id uuid.UUID) (*models.Trade, error)
	GetTradesByInitiator(ctx context.Context, initiatorID uuid.UUID) ([]*models.Trade, error)
	GetTradesByReceiver(ctx context.Context, receiverID uuid.UUID) ([]*models.Trade, error)
	// GetPendingTradesByReceiver retorna as trocas com status Requested ou
	// Countered dirigidas ao usuário
	GetPendingTradesByReceiver(ctx context.Context, receiverID uuid.UUID) ([]*models.Trade, error)
	UpdateTrade(ctx context.Context, trade *models.Trade) error
	// DeleteAllTrades existe apenas para a rota de debug
	DeleteAllTrades(ctx context.Context) error
}

// Store é uma interface agregada para todas as operações de store
// Facilita a injeção de dependência
type Store interface {
	UserStore
	ItemStore
	TradeStore
}
