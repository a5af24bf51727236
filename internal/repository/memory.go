package repository

import (
	"context"
	"fmt"
	"sync"

	"github.com/Dbeiser/Barter/internal/models"

	"github.com/google/uuid"
)

// InMemoryStore é uma implementação em-memória da interface Store.
// Itens e trocas ficam em slices para preservar a ordem natural de
// inserção, igual ao comportamento de leitura do Postgres sem ORDER BY.
type InMemoryStore struct {
	mu           sync.RWMutex
	usersByID    map[uuid.UUID]*models.User
	usersByEmail map[string]*models.User
	items        []*models.Item
	trades       []*models.Trade
}

// NewInMemoryStore cria uma nova instância do store em memória
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		usersByID:    make(map[uuid.UUID]*models.User),
		usersByEmail: make(map[string]*models.User),
		items:        []*models.Item{},
		trades:       []*models.Trade{},
	}
}

// --- UserStore ---

func (s *InMemoryStore) CreateUser(ctx context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.usersByEmail[user.Email]; exists {
		return fmt.Errorf("e-mail '%s': %w", user.Email, ErrDuplicate)
	}

	s.usersByID[user.ID] = user
	s.usersByEmail[user.Email] = user
	return nil
}

func (s *InMemoryStore) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, exists := s.usersByEmail[email]
	if !exists {
		return nil, fmt.Errorf("usuário '%s': %w", email, ErrNotFound)
	}
	return user, nil
}

func (s *InMemoryStore) GetUserByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, exists := s.usersByID[id]
	if !exists {
		return nil, fmt.Errorf("usuário com ID '%s': %w", id, ErrNotFound)
	}
	return user, nil
}

func (s *InMemoryStore) GetAllUsers(ctx context.Context) ([]*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	users := make([]*models.User, 0, len(s.usersByID))
	for _, user := range s.usersByID {
		users = append(users, user)
	}
	return users, nil
}

func (s *InMemoryStore) SetUserProvider(ctx context.Context, id uuid.UUID, provider string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, exists := s.usersByID[id]
	if !exists {
		return fmt.Errorf("usuário com ID '%s': %w", id, ErrNotFound)
	}
	user.Provider = provider
	return nil
}

// --- ItemStore ---

func (s *InMemoryStore) CreateItem(ctx context.Context, item *models.Item) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.items = append(s.items, item)
	return nil
}

func (s *InMemoryStore) GetItemByID(ctx context.Context, id uuid.UUID) (*models.Item, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, item := range s.items {
		if item.ID == id {
			return item, nil
		}
	}
	return nil, fmt.Errorf("item com ID '%s': %w", id, ErrNotFound)
}

func (s *InMemoryStore) GetItemsByOwner(ctx context.Context, ownerID uuid.UUID) ([]*models.Item, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	// Retorna lista vazia em vez de nil, para consistência
	items := []*models.Item{}
	for _, item := range s.items {
		if item.OwnerID == ownerID {
			items = append(items, item)
		}
	}
	return items, nil
}

func (s *InMemoryStore) GetItemsByIDs(ctx context.Context, ids []uuid.UUID) ([]*models.Item, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	wanted := make(map[uuid.UUID]struct{}, len(ids))
	for _, id := range ids {
		wanted[id] = struct{}{}
	}

	items := []*models.Item{}
	for _, item := range s.items {
		if _, ok := wanted[item.ID]; ok {
			items = append(items, item)
		}
	}
	return items, nil
}

func (s *InMemoryStore) GetAllItems(ctx context.Context) ([]*models.Item, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items := make([]*models.Item, 0, len(s.items))
	items = append(items, s.items...)
	return items, nil
}

func (s *InMemoryStore) UpdateItem(ctx context.Context, item *models.Item) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, existing := range s.items {
		if existing.ID == item.ID {
			s.items[i] = item
			return nil
		}
	}
	return fmt.Errorf("item com ID '%s': %w", item.ID, ErrNotFound)
}

func (s *InMemoryStore) DeleteItem(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, item := range s.items {
		if item.ID == id {
			s.items = append(s.items[:i], s.items[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("item com ID '%s': %w", id, ErrNotFound)
}

func (s *InMemoryStore) DeleteAllItems(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.items = []*models.Item{}
	return nil
}

// --- TradeStore ---

func (s *InMemoryStore) CreateTrade(ctx context.Context, trade *models.Trade) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.trades = append(s.trades, trade)
	return nil
}

func (s *InMemoryStore) GetTradeByID(ctx context.Context, id uuid.UUID) (*models.Trade, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, trade := range s.trades {
		if trade.ID == id {
			return trade, nil
		}
	}
	return nil, fmt.Errorf("troca com ID '%s': %w", id, ErrNotFound)
}

func (s *InMemoryStore) GetTradesByInitiator(ctx context.Context, initiatorID uuid.UUID) ([]*models.Trade, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	trades := []*models.Trade{}
	for _, trade := range s.trades {
		if trade.InitiatorID == initiatorID {
			trades = append(trades, trade)
		}
	}
	return trades, nil
}

func (s *InMemoryStore) GetTradesByReceiver(ctx context.Context, receiverID uuid.UUID) ([]*models.Trade, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	trades := []*models.Trade{}
	for _, trade := range s.trades {
		if trade.ReceiverID == receiverID {
			trades = append(trades, trade)
		}
	}
	return trades, nil
}

func (s *InMemoryStore) GetPendingTradesByReceiver(ctx context.Context, receiverID uuid.UUID) ([]*models.Trade, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	trades := []*models.Trade{}
	for _, trade := range s.trades {
		if trade.ReceiverID != receiverID {
			continue
		}
		if trade.Status == models.StatusRequested || trade.Status == models.StatusCountered {
			trades = append(trades, trade)
		}
	}
	return trades, nil
}

func (s *InMemoryStore) UpdateTrade(ctx context.Context, trade *models.Trade) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, existing := range s.trades {
		if existing.ID == trade.ID {
			s.trades[i] = trade
			return nil
		}
	}
	return fmt.Errorf("troca com ID '%s': %w", trade.ID, ErrNotFound)
}

func (s *InMemoryStore) DeleteAllTrades(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.trades = []*models.Trade{}
	return nil
}
