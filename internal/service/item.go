package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/Dbeiser/Barter/internal/models"
	"github.com/Dbeiser/Barter/internal/repository"

	"github.com/google/uuid"
)

// ItemService lida com a lógica de negócios de itens
type ItemService struct {
	store repository.ItemStore
}

// NewItemService cria um novo serviço de item
func NewItemService(store repository.ItemStore) *ItemService {
	return &ItemService{
		store: store,
	}
}

// CreateItemRequest define os parâmetros para listar um item
type CreateItemRequest struct {
	Name        string   `json:"name" validate:"required"`
	Description string   `json:"description"`
	Category    string   `json:"category" validate:"required"`
	ImageKeys   []string `json:"imageKeys"`
}

// CreateItem lista um novo item em nome do dono
func (s *ItemService) CreateItem(ctx context.Context, ownerID uuid.UUID, req CreateItemRequest) (*models.Item, error) {
	if !models.IsValidCategory(req.Category) {
		return nil, fmt.Errorf("'%s': %w", req.Category, ErrInvalidCategory)
	}

	item := &models.Item{
		ID:          uuid.New(),
		OwnerID:     ownerID,
		Name:        req.Name,
		Description: req.Description,
		Category:    req.Category,
		ImageKeys:   append([]string{}, req.ImageKeys...),
		CreatedAt:   time.Now(),
	}

	if err := s.store.CreateItem(ctx, item); err != nil {
		log.Printf("Erro ao salvar item no store: %v", err)
		return nil, fmt.Errorf("erro interno ao salvar item")
	}

	return item, nil
}

// GetItemByID busca um item pelo ID
func (s *ItemService) GetItemByID(ctx context.Context, id uuid.UUID) (*models.Item, error) {
	item, err := s.store.GetItemByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrItemNotFound
		}
		log.Printf("Erro ao buscar item no store: %v", err)
		return nil, fmt.Errorf("erro interno ao buscar item")
	}
	return item, nil
}

// GetAllItems lista todos os itens do marketplace
func (s *ItemService) GetAllItems(ctx context.Context) ([]*models.Item, error) {
	items, err := s.store.GetAllItems(ctx)
	if err != nil {
		log.Printf("Erro ao buscar itens no store: %v", err)
		return nil, fmt.Errorf("erro interno ao buscar itens")
	}
	return items, nil
}

// GetItemsByOwner lista os itens de um dono. Filtro puro, sem paginação;
// a ordem é a ordem natural do storage.
func (s *ItemService) GetItemsByOwner(ctx context.Context, ownerID uuid.UUID) ([]*models.Item, error) {
	items, err := s.store.GetItemsByOwner(ctx, ownerID)
	if err != nil {
		log.Printf("Erro ao buscar itens do dono no store: %v", err)
		return nil, fmt.Errorf("erro interno ao buscar itens")
	}
	return items, nil
}

// UpdateItem atualiza um item do dono. As chaves de imagem são
// substituídas por inteiro: as referências antigas são descartadas, não
// mescladas (e os blobs antigos continuam existindo no bucket).
func (s *ItemService) UpdateItem(ctx context.Context, ownerID, itemID uuid.UUID, req CreateItemRequest) (*models.Item, error) {
	if !models.IsValidCategory(req.Category) {
		return nil, fmt.Errorf("'%s': %w", req.Category, ErrInvalidCategory)
	}

	item, err := s.store.GetItemByID(ctx, itemID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrItemNotFound
		}
		log.Printf("Erro ao buscar item no store: %v", err)
		return nil, fmt.Errorf("erro interno ao buscar item")
	}

	if item.OwnerID != ownerID {
		return nil, ErrNotOwner
	}

	item.Name = req.Name
	item.Description = req.Description
	item.Category = req.Category
	item.ImageKeys = append([]string{}, req.ImageKeys...)

	if err := s.store.UpdateItem(ctx, item); err != nil {
		log.Printf("Erro ao atualizar item no store: %v", err)
		return nil, fmt.Errorf("erro interno ao atualizar item")
	}

	return item, nil
}

// DeleteItem apaga um item do dono
func (s *ItemService) DeleteItem(ctx context.Context, ownerID, itemID uuid.UUID) error {
	item, err := s.store.GetItemByID(ctx, itemID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrItemNotFound
		}
		log.Printf("Erro ao buscar item no store: %v", err)
		return fmt.Errorf("erro interno ao buscar item")
	}

	if item.OwnerID != ownerID {
		return ErrNotOwner
	}

	if err := s.store.DeleteItem(ctx, itemID); err != nil {
		log.Printf("Erro ao apagar item no store: %v", err)
		return fmt.Errorf("erro interno ao apagar item")
	}
	return nil
}
