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

// TradeService é o motor de negociação de trocas
type TradeService struct {
	store repository.Store // Precisa de UserStore, ItemStore e TradeStore
}

// NewTradeService cria um novo serviço de troca
func NewTradeService(store repository.Store) *TradeService {
	return &TradeService{
		store: store,
	}
}

// parseStatus valida um valor de status vindo do cliente.
// Voltar para "Requested" não é uma operação definida, então só os três
// status de resposta são aceitos.
func parseStatus(raw string) (models.TradeStatus, error) {
	switch models.TradeStatus(raw) {
	case models.StatusAccepted, models.StatusRejected, models.StatusCountered:
		return models.TradeStatus(raw), nil
	}
	return "", fmt.Errorf("'%s': %w", raw, ErrInvalidStatus)
}

// CreateTrade valida e registra uma nova proposta de troca.
//
// A sequência ler-validar-escrever não roda dentro de uma transação:
// duas criações concorrentes referenciando o mesmo item podem ambas
// passar na checagem de posse antes de qualquer escrita. Limitação
// conhecida e aceita; a posse é checada no momento da proposta.
//
// Coleções vazias e trocas consigo mesmo não são rejeitadas aqui.
func (s *TradeService) CreateTrade(ctx context.Context, initiatorID, receiverID uuid.UUID, offeredItemIDs, soughtItemIDs []uuid.UUID) (*models.Trade, error) {
	// 1. Resolver as duas partes
	if _, err := s.store.GetUserByID(ctx, initiatorID); err != nil {
		return nil, fmt.Errorf("proponente '%s': %w", initiatorID, ErrInvalidParty)
	}
	if _, err := s.store.GetUserByID(ctx, receiverID); err != nil {
		return nil, fmt.Errorf("destinatário '%s': %w", receiverID, ErrInvalidParty)
	}

	// 2. Todo item ofertado deve pertencer ao proponente agora
	if err := s.checkOwnership(ctx, initiatorID, offeredItemIDs, ErrInvalidOffer); err != nil {
		return nil, err
	}

	// 3. Todo item solicitado deve pertencer ao destinatário agora
	if err := s.checkOwnership(ctx, receiverID, soughtItemIDs, ErrInvalidRequest); err != nil {
		return nil, err
	}

	// 4. Montar a troca. As coleções são copiadas por valor e não serão
	// revalidadas em leituras futuras.
	now := time.Now()
	trade := &models.Trade{
		ID:             uuid.New(),
		InitiatorID:    initiatorID,
		ReceiverID:     receiverID,
		OfferedItemIDs: append([]uuid.UUID{}, offeredItemIDs...),
		SoughtItemIDs:  append([]uuid.UUID{}, soughtItemIDs...),
		Status:         models.StatusRequested,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	// 5. Persistir. Nenhum outro efeito colateral (notificação em tempo
	// real fica para um colaborador futuro).
	if err := s.store.CreateTrade(ctx, trade); err != nil {
		log.Printf("Erro ao salvar troca no store: %v", err)
		return nil, fmt.Errorf("erro interno ao salvar troca")
	}

	return trade, nil
}

// checkOwnership verifica se todos os IDs pertencem ao usuário,
// retornando o erro indicado (com o primeiro ID infrator) caso contrário
func (s *TradeService) checkOwnership(ctx context.Context, userID uuid.UUID, itemIDs []uuid.UUID, mismatchErr error) error {
	owned, err := s.store.GetItemsByOwner(ctx, userID)
	if err != nil {
		log.Printf("Erro ao buscar itens do usuário %s: %v", userID, err)
		return fmt.Errorf("erro interno ao validar posse dos itens")
	}

	ownedSet := make(map[uuid.UUID]struct{}, len(owned))
	for _, item := range owned {
		ownedSet[item.ID] = struct{}{}
	}

	for _, id := range itemIDs {
		if _, ok := ownedSet[id]; !ok {
			return fmt.Errorf("item '%s': %w", id, mismatchErr)
		}
	}
	return nil
}

// UpdateTradeStatus registra a resposta do destinatário a uma proposta.
//
// A autorização é por comparação de valor com o destinatário armazenado;
// quem liga o token de sessão ao actingReceiverID é a camada de cima.
// O status é sobrescrito incondicionalmente: Accepted/Rejected não são
// impostos como terminais aqui.
func (s *TradeService) UpdateTradeStatus(ctx context.Context, tradeID, actingReceiverID uuid.UUID, rawStatus string) (*models.Trade, error) {
	status, err := parseStatus(rawStatus)
	if err != nil {
		return nil, err
	}

	trade, err := s.store.GetTradeByID(ctx, tradeID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrTradeNotFound
		}
		log.Printf("Erro ao buscar troca no store: %v", err)
		return nil, fmt.Errorf("erro interno ao buscar troca")
	}

	if trade.ReceiverID != actingReceiverID {
		return nil, ErrUnauthorized
	}

	trade.Status = status
	trade.UpdatedAt = time.Now()

	if err := s.store.UpdateTrade(ctx, trade); err != nil {
		log.Printf("Erro ao atualizar troca no store: %v", err)
		return nil, fmt.Errorf("erro interno ao atualizar troca")
	}

	return trade, nil
}

// GetTradeByID busca uma troca pelo ID
func (s *TradeService) GetTradeByID(ctx context.Context, id uuid.UUID) (*models.Trade, error) {
	trade, err := s.store.GetTradeByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrTradeNotFound
		}
		log.Printf("Erro ao buscar troca no store: %v", err)
		return nil, fmt.Errorf("erro interno ao buscar troca")
	}
	return trade, nil
}

// ListTradesByInitiator lista as trocas propostas pelo usuário
func (s *TradeService) ListTradesByInitiator(ctx context.Context, initiatorID uuid.UUID) ([]*models.Trade, error) {
	trades, err := s.store.GetTradesByInitiator(ctx, initiatorID)
	if err != nil {
		log.Printf("Erro ao buscar trocas no store: %v", err)
		return nil, fmt.Errorf("erro interno ao buscar trocas")
	}
	return trades, nil
}

// ListTradesByReceiver lista as trocas dirigidas ao usuário
func (s *TradeService) ListTradesByReceiver(ctx context.Context, receiverID uuid.UUID) ([]*models.Trade, error) {
	trades, err := s.store.GetTradesByReceiver(ctx, receiverID)
	if err != nil {
		log.Printf("Erro ao buscar trocas no store: %v", err)
		return nil, fmt.Errorf("erro interno ao buscar trocas")
	}
	return trades, nil
}

// ListPendingTrades monta a visão de exibição das trocas pendentes
// (Requested ou Countered) dirigidas ao destinatário.
//
// Os itens referenciados por todas as trocas são buscados em uma única
// passada. Referências que não resolvem mais (item apagado ou trocado de
// dono depois da criação) são omitidas da projeção, sem erro; a ordem
// original das coleções é preservada para as que resolvem.
func (s *TradeService) ListPendingTrades(ctx context.Context, receiverID uuid.UUID) ([]*models.TradeView, error) {
	trades, err := s.store.GetPendingTradesByReceiver(ctx, receiverID)
	if err != nil {
		log.Printf("Erro ao buscar trocas pendentes no store: %v", err)
		return nil, fmt.Errorf("erro interno ao buscar trocas pendentes")
	}

	// União de todos os IDs de itens referenciados
	idSet := make(map[uuid.UUID]struct{})
	ids := []uuid.UUID{}
	for _, trade := range trades {
		for _, id := range trade.OfferedItemIDs {
			if _, seen := idSet[id]; !seen {
				idSet[id] = struct{}{}
				ids = append(ids, id)
			}
		}
		for _, id := range trade.SoughtItemIDs {
			if _, seen := idSet[id]; !seen {
				idSet[id] = struct{}{}
				ids = append(ids, id)
			}
		}
	}

	items, err := s.store.GetItemsByIDs(ctx, ids)
	if err != nil {
		log.Printf("Erro ao buscar itens das trocas pendentes: %v", err)
		return nil, fmt.Errorf("erro interno ao buscar itens das trocas")
	}

	itemsByID := make(map[uuid.UUID]*models.Item, len(items))
	for _, item := range items {
		itemsByID[item.ID] = item
	}

	views := make([]*models.TradeView, 0, len(trades))
	for _, trade := range trades {
		views = append(views, &models.TradeView{
			ID:           trade.ID,
			InitiatorID:  trade.InitiatorID,
			ReceiverID:   trade.ReceiverID,
			Status:       string(trade.Status),
			OfferedItems: resolveItems(trade.OfferedItemIDs, itemsByID),
			SoughtItems:  resolveItems(trade.SoughtItemIDs, itemsByID),
		})
	}

	return views, nil
}

// resolveItems mapeia IDs para snapshots de item, preservando a ordem e
// descartando silenciosamente os que não resolvem
func resolveItems(ids []uuid.UUID, itemsByID map[uuid.UUID]*models.Item) []*models.Item {
	resolved := make([]*models.Item, 0, len(ids))
	for _, id := range ids {
		if item, ok := itemsByID[id]; ok {
			resolved = append(resolved, item)
		}
	}
	return resolved
}
