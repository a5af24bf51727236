package models

import (
	"time"

	"github.com/google/uuid"
)

// User representa um usuário do sistema.
// Um usuário se cadastra com senha OU chega via OAuth (campo Provider).
// Linhas antigas podem não ter nenhum dos dois; o login OAuth preenche
// o Provider que estiver faltando.
type User struct {
	ID           uuid.UUID `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"` // Nunca expor em JSON
	Provider     string    `json:"provider,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
}

// ItemCategories é o conjunto fechado de categorias aceitas
var ItemCategories = []string{
	"Furniture",
	"Electronics",
	"Clothing",
	"Books",
	"Toys",
	"Kitchen",
	"Tools",
	"Sports",
	"Decor",
	"Antiques",
	"Services",
	"Other",
}

// IsValidCategory verifica se a categoria pertence ao conjunto fechado
func IsValidCategory(category string) bool {
	for _, c := range ItemCategories {
		if c == category {
			return true
		}
	}
	return false
}

// Item representa um bem ou serviço listado para troca.
// ImageKeys guarda as chaves dos objetos no S3, na ordem de exibição.
// As chaves são substituídas por inteiro na atualização do item; apagar
// uma referência NÃO apaga o blob correspondente no bucket.
type Item struct {
	ID          uuid.UUID `json:"id"`
	OwnerID     uuid.UUID `json:"ownerId"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Category    string    `json:"category"`
	ImageKeys   []string  `json:"imageKeys"`
	CreatedAt   time.Time `json:"createdAt"`
}

// TradeStatus é o estado de uma proposta de troca
type TradeStatus string

const (
	StatusRequested TradeStatus = "Requested"
	StatusAccepted  TradeStatus = "Accepted"
	StatusRejected  TradeStatus = "Rejected"
	StatusCountered TradeStatus = "Countered"
)

// Trade representa uma proposta de troca entre dois usuários.
// As coleções de itens são capturadas por valor na criação e não são
// revalidadas em leituras posteriores: um item apagado depois da criação
// vira uma referência obsoleta, resolvida como ausente na projeção.
type Trade struct {
	ID             uuid.UUID   `json:"id"`
	InitiatorID    uuid.UUID   `json:"initiatorId"`
	ReceiverID     uuid.UUID   `json:"receiverId"`
	OfferedItemIDs []uuid.UUID `json:"offeredItemIds"`
	SoughtItemIDs  []uuid.UUID `json:"soughtItemIds"`
	Status         TradeStatus `json:"status"`
	CreatedAt      time.Time   `json:"createdAt"`
	UpdatedAt      time.Time   `json:"updatedAt"`
}

// TradeView é a projeção de exibição de uma troca, com os IDs de itens
// resolvidos para snapshots dos itens atuais. Referências que não
// resolvem são omitidas das listas, mantendo a ordem original.
type TradeView struct {
	ID           uuid.UUID `json:"id"`
	InitiatorID  uuid.UUID `json:"initiatorId"`
	ReceiverID   uuid.UUID `json:"receiverId"`
	Status       string    `json:"status"`
	OfferedItems []*Item   `json:"offeredItems"`
	SoughtItems  []*Item   `json:"soughtItems"`
}
