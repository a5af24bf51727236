package service

import "errors"

// Erros de negócio, distinguíveis pelos handlers via errors.Is.
// Nenhum deles é fatal: uma operação que falha não deixa estado parcial,
// pois toda validação acontece antes de qualquer escrita.
var (
	ErrUserNotFound       = errors.New("usuário não encontrado")
	ErrItemNotFound       = errors.New("item não encontrado")
	ErrTradeNotFound      = errors.New("troca não encontrada")
	ErrEmailTaken         = errors.New("e-mail já cadastrado")
	ErrInvalidCredentials = errors.New("credenciais inválidas")
	ErrInvalidCategory    = errors.New("categoria de item inválida")

	// ErrInvalidParty: proponente ou destinatário da troca não existe
	ErrInvalidParty = errors.New("participante da troca não encontrado")
	// ErrInvalidOffer: um item ofertado não pertence ao proponente
	ErrInvalidOffer = errors.New("item ofertado não pertence ao proponente")
	// ErrInvalidRequest: um item solicitado não pertence ao destinatário
	ErrInvalidRequest = errors.New("item solicitado não pertence ao destinatário")
	// ErrUnauthorized: alguém que não é o destinatário tentou responder
	ErrUnauthorized = errors.New("apenas o destinatário pode responder à troca")
	// ErrInvalidStatus: valor de status não reconhecido
	ErrInvalidStatus = errors.New("status de troca inválido")
	// ErrNotOwner: tentativa de alterar/apagar item de outro usuário
	ErrNotOwner = errors.New("item não pertence ao usuário")
)
