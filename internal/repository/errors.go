package repository

import "errors"

// Erros de repositório, comuns às implementações Postgres e em-memória.
// Os serviços traduzem estes erros para os erros de negócio deles.
var (
	// ErrNotFound indica que o registro procurado não existe
	ErrNotFound = errors.New("registro não encontrado")

	// ErrDuplicate indica violação de unicidade (ex: e-mail já cadastrado)
	ErrDuplicate = errors.New("registro duplicado")
)
