package repository

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/Dbeiser/Barter/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStore é a implementação da interface Store para o PostgreSQL.
// As coleções ordenadas (chaves de imagem, IDs de itens de uma troca)
// são colunas text[]/uuid[]; o pgx v5 faz o mapeamento direto para
// []string e []uuid.UUID, preservando a ordem.
type PostgresStore struct {
	db *pgxpool.Pool
}

// NewPostgresStore cria uma nova instância do PostgresStore e pool de conexões
func NewPostgresStore(ctx context.Context, databaseURL string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("não foi possível criar pool de conexão: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		return nil, fmt.Errorf("não foi possível pingar o banco de dados: %w", err)
	}

	log.Println("Pool de conexão com PostgreSQL estabelecido.")
	return &PostgresStore{db: pool}, nil
}

// Close fecha o pool de conexões
func (s *PostgresStore) Close() {
	s.db.Close()
}

// RunMigrations executa o script SQL de migração
func (s *PostgresStore) RunMigrations(ctx context.Context, migrationSQL string) error {
	_, err := s.db.Exec(ctx, migrationSQL)
	if err != nil {
		return fmt.Errorf("falha ao executar migração: %w", err)
	}
	return nil
}

// --- UserStore ---

func (s *PostgresStore) CreateUser(ctx context.Context, user *models.User) error {
	sql := `
        INSERT INTO users (id, email, password_hash, provider, created_at)
        VALUES ($1, $2, $3, $4, $5)`

	_, err := s.db.Exec(ctx, sql,
		user.ID,
		user.Email,
		user.PasswordHash,
		user.Provider,
		user.CreatedAt,
	)

	if err != nil {
		// Verifica se é um erro de violação de constraint (e-mail duplicado)
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // 23505 = unique_violation
			return fmt.Errorf("e-mail '%s': %w", user.Email, ErrDuplicate)
		}
		return fmt.Errorf("falha ao criar usuário: %w", err)
	}
	return nil
}

func (s *PostgresStore) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	sql := `
        SELECT id, email, password_hash, provider, created_at
        FROM users
        WHERE email = $1`

	user := &models.User{}
	err := s.db.QueryRow(ctx, sql, email).Scan(
		&user.ID,
		&user.Email,
		&user.PasswordHash,
		&user.Provider,
		&user.CreatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("usuário '%s': %w", email, ErrNotFound)
		}
		return nil, fmt.Errorf("falha ao buscar usuário por e-mail: %w", err)
	}
	return user, nil
}

func (s *PostgresStore) GetUserByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	sql := `
        SELECT id, email, password_hash, provider, created_at
        FROM users
        WHERE id = $1`

	user := &models.User{}
	err := s.db.QueryRow(ctx, sql, id).Scan(
		&user.ID,
		&user.Email,
		&user.PasswordHash,
		&user.Provider,
		&user.CreatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("usuário com ID '%s': %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("falha ao buscar usuário por ID: %w", err)
	}
	return user, nil
}

func (s *PostgresStore) GetAllUsers(ctx context.Context) ([]*models.User, error) {
	sql := `
        SELECT id, email, password_hash, provider, created_at
        FROM users
        ORDER BY email`

	rows, err := s.db.Query(ctx, sql)
	if err != nil {
		return nil, fmt.Errorf("falha ao buscar todos os usuários: %w", err)
	}
	defer rows.Close()

	// Inicializa como slice vazio para consistência de JSON
	users := []*models.User{}

	for rows.Next() {
		user := &models.User{}
		err := rows.Scan(
			&user.ID,
			&user.Email,
			&user.PasswordHash,
			&user.Provider,
			&user.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("falha ao escanear linha de usuário: %w", err)
		}
		users = append(users, user)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("erro ao iterar sobre os usuários: %w", err)
	}

	return users, nil
}

func (s *PostgresStore) SetUserProvider(ctx context.Context, id uuid.UUID, provider string) error {
	sql := `UPDATE users SET provider = $2 WHERE id = $1`

	tag, err := s.db.Exec(ctx, sql, id, provider)
	if err != nil {
		return fmt.Errorf("falha ao atualizar provedor do usuário: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("usuário com ID '%s': %w", id, ErrNotFound)
	}
	return nil
}

// --- ItemStore ---

func (s *PostgresStore) CreateItem(ctx context.Context, item *models.Item) error {
	sql := `
        INSERT INTO items (id, owner_id, name, description, category, image_keys, created_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := s.db.Exec(ctx, sql,
		item.ID,
		item.OwnerID,
		item.Name,
		item.Description,
		item.Category,
		item.ImageKeys,
		item.CreatedAt,
	)

	if err != nil {
		return fmt.Errorf("falha ao criar item: %w", err)
	}
	return nil
}

func (s *PostgresStore) GetItemByID(ctx context.Context, id uuid.UUID) (*models.Item, error) {
	sql := `
        SELECT id, owner_id, name, description, category, image_keys, created_at
        FROM items
        WHERE id = $1`

	item := &models.Item{}
	err := s.db.QueryRow(ctx, sql, id).Scan(
		&item.ID,
		&item.OwnerID,
		&item.Name,
		&item.Description,
		&item.Category,
		&item.ImageKeys,
		&item.CreatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("item com ID '%s': %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("falha ao buscar item por ID: %w", err)
	}
	return item, nil
}

func (s *PostgresStore) GetItemsByOwner(ctx context.Context, ownerID uuid.UUID) ([]*models.Item, error) {
	sql := `
        SELECT id, owner_id, name, description, category, image_keys, created_at
        FROM items
        WHERE owner_id = $1`

	rows, err := s.db.Query(ctx, sql, ownerID)
	if err != nil {
		return nil, fmt.Errorf("falha ao buscar itens do dono: %w", err)
	}
	defer rows.Close()

	return scanItems(rows)
}

func (s *PostgresStore) GetItemsByIDs(ctx context.Context, ids []uuid.UUID) ([]*models.Item, error) {
	if len(ids) == 0 {
		return []*models.Item{}, nil
	}

	sql := `
        SELECT id, owner_id, name, description, category, image_keys, created_at
        FROM items
        WHERE id = ANY($1)`

	rows, err := s.db.Query(ctx, sql, ids)
	if err != nil {
		return nil, fmt.Errorf("falha ao buscar itens por IDs: %w", err)
	}
	defer rows.Close()

	return scanItems(rows)
}

func (s *PostgresStore) GetAllItems(ctx context.Context) ([]*models.Item, error) {
	sql := `
        SELECT id, owner_id, name, description, category, image_keys, created_at
        FROM items`

	rows, err := s.db.Query(ctx, sql)
	if err != nil {
		return nil, fmt.Errorf("falha ao buscar todos os itens: %w", err)
	}
	defer rows.Close()

	return scanItems(rows)
}

func (s *PostgresStore) UpdateItem(ctx context.Context, item *models.Item) error {
	// image_keys é substituído por inteiro, nunca mesclado
	sql := `
        UPDATE items
        SET name = $2, description = $3, category = $4, image_keys = $5
        WHERE id = $1`

	tag, err := s.db.Exec(ctx, sql,
		item.ID,
		item.Name,
		item.Description,
		item.Category,
		item.ImageKeys,
	)

	if err != nil {
		return fmt.Errorf("falha ao atualizar item: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("item com ID '%s': %w", item.ID, ErrNotFound)
	}
	return nil
}

func (s *PostgresStore) DeleteItem(ctx context.Context, id uuid.UUID) error {
	sql := `DELETE FROM items WHERE id = $1`

	tag, err := s.db.Exec(ctx, sql, id)
	if err != nil {
		return fmt.Errorf("falha ao apagar item: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("item com ID '%s': %w", id, ErrNotFound)
	}
	return nil
}

func (s *PostgresStore) DeleteAllItems(ctx context.Context) error {
	_, err := s.db.Exec(ctx, `DELETE FROM items`)
	if err != nil {
		return fmt.Errorf("falha ao apagar todos os itens: %w", err)
	}
	return nil
}

// scanItems converte o resultado das consultas de item em uma lista
func scanItems(rows pgx.Rows) ([]*models.Item, error) {
	// Importante: inicializa como slice vazio, não nil, para consistência de JSON
	items := []*models.Item{}

	for rows.Next() {
		item := &models.Item{}
		err := rows.Scan(
			&item.ID,
			&item.OwnerID,
			&item.Name,
			&item.Description,
			&item.Category,
			&item.ImageKeys,
			&item.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("falha ao escanear linha de item: %w", err)
		}
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("erro ao iterar sobre os itens: %w", err)
	}

	return items, nil
}

// --- TradeStore ---

func (s *PostgresStore) CreateTrade(ctx context.Context, trade *models.Trade) error {
	sql := `
        INSERT INTO trades (id, initiator_id, receiver_id, offered_item_ids, sought_item_ids, status, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err := s.db.Exec(ctx, sql,
		trade.ID,
		trade.InitiatorID,
		trade.ReceiverID,
		trade.OfferedItemIDs,
		trade.SoughtItemIDs,
		string(trade.Status),
		trade.CreatedAt,
		trade.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("falha ao criar troca: %w", err)
	}
	return nil
}

func (s *PostgresStore) GetTradeByID(ctx context.Context, id uuid.UUID) (*models.Trade, error) {
	sql := `
        SELECT id, initiator_id, receiver_id, offered_item_ids, sought_item_ids, status, created_at, updated_at
        FROM trades
        WHERE id = $1`

	trade := &models.Trade{}
	err := s.db.QueryRow(ctx, sql, id).Scan(
		&trade.ID,
		&trade.InitiatorID,
		&trade.ReceiverID,
		&trade.OfferedItemIDs,
		&trade.SoughtItemIDs,
		&trade.Status,
		&trade.CreatedAt,
		&trade.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("troca com ID '%s': %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("falha ao buscar troca por ID: %w", err)
	}
	return trade, nil
}

func (s *PostgresStore) GetTradesByInitiator(ctx context.Context, initiatorID uuid.UUID) ([]*models.Trade, error) {
	sql := `
        SELECT id, initiator_id, receiver_id, offered_item_ids, sought_item_ids, status, created_at, updated_at
        FROM trades
        WHERE initiator_id = $1`

	rows, err := s.db.Query(ctx, sql, initiatorID)
	if err != nil {
		return nil, fmt.Errorf("falha ao buscar trocas do proponente: %w", err)
	}
	defer rows.Close()

	return scanTrades(rows)
}

func (s *PostgresStore) GetTradesByReceiver(ctx context.Context, receiverID uuid.UUID) ([]*models.Trade, error) {
	sql := `
        SELECT id, initiator_id, receiver_id, offered_item_ids, sought_item_ids, status, created_at, updated_at
        FROM trades
        WHERE receiver_id = $1`

	rows, err := s.db.Query(ctx, sql, receiverID)
	if err != nil {
		return nil, fmt.Errorf("falha ao buscar trocas do destinatário: %w", err)
	}
	defer rows.Close()

	return scanTrades(rows)
}

func (s *PostgresStore) GetPendingTradesByReceiver(ctx context.Context, receiverID uuid.UUID) ([]*models.Trade, error) {
	sql := `
        SELECT id, initiator_id, receiver_id, offered_item_ids, sought_item_ids, status, created_at, updated_at
        FROM trades
        WHERE receiver_id = $1 AND status = ANY($2)`

	pending := []string{string(models.StatusRequested), string(models.StatusCountered)}

	rows, err := s.db.Query(ctx, sql, receiverID, pending)
	if err != nil {
		return nil, fmt.Errorf("falha ao buscar trocas pendentes: %w", err)
	}
	defer rows.Close()

	return scanTrades(rows)
}

func (s *PostgresStore) UpdateTrade(ctx context.Context, trade *models.Trade) error {
	sql := `
        UPDATE trades
        SET status = $2, updated_at = $3
        WHERE id = $1`

	tag, err := s.db.Exec(ctx, sql, trade.ID, string(trade.Status), trade.UpdatedAt)
	if err != nil {
		return fmt.Errorf("falha ao atualizar troca: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("troca com ID '%s': %w", trade.ID, ErrNotFound)
	}
	return nil
}

func (s *PostgresStore) DeleteAllTrades(ctx context.Context) error {
	_, err := s.db.Exec(ctx, `DELETE FROM trades`)
	if err != nil {
		return fmt.Errorf("falha ao apagar todas as trocas: %w", err)
	}
	return nil
}

// scanTrades converte o resultado das consultas de troca em uma lista
func scanTrades(rows pgx.Rows) ([]*models.Trade, error) {
	trades := []*models.Trade{}

	for rows.Next() {
		trade := &models.Trade{}
		err := rows.Scan(
			&trade.ID,
			&trade.InitiatorID,
			&trade.ReceiverID,
			&trade.OfferedItemIDs,
			&trade.SoughtItemIDs,
			&trade.Status,
			&trade.CreatedAt,
			&trade.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("falha ao escanear linha de troca: %w", err)
		}
		trades = append(trades, trade)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("erro ao iterar sobre as trocas: %w", err)
	}

	return trades, nil
}
