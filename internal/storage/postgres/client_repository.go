package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/dualtech/ordenes-api/internal/domain"
)

const opTimeout = 5 * time.Second

type clientRepository struct {
	db *sql.DB
}

// NewClientRepository создаёт PostgreSQL-реализацию ClientRepository.
func NewClientRepository(store *Store) domain.ClientRepository {
	return &clientRepository{db: store.DB()}
}

func (r *clientRepository) Create(client domain.Client) (domain.Client, error) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	err := r.db.QueryRowContext(ctx, `
		INSERT INTO clients (name, cedula)
		VALUES ($1, $2)
		RETURNING id, created_at, updated_at
	`, client.Name, client.Cedula).Scan(&client.ID, &client.CreatedAt, &client.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.Client{}, domain.ErrClientCedulaTaken
		}
		return domain.Client{}, fmt.Errorf("insert client: %w", err)
	}
	return client, nil
}

func (r *clientRepository) Get(id domain.ID) (domain.Client, error) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	var client domain.Client
	err := r.db.QueryRowContext(ctx, `
		SELECT id, name, cedula, created_at, updated_at
		FROM clients
		WHERE id = $1
	`, id).Scan(&client.ID, &client.Name, &client.Cedula, &client.CreatedAt, &client.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Client{}, domain.NewClientNotFound(id)
		}
		return domain.Client{}, fmt.Errorf("select client: %w", err)
	}
	return client, nil
}

func (r *clientRepository) List() ([]domain.Client, error) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name, cedula, created_at, updated_at
		FROM clients
		ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("list clients: %w", err)
	}
	defer rows.Close()

	clients := make([]domain.Client, 0)
	for rows.Next() {
		var client domain.Client
		if err := rows.Scan(&client.ID, &client.Name, &client.Cedula, &client.CreatedAt, &client.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan client row: %w", err)
		}
		clients = append(clients, client)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate client rows: %w", err)
	}
	return clients, nil
}

func (r *clientRepository) Update(client domain.Client) (domain.Client, error) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	err := r.db.QueryRowContext(ctx, `
		UPDATE clients
		SET name = $2, cedula = $3, updated_at = NOW()
		WHERE id = $1
		RETURNING created_at, updated_at
	`, client.ID, client.Name, client.Cedula).Scan(&client.CreatedAt, &client.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Client{}, domain.NewClientNotFound(client.ID)
		}
		if isUniqueViolation(err) {
			return domain.Client{}, domain.ErrClientCedulaTaken
		}
		return domain.Client{}, fmt.Errorf("update client: %w", err)
	}
	return client, nil
}

func (r *clientRepository) Delete(id domain.ID) error {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	res, err := r.db.ExecContext(ctx, `DELETE FROM clients WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete client: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete client rows affected: %w", err)
	}
	if affected == 0 {
		return domain.NewClientNotFound(id)
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}

var _ domain.ClientRepository = (*clientRepository)(nil)
