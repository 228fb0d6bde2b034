package lotto

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// SQLiteStore is a file-backed Store and UserStore on sqlite3
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (and creates if needed) the database at path. WAL mode
// plus a single connection keeps writers from tripping over SQLITE_BUSY.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(1)

	s := &SQLiteStore{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Close closes the underlying database
func (s *SQLiteStore) Close() error { return s.db.Close() }

// DB exposes the underlying handle for maintenance tooling
func (s *SQLiteStore) DB() *sql.DB { return s.db }

func (s *SQLiteStore) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS draws (
		id TEXT PRIMARY KEY,
		draw_date TIMESTAMP NOT NULL,
		winning_numbers TEXT,
		status TEXT NOT NULL DEFAULT 'scheduled',
		total_prize REAL NOT NULL,
		tickets_sold INTEGER NOT NULL DEFAULT 0,
		created_at TIMESTAMP NOT NULL
	);
	CREATE TABLE IF NOT EXISTS tickets (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		draw_id TEXT NOT NULL,
		numbers TEXT NOT NULL,
		purchase_date TIMESTAMP NOT NULL,
		price REAL NOT NULL,
		is_winner INTEGER NOT NULL DEFAULT 0,
		FOREIGN KEY (draw_id) REFERENCES draws(id)
	);
	CREATE TABLE IF NOT EXISTS users (
		id TEXT PRIMARY KEY,
		email TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL,
		first_name TEXT NOT NULL DEFAULT '',
		last_name TEXT NOT NULL DEFAULT '',
		role TEXT NOT NULL DEFAULT 'user',
		created_at TIMESTAMP NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_draws_status_date ON draws(status, draw_date);
	CREATE INDEX IF NOT EXISTS idx_tickets_draw ON tickets(draw_id);
	CREATE INDEX IF NOT EXISTS idx_tickets_user ON tickets(user_id);
	`

	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("failed to migrate schema: %w", err)
	}
	return nil
}

// CreateDraw persists a new draw and fills in its ID and CreatedAt
func (s *SQLiteStore) CreateDraw(ctx context.Context, draw *Draw) error {
	draw.ID = newID()
	draw.CreatedAt = time.Now()

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO draws (id, draw_date, winning_numbers, status, total_prize, tickets_sold, created_at)
		 VALUES (?, ?, NULL, ?, ?, 0, ?)`,
		draw.ID, draw.DrawDate, draw.Status, draw.TotalPrize, draw.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert draw: %w", err)
	}
	return nil
}

// GetCurrentDraw returns the open draw with the earliest draw date, or nil
func (s *SQLiteStore) GetCurrentDraw(ctx context.Context) (*Draw, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, draw_date, winning_numbers, status, total_prize, tickets_sold, created_at
		 FROM draws
		 WHERE status IN ('scheduled', 'active')
		 ORDER BY draw_date ASC
		 LIMIT 1`)

	draw, err := scanDraw(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query current draw: %w", err)
	}
	return draw, nil
}

// GetRecentDraws returns up to limit draws ordered by draw date descending
func (s *SQLiteStore) GetRecentDraws(ctx context.Context, limit int) ([]*Draw, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, draw_date, winning_numbers, status, total_prize, tickets_sold, created_at
		 FROM draws
		 ORDER BY draw_date DESC
		 LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query recent draws: %w", err)
	}
	defer rows.Close()

	draws := make([]*Draw, 0)
	for rows.Next() {
		draw, err := scanDraw(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan draw: %w", err)
		}
		draws = append(draws, draw)
	}
	return draws, rows.Err()
}

// UpdateWinningNumbers completes a draw with its winning numbers. The UPDATE
// is guarded on status, so only the first conduct attempt takes effect.
func (s *SQLiteStore) UpdateWinningNumbers(ctx context.Context, drawID string, numbers NumberSet) (*Draw, error) {
	encoded, err := json.Marshal(numbers.Sorted())
	if err != nil {
		return nil, fmt.Errorf("failed to encode winning numbers: %w", err)
	}

	res, err := s.db.ExecContext(ctx,
		`UPDATE draws SET winning_numbers = ?, status = ?
		 WHERE id = ? AND status != ?`,
		string(encoded), DrawStatusCompleted, drawID, DrawStatusCompleted)
	if err != nil {
		return nil, fmt.Errorf("failed to update winning numbers: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to read affected rows: %w", err)
	}
	if affected == 0 {
		draw, err := s.GetDraw(ctx, drawID)
		if err != nil {
			return nil, err
		}
		if draw == nil {
			return nil, ErrDrawNotFound
		}
		return nil, ErrDrawAlreadyCompleted
	}

	return s.GetDraw(ctx, drawID)
}

// GetDraw returns the draw with the given ID, or nil when none
func (s *SQLiteStore) GetDraw(ctx context.Context, drawID string) (*Draw, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, draw_date, winning_numbers, status, total_prize, tickets_sold, created_at
		 FROM draws WHERE id = ?`, drawID)

	draw, err := scanDraw(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query draw: %w", err)
	}
	return draw, nil
}

// CreateTicket persists a new ticket and increments the draw's sold counter
// in one transaction
func (s *SQLiteStore) CreateTicket(ctx context.Context, ticket *Ticket) error {
	encoded, err := json.Marshal(ticket.Numbers)
	if err != nil {
		return fmt.Errorf("failed to encode ticket numbers: %w", err)
	}

	ticket.ID = newID()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO tickets (id, user_id, draw_id, numbers, purchase_date, price, is_winner)
		 VALUES (?, ?, ?, ?, ?, ?, 0)`,
		ticket.ID, ticket.UserID, ticket.DrawID, string(encoded), ticket.PurchaseDate, ticket.Price); err != nil {
		return fmt.Errorf("failed to insert ticket: %w", err)
	}

	res, err := tx.ExecContext(ctx,
		`UPDATE draws SET tickets_sold = tickets_sold + 1 WHERE id = ?`, ticket.DrawID)
	if err != nil {
		return fmt.Errorf("failed to increment sold counter: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if affected == 0 {
		return ErrDrawNotFound
	}

	return tx.Commit()
}

// GetTicketsForDraw returns every ticket purchased for the draw
func (s *SQLiteStore) GetTicketsForDraw(ctx context.Context, drawID string) ([]*Ticket, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, user_id, draw_id, numbers, purchase_date, price, is_winner
		 FROM tickets WHERE draw_id = ?`, drawID)
	if err != nil {
		return nil, fmt.Errorf("failed to query tickets: %w", err)
	}
	defer rows.Close()

	return scanTickets(rows)
}

// GetTicketsForUser returns the user's tickets, most recent purchase first
func (s *SQLiteStore) GetTicketsForUser(ctx context.Context, userID string) ([]*Ticket, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, user_id, draw_id, numbers, purchase_date, price, is_winner
		 FROM tickets WHERE user_id = ?
		 ORDER BY purchase_date DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query tickets: %w", err)
	}
	defer rows.Close()

	return scanTickets(rows)
}

// SetTicketWinner persists the winner flag on a single ticket
func (s *SQLiteStore) SetTicketWinner(ctx context.Context, ticketID string, isWinner bool) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE tickets SET is_winner = ? WHERE id = ?`, isWinner, ticketID)
	if err != nil {
		return fmt.Errorf("failed to update ticket: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("ticket not found: %s", ticketID)
	}
	return nil
}

// CreateUser persists a new user and fills in its ID and CreatedAt
func (s *SQLiteStore) CreateUser(ctx context.Context, user *User) error {
	user.ID = newID()
	user.CreatedAt = time.Now()

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO users (id, email, password_hash, first_name, last_name, role, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		user.ID, user.Email, user.PasswordHash, user.FirstName, user.LastName, user.Role, user.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert user: %w", err)
	}
	return nil
}

// GetUserByEmail returns the user with the given email, or nil when none
func (s *SQLiteStore) GetUserByEmail(ctx context.Context, email string) (*User, error) {
	return s.queryUser(ctx, `SELECT id, email, password_hash, first_name, last_name, role, created_at
		FROM users WHERE email = ?`, email)
}

// GetUserByID returns the user with the given ID, or nil when none
func (s *SQLiteStore) GetUserByID(ctx context.Context, id string) (*User, error) {
	return s.queryUser(ctx, `SELECT id, email, password_hash, first_name, last_name, role, created_at
		FROM users WHERE id = ?`, id)
}

// ListUsers returns every registered user, oldest account first
func (s *SQLiteStore) ListUsers(ctx context.Context) ([]*User, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, email, password_hash, first_name, last_name, role, created_at
		 FROM users ORDER BY created_at ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query users: %w", err)
	}
	defer rows.Close()

	users := make([]*User, 0)
	for rows.Next() {
		user := &User{}
		if err := rows.Scan(&user.ID, &user.Email, &user.PasswordHash,
			&user.FirstName, &user.LastName, &user.Role, &user.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, user)
	}
	return users, rows.Err()
}

func (s *SQLiteStore) queryUser(ctx context.Context, query string, arg any) (*User, error) {
	user := &User{}
	err := s.db.QueryRowContext(ctx, query, arg).Scan(
		&user.ID, &user.Email, &user.PasswordHash,
		&user.FirstName, &user.LastName, &user.Role, &user.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query user: %w", err)
	}
	return user, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDraw(row rowScanner) (*Draw, error) {
	draw := &Draw{}
	var numbers sql.NullString

	err := row.Scan(&draw.ID, &draw.DrawDate, &numbers, &draw.Status,
		&draw.TotalPrize, &draw.TicketsSold, &draw.CreatedAt)
	if err != nil {
		return nil, err
	}

	if numbers.Valid && numbers.String != "" {
		if err := json.Unmarshal([]byte(numbers.String), &draw.WinningNumbers); err != nil {
			return nil, fmt.Errorf("failed to decode winning numbers: %w", err)
		}
	}
	return draw, nil
}

func scanTickets(rows *sql.Rows) ([]*Ticket, error) {
	tickets := make([]*Ticket, 0)
	for rows.Next() {
		ticket := &Ticket{}
		var numbers string

		if err := rows.Scan(&ticket.ID, &ticket.UserID, &ticket.DrawID, &numbers,
			&ticket.PurchaseDate, &ticket.Price, &ticket.IsWinner); err != nil {
			return nil, fmt.Errorf("failed to scan ticket: %w", err)
		}
		if err := json.Unmarshal([]byte(numbers), &ticket.Numbers); err != nil {
			return nil, fmt.Errorf("failed to decode ticket numbers: %w", err)
		}
		tickets = append(tickets, ticket)
	}
	return tickets, rows.Err()
}
