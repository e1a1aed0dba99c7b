package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/mpataki/agentbuilder/internal/models"
)

var (
	ErrNotFound  = errors.New("agent not found")
	ErrAmbiguous = errors.New("agent id prefix is ambiguous")
)

type Storage struct {
	db  *sql.DB
	now func() time.Time
}

func New(dbPath string) (*Storage, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, err
	}
	// sqlite allows one writer; a single connection avoids SQLITE_BUSY.
	db.SetMaxOpenConns(1)

	s := &Storage{db: db, now: time.Now}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, err
	}

	return s, nil
}

func (s *Storage) Close() error {
	return s.db.Close()
}

func (s *Storage) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS agents (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		agent_type TEXT NOT NULL,
		config TEXT NOT NULL,
		created_at INTEGER NOT NULL,
		updated_at INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS messages (
		agent_id TEXT NOT NULL REFERENCES agents(id),
		seq INTEGER NOT NULL,
		id TEXT NOT NULL,
		role TEXT NOT NULL,
		content TEXT NOT NULL,
		PRIMARY KEY (agent_id, seq)
	);

	CREATE INDEX IF NOT EXISTS idx_agents_updated ON agents(updated_at);
	CREATE INDEX IF NOT EXISTS idx_messages_agent ON messages(agent_id);
	`

	_, err := s.db.Exec(schema)
	return err
}

// CreateAgent inserts the agent and its transcript. An empty ID is filled in.
func (s *Storage) CreateAgent(ctx context.Context, agent *models.PublishedAgent) error {
	if agent.ID == "" {
		agent.ID = uuid.NewString()
	}
	now := s.now().UTC()
	agent.CreatedAt = now
	agent.UpdatedAt = now

	cfg, err := json.Marshal(agent.Config)
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	return s.inTx(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO agents (id, name, agent_type, config, created_at, updated_at)
			 VALUES (?, ?, ?, ?, ?, ?)`,
			agent.ID, agent.Config.Name, agent.Config.Type.String(), string(cfg), now.UnixNano(), now.UnixNano(),
		)
		if err != nil {
			return err
		}
		return insertMessages(ctx, tx, agent.ID, agent.Transcript)
	})
}

// UpdateAgent stores the config and replaces the transcript.
func (s *Storage) UpdateAgent(ctx context.Context, agent *models.PublishedAgent) error {
	cfg, err := json.Marshal(agent.Config)
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	now := s.now().UTC()

	err = s.inTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx,
			`UPDATE agents SET name = ?, agent_type = ?, config = ?, updated_at = ? WHERE id = ?`,
			agent.Config.Name, agent.Config.Type.String(), string(cfg), now.UnixNano(), agent.ID,
		)
		if err != nil {
			return err
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return ErrNotFound
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM messages WHERE agent_id = ?`, agent.ID); err != nil {
			return err
		}
		return insertMessages(ctx, tx, agent.ID, agent.Transcript)
	})
	if err != nil {
		return err
	}
	agent.UpdatedAt = now
	return nil
}

func (s *Storage) GetAgent(ctx context.Context, id string) (*models.PublishedAgent, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, config, created_at, updated_at FROM agents WHERE id = ?`, id,
	)
	agent, err := scanAgent(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	agent.Transcript, err = s.GetTranscript(ctx, id)
	if err != nil {
		return nil, err
	}
	return agent, nil
}

// ListAgents returns agents most recently updated first, without transcripts.
func (s *Storage) ListAgents(ctx context.Context, limit int) ([]*models.PublishedAgent, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, config, created_at, updated_at FROM agents ORDER BY updated_at DESC LIMIT ?`, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var agents []*models.PublishedAgent
	for rows.Next() {
		agent, err := scanAgent(rows)
		if err != nil {
			return nil, err
		}
		agents = append(agents, agent)
	}

	return agents, rows.Err()
}

func (s *Storage) DeleteAgent(ctx context.Context, id string) error {
	return s.inTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM messages WHERE agent_id = ?`, id); err != nil {
			return err
		}
		res, err := tx.ExecContext(ctx, `DELETE FROM agents WHERE id = ?`, id)
		if err != nil {
			return err
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return ErrNotFound
		}
		return nil
	})
}

func (s *Storage) GetTranscript(ctx context.Context, agentID string) ([]models.Message, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, role, content FROM messages WHERE agent_id = ? ORDER BY seq`, agentID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var msgs []models.Message
	for rows.Next() {
		var m models.Message
		var role string
		if err := rows.Scan(&m.ID, &role, &m.Content); err != nil {
			return nil, err
		}
		m.Role = models.MessageRole(role)
		msgs = append(msgs, m)
	}

	return msgs, rows.Err()
}

// ResolveID expands a unique id prefix to the full agent id.
func (s *Storage) ResolveID(ctx context.Context, prefix string) (string, error) {
	prefix = strings.TrimSpace(prefix)
	if prefix == "" {
		return "", ErrNotFound
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id FROM agents WHERE substr(id, 1, ?) = ? LIMIT 2`, len(prefix), prefix,
	)
	if err != nil {
		return "", err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return "", err
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return "", err
	}

	switch len(ids) {
	case 0:
		return "", ErrNotFound
	case 1:
		return ids[0], nil
	default:
		return "", ErrAmbiguous
	}
}

type scanner interface {
	Scan(dest ...any) error
}

func scanAgent(row scanner) (*models.PublishedAgent, error) {
	var agent models.PublishedAgent
	var cfg string
	var createdAt, updatedAt int64

	if err := row.Scan(&agent.ID, &cfg, &createdAt, &updatedAt); err != nil {
		return nil, err
	}

	agent.Config = &models.AgentConfig{}
	if err := json.Unmarshal([]byte(cfg), agent.Config); err != nil {
		return nil, fmt.Errorf("failed to decode config for agent %s: %w", agent.ID, err)
	}
	agent.CreatedAt = time.Unix(0, createdAt).UTC()
	agent.UpdatedAt = time.Unix(0, updatedAt).UTC()

	return &agent, nil
}

func insertMessages(ctx context.Context, tx *sql.Tx, agentID string, msgs []models.Message) error {
	for i, m := range msgs {
		id := m.ID
		if id == "" {
			id = uuid.NewString()
		}
		_, err := tx.ExecContext(ctx,
			`INSERT INTO messages (id, agent_id, seq, role, content) VALUES (?, ?, ?, ?, ?)`,
			id, agentID, i, string(m.Role), m.Content,
		)
		if err != nil {
			return err
		}
	}
	return nil
}

func (s *Storage) inTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	if err := fn(tx); err != nil {
		tx.Rollback()
		return err
	}
	return tx.Commit()
}
