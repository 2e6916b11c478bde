package state

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
)

// Archive records closed analysis sessions. Implementations must tolerate
// partial states: a session can close without a trade result.
type Archive interface {
	Record(ctx context.Context, st *AnalysisState) error
}

// ArchivedAssessment is the audit row written when a session closes.
type ArchivedAssessment struct {
	bun.BaseModel `bun:"table:assessments,alias:a"`

	ID             int64     `bun:"id,pk,autoincrement"`
	SessionID      string    `bun:"session_id,notnull"`
	Query          string    `bun:"query"`
	InputKind      string    `bun:"input_kind"`
	Recommendation string    `bun:"recommendation"`
	Confidence     float64   `bun:"confidence"`
	RiskReward     float64   `bun:"risk_reward"`
	Payload        []byte    `bun:"payload,type:jsonb"`
	TradeResult    string    `bun:"trade_result"`
	CreatedAt      time.Time `bun:"created_at,notnull,default:current_timestamp"`
}

type ArchiveConfig struct {
	DSN     string        `envconfig:"DSN" split_words:"true" required:"true"`
	Timeout time.Duration `envconfig:"TIMEOUT" split_words:"true" default:"10s"`
}

// PostgresArchive persists assessment audit rows through bun.
type PostgresArchive struct {
	db      *bun.DB
	timeout time.Duration
}

func NewPostgresArchive(cfg ArchiveConfig) (*PostgresArchive, error) {
	dsn := strings.TrimSpace(cfg.DSN)
	if dsn == "" {
		return nil, errors.New("archive dsn is required")
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(dsn)))
	db := bun.NewDB(sqldb, pgdialect.New())

	return &PostgresArchive{db: db, timeout: timeout}, nil
}

// Init creates the assessments table if it does not exist.
func (p *PostgresArchive) Init(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	_, err := p.db.NewCreateTable().
		Model((*ArchivedAssessment)(nil)).
		IfNotExists().
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("create assessments table: %w", err)
	}
	return nil
}

func (p *PostgresArchive) Record(ctx context.Context, st *AnalysisState) error {
	if st == nil {
		return ErrNilState
	}

	row := &ArchivedAssessment{
		SessionID:   st.SessionID,
		Query:       st.Query,
		InputKind:   string(st.Classification.Kind),
		TradeResult: st.TradeResult,
		CreatedAt:   time.Now().UTC(),
	}
	if st.Assessment.IsPresent() {
		a := st.Assessment.Value
		row.Recommendation = a.Recommendation
		row.Confidence = a.Confidence
		row.RiskReward = a.RiskReward

		payload, err := json.Marshal(a)
		if err != nil {
			return fmt.Errorf("marshal assessment payload: %w", err)
		}
		row.Payload = payload
	}

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	if _, err := p.db.NewInsert().Model(row).Exec(ctx); err != nil {
		return fmt.Errorf("insert assessment row: %w", err)
	}
	return nil
}

func (p *PostgresArchive) Close() error {
	return p.db.Close()
}

// NoopArchive discards records. Used when no database is configured.
type NoopArchive struct{}

func (NoopArchive) Record(context.Context, *AnalysisState) error { return nil }
