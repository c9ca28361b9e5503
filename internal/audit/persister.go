// Package audit implements the off-answer-path audit persister: a
// best-effort, asynchronous writer that durably stores one summary row
// per completed request. A persist failure never affects an in-flight
// answer - Enqueue never blocks the caller and never returns an error.
package audit

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "github.com/jackc/pgx/v5/stdlib"
)

//go:embed migrations
var migrationsFS embed.FS

// Summary is the durable record of one completed request, already
// reduced to what an operator would want to search or count later -
// not the full Transcript, which stays in memory for the life of the
// request.
type Summary struct {
	RequestID         string
	TicketID          string
	Domain            string
	Intent            string
	Status            string
	ReliabilityScore  int
	ReliabilityLabel  string
	FinalAnswer       string
	TranscriptSummary string
	CreatedAt         time.Time
}

// queueCapacity bounds how many summaries can wait for a slow or
// unavailable database before Enqueue starts dropping them.
const queueCapacity = 256

// Persister writes Summaries to Postgres from a single background
// goroutine, decoupling the database's latency from the answer path.
type Persister struct {
	db     *sql.DB
	queue  chan Summary
	logger *slog.Logger
	wg     sync.WaitGroup
}

// Open connects to dsn, applies any pending migrations, and starts the
// background writer. Callers must call Close during shutdown to drain
// the queue.
func Open(ctx context.Context, dsn string) (*Persister, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("audit: open: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("audit: ping: %w", err)
	}

	if err := runMigrations(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("audit: migrate: %w", err)
	}

	p := &Persister{
		db:     db,
		queue:  make(chan Summary, queueCapacity),
		logger: slog.Default().With("component", "audit"),
	}
	p.wg.Add(1)
	go p.loop()
	return p, nil
}

// Enqueue hands off a Summary for asynchronous persistence. It never
// blocks: when the queue is full the summary is dropped and logged,
// matching the best-effort contract - the answer path never waits on
// or fails because of the audit store.
func (p *Persister) Enqueue(s Summary) {
	select {
	case p.queue <- s:
	default:
		p.logger.Warn("audit queue full, dropping summary", "request_id", s.RequestID)
	}
}

func (p *Persister) loop() {
	defer p.wg.Done()
	for s := range p.queue {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := p.insert(ctx, s); err != nil {
			p.logger.Warn("audit persist failed", "error", err, "request_id", s.RequestID)
		}
		cancel()
	}
}

func (p *Persister) insert(ctx context.Context, s Summary) error {
	_, err := p.db.ExecContext(ctx, `
		INSERT INTO audit_summaries
			(request_id, ticket_id, domain, intent, status, reliability_score, reliability_label, final_answer, transcript_summary, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		s.RequestID, s.TicketID, s.Domain, s.Intent, s.Status,
		s.ReliabilityScore, s.ReliabilityLabel, s.FinalAnswer, s.TranscriptSummary, s.CreatedAt,
	)
	return err
}

// Close drains the queue and closes the database connection. Summaries
// still in flight are given a chance to persist; new Enqueue calls
// after Close panics, as with any closed channel, so callers must stop
// calling Enqueue before Close.
func (p *Persister) Close() error {
	close(p.queue)
	p.wg.Wait()
	return p.db.Close()
}

func runMigrations(db *sql.DB) error {
	driver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		return fmt.Errorf("postgres driver: %w", err)
	}

	sourceDriver, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("migration source: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", sourceDriver, "postgres", driver)
	if err != nil {
		return fmt.Errorf("migrate instance: %w", err)
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("apply migrations: %w", err)
	}

	return sourceDriver.Close()
}
