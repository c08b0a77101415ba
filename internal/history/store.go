// Package history persists finished hands and games.
package history

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"go.uber.org/multierr"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/DoyleJ11/hearts-client/internal/engine"
	"github.com/DoyleJ11/hearts-client/pkg/types"
)

var ErrUnsupportedDSN = errors.New("unsupported history dsn")

type Game struct {
	ID         uint      `gorm:"primaryKey"`
	SessionID  string    `gorm:"size:64;index"`
	Player     string    `gorm:"size:128"`
	Winner     string    `gorm:"size:128"`
	Hands      int
	FinishedAt time.Time `gorm:"index"`
	Totals     []Total   `gorm:"constraint:OnDelete:CASCADE"`
}

type Total struct {
	ID             uint   `gorm:"primaryKey"`
	GameID         uint   `gorm:"index"`
	Player         string `gorm:"size:128"`
	Total          int
	ReferenceTotal int
}

type Hand struct {
	ID         uint   `gorm:"primaryKey"`
	SessionID  string `gorm:"size:64;index"`
	Player     string `gorm:"size:128"`
	Number     int
	RecordedAt time.Time
	Scores     []HandScore `gorm:"constraint:OnDelete:CASCADE"`
}

type HandScore struct {
	ID             uint   `gorm:"primaryKey"`
	HandID         uint   `gorm:"index"`
	Player         string `gorm:"size:128"`
	Score          int
	Total          int
	ReferenceScore int
	ReferenceTotal int
}

type Store struct {
	db  *gorm.DB
	now func() time.Time
}

// Open connects to "postgres://..." / "postgresql://..." or "sqlite:<path>" and migrates.
func Open(dsn string) (*Store, error) {
	dialector, err := dialectorFor(dsn)
	if err != nil {
		return nil, err
	}
	db, err := gorm.Open(dialector, &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		return nil, fmt.Errorf("open history: %w", err)
	}
	if err := db.AutoMigrate(&Game{}, &Total{}, &Hand{}, &HandScore{}); err != nil {
		err = fmt.Errorf("migrate history: %w", err)
		if sqlDB, dbErr := db.DB(); dbErr == nil {
			err = multierr.Append(err, sqlDB.Close())
		}
		return nil, err
	}
	return &Store{db: db, now: time.Now}, nil
}

func dialectorFor(dsn string) (gorm.Dialector, error) {
	switch {
	case strings.HasPrefix(dsn, "postgres://"), strings.HasPrefix(dsn, "postgresql://"):
		return postgres.Open(dsn), nil
	case strings.HasPrefix(dsn, "sqlite:"):
		return sqlite.Open(strings.TrimPrefix(dsn, "sqlite:")), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedDSN, dsn)
	}
}

func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func (s *Store) RecordHand(ctx context.Context, sessionID, player string, number int, r engine.HandResult) error {
	h := Hand{
		SessionID:  sessionID,
		Player:     player,
		Number:     number,
		RecordedAt: s.now().UTC(),
	}
	for _, name := range players(r.Scores, r.Totals, r.ReferenceScores, r.ReferenceTotals) {
		h.Scores = append(h.Scores, HandScore{
			Player:         name,
			Score:          r.Scores[name],
			Total:          r.Totals[name],
			ReferenceScore: r.ReferenceScores[name],
			ReferenceTotal: r.ReferenceTotals[name],
		})
	}
	if err := s.db.WithContext(ctx).Create(&h).Error; err != nil {
		return fmt.Errorf("record hand %d: %w", number, err)
	}
	return nil
}

func (s *Store) RecordGame(ctx context.Context, sessionID, player string, hands int, r engine.GameResult) error {
	g := Game{
		SessionID:  sessionID,
		Player:     player,
		Winner:     r.Winner,
		Hands:      hands,
		FinishedAt: s.now().UTC(),
	}
	for _, name := range players(r.Totals, r.ReferenceTotals) {
		g.Totals = append(g.Totals, Total{
			Player:         name,
			Total:          r.Totals[name],
			ReferenceTotal: r.ReferenceTotals[name],
		})
	}
	if err := s.db.WithContext(ctx).Create(&g).Error; err != nil {
		return fmt.Errorf("record game: %w", err)
	}
	return nil
}

// RecentGames returns the newest finished games first.
func (s *Store) RecentGames(ctx context.Context, limit int) ([]types.GameView, error) {
	if limit <= 0 {
		limit = 20
	}
	var games []Game
	err := s.db.WithContext(ctx).
		Preload("Totals").
		Order("finished_at DESC").Order("id DESC").
		Limit(limit).
		Find(&games).Error
	if err != nil {
		return nil, fmt.Errorf("recent games: %w", err)
	}

	out := make([]types.GameView, 0, len(games))
	for _, g := range games {
		v := types.GameView{
			SessionID:  g.SessionID,
			Player:     g.Player,
			Winner:     g.Winner,
			Hands:      g.Hands,
			FinishedAt: g.FinishedAt,
		}
		if len(g.Totals) > 0 {
			v.Totals = make(map[string]int, len(g.Totals))
			for _, t := range g.Totals {
				v.Totals[t.Player] = t.Total
			}
		}
		out = append(out, v)
	}
	return out, nil
}

// HandCount reports how many hands were recorded for a session.
func (s *Store) HandCount(ctx context.Context, sessionID string) (int64, error) {
	var n int64
	err := s.db.WithContext(ctx).Model(&Hand{}).Where("session_id = ?", sessionID).Count(&n).Error
	return n, err
}

func players(maps ...map[string]int) []string {
	seen := map[string]struct{}{}
	for _, m := range maps {
		for name := range m {
			seen[name] = struct{}{}
		}
	}
	out := make([]string, 0, len(seen))
	for name := range seen {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}
