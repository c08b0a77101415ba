package session

import (
	"context"

	"go.uber.org/zap"

	"github.com/DoyleJ11/hearts-client/internal/engine"
)

// observe logs each handled message and forwards results to the recorder.
func (s *Session) observe(ctx context.Context, in engine.Inbound, r engine.Reaction) {
	switch m := in.(type) {
	case engine.Hello:
		s.log.Info("obtained session token", zap.String("token", m.SessionToken))

	case engine.Hand:
		s.log.Info("received hand", zap.Strings("cards", cardStrings(m.Cards)))

	case engine.CardPlayed:
		s.log.Info("card played",
			zap.Int("play_number", m.PlayNumber),
			zap.String("player", m.Player),
			zap.Stringer("card", m.Card),
		)

	case engine.YourTurn:
		fields := []zap.Field{
			zap.Int("play_number", m.PlayNumber),
			zap.Strings("trick_so_far", m.TrickSoFar.Strings()),
			zap.String("trick_suit", string(m.TrickSuit)),
			zap.Strings("legal_plays", m.LegalPlays.Strings()),
		}
		if play, ok := r.Send.(engine.MyPlay); ok {
			fields = append(fields, zap.Stringer("card", play.Card))
		}
		s.log.Info("playing card", fields...)

	case engine.TrickResult:
		s.log.Info("trick result", zap.String("trick_winner", m.TrickWinner), zap.Int("points", m.Points))

	case engine.HandResult:
		s.log.Info("hand result",
			zap.Any("scores", m.Scores),
			zap.Any("totals", m.Totals),
			zap.Any("reference_scores", m.ReferenceScores),
			zap.Any("reference_totals", m.ReferenceTotals),
			zap.Duration("continue_in", s.cont.Delay()),
		)
		if err := s.opts.Recorder.RecordHand(ctx, s.opts.ID, s.opts.Identity.Name, s.state.HandsCompleted, m); err != nil {
			s.log.Warn("recording hand", zap.Error(err))
		}

	case engine.GameResult:
		s.log.Info("game result",
			zap.String("winner", m.Winner),
			zap.Any("totals", m.Totals),
			zap.Any("reference_totals", m.ReferenceTotals),
		)
		if err := s.opts.Recorder.RecordGame(ctx, s.opts.ID, s.opts.Identity.Name, s.state.HandsCompleted, m); err != nil {
			s.log.Warn("recording game", zap.Error(err))
		}
	}
}

func cardStrings(cards []engine.Card) []string {
	if len(cards) == 0 {
		return nil
	}
	out := make([]string, len(cards))
	for i, c := range cards {
		out[i] = c.String()
	}
	return out
}
