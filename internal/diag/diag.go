// Package diag surfaces engine diagnostics — unparsed ability clauses
// and rejected actions — as structured log entries. Diagnostics are
// never fatal: a batch sweep keeps running while they accumulate.
package diag

import "go.uber.org/zap"

// ZapSink implements game.DiagnosticSink on a zap logger.
type ZapSink struct {
	l *zap.Logger
}

// NewZapSink wraps an existing zap logger.
func NewZapSink(l *zap.Logger) *ZapSink {
	return &ZapSink{l: l}
}

// NewProduction builds a sink on zap's production config.
func NewProduction() (*ZapSink, error) {
	l, err := zap.NewProduction()
	if err != nil {
		return nil, err
	}
	return &ZapSink{l: l}, nil
}

func (s *ZapSink) UnparsedAbility(card, clause string) {
	s.l.Warn("unparsed ability clause",
		zap.String("card", card),
		zap.String("clause", clause),
	)
}

func (s *ZapSink) IllegalAction(player int, action, reason string) {
	s.l.Warn("illegal action rejected",
		zap.Int("player", player),
		zap.String("action", action),
		zap.String("reason", reason),
	)
}

// Sync flushes buffered entries.
func (s *ZapSink) Sync() error {
	return s.l.Sync()
}
