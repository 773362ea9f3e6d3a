package app

import (
	"errors"
	"time"

	"coderunner/internal/runner"
	"coderunner/internal/session"
	"coderunner/internal/state"
)

// runRecord converts a finished ticket into the history row. The source is
// reduced to its size.
func runRecord(sessionID string, t session.Ticket, o runner.Outcome, finished time.Time) state.RunRecord {
	rec := state.RunRecord{
		SessionID:   sessionID,
		LanguageID:  t.Language.ID,
		Outcome:     state.OutcomeSucceeded,
		SourceBytes: len(t.Source),
		OutputBytes: len(o.Output),
		StartTS:     t.StartedAt.UTC(),
	}
	if !t.StartedAt.IsZero() {
		rec.DurationMS = finished.Sub(t.StartedAt).Milliseconds()
	}
	if !o.Succeeded() {
		rec.Outcome = state.OutcomeFailed
		rec.Message = o.Message()
		var httpErr *runner.HTTPStatusError
		if errors.As(o.Err, &httpErr) {
			rec.StatusCode = httpErr.Code
		}
	}
	return rec
}
