package service

import (
	"context"

	"github.com/cloudnative-denmark/conference-companion/internal/logging"
	"github.com/cloudnative-denmark/conference-companion/internal/schedule/domain"
)

// Reconcile merges the grid, the speaker roster and the session details into
// a displayable schedule. Any empty input yields an empty schedule. The inputs
// are left untouched; the result shares no slices with them.
func Reconcile(ctx context.Context, grid []domain.GridEntry, speakers []domain.Speaker, sessions []domain.SessionList) []domain.GridEntry {
	if len(grid) == 0 || len(speakers) == 0 || len(sessions) == 0 {
		return []domain.GridEntry{}
	}
	logger := logging.New(ctx)

	roster := make(map[string]domain.Speaker, len(speakers))
	for _, sp := range speakers {
		if _, dup := roster[sp.ID]; !dup {
			roster[sp.ID] = sp
		}
	}

	details := make(map[string]domain.Session)
	for _, list := range sessions {
		for _, s := range list.Sessions {
			if _, dup := details[s.ID]; !dup {
				details[s.ID] = s
			}
		}
	}

	out := make([]domain.GridEntry, len(grid))
	for d, day := range grid {
		entry := day
		entry.Rooms = append([]domain.Room(nil), day.Rooms...)
		entry.TimeSlots = make([]domain.TimeSlot, len(day.TimeSlots))
		for t, slot := range day.TimeSlots {
			ts := slot
			ts.Rooms = make([]domain.Room, len(slot.Rooms))
			for r, room := range slot.Rooms {
				room.Session = enrich(logger, room.Session, roster, details)
				ts.Rooms[r] = room
			}
			entry.TimeSlots[t] = ts
		}
		out[d] = entry
	}
	return out
}

func enrich(logger *logging.Logger, stub domain.Session, roster map[string]domain.Speaker, details map[string]domain.Session) domain.Session {
	joined := make([]domain.Speaker, 0, len(stub.Speakers))
	for _, ref := range stub.Speakers {
		sp, ok := roster[ref.ID]
		if !ok {
			logger.LogWarnf("reconcile", "session_id=%s speaker_id=%s not in roster, dropped", stub.ID, ref.ID)
			continue
		}
		joined = append(joined, sp)
	}
	stub.Speakers = joined

	detail, ok := details[stub.ID]
	if !ok {
		return stub
	}
	if answer, ok := detail.Answer(domain.QuestionSlideDeck); ok {
		stub.SlideDeck = answer
	}
	if answer, ok := detail.Answer(domain.QuestionRate); ok {
		stub.Rate = answer
	}
	stub.Title = detail.Title
	stub.Description = detail.Description
	stub.Video = detail.RecordingURL
	return stub
}
