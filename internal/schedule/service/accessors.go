package service

import "github.com/cloudnative-denmark/conference-companion/internal/schedule/domain"

// walk visits every room occupant in day, slot, room order until fn returns false.
func walk(schedule []domain.GridEntry, fn func(s domain.Session) bool) {
	for _, day := range schedule {
		for _, slot := range day.TimeSlots {
			for _, room := range slot.Rooms {
				if !fn(room.Session) {
					return
				}
			}
		}
	}
}

// AllSessions flattens the schedule, skipping service sessions.
func AllSessions(schedule []domain.GridEntry) []domain.Session {
	sessions := []domain.Session{}
	walk(schedule, func(s domain.Session) bool {
		if !s.IsServiceSession {
			sessions = append(sessions, s)
		}
		return true
	})
	return sessions
}

// SessionByID returns the first session with the given id.
func SessionByID(schedule []domain.GridEntry, id string) (domain.Session, bool) {
	var (
		found domain.Session
		ok    bool
	)
	walk(schedule, func(s domain.Session) bool {
		if s.ID == id {
			found, ok = s, true
			return false
		}
		return true
	})
	return found, ok
}

// SpeakerSessionIDs lists, in encounter order, the ids of every session the
// speaker presents. A session spanning several slots appears once per slot.
func SpeakerSessionIDs(schedule []domain.GridEntry, speakerID string) []string {
	ids := []string{}
	walk(schedule, func(s domain.Session) bool {
		if s.HasSpeaker(speakerID) {
			ids = append(ids, s.ID)
		}
		return true
	})
	return ids
}
