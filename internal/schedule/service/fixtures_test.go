package service

import (
	"context"

	"github.com/cloudnative-denmark/conference-companion/internal/schedule/domain"
)

func strPtr(s string) *string { return &s }

func stub(id, start, end string, speakerIDs ...string) domain.Session {
	s := domain.Session{ID: id, Name: "Talk " + id, StartsAt: "2024-10-01T" + start, EndsAt: "2024-10-01T" + end}
	for _, sp := range speakerIDs {
		s.Speakers = append(s.Speakers, domain.Speaker{ID: sp})
	}
	return s
}

func occupant(id int, name string, s domain.Session) domain.Room {
	s.RoomID, s.Room = id, name
	return domain.Room{ID: id, Name: name, Session: s}
}

// testGrid is one day with two rooms:
//
//	09:00  keynote (plenum)
//	10:00  s1 (Main, until 10:50)  | s2 (Side)
//	10:30  s1 repeated             | s3 (Side)
//	11:00  break (service, Main)   | -
//	11:30  s4 (Main)               | id-less stub
func testGrid() []domain.GridEntry {
	keynote := stub("key", "09:00:00", "09:45:00", "sp1")
	keynote.IsPlenumSession = true
	brk := stub("brk", "11:00:00", "11:15:00")
	brk.IsServiceSession = true
	s1 := stub("s1", "10:00:00", "10:50:00", "sp1", "ghost")

	return []domain.GridEntry{{
		Date:  "2024-10-01T00:00:00",
		Rooms: []domain.Room{{ID: 1, Name: "Main"}, {ID: 2, Name: "Side"}},
		TimeSlots: []domain.TimeSlot{
			{SlotStart: "09:00:00", Rooms: []domain.Room{occupant(1, "Main", keynote)}},
			{SlotStart: "10:00:00", Rooms: []domain.Room{
				occupant(1, "Main", s1),
				occupant(2, "Side", stub("s2", "10:00:00", "10:25:00", "sp2")),
			}},
			{SlotStart: "10:30:00", Rooms: []domain.Room{
				occupant(1, "Main", s1),
				occupant(2, "Side", stub("s3", "10:30:00", "10:55:00", "sp2")),
			}},
			{SlotStart: "11:00:00", Rooms: []domain.Room{occupant(1, "Main", brk)}},
			{SlotStart: "11:30:00", Rooms: []domain.Room{
				occupant(1, "Main", stub("s4", "11:30:00", "12:00:00", "sp1")),
				occupant(2, "Side", domain.Session{}),
			}},
		},
	}}
}

func testSpeakers() []domain.Speaker {
	return []domain.Speaker{
		{ID: "sp1", FullName: "Ada Lovelace", ProfilePicture: strPtr("https://img/ada.jpg"), IsTopSpeaker: true},
		{ID: "sp2", FullName: "Grace Hopper"},
	}
}

func testSessionDetails() []domain.SessionList {
	return []domain.SessionList{{Sessions: []domain.Session{
		{
			ID:           "s1",
			Title:        "Operators in anger",
			Description:  "War stories",
			RecordingURL: "https://video/s1",
			QuestionAnswers: []domain.QuestionAnswer{
				{ID: domain.QuestionSlideDeck, Answer: "https://slides/s1"},
				{ID: domain.QuestionRate, Answer: "https://rate/s1"},
				{ID: 1, Answer: "unrelated"},
			},
		},
		{ID: "s2", Title: "eBPF for humans"},
	}}}
}

type fakeFetcher struct {
	grid     []domain.GridEntry
	speakers []domain.Speaker
	sessions []domain.SessionList
	err      error
}

func (f *fakeFetcher) FetchGrid(ctx context.Context) ([]domain.GridEntry, error) {
	return f.grid, nil
}

func (f *fakeFetcher) FetchSpeakers(ctx context.Context) ([]domain.Speaker, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.speakers, nil
}

func (f *fakeFetcher) FetchSessions(ctx context.Context) ([]domain.SessionList, error) {
	return f.sessions, nil
}
