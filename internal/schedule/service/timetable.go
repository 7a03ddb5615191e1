package service

import (
	"time"

	"github.com/cloudnative-denmark/conference-companion/internal/schedule/domain"
	"github.com/cloudnative-denmark/conference-companion/internal/timefmt"
)

// Cell is one rendered grid cell. Empty cells hold no session.
type Cell struct {
	RoomID   int             `json:"roomId"`
	RoomName string          `json:"roomName,omitempty"`
	Session  *domain.Session `json:"session,omitempty"`
	RowSpan  int             `json:"rowSpan"`
	ColSpan  int             `json:"colSpan"`
	Empty    bool            `json:"empty"`
}

// Row is the set of cells that start in one time slot. Rooms claimed by a
// session merged down from an earlier row have no cell.
type Row struct {
	SlotStart string `json:"slotStart"`
	Label     string `json:"label"`
	Plenum    bool   `json:"plenum"`
	Cells     []Cell `json:"cells"`
}

// Timetable is a day laid out as time slots by room columns.
type Timetable struct {
	Date    string        `json:"date"`
	Label   string        `json:"label"`
	Columns []domain.Room `json:"columns"`
	Rows    []Row         `json:"rows"`
}

// BuildTimetable lays a reconciled day out as a table. A session running
// across several slots becomes one cell spanning those rows, and a plenum
// session becomes one cell spanning every room not already claimed.
func BuildTimetable(f timefmt.Formatter, day domain.GridEntry) Timetable {
	columns := make([]domain.Room, len(day.Rooms))
	for i, room := range day.Rooms {
		columns[i] = domain.Room{ID: room.ID, Name: room.Name}
	}

	tt := Timetable{
		Date:    day.Date,
		Label:   f.FormatDate(day.Date),
		Columns: columns,
		Rows:    make([]Row, 0, len(day.TimeSlots)),
	}

	// slot start -> room ids covered by a vertical merge from an earlier row
	claimed := make(map[string]map[int]struct{})
	claim := func(slotStart string, roomID int) {
		if claimed[slotStart] == nil {
			claimed[slotStart] = make(map[int]struct{})
		}
		claimed[slotStart][roomID] = struct{}{}
	}

	for i, slot := range day.TimeSlots {
		row := Row{SlotStart: slot.SlotStart, Label: timefmt.FormatTime(slot.SlotStart)}

		if len(slot.Rooms) == 1 && slot.Rooms[0].Session.IsPlenumSession {
			occupant := slot.Rooms[0]
			session := occupant.Session
			span := len(day.Rooms) - len(claimed[slot.SlotStart])
			if span < 1 {
				span = 1
			}
			row.Plenum = true
			row.Cells = []Cell{{
				RoomID:   occupant.ID,
				RoomName: occupant.Name,
				Session:  &session,
				RowSpan:  1,
				ColSpan:  span,
			}}
			tt.Rows = append(tt.Rows, row)
			continue
		}

		for _, room := range day.Rooms {
			if _, taken := claimed[slot.SlotStart][room.ID]; taken {
				continue
			}

			session, ok := occupantOf(slot, room.ID)
			if !ok || session.ID == "" {
				row.Cells = append(row.Cells, Cell{RoomID: room.ID, RoomName: room.Name, RowSpan: 1, ColSpan: 1, Empty: true})
				continue
			}

			rowSpan := 1
			if ends, err := f.ParseInstant(session.EndsAt); err == nil {
				for j := i + 1; j < len(day.TimeSlots); j++ {
					next := day.TimeSlots[j]
					start, ok := slotStartTime(f, day, next)
					if !ok || !start.Before(ends) {
						break
					}
					rowSpan++
					claim(next.SlotStart, room.ID)
				}
			}

			s := session
			row.Cells = append(row.Cells, Cell{RoomID: room.ID, RoomName: room.Name, Session: &s, RowSpan: rowSpan, ColSpan: 1})
		}
		tt.Rows = append(tt.Rows, row)
	}
	return tt
}

// BuildTimetables lays out every day of a schedule.
func BuildTimetables(f timefmt.Formatter, schedule []domain.GridEntry) []Timetable {
	out := make([]Timetable, 0, len(schedule))
	for _, day := range schedule {
		out = append(out, BuildTimetable(f, day))
	}
	return out
}

func occupantOf(slot domain.TimeSlot, roomID int) (domain.Session, bool) {
	for _, r := range slot.Rooms {
		if r.ID == roomID {
			return r.Session, true
		}
	}
	return domain.Session{}, false
}

// slotStartTime is the start instant recorded for slot: the latest start
// among its occupants (occupants carried over from an earlier slot start
// before it), or the day's date combined with the slot start.
func slotStartTime(f timefmt.Formatter, day domain.GridEntry, slot domain.TimeSlot) (time.Time, bool) {
	var (
		latest time.Time
		found  bool
	)
	for _, r := range slot.Rooms {
		if r.Session.StartsAt == "" {
			continue
		}
		t, err := f.ParseInstant(r.Session.StartsAt)
		if err != nil {
			continue
		}
		if !found || t.After(latest) {
			latest, found = t, true
		}
	}
	if found {
		return latest, true
	}
	if len(day.Date) < 10 {
		return time.Time{}, false
	}
	t, err := f.ParseInstant(day.Date[:10] + "T" + slot.SlotStart)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}
