package domain

// Custom question ids whose answers are lifted onto a session.
const (
	QuestionSlideDeck = 99194
	QuestionRate      = 112538
)

// SpeakerSession references a session a speaker presents.
type SpeakerSession struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// Speaker is a roster entry from the schedule provider.
type Speaker struct {
	ID             string           `json:"id"`
	Name           string           `json:"name,omitempty"`
	FirstName      string           `json:"firstName,omitempty"`
	LastName       string           `json:"lastName,omitempty"`
	FullName       string           `json:"fullName,omitempty"`
	Bio            string           `json:"bio,omitempty"`
	TagLine        string           `json:"tagLine,omitempty"`
	ProfilePicture *string          `json:"profilePicture"`
	IsTopSpeaker   bool             `json:"isTopSpeaker"`
	Sessions       []SpeakerSession `json:"sessions,omitempty"`
}

// QuestionAnswer is an answer to a custom session question.
type QuestionAnswer struct {
	ID     int    `json:"id"`
	Answer string `json:"answer"`
}

// Session is a talk or service entry. Grid stubs only carry speaker ids until
// they are reconciled against the roster.
type Session struct {
	ID               string           `json:"id"`
	Name             string           `json:"name"`
	Title            string           `json:"title,omitempty"`
	Description      string           `json:"description,omitempty"`
	StartsAt         string           `json:"startsAt"`
	EndsAt           string           `json:"endsAt"`
	IsServiceSession bool             `json:"isServiceSession"`
	IsPlenumSession  bool             `json:"isPlenumSession"`
	Speakers         []Speaker        `json:"speakers"`
	RoomID           int              `json:"roomId"`
	Room             string           `json:"room"`
	QuestionAnswers  []QuestionAnswer `json:"questionAnswers,omitempty"`
	RecordingURL     string           `json:"recordingUrl,omitempty"`
	SlideDeck        string           `json:"slideDeck,omitempty"`
	Video            string           `json:"video,omitempty"`
	Rate             string           `json:"rate,omitempty"`
}

// Answer returns the answer to question id, if present.
func (s Session) Answer(id int) (string, bool) {
	for _, qa := range s.QuestionAnswers {
		if qa.ID == id {
			return qa.Answer, true
		}
	}
	return "", false
}

// HasSpeaker reports whether speakerID presents s.
func (s Session) HasSpeaker(speakerID string) bool {
	for _, sp := range s.Speakers {
		if sp.ID == speakerID {
			return true
		}
	}
	return false
}

// Room is a room column of a day, or a room's occupant within a time slot.
type Room struct {
	ID       int       `json:"id"`
	Name     string    `json:"name"`
	Sessions []Session `json:"sessions,omitempty"`
	Session  Session   `json:"session"`
}

// TimeSlot groups the room occupants starting at SlotStart ("HH:MM:SS").
type TimeSlot struct {
	SlotStart string `json:"slotStart"`
	Rooms     []Room `json:"rooms"`
}

// GridEntry is one day of the schedule grid.
type GridEntry struct {
	Date      string     `json:"date"`
	Rooms     []Room     `json:"rooms"`
	TimeSlots []TimeSlot `json:"timeSlots"`
}

// SessionList wraps the session-detail view of the provider.
type SessionList struct {
	GroupID   *int      `json:"groupId,omitempty"`
	GroupName string    `json:"groupName,omitempty"`
	Sessions  []Session `json:"sessions"`
}
