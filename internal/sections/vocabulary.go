package sections

import "strings"

// MeetingTypes is the closed vocabulary of meeting-type labels. The empty
// label is the placeholder used by rows without a type.
var MeetingTypes = []string{
	"",
	"Lecture",
	"Lab",
	"Seminar",
	"Practicum",
	"WWW",
	"On Site Work",
	"Exchange-International",
	"Tutorial",
	"Exam",
	"Field School",
	"Flexible Assessment",
	"GIS Guided Independent Study",
}

var meetingTypeSet = func() map[string]struct{} {
	set := make(map[string]struct{}, len(MeetingTypes))
	for _, label := range MeetingTypes {
		set[strings.ToLower(label)] = struct{}{}
	}
	return set
}()

// IsMeetingType reports whether token is a known meeting-type label.
func IsMeetingType(token string) bool {
	_, ok := meetingTypeSet[strings.ToLower(strings.TrimSpace(token))]
	return ok
}
