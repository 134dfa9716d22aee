package sections

import "fmt"

// Key is the natural key of a section within one page.
type Key struct {
	Subject         string
	CourseNumber    string
	Year            int
	Term            int
	ReferenceNumber int
}

func (k Key) String() string {
	return fmt.Sprintf("%s %s %04d%02d crn %05d", k.Subject, k.CourseNumber, k.Year, k.Term, k.ReferenceNumber)
}

// Section is one offering of a course in a term. Optional text fields are
// empty when the page leaves them blank.
type Section struct {
	Subject          string
	CourseNumber     string
	Year             int
	Term             int
	ReferenceNumber  int
	SectionLabel     string
	Credits          float64
	AbbreviatedTitle string
	Requisites       string
	Seats            string
	Waitlist         string
	Fee              *float64
	RepeatLimit      *int
	Notes            string
	Schedule         []ScheduleEntry
}

// Key returns the natural key of the section.
func (s Section) Key() Key {
	return Key{
		Subject:         s.Subject,
		CourseNumber:    s.CourseNumber,
		Year:            s.Year,
		Term:            s.Term,
		ReferenceNumber: s.ReferenceNumber,
	}
}

// Course returns the "SUBJ NNNN" course identifier.
func (s Section) Course() string {
	return s.Subject + " " + s.CourseNumber
}

// ScheduleEntry is one meeting pattern of a section. Index is zero-based and
// contiguous within the owning section.
type ScheduleEntry struct {
	Index      int
	Type       string
	Days       string
	Time       string
	Start      string
	End        string
	Room       string
	Instructor string
}
