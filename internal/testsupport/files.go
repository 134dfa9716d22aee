package testsupport

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// WriteFile writes contents to path, creating parent directories.
func WriteFile(t testing.TB, path, contents string) {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

// Row renders one table row with a td per cell.
func Row(cells ...string) string {
	var b strings.Builder
	b.WriteString("<tr>")
	for _, c := range cells {
		b.WriteString("<td>")
		b.WriteString(c)
		b.WriteString("</td>")
	}
	b.WriteString("</tr>")
	return b.String()
}

// Blank returns n empty cells.
func Blank(n int) []string {
	return make([]string, n)
}

// SearchPage renders a course-search page with the given heading and table rows.
func SearchPage(heading string, rows ...string) string {
	return "<html><body><h2>" + heading + "</h2>" +
		`<table class="dataentrytable">` + strings.Join(rows, "") + "</table></body></html>"
}

// SpringPage is a two-section Spring 2023 page: CPSC 1150 with one lecture and
// MATH 1171 with a lecture, a continued lab, and a trailing note.
func SpringPage() string {
	return SearchPage("Course Search Results: Spring 2023",
		Row("R", "12", "3", "10234", "CPSC", "1150", "001", "3", "Data Structures", "$5.00", "2", ""),
		Row("Lecture", "M-W----", "1030-1220", "11-Apr-23", "30-Jun-23", "A130", "Smith, J"),
		Row("", "30", "", "20001", "MATH", "1171", "M01", "3", "Calculus I", "", "", ""),
		Row("Lecture", "-T-R---", "0830-1020", "11-Apr-23", "29-Jun-23", "B201", "Lee, K"),
		Row(Blank(12)...),
		Row("Lab", "----F--", "1430-1620", "14-Apr-23", "30-Jun-23", "B021", "Lee, K"),
		Row(Blank(9)...),
		Row("Restricted to Science students."),
	)
}
