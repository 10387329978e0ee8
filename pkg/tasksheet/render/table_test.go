package render

import (
	"strings"
	"testing"

	"github.com/ukaji3/tasksheet-go/pkg/tasksheet/models"
)

func TestTableIncludesPositions(t *testing.T) {
	out := Table(models.NewTable([][]string{
		{"Task", "Status"},
		{"Write docs", "Open"},
		{"Ship", "Blocked", "extra"},
	}))

	for _, want := range []string{"#", "Task", "Status", "Write docs", "Blocked", "extra"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}

	var first, second string
	for _, line := range strings.Split(out, "\n") {
		if strings.Contains(line, "Write docs") {
			first = line
		}
		if strings.Contains(line, "Ship") {
			second = line
		}
	}
	if !strings.Contains(first, " 2 ") || !strings.Contains(second, " 3 ") {
		t.Errorf("expected positions 2 and 3:\n%s", out)
	}
}
