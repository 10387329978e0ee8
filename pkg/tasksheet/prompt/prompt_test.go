package prompt

import (
	"strings"
	"testing"

	"github.com/ukaji3/tasksheet-go/pkg/tasksheet/models"
)

func TestBuildPositionPrompt(t *testing.T) {
	tbl := models.NewTable([][]string{
		{"Task", "Details", "Priority", "Due"},
		{"Write docs", "draft", "3", "2024-06-01"},
	})
	got, err := Build(Input{Table: tbl, Instruction: "  mark the docs as high priority  "})
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	for _, want := range []string{
		`The sheet columns are: ["Task","Details","Priority","Due"].`,
		`[["Task","Details","Priority","Due"],["Write docs","draft",3,"2024-06-01"]]`,
		"User request: mark the docs as high priority\n",
		`"row" field; the header is row 1`,
		`{ "action": "delete", "row": 4 }`,
	} {
		if !strings.Contains(got, want) {
			t.Errorf("prompt missing %q\n%s", want, got)
		}
	}
	if strings.Contains(got, `"key"`) {
		t.Errorf("position prompt should not mention key addressing")
	}
}

func TestBuildKeyPrompt(t *testing.T) {
	tbl := models.NewTable([][]string{{"ID", "Task"}, {"T-1", "Ship"}})

	got, err := Build(Input{Table: tbl, Instruction: "drop T-1", Addressing: models.AddressByKey})
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if !strings.Contains(got, `by their "ID" value`) {
		t.Errorf("expected first column as identity:\n%s", got)
	}
	if !strings.Contains(got, `{ "action": "delete", "key": "T-9" }`) {
		t.Errorf("expected key example:\n%s", got)
	}

	got, _ = Build(Input{Table: tbl, Addressing: models.AddressByKey, IdentityColumn: "Task"})
	if !strings.Contains(got, `by their "Task" value`) {
		t.Errorf("expected configured identity column:\n%s", got)
	}
}

func TestBuildEmptyTable(t *testing.T) {
	got, err := Build(Input{Instruction: "add a task"})
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if !strings.Contains(got, "The sheet columns are: [].") {
		t.Errorf("unexpected prompt:\n%s", got)
	}
}

func TestParseValue(t *testing.T) {
	tests := []struct {
		input    string
		expected interface{}
	}{
		{"123", int64(123)},
		{"123.45", 123.45},
		{"-100", int64(-100)},
		{"hello", "hello"},
		{"NaN", "NaN"},
		{"Inf", "Inf"},
		{"", ""},
	}

	for _, tt := range tests {
		result := parseValue(tt.input)
		if result != tt.expected {
			t.Errorf("parseValue(%q) = %v (type: %T), expected %v (type: %T)",
				tt.input, result, result, tt.expected, tt.expected)
		}
	}
}
