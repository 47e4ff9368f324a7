package output_test

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"taskboard/internal/output"
	"taskboard/internal/service"
	"taskboard/internal/testutil"
)

func sampleTasks() []service.DisplayedTask {
	return []service.DisplayedTask{
		{Task: service.Task{ID: "1", Title: "Buy milk"}, Priority: service.PriorityHigh},
		{Task: service.Task{ID: "2", Title: "Call\nmom", Completed: true}, Priority: service.PriorityLow},
		{Task: service.Task{ID: "3", Title: "  "}, Priority: service.PriorityMedium},
	}
}

func TestTasks_Text(t *testing.T) {
	var buf bytes.Buffer
	if err := output.NewPrinter(&buf, output.FormatText).Tasks(sampleTasks()); err != nil {
		t.Fatalf("Tasks: %v", err)
	}
	testutil.Golden(t, "tasks_text", buf.Bytes())
}

func TestTasks_TextWideIDs(t *testing.T) {
	tasks := []service.DisplayedTask{
		{Task: service.Task{ID: "abc123", Title: "a"}, Priority: service.PriorityLow},
		{Task: service.Task{ID: "7", Title: "b"}, Priority: service.PriorityLow},
	}
	var buf bytes.Buffer
	if err := output.NewPrinter(&buf, output.FormatText).Tasks(tasks); err != nil {
		t.Fatalf("Tasks: %v", err)
	}
	expected := "abc123  [ ] low     a\n     7  [ ] low     b\n"
	if buf.String() != expected {
		t.Errorf("expected %q, got %q", expected, buf.String())
	}
}

func TestTasks_JSON(t *testing.T) {
	var buf bytes.Buffer
	if err := output.NewPrinter(&buf, output.FormatJSON).Tasks(sampleTasks()[:1]); err != nil {
		t.Fatalf("Tasks: %v", err)
	}

	var decoded []map[string]any
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, buf.String())
	}
	if len(decoded) != 1 || decoded[0]["id"] != "1" || decoded[0]["priority"] != "high" {
		t.Errorf("unexpected JSON %s", buf.String())
	}
}

func TestTasks_JSONEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := output.NewPrinter(&buf, output.FormatJSON).Tasks(nil); err != nil {
		t.Fatalf("Tasks: %v", err)
	}
	if strings.TrimSpace(buf.String()) != "[]" {
		t.Errorf("expected empty array, got %q", buf.String())
	}
}

func TestTasks_YAML(t *testing.T) {
	var buf bytes.Buffer
	if err := output.NewPrinter(&buf, output.FormatYAML).Tasks(sampleTasks()[:1]); err != nil {
		t.Fatalf("Tasks: %v", err)
	}
	out := buf.String()
	for _, want := range []string{`- id: "1"`, "title: Buy milk", "completed: false", "priority: high"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected YAML to contain %q, got:\n%s", want, out)
		}
	}
	if strings.Contains(out, "created_at") {
		t.Errorf("zero created_at should be omitted, got:\n%s", out)
	}
}

func TestTask_Single(t *testing.T) {
	var buf bytes.Buffer
	task := service.DisplayedTask{Task: service.Task{ID: "12", Title: "x", Completed: true}, Priority: service.PriorityMedium}
	if err := output.NewPrinter(&buf, output.FormatText).Task(task); err != nil {
		t.Fatalf("Task: %v", err)
	}
	expected := "  12  [x] medium  x\n"
	if buf.String() != expected {
		t.Errorf("expected %q, got %q", expected, buf.String())
	}
}

func TestValidFormat(t *testing.T) {
	for _, name := range []string{"text", "json", "yaml"} {
		if !output.ValidFormat(name) {
			t.Errorf("expected %q to be valid", name)
		}
	}
	if output.ValidFormat("xml") {
		t.Error("xml should not be valid")
	}
}
