package prompts

import (
	"strings"
	"testing"
	"time"
)

func TestSystemPromptInterpolatesTime(t *testing.T) {
	at := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	got := SystemPrompt(at)

	if !strings.Contains(got, "System time: 2025-06-01T12:00:00Z") {
		t.Errorf("missing system time line:\n%s", got)
	}
	for _, tool := range []string{"load_csv", "load_excel", "run_code"} {
		if !strings.Contains(got, tool) {
			t.Errorf("prompt does not mention %s", tool)
		}
	}
}

func TestWithSystemTime(t *testing.T) {
	at := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	got := WithSystemTime("Custom prompt.", at)

	if !strings.HasPrefix(got, "Custom prompt.") {
		t.Errorf("override not preserved: %q", got)
	}
	if !strings.HasSuffix(got, "System time: 2025-06-01T12:00:00Z") {
		t.Errorf("missing system time: %q", got)
	}
}
