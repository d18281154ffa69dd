package llm

import "testing"

func TestParseModel(t *testing.T) {
	tests := []struct {
		in       string
		provider string
		model    string
		wantErr  bool
	}{
		{"ollama/qwen3", "ollama", "qwen3", false},
		{"openai/gpt-4o", "openai", "gpt-4o", false},
		{"openai/org/custom", "openai", "org/custom", false},
		{"gpt-4o", "", "", true},
		{"/gpt-4o", "", "", true},
		{"openai/", "", "", true},
		{"", "", "", true},
	}

	for _, tc := range tests {
		provider, model, err := ParseModel(tc.in)
		if (err != nil) != tc.wantErr {
			t.Errorf("ParseModel(%q) err = %v", tc.in, err)
			continue
		}
		if provider != tc.provider || model != tc.model {
			t.Errorf("ParseModel(%q) = %q, %q; want %q, %q", tc.in, provider, model, tc.provider, tc.model)
		}
	}
}
