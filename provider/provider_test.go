package provider

import "testing"

func TestNewSelectsBackend(t *testing.T) {
	cases := []struct {
		name    string
		wantErr bool
	}{
		{"", false}, // defaults to openai
		{"openai", false},
		{"claude", false},
		{"anthropic", false},
		{"gemini", false},
		{"google", false},
		{"OpenAI", false},
		{"cohere", true},
	}

	for _, tc := range cases {
		llm, err := New(Settings{Name: tc.name, APIKey: "test-key"})
		if tc.wantErr {
			if err == nil {
				t.Errorf("New(%q): expected error", tc.name)
			}
			continue
		}
		if err != nil {
			t.Errorf("New(%q): unexpected error %v", tc.name, err)
			continue
		}
		if llm == nil {
			t.Errorf("New(%q): nil client", tc.name)
		}
	}
}
