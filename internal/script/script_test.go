package script

import "testing"

func TestDialogueJoinsLines(t *testing.T) {
	s := Scene{Content: []string{"first line.", "second line.", "third."}}
	want := "first line. second line. third."
	if got := s.Dialogue(); got != want {
		t.Errorf("Dialogue() = %q, want %q", got, want)
	}
}

func TestDialogueEmpty(t *testing.T) {
	if got := (Scene{}).Dialogue(); got != "" {
		t.Errorf("Dialogue() = %q, want empty", got)
	}
}

func TestExtractJSON(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			"bare object",
			`{"scenes": []}`,
			`{"scenes": []}`,
		},
		{
			"markdown fenced",
			"```json\n{\"scenes\": [{\"title\": \"a\"}]}\n```",
			`{"scenes": [{"title": "a"}]}`,
		},
		{
			"prose around object",
			`Sure! Here is your script: {"scenes": []} Hope it helps.`,
			`{"scenes": []}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExtractJSON(tt.in)
			if err != nil {
				t.Fatalf("ExtractJSON: %v", err)
			}
			if got != tt.want {
				t.Errorf("ExtractJSON = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestExtractJSONNoObject(t *testing.T) {
	if _, err := ExtractJSON("no json here"); err == nil {
		t.Error("expected error for reply without JSON")
	}
}
