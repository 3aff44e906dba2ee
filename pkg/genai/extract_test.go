package genai

import "testing"

func TestExtractJSON(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    string
		wantErr bool
	}{
		{
			name: "bare object",
			raw:  `{"a": 1}`,
			want: `{"a": 1}`,
		},
		{
			name: "markdown fence",
			raw:  "```json\n{\"a\": 1}\n```",
			want: `{"a": 1}`,
		},
		{
			name: "plain fence",
			raw:  "```\n{\"a\": 1}\n```",
			want: `{"a": 1}`,
		},
		{
			name: "chatty preamble",
			raw:  `Here is the analysis you asked for: {"a": 1} Hope this helps!`,
			want: `{"a": 1}`,
		},
		{
			name: "nested objects",
			raw:  `{"outer": {"inner": {"deep": true}}}`,
			want: `{"outer": {"inner": {"deep": true}}}`,
		},
		{
			name: "braces inside strings",
			raw:  `{"text": "use {curly} braces }{ freely"}`,
			want: `{"text": "use {curly} braces }{ freely"}`,
		},
		{
			name: "escaped quote inside string",
			raw:  `{"text": "she said \"hi\" {"}`,
			want: `{"text": "she said \"hi\" {"}`,
		},
		{
			name:    "no object",
			raw:     "sorry, I cannot do that",
			wantErr: true,
		},
		{
			name:    "unbalanced",
			raw:     `{"a": {"b": 1}`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExtractJSON(tt.raw)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ExtractJSON() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("ExtractJSON() = %q, want %q", got, tt.want)
			}
		})
	}
}
