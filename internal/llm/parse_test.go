package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFirstJSONObject(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		in     string
		want   string
		wantOK bool
	}{
		{name: "bare object", in: `{"a":1}`, want: `{"a":1}`, wantOK: true},
		{name: "prose around", in: "sure: {\"a\":1} done", want: `{"a":1}`, wantOK: true},
		{name: "markdown fence", in: "```json\n{\"a\":1}\n```", want: `{"a":1}`, wantOK: true},
		{name: "nested braces", in: `{"a":{"b":2}}`, want: `{"a":{"b":2}}`, wantOK: true},
		{name: "brace in string", in: `{"a":"}"}`, want: `{"a":"}"}`, wantOK: true},
		{name: "escaped quote in string", in: `{"a":"\"}"}`, want: `{"a":"\"}"}`, wantOK: true},
		{name: "two objects takes first", in: `{"a":1} {"b":2}`, want: `{"a":1}`, wantOK: true},
		{name: "no object", in: "nothing here", wantOK: false},
		{name: "unclosed", in: `{"a":1`, wantOK: false},
		{name: "empty", in: "", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, ok := FirstJSONObject(tt.in)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}
