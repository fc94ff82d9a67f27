package injection

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEscapeScriptString(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "it should pass plain text through unchanged",
			input:    "myApp.data",
			expected: "myApp.data",
		},
		{
			name:     "it should escape double quotes",
			input:    `say "hi"`,
			expected: `say \"hi\"`,
		},
		{
			name:     "it should escape single quotes",
			input:    "it's",
			expected: `it\'s`,
		},
		{
			name:     "it should escape backslashes",
			input:    `a\b`,
			expected: `a\\b`,
		},
		{
			name:     "it should escape newlines and tabs",
			input:    "a\n\tb",
			expected: `a\n\tb`,
		},
		{
			name:     "it should neutralize a closing script tag",
			input:    "</script>",
			expected: `<\/script>`,
		},
		{
			name:     "it should escape remaining control characters as unicode",
			input:    "a\x00b",
			expected: "a\\u0000b",
		},
		{
			name:     "it should escape the line separator",
			input:    "a\u2028b",
			expected: "a\\u2028b",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, EscapeScriptString(tt.input))
		})
	}
}

func TestEscapeScriptString_NeverLeavesScriptTerminator(t *testing.T) {
	inputs := []string{
		"</script>",
		"x</script><script>alert(1)</script>",
		"a</scr" + "ipt>b</script>",
	}
	for _, input := range inputs {
		escaped := EscapeScriptString(input)
		assert.NotContains(t, escaped, "</script>", "input %q", input)
		assert.NotContains(t, escaped, "</", "input %q", input)
	}
}
