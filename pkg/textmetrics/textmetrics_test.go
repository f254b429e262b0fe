package textmetrics

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/chatflowhq/chatflow/pkg/models"
)

func TestStrip(t *testing.T) {
	tests := []struct {
		name     string
		input    models.RichText
		expected string
	}{
		{
			name:     "plain text unchanged",
			input:    "hello world",
			expected: "hello world",
		},
		{
			name:     "tags removed",
			input:    "<b>hello</b> <i>world</i>",
			expected: "hello world",
		},
		{
			name:     "nested tags keep inner text",
			input:    "<p><strong>bold</strong> text</p>",
			expected: "bold text",
		},
		{
			name:     "whitespace runs collapse",
			input:    "hello   \n\t  world",
			expected: "hello world",
		},
		{
			name:     "leading and trailing whitespace trimmed",
			input:    "  hello  ",
			expected: "hello",
		},
		{
			name:     "empty input",
			input:    "",
			expected: "",
		},
		{
			name:     "tag-only input",
			input:    "<br><img src=\"x\">",
			expected: "",
		},
		{
			name:     "adjacent words join when tag is removed",
			input:    "hello<br>world",
			expected: "helloworld",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Strip(tt.input))
		})
	}
}

func TestStrip_Idempotent(t *testing.T) {
	inputs := []models.RichText{
		"<b>hello</b>   world",
		"plain",
		"  spaced   out  ",
		"",
	}

	for _, input := range inputs {
		once := Strip(input)
		twice := Strip(models.RichText(once))
		assert.Equal(t, once, twice)
	}
}

func TestPlainLength(t *testing.T) {
	assert.Equal(t, 0, PlainLength(""))
	assert.Equal(t, 0, PlainLength("<b></b>"))
	assert.Equal(t, 5, PlainLength("hello"))
	assert.Equal(t, 5, PlainLength("<b>hello</b>"))

	// Length counts runes, not bytes
	assert.Equal(t, 4, PlainLength("olá!"))
	assert.Equal(t, 2, PlainLength("日本"))
}
