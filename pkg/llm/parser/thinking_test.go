package parser

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestThinkingFilterChunks(t *testing.T) {
	tests := []struct {
		name   string
		chunks []string
		want   string
	}{
		{
			name:   "no thinking",
			chunks: []string{"The page ", "is about cats."},
			want:   "The page is about cats.",
		},
		{
			name:   "thinking block removed",
			chunks: []string{"<thinking>", "This is thinking", "</thinking>", "This is a message"},
			want:   "This is a message",
		},
		{
			name:   "tags split across chunks",
			chunks: []string{"<thin", "king>hidden</thi", "nking>shown"},
			want:   "shown",
		},
		{
			name: "angle brackets inside thinking",
			chunks: []string{
				"<thinking>",
				"2. Line 11: `if x>3{`\n",
				"3. Line 15: `for i:=0;i<10;i++{`\n",
				"</thinking>",
				"\n\n<b>answer</b>",
			},
			want: "\n\n<b>answer</b>",
		},
		{
			name:   "comparison in message",
			chunks: []string{"x < 5 and y > 2"},
			want:   "x < 5 and y > 2",
		},
		{
			name:   "dangling open bracket",
			chunks: []string{"price <"},
			want:   "price <",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := NewThinkingFilter()
			var got strings.Builder
			for _, chunk := range tt.chunks {
				got.WriteString(f.Write(chunk))
			}
			got.WriteString(f.Flush())

			assert.Equal(t, tt.want, got.String())
			assert.False(t, f.InThinking())
		})
	}
}

func TestThinkingFilterState(t *testing.T) {
	f := NewThinkingFilter()

	assert.Empty(t, f.Write("<thinking>still going"))
	assert.True(t, f.InThinking())

	f.Reset()
	assert.False(t, f.InThinking())
	assert.Equal(t, "visible", f.Write("visible"))
}

func TestStripThinking(t *testing.T) {
	assert.Equal(t, "Cats are mammals.", StripThinking("<thinking>the user wants cats</thinking>\n Cats are mammals. "))
	assert.Equal(t, "", StripThinking("<thinking>only thoughts</thinking>"))
	assert.Equal(t, "plain", StripThinking("plain"))
}
