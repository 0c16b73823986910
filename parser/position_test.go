package parser

import (
	"testing"

	"github.com/alecthomas/assert/v2"
)

func TestPositionString(t *testing.T) {
	tests := []struct {
		name string
		pos  Position
		want string
	}{
		{
			name: "with filename",
			pos:  Position{Filename: "data.csv", Offset: 10, Line: 2, Column: 5},
			want: "data.csv:2:5",
		},
		{
			name: "without filename",
			pos:  Position{Line: 7, Column: 1},
			want: "7:1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.pos.String())
		})
	}
}

func TestPositionGoString(t *testing.T) {
	pos := Position{Filename: "a.csv", Offset: 3, Line: 1, Column: 4}
	assert.Equal(t, `Position{Filename: "a.csv", Offset: 3, Line: 1, Column: 4}`, pos.GoString())
}
