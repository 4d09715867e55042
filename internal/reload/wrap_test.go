package reload

import (
	"reflect"
	"testing"

	"github.com/dshills/monolcd/internal/framebuffer"
)

func TestWrap(t *testing.T) {
	fb, err := framebuffer.New(128, 64)
	if err != nil {
		t.Fatal(err)
	}
	// The default face is 7 pixels per character, so 35 pixels fit 5.
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{"fits", "abc", []string{"abc"}},
		{"words", "ab cd ef", []string{"ab cd", "ef"}},
		{"newline", "ab\ncd", []string{"ab", "cd"}},
		{"empty line", "ab\n\ncd", []string{"ab", "", "cd"}},
		{"long word", "abcdefghijkl", []string{"abcde", "fghij", "kl"}},
		{"long word after short", "ab abcdefg", []string{"ab", "abcde", "fg"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := wrap(fb, tt.in, 35); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("wrap(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
