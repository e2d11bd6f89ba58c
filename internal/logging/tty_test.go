package logging

import (
	"os"
	"strings"
	"testing"
)

func TestSupportsColor(t *testing.T) {
	tests := []struct {
		name  string
		env   map[string]string
		isTTY bool
		want  bool
	}{
		{
			name:  "NO_COLOR prevents color",
			env:   map[string]string{"NO_COLOR": "1"},
			isTTY: true,
			want:  false,
		},
		{
			name:  "TERM=dumb prevents color",
			env:   map[string]string{"TERM": "dumb"},
			isTTY: true,
			want:  false,
		},
		{
			name:  "pipe prevents color",
			env:   map[string]string{},
			isTTY: false,
			want:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Clear relevant env vars
			os.Unsetenv("NO_COLOR")
			os.Unsetenv("TERM")

			// Set test env vars
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			// We use the internal function to test env logic independently of real TTY detection.
			var w mockWriter
			got := supportsColor(&w, tt.isTTY)
			if got != tt.want {
				t.Errorf("supportsColor() = %v, want %v (env=%v, isTTY=%v)", got, tt.want, tt.env, tt.isTTY)
			}
		})
	}
}

func TestIsTTY_NonFile(t *testing.T) {
	var w mockWriter
	if IsTTY(&w) != false {
		t.Error("IsTTY should return false for mockWriter")
	}
}

type mockWriter struct{}

func (m *mockWriter) Write(p []byte) (n int, err error) {
	return len(p), nil
}

func TestSupportsColor_TTYWithCleanEnv(t *testing.T) {
	t.Setenv("NO_COLOR", "")
	os.Unsetenv("NO_COLOR")
	t.Setenv("TERM", "xterm-256color")

	var w mockWriter
	if !supportsColor(&w, true) {
		t.Error("a TTY with a capable TERM should support color")
	}
}

func TestNoColor(t *testing.T) {
	t.Setenv("TERM", "xterm")
	t.Setenv("NO_COLOR", "")
	if !NoColor() {
		t.Error("an empty but present NO_COLOR still disables color")
	}
	os.Unsetenv("NO_COLOR")
	if NoColor() {
		t.Error("NoColor() = true without NO_COLOR and with a capable TERM")
	}
}

func TestIsInteractive_NonFile(t *testing.T) {
	if IsInteractive(strings.NewReader("y\n")) {
		t.Error("a strings.Reader is never interactive")
	}
}
