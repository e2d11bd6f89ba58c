package statusline

import (
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"
)

func TestParseInput(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  Input
	}{
		{
			name: "full payload",
			input: `{"session_id":"abc","transcript_path":"/tmp/t.jsonl","cwd":"/ignored",
				"model":{"id":"x","display_name":"Opus"},
				"workspace":{"current_dir":"/home/me/repo"},
				"cost":{"total_cost_usd":0.5,"total_duration_ms":120000}}`,
			want: Input{
				CurrentDir: "/home/me/repo", Model: "Opus", SessionID: "abc",
				TranscriptPath: "/tmp/t.jsonl", CostUSD: 0.5, DurationMS: 120000,
			},
		},
		{
			name:  "cwd fallback",
			input: `{"cwd":"/srv"}`,
			want:  Input{CurrentDir: "/srv"},
		},
		{
			name:  "numeric strings",
			input: `{"cost":{"total_cost_usd":"1.5","total_duration_ms":"oops"}}`,
			want:  Input{CostUSD: 1.5},
		},
		{name: "empty", input: ``},
		{name: "garbage", input: `not json at all`},
		{name: "wrong types", input: `{"cost":{"total_cost_usd":true},"workspace":[]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseInput(strings.NewReader(tt.input)))
		})
	}
}

func TestBurnRate_ZeroGuard(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		cost := rapid.Float64Range(0, 1e6).Draw(t, "cost")
		duration := rapid.Float64Range(-1e9, 0).Draw(t, "duration")

		rate := BurnRate(cost, duration)
		if rate != 0 || math.IsNaN(rate) || math.IsInf(rate, 0) {
			t.Fatalf("BurnRate(%v, %v) = %v, want 0", cost, duration, rate)
		}
		if got := Format(Input{CostUSD: cost, DurationMS: duration}, Palette{}); !strings.HasSuffix(got, "$0.00/h") {
			t.Fatalf("Format() = %q, want $0.00/h suffix", got)
		}
	})
}

func TestBurnRate(t *testing.T) {
	assert.InDelta(t, 7.404, BurnRate(1.234, 600000), 1e-9)
	assert.InDelta(t, 1.0, BurnRate(1, 3_600_000), 1e-9)
}

func TestTruncatePath_Boundary(t *testing.T) {
	thirtyFive := "/" + strings.Repeat("a", 34)
	thirtySix := "/" + strings.Repeat("b", 35)

	assert.Equal(t, thirtyFive, TruncatePath(thirtyFive))
	assert.Equal(t, "..."+thirtySix[4:], TruncatePath(thirtySix))
	assert.Len(t, TruncatePath(thirtySix), 35)
}

func TestTruncatePath_Property(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		p := rapid.StringMatching(`(/[a-zé0-9_-]{1,12}){1,8}`).Draw(t, "path")
		runes := []rune(p)
		got := TruncatePath(p)

		if len(runes) <= MaxPathLen {
			if got != p {
				t.Fatalf("TruncatePath(%q) = %q, want unchanged", p, got)
			}
			return
		}
		want := "..." + string(runes[len(runes)-KeepPathLen:])
		if got != want {
			t.Fatalf("TruncatePath(%q) = %q, want %q", p, got, want)
		}
	})
}

func TestFormat_EndToEnd(t *testing.T) {
	in := ParseInput(strings.NewReader(`{"cost":{"total_cost_usd":1.234,"total_duration_ms":600000}}`))
	line := Format(in, Palette{})

	assert.Contains(t, line, "$1.234")
	assert.Contains(t, line, "$7.40/h")
	assert.Equal(t, " · $1.234 · $7.40/h", line)
}

func TestFormat_DefaultPaletteEmitsANSI(t *testing.T) {
	line := Format(Input{CurrentDir: "/repo", CostUSD: 0.1, DurationMS: 1000}, DefaultPalette())
	assert.Contains(t, line, "\x1b[")
	assert.Contains(t, line, "/repo")
}
