// Package statusline renders the one-line cost summary shown in the host's
// status bar.
//
// The host pipes a JSON document describing the session to stdin. Every
// field is optional: missing or malformed values read as zero, and the
// line is always produced.
package statusline

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/tidwall/gjson"
)

// Truncation limits for the working directory.
const (
	MaxPathLen  = 35
	KeepPathLen = 32
	ellipsis    = "..."
)

const msPerHour = 3_600_000

// Input is the subset of the host's status line payload aikit uses.
type Input struct {
	CurrentDir     string
	Model          string
	SessionID      string
	TranscriptPath string
	CostUSD        float64
	DurationMS     float64
}

// ParseInput reads the payload from r. It never fails; unreadable input
// yields a zero Input.
func ParseInput(r io.Reader) Input {
	data, err := io.ReadAll(io.LimitReader(r, 1<<20))
	if err != nil || !gjson.ValidBytes(data) {
		return Input{}
	}
	return ParseBytes(data)
}

// ParseBytes extracts Input from a JSON document.
func ParseBytes(data []byte) Input {
	doc := gjson.ParseBytes(data)

	dir := doc.Get("workspace.current_dir").String()
	if dir == "" {
		dir = doc.Get("cwd").String()
	}

	return Input{
		CurrentDir:     dir,
		Model:          doc.Get("model.display_name").String(),
		SessionID:      doc.Get("session_id").String(),
		TranscriptPath: doc.Get("transcript_path").String(),
		CostUSD:        number(doc.Get("cost.total_cost_usd")),
		DurationMS:     number(doc.Get("cost.total_duration_ms")),
	}
}

// number accepts JSON numbers and numeric strings; anything else is zero.
func number(r gjson.Result) float64 {
	switch r.Type {
	case gjson.Number:
		return r.Num
	case gjson.String:
		if n := gjson.Parse(r.Str); n.Type == gjson.Number {
			return n.Num
		}
	}
	return 0
}

// BurnRate converts cost over a duration into dollars per hour. A zero or
// negative duration yields zero.
func BurnRate(costUSD, durationMS float64) float64 {
	if durationMS <= 0 {
		return 0
	}
	return costUSD / durationMS * msPerHour
}

// TruncatePath keeps paths of up to MaxPathLen characters and shortens
// longer ones to "..." plus their last KeepPathLen characters.
func TruncatePath(p string) string {
	runes := []rune(p)
	if len(runes) <= MaxPathLen {
		return p
	}
	return ellipsis + string(runes[len(runes)-KeepPathLen:])
}

// Palette colors the three segments. A nil color prints plain text.
type Palette struct {
	Dir  *color.Color
	Cost *color.Color
	Rate *color.Color
	Sep  *color.Color
}

// DefaultPalette returns the standard colors with output forced on, since
// the host renders ANSI even though stdout is a pipe.
func DefaultPalette() Palette {
	p := Palette{
		Dir:  color.New(color.FgBlue, color.Bold),
		Cost: color.New(color.FgGreen),
		Rate: color.New(color.FgYellow),
		Sep:  color.New(color.FgHiBlack),
	}
	for _, c := range []*color.Color{p.Dir, p.Cost, p.Rate, p.Sep} {
		c.EnableColor()
	}
	return p
}

// Format renders "<dir> · $<cost> · $<rate>/h".
func Format(in Input, p Palette) string {
	paint := func(c *color.Color, s string) string {
		if c == nil {
			return s
		}
		return c.Sprint(s)
	}

	sep := paint(p.Sep, " · ")
	var b strings.Builder
	b.WriteString(paint(p.Dir, TruncatePath(in.CurrentDir)))
	b.WriteString(sep)
	b.WriteString(paint(p.Cost, fmt.Sprintf("$%.3f", in.CostUSD)))
	b.WriteString(sep)
	b.WriteString(paint(p.Rate, fmt.Sprintf("$%.2f/h", BurnRate(in.CostUSD, in.DurationMS))))
	return b.String()
}
