package logging

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/fatih/color"

	"github.com/keboola/ai-kit/internal/redact"
)

// levelStyle pairs a level threshold with the color it renders in.
type levelStyle struct {
	min   slog.Level
	color *color.Color
}

// palette is nil for plain output.
type palette struct {
	time   *color.Color
	key    *color.Color
	levels []levelStyle
}

func newPalette() *palette {
	return &palette{
		time: color.New(color.FgHiBlack),
		key:  color.New(color.FgCyan),
		levels: []levelStyle{
			{slog.LevelError, color.New(color.FgRed, color.Bold)},
			{slog.LevelWarn, color.New(color.FgYellow)},
			{slog.LevelInfo, color.New(color.FgGreen)},
			{LevelTrace - 100, color.New(color.FgMagenta)},
		},
	}
}

// Handler writes one human-readable line per record:
//
//	3:04PM WARN  message key=value group.key=value
//
// Secret-looking values are masked before they are written.
type Handler struct {
	level  slog.Leveler
	out    io.Writer
	mu     *sync.Mutex
	colors *palette

	// preformatted attributes from WithAttrs, already prefixed
	preformatted []byte
	prefix       string
}

// NewHandler creates a text handler that colorizes output when out is a
// color-capable terminal.
func NewHandler(out io.Writer, opts *slog.HandlerOptions) *Handler {
	h := &Handler{out: out, mu: &sync.Mutex{}, level: slog.LevelInfo}
	if opts != nil && opts.Level != nil {
		h.level = opts.Level
	}
	if SupportsColor(out) {
		h.colors = newPalette()
	}
	return h
}

// Enabled reports whether the handler handles records at the given level.
func (h *Handler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

// Handle formats r into a buffer and writes it with a single call.
func (h *Handler) Handle(_ context.Context, r slog.Record) error {
	var buf bytes.Buffer

	if !r.Time.IsZero() {
		buf.WriteString(h.paint(h.timeColor(), r.Time.Format(time.Kitchen)))
		buf.WriteByte(' ')
	}
	fmt.Fprintf(&buf, "%-5s %s", h.levelName(r.Level), r.Message)

	buf.Write(h.preformatted)
	r.Attrs(func(a slog.Attr) bool {
		h.writeAttr(&buf, h.prefix, a)
		return true
	})
	buf.WriteByte('\n')

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := h.out.Write(buf.Bytes())
	return err
}

func (h *Handler) levelName(level slog.Level) string {
	name := level.String()
	if level <= LevelTrace {
		name = "TRACE"
	}
	if h.colors == nil {
		return name
	}
	for _, s := range h.colors.levels {
		if level >= s.min {
			return s.color.Sprint(name)
		}
	}
	return name
}

func (h *Handler) timeColor() *color.Color {
	if h.colors == nil {
		return nil
	}
	return h.colors.time
}

func (h *Handler) paint(c *color.Color, s string) string {
	if c == nil {
		return s
	}
	return c.Sprint(s)
}

// writeAttr writes a as " prefix.key=value", flattening nested groups.
func (h *Handler) writeAttr(buf *bytes.Buffer, prefix string, a slog.Attr) {
	a.Value = a.Value.Resolve()
	if a.Equal(slog.Attr{}) {
		return
	}

	if a.Value.Kind() == slog.KindGroup {
		group := prefix
		if a.Key != "" {
			group = prefix + a.Key + "."
		}
		for _, ga := range a.Value.Group() {
			h.writeAttr(buf, group, ga)
		}
		return
	}

	key := prefix + a.Key
	if h.colors != nil {
		key = h.colors.key.Sprint(key)
	}
	fmt.Fprintf(buf, " %s=%v", key, maskAttr(a))
}

// maskAttr returns the value to print for a, masked when the key names a
// credential or the value carries a known token prefix.
func maskAttr(a slog.Attr) any {
	value := a.Value.Any()
	if redact.ShouldMask(a.Key) {
		return redact.MaskValue(fmt.Sprint(value))
	}
	if s, ok := value.(string); ok && redact.ContainsTokenPrefix(s) {
		return redact.MaskValue(s)
	}
	return value
}

// WithAttrs returns a new Handler with attrs rendered once up front.
func (h *Handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	if len(attrs) == 0 {
		return h
	}
	var buf bytes.Buffer
	buf.Write(h.preformatted)
	for _, a := range attrs {
		h.writeAttr(&buf, h.prefix, a)
	}
	newH := *h
	newH.preformatted = buf.Bytes()
	return &newH
}

// WithGroup returns a new Handler that prefixes later keys with name.
func (h *Handler) WithGroup(name string) slog.Handler {
	if strings.TrimSpace(name) == "" {
		return h
	}
	newH := *h
	newH.prefix = h.prefix + name + "."
	return &newH
}
