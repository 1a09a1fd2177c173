package logger

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"sync"
	"time"
)

const (
	ansiReset  = "\033[0m"
	ansiRed    = "\033[31m"
	ansiGreen  = "\033[32m"
	ansiYellow = "\033[33m"
	ansiBlue   = "\033[34m"
	ansiPurple = "\033[35m"
	ansiCyan   = "\033[36m"
	ansiFaint  = "\033[2m"
	ansiBold   = "\033[1m"
)

// componentKey is rendered as a bracketed tag instead of a key=value pair.
const componentKey = "component"

// PrettyHandler writes one colored line per record:
//
//	15:04:05 INF [imdb] fetched key=0114709 took=250ms
//
// Attributes added under a group are prefixed with the group path. An
// "error" attribute is highlighted.
type PrettyHandler struct {
	level     slog.Leveler
	addSource bool
	mu        *sync.Mutex
	out       io.Writer
	component string
	group     string
	preset    []byte
}

// NewPrettyHandler creates a pretty handler writing to w.
func NewPrettyHandler(w io.Writer, opts *slog.HandlerOptions) *PrettyHandler {
	h := &PrettyHandler{out: w, mu: &sync.Mutex{}, level: slog.LevelInfo}
	if opts != nil {
		if opts.Level != nil {
			h.level = opts.Level
		}
		h.addSource = opts.AddSource
	}
	return h
}

// Enabled reports whether records at level are written.
func (h *PrettyHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

// Handle writes r as a single line.
func (h *PrettyHandler) Handle(_ context.Context, r slog.Record) error {
	var line bytes.Buffer

	if !r.Time.IsZero() {
		paint(&line, ansiFaint, r.Time.Format(time.TimeOnly))
		line.WriteByte(' ')
	}

	label, color := levelLabel(r.Level)
	paint(&line, color, label)
	line.WriteByte(' ')

	if h.component != "" {
		paint(&line, ansiBlue, "["+h.component+"]")
		line.WriteByte(' ')
	}

	if h.addSource && r.PC != 0 {
		frame, _ := runtime.CallersFrames([]uintptr{r.PC}).Next()
		paint(&line, ansiFaint, filepath.Base(frame.File)+":"+strconv.Itoa(frame.Line))
		line.WriteByte(' ')
	}

	paint(&line, ansiBold, r.Message)

	line.Write(h.preset)
	r.Attrs(func(a slog.Attr) bool {
		writeAttr(&line, h.group, a)
		return true
	})
	line.WriteByte('\n')

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := h.out.Write(line.Bytes())
	return err
}

// WithAttrs returns a handler that writes attrs on every record. A top-level
// component attribute replaces the bracketed tag.
func (h *PrettyHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	next := *h
	var preset bytes.Buffer
	preset.Write(h.preset)
	for _, a := range attrs {
		if h.group == "" && a.Key == componentKey {
			next.component = a.Value.Resolve().String()
			continue
		}
		writeAttr(&preset, h.group, a)
	}
	next.preset = preset.Bytes()
	return &next
}

// WithGroup returns a handler whose later attributes are nested under name.
func (h *PrettyHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	next := *h
	next.group = h.group + name + "."
	return &next
}

// writeAttr appends " key=value", flattening groups into dotted keys.
func writeAttr(buf *bytes.Buffer, group string, a slog.Attr) {
	a.Value = a.Value.Resolve()
	if a.Equal(slog.Attr{}) {
		return
	}
	if a.Value.Kind() == slog.KindGroup {
		if a.Key != "" {
			group += a.Key + "."
		}
		for _, member := range a.Value.Group() {
			writeAttr(buf, group, member)
		}
		return
	}

	color := ansiCyan
	if a.Key == "error" || a.Key == "err" {
		color = ansiRed
	}
	buf.WriteByte(' ')
	paint(buf, color, group+a.Key+"="+valueText(a.Value))
}

func paint(buf *bytes.Buffer, color, s string) {
	buf.WriteString(color)
	buf.WriteString(s)
	buf.WriteString(ansiReset)
}

func levelLabel(level slog.Level) (label, color string) {
	switch {
	case level >= slog.LevelError:
		return "ERR", ansiRed
	case level >= slog.LevelWarn:
		return "WRN", ansiYellow
	case level >= slog.LevelInfo:
		return "INF", ansiGreen
	default:
		return "DBG", ansiPurple
	}
}

// valueText renders v, quoting strings that would break key=value parsing.
func valueText(v slog.Value) string {
	switch v.Kind() {
	case slog.KindString:
		s := v.String()
		if s == "" || strings.ContainsAny(s, " \t\n\"=") {
			return strconv.Quote(s)
		}
		return s
	case slog.KindTime:
		return v.Time().Format(time.RFC3339)
	case slog.KindAny:
		if err, ok := v.Any().(error); ok {
			return strconv.Quote(err.Error())
		}
		return fmt.Sprint(v.Any())
	default:
		return v.String()
	}
}
