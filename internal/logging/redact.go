package logging

import (
	"context"
	"log/slog"
	"regexp"

	"github.com/m-mizutani/masq"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// RedactOptions returns the masq options hiding the contact details a
// quotation carries.
func RedactOptions() []masq.Option {
	return []masq.Option{
		masq.WithFieldName("email"),
		masq.WithFieldName("Email"),
		masq.WithFieldName("tel"),
		masq.WithFieldName("Tel"),
		masq.WithFieldName("customerTaxID"),
		masq.WithFieldName("CustomerTaxID"),
		masq.WithFieldName("quoterTaxID"),
		masq.WithFieldName("QuoterTaxID"),
		masq.WithRegex(emailPattern),
	}
}

// NewReplaceAttr creates a slog ReplaceAttr function applying RedactOptions
// plus opts.
func NewReplaceAttr(opts ...masq.Option) func(groups []string, a slog.Attr) slog.Attr {
	return masq.New(append(RedactOptions(), opts...)...)
}

// replaceHandler applies replace to every attribute before passing the
// record on. It serves handlers without a ReplaceAttr option.
type replaceHandler struct {
	next    slog.Handler
	replace func([]string, slog.Attr) slog.Attr
	groups  []string
}

func (h *replaceHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.next.Enabled(ctx, level)
}

func (h *replaceHandler) Handle(ctx context.Context, r slog.Record) error {
	out := slog.NewRecord(r.Time, r.Level, r.Message, r.PC)
	r.Attrs(func(a slog.Attr) bool {
		out.AddAttrs(h.replace(h.groups, a))
		return true
	})
	return h.next.Handle(ctx, out)
}

func (h *replaceHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	replaced := make([]slog.Attr, len(attrs))
	for i, a := range attrs {
		replaced[i] = h.replace(h.groups, a)
	}
	return &replaceHandler{next: h.next.WithAttrs(replaced), replace: h.replace, groups: h.groups}
}

func (h *replaceHandler) WithGroup(name string) slog.Handler {
	groups := append(append([]string(nil), h.groups...), name)
	return &replaceHandler{next: h.next.WithGroup(name), replace: h.replace, groups: groups}
}
