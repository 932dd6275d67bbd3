package datemath

import (
	"strings"
	"time"

	"github.com/jinzhu/now"
	"github.com/pkg/errors"
)

// Value is the input to Parser.Parse. It is one of Expr, Time or Instant.
type Value interface {
	value()
}

// Expr is a date math expression such as "now-1d/d" or
// "2014-01-01T00:00:00Z||+1M".
type Expr string

// Time is an already resolved instant. It is returned as is.
type Time time.Time

// Instant is an already resolved value of the calendar library. It is
// returned as is.
type Instant struct {
	*now.Now
}

func (Expr) value()    {}
func (Time) value()    {}
func (Instant) value() {}

const (
	nowKeyword = "now"
	separator  = "||"
)

// isoLayouts are tried before anything else. Layouts without a zone are read
// in the parser's location.
var isoLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999Z0700",
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02 15:04",
	"2006-01-02",
	"2006-01",
	"2006",
}

// anchor is the result of splitting the input: the base instant and the
// suffix still to be evaluated.
type anchor struct {
	t      time.Time
	suffix string
}

// resolve turns v into its anchor. clock is read at most once.
func (p *Parser) resolve(v Value, clock func() time.Time) (anchor, error) {
	switch v := v.(type) {
	case Instant:
		if v.Now == nil {
			return anchor{}, ErrEmpty
		}
		return anchor{t: v.Time}, nil
	case Time:
		if time.Time(v).IsZero() {
			return anchor{}, ErrEmpty
		}
		return anchor{t: time.Time(v)}, nil
	case Expr:
		return p.resolveExpr(string(v), clock)
	}
	return anchor{}, ErrEmpty
}

func (p *Parser) resolveExpr(s string, clock func() time.Time) (anchor, error) {
	if s == "" {
		return anchor{}, ErrEmpty
	}

	if i := strings.Index(s, separator); i >= 0 {
		head, suffix := s[:i], s[i+len(separator):]
		if head == nowKeyword {
			return anchor{t: clock(), suffix: suffix}, nil
		}
		t, err := p.parseLiteral(head, clock)
		if err != nil {
			return anchor{}, err
		}
		return anchor{t: t, suffix: suffix}, nil
	}

	if s == nowKeyword {
		return anchor{t: clock()}, nil
	}
	if rest := strings.TrimPrefix(s, nowKeyword); rest != s {
		switch Operator(rest[0]) {
		case Add, Subtract, Round:
			return anchor{t: clock(), suffix: rest}, nil
		}
	}

	t, err := p.parseLiteral(s, clock)
	if err != nil {
		return anchor{}, err
	}
	return anchor{t: t}, nil
}

// parseLiteral reads an absolute date/time. ISO 8601 forms are tried first,
// then the calendar library's own layouts, which fill missing fields from
// the current time.
func (p *Parser) parseLiteral(s string, clock func() time.Time) (time.Time, error) {
	if s == "" {
		return time.Time{}, errors.Wrap(ErrLiteral, "empty anchor")
	}
	for _, layout := range isoLayouts {
		if t, err := time.ParseInLocation(layout, s, p.loc); err == nil {
			return t.In(p.loc), nil
		}
	}

	cfg := &now.Config{
		WeekStartDay: p.weekStart,
		TimeLocation: p.loc,
		TimeFormats:  p.layouts,
	}
	t, err := cfg.With(clock().In(p.loc)).Parse(s)
	if err != nil {
		return time.Time{}, errors.Wrapf(ErrLiteral, "%q: %v", s, err)
	}
	return t.In(p.loc), nil
}
