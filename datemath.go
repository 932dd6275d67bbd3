// Package datemath evaluates date math expressions such as "now-5d",
// "now/M" or "2014-01-01T00:00:00Z||+3M/d".
//
// An expression is an anchor followed by zero or more operations. The anchor
// is "now" or an absolute date; an absolute anchor is separated from the
// operations by "||". Each operation is "+" or "-" followed by an amount and
// a unit, or "/" followed by a unit to round to. Units are ms, s, m (minute),
// h, d, w, M (month) and y.
//
// Parsing never fails loudly: an empty or malformed expression yields
// ok == false and the caller decides what to fall back to.
package datemath

import (
	"sync"
	"time"

	"github.com/jinzhu/now"
	"github.com/jonboulle/clockwork"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

var (
	ErrEmpty    = errors.New("empty expression")
	ErrOperator = errors.New("unknown operator")
	ErrAmount   = errors.New("invalid amount")
	ErrUnit     = errors.New("unknown unit")
	ErrLiteral  = errors.New("unparsable date")
	ErrOverflow = errors.New("amount out of range")
	ErrRange    = errors.New("end before start")
)

// Parser evaluates expressions. It is safe for concurrent use.
type Parser struct {
	clock     clockwork.Clock
	loc       *time.Location
	weekStart time.Weekday
	layouts   []string
	log       *zap.Logger
}

// Option configures a Parser.
type Option func(*Parser)

// WithClock sets the source of "now".
func WithClock(c clockwork.Clock) Option {
	return func(p *Parser) { p.clock = c }
}

// WithLocation sets the location "now" and zone-less dates are evaluated
// in. Calendar arithmetic and rounding happen in this location.
func WithLocation(loc *time.Location) Option {
	return func(p *Parser) { p.loc = loc }
}

// WithWeekStart sets the first day of the week for "/w". Default Sunday.
func WithWeekStart(d time.Weekday) Option {
	return func(p *Parser) { p.weekStart = d }
}

// WithLayouts adds time layouts tried for absolute anchors after the ISO
// 8601 forms and the calendar library's defaults.
func WithLayouts(layouts ...string) Option {
	return func(p *Parser) { p.layouts = append(p.layouts, layouts...) }
}

// WithLogger sets the logger rejected expressions are reported to at debug
// level. The default is a no-op logger.
func WithLogger(l *zap.Logger) Option {
	return func(p *Parser) { p.log = l }
}

// New returns a Parser with the given options applied over the defaults.
func New(opts ...Option) *Parser {
	p := &Parser{
		clock:     clockwork.NewRealClock(),
		loc:       time.Local,
		weekStart: time.Sunday,
		layouts:   append([]string(nil), now.TimeFormats...),
		log:       zap.NewNop(),
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.loc == nil {
		p.loc = time.Local
	}
	if p.log == nil {
		p.log = zap.NewNop()
	}
	return p
}

// Default is the parser used by the package level functions.
var Default = New()

// Parse evaluates expr with the default parser.
func Parse(expr string, roundUp bool) (time.Time, bool) {
	return Default.Parse(Expr(expr), roundUp)
}

// ParseValue evaluates v with the default parser.
func ParseValue(v Value, roundUp bool) (time.Time, bool) {
	return Default.Parse(v, roundUp)
}

// ParseString evaluates expr against the parser's clock.
func (p *Parser) ParseString(expr string, roundUp bool) (time.Time, bool) {
	return p.Parse(Expr(expr), roundUp)
}

// Parse evaluates v. roundUp makes "/" operations snap to the end of the
// unit instead of its start. ok is false when v is empty or malformed.
func (p *Parser) Parse(v Value, roundUp bool) (time.Time, bool) {
	t, err := p.parse(v, roundUp)
	if err != nil {
		p.log.Debug("date math expression rejected", zap.Any("value", v), zap.Error(err))
		return time.Time{}, false
	}
	return t, true
}

// ParseRange evaluates a from/to pair the way a time picker does: from
// rounds down, to rounds up.
func (p *Parser) ParseRange(from, to string) (start, end time.Time, ok bool) {
	clock := p.reader()
	start, err := p.eval(Expr(from), false, clock)
	if err == nil {
		end, err = p.eval(Expr(to), true, clock)
	}
	if err == nil && end.Before(start) {
		err = ErrRange
	}
	if err != nil {
		p.log.Debug("date math range rejected", zap.String("from", from), zap.String("to", to), zap.Error(err))
		return time.Time{}, time.Time{}, false
	}
	return start, end, true
}

func (p *Parser) parse(v Value, roundUp bool) (time.Time, error) {
	return p.eval(v, roundUp, p.reader())
}

func (p *Parser) eval(v Value, roundUp bool, clock func() time.Time) (time.Time, error) {
	a, err := p.resolve(v, clock)
	if err != nil {
		return time.Time{}, err
	}
	ops, err := tokenize(a.suffix)
	if err != nil {
		return time.Time{}, err
	}
	if ce := p.log.Check(zap.DebugLevel, "date math operations"); ce != nil {
		ce.Write(zap.Time("anchor", a.t), zap.Stringers("ops", ops))
	}

	t := a.t
	for _, op := range ops {
		if t, err = op.Apply(t, roundUp, p.weekStart); err != nil {
			return time.Time{}, err
		}
	}
	return t, nil
}

// reader returns a clock read that samples the clock once and then keeps
// returning that instant, so one evaluation never sees two different nows.
func (p *Parser) reader() func() time.Time {
	return sync.OnceValue(func() time.Time {
		return p.clock.Now().In(p.loc)
	})
}
