package datemath

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenize(t *testing.T) {
	tests := []struct {
		suffix string
		want   []Operation
	}{
		{"", nil},
		{"-5d", []Operation{{Subtract, 5, UnitDay}}},
		{"+12ms", []Operation{{Add, 12, UnitMillisecond}}},
		{"+1m", []Operation{{Add, 1, UnitMinute}}},
		{"+1M", []Operation{{Add, 1, UnitMonth}}},
		{"/w", []Operation{{Round, 1, UnitWeek}}},
		{"-0s", []Operation{{Subtract, 0, UnitSecond}}},
		{"+007h", []Operation{{Add, 7, UnitHour}}},
		{"-1d/d+1h", []Operation{
			{Subtract, 1, UnitDay},
			{Round, 1, UnitDay},
			{Add, 1, UnitHour},
		}},
		{"/ms/s", []Operation{{Round, 1, UnitMillisecond}, {Round, 1, UnitSecond}}},
	}
	for _, tt := range tests {
		t.Run(tt.suffix, func(t *testing.T) {
			got, ok := Tokenize(tt.suffix)
			require.True(t, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTokenizeErrors(t *testing.T) {
	tests := []struct {
		suffix string
		err    error
	}{
		{"&1d", ErrOperator},
		{"5d", ErrOperator},
		{" -5d", ErrOperator},
		{"+5f", ErrUnit},
		{"/2y", ErrUnit},
		{"/0.5y", ErrUnit},
		{"/", ErrUnit},
		{"-0", ErrUnit},
		{"-00", ErrUnit},
		{"-000", ErrUnit},
		{"-1.5d", ErrUnit},
		{"+", ErrAmount},
		{"-d", ErrAmount},
		{"+-1d", ErrAmount},
		{"-1dd", ErrOperator},
		{"+1mss", ErrOperator},
	}
	for _, tt := range tests {
		t.Run(tt.suffix, func(t *testing.T) {
			ops, err := tokenize(tt.suffix)
			assert.Nil(t, ops)
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.err), "got %v", err)
		})
	}
}

func TestOperationString(t *testing.T) {
	ops, ok := Tokenize("-5d/M+12ms")
	require.True(t, ok)

	var s string
	for _, op := range ops {
		s += op.String()
	}
	assert.Equal(t, "-5d/M+12ms", s)
}

func TestParseUnit(t *testing.T) {
	for _, u := range Units() {
		got, ok := ParseUnit(u.String())
		require.True(t, ok, u.String())
		assert.Equal(t, u, got)
	}

	for _, s := range []string{"", "D", "Y", "H", "S", "MS", "mo", "q"} {
		_, ok := ParseUnit(s)
		assert.False(t, ok, s)
	}
}
