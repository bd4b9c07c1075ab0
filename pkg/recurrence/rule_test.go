package recurrence

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRule_Encode(t *testing.T) {
	testCases := []struct {
		name string
		rule Rule
		want string
	}{
		{
			name: "none encodes to empty",
			rule: Rule{Freq: None},
			want: "",
		},
		{
			name: "weekly keeps caller-supplied day order",
			rule: Rule{Freq: Weekly, Days: []time.Weekday{time.Friday, time.Monday}},
			want: "FREQ=WEEKLY;BYDAY=FR,MO",
		},
		{
			name: "weekly with a single day",
			rule: Rule{Freq: Weekly, Days: []time.Weekday{time.Wednesday}},
			want: "FREQ=WEEKLY;BYDAY=WE",
		},
		{
			name: "weekly with no days encodes to empty",
			rule: Rule{Freq: Weekly},
			want: "",
		},
		{
			name: "monthly",
			rule: Rule{Freq: Monthly, MonthDay: 15},
			want: "FREQ=MONTHLY;BYMONTHDAY=15",
		},
		{
			name: "monthly day 31",
			rule: Rule{Freq: Monthly, MonthDay: 31},
			want: "FREQ=MONTHLY;BYMONTHDAY=31",
		},
		{
			name: "monthly without a day encodes to empty",
			rule: Rule{Freq: Monthly},
			want: "",
		},
		{
			name: "monthly with an out-of-range day encodes to empty",
			rule: Rule{Freq: Monthly, MonthDay: 32},
			want: "",
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.rule.Encode())
		})
	}
}

func TestDecode(t *testing.T) {
	testCases := []struct {
		name string
		rule string
		want Rule
	}{
		{
			name: "empty string is none",
			rule: "",
			want: Rule{Freq: None},
		},
		{
			name: "unknown FREQ is none",
			rule: "FREQ=DAILY",
			want: Rule{Freq: None},
		},
		{
			name: "weekly",
			rule: "FREQ=WEEKLY;BYDAY=MO,FR",
			want: Rule{Freq: Weekly, Days: []time.Weekday{time.Monday, time.Friday}},
		},
		{
			name: "weekly is case-insensitive",
			rule: "freq=weekly;byday=mo,fr",
			want: Rule{Freq: Weekly, Days: []time.Weekday{time.Monday, time.Friday}},
		},
		{
			name: "unknown day codes are dropped",
			rule: "FREQ=WEEKLY;BYDAY=MO,XX,FR",
			want: Rule{Freq: Weekly, Days: []time.Weekday{time.Monday, time.Friday}},
		},
		{
			name: "duplicate day codes are preserved",
			rule: "FREQ=WEEKLY;BYDAY=MO,MO",
			want: Rule{Freq: Weekly, Days: []time.Weekday{time.Monday, time.Monday}},
		},
		{
			name: "weekly without BYDAY is inactive weekly",
			rule: "FREQ=WEEKLY",
			want: Rule{Freq: Weekly},
		},
		{
			name: "monthly",
			rule: "FREQ=MONTHLY;BYMONTHDAY=31",
			want: Rule{Freq: Monthly, MonthDay: 31},
		},
		{
			name: "monthly without BYMONTHDAY is unconfigured",
			rule: "FREQ=MONTHLY",
			want: Rule{Freq: Monthly},
		},
		{
			name: "garbage is none",
			rule: "no clue what this is",
			want: Rule{Freq: None},
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Decode(tc.rule))
		})
	}
}

func TestRule_RoundTrip(t *testing.T) {
	rules := []Rule{
		{Freq: None},
		{Freq: Weekly, Days: []time.Weekday{time.Monday}},
		{Freq: Weekly, Days: []time.Weekday{time.Saturday, time.Sunday}},
		{Freq: Weekly, Days: []time.Weekday{time.Friday, time.Monday, time.Wednesday}},
		{Freq: Monthly, MonthDay: 1},
		{Freq: Monthly, MonthDay: 31},
	}
	for _, rule := range rules {
		t.Run(rule.Encode(), func(t *testing.T) {
			decoded := Decode(rule.Encode())
			if !rule.Active() {
				assert.False(t, decoded.Active())
				return
			}
			assert.Equal(t, rule.Freq, decoded.Freq)
			assert.ElementsMatch(t, rule.Days, decoded.Days)
			assert.Equal(t, rule.MonthDay, decoded.MonthDay)
		})
	}
}

func TestRule_Active(t *testing.T) {
	assert.False(t, Rule{Freq: None}.Active())
	assert.False(t, Rule{Freq: Weekly}.Active())
	assert.True(t, Rule{Freq: Weekly, Days: []time.Weekday{time.Monday}}.Active())
	assert.False(t, Rule{Freq: Monthly}.Active())
	assert.False(t, Rule{Freq: Monthly, MonthDay: 32}.Active())
	assert.True(t, Rule{Freq: Monthly, MonthDay: 31}.Active())
}
