package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestBuildTitle(t *testing.T) {
	start := time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC)
	cases := map[string]string{
		"Ana Maria Lima": "AnaL@04/03-10/03#24",
		"Ana Ölund":      "AnaÖ@04/03-10/03#24",
		"Ana ölund":      "AnaÖ@04/03-10/03#24",
		"Bo":             "Bo@04/03-10/03#24",
		"":               "@04/03-10/03#24",
	}
	for name, want := range cases {
		p := &Plan{}
		p.Schedule(start, start)
		p.BuildTitle(name)
		assert.Equal(t, want, p.Title, name)
	}
}

func TestSchedule_ResetsRestDays(t *testing.T) {
	start := time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC)
	p := &Plan{Config: PlanConfig{WeeklyWorkouts: 5}}
	p.Days[0].Rest = true
	p.Schedule(start, start)

	var got []bool
	for _, d := range p.Days {
		got = append(got, d.Rest)
	}
	assert.Equal(t, []bool{false, false, false, false, false, true, true}, got)
}
