package clock

import (
	"testing"
	"time"
)

func TestMockClock(t *testing.T) {
	start := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	c := NewMockClock(start)

	if !c.Now().Equal(start) {
		t.Errorf("expected %v, got %v", start, c.Now())
	}

	later := start.Add(time.Hour)
	c.SetTime(later)
	if !c.Now().Equal(later) {
		t.Errorf("expected %v after SetTime, got %v", later, c.Now())
	}
}

func TestRealClock(t *testing.T) {
	c := NewRealClock()

	before := time.Now()
	now := c.Now()
	after := time.Now()

	if now.Before(before) || now.After(after) {
		t.Errorf("expected %v within [%v, %v]", now, before, after)
	}
}
