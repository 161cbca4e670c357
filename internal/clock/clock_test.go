package clock

import (
	"testing"
	"time"
)

func TestRealUsesLocation(t *testing.T) {
	loc := time.FixedZone("test", 5*3600)
	now := Real{Location: loc}.Now()
	if now.Location() != loc {
		t.Errorf("location = %v, want %v", now.Location(), loc)
	}
}

func TestFixed(t *testing.T) {
	at := time.Date(2026, 10, 19, 19, 0, 0, 0, time.UTC)
	c := Fixed(at)
	if !c.Now().Equal(at) {
		t.Errorf("now = %v, want %v", c.Now(), at)
	}
}
