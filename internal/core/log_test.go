package core

import (
	"testing"
	"time"
)

func msgAt(t time.Time, text string) Message {
	return Message{Time: t, Text: text, From: 1, Username: "u"}
}

func TestMessageLogOrdersByTimestamp(t *testing.T) {
	l := NewMessageLog()
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	l.Append(msgAt(base.Add(2*time.Second), "third"))
	l.Append(msgAt(base, "first"))
	l.Append(msgAt(base.Add(time.Second), "second"))

	all := l.All()
	if len(all) != 3 {
		t.Fatalf("expected 3 messages, got %d", len(all))
	}
	for i, want := range []string{"first", "second", "third"} {
		if all[i].Text != want {
			t.Fatalf("position %d: expected %q, got %q", i, want, all[i].Text)
		}
	}
	for i := 1; i < len(all); i++ {
		if all[i].Time.Before(all[i-1].Time) {
			t.Fatalf("timestamps out of order at %d", i)
		}
	}
}

func TestMessageLogKeepsCollidingTimestamps(t *testing.T) {
	l := NewMessageLog()
	ts := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	l.Append(msgAt(ts, "one"))
	l.Append(msgAt(ts, "two"))
	l.Append(msgAt(ts, "three"))

	all := l.All()
	if len(all) != 3 {
		t.Fatalf("collision lost messages: expected 3, got %d", len(all))
	}
	// Within one timestamp, arrival order holds.
	for i, want := range []string{"one", "two", "three"} {
		if all[i].Text != want {
			t.Fatalf("position %d: expected %q, got %q", i, want, all[i].Text)
		}
	}
	if l.Len() != 3 {
		t.Fatalf("Len reported %d", l.Len())
	}
}

func TestMessageLogSinceIsStrictlyAfter(t *testing.T) {
	l := NewMessageLog()
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	for i := range 5 {
		l.Append(msgAt(base.Add(time.Duration(i)*time.Second), "m"))
	}
	// Second message at the cutoff timestamp must be excluded too.
	l.Append(msgAt(base.Add(2*time.Second), "dup"))

	got := l.Since(base.Add(2 * time.Second))
	if len(got) != 2 {
		t.Fatalf("expected 2 messages after cutoff, got %d", len(got))
	}
	for _, m := range got {
		if !m.Time.After(base.Add(2 * time.Second)) {
			t.Fatalf("message at %v is not strictly after cutoff", m.Time)
		}
	}
}

func TestMessageLogSinceMatchesAllSuffix(t *testing.T) {
	l := NewMessageLog()
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	stamps := []time.Duration{0, 0, time.Second, time.Second, 3 * time.Second, 5 * time.Second}
	for i, d := range stamps {
		l.Append(msgAt(base.Add(d), string(rune('a'+i))))
	}

	cutoff := base.Add(time.Second)
	since := l.Since(cutoff)
	var want []Message
	for _, m := range l.All() {
		if m.Time.After(cutoff) {
			want = append(want, m)
		}
	}
	if len(since) != len(want) {
		t.Fatalf("Since returned %d messages, filtered All gives %d", len(since), len(want))
	}
	for i := range want {
		if since[i].Text != want[i].Text {
			t.Fatalf("position %d: Since %q, All-filtered %q", i, since[i].Text, want[i].Text)
		}
	}
}

func TestMessageLogSinceOnEmptyLog(t *testing.T) {
	l := NewMessageLog()
	if got := l.Since(time.Now()); len(got) != 0 {
		t.Fatalf("expected empty result, got %d", len(got))
	}
	if got := l.All(); len(got) != 0 {
		t.Fatalf("expected empty snapshot, got %d", len(got))
	}
}
