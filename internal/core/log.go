package core

import (
	"sort"
	"time"
)

// bucket groups messages that share one timestamp, in arrival order.
type bucket struct {
	ts   time.Time
	msgs []Message
}

// MessageLog is a timestamp-ordered store of messages for one room.
// Messages with equal timestamps all survive; within a timestamp they keep
// arrival order. The log has no locking of its own: the actor is its only
// reader and writer.
type MessageLog struct {
	buckets []bucket
	size    int
}

// NewMessageLog returns an empty log.
func NewMessageLog() *MessageLog {
	return &MessageLog{}
}

// Append inserts a message at its timestamp, keeping the log ordered.
func (l *MessageLog) Append(m Message) {
	i := sort.Search(len(l.buckets), func(i int) bool {
		return !l.buckets[i].ts.Before(m.Time)
	})
	if i < len(l.buckets) && l.buckets[i].ts.Equal(m.Time) {
		l.buckets[i].msgs = append(l.buckets[i].msgs, m)
	} else {
		l.buckets = append(l.buckets, bucket{})
		copy(l.buckets[i+1:], l.buckets[i:])
		l.buckets[i] = bucket{ts: m.Time, msgs: []Message{m}}
	}
	l.size++
}

// All returns a snapshot copy of the log in timestamp order.
func (l *MessageLog) All() []Message {
	out := make([]Message, 0, l.size)
	for _, b := range l.buckets {
		out = append(out, b.msgs...)
	}
	return out
}

// Since returns a snapshot of all messages strictly after t, in order.
func (l *MessageLog) Since(t time.Time) []Message {
	i := sort.Search(len(l.buckets), func(i int) bool {
		return l.buckets[i].ts.After(t)
	})
	var out []Message
	for _, b := range l.buckets[i:] {
		out = append(out, b.msgs...)
	}
	return out
}

// Len reports the number of stored messages.
func (l *MessageLog) Len() int {
	return l.size
}
