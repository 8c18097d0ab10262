package core

import (
	"context"
	"testing"
	"time"
)

func BenchmarkActorAppendMessage(b *testing.B) {
	actor := NewActor(nil)
	actor.AddRoom(NewRoom(1, "bench", 0))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go actor.Run(ctx)

	base := time.Now().UTC()
	reply := make(chan AckReply, 1)

	b.ReportAllocs()
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		actor.Commands() <- AppendMessage{
			RoomID: 1,
			Message: Message{
				Time:     base.Add(time.Duration(i) * time.Millisecond),
				Text:     "payload",
				From:     1,
				Username: "bench",
			},
			Reply: reply,
		}
		<-reply
	}
}

func BenchmarkMessageLogAppend(b *testing.B) {
	l := NewMessageLog()
	base := time.Now().UTC()

	b.ReportAllocs()
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		l.Append(Message{Time: base.Add(time.Duration(i) * time.Microsecond), Text: "m"})
	}
}
