package core

import (
	"context"
	"sync"
	"testing"
	"time"
)

func startActor(t *testing.T) *Actor {
	t.Helper()

	actor := NewActor(nil)
	actor.AddUser(Profile{ID: 42, Name: "Tim", Username: "KapJ1coH"})

	room := NewRoom(1, "Room1", 10)
	room.Log.Append(Message{
		Time:     time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
		Text:     "Hello, world!",
		From:     123456,
		Username: "alice",
	})
	actor.AddRoom(room)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go actor.Run(ctx)

	return actor
}

func TestActorFindUser(t *testing.T) {
	actor := startActor(t)

	reply := make(chan UserReply, 1)
	actor.Commands() <- FindUser{UserID: 42, Reply: reply}
	res := <-reply
	if res.Err != nil {
		t.Fatalf("expected profile, got error %v", res.Err)
	}
	if res.Profile.Username != "KapJ1coH" {
		t.Fatalf("unexpected profile: %+v", res.Profile)
	}

	reply = make(chan UserReply, 1)
	actor.Commands() <- FindUser{UserID: 999, Reply: reply}
	res = <-reply
	if res.Err == nil || res.Err.Code != ErrCodeUserNotFound {
		t.Fatalf("expected user_not_found, got %+v", res)
	}
}

func TestActorRoomLookup(t *testing.T) {
	actor := startActor(t)

	reply := make(chan RoomReply, 1)
	actor.Commands() <- GetRoomInfo{RoomID: 1, Reply: reply}
	res := <-reply
	if res.Err != nil {
		t.Fatalf("expected room, got error %v", res.Err)
	}
	if res.Room.Name != "Room1" || res.Room.Capacity != 10 {
		t.Fatalf("unexpected room info: %+v", res.Room)
	}

	reply = make(chan RoomReply, 1)
	actor.Commands() <- GetRoomInfo{RoomID: 7, Reply: reply}
	res = <-reply
	if res.Err == nil || res.Err.Code != ErrCodeRoomNotFound {
		t.Fatalf("expected room_not_found, got %+v", res)
	}
}

func TestActorListRooms(t *testing.T) {
	actor := startActor(t)

	reply := make(chan RoomsReply, 1)
	actor.Commands() <- ListRooms{Reply: reply}
	res := <-reply
	if len(res.Rooms) != 1 || res.Rooms[0].ID != 1 {
		t.Fatalf("unexpected room list: %+v", res.Rooms)
	}
}

func TestActorAppendThenRead(t *testing.T) {
	actor := startActor(t)
	now := time.Now().UTC()

	ack := make(chan AckReply, 1)
	actor.Commands() <- AppendMessage{
		RoomID:  1,
		Message: Message{Time: now, Text: "hello", From: 42, Username: "KapJ1coH"},
		Reply:   ack,
	}
	if res := <-ack; res.Err != nil {
		t.Fatalf("append failed: %v", res.Err)
	}

	all := make(chan MessagesReply, 1)
	actor.Commands() <- GetAllMessages{RoomID: 1, Reply: all}
	res := <-all
	if res.Err != nil {
		t.Fatalf("get all failed: %v", res.Err)
	}
	if len(res.Messages) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(res.Messages))
	}
	last := res.Messages[len(res.Messages)-1]
	if last.Text != "hello" || last.From != 42 {
		t.Fatalf("unexpected last message: %+v", last)
	}
}

func TestActorGetMessagesSince(t *testing.T) {
	actor := startActor(t)
	seedTime := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	ack := make(chan AckReply, 1)
	actor.Commands() <- AppendMessage{
		RoomID:  1,
		Message: Message{Time: seedTime.Add(time.Minute), Text: "later", From: 42, Username: "KapJ1coH"},
		Reply:   ack,
	}
	<-ack

	since := make(chan MessagesReply, 1)
	actor.Commands() <- GetMessagesSince{RoomID: 1, After: seedTime, Reply: since}
	res := <-since
	if res.Err != nil {
		t.Fatalf("since failed: %v", res.Err)
	}
	if len(res.Messages) != 1 || res.Messages[0].Text != "later" {
		t.Fatalf("expected only the later message, got %+v", res.Messages)
	}
}

func TestActorAppendUnknownRoom(t *testing.T) {
	actor := startActor(t)

	ack := make(chan AckReply, 1)
	actor.Commands() <- AppendMessage{RoomID: 99, Message: Message{Text: "x"}, Reply: ack}
	res := <-ack
	if res.Err == nil || res.Err.Code != ErrCodeRoomNotFound {
		t.Fatalf("expected room_not_found, got %+v", res)
	}
}

func TestActorConcurrentAppendsNoLoss(t *testing.T) {
	actor := startActor(t)
	const n = 50

	var wg sync.WaitGroup
	for i := range n {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			ack := make(chan AckReply, 1)
			actor.Commands() <- AppendMessage{
				RoomID: 1,
				Message: Message{
					Time:     time.Now().UTC(),
					Text:     "m",
					From:     int64(i),
					Username: "u",
				},
				Reply: ack,
			}
			if res := <-ack; res.Err != nil {
				t.Errorf("append %d failed: %v", i, res.Err)
			}
		}(i)
	}
	wg.Wait()

	all := make(chan MessagesReply, 1)
	actor.Commands() <- GetAllMessages{RoomID: 1, Reply: all}
	res := <-all
	if got := len(res.Messages); got != n+1 {
		t.Fatalf("expected %d messages (including seed), got %d", n+1, got)
	}
	for i := 1; i < len(res.Messages); i++ {
		if res.Messages[i].Time.Before(res.Messages[i-1].Time) {
			t.Fatalf("snapshot out of order at %d", i)
		}
	}
}

func TestActorCapacityEnforced(t *testing.T) {
	actor := NewActor(nil)
	actor.AddRoom(NewRoom(2, "tiny", 1))
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go actor.Run(ctx)

	join := make(chan RoomReply, 1)
	actor.Commands() <- JoinRoom{RoomID: 2, Reply: join}
	if res := <-join; res.Err != nil {
		t.Fatalf("first join failed: %v", res.Err)
	}

	join = make(chan RoomReply, 1)
	actor.Commands() <- JoinRoom{RoomID: 2, Reply: join}
	res := <-join
	if res.Err == nil || res.Err.Code != ErrCodeRoomFull {
		t.Fatalf("expected room_full, got %+v", res)
	}

	// Leaving frees the slot.
	leave := make(chan AckReply, 1)
	actor.Commands() <- LeaveRoom{RoomID: 2, Reply: leave}
	if res := <-leave; res.Err != nil {
		t.Fatalf("leave failed: %v", res.Err)
	}

	join = make(chan RoomReply, 1)
	actor.Commands() <- JoinRoom{RoomID: 2, Reply: join}
	if res := <-join; res.Err != nil {
		t.Fatalf("rejoin after leave failed: %v", res.Err)
	}
}

func TestActorSurvivesAbandonedReply(t *testing.T) {
	actor := startActor(t)

	// Nobody ever reads this reply; the buffered channel just holds it.
	actor.Commands() <- GetAllMessages{RoomID: 1, Reply: make(chan MessagesReply, 1)}

	// And an unbuffered reply with no receiver must be dropped, not block.
	actor.Commands() <- GetAllMessages{RoomID: 1, Reply: make(chan MessagesReply)}

	reply := make(chan UserReply, 1)
	actor.Commands() <- FindUser{UserID: 42, Reply: reply}
	res := <-reply
	if res.Err != nil {
		t.Fatalf("actor stopped answering after abandoned replies: %v", res.Err)
	}
}

func TestActorStopsOnChannelClose(t *testing.T) {
	actor := NewActor(nil)
	done := make(chan struct{})
	go func() {
		actor.Run(context.Background())
		close(done)
	}()

	close(actor.commands)

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("actor did not stop after command channel close")
	}
}

func TestActorScenarioSecondJoinerSeesMessage(t *testing.T) {
	actor := startActor(t)

	// User 42 joins room 1 and sends "hello".
	join := make(chan RoomReply, 1)
	actor.Commands() <- JoinRoom{RoomID: 1, Reply: join}
	if res := <-join; res.Err != nil {
		t.Fatalf("join failed: %v", res.Err)
	}

	ack := make(chan AckReply, 1)
	actor.Commands() <- AppendMessage{
		RoomID:  1,
		Message: Message{Time: time.Now().UTC(), Text: "hello", From: 42, Username: "KapJ1coH"},
		Reply:   ack,
	}
	<-ack

	// A second joiner snapshots the full history.
	all := make(chan MessagesReply, 1)
	actor.Commands() <- GetAllMessages{RoomID: 1, Reply: all}
	res := <-all
	if len(res.Messages) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(res.Messages))
	}
	if res.Messages[0].Text != "Hello, world!" {
		t.Fatalf("first message should be the seed, got %+v", res.Messages[0])
	}
	if res.Messages[1].From != 42 || res.Messages[1].Text != "hello" {
		t.Fatalf("second message should be user 42's hello, got %+v", res.Messages[1])
	}
}
