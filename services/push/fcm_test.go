package push

import (
	"context"
	"errors"
	"testing"

	"firebase.google.com/go/v4/messaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeFCM struct {
	got  []*messaging.Message
	resp *messaging.BatchResponse
	err  error
}

func (f *fakeFCM) SendEach(_ context.Context, msgs []*messaging.Message) (*messaging.BatchResponse, error) {
	f.got = msgs
	return f.resp, f.err
}

func TestFCMSend(t *testing.T) {
	fake := &fakeFCM{resp: &messaging.BatchResponse{
		SuccessCount: 1,
		FailureCount: 1,
		Responses: []*messaging.SendResponse{
			{Success: true, MessageID: "projects/p/messages/1"},
			{Success: false, Error: errors.New("invalid argument")},
		},
	}}
	g := &FCMGateway{client: fake}

	tickets, err := g.Send(context.Background(), []Message{
		{To: "tok-a", Title: "New", Body: "b", Data: map[string]string{"status": "pending"}},
		{To: "tok-b", Title: "New", Body: "b"},
	})
	require.NoError(t, err)
	require.Len(t, tickets, 2)

	assert.Equal(t, "projects/p/messages/1", tickets[0].ID)
	assert.True(t, tickets[0].OK())
	assert.False(t, tickets[1].OK())
	assert.Equal(t, "invalid argument", tickets[1].Message)

	require.Len(t, fake.got, 2)
	assert.Equal(t, "tok-a", fake.got[0].Token)
	assert.Equal(t, "pending", fake.got[0].Data["status"])
	assert.Equal(t, "default", fake.got[0].APNS.Payload.Aps.Sound)
}

func TestFCMSendBatchFailure(t *testing.T) {
	g := &FCMGateway{client: &fakeFCM{err: errors.New("unavailable")}}
	_, err := g.Send(context.Background(), []Message{{To: "tok"}})
	require.Error(t, err)
}

func TestFCMValidToken(t *testing.T) {
	g := &FCMGateway{}
	assert.True(t, g.ValidToken("dGVzdC10b2tlbg:APA91bH"))
	assert.False(t, g.ValidToken(""))
	assert.False(t, g.ValidToken("has space"))
	assert.False(t, g.ValidToken("ExponentPushToken[abc]"))
}

func TestFCMIsNotReceiptFetcher(t *testing.T) {
	var g Gateway = &FCMGateway{}
	_, ok := g.(ReceiptFetcher)
	assert.False(t, ok)
}
