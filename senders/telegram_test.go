package senders

import (
	"context"
	"errors"
	"testing"

	"github.com/fiffu/matchday/telegram"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAPI struct {
	chatID   string
	html     string
	keyboard *telegram.InlineKeyboardMarkup
	calls    int
	err      error
}

func (f *fakeAPI) SendMessage(ctx context.Context, chatID, html string, keyboard *telegram.InlineKeyboardMarkup) (int, error) {
	f.chatID, f.html, f.keyboard = chatID, html, keyboard
	f.calls++
	return 1, f.err
}

func Test_telegramSender_Send(t *testing.T) {
	api := &fakeAPI{}
	sender := &telegramSender{api: api}

	err := sender.Send(context.Background(), "100", "<b>hello</b>")

	require.NoError(t, err)
	assert.Equal(t, 1, api.calls)
	assert.Equal(t, "100", api.chatID)
	assert.Equal(t, "<b>hello</b>", api.html)
	assert.Nil(t, api.keyboard)
}

func Test_telegramSender_Send_propagatesError(t *testing.T) {
	wantErr := errors.New("chat not found")
	sender := &telegramSender{api: &fakeAPI{err: wantErr}}

	err := sender.Send(context.Background(), "100", "hi")

	assert.ErrorIs(t, err, wantErr)
}
