package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMessageStatus(t *testing.T) {
	status, err := ParseMessageStatus(" read ")
	require.NoError(t, err)
	assert.Equal(t, StatusRead, status)

	_, err = ParseMessageStatus("DELIVERED")
	assert.Error(t, err)
}

func TestStatusAdvances(t *testing.T) {
	assert.True(t, StatusSent.Advances(StatusReceived))
	assert.True(t, StatusSent.Advances(StatusRead))
	assert.True(t, StatusReceived.Advances(StatusRead))
	assert.False(t, StatusRead.Advances(StatusReceived))
	assert.False(t, StatusReceived.Advances(StatusReceived))
	assert.False(t, StatusSent.Advances(MessageStatus("BOGUS")))
}

func TestApplyStatusReceivedStampsOnce(t *testing.T) {
	first := time.Date(2026, 1, 1, 10, 0, 0, 0, time.UTC)
	msg := Message{Status: StatusSent}

	require.True(t, msg.ApplyStatus(StatusReceived, first))
	require.NotNil(t, msg.ReceivedAt)
	assert.Equal(t, first, *msg.ReceivedAt)
	assert.Nil(t, msg.ReadAt)

	assert.False(t, msg.ApplyStatus(StatusReceived, first.Add(time.Minute)))
	assert.Equal(t, first, *msg.ReceivedAt)
}

func TestApplyStatusNoRegression(t *testing.T) {
	now := time.Date(2026, 1, 1, 10, 0, 0, 0, time.UTC)
	msg := Message{Status: StatusSent}

	require.True(t, msg.ApplyStatus(StatusRead, now))
	assert.Equal(t, StatusRead, msg.Status)
	require.NotNil(t, msg.ReadAt)
	require.NotNil(t, msg.ReceivedAt, "reading implies receipt")

	assert.False(t, msg.ApplyStatus(StatusReceived, now.Add(time.Hour)))
	assert.Equal(t, StatusRead, msg.Status)
	assert.Equal(t, now, *msg.ReadAt)
}

func TestApplyStatusKeepsEarlierReceipt(t *testing.T) {
	received := time.Date(2026, 1, 1, 10, 0, 0, 0, time.UTC)
	read := received.Add(time.Minute)
	msg := Message{Status: StatusSent}

	msg.ApplyStatus(StatusReceived, received)
	msg.ApplyStatus(StatusRead, read)

	assert.Equal(t, received, *msg.ReceivedAt)
	assert.Equal(t, read, *msg.ReadAt)
}
