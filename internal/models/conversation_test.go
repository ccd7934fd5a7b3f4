package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewPairIsOrderIndependent(t *testing.T) {
	assert.Equal(t, NewPair(3, 9), NewPair(9, 3))
	assert.Equal(t, Pair{Low: 3, High: 9}, NewPair(9, 3))
}

func TestConversationParticipants(t *testing.T) {
	conv := Conversation{ID: 1, UserLowID: 2, UserHighID: 5}

	assert.True(t, conv.HasParticipant(2))
	assert.True(t, conv.HasParticipant(5))
	assert.False(t, conv.HasParticipant(3))
	assert.False(t, conv.HasParticipant(0))
	assert.Equal(t, NewPair(5, 2), conv.Pair())
	assert.NotEqual(t, NewPair(2, 3), conv.Pair())
	assert.Equal(t, []int{2, 5}, conv.Participants())
}

func TestParseRole(t *testing.T) {
	role, err := ParseRole("investor")
	assert.NoError(t, err)
	assert.Equal(t, RoleInvestor, role)

	_, err = ParseRole("ADMIN")
	assert.Error(t, err)

	var p Profile = EntrepreneurProfile{UserID: 1}
	assert.Equal(t, RoleEntrepreneur, p.Role())
}
