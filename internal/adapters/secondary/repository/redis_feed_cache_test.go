package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jupiterclapton/flicknet/internal/core/domain"
)

func TestFeedMemberRoundTrip(t *testing.T) {
	event := &domain.Event{
		ID:        42,
		Timestamp: 1717243200000,
		UserID:    7,
		Type:      domain.EventLike,
		Operation: domain.OpAdd,
		EntityID:  10,
	}

	member := feedMember(event)
	assert.Equal(t, "00000000000000000042:LIKE:ADD:10", member)

	parsed, err := parseFeedMember(member, event.Timestamp, event.UserID)
	require.NoError(t, err)
	assert.Equal(t, event, parsed)
}

func TestFeedMember_LexicographicTieBreak(t *testing.T) {
	// À score égal, Redis trie les members lexicographiquement : le padding
	// doit préserver l'ordre numérique des ids.
	small := feedMember(&domain.Event{ID: 9, Type: domain.EventLike, Operation: domain.OpAdd, EntityID: 1})
	big := feedMember(&domain.Event{ID: 10, Type: domain.EventLike, Operation: domain.OpAdd, EntityID: 1})
	assert.Less(t, small, big)
}

func TestParseFeedMember_Malformed(t *testing.T) {
	_, err := parseFeedMember("garbage", 0, 1)
	assert.Error(t, err)

	_, err = parseFeedMember("notanumber:LIKE:ADD:10", 0, 1)
	assert.Error(t, err)
}
