package chat

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var base = time.Date(2025, 3, 14, 9, 0, 0, 0, time.Local)

func msg(id, sender string, at time.Time) Message {
	return Message{ID: id, SenderID: sender, Content: "hi", SentAt: at}
}

func flatten(segments []Segment) []string {
	var ids []string
	for _, s := range segments {
		for _, m := range s.Messages {
			ids = append(ids, m.ID)
		}
	}
	return ids
}

func TestGroupMessages_Empty(t *testing.T) {
	assert.Nil(t, GroupMessages(nil))
}

func TestGroupMessages_SameSenderWithinGap(t *testing.T) {
	segments := GroupMessages([]Message{
		msg("1", "pharmacist", base),
		msg("2", "pharmacist", base.Add(2*time.Minute)),
		msg("3", "pharmacist", base.Add(4*time.Minute)),
	})

	require.Len(t, segments, 2)
	assert.Equal(t, SegmentDate, segments[0].Kind)
	assert.Equal(t, "2025-03-14", segments[0].Date)

	cluster := segments[1]
	require.Equal(t, SegmentMessages, cluster.Kind)
	require.Len(t, cluster.Messages, 3)
	assert.False(t, cluster.Messages[0].Grouped)
	assert.True(t, cluster.Messages[0].ShowAvatar)
	assert.True(t, cluster.Messages[1].Grouped)
	assert.False(t, cluster.Messages[1].ShowAvatar)
	assert.True(t, cluster.Messages[2].Grouped)
}

func TestGroupMessages_SenderChangeSplits(t *testing.T) {
	segments := GroupMessages([]Message{
		msg("1", "pharmacist", base),
		msg("2", "customer", base.Add(time.Minute)),
		msg("3", "pharmacist", base.Add(2*time.Minute)),
	})

	// date + three single-message clusters
	require.Len(t, segments, 4)
	for _, s := range segments[1:] {
		require.Len(t, s.Messages, 1)
		assert.False(t, s.Messages[0].Grouped)
	}
}

func TestGroupMessages_FiveMinuteGapSplits(t *testing.T) {
	segments := GroupMessages([]Message{
		msg("1", "pharmacist", base),
		msg("2", "pharmacist", base.Add(5*time.Minute)),
	})

	require.Len(t, segments, 3)
	assert.Len(t, segments[1].Messages, 1)
	assert.Len(t, segments[2].Messages, 1)
	assert.False(t, segments[2].Messages[0].Grouped)
}

func TestGroupMessages_DateChangeInsertsSeparator(t *testing.T) {
	nextDay := base.AddDate(0, 0, 1)
	segments := GroupMessages([]Message{
		msg("1", "pharmacist", base),
		msg("2", "pharmacist", nextDay),
	})

	require.Len(t, segments, 4)
	assert.Equal(t, SegmentDate, segments[0].Kind)
	assert.Equal(t, SegmentMessages, segments[1].Kind)
	assert.Equal(t, SegmentDate, segments[2].Kind)
	assert.Equal(t, "2025-03-15", segments[2].Date)
	// Same sender, but a new day never continues a cluster.
	assert.False(t, segments[3].Messages[0].Grouped)
}

func TestGroupMessages_StablePartitionPreservesOrder(t *testing.T) {
	input := []Message{
		msg("3", "customer", base.Add(10*time.Minute)),
		msg("1", "pharmacist", base),
		msg("2", "pharmacist", base.Add(time.Minute)),
	}

	segments := GroupMessages(input)
	assert.Equal(t, []string{"1", "2", "3"}, flatten(segments))
}
