// Package chat turns flat pharmacist-customer message lists into the
// date-separated, sender-consecutive clusters the chat UI renders.
package chat

import (
	"sort"
	"time"
)

// maxClusterGap is the largest pause between two messages from the same
// sender that still reads as one burst.
const maxClusterGap = 5 * time.Minute

const dateKeyLayout = "2006-01-02"

// Message is a single chat message as served by the pharmacy backend.
type Message struct {
	ID         string    `json:"messageId"`
	ChatID     string    `json:"chatId"`
	SenderID   string    `json:"senderId"`
	SenderName string    `json:"senderName"`
	Content    string    `json:"content"`
	SentAt     time.Time `json:"timestamp"`
}

// GroupedMessage is a message annotated with its display flags inside a
// cluster.
type GroupedMessage struct {
	Message
	Grouped    bool `json:"grouped"`
	ShowAvatar bool `json:"show_avatar"`
}

// SegmentKind distinguishes date separators from message clusters.
type SegmentKind string

const (
	SegmentDate     SegmentKind = "date"
	SegmentMessages SegmentKind = "messages"
)

// Segment is one display unit of a grouped transcript: either a date
// separator or a cluster of consecutive messages from one sender.
type Segment struct {
	Kind     SegmentKind      `json:"kind"`
	Date     string           `json:"date,omitempty"`
	Messages []GroupedMessage `json:"messages,omitempty"`
}

// GroupMessages sorts messages ascending by timestamp and partitions them
// into segments: a new date separator on day change, a new cluster on
// sender change or a gap of five minutes or more. The partition is stable
// and preserves every input message exactly once.
func GroupMessages(messages []Message) []Segment {
	if len(messages) == 0 {
		return nil
	}

	sorted := make([]Message, len(messages))
	copy(sorted, messages)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].SentAt.Before(sorted[j].SentAt)
	})

	var (
		segments      []Segment
		cluster       []GroupedMessage
		currentDate   string
		currentSender string
	)

	flush := func() {
		if len(cluster) > 0 {
			segments = append(segments, Segment{Kind: SegmentMessages, Messages: cluster})
			cluster = nil
		}
	}

	for i, msg := range sorted {
		date := msg.SentAt.Format(dateKeyLayout)
		if date != currentDate {
			flush()
			segments = append(segments, Segment{Kind: SegmentDate, Date: date})
			currentDate = date
			currentSender = ""
		}

		grouped := false
		if i > 0 && currentSender == msg.SenderID {
			gap := msg.SentAt.Sub(sorted[i-1].SentAt)
			grouped = gap < maxClusterGap
		}
		if !grouped {
			flush()
		}

		cluster = append(cluster, GroupedMessage{
			Message:    msg,
			Grouped:    grouped,
			ShowAvatar: !grouped,
		})
		currentSender = msg.SenderID
	}
	flush()

	return segments
}
