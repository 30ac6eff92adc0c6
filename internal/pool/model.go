package pool

import "time"

// Comment is a pending audience comment. Weight is the number of likes.
type Comment struct {
	ID         uint64    `json:"id"`
	Author     string    `json:"author,omitempty"`
	Text       string    `json:"text"`
	Weight     int64     `json:"weight"`
	ReceivedAt time.Time `json:"received_at"`
}

// Utterance is a pending recognized speech input that passed activation filtering.
type Utterance struct {
	ID         uint64    `json:"id"`
	Text       string    `json:"text"`
	ReceivedAt time.Time `json:"received_at"`
}

// outranks reports whether a should be answered before b: higher weight first,
// then earliest receipt, then arrival order.
func (a Comment) outranks(b Comment) bool {
	if a.Weight != b.Weight {
		return a.Weight > b.Weight
	}
	if !a.ReceivedAt.Equal(b.ReceivedAt) {
		return a.ReceivedAt.Before(b.ReceivedAt)
	}
	return a.ID < b.ID
}
