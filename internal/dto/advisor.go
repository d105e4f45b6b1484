package dto

import "time"

// AdvisorText is a generated recommendation.
type AdvisorText struct {
	Text string `json:"text"`
	// Fallback is set when the text is a canned reply instead of a generated one.
	Fallback bool `json:"fallback"`
}

// AttendDecision answers whether the next session should be attended.
type AttendDecision struct {
	Subject  string `json:"subject"`
	Decision string `json:"decision"`
	Reason   string `json:"reason"`
	// Source is "advisor" for generated answers and "engine" for the rule-based fallback.
	Source string `json:"source"`
}

// ChatMessage is one turn of an advisor conversation.
type ChatMessage struct {
	Role   string    `json:"role"`
	Text   string    `json:"text"`
	SentAt time.Time `json:"sentAt"`
}

// ChatSession is the transcript of an advisor conversation.
type ChatSession struct {
	ID        string        `json:"id"`
	Greeting  ChatMessage   `json:"greeting"`
	Messages  []ChatMessage `json:"messages"`
	CreatedAt time.Time     `json:"createdAt"`
}

// ChatReply is the model's answer to one user message.
type ChatReply struct {
	SessionID string      `json:"sessionId"`
	Reply     ChatMessage `json:"reply"`
	Fallback  bool        `json:"fallback"`
}
