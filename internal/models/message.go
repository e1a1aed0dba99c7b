package models

type MessageRole string

const (
	RoleAssistant MessageRole = "assistant"
	RoleUser      MessageRole = "user"
)

type Message struct {
	ID      string      `json:"id"`
	Role    MessageRole `json:"role"`
	Content string      `json:"content"`
}

// Transcript is an append-only message log.
type Transcript struct {
	messages []Message
	newID    func() string
}

func NewTranscript(newID func() string) *Transcript {
	return &Transcript{newID: newID}
}

func (t *Transcript) Append(role MessageRole, content string) Message {
	msg := Message{ID: t.newID(), Role: role, Content: content}
	t.messages = append(t.messages, msg)
	return msg
}

// Messages returns a copy of the log.
func (t *Transcript) Messages() []Message {
	out := make([]Message, len(t.messages))
	copy(out, t.messages)
	return out
}

func (t *Transcript) Len() int {
	return len(t.messages)
}

func (t *Transcript) Last() (Message, bool) {
	if len(t.messages) == 0 {
		return Message{}, false
	}
	return t.messages[len(t.messages)-1], true
}
