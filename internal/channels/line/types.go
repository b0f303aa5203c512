package line

// WebhookRequest is the JSON body of a LINE webhook POST.
type WebhookRequest struct {
	Destination string  `json:"destination"`
	Events      []Event `json:"events"`
}

// Event is one webhook event. Only type "message" with a text message
// carries a reply; everything else (follow, unfollow, sticker, ...) is
// passed through untouched.
type Event struct {
	Type       string  `json:"type"`
	ReplyToken string  `json:"replyToken"`
	Timestamp  int64   `json:"timestamp"`
	Source     Source  `json:"source"`
	Message    Message `json:"message"`
}

// Source identifies where an event came from.
type Source struct {
	Type    string `json:"type"`
	UserID  string `json:"userId"`
	GroupID string `json:"groupId,omitempty"`
}

// Message is the message payload of a message event.
type Message struct {
	ID   string `json:"id"`
	Type string `json:"type"`
	Text string `json:"text"`
}

// IsTextMessage reports whether the event is an inbound text message.
func (e Event) IsTextMessage() bool {
	return e.Type == "message" && e.Message.Type == "text"
}

// Profile is a LINE user profile.
type Profile struct {
	UserID        string `json:"userId"`
	DisplayName   string `json:"displayName"`
	PictureURL    string `json:"pictureUrl"`
	StatusMessage string `json:"statusMessage"`
}
