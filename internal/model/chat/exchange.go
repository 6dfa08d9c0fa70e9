package chat

// Exchange pairs one user message with the reply it received.
type Exchange struct {
	UserText string `json:"user"`
	AIText   string `json:"ai"`
}
