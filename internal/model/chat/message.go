package chat

// DefaultUser is used for both user id and display name when the caller omits them.
const DefaultUser = "User"

// Request is the body accepted by the chat endpoints.
type Request struct {
	Message  string `json:"message"`
	Mood     *int   `json:"mood"`
	UserName string `json:"user_name"`
	UserID   string `json:"user_id"`
}

// MoodScore returns the supplied mood, or zero when absent.
func (r Request) MoodScore() int {
	if r.Mood == nil {
		return 0
	}
	return *r.Mood
}

// Normalize fills in the default user id and display name.
func (r *Request) Normalize() {
	if r.UserID == "" {
		r.UserID = DefaultUser
	}
	if r.UserName == "" {
		r.UserName = DefaultUser
	}
}

// Response is returned for a successful chat turn.
type Response struct {
	Response     string `json:"response"`
	MoodAnalysis string `json:"mood_analysis"`
}
