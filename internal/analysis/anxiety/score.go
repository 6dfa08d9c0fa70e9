package anxiety

// Result is the outcome of one questionnaire submission.
type Result struct {
	Score int    `json:"score"`
	Level string `json:"level"`
}

const (
	Minimal  = "Minimal anxiety"
	Mild     = "Mild anxiety"
	Moderate = "Moderate anxiety"
	Severe   = "Severe anxiety"
)

// Evaluate sums the answers and maps the total onto a severity level.
// Answers are not range-checked.
func Evaluate(answers []int) Result {
	score := 0
	for _, a := range answers {
		score += a
	}
	return Result{Score: score, Level: Level(score)}
}

// Level maps a total score to its severity band.
func Level(score int) string {
	switch {
	case score <= 4:
		return Minimal
	case score <= 9:
		return Mild
	case score <= 14:
		return Moderate
	default:
		return Severe
	}
}
