package mood

// Label tags a chat reply with the tone it was written for.
type Label string

const (
	Supportive  Label = "supportive"
	Encouraging Label = "encouraging"
	Empowering  Label = "empowering"
)

type bucket struct {
	upper      int
	descriptor string
}

// descriptorBuckets is ordered; the first bucket whose upper bound covers the score wins.
var descriptorBuckets = []bucket{
	{upper: 2, descriptor: "very distressed and may need immediate support"},
	{upper: 4, descriptor: "struggling and could benefit from gentle encouragement"},
	{upper: 6, descriptor: "neutral but could use some positive reinforcement"},
	{upper: 8, descriptor: "doing well and receptive to growth conversations"},
}

const topDescriptor = "very positive and ready for empowerment"

// Describe maps a mood score to the context phrase used in the system prompt.
// Scores outside 0-10 land in the lowest or highest bucket.
func Describe(score int) string {
	for _, b := range descriptorBuckets {
		if score <= b.upper {
			return b.descriptor
		}
	}
	return topDescriptor
}

// Classify maps a mood score to the coarse label returned alongside a reply.
// It is deliberately independent of Describe.
func Classify(score int) Label {
	switch {
	case score < 4:
		return Supportive
	case score < 7:
		return Encouraging
	default:
		return Empowering
	}
}
