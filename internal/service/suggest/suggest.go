// Package suggest serves conversation-starter chips for the chat UI.
package suggest

// Suggestion is one tappable starter chip.
type Suggestion struct {
	Text  string `json:"text"`
	Emoji string `json:"emoji"`
}

var gradeStarters = map[string][]Suggestion{
	"Nursery": {
		{Text: "What will my child learn?", Emoji: "\U0001F4DA"},
		{Text: "Tell me about daily activities", Emoji: "\U0001F3A8"},
		{Text: "How do online classes work?", Emoji: "\U0001F4BB"},
		{Text: "What is the fee structure?", Emoji: "\U0001F4B0"},
	},
	"LKG": {
		{Text: "What subjects are taught?", Emoji: "\U0001F4D6"},
		{Text: "How is learning made fun?", Emoji: "\U0001F3AE"},
		{Text: "Tell me about class timings", Emoji: "⏰"},
		{Text: "Can I get a demo class?", Emoji: "\U0001F3A5"},
	},
	"UKG": {
		{Text: "What is the curriculum?", Emoji: "\U0001F4DA"},
		{Text: "How do you prepare for Grade 1?", Emoji: "\U0001F3AF"},
		{Text: "What are the admission steps?", Emoji: "\U0001F4DD"},
		{Text: "Tell me about teachers", Emoji: "\U0001F469‍\U0001F3EB"},
	},
}

// defaultGradeStarters covers Grades 1-12.
var defaultGradeStarters = []Suggestion{
	{Text: "What subjects are covered?", Emoji: "\U0001F4DA"},
	{Text: "How does online learning work?", Emoji: "\U0001F4BB"},
	{Text: "Tell me about admission process", Emoji: "\U0001F4DD"},
	{Text: "What are the fees?", Emoji: "\U0001F4B0"},
	{Text: "Can I get a demo class?", Emoji: "\U0001F3A5"},
}

var intentStarters = map[string][]Suggestion{
	"Admission": {
		{Text: "What documents are needed?", Emoji: "\U0001F4C4"},
		{Text: "When can I enroll?", Emoji: "\U0001F4C5"},
		{Text: "Is there an entrance test?", Emoji: "✍️"},
		{Text: "How long does admission take?", Emoji: "⏱️"},
	},
	"Fees": {
		{Text: "What is the total fee?", Emoji: "\U0001F4B0"},
		{Text: "Are there payment plans?", Emoji: "\U0001F4B3"},
		{Text: "Any discounts available?", Emoji: "\U0001F381"},
		{Text: "What does the fee include?", Emoji: "\U0001F4E6"},
	},
	"Demo": {
		{Text: "How do I book a demo?", Emoji: "\U0001F4C5"},
		{Text: "What happens in a demo class?", Emoji: "\U0001F3A5"},
		{Text: "Is the demo free?", Emoji: "\U0001F4B0"},
		{Text: "Can I attend multiple demos?", Emoji: "\U0001F504"},
	},
	"Syllabus": {
		{Text: "Is it CBSE or NIOS?", Emoji: "\U0001F4DA"},
		{Text: "What topics are covered?", Emoji: "\U0001F4D6"},
		{Text: "How is assessment done?", Emoji: "✅"},
		{Text: "Are there practical classes?", Emoji: "\U0001F52C"},
	},
	"Other": {
		{Text: "Tell me about Vikalp School", Emoji: "\U0001F3EB"},
		{Text: "What makes you different?", Emoji: "⭐"},
		{Text: "How are teachers trained?", Emoji: "\U0001F469‍\U0001F3EB"},
		{Text: "What are school timings?", Emoji: "⏰"},
	},
}

var contextualSuggestions = []Suggestion{
	{Text: "Tell me more", Emoji: "\U0001F4AC"},
	{Text: "Can you explain in Hindi?", Emoji: "\U0001F1EE\U0001F1F3"},
	{Text: "What about fees?", Emoji: "\U0001F4B0"},
	{Text: "How do I enroll?", Emoji: "\U0001F4DD"},
	{Text: "Book a demo class", Emoji: "\U0001F3A5"},
}

// Starters builds the initial chips for a grade and intent: the grade's own
// chips when it has them, otherwise the first four defaults, then up to two
// intent chips, capped at six total.
func Starters(grade, intent string) []Suggestion {
	var out []Suggestion
	if chips, ok := gradeStarters[grade]; ok {
		out = append(out, chips...)
	} else {
		out = append(out, defaultGradeStarters[:4]...)
	}
	if chips, ok := intentStarters[intent]; ok {
		out = append(out, chips[:2]...)
	}
	if len(out) > 6 {
		out = out[:6]
	}
	return out
}

// Contextual returns the quick-reply chips shown after an assistant reply.
func Contextual() []Suggestion {
	return contextualSuggestions[:4]
}
