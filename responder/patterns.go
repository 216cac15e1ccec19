package responder

// Pattern associates trigger keywords with the replies the bot may send when one of them appears.
type Pattern struct {
	Keywords []string `yaml:"keywords"`
	Replies  []string `yaml:"replies"`
}

// Table is the full reply configuration: patterns checked top to bottom, then the fallback set.
type Table struct {
	Patterns []Pattern `yaml:"patterns"`
	Defaults []string  `yaml:"defaults"`
}

// DefaultTable returns a fresh copy of the built-in reply configuration.
// Order matters, greetings win over thanks in "hi, thanks".
func DefaultTable() Table {
	return Table{
		Patterns: []Pattern{
			{
				Keywords: []string{"hello", "hi", "hey", "greetings"},
				Replies: []string{
					"Hi there! How can I help you today?",
					"Hello! What can I do for you?",
					"Hey! I'm glad to see you. How can I assist?",
				},
			},
			{
				Keywords: []string{"how are you", "how's it going", "how do you do"},
				Replies: []string{
					"I'm doing great, thanks for asking! How about you?",
					"I'm just a computer program, but I'm functioning well!",
					"All systems operational! How can I help you today?",
				},
			},
			{
				Keywords: []string{"bye", "goodbye", "see you", "later"},
				Replies: []string{
					"Goodbye! Have a great day!",
					"See you later! Feel free to return if you have more questions.",
					"Take care! Come back anytime.",
				},
			},
			{
				Keywords: []string{"thanks", "thank you"},
				Replies: []string{
					"You're welcome!",
					"Happy to help!",
					"Anytime! Is there anything else you need?",
				},
			},
			{
				Keywords: []string{"name", "who are you", "what are you"},
				Replies: []string{
					"I'm a friendly chatbot built with React and TypeScript.",
					"I'm your virtual assistant, here to chat and help you out!",
					"Just a simple AI assistant created to demonstrate chatbot functionality.",
				},
			},
			{
				Keywords: []string{"help", "assist", "support"},
				Replies: []string{
					"I'm here to help! What do you need assistance with?",
					"How can I assist you today?",
					"I'd be happy to help. What's on your mind?",
				},
			},
			{
				Keywords: []string{"weather", "forecast", "temperature"},
				Replies: []string{
					"I'm afraid I can't check the weather for you at the moment. I'm a simple demonstration bot.",
					"I don't have access to real-time weather data, but I hope it's nice wherever you are!",
					"Weather forecasts are beyond my capabilities right now.",
				},
			},
			{
				Keywords: []string{"joke", "funny", "laugh"},
				Replies: []string{
					"Why don't scientists trust atoms? Because they make up everything!",
					"What did the ocean say to the beach? Nothing, it just waved!",
					"Why did the JavaScript developer wear glasses? Because they couldn't C#!",
				},
			},
		},
		Defaults: []string{
			"I'm not sure I understand. Could you rephrase that?",
			"Interesting! Tell me more about that.",
			"I'm still learning. Could you try asking something else?",
			"I don't have an answer for that yet.",
			"Let's talk about something else!",
		},
	}
}
