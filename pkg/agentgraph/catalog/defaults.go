package catalog

// Kinds in the built-in voice-agent catalog.
const (
	KindVoiceConfig   = "voice_config"
	KindPrompt        = "prompt"
	KindGreeting      = "greeting"
	KindKnowledgeBase = "knowledge_base"
	KindQuestion      = "question"
	KindCondition     = "condition"
	KindAction        = "action"
	KindTransferCall  = "transfer_call"
	KindEndCall       = "end_call"
)

// Categories used by the built-in catalog.
const (
	CategoryAgent        = "agent"
	CategoryConversation = "conversation"
	CategoryLogic        = "logic"
	CategoryCall         = "call"
)

// Default returns the built-in voice-agent catalog. Each call returns a fresh
// Catalog.
func Default() *Catalog {
	return MustNew(defaultTemplates()...)
}

func defaultTemplates() []NodeTemplate {
	return []NodeTemplate{
		{
			Kind:        KindVoiceConfig,
			Label:       "Voice",
			Icon:        "mic",
			Color:       "#8b5cf6",
			Category:    CategoryAgent,
			Description: "Voice, speaking style and synthesis model for the agent",
			Defaults: map[string]any{
				"stability":  50.0,
				"similarity": 75.0,
			},
		},
		{
			Kind:        KindPrompt,
			Label:       "Prompt",
			Icon:        "file-text",
			Color:       "#3b82f6",
			Category:    CategoryAgent,
			Description: "System instructions that shape the agent's behavior",
			Defaults: map[string]any{
				"temperature": 0.7,
			},
		},
		{
			Kind:        KindGreeting,
			Label:       "Greeting",
			Icon:        "hand",
			Color:       "#22c55e",
			Category:    CategoryConversation,
			Description: "First message spoken when the call connects",
			Defaults: map[string]any{
				"message": "Hi! How can I help you today?",
			},
		},
		{
			Kind:        KindKnowledgeBase,
			Label:       "Knowledge Base",
			Icon:        "book-open",
			Color:       "#f59e0b",
			Category:    CategoryAgent,
			Description: "Reference text, documents and URLs the agent can draw on",
		},
		{
			Kind:        KindQuestion,
			Label:       "Question",
			Icon:        "help-circle",
			Color:       "#06b6d4",
			Category:    CategoryConversation,
			Description: "Ask the caller a question and store the answer in a variable",
		},
		{
			Kind:        KindCondition,
			Label:       "Condition",
			Icon:        "git-branch",
			Color:       "#eab308",
			Category:    CategoryLogic,
			Description: "Branch the conversation on a collected answer",
		},
		{
			Kind:        KindAction,
			Label:       "Action",
			Icon:        "zap",
			Color:       "#ec4899",
			Category:    CategoryLogic,
			Description: "Call a webhook, send a message or book an appointment",
		},
		{
			Kind:        KindTransferCall,
			Label:       "Transfer Call",
			Icon:        "phone-forwarded",
			Color:       "#14b8a6",
			Category:    CategoryCall,
			Description: "Hand the call over to a phone number",
		},
		{
			Kind:        KindEndCall,
			Label:       "End Call",
			Icon:        "phone-off",
			Color:       "#ef4444",
			Category:    CategoryCall,
			Description: "Say goodbye and hang up",
			Defaults: map[string]any{
				"message": "Thanks for calling. Goodbye!",
			},
		},
	}
}
