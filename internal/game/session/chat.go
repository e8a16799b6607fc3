package session

// ChatLogCap is the chat retention limit; the oldest message is evicted
// first.
const ChatLogCap = 100

// ChatMessage is one chat/notification line. Timestamp is Unix
// milliseconds.
type ChatMessage struct {
	Text      string `json:"text"`
	Category  string `json:"category"`
	Timestamp int64  `json:"timestamp"`
}

// ChatConfig toggles which message categories are forwarded to the
// notifier. The in-session log always records every message.
type ChatConfig struct {
	System bool `json:"system"`
	Loot   bool `json:"loot"`
	Exp    bool `json:"exp"`
	Level  bool `json:"level"`
	Equip  bool `json:"equip"`
}

// DefaultChatConfig enables every category.
func DefaultChatConfig() ChatConfig {
	return ChatConfig{System: true, Loot: true, Exp: true, Level: true, Equip: true}
}

func (c ChatConfig) enabled(category string) bool {
	switch category {
	case "system":
		return c.System
	case "loot":
		return c.Loot
	case "exp":
		return c.Exp
	case "level":
		return c.Level
	case "equip":
		return c.Equip
	default:
		return true
	}
}

// Notifier receives chat messages for display. Calls are fire-and-forget;
// the session never depends on the sink's behavior.
type Notifier interface {
	Notify(msg ChatMessage)
}

// NotifierFunc adapts a function to the Notifier interface.
type NotifierFunc func(msg ChatMessage)

// Notify calls f.
func (f NotifierFunc) Notify(msg ChatMessage) { f(msg) }

// addChatMessage appends to the chat log, evicting the oldest entry past
// the cap. Callers hold g.mu or run during construction.
func (g *GameState) addChatMessage(text, category string) {
	msg := ChatMessage{
		Text:      text,
		Category:  category,
		Timestamp: g.clk.Now().UnixMilli(),
	}
	g.chat = append(g.chat, msg)
	if len(g.chat) > ChatLogCap {
		g.chat = g.chat[1:]
	}

	if g.notifier != nil && g.chatConfig.enabled(category) {
		g.notifier.Notify(msg)
	}
}

// AddChatMessage appends a user-authored chat line.
func (g *GameState) AddChatMessage(text, category string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.addChatMessage(text, category)
}

// ChatMessages returns a copy of the retained chat log, oldest first.
func (g *GameState) ChatMessages() []ChatMessage {
	g.mu.Lock()
	defer g.mu.Unlock()
	out := make([]ChatMessage, len(g.chat))
	copy(out, g.chat)
	return out
}

// SetChatConfig replaces the category filter.
func (g *GameState) SetChatConfig(cfg ChatConfig) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.chatConfig = cfg
}
