// Package assistant answers chat messages from a fixed set of canned replies.
// Rules are checked in order and match on lowercase substrings.
package assistant

import "strings"

type rule struct {
	all   []string
	any   []string
	reply string
}

func (r rule) matches(msg string) bool {
	for _, w := range r.all {
		if !strings.Contains(msg, w) {
			return false
		}
	}
	if len(r.any) == 0 {
		return true
	}
	for _, w := range r.any {
		if strings.Contains(msg, w) {
			return true
		}
	}
	return false
}

var rules = []rule{
	{
		all:   []string{"goa", "food"},
		reply: "Here are some special North Goa food items you must try:\n\n🍤 Prawn Curry Rice\n🐟 Fish Curry\n🥘 Vindaloo\n🍖 Chorizo Pao\n🥥 Bebinca (dessert)\n🍻 Feni (local drink)\n\nWould you like restaurant recommendations for these dishes?",
	},
	{
		any:   []string{"pharmacy", "medicine"},
		reply: "To find the nearest pharmacy:\n\n📍 Look for signs with 'Medical Store' or 'Chemist'\n🗣️ Ask locals: 'Paas mein medical store kahan hai?'\n📱 Use Google Maps and search 'pharmacy near me'\n🏥 Most are open 24/7 in tourist areas\n\nNeed help with any specific medication?",
	},
	{
		any:   []string{"travel plan", "itinerary"},
		reply: "I'd be happy to help with your travel plan! Here's what I can assist with:\n\n📅 Day-wise itinerary planning\n🏖️ Beach recommendations\n🏛️ Historical sites to visit\n🍴 Restaurant suggestions\n🚗 Transportation options\n💰 Budget planning\n\nWhat specific aspect would you like help with?",
	},
	{
		// "hi" also matches inside longer words; earlier rules win for those.
		any:   []string{"hello", "hi"},
		reply: "Hello! 👋 Welcome to Tripsy, your travel AI assistant!\n\nI can help you with:\n• Language translation\n• Local food recommendations\n• Travel planning\n• Finding places nearby\n• Cultural tips\n\nWhat would you like to explore today?",
	},
	{
		any:   []string{"thank"},
		reply: "You're welcome! 😊 Happy to help make your trip amazing! Feel free to ask me anything else about your travels.",
	},
}

const fallbackReply = "That's interesting! I'm here to help with your travel needs. Try asking me about:\n\n• Local food and restaurants\n• Places to visit\n• Language translation\n• Travel tips\n• Emergency services locations\n\nWhat would you like to know more about?"

// Reply returns the first matching canned answer, or a generic prompt.
func Reply(message string) string {
	msg := strings.ToLower(message)
	for _, r := range rules {
		if r.matches(msg) {
			return r.reply
		}
	}
	return fallbackReply
}

type Translation struct {
	Hindi         string `json:"hindi"`
	Pronunciation string `json:"pronunciation"`
}

var phrasebook = map[string]Translation{
	"hello":                         {"नमस्ते", "namaste"},
	"how are you":                   {"आप कैसे हैं?", "aap kaise hain?"},
	"thank you":                     {"धन्यवाद", "dhanyawad"},
	"where is the bathroom":         {"बाथरूम कहाँ है?", "bathroom kahan hai?"},
	"how much does this cost":       {"इसकी कीमत क्या है?", "iski keemat kya hai?"},
	"i need help":                   {"मुझे मदद चाहिए", "mujhe madad chahiye"},
	"where is the nearest pharmacy": {"सबसे नजदीकी फार्मेसी कहाँ है?", "sabse najdeeki pharmacy kahan hai?"},
	"can you help me":               {"क्या आप मेरी मदद कर सकते हैं?", "kya aap meri madad kar sakte hain?"},
}

var unknownTranslation = Translation{Hindi: "अनुवाद उपलब्ध नहीं", Pronunciation: "anuvad uplabdh nahi"}

// Translate looks up an exact phrase, ignoring case and surrounding space.
func Translate(text string) (Translation, bool) {
	t, ok := phrasebook[strings.ToLower(strings.TrimSpace(text))]
	if !ok {
		return unknownTranslation, false
	}
	return t, true
}
