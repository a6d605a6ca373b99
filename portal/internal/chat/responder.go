package chat

import (
	"context"
	"math/rand/v2"
	"strings"
)

const Apology = "I'm sorry, I'm having trouble responding right now. Please try again in a moment."

type Responder interface {
	Respond(ctx context.Context, content string) (string, error)
}

type keywordGroup struct {
	keywords []string
	reply    string
}

var keywordGroups = []keywordGroup{
	{
		keywords: []string{"hello", "hi", "hey"},
		reply:    "Hello! Welcome to this AI World. I'm here to help you explore and learn. What would you like to know about?",
	},
	{
		keywords: []string{"help", "what can you do"},
		reply:    "I can help you with a variety of tasks! I can answer questions, provide explanations, help with creative writing, solve problems, or just have a conversation. What specific area would you like assistance with?",
	},
	{
		keywords: []string{"create", "build", "make"},
		reply:    "I'd love to help you create something! Whether it's writing, planning a project, brainstorming ideas, or building something specific, I'm here to assist. What did you have in mind?",
	},
	{
		keywords: []string{"explain", "how does", "what is"},
		reply:    "I'm great at explaining complex topics in simple terms! Feel free to ask me about any concept, process, or idea you'd like to understand better. What would you like me to explain?",
	},
	{
		keywords: []string{"ai universe", "this world"},
		reply:    "AI Universe is a platform where creators can build personalized AI-powered experiences! This world you're in was created using our no-code tools, featuring AI chat, voice interactions, and much more. Each world is unique and tailored to its creator's vision.",
	},
}

var genericReplies = []string{
	"That's a fascinating perspective! I'd love to explore this topic further with you. What specific aspect interests you most?",
	"I find that really intriguing. Based on what you've shared, I think we could dive deeper into several related areas. Which direction appeals to you?",
	"Great question! This touches on some important concepts. Let me share some thoughts and then I'd love to hear your perspective.",
	"I appreciate you bringing this up. It's a topic that has many layers to it. What's your experience been with this?",
	"That's an excellent point to consider. There are several ways to approach this, and I think your insight could help us find the best path forward.",
	"I'm really glad you asked about this. It's something that many people wonder about, and there are some interesting angles we could explore together.",
	"This is definitely worth discussing in detail. I think there are some practical applications here that might be really valuable for you.",
	"You've touched on something really important here. Let me share some thoughts, and then I'd love to get your take on it.",
}

// CannedResponder answers from a fixed table. Groups are tried in order and
// the first one with a keyword contained in the message wins.
type CannedResponder struct {
	pick func(n int) int
}

func NewCannedResponder() *CannedResponder {
	return &CannedResponder{pick: rand.IntN}
}

func (r *CannedResponder) Respond(ctx context.Context, content string) (string, error) {
	lower := strings.ToLower(content)
	for _, group := range keywordGroups {
		for _, keyword := range group.keywords {
			if strings.Contains(lower, keyword) {
				return group.reply, nil
			}
		}
	}
	return genericReplies[r.pick(len(genericReplies))], nil
}
