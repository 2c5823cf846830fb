package prompt

import (
	"fmt"
	"strings"

	"github.com/akolanti/docchat/internal/config"
	"github.com/akolanti/docchat/internal/domain/chatModel"
)

const systemTemplate = "You are a document assistant working with the document %q. " +
	"Answer only from the document content supplied in the conversation. " +
	"If the supplied content does not contain the answer, say you do not know instead of guessing. " +
	"Cite the document material your answer relies on. " +
	"Politely decline questions that are not about this document."

const userTemplate = "document content:\n%s\n\nquestion: %s"

const summaryTemplate = "Write a summary of the following document in 3 to 5 paragraphs. " +
	"Cover the main subject, the key points and any conclusions.\n\n%s"

const topicsTemplate = "List the 5 to 7 key topics of the following document. " +
	"Each topic must be at most 4 words. Reply with one topic per line and nothing else.\n\n%s"

// BuildConversation assembles the ordered message sequence for one query:
// system instruction, the bounded recent history, then the new user message
// carrying the ranked context chunks.
func BuildConversation(docName string, contextChunks []string, history []chatModel.Message, query string) []chatModel.Message {
	conversation := make([]chatModel.Message, 0, len(history)+2)
	conversation = append(conversation,
		chatModel.NewMessage(chatModel.RoleSystem, fmt.Sprintf(systemTemplate, docName)))

	recent := history
	if len(recent) > config.HistoryWindow {
		recent = recent[len(recent)-config.HistoryWindow:]
	}
	conversation = append(conversation, recent...)

	contextBlock := strings.Join(contextChunks, "\n\n")
	conversation = append(conversation,
		chatModel.NewMessage(chatModel.RoleUser, fmt.Sprintf(userTemplate, contextBlock, query)))

	return conversation
}

// SummaryConversation caps content with a head+tail cut so both the opening
// and the ending of the document survive truncation.
func SummaryConversation(content string, maxContentLen int) []chatModel.Message {
	return []chatModel.Message{
		chatModel.NewMessage(chatModel.RoleUser,
			fmt.Sprintf(summaryTemplate, TruncateMiddle(content, maxContentLen))),
	}
}

// TopicsConversation keeps only the head of the document.
func TopicsConversation(content string, maxContentLen int) []chatModel.Message {
	return []chatModel.Message{
		chatModel.NewMessage(chatModel.RoleUser,
			fmt.Sprintf(topicsTemplate, TruncateHead(content, maxContentLen))),
	}
}

const elisionMarker = "\n\n[...]\n\n"

// TruncateMiddle drops the middle of oversized content, keeping the start
// and the end with an elision marker between them.
func TruncateMiddle(content string, maxLen int) string {
	if len(content) <= maxLen {
		return content
	}
	keep := (maxLen - len(elisionMarker)) / 2
	if keep < 1 {
		return content[:maxLen]
	}
	return content[:keep] + elisionMarker + content[len(content)-keep:]
}

// TruncateHead keeps only the first maxLen characters.
func TruncateHead(content string, maxLen int) string {
	if len(content) <= maxLen {
		return content
	}
	return content[:maxLen]
}

// ParseTopics splits a topic listing into clean entries, stripping list
// markers and blank lines.
func ParseTopics(raw string) []string {
	var topics []string
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		line = strings.TrimSpace(strings.TrimPrefix(line, "-"))
		if line == "" {
			continue
		}
		topics = append(topics, line)
	}
	return topics
}
