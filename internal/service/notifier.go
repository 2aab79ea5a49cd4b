package service

import (
	"context"
	"fmt"
	"html"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/icewatch/ice-news-monitor/internal/model"
	"github.com/icewatch/ice-news-monitor/internal/repository"
)

// MessageLimit is the maximum length of one Telegram message, in runes.
// Slightly below Telegram's hard 4096 cap to leave headroom for markup.
const MessageLimit = 4000

// interChunkPause keeps multi-part messages arriving in order.
const interChunkPause = 500 * time.Millisecond

// Notifier formats and delivers notifications, splitting messages that
// exceed the chat API's size limit.
type Notifier struct {
	telegram repository.TelegramRepository
	limit    int
	pause    time.Duration
}

func NewNotifier(telegram repository.TelegramRepository) *Notifier {
	return &Notifier{
		telegram: telegram,
		limit:    MessageLimit,
		pause:    interChunkPause,
	}
}

// BuildMessage formats the HTML notification: translated title and snippet,
// the original title when it differs, and the source link.
func BuildMessage(item model.NewsItem, titleEN, snippetEN string) string {
	lines := []string{"🏔 <b>Ice News Update</b>", ""}

	if titleEN != "" {
		lines = append(lines, fmt.Sprintf("<b>%s</b>", html.EscapeString(titleEN)))
		if item.Title != "" && item.Title != titleEN {
			lines = append(lines, fmt.Sprintf("<i>(Original: %s)</i>", html.EscapeString(item.Title)))
		}
		lines = append(lines, "")
	}
	if snippetEN != "" {
		lines = append(lines, html.EscapeString(snippetEN), "")
	}
	if item.Link != "" {
		lines = append(lines, fmt.Sprintf(`<a href="%s">Read more</a>`, item.Link))
	}

	return strings.TrimSpace(strings.Join(lines, "\n"))
}

// MessageChunk is one bounded slice of a formatted message. Concatenating
// all chunks in index order reproduces the message exactly.
type MessageChunk struct {
	Index int
	Text  string
}

// Notify sends the formatted message, splitting it into chunks when it
// exceeds the size limit. On failure the returned *DeliveryError carries
// how many chunks were already delivered.
func (n *Notifier) Notify(ctx context.Context, message string) error {
	chunks := SplitMessage(message, n.limit)

	for i, chunk := range chunks {
		if i > 0 && n.pause > 0 {
			time.Sleep(n.pause)
		}
		if err := n.telegram.SendMessage(ctx, chunk.Text); err != nil {
			return &DeliveryError{Sent: i, Total: len(chunks), Err: err}
		}
	}

	return nil
}

// SplitMessage splits a message into chunks of at most limit runes,
// cutting only at line boundaries. Each line keeps its trailing newline,
// so concatenation loses nothing. A single line longer than the limit is
// hard-split at rune boundaries; the chat API's cap is not negotiable.
func SplitMessage(message string, limit int) []MessageChunk {
	if utf8.RuneCountInString(message) <= limit {
		return []MessageChunk{{Index: 0, Text: message}}
	}

	var chunks []MessageChunk
	var sb strings.Builder
	count := 0

	flush := func() {
		if sb.Len() > 0 {
			chunks = append(chunks, MessageChunk{Index: len(chunks), Text: sb.String()})
			sb.Reset()
			count = 0
		}
	}

	for _, line := range splitAfterNewlines(message) {
		length := utf8.RuneCountInString(line)

		if length > limit {
			flush()
			runes := []rune(line)
			for len(runes) > limit {
				chunks = append(chunks, MessageChunk{Index: len(chunks), Text: string(runes[:limit])})
				runes = runes[limit:]
			}
			sb.WriteString(string(runes))
			count = len(runes)
			continue
		}

		if count+length > limit {
			flush()
		}
		sb.WriteString(line)
		count += length
	}
	flush()

	return chunks
}

// splitAfterNewlines splits text into lines that keep their trailing
// newline character.
func splitAfterNewlines(text string) []string {
	var lines []string
	for {
		i := strings.IndexByte(text, '\n')
		if i < 0 {
			if text != "" {
				lines = append(lines, text)
			}
			return lines
		}
		lines = append(lines, text[:i+1])
		text = text[i+1:]
	}
}
