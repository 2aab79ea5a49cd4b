package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/icewatch/ice-news-monitor/internal/model"
)

// fakeTelegram records sent texts and can fail from a given call on.
type fakeTelegram struct {
	sent   []string
	failAt int // fail the nth send (1-based); 0 never fails
}

func (f *fakeTelegram) SendMessage(ctx context.Context, text string) error {
	if f.failAt > 0 && len(f.sent)+1 == f.failAt {
		return errors.New("telegram unavailable")
	}
	f.sent = append(f.sent, text)
	return nil
}

func newTestNotifier(telegram *fakeTelegram, limit int) *Notifier {
	return &Notifier{telegram: telegram, limit: limit, pause: 0}
}

func TestBuildMessage(t *testing.T) {
	item := model.NewsItem{Title: "Pisten offen", Snippet: "Ab morgen", Link: "https://x/1"}
	message := BuildMessage(item, "Slopes open", "Starting tomorrow")

	if !strings.Contains(message, "<b>Ice News Update</b>") {
		t.Error("Expected message header")
	}
	if !strings.Contains(message, "<b>Slopes open</b>") {
		t.Error("Expected translated title in bold")
	}
	if !strings.Contains(message, "(Original: Pisten offen)") {
		t.Error("Expected original title when it differs from the translation")
	}
	if !strings.Contains(message, "Starting tomorrow") {
		t.Error("Expected translated snippet")
	}
	if !strings.Contains(message, `<a href="https://x/1">Read more</a>`) {
		t.Error("Expected source link")
	}
}

func TestBuildMessageNoOriginalWhenSame(t *testing.T) {
	item := model.NewsItem{Title: "Info", Snippet: "", Link: ""}
	message := BuildMessage(item, "Info", "")

	if strings.Contains(message, "Original") {
		t.Error("Expected no original line when translation equals the title")
	}
}

func TestBuildMessageEscapesHTML(t *testing.T) {
	item := model.NewsItem{Title: "a <b> & c", Snippet: "s"}
	message := BuildMessage(item, "x <i> & y", "snip <script>")

	if strings.Contains(message, "<script>") || strings.Contains(message, "x <i>") {
		t.Errorf("Expected user content to be escaped, got %q", message)
	}
	if !strings.Contains(message, "x &lt;i&gt; &amp; y") {
		t.Errorf("Expected escaped translated title, got %q", message)
	}
}

func TestSplitMessageShort(t *testing.T) {
	chunks := SplitMessage("hello\nworld", 100)
	if len(chunks) != 1 || chunks[0].Text != "hello\nworld" {
		t.Errorf("Expected single untouched chunk, got %+v", chunks)
	}
}

func TestSplitMessageReconstruction(t *testing.T) {
	var sb strings.Builder
	for i := 0; i < 120; i++ {
		sb.WriteString("Zeile mit etwas Inhalt für die Nachricht\n")
	}
	message := sb.String()

	chunks := SplitMessage(message, 400)
	if len(chunks) < 2 {
		t.Fatalf("Expected multiple chunks, got %d", len(chunks))
	}

	var rebuilt strings.Builder
	for i, chunk := range chunks {
		if chunk.Index != i {
			t.Errorf("Expected chunk index %d, got %d", i, chunk.Index)
		}
		if n := utf8.RuneCountInString(chunk.Text); n > 400 {
			t.Errorf("Chunk %d of %d runes exceeds limit", i, n)
		}
		rebuilt.WriteString(chunk.Text)
	}

	if rebuilt.String() != message {
		t.Error("Expected concatenated chunks to reproduce the message exactly")
	}
}

func TestSplitMessageNeverMidLine(t *testing.T) {
	message := strings.Repeat("kurze Zeile\n", 50)

	for _, chunk := range SplitMessage(message, 100) {
		if !strings.HasSuffix(chunk.Text, "\n") {
			t.Errorf("Expected chunk to end at a line boundary, got %q", chunk.Text)
		}
	}
}

func TestSplitMessageOversizedLine(t *testing.T) {
	// A single line over the limit is hard-split; reconstruction still holds.
	message := "kurz\n" + strings.Repeat("x", 250) + "\nkurz\n"

	chunks := SplitMessage(message, 100)
	var rebuilt strings.Builder
	for _, chunk := range chunks {
		if utf8.RuneCountInString(chunk.Text) > 100 {
			t.Errorf("Chunk exceeds limit: %q", chunk.Text)
		}
		rebuilt.WriteString(chunk.Text)
	}
	if rebuilt.String() != message {
		t.Error("Expected exact reconstruction with an oversized line")
	}
}

func TestNotifySingleMessage(t *testing.T) {
	telegram := &fakeTelegram{}
	n := newTestNotifier(telegram, 100)

	if err := n.Notify(context.Background(), "short message"); err != nil {
		t.Fatalf("Notify failed: %v", err)
	}
	if len(telegram.sent) != 1 {
		t.Errorf("Expected one send, got %d", len(telegram.sent))
	}
}

func TestNotifyThreeAndAHalfTimesLimit(t *testing.T) {
	// 7 lines of 50 runes with a 100-rune limit: 3.5x the limit must go
	// out as exactly 4 sends that reassemble to the original.
	line := strings.Repeat("a", 49) + "\n"
	message := strings.Repeat(line, 7)
	telegram := &fakeTelegram{}
	n := newTestNotifier(telegram, 100)

	if err := n.Notify(context.Background(), message); err != nil {
		t.Fatalf("Notify failed: %v", err)
	}

	if len(telegram.sent) != 4 {
		t.Fatalf("Expected exactly 4 sends, got %d", len(telegram.sent))
	}
	if strings.Join(telegram.sent, "") != message {
		t.Error("Expected concatenated payloads to equal the original message")
	}
}

func TestNotifyPartialDelivery(t *testing.T) {
	line := strings.Repeat("a", 49) + "\n"
	message := strings.Repeat(line, 7) // 4 chunks at limit 100
	telegram := &fakeTelegram{failAt: 3}
	n := newTestNotifier(telegram, 100)

	err := n.Notify(context.Background(), message)

	var deliveryErr *DeliveryError
	if !errors.As(err, &deliveryErr) {
		t.Fatalf("Expected *DeliveryError, got %v", err)
	}
	if deliveryErr.Sent != 2 {
		t.Errorf("Expected 2 chunks reported sent, got %d", deliveryErr.Sent)
	}
	if deliveryErr.Total != 4 {
		t.Errorf("Expected 4 total chunks, got %d", deliveryErr.Total)
	}
}

func TestNotifyFirstSendFails(t *testing.T) {
	telegram := &fakeTelegram{failAt: 1}
	n := newTestNotifier(telegram, 100)

	err := n.Notify(context.Background(), "short")

	var deliveryErr *DeliveryError
	if !errors.As(err, &deliveryErr) {
		t.Fatalf("Expected *DeliveryError, got %v", err)
	}
	if deliveryErr.Sent != 0 {
		t.Errorf("Expected 0 chunks sent, got %d", deliveryErr.Sent)
	}
}
