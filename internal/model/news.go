package model

// NewsItem is a single announcement extracted from the news page.
// Items are immutable once constructed by the extractor.
type NewsItem struct {
	Title   string `json:"title"`
	Snippet string `json:"snippet"`
	Link    string `json:"link"`
	RawDate string `json:"raw_date,omitempty"`
}

// SeenRecord is the persisted marker of the last item that was fully
// notified. The zero value is the "never notified" sentinel.
type SeenRecord struct {
	Title   string `json:"title"`
	Snippet string `json:"snippet"`
}

// IsZero reports whether the record is the never-notified sentinel.
func (r SeenRecord) IsZero() bool {
	return r.Title == "" && r.Snippet == ""
}

// RecordOf builds the persisted form of an item.
func RecordOf(item NewsItem) SeenRecord {
	return SeenRecord{Title: item.Title, Snippet: item.Snippet}
}

// IsNew reports whether item differs from the stored record.
// Comparison is exact string equality on (title, snippet) only; link and
// date changes alone do not make an item new.
func IsNew(item NewsItem, record SeenRecord) bool {
	if record.IsZero() {
		return true
	}
	return item.Title != record.Title || item.Snippet != record.Snippet
}
