package tabs

// UnknownDomain is the display domain of entries without a usable URL.
const UnknownDomain = "Unknown"

// Entry is one saved tab, or a header/label line when URL is empty.
type Entry struct {
	ID     int64
	Title  string
	URL    string
	Domain string
}

func (e Entry) HasURL() bool {
	return e.URL != ""
}

// IsHeader reports whether the entry is a section label rather than a tab.
func (e Entry) IsHeader() bool {
	return !e.HasURL()
}

func NewEntry(title, rawURL string) Entry {
	return Entry{Title: title, URL: rawURL, Domain: Domain(rawURL)}
}
