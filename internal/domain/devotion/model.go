package devotion

// Fragment is one piece of OCR text on a page.
type Fragment struct {
	Text string `json:"text"`
	Type string `json:"type"`
}

// RawPage is an OCR page record as stored in the content bucket.
type RawPage struct {
	PageID  int        `json:"pageId"`
	Content []Fragment `json:"content"`
}

// PageDocument is the JSON shape of the bucket object.
type PageDocument struct {
	Pages []RawPage `json:"pages"`
}

// ProcessedDevotion is one labeled daily devotion derived from a slice of
// raw pages.
type ProcessedDevotion struct {
	Day               int    `json:"day"`
	Title             string `json:"title"`
	VerseText         string `json:"verseText"`
	VerseReference    string `json:"verseReference"`
	DevotionalContent string `json:"devotionalContent"`
	Reflection        string `json:"reflection"`
	Theme             string `json:"theme"`
}
