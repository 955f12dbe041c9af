package queries

import "memebrowser/domain/core/entities"

// ResultPage is the envelope returned by list and search.
// Total and HasMore describe the filtered population.
type ResultPage struct {
	Data    []MemeView `json:"data"`
	Total   int        `json:"total"`
	Page    int        `json:"page"`
	Limit   int        `json:"limit"`
	HasMore bool       `json:"hasMore"`
}

// MemeView is the client representation of a meme
type MemeView struct {
	ID             string   `json:"id"`
	Title          string   `json:"title"`
	ImageURL       string   `json:"imageUrl"`
	OriginalText   string   `json:"originalText"`
	RecognizedText *string  `json:"recognizedText,omitempty"`
	Content        string   `json:"content"`
	Tags           []string `json:"tags"`
	CreatedAt      string   `json:"createdAt"`
}

// NewMemeView maps an entity to its client representation
func NewMemeView(meme *entities.Meme) MemeView {
	view := MemeView{
		ID:           meme.DisplayID(),
		Title:        meme.Title(),
		ImageURL:     meme.ImageURL(),
		OriginalText: meme.OriginalText(),
		Content:      meme.Content(),
		Tags:         meme.Tags().Values(),
		CreatedAt:    meme.CreatedAt(),
	}
	if text, ok := meme.RecognizedText(); ok {
		view.RecognizedText = &text
	}
	return view
}

// NewMemeViews maps entities in order
func NewMemeViews(memes []*entities.Meme) []MemeView {
	views := make([]MemeView, 0, len(memes))
	for _, meme := range memes {
		views = append(views, NewMemeView(meme))
	}
	return views
}
