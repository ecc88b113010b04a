// Package feedback builds the feedback attachment for a transcript and keeps
// it saved to disk while the user changes their sentiment.
package feedback

import "tdmenu/internal/model"

// Toggle returns the sentiment after the user presses the button for pressed.
// Pressing the selected sentiment clears it; pressing the other one replaces it.
// Only positive and negative are buttons: any other pressed value leaves
// current unchanged.
func Toggle(current, pressed model.Sentiment) model.Sentiment {
	if !IsButton(pressed) {
		return current
	}
	if current == pressed {
		return model.SentimentNone
	}
	return pressed
}

// IsButton reports whether s is a sentiment the user can press.
func IsButton(s model.Sentiment) bool {
	return s == model.SentimentPositive || s == model.SentimentNegative
}
