package service

import (
	"sort"
	"strings"
)

// OverallRating is the visit-level verdict recorded on every feedback record.
type OverallRating string

const (
	RatingGood         OverallRating = "GOOD"
	RatingNotSatisfied OverallRating = "NOT_SATISFIED"
)

func ParseOverallRating(s string) (OverallRating, error) {
	switch r := OverallRating(strings.ToUpper(strings.TrimSpace(s))); r {
	case RatingGood, RatingNotSatisfied:
		return r, nil
	default:
		return "", validationError("unknown overall rating %q", s)
	}
}

func (r OverallRating) Valid() bool {
	switch r {
	case RatingGood, RatingNotSatisfied:
		return true
	default:
		return false
	}
}

// Emotion is the optional reaction a customer attaches to a selected staff member.
type Emotion string

const (
	EmotionHeart Emotion = "HEART"
	EmotionLike  Emotion = "LIKE"
	EmotionWow   Emotion = "WOW"
	EmotionAngry Emotion = "ANGRY"
)

var emotions = []Emotion{EmotionHeart, EmotionLike, EmotionWow, EmotionAngry}

func ParseEmotion(s string) (Emotion, error) {
	e := Emotion(strings.ToUpper(strings.TrimSpace(s)))
	if e.Icon() == "" {
		return "", validationError("unknown emotion %q", s)
	}
	return e, nil
}

func (e Emotion) Valid() bool { return e.Icon() != "" }

// Icon returns the kiosk glyph, or "" when e is not a known emotion.
func (e Emotion) Icon() string {
	switch e {
	case EmotionHeart:
		return "❤️"
	case EmotionLike:
		return "👍"
	case EmotionWow:
		return "🤩"
	case EmotionAngry:
		return "😠"
	default:
		return ""
	}
}

type EmotionOption struct {
	Name Emotion `json:"name"`
	Icon string  `json:"icon"`
}

// Emotions lists the emotion catalog in name order.
func Emotions() []EmotionOption {
	out := make([]EmotionOption, 0, len(emotions))
	for _, e := range emotions {
		out = append(out, EmotionOption{Name: e, Icon: e.Icon()})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
