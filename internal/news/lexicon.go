package news

import "strings"

// Lexicon scores headline text for polarity from weighted word lists.
// Scores land in [-1,1] with 0 for text containing no known words.
type Lexicon struct {
	weights map[string]float64
}

// lexiconWeights holds the built-in financial word list. Weights reflect
// how strongly a word reads in a market headline, not general English.
var lexiconWeights = map[string]float64{
	// Strongly positive
	"surge": 0.8, "soar": 0.8, "skyrocket": 0.9, "rally": 0.7,
	"breakout": 0.7, "record": 0.6, "beat": 0.6, "beats": 0.6,
	"outperform": 0.7, "upgrade": 0.7, "upgraded": 0.7, "bullish": 0.8,

	// Moderately positive
	"gain": 0.5, "gains": 0.5, "rise": 0.4, "rises": 0.4, "rose": 0.4,
	"climb": 0.4, "climbs": 0.4, "jump": 0.5, "jumps": 0.5,
	"up": 0.3, "higher": 0.3, "growth": 0.4, "profit": 0.4,
	"strong": 0.4, "boost": 0.5, "expand": 0.3, "expands": 0.3,
	"optimistic": 0.5, "positive": 0.4, "buy": 0.3, "dividend": 0.2,
	"recovery": 0.4, "rebound": 0.5, "momentum": 0.3,

	// Moderately negative
	"fall": -0.4, "falls": -0.4, "fell": -0.4, "drop": -0.4, "drops": -0.4,
	"decline": -0.4, "declines": -0.4, "slip": -0.3, "slips": -0.3,
	"down": -0.3, "lower": -0.3, "loss": -0.4, "losses": -0.4,
	"weak": -0.4, "miss": -0.5, "misses": -0.5, "cut": -0.4, "cuts": -0.4,
	"concern": -0.4, "concerns": -0.4, "warning": -0.5, "risk": -0.3,
	"layoff": -0.5, "layoffs": -0.5, "sell": -0.3, "negative": -0.4,
	"lawsuit": -0.5, "probe": -0.4, "investigation": -0.4,

	// Strongly negative
	"plunge": -0.8, "plunges": -0.8, "plummet": -0.8, "crash": -0.9,
	"collapse": -0.9, "tumble": -0.7, "tumbles": -0.7, "slump": -0.6,
	"downgrade": -0.7, "downgraded": -0.7, "bearish": -0.8,
	"bankruptcy": -0.9, "fraud": -0.9, "scandal": -0.8, "default": -0.7,
	"recession": -0.6, "selloff": -0.7,
}

// negations flip the polarity of the following sentiment word.
var negations = map[string]bool{
	"no": true, "not": true, "never": true, "without": true,
	"despite": true, "ends": true, "halts": true,
}

// NewLexicon builds the analyzer with the built-in word list.
func NewLexicon() *Lexicon {
	return &Lexicon{weights: lexiconWeights}
}

// Score returns the polarity of a headline in [-1,1]: the mean weight of
// known words, negation-flipped, clamped at the ends.
func (l *Lexicon) Score(text string) float64 {
	words := tokenize(text)
	var sum float64
	var n int
	negate := false
	for _, w := range words {
		if negations[w] {
			negate = true
			continue
		}
		weight, ok := l.weights[w]
		if !ok {
			continue
		}
		if negate {
			weight = -weight
			negate = false
		}
		sum += weight
		n++
	}
	if n == 0 {
		return 0
	}
	polarity := sum / float64(n)
	if polarity > 1 {
		return 1
	}
	if polarity < -1 {
		return -1
	}
	return polarity
}

// tokenize lowercases and splits on non-letter characters.
func tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return (r < 'a' || r > 'z') && (r < '0' || r > '9')
	})
}
