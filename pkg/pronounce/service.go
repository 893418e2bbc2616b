// Package pronounce is the entry point the outer surfaces call: it binds
// the aligner, the scorer and the transcription engine behind one
// Service.
package pronounce

import (
	"github.com/hazyhaar/phonocoach/pkg/align"
	"github.com/hazyhaar/phonocoach/pkg/ipa"
	"github.com/hazyhaar/phonocoach/pkg/text"
)

// Service answers pronunciation-feedback queries. It is safe for
// concurrent use.
type Service struct {
	engine    *ipa.Engine
	guide     *ipa.Guide
	threshold float64
}

// Option configures a Service.
type Option func(*Service)

// WithPassThreshold sets the accuracy an attempt needs to pass.
// Values outside (0, 1] are ignored.
func WithPassThreshold(t float64) Option {
	return func(s *Service) {
		if t > 0 && t <= 1 {
			s.threshold = t
		}
	}
}

// WithGuide replaces the built-in symbol guide.
func WithGuide(g *ipa.Guide) Option {
	return func(s *Service) {
		if g != nil {
			s.guide = g
		}
	}
}

// New returns a Service transcribing through engine.
func New(engine *ipa.Engine, opts ...Option) *Service {
	s := &Service{
		engine:    engine,
		guide:     ipa.DefaultGuide(),
		threshold: align.DefaultPassThreshold,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// PassThreshold returns the configured pass threshold.
func (s *Service) PassThreshold() float64 { return s.threshold }

// Diff aligns a transcript against its target phrase.
func (s *Service) Diff(target, transcript string) []align.DiffToken {
	return align.Diff(target, transcript)
}

// Accuracy scores a diff.
func (s *Service) Accuracy(tokens []align.DiffToken) align.Accuracy {
	return align.Score(tokens)
}

// IPA transcribes text for a locale tag ("en", "en-GB", "it"...).
// Unsupported locales yield "".
func (s *Service) IPA(text, locale string) string {
	return s.engine.Transcribe(text, locale)
}

// Symbols returns the guide symbols used by an IPA transcription.
func (s *Service) Symbols(transcription string) ipa.SymbolSet {
	return s.guide.Extract(transcription)
}

// Guide returns the symbol guide in display order.
func (s *Service) Guide() []ipa.GuideRow {
	return s.guide.Rows()
}

// HighlightedRow is a guide row flagged when the transcription uses it.
type HighlightedRow struct {
	ipa.GuideRow
	Hot bool `json:"hot"`
}

// Highlight returns every guide row, flagging those present in transcription.
func (s *Service) Highlight(transcription string) []HighlightedRow {
	used := s.guide.Extract(transcription)
	rows := s.guide.Rows()
	out := make([]HighlightedRow, len(rows))
	for i, r := range rows {
		out[i] = HighlightedRow{GuideRow: r, Hot: used.Has(r.Key)}
	}
	return out
}

// Evaluation is the full feedback for one spoken attempt.
type Evaluation struct {
	Target     string            `json:"target"`
	Transcript string            `json:"transcript"`
	Tokens     []align.DiffToken `json:"tokens"`
	Accuracy   align.Accuracy    `json:"accuracy"`
	Passed     bool              `json:"passed"`
	Labels     []string          `json:"labels"`
	NearMisses []align.NearMiss  `json:"near_misses,omitempty"`
}

// Evaluate diffs and scores an attempt, and labels each token for display.
func (s *Service) Evaluate(target, transcript string) *Evaluation {
	tokens := align.Diff(target, transcript)
	acc := align.Score(tokens)
	return &Evaluation{
		Target:     target,
		Transcript: transcript,
		Tokens:     tokens,
		Accuracy:   acc,
		Passed:     acc.Passed(s.threshold),
		Labels:     align.Labels(tokens),
		NearMisses: align.NearMisses(tokens),
	}
}

// CheckAnswer compares a typed short answer with the expected one,
// ignoring case, accents, punctuation and extra whitespace.
func (s *Service) CheckAnswer(guess, answer string) bool {
	return text.NormalizeAnswer(guess) == text.NormalizeAnswer(answer)
}
