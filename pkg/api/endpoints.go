package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/hazyhaar/phonocoach/pkg/align"
	"github.com/hazyhaar/phonocoach/pkg/dict"
	"github.com/hazyhaar/phonocoach/pkg/ipa"
	"github.com/hazyhaar/phonocoach/pkg/kit"
	"github.com/hazyhaar/phonocoach/pkg/observe"
	"github.com/hazyhaar/phonocoach/pkg/pronounce"
)

// Shared request/response types used by both HTTP and MCP transports.

type DiffRequest struct {
	Target     string `json:"target"`
	Transcript string `json:"transcript"`
}

type diffResponse struct {
	Tokens []align.DiffToken `json:"tokens"`
	Labels []string          `json:"labels"`
}

type AccuracyRequest struct {
	Tokens []align.DiffToken
}

type accuracyResponse struct {
	align.Accuracy
	Passed    bool    `json:"passed"`
	Threshold float64 `json:"threshold"`
}

type IPARequest struct {
	Text   string `json:"text"`
	Locale string `json:"locale,omitempty"`
}

type ipaResponse struct {
	Text      string   `json:"text"`
	Locale    string   `json:"locale"`
	IPA       string   `json:"ipa"`
	Supported bool     `json:"supported"`
	Symbols   []string `json:"symbols"`
}

type SymbolsRequest struct {
	IPA string `json:"ipa"`
}

type symbolsResponse struct {
	Symbols []string                   `json:"symbols"`
	Guide   []pronounce.HighlightedRow `json:"guide"`
}

type AnswerRequest struct {
	Guess  string `json:"guess"`
	Answer string `json:"answer"`
}

type answerResponse struct {
	Correct bool `json:"correct"`
}

type guideResponse struct {
	Rows []ipa.GuideRow `json:"rows"`
}

type dictsResponse struct {
	Dictionaries []dict.DictInfo `json:"dictionaries"`
}

// errBadRequest marks endpoint errors caused by the caller's input.
var errBadRequest = errors.New("bad request")

func badRequest(format string, args ...any) error {
	return fmt.Errorf("%w: %s", errBadRequest, fmt.Sprintf(format, args...))
}

// maxTextRunes bounds the text fields accepted by the endpoints.
const maxTextRunes = 2000

func checkLen(field, s string) error {
	if n := len([]rune(s)); n > maxTextRunes {
		return badRequest("%s too long (max %d characters, got %d)", field, maxTextRunes, n)
	}
	return nil
}

// Deps are what the endpoints are built from.
type Deps struct {
	Service  *pronounce.Service
	Registry *dict.Registry
	Metrics  *observe.Metrics
	Logger   *slog.Logger
}

// Endpoints holds every action, instrumented and ready to be served by
// any transport.
type Endpoints struct {
	Diff     kit.Endpoint
	Evaluate kit.Endpoint
	Accuracy kit.Endpoint
	IPA      kit.Endpoint
	Symbols  kit.Endpoint
	Answer   kit.Endpoint
	Guide    kit.Endpoint
	Dicts    kit.Endpoint
}

// NewEndpoints builds the endpoints and wraps each one with tracing,
// metrics and logging.
func NewEndpoints(d Deps) *Endpoints {
	logger := d.Logger
	if logger == nil {
		logger = slog.Default()
	}
	wrap := func(name string, e kit.Endpoint) kit.Endpoint {
		return kit.Chain(observe.Endpoint(d.Metrics, name), kit.Logging(logger, name))(e)
	}
	return &Endpoints{
		Diff:     wrap("diff", diffEndpoint(d.Service)),
		Evaluate: wrap("evaluate", evaluateEndpoint(d.Service, d.Metrics)),
		Accuracy: wrap("accuracy", accuracyEndpoint(d.Service)),
		IPA:      wrap("ipa", ipaEndpoint(d.Service)),
		Symbols:  wrap("symbols", symbolsEndpoint(d.Service)),
		Answer:   wrap("answer", answerEndpoint(d.Service)),
		Guide:    wrap("guide", guideEndpoint(d.Service)),
		Dicts:    wrap("dicts", listDictsEndpoint(d.Registry)),
	}
}

func diffEndpoint(svc *pronounce.Service) kit.Endpoint {
	return func(_ context.Context, request any) (any, error) {
		req := request.(*DiffRequest)
		if err := errors.Join(checkLen("target", req.Target), checkLen("transcript", req.Transcript)); err != nil {
			return nil, err
		}
		tokens := svc.Diff(req.Target, req.Transcript)
		return diffResponse{Tokens: tokens, Labels: align.Labels(tokens)}, nil
	}
}

func evaluateEndpoint(svc *pronounce.Service, m *observe.Metrics) kit.Endpoint {
	return func(ctx context.Context, request any) (any, error) {
		req := request.(*DiffRequest)
		if err := errors.Join(checkLen("target", req.Target), checkLen("transcript", req.Transcript)); err != nil {
			return nil, err
		}
		if req.Target == "" {
			return nil, badRequest("target is empty")
		}
		ev := svc.Evaluate(req.Target, req.Transcript)
		m.RecordEvaluation(ctx, ev.Accuracy.Accuracy, ev.Passed)
		return ev, nil
	}
}

func accuracyEndpoint(svc *pronounce.Service) kit.Endpoint {
	return func(_ context.Context, request any) (any, error) {
		req := request.(*AccuracyRequest)
		acc := svc.Accuracy(req.Tokens)
		return accuracyResponse{
			Accuracy:  acc,
			Passed:    acc.Passed(svc.PassThreshold()),
			Threshold: svc.PassThreshold(),
		}, nil
	}
}

// ipaEndpoint falls back to the locale negotiated by the transport when
// the request names none.
func ipaEndpoint(svc *pronounce.Service) kit.Endpoint {
	return func(ctx context.Context, request any) (any, error) {
		req := request.(*IPARequest)
		if err := checkLen("text", req.Text); err != nil {
			return nil, err
		}
		locale := req.Locale
		if locale == "" {
			locale = kit.GetLocale(ctx)
		}
		if locale == "" {
			locale = ipa.LocaleEnglish
		}
		out := svc.IPA(req.Text, locale)
		symbols := []string{}
		if out != "" {
			symbols = svc.Symbols(out).Sorted()
		}
		return ipaResponse{
			Text:      req.Text,
			Locale:    locale,
			IPA:       out,
			Supported: ipa.Supported(locale),
			Symbols:   symbols,
		}, nil
	}
}

func symbolsEndpoint(svc *pronounce.Service) kit.Endpoint {
	return func(_ context.Context, request any) (any, error) {
		req := request.(*SymbolsRequest)
		if err := checkLen("ipa", req.IPA); err != nil {
			return nil, err
		}
		return symbolsResponse{
			Symbols: svc.Symbols(req.IPA).Sorted(),
			Guide:   svc.Highlight(req.IPA),
		}, nil
	}
}

func answerEndpoint(svc *pronounce.Service) kit.Endpoint {
	return func(_ context.Context, request any) (any, error) {
		req := request.(*AnswerRequest)
		if err := errors.Join(checkLen("guess", req.Guess), checkLen("answer", req.Answer)); err != nil {
			return nil, err
		}
		return answerResponse{Correct: svc.CheckAnswer(req.Guess, req.Answer)}, nil
	}
}

func guideEndpoint(svc *pronounce.Service) kit.Endpoint {
	return func(_ context.Context, _ any) (any, error) {
		return guideResponse{Rows: svc.Guide()}, nil
	}
}

func listDictsEndpoint(reg *dict.Registry) kit.Endpoint {
	return func(_ context.Context, _ any) (any, error) {
		return dictsResponse{Dictionaries: reg.ListDicts()}, nil
	}
}
