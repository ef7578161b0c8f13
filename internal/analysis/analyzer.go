package analysis

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/go-resty/resty/v2"
	"github.com/karlseguin/ccache/v2"
	"github.com/pkg/errors"
	"go.uber.org/atomic"
	"go.uber.org/zap"

	"github.com/bigredeye/temrin/internal/config"
	lf "github.com/bigredeye/temrin/internal/logfield"
	"github.com/bigredeye/temrin/internal/models"
	"github.com/bigredeye/temrin/internal/stats"
)

var (
	ErrDisabled   = errors.New("AI analysis is not configured")
	ErrNoData     = errors.New("not enough data to analyze")
	ErrInProgress = errors.New("analysis is already in progress")
)

type Analysis struct {
	Summary         string   `json:"summary"`
	Strengths       []string `json:"strengths"`
	Weaknesses      []string `json:"weaknesses"`
	Recommendations []string `json:"recommendations"`
}

type Analyzer struct {
	client *resty.Client
	conf   *config.Config
	log    *zap.Logger

	cache   *ccache.Cache
	latest  atomic.Pointer[Analysis]
	running atomic.Bool
}

func NewAnalyzer(conf *config.Config, log *zap.Logger) *Analyzer {
	client := resty.New().
		SetBaseURL(conf.Analysis.Endpoint).
		SetTimeout(conf.Analysis.Timeout).
		SetHeader("x-goog-api-key", conf.Analysis.APIKey)

	return &Analyzer{
		client: client,
		conf:   conf,
		log:    log.With(lf.Module("analysis")),
		cache:  ccache.New(ccache.Configure().MaxSize(64)),
	}
}

func (a *Analyzer) Enabled() bool {
	return a.conf.Analysis.APIKey != ""
}

func (a *Analyzer) Running() bool {
	return a.running.Load()
}

// Latest returns the last successful analysis, or nil.
func (a *Analyzer) Latest() *Analysis {
	return a.latest.Load()
}

func (a *Analyzer) Stop() {
	a.cache.Stop()
}

// Analyze reuses a cached result when the class data has not changed since the last run.
func (a *Analyzer) Analyze(ctx context.Context, students []models.Student) (*Analysis, error) {
	return a.analyze(ctx, students, true)
}

// Refresh always asks the model and replaces the cached result.
func (a *Analyzer) Refresh(ctx context.Context, students []models.Student) (*Analysis, error) {
	return a.analyze(ctx, students, false)
}

func (a *Analyzer) analyze(ctx context.Context, students []models.Student, useCache bool) (*Analysis, error) {
	if !a.Enabled() {
		return nil, ErrDisabled
	}
	class := stats.Compute(students)
	if class == nil {
		return nil, ErrNoData
	}
	if !a.running.CompareAndSwap(false, true) {
		return nil, ErrInProgress
	}
	defer a.running.Store(false)

	prompt, err := BuildPrompt(class, students)
	if err != nil {
		return nil, err
	}

	key := fingerprint(a.conf.Analysis.Model, prompt)
	if item := a.cache.Get(key); useCache && item != nil && !item.Expired() {
		a.log.Debug("Analysis cache hit")
		res := item.Value().(*Analysis)
		a.latest.Store(res)
		return res, nil
	}

	res, err := a.generate(ctx, prompt)
	if err != nil {
		a.log.Error("AI analysis failed", lf.Model(a.conf.Analysis.Model), zap.Error(err))
		return nil, err
	}

	a.cache.Set(key, res, a.conf.Analysis.CacheTTL)
	a.latest.Store(res)
	a.log.Info("AI analysis finished", lf.Model(a.conf.Analysis.Model), lf.Count(class.TotalStudents))
	return res, nil
}

func (a *Analyzer) generate(ctx context.Context, prompt string) (*Analysis, error) {
	req := &generateRequest{
		SystemInstruction: &content{Parts: []part{{Text: systemInstruction}}},
		Contents: []content{{
			Role:  "user",
			Parts: []part{{Text: prompt}},
		}},
		GenerationConfig: generationConfig{
			ResponseMimeType: "application/json",
			ResponseSchema:   responseSchema,
		},
	}

	res := &generateResponse{}
	resp, err := a.client.R().
		SetContext(ctx).
		SetBody(req).
		SetResult(res).
		SetError(res).
		SetPathParam("model", a.conf.Analysis.Model).
		Post("/v1beta/models/{model}:generateContent")
	if err != nil {
		return nil, errors.Wrap(err, "Failed to call generateContent")
	}
	if resp.IsError() {
		if res.Error != nil {
			return nil, errors.Errorf("generateContent failed: %s (%s)", res.Error.Message, res.Error.Status)
		}
		return nil, errors.Errorf("generateContent failed: %s", resp.Status())
	}

	text := strings.TrimSpace(res.text())
	if text == "" {
		return nil, errors.New("generateContent returned no text")
	}

	analysis := &Analysis{}
	if err := json.Unmarshal([]byte(text), analysis); err != nil {
		return nil, errors.Wrap(err, "Failed to parse analysis")
	}
	return analysis, nil
}
