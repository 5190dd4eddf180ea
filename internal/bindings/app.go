package bindings

import (
	"context"
	"errors"
	"fmt"
	"unicode/utf8"

	"github.com/MJE43/session-secret-go/internal/charset"
	"github.com/MJE43/session-secret-go/internal/engine"
	"github.com/MJE43/session-secret-go/internal/secret"
	"github.com/MJE43/session-secret-go/internal/store"
	"github.com/MJE43/session-secret-go/internal/version"
)

// Bounds for the randomized settings chosen by TrustMe.
const (
	TrustMinLength = 10
	TrustMaxLength = 20
)

// ErrNoStore is returned by run queries when no store is attached.
var ErrNoStore = errors.New("bindings: no run store attached")

type GenerateRequest struct {
	Length    int      `json:"length"`
	Count     int      `json:"count"`
	Classes   []string `json:"classes"`
	Encode    bool     `json:"encode"`
	Source    string   `json:"-"`
	RequestID string   `json:"-"`
}

type GenerateResult struct {
	RunID         string   `json:"run_id,omitempty"`
	Secrets       []string `json:"secrets"`
	Length        int      `json:"length"`
	Count         int      `json:"count"`
	Classes       []string `json:"classes"`
	Encoded       bool     `json:"encoded"`
	EngineVersion string   `json:"engine_version"`
}

type ClassInfo struct {
	ID      string `json:"id"`
	Label   string `json:"label"`
	Symbols string `json:"symbols"`
	Size    int    `json:"size"`
}

// GenerateSecrets parses the class names in req, generates the secrets and
// records the request settings in the run store when one is attached.
func (a *App) GenerateSecrets(ctx context.Context, req GenerateRequest) (GenerateResult, error) {
	if err := ctx.Err(); err != nil {
		return GenerateResult{}, err
	}

	classes, err := charset.ParseClasses(req.Classes)
	if err != nil {
		return GenerateResult{}, err
	}
	cfg := secret.Config{
		Length:  req.Length,
		Count:   req.Count,
		Classes: classes,
		Encode:  req.Encode,
	}
	pools, err := cfg.Validate()
	if err != nil {
		return GenerateResult{}, err
	}

	secrets, err := secret.GenerateAll(cfg, a.src)
	if err != nil {
		return GenerateResult{}, err
	}

	ids := make([]string, len(pools.IDs))
	for i, id := range pools.IDs {
		ids[i] = string(id)
	}

	res := GenerateResult{
		Secrets:       secrets,
		Length:        cfg.Length,
		Count:         cfg.Count,
		Classes:       ids,
		Encoded:       cfg.Encode,
		EngineVersion: version.EngineVersion,
	}

	if a.db != nil {
		source := req.Source
		if source == "" {
			source = store.SourceCLI
		}
		run := &store.Run{
			Source:        source,
			Length:        cfg.Length,
			Count:         cfg.Count,
			Classes:       ids,
			Encoded:       cfg.Encode,
			RequestID:     req.RequestID,
			EngineVersion: version.EngineVersion,
		}
		if err := a.db.SaveRun(run); err != nil {
			return GenerateResult{}, err
		}
		res.RunID = run.ID
	}

	a.log.Info("generate_completed",
		"run_id", res.RunID,
		"source", req.Source,
		"length", res.Length,
		"count", res.Count,
		"classes", ids,
		"encoded", res.Encoded,
	)
	return res, nil
}

// TrustMe picks a length in [TrustMinLength, TrustMaxLength] and a non-empty
// random subset of the classes, then generates count secrets with them.
func (a *App) TrustMe(ctx context.Context, count int, encode bool) (GenerateResult, error) {
	length, classes, err := trustSettings(a.src)
	if err != nil {
		return GenerateResult{}, err
	}
	return a.GenerateSecrets(ctx, GenerateRequest{
		Length:  length,
		Count:   count,
		Classes: classes,
		Encode:  encode,
		Source:  store.SourceTrust,
	})
}

func trustSettings(src *engine.Source) (int, []string, error) {
	n, err := src.Intn(TrustMaxLength - TrustMinLength + 1)
	if err != nil {
		return 0, nil, fmt.Errorf("trust settings: %w", err)
	}
	length := TrustMinLength + n

	ids := charset.IDs()
	for {
		var picked []string
		for _, id := range ids {
			coin, err := src.Intn(2)
			if err != nil {
				return 0, nil, fmt.Errorf("trust settings: %w", err)
			}
			if coin == 1 {
				picked = append(picked, string(id))
			}
		}
		if len(picked) > 0 {
			return length, picked, nil
		}
	}
}

func (a *App) ListClasses() []ClassInfo {
	defs := charset.All()
	out := make([]ClassInfo, len(defs))
	for i, d := range defs {
		out[i] = ClassInfo{
			ID:      string(d.ID),
			Label:   d.Label,
			Symbols: d.Symbols,
			Size:    utf8.RuneCountInString(d.Symbols),
		}
	}
	return out
}

func (a *App) ListRuns(ctx context.Context, query store.RunsQuery) (*store.RunsList, error) {
	if a.db == nil {
		return nil, ErrNoStore
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return a.db.ListRuns(query)
}

func (a *App) GetRun(ctx context.Context, id string) (*store.Run, error) {
	if a.db == nil {
		return nil, ErrNoStore
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return a.db.GetRun(id)
}
