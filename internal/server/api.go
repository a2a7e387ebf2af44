package server

import (
	"errors"
	"net/http"

	jsoniter "github.com/json-iterator/go"
	"github.com/maxbolgarin/retrospec/internal/model"
	"github.com/maxbolgarin/servex/v2"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const serviceBanner = "retrospec commit history API"

type repoInfoRequest struct {
	GithubURL string `json:"github_url"`
}

type commitHistoryRequest struct {
	GithubURL string `json:"github_url"`
	Limit     int    `json:"limit"`
	Page      int    `json:"page"`
}

type analyzeCommitRequest struct {
	CommitHash  string `json:"commit_hash"`
	RepoPath    string `json:"repo_path"`
	DiffContent string `json:"diff_content"`
}

type analyzeCommitResponse struct {
	CommitHash     string   `json:"commit_hash"`
	Analysis       string   `json:"analysis"`
	RiskLevel      string   `json:"risk_level"`
	SuggestedTests []string `json:"suggested_tests"`
}

type detectRegressionRequest struct {
	RepoPath        string         `json:"repo_path"`
	PerformanceData map[string]any `json:"performance_data"`
}

type detectRegressionResponse struct {
	RegressionDetected bool    `json:"regression_detected"`
	Analysis           string  `json:"analysis"`
	RecommendedAction  string  `json:"recommended_action"`
	Confidence         float64 `json:"confidence"`
}

type generateRepairResponse struct {
	RepairStrategy  string `json:"repair_strategy"`
	EstimatedEffort string `json:"estimated_effort"`
	RiskLevel       string `json:"risk_level"`
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	ctx := servex.NewContext(w, r)
	ctx.Response(http.StatusOK, map[string]string{"message": serviceBanner})
}

func (s *Server) handleRepoInfo(w http.ResponseWriter, r *http.Request) {
	ctx := servex.NewContext(w, r)

	var req repoInfoRequest
	if !s.readRequest(ctx, &req) {
		return
	}

	info, err := s.history.GetRepositoryInfo(r.Context(), req.GithubURL)
	if err != nil {
		s.respondError(ctx, err)
		return
	}

	ctx.Response(http.StatusOK, info)
}

func (s *Server) handleCommitHistory(w http.ResponseWriter, r *http.Request) {
	ctx := servex.NewContext(w, r)

	var req commitHistoryRequest
	if !s.readRequest(ctx, &req) {
		return
	}

	page, err := s.history.GetHistory(r.Context(), req.GithubURL, req.Page, req.Limit)
	if err != nil {
		s.respondError(ctx, err)
		return
	}

	ctx.Response(http.StatusOK, page)
}

func (s *Server) handleAnalyzeCommit(w http.ResponseWriter, r *http.Request) {
	ctx := servex.NewContext(w, r)

	var req analyzeCommitRequest
	if !s.readRequest(ctx, &req) {
		return
	}

	analysis, err := s.agent.AnalyzeCommit(r.Context(), req.CommitHash, req.RepoPath, req.DiffContent)
	if err != nil {
		s.respondError(ctx, err)
		return
	}

	// Attach to the cached record when the commit has been seen; a miss
	// is fine, the analysis is still returned to the caller.
	s.history.Cache().AttachAnalysis(req.CommitHash, analysis)

	ctx.Response(http.StatusOK, analyzeCommitResponse{
		CommitHash:     req.CommitHash,
		Analysis:       analysis,
		RiskLevel:      "medium",
		SuggestedTests: []string{"unit tests", "integration tests"},
	})
}

func (s *Server) handleDetectRegression(w http.ResponseWriter, r *http.Request) {
	ctx := servex.NewContext(w, r)

	var req detectRegressionRequest
	if !s.readRequest(ctx, &req) {
		return
	}

	analysis, err := s.agent.DetectRegression(r.Context(), req.PerformanceData)
	if err != nil {
		s.respondError(ctx, err)
		return
	}

	// Confidence and action are fixed placeholders: the generated text
	// is not parsed for signal.
	ctx.Response(http.StatusOK, detectRegressionResponse{
		RegressionDetected: true,
		Analysis:           analysis,
		RecommendedAction:  "rollback",
		Confidence:         0.85,
	})
}

func (s *Server) handleGenerateRepair(w http.ResponseWriter, r *http.Request) {
	ctx := servex.NewContext(w, r)

	var req map[string]any
	if !s.readRequest(ctx, &req) {
		return
	}

	strategy, err := s.agent.GenerateRepair(r.Context(), req)
	if err != nil {
		s.respondError(ctx, err)
		return
	}

	ctx.Response(http.StatusOK, generateRepairResponse{
		RepairStrategy:  strategy,
		EstimatedEffort: "medium",
		RiskLevel:       "low",
	})
}

// readRequest reads and decodes a JSON request body, reporting false
// after an error response has already been written.
func (s *Server) readRequest(ctx *servex.Context, dst any) bool {
	body, err := ctx.Read()
	if err != nil {
		ctx.BadRequest(err, "failed to read request body")
		return false
	}
	if err := json.Unmarshal(body, dst); err != nil {
		ctx.BadRequest(err, "failed to parse request body")
		return false
	}
	return true
}

// respondError maps the error taxonomy onto HTTP statuses. Every failure
// produces a structured response with a human-readable detail.
func (s *Server) respondError(ctx *servex.Context, err error) {
	var malformed *model.MalformedReferenceError
	var notFound *model.NotFoundError
	var rateLimited *model.RateLimitError
	var upstream *model.UpstreamError

	switch {
	case errors.As(err, &malformed):
		ctx.BadRequest(err, malformed.Error())
	case errors.As(err, &notFound):
		ctx.NotFound(err, notFound.Error())
	case errors.As(err, &rateLimited):
		ctx.TooManyRequests(err, rateLimited.Error())
	case errors.As(err, &upstream):
		ctx.BadGateway(err, upstream.Error())
	default:
		ctx.InternalServerError(err, "request failed")
	}
}
