package api

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"go.uber.org/zap"

	"audit-quote/adapters/hclbatch"
	"audit-quote/core/contact"
	"audit-quote/core/determinism"
	"audit-quote/core/output"
	"audit-quote/core/quote"
	"audit-quote/internal/errors"
)

// Contact responses
const (
	msgContactSent     = "Message sent successfully"
	msgContactConfig   = "Server configuration error"
	msgContactRelay    = "Failed to send message to Telegram"
	msgContactLimited  = "Too many requests, please try again later"
	msgContactBadInput = "Invalid request body"
)

// handleEstimate handles POST /estimate
func (s *Server) handleEstimate(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req EstimateRequest
	if err := s.decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, CodeInvalidJSON, err.Error(), http.StatusBadRequest)
		return
	}

	parsed, err := quote.ParseRequest(req.LinesOfCode.String(), req.Complexity, req.Scope)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	res, err := quote.Estimate(parsed)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	s.metrics.add(&s.metrics.estimates, 1)

	meta, err := s.metadata([]quote.Request{parsed}, start)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	s.writeJSON(w, EstimateResponse{
		RequestID: RequestIDFrom(r.Context()),
		Quote:     newQuoteResponse(res),
		Metadata:  meta,
	}, http.StatusOK)
}

// handleBatch handles POST /estimate/batch. Every project must validate
// before any is quoted.
func (s *Server) handleBatch(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req BatchRequest
	if err := s.decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, CodeInvalidJSON, err.Error(), http.StatusBadRequest)
		return
	}

	if len(req.Projects) == 0 {
		s.writeError(w, r, CodeValidationError, "projects must not be empty", http.StatusBadRequest)
		return
	}
	if limit := s.config.MaxBatchSize; limit > 0 && len(req.Projects) > limit {
		s.writeError(w, r, CodeValidationError,
			fmt.Sprintf("batch of %d projects exceeds the limit of %d", len(req.Projects), limit),
			http.StatusBadRequest)
		return
	}

	projects := make([]hclbatch.Project, 0, len(req.Projects))
	requests := make([]quote.Request, 0, len(req.Projects))
	for i, p := range req.Projects {
		parsed, err := quote.ParseRequest(p.LinesOfCode.String(), p.Complexity, p.Scope)
		if err != nil {
			s.writeError(w, r, CodeValidationError,
				fmt.Sprintf("projects[%d]: %s", i, errorMessage(err)), http.StatusBadRequest)
			return
		}
		name := p.Name
		if name == "" {
			name = "project-" + strconv.Itoa(i+1)
		}
		projects = append(projects, hclbatch.Project{Name: name, Request: parsed})
		requests = append(requests, parsed)
	}

	quotes, err := hclbatch.Estimate(r.Context(), projects)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	s.metrics.add(&s.metrics.batchProjects, int64(len(quotes)))

	items := make([]output.Item, len(quotes))
	resp := BatchResponse{
		RequestID: RequestIDFrom(r.Context()),
		Items:     make([]BatchItem, len(quotes)),
	}
	for i, q := range quotes {
		items[i] = output.Item{Name: q.Project.Name, Result: q.Result}
		resp.Items[i] = BatchItem{Name: q.Project.Name, Quote: newQuoteResponse(q.Result)}
	}

	report, err := output.NewReport(items, s.version, "api", s.now())
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	resp.Summary = report.Summary

	if resp.Metadata, err = s.metadata(requests, start); err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	s.writeJSON(w, resp, http.StatusOK)
}

// handleCatalog handles GET /catalog
func (s *Server) handleCatalog(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, CatalogResponse{
		Complexities:       quote.ComplexityOptions(),
		Scopes:             quote.ScopeOptions(),
		Packages:           quote.Packages(),
		ProjectTypes:       contact.ProjectTypes(),
		DefaultLinesOfCode: quote.DefaultLinesOfCode,
		PricePer100LOC:     quote.PricePer100LOC,
	}, http.StatusOK)
}

// handleContact handles POST /contact
func (s *Server) handleContact(w http.ResponseWriter, r *http.Request) {
	if ok, wait := s.limiter.allow(s.proxies.clientIP(r)); !ok {
		s.metrics.add(&s.metrics.contactLimited, 1)
		if wait > 0 {
			w.Header().Set("Retry-After", strconv.Itoa(int(wait.Seconds())+1))
		}
		s.writeJSON(w, ContactResponse{Error: msgContactLimited}, http.StatusTooManyRequests)
		return
	}

	var sub contact.Submission
	if err := s.decodeJSON(w, r, &sub); err != nil {
		s.writeJSON(w, ContactResponse{Error: msgContactBadInput}, http.StatusBadRequest)
		return
	}

	sub = sub.Normalize()
	if err := sub.Validate(); err != nil {
		s.writeJSON(w, ContactResponse{Error: errorMessage(err)}, http.StatusBadRequest)
		return
	}

	if s.notifier == nil {
		s.logger.Error("contact relay not configured")
		s.metrics.add(&s.metrics.contactFailed, 1)
		s.writeJSON(w, ContactResponse{Error: msgContactConfig}, http.StatusInternalServerError)
		return
	}

	if err := s.notifier.SendMessage(r.Context(), sub.Format(s.now())); err != nil {
		s.metrics.add(&s.metrics.contactFailed, 1)
		msg := msgContactRelay
		if errors.IsType(err, errors.TypeConfig) {
			msg = msgContactConfig
		}
		s.logger.Error("contact relay failed",
			zap.Error(err),
			zap.String("request_id", RequestIDFrom(r.Context())),
		)
		s.writeJSON(w, ContactResponse{Error: msg}, http.StatusInternalServerError)
		return
	}

	s.metrics.add(&s.metrics.contactSent, 1)
	s.logger.Info("contact relayed",
		zap.String("request_id", RequestIDFrom(r.Context())),
		zap.String("project_type", string(sub.ProjectType)),
	)
	s.writeJSON(w, ContactResponse{Success: true, Message: msgContactSent}, http.StatusOK)
}

// handleHealth handles GET /health
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, map[string]interface{}{
		"status":  "healthy",
		"version": s.version,
		"time":    s.now().UTC().Format(time.RFC3339),
		"contact": s.notifier != nil,
	}, http.StatusOK)
}

// handleVersion handles GET /version
func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, map[string]string{
		"version":     s.version,
		"service":     "audit-quote",
		"api_version": "v1",
	}, http.StatusOK)
}

// handleMetrics handles GET /metrics
func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; version=0.0.4")
	if err := s.metrics.writeTo(w); err != nil {
		s.logger.Warn("failed to write metrics", zap.Error(err))
	}
}

// writeDomainError maps typed errors onto the error envelope.
func (s *Server) writeDomainError(w http.ResponseWriter, r *http.Request, err error) {
	e, ok := errors.As(err)
	if !ok {
		s.logger.Error("unclassified error", zap.Error(err))
		s.writeError(w, r, CodeInternalError, "internal server error", http.StatusInternalServerError)
		return
	}

	code := string(e.Type)
	status := e.HTTPStatus()
	if e.Type == errors.TypeInput {
		code = CodeValidationError
	}
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", zap.Error(err))
	}
	s.writeError(w, r, code, e.Message, status)
}

func (s *Server) metadata(requests []quote.Request, start time.Time) (*ResponseMetadata, error) {
	hash, err := determinism.HashJSON(requests)
	if err != nil {
		return nil, errors.Internal("failed to hash request", err)
	}
	return &ResponseMetadata{
		InputHash:  hash.Hex(),
		Version:    s.version,
		Timestamp:  s.now().UTC().Format(time.RFC3339),
		DurationMs: time.Since(start).Milliseconds(),
	}, nil
}

func errorMessage(err error) string {
	if e, ok := errors.As(err); ok {
		return e.Message
	}
	return err.Error()
}

func displayPrice(total int64) string {
	return determinism.USDWhole(total).Display()
}
