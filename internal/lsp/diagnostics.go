package lsp

import (
	"context"
	"path/filepath"
	"sort"
	"strings"
	"sync/atomic"
	"time"

	"ocalint/internal/config"
	"ocalint/internal/diag"
)

type analysisJob struct {
	uri        string
	path       string
	text       string
	version    int
	generation int64
}

func (s *Server) scheduleDiagnostics() {
	s.mu.Lock()
	seq := atomic.AddUint64(&s.analysisSeq, 1)
	atomic.StoreUint64(&s.latestSeq, seq)
	if s.diagCancel != nil {
		s.diagCancel()
	}
	if s.debounceTimer != nil {
		s.debounceTimer.Stop()
	}
	s.debounceTimer = time.AfterFunc(s.debounce, func() {
		s.runDiagnostics(seq)
	})
	s.mu.Unlock()
}

// runDiagnostics analyzes every dirty document and publishes the result.
// Documents edited while their analysis ran stay dirty for the next pass.
func (s *Server) runDiagnostics(seq uint64) {
	if !s.isLatestSeq(seq) {
		return
	}
	s.mu.Lock()
	if s.diagCancel != nil {
		s.diagCancel()
	}
	ctx, cancel := context.WithCancel(s.baseCtx)
	s.diagCancel = cancel
	cfg := s.cfg
	trace := s.traceLSP
	jobs := make([]analysisJob, 0, len(s.dirty))
	for uri := range s.dirty {
		doc := s.docs[uri]
		if doc == nil {
			delete(s.dirty, uri)
			continue
		}
		jobs = append(jobs, analysisJob{
			uri:        uri,
			path:       uriToPath(uri),
			text:       doc.text,
			version:    doc.version,
			generation: doc.generation,
		})
	}
	s.mu.Unlock()
	defer cancel()

	sort.Slice(jobs, func(i, j int) bool { return jobs[i].uri < jobs[j].uri })
	for _, job := range jobs {
		if ctx.Err() != nil || !s.isLatestSeq(seq) {
			return
		}
		start := time.Now()
		var list []lspDiagnostic
		if shouldAnalyze(cfg, job.path) {
			ds := s.analyze(ctx, cfg, job.path, []byte(job.text))
			list = toLSPDiagnostics(ds, job.text)
		}
		if ctx.Err() != nil {
			return
		}

		s.mu.Lock()
		doc := s.docs[job.uri]
		if doc == nil || doc.generation != job.generation {
			s.mu.Unlock()
			continue
		}
		delete(s.dirty, job.uri)
		if len(list) > 0 {
			s.published[job.uri] = struct{}{}
		} else {
			delete(s.published, job.uri)
		}
		s.mu.Unlock()

		version := job.version
		if err := s.sendPublish(job.uri, &version, list); err != nil {
			s.logf("failed to publish diagnostics: %v", err)
		}
		if trace {
			s.logf("publish: uri=%s version=%d diagnostics=%d elapsed=%s", job.uri, job.version, len(list), time.Since(start))
		}
	}
}

// shouldAnalyze skips non-Python documents and paths matched by the
// configured exclusions.
func shouldAnalyze(cfg *config.Config, path string) bool {
	if path == "" || !strings.HasSuffix(path, ".py") {
		return false
	}
	return !cfg.IsExcluded(path)
}

func toLSPDiagnostics(ds []diag.Diagnostic, text string) []lspDiagnostic {
	if len(ds) == 0 {
		return nil
	}
	sorted := append([]diag.Diagnostic(nil), ds...)
	diag.SortDiagnostics(sorted)
	idx := newLineIndex(text)
	out := make([]lspDiagnostic, 0, len(sorted))
	for _, d := range sorted {
		start := idx.position(text, d.Line, d.Column)
		end := start
		if d.HasEnd() {
			endLine := d.EndLine
			if endLine == 0 {
				endLine = d.Line
			}
			end = idx.position(text, endLine, d.EndColumn)
		}
		out = append(out, lspDiagnostic{
			Range:    lspRange{Start: start, End: end},
			Severity: lspSeverity(d.Severity),
			Code:     d.Code.ID(),
			Source:   "ocalint",
			Message:  d.Message,
		})
	}
	return out
}

func lspSeverity(sev diag.Severity) int {
	switch sev {
	case diag.SevError:
		return 1
	case diag.SevWarning:
		return 2
	case diag.SevConvention, diag.SevRefactor:
		return 3
	default:
		return 4
	}
}

func (s *Server) clearPublishedDiagnostics() {
	s.mu.Lock()
	if len(s.published) == 0 {
		s.mu.Unlock()
		return
	}
	prev := s.published
	s.published = make(map[string]struct{})
	s.mu.Unlock()

	uris := make([]string, 0, len(prev))
	for uri := range prev {
		uris = append(uris, uri)
	}
	sort.Strings(uris)
	for _, uri := range uris {
		if err := s.sendPublish(uri, nil, nil); err != nil {
			s.logf("failed to clear diagnostics: %v", err)
		}
	}
}

func (s *Server) markAllDirty() {
	s.mu.Lock()
	for uri := range s.docs {
		s.dirty[uri] = struct{}{}
	}
	s.mu.Unlock()
}

func isConfigURI(uri string) bool {
	base := filepath.Base(uriToPath(uri))
	for _, name := range config.Candidates {
		if base == name {
			return true
		}
	}
	return false
}
