// Package service exposes the compile-and-correlate pipeline over HTTP.
// Requests are independent passes: each builds its own tables from scratch
// and shares nothing mutable with any other request.
package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/vmihailenco/msgpack/v5"
	"golang.org/x/sync/errgroup"

	"tracelift/internal/pipeline"
	"tracelift/internal/toolchain"
	"tracelift/internal/tracemap"
)

// Server handles compile and locate requests against a configured front end.
type Server struct {
	cfg      Config
	frontend toolchain.Frontend
}

// New creates a server.
func New(cfg Config, frontend toolchain.Frontend) *Server {
	return &Server{
		cfg:      cfg,
		frontend: frontend,
	}
}

// CompileRequest is the body of POST /compile and POST /locate.
type CompileRequest struct {
	Code     string `json:"code" msgpack:"code"`
	FileName string `json:"file_name" msgpack:"file_name"`
	PC       *int64 `json:"pc,omitempty" msgpack:"pc,omitempty"`
}

// CompileResponse carries everything one pass produced, tables in wire
// order (arrays of pairs, never maps).
type CompileResponse struct {
	Contract         string                           `json:"contract" msgpack:"contract"`
	IRText           string                           `json:"ir_text" msgpack:"ir_text"`
	FlatText         string                           `json:"flat_text" msgpack:"flat_text"`
	SourceTable      []tracemap.SourceTableEntry      `json:"source_table" msgpack:"source_table"`
	InstructionTable []tracemap.InstructionTableEntry `json:"instruction_table" msgpack:"instruction_table"`
	Words            []tracemap.EncodedWord           `json:"words" msgpack:"words"`
}

// LocateResponse is the outcome of a /locate query.
type LocateResponse struct {
	PC     int64                 `json:"pc" msgpack:"pc"`
	Result tracemap.LocateResult `json:"result" msgpack:"result"`
}

// Handler returns the routed HTTP handler with CORS applied.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /compile", s.handleCompile)
	mux.HandleFunc("POST /locate", s.handleLocate)
	return s.cors(mux)
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Listen,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

func (s *Server) handleCompile(w http.ResponseWriter, r *http.Request) {
	req, ok := s.decodeRequest(w, r)
	if !ok {
		return
	}
	result, err := s.runPass(r.Context(), req)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	s.respond(w, r, CompileResponse{
		Contract:         result.ContractSource,
		IRText:           result.IRText,
		FlatText:         result.FlatText,
		SourceTable:      result.Source.Entries(),
		InstructionTable: result.Instructions.Entries(),
		Words:            result.Words,
	})
}

func (s *Server) handleLocate(w http.ResponseWriter, r *http.Request) {
	req, ok := s.decodeRequest(w, r)
	if !ok {
		return
	}
	if req.PC == nil {
		http.Error(w, "missing pc", http.StatusBadRequest)
		return
	}
	result, err := s.runPass(r.Context(), req)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	s.respond(w, r, LocateResponse{
		PC:     *req.PC,
		Result: result.Correlator().Locate(*req.PC),
	})
}

func (s *Server) runPass(ctx context.Context, req CompileRequest) (*pipeline.Result, error) {
	return pipeline.Run(ctx, &pipeline.Request{
		FileName: req.FileName,
		Code:     req.Code,
		Frontend: s.frontend,
		Config:   s.cfg.FlatConfig(),
	})
}

func (s *Server) decodeRequest(w http.ResponseWriter, r *http.Request) (CompileRequest, bool) {
	var req CompileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, fmt.Sprintf("bad request: %v", err), http.StatusBadRequest)
		return CompileRequest{}, false
	}
	if req.FileName == "" {
		req.FileName = "input"
	}
	return req, true
}

// respond writes the payload as msgpack when the client asks for it via
// Accept, JSON otherwise.
func (s *Server) respond(w http.ResponseWriter, r *http.Request, payload any) {
	if wantsMsgpack(r) {
		w.Header().Set("Content-Type", "application/x-msgpack")
		if err := msgpack.NewEncoder(w).Encode(payload); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
		return
	}
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func wantsMsgpack(r *http.Request) bool {
	accept := r.Header.Get("Accept")
	return strings.Contains(accept, "application/x-msgpack") ||
		strings.Contains(accept, "application/msgpack")
}

// cors mirrors the upstream service's CORS posture: explicit allowed
// origins, POST only, preflight answered inline.
func (s *Server) cors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if origin != "" && s.originAllowed(origin) {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST")
			w.Header().Set("Access-Control-Allow-Headers", "Authorization, Accept, Content-Type")
			w.Header().Set("Access-Control-Max-Age", "3600")
		}
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) originAllowed(origin string) bool {
	for _, allowed := range s.cfg.AllowedOrigins {
		if allowed == "*" || allowed == origin {
			return true
		}
	}
	return false
}
