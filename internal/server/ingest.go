package server

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/dmitrymomot/logship/pkg/jsonlog"
	"github.com/dmitrymomot/logship/pkg/logger"
	"github.com/dmitrymomot/logship/pkg/record"
)

// IngestResponse is the body of a successful ingest.
type IngestResponse struct {
	Accepted int `json:"accepted"`
}

// ErrorResponse is the body of a failed request.
type ErrorResponse struct {
	Error     string `json:"error"`
	RequestID string `json:"request_id,omitempty"`
}

// handleIngest decodes the whole body before logging anything, so a malformed line
// rejects the request without partial delivery.
func (s *Server) handleIngest(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	body := http.MaxBytesReader(w, r.Body, s.opts.maxBodyBytes)
	dec := jsonlog.NewDecoder(body, s.opts.decoderOpts...)

	var records []record.Record
	for {
		rec, err := dec.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			s.writeError(w, r, decodeStatus(body, err), err)
			return
		}
		records = append(records, rec)
	}

	for i, rec := range records {
		if err := s.dispatcher.Log(ctx, rec); err != nil {
			if errors.Is(err, logger.ErrClosed) {
				s.writeError(w, r, http.StatusServiceUnavailable, err)
				return
			}
			// The record is buffered; only the flush it triggered failed.
			s.opts.logger.WarnContext(ctx, "flush after ingest failed",
				slog.Int("record", i),
				slog.Any("error", err),
			)
		}
		s.opts.recorder.ObserveIngest(rec)
	}

	writeJSON(w, http.StatusAccepted, IngestResponse{Accepted: len(records)})
}

// decodeStatus maps a decode failure to a status. A line cut at the size limit
// decodes as malformed, so the body is probed for the limit error too.
func decodeStatus(body io.Reader, err error) int {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return http.StatusRequestEntityTooLarge
	}
	if _, rerr := body.Read(make([]byte, 1)); errors.As(rerr, &tooLarge) {
		return http.StatusRequestEntityTooLarge
	}
	return http.StatusBadRequest
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, status int, err error) {
	if status >= http.StatusInternalServerError {
		s.opts.logger.ErrorContext(r.Context(), "request failed", slog.Any("error", err))
	}
	writeJSON(w, status, ErrorResponse{Error: err.Error(), RequestID: GetRequestID(r.Context())})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
