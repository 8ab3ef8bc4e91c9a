package api

import (
	"errors"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"sort"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/segmentio/ksuid"

	"github.com/hultner-technologies/recordkit/pkg/codec"
	"github.com/hultner-technologies/recordkit/pkg/query"
	"github.com/hultner-technologies/recordkit/pkg/record"
	"github.com/hultner-technologies/recordkit/pkg/store"
)

// maxBodySize bounds POST bodies
const maxBodySize = 1 << 20

// Server holds the API server state
type Server struct {
	shapes  Shapes
	records Records
	config  ServerConfig
	metrics *Metrics
	logger  *slog.Logger
}

// NewServer creates a new API server. A nil logger uses slog.Default.
func NewServer(shapes Shapes, records Records, config ServerConfig, metrics *Metrics, logger *slog.Logger) *Server {
	if metrics == nil {
		metrics = NewMetrics()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		shapes:  shapes,
		records: records,
		config:  config,
		metrics: metrics,
		logger:  logger,
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	sendSuccess(w, map[string]string{"status": "healthy"})
}

func (s *Server) handleListShapes(w http.ResponseWriter, r *http.Request) {
	names := s.shapes.Names()
	sort.Strings(names)

	infos := make([]ShapeInfo, 0, len(names))
	for _, name := range names {
		if shape, ok := s.shapes.Get(name); ok {
			infos = append(infos, describeShape(shape))
		}
	}
	sendSuccess(w, infos)
}

func (s *Server) handleGetShape(w http.ResponseWriter, r *http.Request) {
	shape, ok := s.lookupShape(w, r)
	if !ok {
		return
	}
	sendSuccess(w, describeShape(shape))
}

func (s *Server) handleCreateRecord(w http.ResponseWriter, r *http.Request) {
	shape, ok := s.lookupShape(w, r)
	if !ok {
		return
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodySize))
	if err != nil {
		sendError(w, "Failed to read request body", http.StatusBadRequest)
		return
	}

	c := codec.NewRecordCodec(codec.WithFormat(requestFormat(r)))
	f, err := c.DeserializeFrozen(body, shape)
	if err != nil {
		s.sendRecordError(w, shape.Name(), err)
		return
	}

	start := time.Now()
	id, err := s.records.Save(r.Context(), f)
	s.metrics.RecordStoreOperation("save", err == nil, time.Since(start))
	if err != nil {
		s.sendStoreError(w, "save", err)
		return
	}

	sendStatus(w, recordResponse(id, f), http.StatusCreated)
}

func (s *Server) handleGetRecord(w http.ResponseWriter, r *http.Request) {
	shape, ok := s.lookupShape(w, r)
	if !ok {
		return
	}
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	start := time.Now()
	f, err := s.records.Load(r.Context(), shape, id)
	s.metrics.RecordStoreOperation("load", err == nil, time.Since(start))
	if err != nil {
		s.sendStoreError(w, "load", err)
		return
	}

	// raw record text for clients asking for YAML
	if wantsYAML(r) {
		data, err := codec.NewRecordCodec(codec.WithFormat(codec.YAML)).Serialize(f)
		if err != nil {
			s.sendStoreError(w, "serialize", err)
			return
		}
		w.Header().Set("Content-Type", codec.YAML.ContentType())
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(data)
		return
	}

	sendSuccess(w, recordResponse(id, f))
}

func (s *Server) handleListRecords(w http.ResponseWriter, r *http.Request) {
	shape, ok := s.lookupShape(w, r)
	if !ok {
		return
	}

	filter, err := query.Compile(shape, r.URL.Query()["where"]...)
	if err != nil {
		sendError(w, err.Error(), http.StatusBadRequest)
		return
	}

	start := time.Now()
	entries, err := s.records.List(r.Context(), shape)
	s.metrics.RecordStoreOperation("list", err == nil, time.Since(start))
	if err != nil {
		s.sendStoreError(w, "list", err)
		return
	}

	out := make([]RecordResponse, 0, len(entries))
	for _, e := range entries {
		if !filter.Match(e.Record) {
			continue
		}
		out = append(out, recordResponse(e.ID, e.Record))
	}
	sendSuccess(w, out)
}

func (s *Server) handleDeleteRecord(w http.ResponseWriter, r *http.Request) {
	shape, ok := s.lookupShape(w, r)
	if !ok {
		return
	}
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	start := time.Now()
	err := s.records.Delete(r.Context(), shape.Name(), id)
	s.metrics.RecordStoreOperation("delete", err == nil, time.Since(start))
	if err != nil {
		s.sendStoreError(w, "delete", err)
		return
	}

	sendSuccess(w, map[string]string{"message": "Record deleted successfully"})
}

func (s *Server) lookupShape(w http.ResponseWriter, r *http.Request) (*record.Shape, bool) {
	name := chi.URLParam(r, "shape")
	shape, ok := s.shapes.Get(name)
	if !ok {
		sendError(w, "Unknown shape: "+name, http.StatusNotFound)
		return nil, false
	}
	return shape, true
}

func parseID(w http.ResponseWriter, r *http.Request) (ksuid.KSUID, bool) {
	id, err := ksuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		sendError(w, "Invalid record id", http.StatusBadRequest)
		return ksuid.Nil, false
	}
	return id, true
}

// sendRecordError maps parse and construction errors to 400 and 422
func (s *Server) sendRecordError(w http.ResponseWriter, shape string, err error) {
	status, reason := classify(err)
	if status == http.StatusInternalServerError {
		s.logger.Error("decode record", "shape", shape, "error", err)
		sendError(w, "Failed to decode record", status)
		return
	}
	s.metrics.RecordRejection(shape, reason)
	sendError(w, err.Error(), status)
}

func (s *Server) sendStoreError(w http.ResponseWriter, op string, err error) {
	if errors.Is(err, store.ErrNotFound) {
		sendError(w, "Record not found", http.StatusNotFound)
		return
	}
	status, _ := classify(err)
	if status != http.StatusInternalServerError {
		// stored payload no longer fits its shape
		sendError(w, err.Error(), status)
		return
	}
	s.logger.Error("record store", "op", op, "error", err)
	sendError(w, "Record store failure", http.StatusInternalServerError)
}

func classify(err error) (int, string) {
	var (
		parseErr    *codec.ParseError
		missingErr  *record.MissingFieldError
		unknownErr  *record.UnknownFieldError
		mismatchErr *record.TypeMismatchError
		formatErr   *record.FormatError
	)
	switch {
	case errors.As(err, &parseErr):
		return http.StatusBadRequest, "parse"
	case errors.As(err, &missingErr):
		return http.StatusUnprocessableEntity, "missing"
	case errors.As(err, &unknownErr):
		return http.StatusUnprocessableEntity, "unknown"
	case errors.As(err, &mismatchErr):
		return http.StatusUnprocessableEntity, "type"
	case errors.As(err, &formatErr):
		return http.StatusUnprocessableEntity, "format"
	}
	return http.StatusInternalServerError, "internal"
}

func requestFormat(r *http.Request) codec.Format {
	mt, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err == nil && isYAMLType(mt) {
		return codec.YAML
	}
	return codec.JSON
}

func wantsYAML(r *http.Request) bool {
	mt, _, err := mime.ParseMediaType(r.Header.Get("Accept"))
	return err == nil && isYAMLType(mt)
}

func isYAMLType(mt string) bool {
	switch mt {
	case "application/yaml", "application/x-yaml", "text/yaml", "text/x-yaml":
		return true
	}
	return false
}
