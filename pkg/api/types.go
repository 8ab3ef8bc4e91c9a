package api

import (
	"context"

	"github.com/segmentio/ksuid"

	"github.com/hultner-technologies/recordkit/pkg/codec"
	"github.com/hultner-technologies/recordkit/pkg/record"
	"github.com/hultner-technologies/recordkit/pkg/store"
)

// APIResponse represents a standard API response
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// ServerConfig holds configuration for the API server
type ServerConfig struct {
	Addr   string
	APIKey string // empty disables authentication
}

// FieldInfo describes one field of a shape
type FieldInfo struct {
	Name       string `json:"name"`
	Kind       string `json:"kind"`
	Required   bool   `json:"required"`
	HasDefault bool   `json:"has_default"`
	Shape      string `json:"shape,omitempty"`
}

// ShapeInfo describes a registered shape
type ShapeInfo struct {
	Name   string      `json:"name"`
	Fields []FieldInfo `json:"fields"`
}

// RecordResponse is a stored record in canonical form
type RecordResponse struct {
	ID     string     `json:"id"`
	Shape  string     `json:"shape"`
	Record codec.Tree `json:"record"`
}

// Shapes looks up shapes by name
type Shapes interface {
	Get(name string) (*record.Shape, bool)
	Names() []string
}

// Records persists records
type Records interface {
	Save(ctx context.Context, inst record.Instance) (ksuid.KSUID, error)
	Load(ctx context.Context, shape *record.Shape, id ksuid.KSUID) (*record.Frozen, error)
	Delete(ctx context.Context, shape string, id ksuid.KSUID) error
	List(ctx context.Context, shape *record.Shape) ([]store.Entry, error)
}

func describeShape(s *record.Shape) ShapeInfo {
	info := ShapeInfo{Name: s.Name(), Fields: make([]FieldInfo, 0, s.Len())}
	for _, f := range s.Fields() {
		fi := FieldInfo{
			Name:       f.Name,
			Kind:       f.Kind.String(),
			Required:   f.Required,
			HasDefault: f.HasDefault(),
		}
		if f.Shape != nil {
			fi.Shape = f.Shape.Name()
		}
		info.Fields = append(info.Fields, fi)
	}
	return info
}

func recordResponse(id ksuid.KSUID, f *record.Frozen) RecordResponse {
	return RecordResponse{
		ID:     id.String(),
		Shape:  f.Shape().Name(),
		Record: codec.Encode(f),
	}
}
