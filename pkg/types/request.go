package types

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// IngestRequest is the caller-facing shape of an ingestion call. Chunk
// parameters are optional overrides; zero values mean "use the configured
// defaults". They are resolved once at call time and threaded through the
// pipeline explicitly.
type IngestRequest struct {
	Source       string     `json:"source" validate:"required"`
	SourceType   SourceType `json:"source_type" validate:"required,oneof=file directory url"`
	ChunkSize    int        `json:"chunk_size" validate:"omitempty,gt=0"`
	ChunkOverlap int        `json:"chunk_overlap" validate:"omitempty,gte=0"`
	Recursive    bool       `json:"recursive"`
}

// Validate checks the request against its struct tags.
func (r *IngestRequest) Validate() error {
	err := validate.Struct(r)
	if err == nil {
		return nil
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}
	fields := make([]string, 0, len(verrs))
	for _, e := range verrs {
		fields = append(fields, fmt.Sprintf("%s failed on '%s'", e.Field(), e.Tag()))
	}
	return fmt.Errorf("invalid ingest request: %s", strings.Join(fields, "; "))
}

// IngestResponse summarizes one ingestion call.
type IngestResponse struct {
	DocumentsProcessed int      `json:"documents_processed"`
	DocumentsAdded     int      `json:"documents_added"`
	ChunksEmitted      int      `json:"chunks_emitted"`
	ChunksSkipped      int      `json:"chunks_skipped"`
	Failures           []string `json:"failures,omitempty"`
}
