package requests

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/brettbedarf/memfs/internal/util"
)

// Load reads an op script from path.
// Supports both YAML (.yaml, .yml) and JSON (.json) formats.
func Load(path string) ([]Op, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var dtos []OpDTO

	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &dtos); err != nil {
			return nil, fmt.Errorf("failed to unmarshal script: %w", err)
		}
	case ".json":
		if err := json.Unmarshal(data, &dtos); err != nil {
			return nil, fmt.Errorf("failed to unmarshal script: %w", err)
		}
	default:
		return nil, fmt.Errorf("unknown script file extension: %s", path)
	}

	return Convert(dtos)
}

// UnmarshalJSON parses a JSON array of ops
func UnmarshalJSON(data []byte) ([]Op, error) {
	var dtos []OpDTO
	if err := json.Unmarshal(data, &dtos); err != nil {
		return nil, err
	}
	return Convert(dtos)
}

// Convert validates dtos and applies defaults. The first invalid entry fails
// the whole script.
func Convert(dtos []OpDTO) ([]Op, error) {
	ops := make([]Op, 0, len(dtos))
	for i, dto := range dtos {
		if !dto.Op.valid() {
			return nil, fmt.Errorf("op %d: %w: %q", i, ErrUnknownOp, dto.Op)
		}
		ops = append(ops, convertOpDTO(dto))
	}
	return ops, nil
}

func convertOpDTO(dto OpDTO) Op {
	return Op{
		Type:      dto.Op,
		RequestID: util.ValueOrDefault(dto.RequestID, uuid.New().String()),
		ID:        dto.ID,
		Parent:    dto.Parent,
		Path:      dto.Path,
		Name:      util.ValueOrDefault(dto.Name, ""),
		Content:   dto.Content,
	}
}
