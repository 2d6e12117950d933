package migration

import (
	"encoding/json"
	"fmt"

	"github.com/mattsolo1/grove-blockbook/pkg/persistence"
	"github.com/mattsolo1/grove-blockbook/pkg/store"
)

// Analyzer reads editor payloads from exported files. A file holds either a
// payload as the editor stored it or a dump of the browser's local storage,
// an object mapping storage keys to string values.
type Analyzer struct {
	key string
}

func NewAnalyzer(key string) *Analyzer {
	if key == "" {
		key = persistence.DefaultKey
	}
	return &Analyzer{key: key}
}

// Unwrap returns the editor payload contained in data.
func (a *Analyzer) Unwrap(data []byte) ([]byte, error) {
	var dump map[string]json.RawMessage
	if err := json.Unmarshal(data, &dump); err != nil {
		return nil, fmt.Errorf("%w: %v", persistence.ErrCorruptPayload, err)
	}
	raw, ok := dump[a.key]
	if !ok {
		return data, nil
	}

	// Local storage values are strings holding JSON.
	var value string
	if err := json.Unmarshal(raw, &value); err == nil {
		return []byte(value), nil
	}
	return raw, nil
}

// Analyze decodes the payload in data without writing anything.
func (a *Analyzer) Analyze(data []byte) (*store.State, *persistence.Report, error) {
	payload, err := a.Unwrap(data)
	if err != nil {
		return nil, nil, err
	}
	return persistence.Decode(payload)
}
