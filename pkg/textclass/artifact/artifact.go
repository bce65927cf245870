package artifact

import (
	"context"
	"crypto/rand"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/cognicore/textclass/pkg/textclass/classify"
	"github.com/cognicore/textclass/pkg/textclass/internalerr"
	"github.com/cognicore/textclass/pkg/textclass/vectorize"
)

// Envelope formats and the version this package writes.
const (
	FormatVectorizer = "textclass/vectorizer"
	FormatModel      = "textclass/model"
	Version          = 1
)

// Store persists a vocabulary/model pair as one unit.
type Store interface {
	Save(ctx context.Context, b Bundle) error
	Load(ctx context.Context) (Bundle, error)
	Close() error
}

// Preprocess records how text was prepared before vectorizing, so inference
// repeats it exactly.
type Preprocess struct {
	Normalize bool     `json:"normalize"`
	Stopwords []string `json:"stopwords,omitempty"`
}

// TrainingInfo describes the run that produced a pair.
type TrainingInfo struct {
	Classifier string         `json:"classifier"`
	Accuracy   float64        `json:"accuracy"`
	TrainSize  int            `json:"train_size"`
	TestSize   int            `json:"test_size"`
	Stratified bool           `json:"stratified"`
	Seed       int64          `json:"seed"`
	Labels     map[string]int `json:"labels,omitempty"`
}

// Bundle is a matched vocabulary/model pair. A model is meaningless without
// the exact vocabulary that produced its feature space.
type Bundle struct {
	ID         string
	CreatedAt  time.Time
	Vocabulary *vectorize.Vocabulary
	Model      classify.Model
	Preprocess Preprocess
	Training   TrainingInfo
}

var (
	entropyMu sync.Mutex
	entropy   = ulid.Monotonic(rand.Reader, 0)
)

// NewID returns a fresh, time-ordered pair id.
func NewID() string {
	entropyMu.Lock()
	defer entropyMu.Unlock()
	return ulid.MustNew(ulid.Now(), entropy).String()
}

// Stamp fills ID and CreatedAt when they are unset.
func (b *Bundle) Stamp() {
	if b.ID == "" {
		b.ID = NewID()
	}
	if b.CreatedAt.IsZero() {
		b.CreatedAt = time.Now().UTC()
	}
}

// Validate checks that the pair is complete and consistent.
func (b Bundle) Validate() error {
	if b.Vocabulary == nil || b.Model == nil {
		return fmt.Errorf("%w: bundle needs both vocabulary and model", internalerr.ErrInvalidInput)
	}
	if b.Vocabulary.Len() != b.Model.Features() {
		return fmt.Errorf("%w: vocabulary has %d terms, model expects %d features",
			internalerr.ErrInvalidInput, b.Vocabulary.Len(), b.Model.Features())
	}
	return nil
}

type envelope struct {
	Format    string          `json:"format"`
	Version   int             `json:"version"`
	PairID    string          `json:"pair_id"`
	CreatedAt time.Time       `json:"created_at"`
	Payload   json.RawMessage `json:"payload"`
}

type vectorizerPayload struct {
	Vocabulary *vectorize.Vocabulary `json:"vocabulary"`
	Preprocess Preprocess            `json:"preprocess"`
}

type modelPayload struct {
	Model    json.RawMessage `json:"model"`
	Training TrainingInfo    `json:"training"`
}

// encode renders the two envelopes of a stamped bundle.
func encode(b Bundle) (vec, model []byte, err error) {
	if err := b.Validate(); err != nil {
		return nil, nil, err
	}
	vp, err := json.Marshal(vectorizerPayload{Vocabulary: b.Vocabulary, Preprocess: b.Preprocess})
	if err != nil {
		return nil, nil, err
	}
	m, err := classify.Marshal(b.Model)
	if err != nil {
		return nil, nil, err
	}
	mp, err := json.Marshal(modelPayload{Model: m, Training: b.Training})
	if err != nil {
		return nil, nil, err
	}

	vec, err = json.Marshal(envelope{Format: FormatVectorizer, Version: Version, PairID: b.ID, CreatedAt: b.CreatedAt, Payload: vp})
	if err != nil {
		return nil, nil, err
	}
	model, err = json.Marshal(envelope{Format: FormatModel, Version: Version, PairID: b.ID, CreatedAt: b.CreatedAt, Payload: mp})
	if err != nil {
		return nil, nil, err
	}
	return vec, model, nil
}

// decode rebuilds a bundle from its two envelopes. Any defect, including a
// pair id mismatch between the two halves, is ErrCorruptArtifact.
func decode(vec, model []byte) (Bundle, error) {
	ve, err := openEnvelope(vec, FormatVectorizer)
	if err != nil {
		return Bundle{}, err
	}
	me, err := openEnvelope(model, FormatModel)
	if err != nil {
		return Bundle{}, err
	}
	if ve.PairID != me.PairID {
		return Bundle{}, corrupt("mismatched pair: vectorizer %s, model %s", ve.PairID, me.PairID)
	}

	var vp vectorizerPayload
	if err := json.Unmarshal(ve.Payload, &vp); err != nil {
		return Bundle{}, corrupt("vectorizer payload: %v", err)
	}
	var mp modelPayload
	if err := json.Unmarshal(me.Payload, &mp); err != nil {
		return Bundle{}, corrupt("model payload: %v", err)
	}
	m, err := classify.Unmarshal(mp.Model)
	if err != nil {
		return Bundle{}, corrupt("model: %v", err)
	}

	b := Bundle{
		ID:         ve.PairID,
		CreatedAt:  ve.CreatedAt,
		Vocabulary: vp.Vocabulary,
		Model:      m,
		Preprocess: vp.Preprocess,
		Training:   mp.Training,
	}
	if err := b.Validate(); err != nil {
		return Bundle{}, corrupt("%v", err)
	}
	return b, nil
}

func openEnvelope(data []byte, format string) (envelope, error) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return envelope{}, corrupt("%s: %v", format, err)
	}
	if env.Format != format {
		return envelope{}, corrupt("expected format %q, got %q", format, env.Format)
	}
	if env.Version != Version {
		return envelope{}, corrupt("%s: unsupported version %d", format, env.Version)
	}
	if env.PairID == "" {
		return envelope{}, corrupt("%s: missing pair id", format)
	}
	return env, nil
}

func corrupt(format string, args ...any) error {
	return fmt.Errorf("%w: %s", internalerr.ErrCorruptArtifact, fmt.Sprintf(format, args...))
}

// Open picks a store for location: a ".db" or ".sqlite" file selects SQLite,
// anything else is a directory holding two JSON files.
func Open(ctx context.Context, location string) (Store, error) {
	if location == "" {
		return nil, fmt.Errorf("%w: artifact location required", internalerr.ErrInvalidConfig)
	}
	lower := strings.ToLower(location)
	if strings.HasSuffix(lower, ".db") || strings.HasSuffix(lower, ".sqlite") {
		return OpenSQLite(ctx, location)
	}
	return NewDir(location), nil
}
