package builder

import (
	"strconv"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/roach88/woql/internal/queryir"
)

// VariableGenerator produces the unique suffix of a fresh variable.
// Suffixes must consist of letters, digits and underscores.
type VariableGenerator interface {
	Generate() string
}

// UUIDGenerator produces time-ordered UUIDv7 suffixes with the hyphens
// removed. It is stateless and safe for concurrent use.
type UUIDGenerator struct{}

// Generate returns 32 lowercase hex digits.
func (UUIDGenerator) Generate() string {
	return strings.ReplaceAll(uuid.Must(uuid.NewV7()).String(), "-", "")
}

// SequenceGenerator produces "1", "2", "3", ... for deterministic tests.
// It is safe for concurrent use.
type SequenceGenerator struct {
	mu   sync.Mutex
	next int
}

// NewSequenceGenerator returns a generator whose first suffix is "1".
func NewSequenceGenerator() *SequenceGenerator {
	return &SequenceGenerator{}
}

func (g *SequenceGenerator) Generate() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.next++
	return strconv.Itoa(g.next)
}

// Fresh mints a variable named prefix_<uuid> that no other call returns.
func Fresh(prefix string) queryir.Variable {
	return FreshFrom(UUIDGenerator{}, prefix)
}

// FreshFrom mints a variable using gen. A prefix that is not a valid
// variable name is replaced by "V".
func FreshFrom(gen VariableGenerator, prefix string) queryir.Variable {
	prefix = queryir.Var(prefix).Name()
	if !queryir.ValidVariableName(prefix) {
		prefix = "V"
	}
	return queryir.Variable(prefix + "_" + gen.Generate())
}
