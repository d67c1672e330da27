package aggregate

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanonicalizeOrderInvariant(t *testing.T) {
	a := []string{"A!10", "T!5", "A!10", "C!2"}
	b := []string{"C!2", "T!5", "A!10"}
	assert.Equal(t, Canonicalize(a), Canonicalize(b))
}

func TestFormatIDWidth(t *testing.T) {
	id := FormatID("AL", 42)
	assert.Equal(t, "AL00000000042", id)
	assert.Len(t, id, len("AL")+11)

	id = FormatID("AL", -42)
	assert.Equal(t, "AL10000000042", id)
}

func TestIdentityOfEmptySet(t *testing.T) {
	assert.Equal(t, "AL_REFERENCE", IdentityOf(nil, "AL", "AL_REFERENCE"))
}

func TestIdentityOfDeterministic(t *testing.T) {
	descriptors := []string{"G!101", "A!55", "TT!200"}
	shuffled := append([]string(nil), descriptors...)
	first := IdentityOf(descriptors, "AL", "AL_REFERENCE")
	for i := 0; i < 20; i++ {
		rand.Shuffle(len(shuffled), func(a, b int) { shuffled[a], shuffled[b] = shuffled[b], shuffled[a] })
		assert.Equal(t, first, IdentityOf(shuffled, "AL", "AL_REFERENCE"))
	}
}

func TestJavaHashCodeKnownValues(t *testing.T) {
	// Reference values for java.lang.String.hashCode().
	assert.Equal(t, int32(0), javaHashCode(""))
	assert.Equal(t, int32(96354), javaHashCode("abc"))
	assert.Equal(t, int32(69609650), javaHashCode("Hello"))
}
