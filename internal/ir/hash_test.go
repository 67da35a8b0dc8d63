package ir

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInterfaceChecksumDeterminism(t *testing.T) {
	sum1, err := InterfaceChecksum(sampleInterface())
	require.NoError(t, err)

	sum2, err := InterfaceChecksum(sampleInterface())
	require.NoError(t, err)

	assert.Equal(t, sum1, sum2, "InterfaceChecksum must be deterministic")
	assert.Len(t, sum1, 64, "SHA-256 hex is 64 characters")
}

func TestInterfaceChecksumChangesWithModel(t *testing.T) {
	base := MustInterfaceChecksum(sampleInterface())

	renamed := sampleInterface()
	renamed.Namespace = "other"

	reordered := sampleInterface()
	reordered.Enums[0].Variants = []string{"B", "A", "C"}

	retyped := sampleInterface()
	retyped.Records[0].Fields[1].Type = Float{}

	assert.NotEqual(t, base, MustInterfaceChecksum(renamed))
	assert.NotEqual(t, base, MustInterfaceChecksum(reordered), "variant order fixes ordinals")
	assert.NotEqual(t, base, MustInterfaceChecksum(retyped))
}

func TestOutputChecksumDomainSeparated(t *testing.T) {
	data := []byte("print('hi')\n")
	assert.Equal(t, OutputChecksum(data), OutputChecksum(data))
	assert.NotEqual(t, hashWithDomain(DomainInterface, data), OutputChecksum(data))
}
