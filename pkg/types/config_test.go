package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConfigValidate(t *testing.T) {
	assert.NoError(t, Config{}.Validate(), "zero config takes all defaults")
	assert.NoError(t, Config{DeletePolicy: DeleteCascade}.Validate())
	assert.NoError(t, Config{DeletePolicy: DeleteRestrict, Blob: BlobConfig{Driver: BlobDriverS3}}.Validate())

	assert.ErrorIs(t, Config{DeletePolicy: "soft"}.Validate(), ErrDeletePolicyUnknown)
	assert.ErrorIs(t, Config{Blob: BlobConfig{Driver: "tape"}}.Validate(), ErrBlobDriverUnknown)
}

func TestEffectiveDeletePolicy(t *testing.T) {
	assert.Equal(t, DeleteCascade, Config{}.EffectiveDeletePolicy(), "cascade is the default")
	assert.Equal(t, DeleteRestrict, Config{DeletePolicy: DeleteRestrict}.EffectiveDeletePolicy())
}
