package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/stellarforge/stellarforge-go/pkg/types"
)

func TestValidate(t *testing.T) {
	id := "SF-1000-1000"
	assert.NoError(t, Validate(types.NewStar(&types.RegistrationResponse{StarID: &id})))
	assert.Error(t, Validate(nil))
	assert.Error(t, Validate(types.NewStar(&types.RegistrationResponse{})))
}
