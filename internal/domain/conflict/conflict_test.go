package conflict

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestForcePolicy_NeverForceableCodes(t *testing.T) {
	policy := PolicyFromForce(true)

	assert.True(t, policy.Allows(CodeLeaveConflict))
	assert.True(t, policy.Allows(CodeOverlappingHours))

	for _, code := range []Code{CodeVisitorAlreadyElsewhere, CodeTimesheetConflict, CodeLeaveOverlap, CodeDuplicateKey} {
		assert.False(t, policy.Allows(code), code)
		assert.False(t, code.Forceable(), code)
	}
}

func TestForcePolicy_DenyAll(t *testing.T) {
	assert.Equal(t, DenyAll, PolicyFromForce(false))
	assert.False(t, DenyAll.Allows(CodeLeaveConflict))
	assert.False(t, DenyAll.Allows(CodeOverlappingHours))
}

func TestForcePolicy_Partial(t *testing.T) {
	policy := ForcePolicy{Overlap: Allow}
	assert.True(t, policy.Allows(CodeOverlappingHours))
	assert.False(t, policy.Allows(CodeLeaveConflict))
}

func TestErrorUnwrap(t *testing.T) {
	err := fmt.Errorf("submit: %w", New(CodeOverlappingHours, "hours overlap", nil))

	ce, ok := As(err)
	require.True(t, ok)
	assert.Equal(t, CodeOverlappingHours, ce.Code)
	assert.True(t, ce.CanForce())
	assert.True(t, Is(err, CodeOverlappingHours))
	assert.False(t, Is(err, CodeLeaveOverlap))
	assert.Equal(t, "OverlappingHours: hours overlap", ce.Error())
}

func TestRetry(t *testing.T) {
	ce := Retry(ErrStaleWrite)
	assert.Equal(t, CodeDuplicateKey, ce.Code)
	assert.False(t, ce.CanForce())
}
