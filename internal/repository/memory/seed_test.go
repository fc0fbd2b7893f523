package memory

import (
	"context"
	"strings"
	"testing"

	"github.com/Horattiu/RemediumFarm-sub000/internal/domain/employee"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadSeed(t *testing.T) {
	store := NewStore()
	err := store.LoadSeed(strings.NewReader(`{
		"workplaces": [{"id": "wp-a", "name": "Pharmacy A"}],
		"employees": [
			{"id": "emp-1", "full_name": "Ana", "home_workplace_id": "wp-a", "monthly_target_hours": 120},
			{"id": "emp-2", "full_name": "Dan", "is_active": false}
		]
	}`))
	require.NoError(t, err)

	ctx := context.Background()
	wp, err := store.Workplaces().GetByID(ctx, "wp-a")
	require.NoError(t, err)
	assert.Equal(t, "Pharmacy A", wp.Name)

	ana, err := store.Employees().GetByID(ctx, "emp-1")
	require.NoError(t, err)
	assert.True(t, ana.IsActive)
	assert.Equal(t, "wp-a", ana.HomeWorkplace())
	assert.Equal(t, 120, ana.TargetHours(employee.DefaultMonthlyTargetHours))

	dan, err := store.Employees().GetByID(ctx, "emp-2")
	require.NoError(t, err)
	assert.False(t, dan.IsActive)
}

func TestLoadSeed_Invalid(t *testing.T) {
	store := NewStore()
	assert.Error(t, store.LoadSeed(strings.NewReader(`{"employees": [{"full_name": "No Id"}]}`)))
	assert.Error(t, store.LoadSeed(strings.NewReader(`not json`)))
}
