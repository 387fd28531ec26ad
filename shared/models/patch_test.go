package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPatchFieldDistinguishesAbsentAndNull(t *testing.T) {
	type payload struct {
		Description PatchField[string] `json:"description"`
	}

	var absent payload
	require.NoError(t, json.Unmarshal([]byte(`{}`), &absent))
	assert.False(t, absent.Description.Set)

	var null payload
	require.NoError(t, json.Unmarshal([]byte(`{"description":null}`), &null))
	assert.True(t, null.Description.Set)
	assert.Nil(t, null.Description.Value)

	var set payload
	require.NoError(t, json.Unmarshal([]byte(`{"description":"hello"}`), &set))
	assert.True(t, set.Description.Set)
	require.NotNil(t, set.Description.Value)
	assert.Equal(t, "hello", *set.Description.Value)
}

func TestPrincipalCapabilities(t *testing.T) {
	super := Principal{Role: RoleSuperAdmin}
	admin := Principal{Role: RoleTenantAdmin}
	member := Principal{Role: RoleUser}

	assert.True(t, super.Can(CapPlatformAdmin))
	assert.False(t, admin.Can(CapPlatformAdmin))
	assert.True(t, admin.Can(CapManageTenantUsers))
	assert.False(t, member.Can(CapManageTenantUsers))
	assert.False(t, member.Can(CapEditTenantResources))
}
