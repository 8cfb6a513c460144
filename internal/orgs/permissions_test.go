package orgs_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dayo/shopstack/internal/database/models"
	"github.com/dayo/shopstack/internal/orgs"
)

func TestAllows(t *testing.T) {
	allCapabilities := []orgs.Capability{
		orgs.ManageSales,
		orgs.ManageInventory,
		orgs.ManageServices,
		orgs.ViewReports,
		orgs.ManageUsers,
		orgs.CreateCustomers,
		orgs.EditPreference,
	}

	t.Run("owner implies every capability regardless of flags", func(t *testing.T) {
		m := &models.Membership{Role: models.RoleOwner}
		for _, c := range allCapabilities {
			assert.True(t, orgs.Allows(m, c), "owner should allow %s", c)
		}
	})

	t.Run("nil membership allows nothing", func(t *testing.T) {
		for _, c := range allCapabilities {
			assert.False(t, orgs.Allows(nil, c))
		}
	})

	t.Run("non-owner is decided by flags", func(t *testing.T) {
		m := &models.Membership{
			Role:               models.RoleStaff,
			CanManageInventory: true,
			CanViewReports:     true,
		}
		assert.True(t, orgs.Allows(m, orgs.ManageInventory))
		assert.True(t, orgs.Allows(m, orgs.ViewReports))
		assert.False(t, orgs.Allows(m, orgs.ManageSales))
		assert.False(t, orgs.Allows(m, orgs.ManageUsers))
		assert.False(t, orgs.Allows(m, orgs.EditPreference))
	})

	t.Run("admin role does not bypass flags", func(t *testing.T) {
		m := &models.Membership{Role: models.RoleAdmin}
		assert.False(t, orgs.Allows(m, orgs.ManageInventory))
	})

	t.Run("unknown capability", func(t *testing.T) {
		m := &models.Membership{Role: models.RoleStaff}
		assert.False(t, orgs.Allows(m, orgs.Capability("teleport")))
	})
}

func TestIsOwner(t *testing.T) {
	assert.True(t, orgs.IsOwner(&models.Membership{Role: models.RoleOwner}))
	assert.False(t, orgs.IsOwner(&models.Membership{Role: models.RoleAdmin}))
	assert.False(t, orgs.IsOwner(nil))
}
