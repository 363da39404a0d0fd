package service

import (
	"testing"

	"go-consign-pos/internal/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPartnerCRUD(t *testing.T) {
	db := setupTestDB(t)
	svc := NewPartnerService(repository.NewPartnerRepo(db))
	operator := uuid.New().String()

	partner, err := svc.CreatePartner(&PartnerRequest{
		Name:        "Bu Siti",
		PhoneNumber: "0812000111",
	}, operator)
	require.NoError(t, err)
	assert.True(t, partner.IsActive)

	t.Run("duplicate name is rejected", func(t *testing.T) {
		_, err := svc.CreatePartner(&PartnerRequest{Name: "Bu Siti"}, operator)
		assert.ErrorIs(t, err, ErrPartnerNameExists)
	})

	t.Run("rename onto an existing name is rejected", func(t *testing.T) {
		other, err := svc.CreatePartner(&PartnerRequest{Name: "Pak Budi"}, operator)
		require.NoError(t, err)

		_, err = svc.UpdatePartner(other.ID, &PartnerRequest{Name: "Bu Siti"}, operator)
		assert.ErrorIs(t, err, ErrPartnerNameExists)
	})

	t.Run("update keeping the same name is fine", func(t *testing.T) {
		updated, err := svc.UpdatePartner(partner.ID, &PartnerRequest{
			Name:    "Bu Siti",
			Address: "Jl. Melati 3",
		}, operator)
		require.NoError(t, err)
		assert.Equal(t, "Jl. Melati 3", updated.Address)
	})

	t.Run("deactivated partner drops out of the active list", func(t *testing.T) {
		inactive := false
		_, err := svc.UpdatePartner(partner.ID, &PartnerRequest{
			Name:     "Bu Siti",
			IsActive: &inactive,
		}, operator)
		require.NoError(t, err)

		active, err := svc.ListPartners(true)
		require.NoError(t, err)
		for _, p := range active {
			assert.NotEqual(t, partner.ID, p.ID)
		}

		all, err := svc.ListPartners(false)
		require.NoError(t, err)
		assert.NotEmpty(t, all)
	})

	t.Run("delete then lookup fails", func(t *testing.T) {
		require.NoError(t, svc.DeletePartner(partner.ID, operator))
		_, err := svc.GetPartner(partner.ID)
		assert.ErrorIs(t, err, ErrPartnerNotFound)
	})

	t.Run("unknown partner operations fail", func(t *testing.T) {
		_, err := svc.UpdatePartner(uuid.New(), &PartnerRequest{Name: "Ghost"}, operator)
		assert.ErrorIs(t, err, ErrPartnerNotFound)
		assert.ErrorIs(t, svc.DeletePartner(uuid.New(), operator), ErrPartnerNotFound)
	})
}
