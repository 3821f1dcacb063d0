package registry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/careledger/registry/pkg/types"
)

func addTestMedicine(t *testing.T, svc *Service, id uint64) {
	t.Helper()
	err := svc.AddMedicine(adminPrincipal, id, types.MedicineDetails{
		Name:   "Vicodin",
		Expiry: "2027-01",
		Dosage: "5mg twice daily",
		Price:  1500,
	})
	require.NoError(t, err)
}

func TestAddMedicine_Success(t *testing.T) {
	svc, emitter := newTestService(t)

	addTestMedicine(t, svc, 1)

	medicine, err := svc.ViewMedicine(strangerPrincipal, 1)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), medicine.ID)
	assert.Equal(t, "Vicodin", medicine.Name)
	assert.Equal(t, int64(1500), medicine.Price)
	assert.True(t, medicine.Active)

	record := emitter.last()
	assert.Equal(t, types.EventMedicineAdded, record.Event)
	assert.Equal(t, uint64(1), record.MedicineID)
}

func TestAddMedicine_DuplicateID(t *testing.T) {
	svc, _ := newTestService(t)

	addTestMedicine(t, svc, 1)

	err := svc.AddMedicine(adminPrincipal, 1, types.MedicineDetails{
		Name: "Ibuprofen", Expiry: "2028-06", Dosage: "200mg", Price: 300,
	})
	assert.Equal(t, types.ErrCodeAlreadyExists, types.CodeOf(err))
}

func TestAddMedicine_RequiresAdmin(t *testing.T) {
	svc, _ := newTestService(t)

	registerTestDoctor(t, svc, 1, doctorPrincipal)

	err := svc.AddMedicine(doctorPrincipal, 1, types.MedicineDetails{
		Name: "Vicodin", Expiry: "2027-01", Dosage: "5mg", Price: 1500,
	})
	assert.Equal(t, types.ErrCodeUnauthorized, types.CodeOf(err))
}

func TestAddMedicine_Validation(t *testing.T) {
	svc, _ := newTestService(t)

	cases := []struct {
		name    string
		details types.MedicineDetails
	}{
		{"empty name", types.MedicineDetails{Expiry: "2027-01", Dosage: "5mg", Price: 100}},
		{"empty expiry", types.MedicineDetails{Name: "n", Dosage: "5mg", Price: 100}},
		{"empty dosage", types.MedicineDetails{Name: "n", Expiry: "2027-01", Price: 100}},
		{"zero price", types.MedicineDetails{Name: "n", Expiry: "2027-01", Dosage: "5mg"}},
		{"negative price", types.MedicineDetails{Name: "n", Expiry: "2027-01", Dosage: "5mg", Price: -10}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := svc.AddMedicine(adminPrincipal, 1, tc.details)
			assert.Equal(t, types.ErrCodeInvalidInput, types.CodeOf(err))
		})
	}
}

func TestUpdateMedicine_Success(t *testing.T) {
	svc, emitter := newTestService(t)

	addTestMedicine(t, svc, 1)

	err := svc.UpdateMedicine(adminPrincipal, 1, types.MedicineDetails{
		Name:   "Vicodin ES",
		Expiry: "2028-03",
		Dosage: "7.5mg twice daily",
		Price:  1800,
	})
	require.NoError(t, err)

	medicine, err := svc.ViewMedicine(strangerPrincipal, 1)
	require.NoError(t, err)
	assert.Equal(t, "Vicodin ES", medicine.Name)
	assert.Equal(t, "2028-03", medicine.Expiry)
	assert.Equal(t, int64(1800), medicine.Price)
	assert.True(t, medicine.Active)

	assert.Equal(t, types.EventMedicineUpdated, emitter.last().Event)
}

func TestUpdateMedicine_NotFound(t *testing.T) {
	svc, _ := newTestService(t)

	err := svc.UpdateMedicine(adminPrincipal, 9, types.MedicineDetails{
		Name: "n", Expiry: "2027-01", Dosage: "5mg", Price: 100,
	})
	assert.Equal(t, types.ErrCodeNotFound, types.CodeOf(err))
}

func TestUpdateMedicine_ValidationLeavesStateIntact(t *testing.T) {
	svc, _ := newTestService(t)

	addTestMedicine(t, svc, 1)

	err := svc.UpdateMedicine(adminPrincipal, 1, types.MedicineDetails{
		Name: "Vicodin ES", Expiry: "2028-03", Dosage: "7.5mg", Price: 0,
	})
	assert.Equal(t, types.ErrCodeInvalidInput, types.CodeOf(err))

	medicine, viewErr := svc.ViewMedicine(strangerPrincipal, 1)
	require.NoError(t, viewErr)
	assert.Equal(t, "Vicodin", medicine.Name)
	assert.Equal(t, int64(1500), medicine.Price)
}

func TestDeactivateMedicine_TerminalAndRepeatable(t *testing.T) {
	svc, _ := newTestService(t)

	addTestMedicine(t, svc, 1)

	require.NoError(t, svc.DeactivateMedicine(adminPrincipal, 1))
	medicine, err := svc.ViewMedicine(strangerPrincipal, 1)
	require.NoError(t, err)
	assert.False(t, medicine.Active)

	require.NoError(t, svc.DeactivateMedicine(adminPrincipal, 1))
}

func TestViewMedicine_NotFound(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.ViewMedicine(strangerPrincipal, 9)
	assert.Equal(t, types.ErrCodeNotFound, types.CodeOf(err))
}
