package registry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/careledger/registry/pkg/types"
)

func TestRegisterDoctor_Success(t *testing.T) {
	svc, emitter := newTestService(t)

	registerTestDoctor(t, svc, 1, doctorPrincipal)

	doctor, err := svc.ViewDoctorByID(strangerPrincipal, 1)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), doctor.ID)
	assert.Equal(t, doctorPrincipal, doctor.Identity)
	assert.Equal(t, "Gregory House", doctor.Name)
	assert.Equal(t, "cert-hash-1", doctor.CertificationHash)
	assert.True(t, doctor.Active)

	record := emitter.last()
	assert.Equal(t, types.EventDoctorRegistered, record.Event)
	assert.Equal(t, uint64(1), record.DoctorID)
}

func TestRegisterDoctor_DuplicateID(t *testing.T) {
	svc, _ := newTestService(t)

	registerTestDoctor(t, svc, 1, doctorPrincipal)

	err := svc.RegisterDoctor(adminPrincipal, 1, doctor2Principal, types.DoctorDetails{
		Name:          "James Wilson",
		Qualification: "MD",
		Workplace:     "Princeton General",
	}, "cert-hash-2")
	assert.Equal(t, types.ErrCodeAlreadyExists, types.CodeOf(err))

	// The original record is untouched
	doctor, viewErr := svc.ViewDoctorByID(strangerPrincipal, 1)
	require.NoError(t, viewErr)
	assert.Equal(t, doctorPrincipal, doctor.Identity)
}

func TestRegisterDoctor_RequiresAdmin(t *testing.T) {
	svc, _ := newTestService(t)

	err := svc.RegisterDoctor(strangerPrincipal, 1, doctorPrincipal, types.DoctorDetails{
		Name:          "Gregory House",
		Qualification: "MD",
		Workplace:     "Princeton General",
	}, "cert-hash-1")
	assert.Equal(t, types.ErrCodeUnauthorized, types.CodeOf(err))
}

func TestRegisterDoctor_InvalidInput(t *testing.T) {
	svc, _ := newTestService(t)

	cases := []struct {
		name     string
		identity types.Principal
		details  types.DoctorDetails
		certHash string
	}{
		{"empty identity", "", types.DoctorDetails{Name: "n", Qualification: "q", Workplace: "w"}, "h"},
		{"empty name", doctorPrincipal, types.DoctorDetails{Qualification: "q", Workplace: "w"}, "h"},
		{"empty qualification", doctorPrincipal, types.DoctorDetails{Name: "n", Workplace: "w"}, "h"},
		{"empty workplace", doctorPrincipal, types.DoctorDetails{Name: "n", Qualification: "q"}, "h"},
		{"empty certification hash", doctorPrincipal, types.DoctorDetails{Name: "n", Qualification: "q", Workplace: "w"}, ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := svc.RegisterDoctor(adminPrincipal, 1, tc.identity, tc.details, tc.certHash)
			assert.Equal(t, types.ErrCodeInvalidInput, types.CodeOf(err))
		})
	}

	// None of the failed attempts occupied the id
	_, err := svc.ViewDoctorByID(strangerPrincipal, 1)
	assert.Equal(t, types.ErrCodeNotFound, types.CodeOf(err))
}

func TestUpdateDoctorDetails_Success(t *testing.T) {
	svc, emitter := newTestService(t)

	registerTestDoctor(t, svc, 1, doctorPrincipal)

	err := svc.UpdateDoctorDetails(adminPrincipal, 1, types.DoctorDetails{
		Name:          "Gregory House",
		Qualification: "MD, Nephrology",
		Workplace:     "Plainsboro Teaching Hospital",
	})
	require.NoError(t, err)

	doctor, err := svc.ViewDoctorByID(strangerPrincipal, 1)
	require.NoError(t, err)
	assert.Equal(t, "MD, Nephrology", doctor.Qualification)
	assert.Equal(t, "Plainsboro Teaching Hospital", doctor.Workplace)
	// Immutable fields survive updates
	assert.Equal(t, doctorPrincipal, doctor.Identity)
	assert.True(t, doctor.Active)

	assert.Equal(t, types.EventDoctorUpdated, emitter.last().Event)
}

func TestUpdateDoctorDetails_NotFound(t *testing.T) {
	svc, _ := newTestService(t)

	err := svc.UpdateDoctorDetails(adminPrincipal, 42, types.DoctorDetails{
		Name:          "n",
		Qualification: "q",
		Workplace:     "w",
	})
	assert.Equal(t, types.ErrCodeNotFound, types.CodeOf(err))
}

func TestUpdateDoctorDetails_AdminRuleBeforeExistence(t *testing.T) {
	svc, _ := newTestService(t)

	// Non-admin against a missing doctor: the admin rule is evaluated
	// first, so the caller learns nothing about id occupancy
	err := svc.UpdateDoctorDetails(strangerPrincipal, 42, types.DoctorDetails{
		Name:          "n",
		Qualification: "q",
		Workplace:     "w",
	})
	assert.Equal(t, types.ErrCodeUnauthorized, types.CodeOf(err))
}

func TestUpdateDoctorCertification_Success(t *testing.T) {
	svc, emitter := newTestService(t)

	registerTestDoctor(t, svc, 1, doctorPrincipal)

	err := svc.UpdateDoctorCertification(adminPrincipal, 1, "cert-hash-2")
	require.NoError(t, err)

	doctor, err := svc.ViewDoctorByID(strangerPrincipal, 1)
	require.NoError(t, err)
	assert.Equal(t, "cert-hash-2", doctor.CertificationHash)

	record := emitter.last()
	assert.Equal(t, types.EventDoctorCertificationUpdated, record.Event)
	assert.Equal(t, "cert-hash-2", record.Detail)
}

func TestUpdateDoctorCertification_UnchangedHashIsNoOp(t *testing.T) {
	svc, emitter := newTestService(t)

	registerTestDoctor(t, svc, 1, doctorPrincipal)
	emitted := len(emitter.events())

	err := svc.UpdateDoctorCertification(adminPrincipal, 1, "cert-hash-1")
	assert.Equal(t, types.ErrCodeNoOp, types.CodeOf(err))
	assert.Len(t, emitter.events(), emitted)
}

func TestUpdateDoctorCertification_EmptyHash(t *testing.T) {
	svc, _ := newTestService(t)

	registerTestDoctor(t, svc, 1, doctorPrincipal)

	err := svc.UpdateDoctorCertification(adminPrincipal, 1, "")
	assert.Equal(t, types.ErrCodeInvalidInput, types.CodeOf(err))
}

func TestDeactivateDoctor_TerminalAndRepeatable(t *testing.T) {
	svc, _ := newTestService(t)

	registerTestDoctor(t, svc, 1, doctorPrincipal)

	require.NoError(t, svc.DeactivateDoctor(adminPrincipal, 1))
	doctor, err := svc.ViewDoctorByID(strangerPrincipal, 1)
	require.NoError(t, err)
	assert.False(t, doctor.Active)

	// Repeat call succeeds without additional guard
	require.NoError(t, svc.DeactivateDoctor(adminPrincipal, 1))
}

func TestDeactivatedDoctor_FailsEveryDoctorOperation(t *testing.T) {
	svc, _ := newTestService(t)

	registerTestDoctor(t, svc, 1, doctorPrincipal)
	registerTestPatient(t, svc, 1, doctorPrincipal, 1, patientPrincipal)
	require.NoError(t, svc.AddMedicine(adminPrincipal, 1, types.MedicineDetails{
		Name: "Vicodin", Expiry: "2027-01", Dosage: "5mg", Price: 100,
	}))

	require.NoError(t, svc.DeactivateDoctor(adminPrincipal, 1))

	// Previously assigned makes no difference once deactivated
	err := svc.RegisterPatient(doctorPrincipal, 1, 2, types.Principal("patient_2"), "Chris Taub", 45)
	assert.Equal(t, types.ErrCodeUnauthorized, types.CodeOf(err))

	err = svc.UpdatePatientDisease(doctorPrincipal, 1, 1, "flu")
	assert.Equal(t, types.ErrCodeUnauthorized, types.CodeOf(err))

	err = svc.UpdatePatientRecord(doctorPrincipal, 1, 1, "record-hash-1")
	assert.Equal(t, types.ErrCodeUnauthorized, types.CodeOf(err))

	err = svc.PrescribeMedicine(doctorPrincipal, 1, 1, 1)
	assert.Equal(t, types.ErrCodeUnauthorized, types.CodeOf(err))
}

func TestViewDoctorByID_UnrestrictedOnceExisting(t *testing.T) {
	svc, _ := newTestService(t)

	registerTestDoctor(t, svc, 1, doctorPrincipal)

	_, err := svc.ViewDoctorByID(strangerPrincipal, 1)
	assert.NoError(t, err)

	_, err = svc.ViewDoctorByID(strangerPrincipal, 99)
	assert.Equal(t, types.ErrCodeNotFound, types.CodeOf(err))
}
