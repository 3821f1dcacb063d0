package types

// Principal is an authenticated caller identity supplied by the identity
// substrate. The registry performs authorization only; it never verifies
// the principal itself.
type Principal string

// Doctor represents a registered practitioner
type Doctor struct {
	ID                uint64    `json:"id"`
	Identity          Principal `json:"identity"`
	Name              string    `json:"name"`
	Qualification     string    `json:"qualification"`
	Workplace         string    `json:"workplace"`
	CertificationHash string    `json:"certification_hash"`
	Active            bool      `json:"active"`
}

// Patient represents a registered patient. Diseases and RecordHashes are
// insertion-ordered and deduplicated per patient.
type Patient struct {
	ID           uint64    `json:"id"`
	Identity     Principal `json:"identity"`
	Name         string    `json:"name"`
	Age          int       `json:"age"`
	Diseases     []string  `json:"diseases"`
	RecordHashes []string  `json:"record_hashes"`
	Active       bool      `json:"active"`
}

// Medicine represents a registered medicine
type Medicine struct {
	ID     uint64 `json:"id"`
	Name   string `json:"name"`
	Expiry string `json:"expiry"`
	Dosage string `json:"dosage"`
	Price  int64  `json:"price"`
	Active bool   `json:"active"`
}

// DoctorDetails carries the mutable doctor fields for registration and updates
type DoctorDetails struct {
	Name          string `json:"name" validate:"required"`
	Qualification string `json:"qualification" validate:"required"`
	Workplace     string `json:"workplace" validate:"required"`
}

// MedicineDetails carries the mutable medicine fields for registration and updates
type MedicineDetails struct {
	Name   string `json:"name" validate:"required"`
	Expiry string `json:"expiry" validate:"required"`
	Dosage string `json:"dosage" validate:"required"`
	Price  int64  `json:"price" validate:"gt=0"`
}

// Patient age bounds, inclusive
const (
	MinPatientAge = 1
	MaxPatientAge = 120
)
