package gateway

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/careledger/registry/pkg/types"
)

type transferAdminRequest struct {
	NewAdmin string `json:"new_admin"`
}

type registerDoctorRequest struct {
	ID                uint64 `json:"id"`
	Identity          string `json:"identity"`
	Name              string `json:"name"`
	Qualification     string `json:"qualification"`
	Workplace         string `json:"workplace"`
	CertificationHash string `json:"certification_hash"`
}

type doctorDetailsRequest struct {
	Name          string `json:"name"`
	Qualification string `json:"qualification"`
	Workplace     string `json:"workplace"`
}

type certificationRequest struct {
	Hash string `json:"hash"`
}

type registerPatientRequest struct {
	ID       uint64 `json:"id"`
	DoctorID uint64 `json:"doctor_id"`
	Identity string `json:"identity"`
	Name     string `json:"name"`
	Age      int    `json:"age"`
}

type diseaseRequest struct {
	DoctorID uint64 `json:"doctor_id"`
	Disease  string `json:"disease"`
}

type recordRequest struct {
	DoctorID   uint64 `json:"doctor_id"`
	RecordHash string `json:"record_hash"`
}

type medicineRequest struct {
	ID     uint64 `json:"id"`
	Name   string `json:"name"`
	Expiry string `json:"expiry"`
	Dosage string `json:"dosage"`
	Price  int64  `json:"price"`
}

type prescriptionRequest struct {
	DoctorID   uint64 `json:"doctor_id"`
	MedicineID uint64 `json:"medicine_id"`
}

type assignmentRequest struct {
	DoctorID  uint64 `json:"doctor_id"`
	PatientID uint64 `json:"patient_id"`
}

// caller extracts the authenticated principal, ending the request if the
// auth middleware did not run
func (s *Service) caller(w http.ResponseWriter, r *http.Request) (types.Principal, bool) {
	principal, ok := PrincipalFromContext(r.Context())
	if !ok {
		s.writeErrorResponse(w, http.StatusUnauthorized, "caller principal not found in request context")
		return "", false
	}
	return principal, true
}

// pathID parses the {id} route variable
func (s *Service) pathID(w http.ResponseWriter, r *http.Request) (uint64, bool) {
	id, err := strconv.ParseUint(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		s.writeErrorResponse(w, http.StatusBadRequest, "invalid id in path")
		return 0, false
	}
	return id, true
}

// decode parses the JSON request body
func (s *Service) decode(w http.ResponseWriter, r *http.Request, into interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(into); err != nil {
		s.writeErrorResponse(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}

// queryDoctorID parses the optional doctor_id query parameter used by
// patient read endpoints
func queryDoctorID(r *http.Request) uint64 {
	id, _ := strconv.ParseUint(r.URL.Query().Get("doctor_id"), 10, 64)
	return id
}

func (s *Service) handleTransferAdmin(w http.ResponseWriter, r *http.Request) {
	principal, ok := s.caller(w, r)
	if !ok {
		return
	}
	var req transferAdminRequest
	if !s.decode(w, r, &req) {
		return
	}

	if err := s.registry.TransferAdmin(principal, types.Principal(req.NewAdmin)); err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]string{"admin": req.NewAdmin})
}

func (s *Service) handleRegisterDoctor(w http.ResponseWriter, r *http.Request) {
	principal, ok := s.caller(w, r)
	if !ok {
		return
	}
	var req registerDoctorRequest
	if !s.decode(w, r, &req) {
		return
	}

	details := types.DoctorDetails{
		Name:          req.Name,
		Qualification: req.Qualification,
		Workplace:     req.Workplace,
	}
	if err := s.registry.RegisterDoctor(principal, req.ID, types.Principal(req.Identity), details, req.CertificationHash); err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, map[string]uint64{"id": req.ID})
}

func (s *Service) handleViewDoctor(w http.ResponseWriter, r *http.Request) {
	principal, ok := s.caller(w, r)
	if !ok {
		return
	}
	id, ok := s.pathID(w, r)
	if !ok {
		return
	}

	doctor, err := s.registry.ViewDoctorByID(principal, id)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, doctor)
}

func (s *Service) handleUpdateDoctorDetails(w http.ResponseWriter, r *http.Request) {
	principal, ok := s.caller(w, r)
	if !ok {
		return
	}
	id, ok := s.pathID(w, r)
	if !ok {
		return
	}
	var req doctorDetailsRequest
	if !s.decode(w, r, &req) {
		return
	}

	details := types.DoctorDetails{
		Name:          req.Name,
		Qualification: req.Qualification,
		Workplace:     req.Workplace,
	}
	if err := s.registry.UpdateDoctorDetails(principal, id, details); err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]uint64{"id": id})
}

func (s *Service) handleUpdateDoctorCertification(w http.ResponseWriter, r *http.Request) {
	principal, ok := s.caller(w, r)
	if !ok {
		return
	}
	id, ok := s.pathID(w, r)
	if !ok {
		return
	}
	var req certificationRequest
	if !s.decode(w, r, &req) {
		return
	}

	if err := s.registry.UpdateDoctorCertification(principal, id, req.Hash); err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]uint64{"id": id})
}

func (s *Service) handleDeactivateDoctor(w http.ResponseWriter, r *http.Request) {
	principal, ok := s.caller(w, r)
	if !ok {
		return
	}
	id, ok := s.pathID(w, r)
	if !ok {
		return
	}

	if err := s.registry.DeactivateDoctor(principal, id); err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]uint64{"id": id})
}

func (s *Service) handleRegisterPatient(w http.ResponseWriter, r *http.Request) {
	principal, ok := s.caller(w, r)
	if !ok {
		return
	}
	var req registerPatientRequest
	if !s.decode(w, r, &req) {
		return
	}

	if err := s.registry.RegisterPatient(principal, req.DoctorID, req.ID, types.Principal(req.Identity), req.Name, req.Age); err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, map[string]uint64{"id": req.ID})
}

func (s *Service) handleViewPatient(w http.ResponseWriter, r *http.Request) {
	principal, ok := s.caller(w, r)
	if !ok {
		return
	}
	id, ok := s.pathID(w, r)
	if !ok {
		return
	}

	patient, err := s.registry.ViewPatientDetails(principal, id, queryDoctorID(r))
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, patient)
}

func (s *Service) handleAddDisease(w http.ResponseWriter, r *http.Request) {
	principal, ok := s.caller(w, r)
	if !ok {
		return
	}
	id, ok := s.pathID(w, r)
	if !ok {
		return
	}
	var req diseaseRequest
	if !s.decode(w, r, &req) {
		return
	}

	if err := s.registry.UpdatePatientDisease(principal, req.DoctorID, id, req.Disease); err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]uint64{"id": id})
}

func (s *Service) handleAddRecord(w http.ResponseWriter, r *http.Request) {
	principal, ok := s.caller(w, r)
	if !ok {
		return
	}
	id, ok := s.pathID(w, r)
	if !ok {
		return
	}
	var req recordRequest
	if !s.decode(w, r, &req) {
		return
	}

	if err := s.registry.UpdatePatientRecord(principal, req.DoctorID, id, req.RecordHash); err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]uint64{"id": id})
}

func (s *Service) handleDeactivatePatient(w http.ResponseWriter, r *http.Request) {
	principal, ok := s.caller(w, r)
	if !ok {
		return
	}
	id, ok := s.pathID(w, r)
	if !ok {
		return
	}

	if err := s.registry.DeactivatePatient(principal, id); err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]uint64{"id": id})
}

func (s *Service) handleViewPrescriptions(w http.ResponseWriter, r *http.Request) {
	principal, ok := s.caller(w, r)
	if !ok {
		return
	}
	id, ok := s.pathID(w, r)
	if !ok {
		return
	}

	prescriptions, err := s.registry.ViewPrescribedMedicines(principal, id, queryDoctorID(r))
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]interface{}{
		"patient_id":    id,
		"prescriptions": prescriptions,
	})
}

func (s *Service) handlePrescribeMedicine(w http.ResponseWriter, r *http.Request) {
	principal, ok := s.caller(w, r)
	if !ok {
		return
	}
	id, ok := s.pathID(w, r)
	if !ok {
		return
	}
	var req prescriptionRequest
	if !s.decode(w, r, &req) {
		return
	}

	if err := s.registry.PrescribeMedicine(principal, req.DoctorID, id, req.MedicineID); err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, map[string]uint64{"patient_id": id, "medicine_id": req.MedicineID})
}

func (s *Service) handleAddMedicine(w http.ResponseWriter, r *http.Request) {
	principal, ok := s.caller(w, r)
	if !ok {
		return
	}
	var req medicineRequest
	if !s.decode(w, r, &req) {
		return
	}

	details := types.MedicineDetails{
		Name:   req.Name,
		Expiry: req.Expiry,
		Dosage: req.Dosage,
		Price:  req.Price,
	}
	if err := s.registry.AddMedicine(principal, req.ID, details); err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, map[string]uint64{"id": req.ID})
}

func (s *Service) handleViewMedicine(w http.ResponseWriter, r *http.Request) {
	principal, ok := s.caller(w, r)
	if !ok {
		return
	}
	id, ok := s.pathID(w, r)
	if !ok {
		return
	}

	medicine, err := s.registry.ViewMedicine(principal, id)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, medicine)
}

func (s *Service) handleUpdateMedicine(w http.ResponseWriter, r *http.Request) {
	principal, ok := s.caller(w, r)
	if !ok {
		return
	}
	id, ok := s.pathID(w, r)
	if !ok {
		return
	}
	var req medicineRequest
	if !s.decode(w, r, &req) {
		return
	}

	details := types.MedicineDetails{
		Name:   req.Name,
		Expiry: req.Expiry,
		Dosage: req.Dosage,
		Price:  req.Price,
	}
	if err := s.registry.UpdateMedicine(principal, id, details); err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]uint64{"id": id})
}

func (s *Service) handleDeactivateMedicine(w http.ResponseWriter, r *http.Request) {
	principal, ok := s.caller(w, r)
	if !ok {
		return
	}
	id, ok := s.pathID(w, r)
	if !ok {
		return
	}

	if err := s.registry.DeactivateMedicine(principal, id); err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]uint64{"id": id})
}

func (s *Service) handleAssignDoctor(w http.ResponseWriter, r *http.Request) {
	principal, ok := s.caller(w, r)
	if !ok {
		return
	}
	var req assignmentRequest
	if !s.decode(w, r, &req) {
		return
	}

	if err := s.registry.AssignDoctorToPatient(principal, req.DoctorID, req.PatientID); err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]uint64{
		"doctor_id":  req.DoctorID,
		"patient_id": req.PatientID,
	})
}

func (s *Service) handleQueryAudit(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.caller(w, r); !ok {
		return
	}
	if s.auditIndex == nil {
		s.writeErrorResponse(w, http.StatusServiceUnavailable, "audit indexer not configured")
		return
	}

	query := r.URL.Query()
	var entries interface{}
	switch {
	case query.Get("actor") != "":
		entries = s.auditIndex.EntriesByActor(types.Principal(query.Get("actor")))
	case query.Get("event") != "":
		entries = s.auditIndex.EntriesByEvent(types.AuditEvent(query.Get("event")))
	case query.Get("patient_id") != "":
		patientID, _ := strconv.ParseUint(query.Get("patient_id"), 10, 64)
		entries = s.auditIndex.EntriesForPatient(patientID)
	default:
		entries = s.auditIndex.Entries()
	}

	s.writeJSON(w, http.StatusOK, map[string]interface{}{"entries": entries})
}
