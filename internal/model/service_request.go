package model

import (
	"time"
)

type ServiceRequestStatus string

const (
	ServiceRequestStatusPending   ServiceRequestStatus = "pendiente"
	ServiceRequestStatusAccepted  ServiceRequestStatus = "aceptada"
	ServiceRequestStatusRejected  ServiceRequestStatus = "rechazada"
	ServiceRequestStatusCompleted ServiceRequestStatus = "completada"
)

// ServiceRequestStatuses lists every accepted status value.
var ServiceRequestStatuses = []ServiceRequestStatus{
	ServiceRequestStatusPending,
	ServiceRequestStatusAccepted,
	ServiceRequestStatusRejected,
	ServiceRequestStatusCompleted,
}

// IsValid reports whether s is one of the four lifecycle values. Any status
// may follow any other; no transition graph is enforced.
func (s ServiceRequestStatus) IsValid() bool {
	for _, v := range ServiceRequestStatuses {
		if s == v {
			return true
		}
	}
	return false
}

type ServiceRequest struct {
	Base            `bson:",inline"`
	UserID          string               `db:"user_id" json:"user_id" bson:"user_id"`
	NurseID         string               `db:"nurse_id" json:"nurse_id" bson:"nurse_id"`
	PatientIDs      []string             `db:"-" json:"patient_ids" bson:"patient_ids"`
	Estado          ServiceRequestStatus `db:"estado" json:"estado" bson:"estado"`
	Detalles        string               `db:"detalles" json:"detalles" bson:"detalles"`
	Fecha           time.Time            `db:"fecha" json:"fecha" bson:"fecha"`
	Tarifa          float64              `db:"tarifa" json:"tarifa" bson:"tarifa"`
	PagoRealizado   bool                 `db:"pago_realizado" json:"pago_realizado" bson:"pago_realizado"`
	PagoLiberado    bool                 `db:"pago_liberado" json:"pago_liberado" bson:"pago_liberado"`
	Documentacion   string               `db:"documentacion" json:"documentacion" bson:"documentacion"`
	Observaciones   string               `db:"observaciones" json:"observaciones" bson:"observaciones"`
	Recomendaciones string               `db:"recomendaciones" json:"recomendaciones" bson:"recomendaciones"`
}

// IsParticipant reports whether userID is the requester or the assigned nurse.
func (r *ServiceRequest) IsParticipant(userID string) bool {
	return userID != "" && (r.UserID == userID || r.NurseID == userID)
}

// ServiceRequestDetail is a service request whose patient ids have been
// resolved into patient summaries.
type ServiceRequestDetail struct {
	ServiceRequest
	PatientIDs []PatientSummary `json:"patient_ids"`
}

type CreateServiceRequestRequest struct {
	NurseID    string   `json:"nurse_id" binding:"required"`
	PatientIDs []string `json:"patient_ids" binding:"required,min=1,dive,required"`
	Detalles   string   `json:"detalles"`
	Fecha      string   `json:"fecha" binding:"required"`
	Tarifa     *float64 `json:"tarifa" binding:"required,gte=0"`
}

type UpdateServiceRequestStatusRequest struct {
	Estado ServiceRequestStatus `json:"estado" binding:"required,service_status"`
}

// ServiceRequestFilters selects the requests a participant can see.
type ServiceRequestFilters struct {
	ParticipantID string
	Status        ServiceRequestStatus
}

type ServiceRequestList struct {
	Total    int64                  `json:"total"`
	Page     int                    `json:"page"`
	Limit    int                    `json:"limit"`
	Requests []ServiceRequestDetail `json:"requests"`
}

type ServiceRequestStatusUpdate struct {
	Message        string          `json:"message"`
	ServiceRequest *ServiceRequest `json:"serviceRequest"`
}
