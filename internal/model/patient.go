package model

import (
	"time"
)

type Patient struct {
	Base            `bson:",inline"`
	Name            string    `db:"name" json:"name" bson:"name"`
	FechaNacimiento time.Time `db:"fecha_nacimiento" json:"fecha_nacimiento" bson:"fecha_nacimiento"`
	Genero          string    `db:"genero" json:"genero" bson:"genero"`
	Descripcion     string    `db:"descripcion" json:"descripcion" bson:"descripcion"`
	UserID          string    `db:"user_id" json:"user_id" bson:"user_id"`
}

// PatientResponse is the client view of a patient; the record id is not exposed.
type PatientResponse struct {
	Name            string    `json:"name"`
	FechaNacimiento time.Time `json:"fecha_nacimiento"`
	Genero          string    `json:"genero"`
	Descripcion     string    `json:"descripcion"`
	UserID          string    `json:"user_id"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// PatientSummary is the subset of a patient embedded in service request reads.
type PatientSummary struct {
	Name            string    `json:"name"`
	FechaNacimiento time.Time `json:"fecha_nacimiento"`
	Genero          string    `json:"genero"`
	Descripcion     string    `json:"descripcion"`
}

func (p *Patient) ToResponse() PatientResponse {
	return PatientResponse{
		Name:            p.Name,
		FechaNacimiento: p.FechaNacimiento,
		Genero:          p.Genero,
		Descripcion:     p.Descripcion,
		UserID:          p.UserID,
		CreatedAt:       p.CreatedAt,
		UpdatedAt:       p.UpdatedAt,
	}
}

func (p *Patient) Summary() PatientSummary {
	return PatientSummary{
		Name:            p.Name,
		FechaNacimiento: p.FechaNacimiento,
		Genero:          p.Genero,
		Descripcion:     p.Descripcion,
	}
}

// CreatePatientRequest carries client supplied patient attributes. Any owner
// id sent by the client is not bound; the owner always comes from the token.
type CreatePatientRequest struct {
	Name            string `json:"name" binding:"required"`
	FechaNacimiento string `json:"fecha_nacimiento" binding:"required"`
	Genero          string `json:"genero" binding:"required"`
	Descripcion     string `json:"descripcion"`
}

type PatientList struct {
	Total    int64             `json:"total"`
	Page     int               `json:"page"`
	Limit    int               `json:"limit"`
	Patients []PatientResponse `json:"patients"`
}
