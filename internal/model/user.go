package model

// Verification flag values
const (
	UserVerified    = "Yes"
	UserNotVerified = "No"
)

// User represents a registered account. A user acts as requester for the
// service requests it creates and as nurse for the ones naming it.
type User struct {
	Base       `bson:",inline"`
	Nombre     string `json:"nombre" db:"nombre" bson:"nombre"`
	Usuario    string `json:"usuario" db:"usuario" bson:"usuario"`
	Password   string `json:"-" db:"password" bson:"password"`
	Foto       string `json:"foto" db:"foto" bson:"foto"`
	Verificado string `json:"verificado" db:"verificado" bson:"verificado"`
}
