package patients

import "time"

// Patient is the persistent registration record for a patient. The
// owning account lives in the identity provider; UserID is the link.
type Patient struct {
	ID                        string    `json:"id" bson:"_id,omitempty"`
	UserID                    string    `json:"userId" bson:"userId"`
	Name                      string    `json:"name" bson:"name"`
	Email                     string    `json:"email" bson:"email"`
	Phone                     string    `json:"phone" bson:"phone"`
	BirthDate                 string    `json:"birthDate,omitempty" bson:"birthDate,omitempty"`
	Gender                    string    `json:"gender,omitempty" bson:"gender,omitempty"`
	Address                   string    `json:"address,omitempty" bson:"address,omitempty"`
	Occupation                string    `json:"occupation,omitempty" bson:"occupation,omitempty"`
	EmergencyContactName      string    `json:"emergencyContactName,omitempty" bson:"emergencyContactName,omitempty"`
	EmergencyContactNumber    string    `json:"emergencyContactNumber,omitempty" bson:"emergencyContactNumber,omitempty"`
	PrimaryPhysician          string    `json:"primaryPhysician,omitempty" bson:"primaryPhysician,omitempty"`
	InsuranceProvider         string    `json:"insuranceProvider,omitempty" bson:"insuranceProvider,omitempty"`
	InsurancePolicyNumber     string    `json:"insurancePolicyNumber,omitempty" bson:"insurancePolicyNumber,omitempty"`
	Allergies                 string    `json:"allergies,omitempty" bson:"allergies,omitempty"`
	IdentificationDocumentID  string    `json:"identificationDocumentId,omitempty" bson:"identificationDocumentId,omitempty"`
	IdentificationDocumentURL string    `json:"identificationDocumentUrl,omitempty" bson:"identificationDocumentUrl,omitempty"`
	CreatedAt                 time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt                 time.Time `json:"updatedAt" bson:"updatedAt"`
}
