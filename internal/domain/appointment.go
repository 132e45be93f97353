package domain

// Appointment is a read-only view of a scheduled visit. The scheduling
// module owns the full record; this API only resolves an appointment to its
// patient when notifying.
type Appointment struct {
	ID        string
	PatientID string
}

// Patient is a read-only view of a patient's contact details. The phone
// number comes in as entered at the front desk: it may contain hyphens and
// may or may not carry a country-code prefix.
type Patient struct {
	ID    string
	Name  string
	Phone string
	TaxID string
}
