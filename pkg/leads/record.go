package leads

// Contact types accepted by Lawcus
const (
	ContactPerson  = "Person"
	ContactCompany = "Company"
)

// Record is a lead as accepted by POST /leads and forwarded to Lawcus
type Record struct {
	ContactFirstName  string `json:"contact_first_name"`
	ContactLastName   string `json:"contact_last_name"`
	ContactType       string `json:"contact_type"`
	ContactEmail      string `json:"contact_email"`
	ContactPhone      string `json:"contact_phone"`
	ContactCity       string `json:"contact_city"`
	ContactState      string `json:"contact_state"`
	MatterDescription string `json:"matter_description"`
}

// field pairs a JSON field name with its value, in validation order
type field struct {
	name  string
	value string
}

func (r *Record) contactFields() []field {
	return []field{
		{"contact_first_name", r.ContactFirstName},
		{"contact_last_name", r.ContactLastName},
		{"contact_email", r.ContactEmail},
		{"contact_type", r.ContactType},
		{"contact_phone", r.ContactPhone},
		{"contact_city", r.ContactCity},
		{"contact_state", r.ContactState},
	}
}
