package contacts

// Status is the employment state of a directory entry.
type Status string

const (
	StatusActive   Status = "Active"
	StatusInactive Status = "Inactive"
)

// Employee mirrors one record of the remote contacts resource.
type Employee struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Status Status `json:"status"`
}
