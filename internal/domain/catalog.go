package domain

// ServiceOffering describes one bookable service. Duration is the suggested
// booking length in minutes; the stored appointment interval is what counts.
type ServiceOffering struct {
	Name        string `json:"name"`
	Duration    int    `json:"duration"`
	Price       int    `json:"price"`
	Description string `json:"description"`
}

// Services is the static catalog. The set of keys gates the
// Appointment.Service field.
var Services = map[string]ServiceOffering{
	"haircut": {
		Name:        "Signature Cut",
		Duration:    30,
		Price:       45,
		Description: "Precision haircut tailored to your face shape",
	},
	"shave": {
		Name:        "Classic Shave",
		Duration:    30,
		Price:       35,
		Description: "Traditional straight razor shave with hot towel",
	},
	"combo": {
		Name:        "The Full Experience",
		Duration:    60,
		Price:       65,
		Description: "Complete grooming: cut, shave, styling",
	},
}

func ValidService(key string) bool {
	_, ok := Services[key]
	return ok
}
