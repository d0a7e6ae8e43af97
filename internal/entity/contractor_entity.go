package entity

// Contractor is a directory listing for a general contractor, subcontractor
// or supplier as served by the marketplace API.
type Contractor struct {
	Id              string   `json:"id"`
	Name            string   `json:"name"`
	Company         string   `json:"company"`
	Specialties     []string `json:"specialties"`
	Location        string   `json:"location"`
	Rating          float64  `json:"rating"`
	ReviewCount     int      `json:"reviewCount"`
	Verified        bool     `json:"verified"`
	HourlyRate      float64  `json:"hourlyRate,omitempty"`
	YearsExperience int      `json:"yearsExperience,omitempty"`
	Availability    string   `json:"availability,omitempty"`
	Description     string   `json:"description,omitempty"`
	Avatar          string   `json:"avatar,omitempty"`
}
