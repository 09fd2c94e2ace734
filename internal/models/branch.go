package models

// Branch is a bakery branch. Branch IDs are externally assigned store codes
// ("3510", "18469", ...) rather than generated UUIDs, so they are seeded
// as-is and never regenerated.
type Branch struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Location *string `json:"location"`
}
