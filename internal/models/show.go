package models

// Show represents a TV show returned by the directory search
type Show struct {
	ID      int        `json:"id"`
	Name    string     `json:"name"`
	Summary string     `json:"summary"`
	Image   *ShowImage `json:"image,omitempty"`
}

// ShowImage holds the artwork URLs the directory publishes for a show
type ShowImage struct {
	Medium   string `json:"medium"`
	Original string `json:"original,omitempty"`
}

// ImageURL returns the medium resolution artwork URL, or an empty string when
// the directory has no artwork for the show.
func (s Show) ImageURL() string {
	if s.Image == nil {
		return ""
	}
	return s.Image.Medium
}
