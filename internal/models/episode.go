package models

import "fmt"

// Episode represents a single installment of a show
type Episode struct {
	ID     int    `json:"id"`
	Name   string `json:"name"`
	Season int    `json:"season"`
	Number int    `json:"number"`
}

// Label formats the episode the way it is listed under a show.
func (e Episode) Label() string {
	return fmt.Sprintf("Season %d, Episode %d, %s", e.Season, e.Number, e.Name)
}
