// Package program lists the programs offered by each institution.
package program

// Item is the public DTO returned by the program API.
type Item struct {
	ID          int          `json:"id"`
	Name        string       `json:"name"`
	Slug        string       `json:"slug"`
	Institution *Institution `json:"institution,omitempty"`
}

// Institution is the owning institution of a program.
type Institution struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}
