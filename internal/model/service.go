package model

// Service describes one campus office queue. The catalog of services is
// loaded once at startup and never mutated at runtime.
//
// Fields:
//  ID               – stable identifier used in URLs and storage keys.
//  DisplayName      – human-readable office name.
//  CodePrefix       – short capital code prepended to ticket numbers.
//  EstimatedMinutes – average handling time per ticket, used for the
//                     estimated wait shown to students.
type Service struct {
	ID               string `json:"id"`
	DisplayName      string `json:"display_name"`
	CodePrefix       string `json:"code_prefix"`
	EstimatedMinutes int    `json:"estimated_minutes"`
}
