package model

import "time"

// ClassSession is a scheduled class an attendance record may reference.
type ClassSession struct {
	ID       int64     `json:"id"`
	Name     string    `json:"name"`
	Trainer  string    `json:"trainer"`
	StartsAt time.Time `json:"starts_at"`
	EndsAt   time.Time `json:"ends_at"`
	Capacity int       `json:"capacity"`
}
