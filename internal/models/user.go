package models

import "time"

// RegisteredUser is a self-registered account. Passcodes are stored as given.
type RegisteredUser struct {
	Username         string    `json:"username"`
	Passcode         string    `json:"password"`
	Email            string    `json:"email"`
	Timezone         string    `json:"timezone"`
	RegistrationDate time.Time `json:"registrationDate"`
}

// RosterUser is the subset of a user the spreadsheet backend returns.
type RosterUser struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Timezone string `json:"timezone"`
}

func (u RegisteredUser) Roster() RosterUser {
	return RosterUser{Username: u.Username, Email: u.Email, Timezone: u.Timezone}
}

// UserSnapshot is the on-disk format of the local user store.
type UserSnapshot struct {
	Version int              `json:"version"`
	Users   []RegisteredUser `json:"users"`
}

const UserSnapshotVersion = 1
