// Package models defines the persistent and wire types of the channel
// snapshot subsystem: linked channel accounts, their encrypted credentials,
// and the normalized performance snapshot every connector produces.
package models

// Account is one linked external social-media identity belonging to a user.
// Deleting an account cascades to its credential.
type Account struct {
	ID          int64
	OwnerID     int64
	Platform    string
	AccountName string

	// Credential is the 1:1 encrypted credential, when loaded.
	Credential *Credential
}
