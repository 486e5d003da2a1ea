package webhook

import (
	"encoding/json"
	"fmt"
)

// EventType is the discriminator of a Clerk webhook event.
type EventType string

// Event types handled by the sync pipeline. Other types are acknowledged and ignored.
const (
	EventUserCreated EventType = "user.created"
	EventUserUpdated EventType = "user.updated"
	EventUserDeleted EventType = "user.deleted"
)

// Event is a verified webhook envelope. Data stays raw until the event type is known.
type Event struct {
	Type      EventType       `json:"type"`
	Object    string          `json:"object,omitempty"`
	Data      json.RawMessage `json:"data"`
	MessageID string          `json:"-"`
}

// EmailAddress is one entry of a Clerk user's email_addresses list.
type EmailAddress struct {
	ID           string `json:"id"`
	EmailAddress string `json:"email_address"`
}

// UserData is the payload of user.created and user.updated events. Every field is optional.
type UserData struct {
	ID                    string         `json:"id"`
	Username              *string        `json:"username"`
	FirstName             *string        `json:"first_name"`
	LastName              *string        `json:"last_name"`
	ImageURL              *string        `json:"image_url"`
	ProfileImageURL       *string        `json:"profile_image_url"`
	PrimaryEmailAddressID *string        `json:"primary_email_address_id"`
	EmailAddresses        []EmailAddress `json:"email_addresses"`
}

// DeletedData is the payload of user.deleted events.
type DeletedData struct {
	ID      string `json:"id"`
	Object  string `json:"object"`
	Deleted bool   `json:"deleted"`
}

// UserData decodes the payload of a user.created or user.updated event.
func (e Event) UserData() (UserData, error) {
	var d UserData
	if err := e.decode(&d); err != nil {
		return UserData{}, err
	}
	if d.ID == "" {
		return UserData{}, fmt.Errorf("%w: %s payload has no id", ErrMalformedEvent, e.Type)
	}
	return d, nil
}

// DeletedData decodes the payload of a user.deleted event.
func (e Event) DeletedData() (DeletedData, error) {
	var d DeletedData
	if err := e.decode(&d); err != nil {
		return DeletedData{}, err
	}
	if d.ID == "" {
		return DeletedData{}, fmt.Errorf("%w: %s payload has no id", ErrMalformedEvent, e.Type)
	}
	return d, nil
}

func (e Event) decode(dst any) error {
	if len(e.Data) == 0 {
		return fmt.Errorf("%w: %s has no data", ErrMalformedEvent, e.Type)
	}
	if err := json.Unmarshal(e.Data, dst); err != nil {
		return fmt.Errorf("%w: decode %s data: %w", ErrMalformedEvent, e.Type, err)
	}
	return nil
}
