// Package clients finds or creates the party a reservation is booked for.
package clients

import (
	"context"
	"net/mail"
	"strings"
	"time"

	"github.com/nyaruka/phonenumbers"
	"github.com/rs/zerolog/log"

	"github.com/codr1/courtside/internal/apperr"
	"github.com/codr1/courtside/internal/db"
	dbgen "github.com/codr1/courtside/internal/db/generated"
	"github.com/codr1/courtside/internal/models"
)

// Input is the contact information supplied with a booking.
type Input struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

type Directory struct {
	db      *db.DB
	region  string
	timeout time.Duration
}

func NewDirectory(database *db.DB, region string, timeout time.Duration) *Directory {
	return &Directory{db: database, region: strings.ToUpper(region), timeout: timeout}
}

// Contact is a validated Input: email lower-cased, phone in E.164 or empty.
type Contact struct {
	Name  string
	Email string
	Phone string
}

// Normalize validates the input without touching the store.
func (d *Directory) Normalize(input Input) (Contact, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return Contact{}, apperr.Validation("client name is required")
	}
	email, err := NormalizeEmail(input.Email)
	if err != nil {
		return Contact{}, err
	}
	phone := ""
	if strings.TrimSpace(input.Phone) != "" {
		phone, err = NormalizePhone(input.Phone, d.region)
		if err != nil {
			return Contact{}, err
		}
	}
	return Contact{Name: name, Email: email, Phone: phone}, nil
}

// FindOrCreate returns the client registered under the email, creating it on
// first use. Name and phone are refreshed when a returning client supplies
// different values.
func (d *Directory) FindOrCreate(ctx context.Context, input Input) (models.Client, error) {
	contact, err := d.Normalize(input)
	if err != nil {
		return models.Client{}, err
	}

	ctx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	var client dbgen.Client
	err = d.db.RunInTx(ctx, func(tx *db.DB) error {
		row, err := FindOrCreateIn(ctx, tx.Queries, contact)
		if err != nil {
			return err
		}
		client, err = RefreshIn(ctx, tx.Queries, row, contact)
		return err
	})
	if err != nil {
		return models.Client{}, apperr.Internal("find or create client", err)
	}
	return models.ClientFromDB(client), nil
}

// FindOrCreateIn looks the contact up by email and inserts it when missing.
// An existing client's name and phone are left as stored.
func FindOrCreateIn(ctx context.Context, q dbgen.Querier, contact Contact) (dbgen.Client, error) {
	existing, err := q.GetClientByEmail(ctx, contact.Email)
	switch {
	case err == nil:
		return existing, nil
	case !db.IsNoRows(err):
		return dbgen.Client{}, apperr.Internal("load client", err)
	}

	created, err := q.CreateClient(ctx, dbgen.CreateClientParams{
		Name:  contact.Name,
		Email: contact.Email,
		Phone: contact.Phone,
	})
	if err != nil {
		if db.IsUniqueViolation(err) {
			// Lost a race with a concurrent first booking for the same email.
			existing, err := q.GetClientByEmail(ctx, contact.Email)
			if err != nil {
				return dbgen.Client{}, apperr.Internal("load client", err)
			}
			return existing, nil
		}
		return dbgen.Client{}, apperr.Internal("create client", err)
	}

	log.Ctx(ctx).Info().Int64("client_id", created.ID).Msg("Client created")
	return created, nil
}

// RefreshIn stores the contact's name and phone on the client when they
// differ. A blank phone keeps the stored one.
func RefreshIn(ctx context.Context, q dbgen.Querier, existing dbgen.Client, contact Contact) (dbgen.Client, error) {
	phone := contact.Phone
	if phone == "" {
		phone = existing.Phone
	}
	if existing.Name == contact.Name && existing.Phone == phone {
		return existing, nil
	}
	updated, err := q.UpdateClientContact(ctx, dbgen.UpdateClientContactParams{
		Name:  contact.Name,
		Phone: phone,
		ID:    existing.ID,
	})
	if err != nil {
		return dbgen.Client{}, apperr.Internal("update client", err)
	}
	return updated, nil
}

func (d *Directory) Get(ctx context.Context, id int64) (models.Client, error) {
	ctx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	row, err := d.db.Queries.GetClient(ctx, id)
	if err != nil {
		if db.IsNoRows(err) {
			return models.Client{}, apperr.NotFound("client", id)
		}
		return models.Client{}, apperr.Internal("load client", err)
	}
	return models.ClientFromDB(row), nil
}

// NormalizeEmail lower-cases and validates an address.
func NormalizeEmail(raw string) (string, error) {
	email := strings.ToLower(strings.TrimSpace(raw))
	if email == "" {
		return "", apperr.Validation("client email is required")
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return "", apperr.Validation("client email %q is invalid", raw)
	}
	return email, nil
}

// NormalizePhone parses a phone number in the default region and returns it
// in E.164 form.
func NormalizePhone(raw, region string) (string, error) {
	parsed, err := phonenumbers.Parse(strings.TrimSpace(raw), region)
	if err != nil {
		return "", apperr.Validation("client phone %q is invalid", raw)
	}
	if !phonenumbers.IsValidNumber(parsed) {
		return "", apperr.Validation("client phone %q is not a valid number", raw)
	}
	return phonenumbers.Format(parsed, phonenumbers.E164), nil
}
