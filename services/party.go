package services

import (
	"log"
	"sync"
	"time"
)

// PartyData holds the contact fields of one side of the quote.
// PaymentMethods is only used on the issuer side.
type PartyData struct {
	Name           string `json:"name"`
	Company        string `json:"company"`
	Email          string `json:"email"`
	Phone          string `json:"phone,omitempty"`
	PaymentMethods string `json:"paymentMethods,omitempty"`
}

// IssuerBackend is the row storage collaborator for the issuer profile.
type IssuerBackend interface {
	Fetch(ownerID string) (PartyData, bool, error)
	Save(ownerID string, data PartyData) error
}

// DefaultIssuerSaveDelay is the quiet period before an issuer edit is pushed
// to the remote profile. It coalesces one write per burst of keystrokes.
const DefaultIssuerSaveDelay = 800 * time.Millisecond

const keyClient = "quote_client_data"

// Party owns the client and issuer data of the quote in progress. Client
// data is per quote and clearable; issuer data is the business profile,
// mirrored locally on every edit and pushed to the remote profile behind a
// debounce timer.
type Party struct {
	client *Bridge[PartyData]
	issuer *Bridge[PartyData]

	backend  IssuerBackend
	identity *Identity
	delay    time.Duration

	mu    sync.Mutex
	timer *time.Timer
}

func NewParty(backend IssuerBackend, kv KV, identity *Identity, delay time.Duration) *Party {
	if delay <= 0 {
		delay = DefaultIssuerSaveDelay
	}
	return &Party{
		client:   NewBridge(kv, keyClient, PartyData{}),
		issuer:   NewBridge(kv, KeyIssuer, PartyData{}),
		backend:  backend,
		identity: identity,
		delay:    delay,
	}
}

func (p *Party) Client() PartyData {
	return p.client.Value()
}

func (p *Party) Issuer() PartyData {
	return p.issuer.Value()
}

// LoadIssuer resolves the authoritative issuer profile. Authenticated: the
// remote profile wins; if none exists remotely but a local one does, the
// local profile is adopted and pushed once. Unauthenticated: local or zero.
func (p *Party) LoadIssuer() error {
	if p.identity == nil {
		return nil
	}
	remote, found, err := p.backend.Fetch(p.identity.ID)
	if err != nil {
		return remoteErr("cargar datos del emisor", err)
	}
	if found {
		p.issuer.Set(remote)
		return nil
	}
	local := p.issuer.Value()
	if local == (PartyData{}) {
		return nil
	}
	if err := p.backend.Save(p.identity.ID, local); err != nil {
		return remoteErr("publicar datos del emisor", err)
	}
	return nil
}

func setPartyField(data *PartyData, field, value string) bool {
	switch field {
	case "name":
		data.Name = value
	case "company":
		data.Company = value
	case "email":
		data.Email = value
	case "phone":
		data.Phone = value
	case "paymentMethods":
		data.PaymentMethods = value
	default:
		return false
	}
	return true
}

// SetClientField updates one client field. Unknown fields are rejected.
func (p *Party) SetClientField(field, value string) error {
	data := p.client.Value()
	if !setPartyField(&data, field, value) {
		return validationErr("campo", "desconocido: "+field)
	}
	p.client.Set(data)
	return nil
}

// SetIssuerField updates one issuer field in memory and in local storage
// immediately, then schedules the debounced remote save. A new edit within
// the quiet period restarts the timer so only the last state is written.
func (p *Party) SetIssuerField(field, value string) error {
	data := p.issuer.Value()
	if !setPartyField(&data, field, value) {
		return validationErr("campo", "desconocido: "+field)
	}
	p.issuer.Set(data)
	p.scheduleRemoteSave()
	return nil
}

func (p *Party) scheduleRemoteSave() {
	if p.identity == nil {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.timer != nil {
		p.timer.Stop()
	}
	p.timer = time.AfterFunc(p.delay, func() {
		if err := p.backend.Save(p.identity.ID, p.issuer.Value()); err != nil {
			log.Printf("party: remote issuer save failed: %v", err)
		}
	})
}

// Flush cancels a pending debounced save and writes the current issuer data
// now. Used on logout and in tests.
func (p *Party) Flush() error {
	p.mu.Lock()
	if p.timer != nil {
		p.timer.Stop()
		p.timer = nil
	}
	p.mu.Unlock()
	if p.identity == nil {
		return nil
	}
	if err := p.backend.Save(p.identity.ID, p.issuer.Value()); err != nil {
		return remoteErr("guardar datos del emisor", err)
	}
	return nil
}

// ClearClient resets the client fields. Issuer data is untouched.
func (p *Party) ClearClient() {
	p.client.Clear()
}
