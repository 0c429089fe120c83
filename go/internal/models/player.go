package models

// PlayerRecord is one seated player as reported in a snapshot.
type PlayerRecord struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Cards     int    `json:"cards"`
	Tricks    int    `json:"tricks"`
	Bid       *int   `json:"bid"`
	Current   *bool  `json:"current,omitempty"`
	Confirmed *bool  `json:"confirmed,omitempty"`
}

// Key implements reconcile.Keyed.
func (p PlayerRecord) Key() string { return p.ID }

// DisplayName falls back to the id when the server sent no name.
func (p PlayerRecord) DisplayName() string {
	if p.Name == "" {
		return p.ID
	}
	return p.Name
}

// IsCurrentTurn reports whether the player is to act.
func (p PlayerRecord) IsCurrentTurn() bool {
	return p.Current != nil && *p.Current
}

// IsConfirmed treats a missing flag as confirmed: the server only lists
// unconfirmed players on the organizer view.
func (p PlayerRecord) IsConfirmed() bool {
	return p.Confirmed == nil || *p.Confirmed
}

// ActionResponse is the body returned by the bid, card and finish endpoints.
type ActionResponse struct {
	OK    bool   `json:"ok"`
	Error string `json:"error,omitempty"`
}
