package organizations

import "time"

type Account struct {
	ID       string
	Name     string
	Email    string
	Status   string // ACTIVE, SUSPENDED, PENDING_CLOSURE
	JoinedAt time.Time
}

// Active reports whether the account is in the ACTIVE state.
func (a Account) Active() bool { return a.Status == "ACTIVE" }
