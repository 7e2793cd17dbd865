// The loan book: request generation, acceptance, maturity, and collection by
// hired muscle.
package engine

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/talgya/florin/internal/entropy"
)

// LoanStatus is the loan lifecycle state.
type LoanStatus string

const (
	LoanActive    LoanStatus = "active"
	LoanPaid      LoanStatus = "paid"
	LoanDefaulted LoanStatus = "defaulted"
	LoanCollected LoanStatus = "collected"
	LoanLost      LoanStatus = "lost"
)

// Loan is an accepted loan. Retained in history after settling; the UI
// filters active entries.
type Loan struct {
	ID             string     `json:"id"`
	Kingdom        string     `json:"kingdom"`
	Borrower       string     `json:"borrower"`
	Principal      int        `json:"principal"`
	InterestRate   float64    `json:"interest_rate"`
	TotalDue       int        `json:"total_due"`
	DueTurn        int        `json:"due_turn"`
	Status         LoanStatus `json:"status"`
	FailedAttempts int        `json:"failed_attempts"`
}

// LoanRequest is an open offer from a borrower, expiring after two turns.
type LoanRequest struct {
	ID        string  `json:"id"`
	Kingdom   string  `json:"kingdom"`
	Borrower  string  `json:"borrower"`
	Amount    int     `json:"amount"`
	Interest  float64 `json:"interest"`
	Duration  int     `json:"duration"`
	ExpiresIn int     `json:"expires_in"`
}

const (
	baseInterest      = 0.20
	riskPremiumStep   = 0.05 // per outstanding active or defaulted loan
	interestJitter    = 0.10
	requestDuration   = 3
	requestLifetime   = 2
	repaymentChance   = 0.70
	maxFailedAttempts = 2
)

// AcceptLoan funds a pending request, converting it into an active loan.
// Declined when the request is unknown or gold is short.
func (g *Game) AcceptLoan(requestID string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	for i, req := range g.st.LoanRequests {
		if req.ID != requestID {
			continue
		}
		if g.st.GameOver || g.st.Gold < req.Amount {
			return false
		}
		loan := &Loan{
			ID:           uuid.NewString(),
			Kingdom:      req.Kingdom,
			Borrower:     req.Borrower,
			Principal:    req.Amount,
			InterestRate: req.Interest,
			TotalDue:     int(float64(req.Amount) * (1 + req.Interest)),
			DueTurn:      g.st.Turn + req.Duration,
			Status:       LoanActive,
		}
		g.st.Gold -= req.Amount
		g.st.LoanRequests = append(g.st.LoanRequests[:i], g.st.LoanRequests[i+1:]...)
		g.st.Loans = append(g.st.Loans, loan)
		g.logf(LogWarning, "%d florins lent to %s of %s.", req.Amount, req.Borrower, req.Kingdom)
		return true
	}
	return false
}

// RejectLoan discards a pending request.
func (g *Game) RejectLoan(requestID string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	for i, req := range g.st.LoanRequests {
		if req.ID == requestID {
			g.st.LoanRequests = append(g.st.LoanRequests[:i], g.st.LoanRequests[i+1:]...)
			return true
		}
	}
	return false
}

// CollectDebt sends an agent after a defaulted borrower. The agent is busy
// for the rest of the turn regardless of outcome; a second failed attempt
// writes the loan off permanently.
func (g *Game) CollectDebt(loanID, agentID string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	var loan *Loan
	for _, l := range g.st.Loans {
		if l.ID == loanID {
			loan = l
			break
		}
	}
	agent := g.st.agentByID(agentID)
	if g.st.GameOver || loan == nil || agent == nil || agent.Busy || loan.Status != LoanDefaulted {
		return false
	}

	agent.Busy = true
	roll := g.rng.Float64() * 100
	if roll < float64(agent.Intimidation) {
		loan.Status = LoanCollected
		g.st.Gold += loan.TotalDue
		g.logf(LogSuccess, "%s came knocking on %s's door and took the money (+%d florins).", agent.Name, loan.Borrower, loan.TotalDue)
		return true
	}

	loan.FailedAttempts++
	if loan.FailedAttempts >= maxFailedAttempts {
		loan.Status = LoanLost
		g.logf(LogDanger, "%s slipped past %s and fled the city. The debt is written off.", loan.Borrower, agent.Name)
	} else {
		g.logf(LogDanger, "%s evaded %s. Collection failed (%d/%d).", loan.Borrower, agent.Name, loan.FailedAttempts, maxFailedAttempts)
	}
	return true
}

// outstandingLoans counts active and defaulted loans for the risk premium.
func (st *State) outstandingLoans() int {
	n := 0
	for _, l := range st.Loans {
		if l.Status == LoanActive || l.Status == LoanDefaulted {
			n++
		}
	}
	return n
}

// generateLoanRequests adds 1-3 requests per turn, but only while the player
// operates at least one bank. Requests land in bank-hosting kingdoms.
func (g *Game) generateLoanRequests() {
	var bankKingdoms []string
	seen := make(map[string]bool)
	for _, w := range g.st.Workshops {
		if w.Type == Bank && !seen[w.Kingdom] {
			seen[w.Kingdom] = true
			bankKingdoms = append(bankKingdoms, w.Kingdom)
		}
	}
	if len(bankKingdoms) == 0 {
		return
	}

	premium := float64(g.st.outstandingLoans()) * riskPremiumStep
	n := entropy.Between(g.rng, 1, 4)
	for i := 0; i < n; i++ {
		kingdom := bankKingdoms[entropy.Intn(g.rng, len(bankKingdoms))]

		var amount int
		var title string
		switch roll := g.rng.Float64(); {
		case roll < 0.5:
			amount = entropy.Between(g.rng, 500, 2000)
			title = fmt.Sprintf("Merchant %d", entropy.Intn(g.rng, 100))
		case roll < 0.8:
			amount = entropy.Between(g.rng, 2000, 7500)
			title = fmt.Sprintf("Guildmaster %d", entropy.Intn(g.rng, 100))
		default:
			amount = entropy.Between(g.rng, 7500, 20000)
			title = fmt.Sprintf("Count %d", entropy.Intn(g.rng, 100))
		}

		g.st.LoanRequests = append(g.st.LoanRequests, &LoanRequest{
			ID:        uuid.NewString(),
			Kingdom:   kingdom,
			Borrower:  title,
			Amount:    amount,
			Interest:  baseInterest + premium + g.rng.Float64()*interestJitter,
			Duration:  requestDuration,
			ExpiresIn: requestLifetime,
		})
	}
	g.logf(LogInfo, "%d new loan petitions have reached your banks.", n)
}

// expireLoanRequests ages open requests, dropping the stale ones.
func (g *Game) expireLoanRequests() {
	kept := g.st.LoanRequests[:0]
	for _, req := range g.st.LoanRequests {
		req.ExpiresIn--
		if req.ExpiresIn > 0 {
			kept = append(kept, req)
		}
	}
	g.st.LoanRequests = kept
}

// matureLoans settles every active loan past its due turn: 70% repay with
// interest, the rest default and await the collectors.
func (g *Game) matureLoans() {
	for _, l := range g.st.Loans {
		if l.Status != LoanActive || l.DueTurn > g.st.Turn {
			continue
		}
		if entropy.Chance(g.rng, repaymentChance) {
			l.Status = LoanPaid
			g.st.Gold += l.TotalDue
			g.logf(LogSuccess, "%s repaid the debt with interest (+%d florins).", l.Borrower, l.TotalDue)
		} else {
			l.Status = LoanDefaulted
			g.logf(LogDanger, "%s failed to pay! Send your men.", l.Borrower)
		}
	}
}
