package lotto

import "time"

// DrawStatus is the lifecycle state of a draw
type DrawStatus string

const (
	// DrawStatusScheduled is the initial state of every draw
	DrawStatusScheduled DrawStatus = "scheduled"

	// DrawStatusActive is accepted by the purchase and conduct guards but no
	// operation currently transitions a draw into it
	DrawStatusActive DrawStatus = "active"

	// DrawStatusCompleted is entered exactly once, by conducting the draw
	DrawStatusCompleted DrawStatus = "completed"
)

// Draw is a scheduled lottery event with a prize pool and, once conducted,
// an immutable set of winning numbers.
type Draw struct {
	ID             string     `json:"id"`
	DrawDate       time.Time  `json:"draw_date"`
	WinningNumbers NumberSet  `json:"winning_numbers,omitempty"`
	Status         DrawStatus `json:"status"`
	TotalPrize     float64    `json:"total_prize"`
	TicketsSold    int        `json:"tickets_sold"`
	CreatedAt      time.Time  `json:"created_at"`
}

// Open reports whether the draw still accepts ticket purchases
func (d *Draw) Open() bool {
	return d.Status == DrawStatusScheduled || d.Status == DrawStatusActive
}

// Ticket is a user's purchased entry into one draw
type Ticket struct {
	ID           string    `json:"id"`
	UserID       string    `json:"user_id"`
	DrawID       string    `json:"draw_id"`
	Numbers      NumberSet `json:"numbers"`
	PurchaseDate time.Time `json:"purchase_date"`
	Price        float64   `json:"price"`
	IsWinner     bool      `json:"is_winner"`
}

// WinningTicket pairs a winning ticket with its scoring detail
type WinningTicket struct {
	Ticket     *Ticket          `json:"ticket"`
	Validation WinnerValidation `json:"validation"`
}

// DrawResult is the outcome of conducting a draw
type DrawResult struct {
	Draw    *Draw           `json:"draw"`
	Winners []WinningTicket `json:"winners"`
}

// DrawSummary is a draw enriched with its ticket tallies, for reporting
type DrawSummary struct {
	*Draw
	TicketCount    int `json:"ticket_count"`
	WinningTickets int `json:"winning_tickets"`
}

// Statistics aggregates over a bounded window of recent draws
type Statistics struct {
	TotalDraws         int               `json:"total_draws"`
	TotalTicketsSold   int               `json:"total_tickets_sold"`
	TotalPrizesAwarded float64           `json:"total_prizes_awarded"`
	Odds               map[string]string `json:"odds"`
}

// ValidateDrawParameters reports whether a draw may be created: the draw date
// must be strictly in the future and the prize pool at least minPrize.
func ValidateDrawParameters(drawDate time.Time, totalPrize float64, now time.Time, minPrize float64) bool {
	return drawDate.After(now) && totalPrize >= minPrize
}
