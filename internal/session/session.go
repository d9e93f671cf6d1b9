package session

import (
	"sort"
	"time"

	"github.com/google/uuid"
)

// RecentTurnLimit is how many chat turns the consultation page shows.
const RecentTurnLimit = 6

// ChatTurn is one question/answer exchange with the AI assistant.
type ChatTurn struct {
	Question string    `json:"question"`
	Answer   string    `json:"answer"`
	Time     time.Time `json:"time"`
}

// CartItem is a cart line. Total is always Quantity * UnitPrice.
type CartItem struct {
	Name      string `json:"name"`
	Quantity  int    `json:"quantity"`
	UnitPrice int    `json:"unit_price"`
	Total     int    `json:"total"`
}

// Order is what Checkout hands back before the cart is emptied.
type Order struct {
	Items []CartItem `json:"items"`
	Total int        `json:"total"`
}

// Session is the per-browser state. It moves between Anonymous
// (Authenticated=false, Username="") and Authenticated.
type Session struct {
	ID            string              `json:"id"`
	Authenticated bool                `json:"authenticated"`
	Username      string              `json:"username,omitempty"`
	History       []ChatTurn          `json:"history"`
	Cart          map[string]CartItem `json:"cart"`
	CreatedAt     time.Time           `json:"created_at"`
}

// New returns an anonymous session with a fresh id.
func New() *Session {
	return &Session{
		ID:        uuid.NewString(),
		History:   []ChatTurn{},
		Cart:      make(map[string]CartItem),
		CreatedAt: time.Now(),
	}
}

// Login binds username and moves the session to a new id, so a token handed
// out before login never names an authenticated session.
func (s *Session) Login(username string) {
	s.Rotate()
	s.Authenticated = true
	s.Username = username
}

// Logout returns the session to Anonymous under a new id. Chat history and
// cart belong to the person who was logged in, so they go too.
func (s *Session) Logout() {
	s.Rotate()
	s.Authenticated = false
	s.Username = ""
	s.ClearHistory()
	s.Cart = make(map[string]CartItem)
}

// Rotate gives the session a fresh id. The caller is expected to drop the
// old id from the store and hand out a new token.
func (s *Session) Rotate() {
	s.ID = uuid.NewString()
}

// AppendChatTurn keeps every turn for the life of the session.
func (s *Session) AppendChatTurn(question, answer string) {
	s.History = append(s.History, ChatTurn{Question: question, Answer: answer, Time: time.Now()})
}

// RecentTurns returns a copy of the last RecentTurnLimit turns, oldest first.
func (s *Session) RecentTurns() []ChatTurn {
	start := 0
	if len(s.History) > RecentTurnLimit {
		start = len(s.History) - RecentTurnLimit
	}
	out := make([]ChatTurn, len(s.History)-start)
	copy(out, s.History[start:])
	return out
}

func (s *Session) ClearHistory() {
	s.History = []ChatTurn{}
}

// AddToCart replaces any existing line for item; quantities do not accumulate.
func (s *Session) AddToCart(item string, quantity, unitPrice int) CartItem {
	if s.Cart == nil {
		s.Cart = make(map[string]CartItem)
	}
	line := CartItem{Name: item, Quantity: quantity, UnitPrice: unitPrice, Total: quantity * unitPrice}
	s.Cart[item] = line
	return line
}

// CartItems returns the cart lines sorted by name.
func (s *Session) CartItems() []CartItem {
	items := make([]CartItem, 0, len(s.Cart))
	for _, it := range s.Cart {
		items = append(items, it)
	}
	sort.Slice(items, func(i, j int) bool { return items[i].Name < items[j].Name })
	return items
}

func (s *Session) CartTotal() int {
	total := 0
	for _, it := range s.Cart {
		total += it.Total
	}
	return total
}

// Checkout empties the cart unconditionally. There is no payment step.
func (s *Session) Checkout() Order {
	order := Order{Items: s.CartItems(), Total: s.CartTotal()}
	s.Cart = make(map[string]CartItem)
	return order
}
