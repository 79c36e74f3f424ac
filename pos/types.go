package pos

import "time"

// =============================================================================
// IDENTIFIERS
// =============================================================================

type TransactionID string

// Role is a staff role as issued by the auth collaborator.
type Role string

const (
	RoleAdmin   Role = "admin"
	RoleCashier Role = "kasir"
)

func (r Role) Valid() bool { return r == RoleAdmin || r == RoleCashier }

// Identity is the authenticated caller of an operation.
type Identity struct {
	ID       string
	Username string
	Name     string
	Role     Role
}

func (i Identity) IsAdmin() bool { return i.Role == RoleAdmin }

// RequireAdmin returns an *AuthorizationError unless the identity is an admin.
func RequireAdmin(actor Identity, action string) error {
	if actor.IsAdmin() {
		return nil
	}
	return &AuthorizationError{Actor: actor.Username, Role: actor.Role, Action: action}
}

// =============================================================================
// TRANSACTION - One completed cash sale
// =============================================================================

type PaymentMethod string

const PaymentCash PaymentMethod = "cash"

type Status string

const StatusCompleted Status = "completed"

// LineItem is one catalog item within a sale. Name and Price are snapshots
// taken at sale time; later catalog edits never touch them.
type LineItem struct {
	MenuItemID string
	Name       string
	Price      Money
	Quantity   int
}

// Subtotal is Price × Quantity.
func (li LineItem) Subtotal() Money { return li.Price.Times(li.Quantity) }

// Transaction is an immutable sale record.
type Transaction struct {
	ID            TransactionID
	Items         []LineItem
	Total         Money
	PaymentMethod PaymentMethod
	CashReceived  Money
	Change        Money
	OperatorID    string
	OperatorName  string
	CreatedAt     time.Time
	Status        Status
}

// Clone returns a copy that shares no slices with t.
func (t Transaction) Clone() Transaction {
	c := t
	c.Items = append([]LineItem(nil), t.Items...)
	return c
}

// Candidate is a proposed sale as submitted by a cashier.
// Total is optional; when present it must match the recomputed total.
type Candidate struct {
	Items        []LineItem
	Total        *Money
	CashReceived Money
}

// =============================================================================
// SUMMARIES - Derived, never persisted
// =============================================================================

// TopItemsLimit bounds the popularity ranking.
const TopItemsLimit = 5

type ItemRank struct {
	Name     string
	Quantity int
}

type Summary struct {
	Label        string
	Window       Window
	Orders       int
	Revenue      Money
	PopularItems []ItemRank
}

type Stats struct {
	Orders  int
	Revenue Money
}

type Dashboard struct {
	Today     Stats
	AllTime   Stats
	MenuItems int
}
