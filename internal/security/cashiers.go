package security

// In-memory cashier registry (replace with the user admin backend later).
// Each terminal logs in with its cashier's id + secret and gets a JWT
// scoped to the perms below.
type Cashier struct {
	ID      string
	Name    string
	Secret  string
	Perms   []string // e.g. {"pos.read","pos.sell"}
	Enabled bool
}

var Cashiers = map[string]Cashier{
	"cashier-ana":   {ID: "cashier-ana", Name: "Ana", Secret: "ana-secret", Perms: []string{"pos.read", "pos.sell"}, Enabled: true},
	"cashier-ben":   {ID: "cashier-ben", Name: "Ben", Secret: "ben-secret", Perms: []string{"pos.read", "pos.sell"}, Enabled: true},
	"svc-reporting": {ID: "svc-reporting", Name: "Reporting", Secret: "rep-secret", Perms: []string{"pos.read"}, Enabled: true},
}
