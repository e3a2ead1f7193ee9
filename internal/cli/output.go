package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"time"
)

// Output handles formatting output based on the configured format
type Output struct {
	format string
}

// NewOutput creates a new Output formatter
func NewOutput(format string) *Output {
	return &Output{format: format}
}

// Print outputs data in the configured format
func (o *Output) Print(data any) {
	if o.format == "json" {
		o.printJSON(data)
	} else {
		o.printText(data)
	}
}

// PrintError outputs an error
func (o *Output) PrintError(err error) {
	if o.format == "json" {
		errData := map[string]any{
			"error": map[string]string{
				"message": err.Error(),
			},
		}
		data, _ := json.Marshal(errData)
		fmt.Fprintln(os.Stderr, string(data))
	} else {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
	}
}

// PrintMessage outputs a simple message
func (o *Output) PrintMessage(msg string) {
	if o.format == "json" {
		data, _ := json.Marshal(map[string]string{"message": msg})
		fmt.Println(string(data))
	} else {
		fmt.Println(msg)
	}
}

func (o *Output) printJSON(data any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

func (o *Output) printText(data any) {
	switch v := data.(type) {
	case Account:
		o.printAccount(v)
	case AuthResult:
		o.printAuthResult(v)
	case Room:
		o.printRoom(v)
	case RoomList:
		o.printRoomList(v)
	case RolesResult:
		o.printRolesResult(v)
	case HealthResult:
		o.printHealthResult(v)
	default:
		// Fallback to JSON for unknown types
		o.printJSON(data)
	}
}

// Account response type (matches API)
type Account struct {
	Username string `json:"username"`
}

// AuthResult combines username and token
type AuthResult struct {
	Username     string `json:"username"`
	SessionToken string `json:"session_token"`
}

// Room response type
type Room struct {
	ID          string            `json:"id"`
	Name        string            `json:"name"`
	Owner       string            `json:"owner"`
	Members     []string          `json:"members"`
	GameStarted bool              `json:"game_started"`
	Roles       map[string]string `json:"roles"`
	UserRole    string            `json:"user_role,omitempty"`
	IsOwner     bool              `json:"is_owner"`
}

// RoomSummary response type
type RoomSummary struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Owner       string `json:"owner"`
	MemberCount int    `json:"member_count"`
	GameStarted bool   `json:"game_started"`
}

// RoomList response type
type RoomList struct {
	Rooms []RoomSummary `json:"rooms"`
}

// RolesResult response type
type RolesResult struct {
	Roles map[string]string `json:"roles"`
}

// HealthResult response type
type HealthResult struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Accounts  int       `json:"accounts_count"`
	Rooms     int       `json:"rooms_count"`
}

func (o *Output) printAccount(a Account) {
	fmt.Printf("Username: %s\n", a.Username)
}

func (o *Output) printAuthResult(a AuthResult) {
	fmt.Printf("Username: %s\n", a.Username)
	fmt.Printf("Token: %s\n", a.SessionToken)
}

func (o *Output) printRoom(r Room) {
	fmt.Printf("Room: %s\n", r.ID)
	fmt.Printf("Name: %s\n", r.Name)
	state := "lobby"
	if r.GameStarted {
		state = "active"
	}
	fmt.Printf("State: %s\n", state)
	fmt.Printf("Members (%d):\n", len(r.Members))
	for _, m := range r.Members {
		ownerStr := ""
		if m == r.Owner {
			ownerStr = " [owner]"
		}
		roleStr := ""
		if role, ok := r.Roles[m]; ok {
			roleStr = " - " + role
		}
		fmt.Printf("  - %s%s%s\n", m, ownerStr, roleStr)
	}
	if r.UserRole != "" {
		fmt.Printf("Your role: %s\n", r.UserRole)
	}
}

func (o *Output) printRoomList(l RoomList) {
	fmt.Printf("Rooms (%d):\n", len(l.Rooms))
	for _, r := range l.Rooms {
		state := "lobby"
		if r.GameStarted {
			state = "active"
		}
		fmt.Printf("  - %s: %s (%d members, %s)\n", r.ID, r.Name, r.MemberCount, state)
	}
}

func (o *Output) printRolesResult(r RolesResult) {
	usernames := make([]string, 0, len(r.Roles))
	for username := range r.Roles {
		usernames = append(usernames, username)
	}
	sort.Strings(usernames)

	fmt.Println("Roles assigned:")
	for _, username := range usernames {
		fmt.Printf("  %s: %s\n", username, r.Roles[username])
	}
}

func (o *Output) printHealthResult(h HealthResult) {
	fmt.Printf("Status: %s\n", h.Status)
	fmt.Printf("Accounts: %d\n", h.Accounts)
	fmt.Printf("Rooms: %d\n", h.Rooms)
}
