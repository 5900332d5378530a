package cli

import (
	"github.com/iudanet/ludonova/internal/client/iocli"
)

// LoginNotice tells the user that the session is gone and how to sign in again.
// It is the terminal counterpart of redirecting a browser to the login page.
type LoginNotice struct {
	io iocli.IO
}

// NewLoginNotice creates a notice printed to io
func NewLoginNotice(io iocli.IO) *LoginNotice {
	return &LoginNotice{io: io}
}

// RedirectToLogin implements api.LoginRedirector
func (n *LoginNotice) RedirectToLogin(route string) {
	n.io.Println()
	n.io.Printf("⚠️  Your session has expired (%s).\n", route)
	n.io.Println("Run 'ludonova login' or 'ludonova steam-login' to sign in again.")
}
