package cli

import (
	"strings"
	"text/template"

	"github.com/iudanet/ludonova/internal/client/listing"
	pkgapi "github.com/iudanet/ludonova/pkg/api"
)

var templateFuncs = template.FuncMap{
	"status": func(s pkgapi.GameStatus) string { return s.DisplayName() },
	"stars": func(rating int) string {
		rating = max(0, min(rating, 5))
		return strings.Repeat("★", rating) + strings.Repeat("☆", 5-rating)
	},
	"join":     strings.Join,
	"ellipsis": func(n int) bool { return n == listing.Ellipsis },
	"hours":    func(minutes int) float64 { return float64(minutes) / 60 },
}

const usageTemplate = `
LudoNova Client

Usage:
  ludonova [OPTIONS] COMMAND [ARGS]

Options:
  --version           Show version information
  --server URL        API base URL (default: https://localhost:8443/api)
  --db PATH           Path to local session database (default: ludonova.db)
  --env ENV           development or production (default: development)
  --log-level LEVEL   debug, info, warn, error (default: warn)

Environment:
  LUDONOVA_API_URL, LUDONOVA_DB_PATH, LUDONOVA_ENV, LUDONOVA_LOG_LEVEL,
  LUDONOVA_SESSION_PASSPHRASE (encrypts stored tokens), LUDONOVA_SESSION_TTL

Commands:
  register                           Create an account and sign in
  login [username]                   Sign in with username and password
  steam-login                        Print the Steam sign in address
  steam-callback <url>               Finish Steam sign in with the redirect address
  logout                             Delete the local session
  status                             Show authentication status

  games [query] [--sort title|rating|release] [--desc] [--page N] [--size N]
                                     Browse the game catalog
  game <id>                          Show game details and reviews

  library [--status S] [--page N] [--size N]
                                     Show your library
  library-add <gameID> [--status S] [--notes TEXT]
  library-update <entryID> [--status S] [--progress N] [--playtime MIN] [--notes TEXT]
  library-remove <entryID>
  stats                              Show library statistics
  sync-steam                         Import games from your Steam account

  reviews [gameID]                   Show reviews of a game (or your own)
  review-add <gameID> <rating> <text>
  review-delete <reviewID>

  users                              List users (admin)
  user-delete <userID>               Delete a user (admin)

Statuses: PLAN_TO_PLAY, PLAYING, COMPLETED, DROPPED
`

const gamesListTemplate = `
=== Game Catalog ===
{{- with .Query }}
Search: {{ . }}
{{- end }}

{{- if eq .Result.TotalItems 0 }}
No games found.
{{ else }}
Found {{ .Result.TotalItems }} game(s), page {{ .Result.Page }} of {{ .Result.TotalPages }}:
{{ range .Result.Items }}
- [{{ .ID }}] {{ .Title }}
   {{- if .Rating }} ({{ printf "%.1f" .Rating }}){{ end }}
   {{- if .Genres }}
   Genres: {{ join .Genres ", " }}
   {{- end }}
{{- end }}

Pages: {{ range .Pages }}{{ if ellipsis . }}… {{ else }}{{ . }} {{ end }}{{ end }}
Use 'ludonova game <id>' to view details.
{{- end }}
`

const gameDetailsTemplate = `
=== {{ .Game.Title }} ===

ID:       {{ .Game.ID }}
{{- with .Game.ReleaseDate }}
Released: {{ . }}
{{- end }}
{{- if .Game.Genres }}
Genres:   {{ join .Game.Genres ", " }}
{{- end }}
{{- if .Game.Platforms }}
Platforms: {{ join .Game.Platforms ", " }}
{{- end }}
{{- if .Game.Rating }}
Rating:   {{ printf "%.1f" .Game.Rating }}
{{- end }}
{{- with .Game.Description }}

{{ . }}
{{- end }}

{{- if .Reviews }}

Reviews ({{ len .Reviews }}, average {{ printf "%.1f" .Average }}):
{{- range .Reviews }}
- {{ stars .Rating }} {{ .User.Username }}: {{ .Content }}
{{- end }}
{{- else }}

No reviews yet. Use 'ludonova review-add {{ .Game.ID }} <rating> <text>' to write one.
{{- end }}
`

const libraryListTemplate = `
=== My Library ===
{{- with .Status }}
Status: {{ status . }}
{{- end }}

{{- if eq (len .Items) 0 }}
No games found.

Use 'ludonova library-add <gameID>' to add your first game.
{{ else }}
{{ range .Items }}
- {{ .GameTitle }}
   Entry:    {{ .ID }} (game {{ .GameID }})
   Status:   {{ status .Status }}
   Progress: {{ .ProgressPercentage }}%
   {{- if .PlayTime }}
   Played:   {{ printf "%.1f" (hours .PlayTime) }} h
   {{- end }}
   {{- with .Notes }}
   Notes:    {{ . }}
   {{- end }}
{{- end }}

Page {{ .Page }} of {{ .Pages }} ({{ .Total }} game(s) total)
{{- end }}
`

const statsTemplate = `
=== Library Statistics ===

Total games:     {{ .TotalGames }}
Total play time: {{ printf "%.1f" (hours .TotalPlayTime) }} h
{{ range .Statuses }}
{{ printf "%-13s" (status .) }} {{ index $.StatusCounts . }}
{{- end }}
`

const reviewsListTemplate = `
=== {{ .Title }} ===

{{- if eq (len .Reviews) 0 }}
No reviews found.
{{ else }}
{{ range .Reviews }}
- [{{ .ID }}] {{ stars .Rating }} {{ with .Game.Title }}{{ . }} {{ end }}by {{ .User.Username }}
   {{ .Content }}
{{- end }}
{{- end }}
`

const usersListTemplate = `
=== Users ===

{{- if eq (len .Content) 0 }}
No users found.
{{ else }}
{{ range .Content }}
- [{{ .ID }}] {{ .Username }} ({{ .Role }})
   {{- with .Email }}
   Email: {{ . }}
   {{- end }}
   {{- with .SteamUser }}
   Steam: {{ .PersonaName }}
   {{- end }}
{{- end }}

Total: {{ .TotalElements }}
{{- end }}
`
