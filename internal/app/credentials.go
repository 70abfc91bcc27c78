package app

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/fatih/color"

	"github.com/five82/bgmtty/internal/config"
)

const tokenPage = "https://bgm.tv/dev/app"

var (
	promptColor = color.New(color.FgCyan, color.Bold)
	hintColor   = color.New(color.Faint)
	okColor     = color.New(color.FgGreen)
)

// Init interactively asks for the application credentials and an access
// token and writes them to the settings file. Empty answers keep the
// current value.
func Init(opts Options, in io.Reader, out io.Writer) error {
	settings, err := config.Load(opts.ConfigPath)
	if err != nil && !errors.Is(err, config.ErrNotInitialized) {
		return fmt.Errorf("load settings: %w", err)
	}
	current := config.Auth{}
	if settings.Auth != nil {
		current = *settings.Auth
	}

	_, _ = hintColor.Fprintf(out, "Register an application and create a token at %s\n", tokenPage)
	p := &prompter{scanner: bufio.NewScanner(in), out: out}

	settings.Credentials.ClientID = p.ask("Client ID", settings.Credentials.ClientID)
	settings.Credentials.ClientSecret = p.ask("Client secret", settings.Credentials.ClientSecret)
	userID := p.ask("User ID", formatID(current.UserID))
	token := p.ask("Access token", current.AccessToken)
	if p.err != nil {
		return fmt.Errorf("read answer: %w", p.err)
	}

	id, err := strconv.Atoi(userID)
	if err != nil || id <= 0 {
		return fmt.Errorf("invalid user id %q", userID)
	}
	if token == "" {
		return errors.New("access token required")
	}
	if token != current.AccessToken || id != current.UserID {
		current = config.Auth{AccessToken: token, UserID: id, Time: time.Now().Unix()}
	}
	settings.Auth = &current

	if err := config.Save(opts.ConfigPath, settings); err != nil {
		return fmt.Errorf("save settings: %w", err)
	}
	path, _ := config.ResolvePath(opts.ConfigPath)
	_, _ = okColor.Fprintf(out, "Settings saved to %s\n", path)
	return nil
}

// prompter reads one answer per line and remembers the first read error.
type prompter struct {
	scanner *bufio.Scanner
	out     io.Writer
	err     error
}

func (p *prompter) ask(label, current string) string {
	if p.err != nil {
		return current
	}
	_, _ = promptColor.Fprint(p.out, label)
	if current != "" {
		_, _ = hintColor.Fprintf(p.out, " [%s]", mask(label, current))
	}
	_, _ = fmt.Fprint(p.out, ": ")

	if !p.scanner.Scan() {
		p.err = p.scanner.Err()
		if p.err == nil {
			p.err = io.ErrUnexpectedEOF
		}
		return current
	}
	answer := strings.TrimSpace(p.scanner.Text())
	if answer == "" {
		return current
	}
	return answer
}

// mask hides all but the last four characters of secrets.
func mask(label, value string) string {
	lower := strings.ToLower(label)
	if !strings.Contains(lower, "secret") && !strings.Contains(lower, "token") {
		return value
	}
	if len(value) <= 4 {
		return strings.Repeat("*", len(value))
	}
	return strings.Repeat("*", len(value)-4) + value[len(value)-4:]
}

func formatID(id int) string {
	if id <= 0 {
		return ""
	}
	return strconv.Itoa(id)
}
