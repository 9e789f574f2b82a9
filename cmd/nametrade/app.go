package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/btcsuite/btcd/wire"
	"golang.org/x/term"

	"github.com/Klingon-tech/nametrade/config"
	"github.com/Klingon-tech/nametrade/internal/gateway"
	"github.com/Klingon-tech/nametrade/internal/log"
	"github.com/Klingon-tech/nametrade/internal/rpcclient"
	"github.com/Klingon-tech/nametrade/pkg/offer"
	"github.com/Klingon-tech/nametrade/pkg/tx"
	"github.com/Klingon-tech/nametrade/pkg/types"
)

// ErrUserInputConflict is returned when mutually exclusive flags are combined.
var ErrUserInputConflict = errors.New("An offer cannot be to both buy and sell.")

// app holds the state shared by every command.
type app struct {
	// Global flags
	configPath string
	network    string
	logLevel   string
	logJSON    bool

	cfg    *config.Config
	params *types.Params
	gw     gateway.Gateway
	close  func()

	stdin        io.Reader
	dialGateway  func(cfg *config.Config) (gateway.Gateway, func())
	readPassword func(prompt string) ([]byte, error)
}

func newApp() *app {
	return &app{
		stdin:        os.Stdin,
		dialGateway:  dialNode,
		readPassword: readPassword,
	}
}

// dialNode connects to the node described by cfg.
func dialNode(cfg *config.Config) (gateway.Gateway, func()) {
	rpc := rpcclient.NewWithTimeout(cfg.Endpoint(), cfg.RPC.User, cfg.RPC.Password, cfg.RPC.Timeout)
	c := gateway.NewClient(rpc)
	return c, c.Close
}

// setup loads the configuration, applies flag overrides and connects the
// gateway. Flags win over the configuration file.
func (a *app) setup(logLevelSet, logJSONSet bool) error {
	cfg, err := config.Load(a.configPath, config.NetworkType(a.network))
	if err != nil {
		return err
	}

	if logLevelSet {
		cfg.Log.Level = a.logLevel
	}
	if logJSONSet {
		cfg.Log.JSON = a.logJSON
	}
	if err := log.Init(cfg.Log.Level, cfg.Log.JSON, cfg.Log.File); err != nil {
		return fmt.Errorf("init logging: %w", err)
	}
	if a.configPath == "" {
		log.CLI.Info().Str("file", cfg.File).Msg("using config file")
	}

	params, err := cfg.Params()
	if err != nil {
		return err
	}

	a.cfg = cfg
	a.params = params
	a.gw, a.close = a.dialGateway(cfg)
	log.CLI.Debug().
		Str("network", params.Name).
		Str("endpoint", cfg.Endpoint()).
		Msg("gateway ready")
	return nil
}

func (a *app) teardown() {
	if a.close != nil {
		a.close()
		a.close = nil
	}
	if err := log.Close(); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: close log file: %v\n", err)
	}
}

// readOffer loads an offer block from path ("-" reads stdin) and returns the
// transaction it carries along with its description.
func (a *app) readOffer(path string) (*wire.MsgTx, string, error) {
	var (
		text []byte
		err  error
	)
	if path == "-" {
		text, err = io.ReadAll(a.stdin)
	} else {
		text, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, "", fmt.Errorf("read offer: %w", err)
	}

	raw, err := offer.Decode(string(text))
	if err != nil {
		return nil, "", err
	}
	msg, err := tx.Deserialize(raw)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", offer.ErrMalformedOffer, err)
	}
	if err := tx.Validate(msg); err != nil {
		return nil, "", fmt.Errorf("offer: %w", err)
	}
	return msg, offer.Description(string(text)), nil
}

// writeOffer renders msg as an offer block on w.
func writeOffer(w io.Writer, msg *wire.MsgTx, description string) error {
	raw, err := tx.Serialize(msg)
	if err != nil {
		return err
	}
	_, err = io.WriteString(w, offer.Encode(raw, description))
	return err
}

// readPassword prompts on stderr and reads a passphrase without echo. When
// stdin is not a terminal a single line is read instead.
func readPassword(prompt string) ([]byte, error) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		line, err := bufio.NewReader(os.Stdin).ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return nil, err
		}
		return []byte(strings.TrimRight(line, "\r\n")), nil
	}

	fmt.Fprint(os.Stderr, prompt)
	password, err := term.ReadPassword(fd)
	fmt.Fprintln(os.Stderr) // newline after hidden input
	if err != nil {
		return nil, err
	}
	return password, nil
}
